package uploadsvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	basesvc "feedo/internal/api/base/service"
	models "feedo/internal/api/upload/models"
	"feedo/internal/common"
	"feedo/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Phiên multipart giữ tối đa 6 giờ, dài hơn thời hạn URL part (5 giờ)
// để client kịp dùng URL cuối cùng được ký.
const sessionTTL = 6 * time.Hour

// SessionService quản lý các phiên multipart upload đang mở.
type SessionService struct {
	*basesvc.BaseServiceMongoImpl[models.UploadSession]
}

// NewSessionService tạo mới SessionService
func NewSessionService() (*SessionService, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.UploadSessions)
	if !exist {
		return nil, fmt.Errorf("failed to get upload sessions collection: %v", common.ErrNotFound)
	}
	return &SessionService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.UploadSession](collection),
	}, nil
}

// Open ghi lại phiên multipart vừa mở trên storage backend.
func (s *SessionService) Open(ctx context.Context, workspaceID primitive.ObjectID, fileName, key, uploadID, contentType string, partSize int64) (*models.UploadSession, error) {
	session := models.UploadSession{
		WorkspaceID: workspaceID,
		FileName:    fileName,
		Key:         key,
		UploadID:    uploadID,
		ContentType: contentType,
		PartSize:    partSize,
		Status:      models.SessionPending,
		ExpiresAt:   time.Now().Add(sessionTTL).UnixMilli(),
	}
	created, err := s.BaseServiceMongoImpl.InsertOne(ctx, session)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// FindOpen tìm phiên đang mở theo uploadId. Phiên đã đóng hoặc hết hạn
// trả về ErrUploadSessionGone.
func (s *SessionService) FindOpen(ctx context.Context, uploadID string) (*models.UploadSession, error) {
	session, err := s.BaseServiceMongoImpl.FindOne(ctx, bson.M{"uploadId": uploadID}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUploadSessionGone
		}
		return nil, err
	}
	if session.Status != models.SessionPending {
		return nil, common.ErrUploadSessionGone
	}
	if session.ExpiresAt > 0 && session.ExpiresAt < time.Now().UnixMilli() {
		return nil, common.ErrUploadSessionGone
	}
	return &session, nil
}

// Close đánh dấu phiên đã hoàn tất hoặc đã hủy.
func (s *SessionService) Close(ctx context.Context, sessionID primitive.ObjectID, status string) error {
	update := &basesvc.UpdateData{Set: map[string]interface{}{"status": status}}
	_, err := s.BaseServiceMongoImpl.UpdateById(ctx, sessionID, update)
	return err
}
