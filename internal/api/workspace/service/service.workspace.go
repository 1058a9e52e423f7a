// Package workspacesvc - service cho Workspace: collaborator, quota, số liệu tổng hợp.
package workspacesvc

import (
	"context"
	"fmt"
	"time"

	authmodels "feedo/internal/api/auth/models"
	authsvc "feedo/internal/api/auth/service"
	basesvc "feedo/internal/api/base/service"
	models "feedo/internal/api/workspace/models"
	"feedo/internal/common"
	"feedo/internal/global"
	"feedo/internal/utility"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const bytesPerGB = int64(1024 * 1024 * 1024)

// WorkspaceService là cấu trúc chứa các phương thức liên quan đến workspace
type WorkspaceService struct {
	*basesvc.BaseServiceMongoImpl[models.Workspace]
}

// NewWorkspaceService tạo mới WorkspaceService
func NewWorkspaceService() (*WorkspaceService, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Workspaces)
	if !exist {
		return nil, fmt.Errorf("failed to get workspaces collection: %v", common.ErrNotFound)
	}
	return &WorkspaceService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Workspace](collection),
	}, nil
}

// Create tạo workspace mới. Owner tự động là collaborator với quyền owner.
func (s *WorkspaceService) Create(ctx context.Context, ownerID primitive.ObjectID, ownerEmail string, name string, description string) (*models.Workspace, error) {
	ws := models.Workspace{
		Name:        name,
		Description: description,
		Owner:       ownerID,
		Collaborators: []models.Collaborator{
			{Email: ownerEmail, Permission: models.PermissionOwner},
		},
		NumMembers:  1,
		StorageUsed: 0,
		VideoCount:  0,
	}
	created, err := s.BaseServiceMongoImpl.InsertOne(ctx, ws)
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"workspace_id": created.ID.Hex(), "owner": ownerEmail}).Info("Workspace: Tạo workspace mới")
	return &created, nil
}

// FindForUser trả về các workspace mà email là collaborator.
func (s *WorkspaceService) FindForUser(ctx context.Context, email string) ([]models.Workspace, error) {
	filter := bson.M{"collaborators.email": email}
	return s.BaseServiceMongoImpl.Find(ctx, filter, nil)
}

// GetPermissionForEmail trả về quyền của email trong workspace, rỗng nếu không phải thành viên.
func (s *WorkspaceService) GetPermissionForEmail(ctx context.Context, workspaceID primitive.ObjectID, email string) (string, error) {
	ws, err := s.BaseServiceMongoImpl.FindOneById(ctx, workspaceID)
	if err != nil {
		return "", err
	}
	return ws.GetPermissionForEmail(email), nil
}

// AddCollaborator thêm collaborator mới. Filter chặn email đã là thành viên để
// tránh trùng lặp khi hai request chạy song song.
func (s *WorkspaceService) AddCollaborator(ctx context.Context, workspaceID primitive.ObjectID, email string, permission string) (*models.Workspace, error) {
	if permission == models.PermissionOwner {
		return nil, common.NewError(common.ErrCodeBusinessOperation, "Không thể thêm collaborator với quyền owner", common.StatusBadRequest, nil)
	}
	filter := bson.M{
		"_id":                 workspaceID,
		"collaborators.email": bson.M{"$ne": email},
	}
	// UpdateData không biểu diễn được $inc, dùng driver trực tiếp để push
	// collaborator và tăng numMembers trong cùng một update
	update := bson.M{
		"$push": bson.M{"collaborators": models.Collaborator{Email: email, Permission: permission}},
		"$inc":  bson.M{"numMembers": 1},
		"$set":  bson.M{"updatedAt": time.Now().UnixMilli()},
	}
	result, err := s.Collection().UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	if result.MatchedCount == 0 {
		return nil, common.NewError(common.ErrCodeBusinessOperation, "Email đã là thành viên của workspace hoặc workspace không tồn tại", common.StatusConflict, nil)
	}

	updated, err := s.BaseServiceMongoImpl.FindOneById(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// UpdateCollaboratorPermission đổi quyền một collaborator bằng arrayFilters,
// cập nhật tại chỗ đúng phần tử khớp email.
func (s *WorkspaceService) UpdateCollaboratorPermission(ctx context.Context, workspaceID primitive.ObjectID, email string, permission string) (*models.Workspace, error) {
	ws, err := s.BaseServiceMongoImpl.FindOneById(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	current := ws.GetPermissionForEmail(email)
	if current == "" {
		return nil, common.NewError(common.ErrCodeBusinessOperation, "Email không phải thành viên của workspace", common.StatusNotFound, nil)
	}
	if current == models.PermissionOwner || permission == models.PermissionOwner {
		return nil, common.NewError(common.ErrCodeBusinessOperation, "Không thể thay đổi quyền owner", common.StatusBadRequest, nil)
	}

	// UpdateData không biểu diễn được arrayFilters, dùng driver trực tiếp
	arrayFilters := options.ArrayFilters{
		Filters: []interface{}{bson.M{"c.email": email}},
	}
	updateOpts := options.Update().SetArrayFilters(arrayFilters)
	update := bson.M{
		"$set": bson.M{
			"collaborators.$[c].permission": permission,
			"updatedAt":                     time.Now().UnixMilli(),
		},
	}
	result, err := s.Collection().UpdateOne(ctx, bson.M{"_id": workspaceID}, update, updateOpts)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	if result.MatchedCount == 0 {
		return nil, common.ErrNotFound
	}

	updated, err := s.BaseServiceMongoImpl.FindOneById(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// RemoveCollaborator gỡ collaborator khỏi workspace. Không thể gỡ owner.
func (s *WorkspaceService) RemoveCollaborator(ctx context.Context, workspaceID primitive.ObjectID, email string) (*models.Workspace, error) {
	ws, err := s.BaseServiceMongoImpl.FindOneById(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	current := ws.GetPermissionForEmail(email)
	if current == "" {
		return nil, common.NewError(common.ErrCodeBusinessOperation, "Email không phải thành viên của workspace", common.StatusNotFound, nil)
	}
	if current == models.PermissionOwner {
		return nil, common.NewError(common.ErrCodeBusinessOperation, "Không thể gỡ owner khỏi workspace", common.StatusBadRequest, nil)
	}

	update := bson.M{
		"$pull": bson.M{"collaborators": bson.M{"email": email}},
		"$inc":  bson.M{"numMembers": -1},
		"$set":  bson.M{"updatedAt": time.Now().UnixMilli()},
	}
	result, err := s.Collection().UpdateOne(ctx, bson.M{"_id": workspaceID}, update)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	if result.MatchedCount == 0 {
		return nil, common.ErrNotFound
	}

	updated, err := s.BaseServiceMongoImpl.FindOneById(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// ApplyUploadAggregates cập nhật số liệu tổng hợp của workspace bằng $inc atomic.
// sizeDelta tính bằng byte, có thể âm khi xóa video.
func (s *WorkspaceService) ApplyUploadAggregates(ctx context.Context, workspaceID primitive.ObjectID, sizeDelta int64, videoDelta int64) error {
	update := bson.M{
		"$inc": bson.M{
			"storageUsed": sizeDelta,
			"videoCount":  videoDelta,
		},
		"$set": bson.M{"updatedAt": time.Now().UnixMilli()},
	}
	result, err := s.Collection().UpdateOne(ctx, bson.M{"_id": workspaceID}, update)
	if err != nil {
		return common.ConvertMongoError(err)
	}
	if result.MatchedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}

// StorageUsedForUser tính tổng dung lượng (byte) các workspace mà email là
// owner hoặc editor. Quota tính trên tổng này chứ không trên từng workspace.
func (s *WorkspaceService) StorageUsedForUser(ctx context.Context, email string) (int64, error) {
	filter := bson.M{
		"collaborators": bson.M{
			"$elemMatch": bson.M{
				"email":      email,
				"permission": bson.M{"$in": []string{models.PermissionOwner, models.PermissionEditor}},
			},
		},
	}
	workspaces, err := s.BaseServiceMongoImpl.Find(ctx, filter, nil)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, ws := range workspaces {
		total += ws.StorageUsed
	}
	return total, nil
}

// QuotaStatus số liệu quota trả về cho client.
type QuotaStatus struct {
	StorageUsed      int64  `json:"storageUsed"`      // dung lượng workspace hiện tại
	VideoCount       int64  `json:"videoCount"`       // số video trong workspace
	OwnerStorageUsed int64  `json:"ownerStorageUsed"` // tổng dung lượng owner đang dùng trên mọi workspace
	QuotaBytes       int64  `json:"quotaBytes"`
	QuotaRemaining   int64  `json:"quotaRemaining"`
	Tier             string `json:"tier"`
}

// GetQuotaStatus trả về tình trạng quota của workspace theo tier của owner.
// Hạn mức áp lên tổng dung lượng owner dùng trên mọi workspace họ sở hữu/biên tập.
func (s *WorkspaceService) GetQuotaStatus(ctx context.Context, workspaceID primitive.ObjectID) (*QuotaStatus, error) {
	ws, err := s.BaseServiceMongoImpl.FindOneById(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	userService, err := authsvc.NewUserService()
	if err != nil {
		return nil, err
	}
	owner, err := userService.FindOneById(ctx, ws.Owner)
	if err != nil {
		return nil, err
	}
	ownerUsed, err := s.StorageUsedForUser(ctx, owner.Email)
	if err != nil {
		return nil, err
	}
	quotaBytes := authmodels.TierQuotaGB(owner.Tier) * bytesPerGB
	remaining := quotaBytes - ownerUsed
	if remaining < 0 {
		remaining = 0
	}
	return &QuotaStatus{
		StorageUsed:      ws.StorageUsed,
		VideoCount:       ws.VideoCount,
		OwnerStorageUsed: ownerUsed,
		QuotaBytes:       quotaBytes,
		QuotaRemaining:   remaining,
		Tier:             owner.Tier,
	}, nil
}

// CheckQuota kiểm tra dung lượng còn lại trước khi upload. Trả về ErrQuotaExceeded
// nếu thêm addBytes sẽ vượt hạn mức theo tier của owner. Gọi TRƯỚC mọi tương tác
// với object storage để không tốn request khi chắc chắn thất bại.
func (s *WorkspaceService) CheckQuota(ctx context.Context, workspaceID primitive.ObjectID, addBytes int64) error {
	status, err := s.GetQuotaStatus(ctx, workspaceID)
	if err != nil {
		return err
	}
	if status.OwnerStorageUsed+addBytes > status.QuotaBytes {
		logrus.WithFields(logrus.Fields{
			"workspace_id": workspaceID.Hex(),
			"storage_used": status.OwnerStorageUsed,
			"add_bytes":    addBytes,
			"quota_bytes":  status.QuotaBytes,
			"tier":         status.Tier,
		}).Warn("Workspace: Vượt hạn mức lưu trữ")
		// Giữ nguyên code + message của ErrQuotaExceeded để errors.Is vẫn khớp,
		// đính kèm hạn mức còn lại trong Details cho client hiển thị.
		return common.NewError(common.ErrCodeUploadQuota, "Vượt hạn mức lưu trữ của gói hiện tại", common.StatusForbidden, map[string]interface{}{
			"quotaRemaining":      status.QuotaRemaining,
			"quotaRemainingHuman": utility.FormatBytes(uint64(status.QuotaRemaining)),
			"requestedBytes":      addBytes,
			"requestedHuman":      utility.FormatBytes(uint64(addBytes)),
			"tier":                status.Tier,
		})
	}
	return nil
}
