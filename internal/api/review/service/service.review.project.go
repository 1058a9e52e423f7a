// Package reviewsvc - service cho domain review: project, version, video, thumbnail.
package reviewsvc

import (
	"context"
	"fmt"
	"strings"
	"time"

	basesvc "feedo/internal/api/base/service"
	models "feedo/internal/api/review/models"
	"feedo/internal/common"
	"feedo/internal/global"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProjectService là cấu trúc chứa các phương thức liên quan đến project
type ProjectService struct {
	*basesvc.BaseServiceMongoImpl[models.Project]
}

// NewProjectService tạo mới ProjectService
func NewProjectService() (*ProjectService, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Projects)
	if !exist {
		return nil, fmt.Errorf("failed to get projects collection: %v", common.ErrNotFound)
	}
	return &ProjectService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Project](collection),
	}, nil
}

// ChangeStatus chuyển trạng thái project theo bảng chuyển trạng thái.
// Chuyển không hợp lệ bị từ chối kèm danh sách trạng thái cho phép.
func (s *ProjectService) ChangeStatus(ctx context.Context, projectID primitive.ObjectID, newStatus string) (*models.Project, error) {
	project, err := s.BaseServiceMongoImpl.FindOneById(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.Status == newStatus {
		return &project, nil
	}
	if !models.CanTransition(project.Status, newStatus) {
		allowed := models.AllowedNextStatuses(project.Status)
		msg := fmt.Sprintf("Không thể chuyển từ '%s' sang '%s'", project.Status, newStatus)
		if len(allowed) > 0 {
			msg += ". Các trạng thái hợp lệ: " + strings.Join(allowed, ", ")
		} else {
			msg += ". Trạng thái '" + project.Status + "' là trạng thái cuối"
		}
		return nil, common.NewError(common.ErrCodeBusinessState, msg, common.StatusBadRequest, nil)
	}

	update := &basesvc.UpdateData{Set: map[string]interface{}{"status": newStatus}}
	updated, err := s.BaseServiceMongoImpl.UpdateById(ctx, projectID, update)
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"project_id": projectID.Hex(),
		"from":       project.Status,
		"to":         newStatus,
	}).Info("Project: Chuyển trạng thái")
	return &updated, nil
}

// AppendVersionRef thêm bản tóm tắt version vào project và tăng numVersions atomic.
func (s *ProjectService) AppendVersionRef(ctx context.Context, projectID primitive.ObjectID, ref models.VersionRef) error {
	update := bson.M{
		"$push": bson.M{"versions": ref},
		"$inc":  bson.M{"numVersions": 1},
		"$set":  bson.M{"updatedAt": time.Now().UnixMilli()},
	}
	result, err := s.Collection().UpdateOne(ctx, bson.M{"_id": projectID}, update)
	if err != nil {
		return common.ConvertMongoError(err)
	}
	if result.MatchedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}

// RemoveVersionRef gỡ bản tóm tắt version khỏi project và giảm numVersions.
func (s *ProjectService) RemoveVersionRef(ctx context.Context, projectID primitive.ObjectID, versionID primitive.ObjectID) error {
	update := bson.M{
		"$pull": bson.M{"versions": bson.M{"versionId": versionID}},
		"$inc":  bson.M{"numVersions": -1},
		"$set":  bson.M{"updatedAt": time.Now().UnixMilli()},
	}
	result, err := s.Collection().UpdateOne(ctx, bson.M{"_id": projectID}, update)
	if err != nil {
		return common.ConvertMongoError(err)
	}
	if result.MatchedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}
