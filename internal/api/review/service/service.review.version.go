package reviewsvc

import (
	"context"
	"errors"
	"fmt"

	basesvc "feedo/internal/api/base/service"
	models "feedo/internal/api/review/models"
	"feedo/internal/common"
	"feedo/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// VersionService là cấu trúc chứa các phương thức liên quan đến version
type VersionService struct {
	*basesvc.BaseServiceMongoImpl[models.Version]
	projectService *ProjectService
}

// NewVersionService tạo mới VersionService
func NewVersionService() (*VersionService, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Versions)
	if !exist {
		return nil, fmt.Errorf("failed to get versions collection: %v", common.ErrNotFound)
	}
	projectService, err := NewProjectService()
	if err != nil {
		return nil, err
	}
	return &VersionService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Version](collection),
		projectService:       projectService,
	}, nil
}

// FindProjectOfVersion trả về project chứa version (dùng để kiểm tra quyền trước khi tạo).
func (s *VersionService) FindProjectOfVersion(ctx context.Context, projectID primitive.ObjectID) (*models.Project, error) {
	project, err := s.projectService.FindOneById(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// NextVersionNumber trả về số version kế tiếp của project: max(hiện có)+1, bắt đầu từ 1.
func (s *VersionService) NextVersionNumber(ctx context.Context, projectID primitive.ObjectID) (int, error) {
	opts := options.FindOne().SetSort(bson.M{"version": -1})
	latest, err := s.BaseServiceMongoImpl.FindOne(ctx, bson.M{"projectId": projectID}, opts)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return 1, nil
		}
		return 0, err
	}
	return latest.Version + 1, nil
}

// CreateVersion tạo version mới với số version max+1 và ghi bản tóm tắt vào project.
// Index unique (projectId, version) chặn hai request song song nhận cùng một số;
// khi đụng index thì thử lại với số kế tiếp.
func (s *VersionService) CreateVersion(ctx context.Context, version models.Version) (*models.Version, error) {
	project, err := s.projectService.FindOneById(ctx, version.ProjectID)
	if err != nil {
		return nil, err
	}
	if version.WorkspaceID.IsZero() {
		version.WorkspaceID = project.WorkspaceID
	}

	created, err := insertVersionWithRetry(ctx, version, s.NextVersionNumber, s.BaseServiceMongoImpl.InsertOne)
	if err != nil {
		return nil, err
	}

	ref := models.VersionRef{
		VersionID: created.ID,
		Number:    created.Version,
		Size:      created.Size,
		CreatedAt: created.CreatedAt,
	}
	if err := s.projectService.AppendVersionRef(ctx, version.ProjectID, ref); err != nil {
		return nil, err
	}
	return &created, nil
}

// insertVersionWithRetry gán số version max+1 rồi insert, thử lại tối đa 3 lần
// khi đụng index unique (projectId, version) do hai request song song nhận cùng số.
// Lỗi khác duplicate, hoặc hết lượt thử, trả về ngay.
func insertVersionWithRetry(
	ctx context.Context,
	version models.Version,
	nextNumber func(context.Context, primitive.ObjectID) (int, error),
	insert func(context.Context, models.Version) (models.Version, error),
) (models.Version, error) {
	const maxAttempts = 3
	var created models.Version
	for attempt := 0; attempt < maxAttempts; attempt++ {
		number, err := nextNumber(ctx, version.ProjectID)
		if err != nil {
			return models.Version{}, err
		}
		version.Version = number
		created, err = insert(ctx, version)
		if err == nil {
			return created, nil
		}
		if errors.Is(err, common.ErrDuplicate) && attempt < maxAttempts-1 {
			continue
		}
		return models.Version{}, err
	}
	return created, nil
}

// DeleteVersion xóa version và gỡ bản tóm tắt khỏi project.
// Relationship check trong BaseService chặn xóa khi version còn video document.
func (s *VersionService) DeleteVersion(ctx context.Context, versionID primitive.ObjectID) error {
	version, err := s.BaseServiceMongoImpl.FindOneById(ctx, versionID)
	if err != nil {
		return err
	}
	if err := s.BaseServiceMongoImpl.DeleteById(ctx, versionID); err != nil {
		return err
	}
	return s.projectService.RemoveVersionRef(ctx, version.ProjectID, versionID)
}
