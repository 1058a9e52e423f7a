package reviewsvc

import (
	"context"
	"fmt"

	basesvc "feedo/internal/api/base/service"
	models "feedo/internal/api/review/models"
	"feedo/internal/common"
	"feedo/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ThumbnailService là cấu trúc chứa các phương thức liên quan đến thumbnail
type ThumbnailService struct {
	*basesvc.BaseServiceMongoImpl[models.Thumbnail]
}

// NewThumbnailService tạo mới ThumbnailService
func NewThumbnailService() (*ThumbnailService, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Thumbnails)
	if !exist {
		return nil, fmt.Errorf("failed to get thumbnails collection: %v", common.ErrNotFound)
	}
	return &ThumbnailService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Thumbnail](collection),
	}, nil
}

// FindByVideoID tìm thumbnail theo video.
func (s *ThumbnailService) FindByVideoID(ctx context.Context, videoID primitive.ObjectID) (*models.Thumbnail, error) {
	thumbnail, err := s.BaseServiceMongoImpl.FindOne(ctx, bson.M{"videoId": videoID}, nil)
	if err != nil {
		return nil, err
	}
	return &thumbnail, nil
}
