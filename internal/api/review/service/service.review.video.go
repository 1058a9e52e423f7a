package reviewsvc

import (
	"context"
	"fmt"
	"time"

	basesvc "feedo/internal/api/base/service"
	models "feedo/internal/api/review/models"
	"feedo/internal/common"
	"feedo/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// VideoService là cấu trúc chứa các phương thức liên quan đến video document
type VideoService struct {
	*basesvc.BaseServiceMongoImpl[models.Video]
}

// NewVideoService tạo mới VideoService
func NewVideoService() (*VideoService, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Videos)
	if !exist {
		return nil, fmt.Errorf("failed to get videos collection: %v", common.ErrNotFound)
	}
	return &VideoService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Video](collection),
	}, nil
}

// FindByVersionID tìm video document theo version.
func (s *VideoService) FindByVersionID(ctx context.Context, versionID primitive.ObjectID) (*models.Video, error) {
	video, err := s.BaseServiceMongoImpl.FindOne(ctx, bson.M{"versionId": versionID}, nil)
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// AddComment thêm comment vào video.
func (s *VideoService) AddComment(ctx context.Context, videoID primitive.ObjectID, comment models.Comment) (*models.Video, error) {
	update := &basesvc.UpdateData{
		Push: map[string]interface{}{"comments": comment},
	}
	updated, err := s.BaseServiceMongoImpl.UpdateById(ctx, videoID, update)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// ResolveComment cập nhật isResolved của một comment tại chỗ bằng arrayFilters,
// khóa theo id của phần tử. Không xóa-rồi-thêm để tránh race với request song song.
func (s *VideoService) ResolveComment(ctx context.Context, videoID primitive.ObjectID, commentID string, isResolved bool, resolver *models.Resolver) (*models.Video, error) {
	set := bson.M{
		"comments.$[c].isResolved": isResolved,
		"updatedAt":                time.Now().UnixMilli(),
	}
	if isResolved && resolver != nil {
		set["comments.$[c].resolved"] = resolver
	}
	update := bson.M{"$set": set}
	if !isResolved {
		update["$unset"] = bson.M{"comments.$[c].resolved": ""}
	}
	arrayFilters := options.ArrayFilters{
		Filters: []interface{}{bson.M{"c.id": commentID}},
	}
	updateOpts := options.Update().SetArrayFilters(arrayFilters)

	result, err := s.Collection().UpdateOne(ctx, bson.M{"_id": videoID}, update, updateOpts)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	if result.MatchedCount == 0 {
		return nil, common.ErrNotFound
	}
	if result.ModifiedCount == 0 {
		// Video tồn tại nhưng không có comment khớp id hoặc trạng thái đã đúng
		video, findErr := s.BaseServiceMongoImpl.FindOneById(ctx, videoID)
		if findErr != nil {
			return nil, findErr
		}
		for _, c := range video.Comments {
			if c.ID == commentID {
				return &video, nil
			}
		}
		return nil, common.NewError(common.ErrCodeBusinessOperation, "Không tìm thấy comment trong video", common.StatusNotFound, nil)
	}

	updated, err := s.BaseServiceMongoImpl.FindOneById(ctx, videoID)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteComment xóa comment khỏi video theo id.
func (s *VideoService) DeleteComment(ctx context.Context, videoID primitive.ObjectID, commentID string) (*models.Video, error) {
	update := bson.M{
		"$pull": bson.M{"comments": bson.M{"id": commentID}},
		"$set":  bson.M{"updatedAt": time.Now().UnixMilli()},
	}
	result, err := s.Collection().UpdateOne(ctx, bson.M{"_id": videoID}, update)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	if result.MatchedCount == 0 {
		return nil, common.ErrNotFound
	}
	if result.ModifiedCount == 0 {
		return nil, common.NewError(common.ErrCodeBusinessOperation, "Không tìm thấy comment trong video", common.StatusNotFound, nil)
	}
	updated, err := s.BaseServiceMongoImpl.FindOneById(ctx, videoID)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// AddAnnotation thêm annotation vào video.
func (s *VideoService) AddAnnotation(ctx context.Context, videoID primitive.ObjectID, annotation models.Annotation) (*models.Video, error) {
	update := &basesvc.UpdateData{
		Push: map[string]interface{}{"annotations": annotation},
	}
	updated, err := s.BaseServiceMongoImpl.UpdateById(ctx, videoID, update)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// ResolveAnnotation cập nhật isResolved của một annotation tại chỗ bằng arrayFilters.
func (s *VideoService) ResolveAnnotation(ctx context.Context, videoID primitive.ObjectID, annotationID string, isResolved bool, resolver *models.Resolver) (*models.Video, error) {
	set := bson.M{
		"annotations.$[a].isResolved": isResolved,
		"updatedAt":                   time.Now().UnixMilli(),
	}
	if isResolved && resolver != nil {
		set["annotations.$[a].resolved"] = resolver
	}
	update := bson.M{"$set": set}
	if !isResolved {
		update["$unset"] = bson.M{"annotations.$[a].resolved": ""}
	}
	arrayFilters := options.ArrayFilters{
		Filters: []interface{}{bson.M{"a.id": annotationID}},
	}
	updateOpts := options.Update().SetArrayFilters(arrayFilters)

	result, err := s.Collection().UpdateOne(ctx, bson.M{"_id": videoID}, update, updateOpts)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	if result.MatchedCount == 0 {
		return nil, common.ErrNotFound
	}
	if result.ModifiedCount == 0 {
		video, findErr := s.BaseServiceMongoImpl.FindOneById(ctx, videoID)
		if findErr != nil {
			return nil, findErr
		}
		for _, a := range video.Annotations {
			if a.ID == annotationID {
				return &video, nil
			}
		}
		return nil, common.NewError(common.ErrCodeBusinessOperation, "Không tìm thấy annotation trong video", common.StatusNotFound, nil)
	}

	updated, err := s.BaseServiceMongoImpl.FindOneById(ctx, videoID)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteAnnotation xóa annotation khỏi video theo id.
func (s *VideoService) DeleteAnnotation(ctx context.Context, videoID primitive.ObjectID, annotationID string) (*models.Video, error) {
	update := bson.M{
		"$pull": bson.M{"annotations": bson.M{"id": annotationID}},
		"$set":  bson.M{"updatedAt": time.Now().UnixMilli()},
	}
	result, err := s.Collection().UpdateOne(ctx, bson.M{"_id": videoID}, update)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	if result.MatchedCount == 0 {
		return nil, common.ErrNotFound
	}
	if result.ModifiedCount == 0 {
		return nil, common.NewError(common.ErrCodeBusinessOperation, "Không tìm thấy annotation trong video", common.StatusNotFound, nil)
	}
	updated, err := s.BaseServiceMongoImpl.FindOneById(ctx, videoID)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
