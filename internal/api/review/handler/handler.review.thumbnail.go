package reviewhdl

import (
	"fmt"

	basehdl "feedo/internal/api/base/handler"
	reviewdto "feedo/internal/api/review/dto"
	models "feedo/internal/api/review/models"
	reviewsvc "feedo/internal/api/review/service"
)

// ThumbnailHandler xử lý các request liên quan đến thumbnail
type ThumbnailHandler struct {
	*basehdl.BaseHandler[models.Thumbnail, reviewdto.ThumbnailCreateInput, reviewdto.ThumbnailUpdateInput]
	thumbnailService *reviewsvc.ThumbnailService
}

// NewThumbnailHandler tạo instance mới của ThumbnailHandler
func NewThumbnailHandler() (*ThumbnailHandler, error) {
	thumbnailService, err := reviewsvc.NewThumbnailService()
	if err != nil {
		return nil, fmt.Errorf("failed to create thumbnail service: %v", err)
	}
	baseHandler := basehdl.NewBaseHandler[models.Thumbnail, reviewdto.ThumbnailCreateInput, reviewdto.ThumbnailUpdateInput](thumbnailService)
	return &ThumbnailHandler{
		BaseHandler:      baseHandler,
		thumbnailService: thumbnailService,
	}, nil
}
