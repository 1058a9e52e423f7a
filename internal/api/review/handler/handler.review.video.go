package reviewhdl

import (
	"fmt"
	"time"

	authmodels "feedo/internal/api/auth/models"
	basehdl "feedo/internal/api/base/handler"
	reviewdto "feedo/internal/api/review/dto"
	models "feedo/internal/api/review/models"
	reviewsvc "feedo/internal/api/review/service"
	wsmodels "feedo/internal/api/workspace/models"
	workspacesvc "feedo/internal/api/workspace/service"
	"feedo/internal/common"
	"feedo/internal/logger"
	"feedo/internal/utility"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VideoHandler xử lý các request liên quan đến video document, comment và annotation
type VideoHandler struct {
	*basehdl.BaseHandler[models.Video, reviewdto.VideoCreateInput, reviewdto.VideoUpdateInput]
	videoService     *reviewsvc.VideoService
	workspaceService *workspacesvc.WorkspaceService
}

// NewVideoHandler tạo instance mới của VideoHandler
func NewVideoHandler() (*VideoHandler, error) {
	videoService, err := reviewsvc.NewVideoService()
	if err != nil {
		return nil, fmt.Errorf("failed to create video service: %v", err)
	}
	workspaceService, err := workspacesvc.NewWorkspaceService()
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace service: %v", err)
	}
	baseHandler := basehdl.NewBaseHandler[models.Video, reviewdto.VideoCreateInput, reviewdto.VideoUpdateInput](videoService)
	return &VideoHandler{
		BaseHandler:      baseHandler,
		videoService:     videoService,
		workspaceService: workspaceService,
	}, nil
}

// normalizeTimecode đưa mốc thời gian về dạng chính tắc M:SS.mmm (trim khoảng
// trắng, bỏ số 0 thừa ở phút). Chuỗi rỗng giữ nguyên: comment không gắn mốc.
func normalizeTimecode(timestamp string) (string, error) {
	if timestamp == "" {
		return "", nil
	}
	ms, err := utility.ParseTimecode(timestamp)
	if err != nil {
		return "", common.NewError(common.ErrCodeValidationInput, err.Error(), common.StatusBadRequest, err)
	}
	return utility.FormatTimecode(ms), nil
}

// currentUserModel lấy model user hiện tại từ context (do AuthMiddleware set).
func currentUserModel(c fiber.Ctx) (authmodels.User, error) {
	user, ok := c.Locals("user").(authmodels.User)
	if !ok {
		return authmodels.User{}, common.NewError(common.ErrCodeAuth, "User not authenticated", common.StatusUnauthorized, nil)
	}
	return user, nil
}

// loadVideoWithPermission tải video theo :id và kiểm tra quyền trong workspace chứa nó.
func (h *VideoHandler) loadVideoWithPermission(c fiber.Ctx, allowed ...string) (*models.Video, primitive.ObjectID, error) {
	videoID, err := objectIDFromParams(c)
	if err != nil {
		return nil, primitive.NilObjectID, err
	}
	video, err := h.videoService.FindOneById(c.Context(), videoID)
	if err != nil {
		return nil, primitive.NilObjectID, err
	}
	if err := requireWorkspacePermission(c, h.workspaceService, video.WorkspaceID, allowed...); err != nil {
		return nil, primitive.NilObjectID, err
	}
	return &video, videoID, nil
}

// HandleAddComment thêm comment vào video. Mọi thành viên workspace đều được comment,
// kể cả quyền client và viewer.
func (h *VideoHandler) HandleAddComment(c fiber.Ctx) error {
	user, err := currentUserModel(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	_, videoID, err := h.loadVideoWithPermission(c,
		wsmodels.PermissionOwner, wsmodels.PermissionEditor, wsmodels.PermissionViewer, wsmodels.PermissionClient)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	var input reviewdto.CommentAddInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := h.ValidateInput(&input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}

	timestamp, err := normalizeTimecode(input.Timestamp)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	comment := models.Comment{
		ID:             uuid.NewString(),
		Content:        input.Content,
		Timestamp:      timestamp,
		AuthorEmail:    user.Email,
		AuthorName:     user.Name,
		AuthorImageURL: user.AvatarURL,
		IsResolved:     false,
		CreatedAt:      time.Now().UnixMilli(),
	}
	updated, err := h.videoService.AddComment(c.Context(), videoID, comment)
	if err == nil {
		logger.LogAction("comment_add", c, map[string]interface{}{"video_id": videoID.Hex(), "comment_id": comment.ID})
	}
	h.HandleResponse(c, updated, err)
	return nil
}

// HandleResolveComment resolve/unresolve comment tại chỗ, giữ nguyên vị trí trong mảng.
// Yêu cầu quyền owner hoặc editor.
func (h *VideoHandler) HandleResolveComment(c fiber.Ctx) error {
	user, err := currentUserModel(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	_, videoID, err := h.loadVideoWithPermission(c, wsmodels.PermissionOwner, wsmodels.PermissionEditor)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	var input reviewdto.CommentResolveInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := h.ValidateInput(&input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}

	var resolver *models.Resolver
	if input.IsResolved {
		resolver = &models.Resolver{
			ID:           user.ID.Hex(),
			UserName:     user.Name,
			UserImageURL: user.AvatarURL,
			ResolvedAt:   time.Now().UnixMilli(),
		}
	}
	updated, err := h.videoService.ResolveComment(c.Context(), videoID, input.CommentID, input.IsResolved, resolver)
	h.HandleResponse(c, updated, err)
	return nil
}

// HandleDeleteComment xóa comment. Tác giả comment hoặc owner/editor được xóa.
func (h *VideoHandler) HandleDeleteComment(c fiber.Ctx) error {
	user, err := currentUserModel(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	video, videoID, err := h.loadVideoWithPermission(c,
		wsmodels.PermissionOwner, wsmodels.PermissionEditor, wsmodels.PermissionViewer, wsmodels.PermissionClient)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	var input reviewdto.CommentDeleteInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := h.ValidateInput(&input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}

	if err := h.canModifyCommentEntry(c, video.WorkspaceID, commentAuthorEmail(video, input.CommentID), user.Email); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	updated, err := h.videoService.DeleteComment(c.Context(), videoID, input.CommentID)
	if err == nil {
		logger.LogAction("comment_delete", c, map[string]interface{}{"video_id": videoID.Hex(), "comment_id": input.CommentID})
	}
	h.HandleResponse(c, updated, err)
	return nil
}

// HandleAddAnnotation thêm annotation (hình vẽ base64) vào video. Mọi thành viên workspace.
func (h *VideoHandler) HandleAddAnnotation(c fiber.Ctx) error {
	user, err := currentUserModel(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	_, videoID, err := h.loadVideoWithPermission(c,
		wsmodels.PermissionOwner, wsmodels.PermissionEditor, wsmodels.PermissionViewer, wsmodels.PermissionClient)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	var input reviewdto.AnnotationAddInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := h.ValidateInput(&input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}

	timestamp, err := normalizeTimecode(input.Timestamp)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	annotation := models.Annotation{
		ID:             uuid.NewString(),
		Data:           input.Data,
		Timestamp:      timestamp,
		AuthorEmail:    user.Email,
		AuthorName:     user.Name,
		AuthorImageURL: user.AvatarURL,
		IsResolved:     false,
		CreatedAt:      time.Now().UnixMilli(),
	}
	updated, err := h.videoService.AddAnnotation(c.Context(), videoID, annotation)
	if err == nil {
		logger.LogAction("annotation_add", c, map[string]interface{}{"video_id": videoID.Hex(), "annotation_id": annotation.ID})
	}
	h.HandleResponse(c, updated, err)
	return nil
}

// HandleResolveAnnotation resolve/unresolve annotation tại chỗ. Yêu cầu owner hoặc editor.
func (h *VideoHandler) HandleResolveAnnotation(c fiber.Ctx) error {
	user, err := currentUserModel(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	_, videoID, err := h.loadVideoWithPermission(c, wsmodels.PermissionOwner, wsmodels.PermissionEditor)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	var input reviewdto.AnnotationResolveInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := h.ValidateInput(&input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}

	var resolver *models.Resolver
	if input.IsResolved {
		resolver = &models.Resolver{
			ID:           user.ID.Hex(),
			UserName:     user.Name,
			UserImageURL: user.AvatarURL,
			ResolvedAt:   time.Now().UnixMilli(),
		}
	}
	updated, err := h.videoService.ResolveAnnotation(c.Context(), videoID, input.AnnotationID, input.IsResolved, resolver)
	h.HandleResponse(c, updated, err)
	return nil
}

// HandleDeleteAnnotation xóa annotation. Tác giả hoặc owner/editor được xóa.
func (h *VideoHandler) HandleDeleteAnnotation(c fiber.Ctx) error {
	user, err := currentUserModel(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	video, videoID, err := h.loadVideoWithPermission(c,
		wsmodels.PermissionOwner, wsmodels.PermissionEditor, wsmodels.PermissionViewer, wsmodels.PermissionClient)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	var input reviewdto.AnnotationDeleteInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := h.ValidateInput(&input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}

	if err := h.canModifyCommentEntry(c, video.WorkspaceID, annotationAuthorEmail(video, input.AnnotationID), user.Email); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	updated, err := h.videoService.DeleteAnnotation(c.Context(), videoID, input.AnnotationID)
	if err == nil {
		logger.LogAction("annotation_delete", c, map[string]interface{}{"video_id": videoID.Hex(), "annotation_id": input.AnnotationID})
	}
	h.HandleResponse(c, updated, err)
	return nil
}

// canModifyCommentEntry cho phép xóa khi user là tác giả, hoặc có quyền owner/editor.
func (h *VideoHandler) canModifyCommentEntry(c fiber.Ctx, workspaceID primitive.ObjectID, authorEmail string, userEmail string) error {
	if authorEmail != "" && authorEmail == userEmail {
		return nil
	}
	return requireWorkspacePermission(c, h.workspaceService, workspaceID,
		wsmodels.PermissionOwner, wsmodels.PermissionEditor)
}

func commentAuthorEmail(video *models.Video, commentID string) string {
	for _, comment := range video.Comments {
		if comment.ID == commentID {
			return comment.AuthorEmail
		}
	}
	return ""
}

func annotationAuthorEmail(video *models.Video, annotationID string) string {
	for _, annotation := range video.Annotations {
		if annotation.ID == annotationID {
			return annotation.AuthorEmail
		}
	}
	return ""
}
