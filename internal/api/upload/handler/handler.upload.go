// Package uploadhdl - handler cho domain upload.
package uploadhdl

import (
	"fmt"
	"io"

	basehdl "feedo/internal/api/base/handler"
	uploaddto "feedo/internal/api/upload/dto"
	uploadmodels "feedo/internal/api/upload/models"
	uploadsvc "feedo/internal/api/upload/service"
	wsmodels "feedo/internal/api/workspace/models"
	"feedo/internal/common"
	"feedo/internal/logger"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UploadHandler xử lý các request upload: presign, multipart và server-side.
type UploadHandler struct {
	*basehdl.BaseHandler[uploadmodels.UploadSession, uploaddto.MultipartStartInput, uploaddto.MultipartStartInput]
	uploadService *uploadsvc.UploadService
}

// NewUploadHandler tạo instance mới của UploadHandler
func NewUploadHandler(uploadService *uploadsvc.UploadService) (*UploadHandler, error) {
	sessionService, err := uploadsvc.NewSessionService()
	if err != nil {
		return nil, fmt.Errorf("failed to create session service: %v", err)
	}
	baseHandler := basehdl.NewBaseHandler[uploadmodels.UploadSession, uploaddto.MultipartStartInput, uploaddto.MultipartStartInput](sessionService)
	return &UploadHandler{
		BaseHandler:   baseHandler,
		uploadService: uploadService,
	}, nil
}

// requireUploadPermission yêu cầu active workspace trong context với quyền
// owner hoặc editor (viewer và client không được upload).
func (h *UploadHandler) requireUploadPermission(c fiber.Ctx) (primitive.ObjectID, error) {
	wsID := h.GetActiveWorkspaceID(c)
	if wsID == nil {
		return primitive.NilObjectID, common.NewError(common.ErrCodeValidationInput,
			"Thiếu workspace context (header X-Workspace-ID)", common.StatusBadRequest, nil)
	}
	permission, _ := c.Locals("workspace_permission").(string)
	if permission != wsmodels.PermissionOwner && permission != wsmodels.PermissionEditor {
		return primitive.NilObjectID, common.ErrNoPermission
	}
	return *wsID, nil
}

// HandleMultipartStart mở phiên multipart upload.
func (h *UploadHandler) HandleMultipartStart(c fiber.Ctx) error {
	workspaceID, err := h.requireUploadPermission(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	var input uploaddto.MultipartStartInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := h.ValidateInput(&input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}

	session, err := h.uploadService.MultipartStart(c.Context(), workspaceID, input.FileName, input.ContentType)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	logger.LogAction("upload_multipart_start", c, map[string]interface{}{"upload_id": session.UploadID, "key": session.Key})
	h.HandleResponse(c, uploaddto.MultipartStartOutput{
		UploadID: session.UploadID,
		Key:      session.Key,
		PartSize: session.PartSize,
	}, nil)
	return nil
}

// HandleMultipartPresign ký URL cho N part; URL thứ i ứng với part i+1.
func (h *UploadHandler) HandleMultipartPresign(c fiber.Ctx) error {
	if _, err := h.requireUploadPermission(c); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	var input uploaddto.MultipartPresignInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := h.ValidateInput(&input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}

	urls, err := h.uploadService.MultipartPresign(c.Context(), input.UploadID, input.PartNumbers)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	h.HandleResponse(c, uploaddto.MultipartPresignOutput{PresignedUrls: urls}, nil)
	return nil
}

// HandleMultipartComplete hoàn tất phiên multipart upload.
func (h *UploadHandler) HandleMultipartComplete(c fiber.Ctx) error {
	if _, err := h.requireUploadPermission(c); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	var input uploaddto.MultipartCompleteInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := h.ValidateInput(&input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}

	parts := make([]uploadsvc.CompletedPart, 0, len(input.Parts))
	for _, p := range input.Parts {
		parts = append(parts, uploadsvc.CompletedPart{ETag: p.ETag, PartNumber: p.PartNumber})
	}
	key, cdnURL, err := h.uploadService.MultipartComplete(c.Context(), input.UploadID, parts)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	logger.LogAction("upload_multipart_complete", c, map[string]interface{}{"upload_id": input.UploadID, "key": key, "parts": len(parts)})
	h.HandleResponse(c, uploaddto.MultipartCompleteOutput{Key: key, CdnURL: cdnURL}, nil)
	return nil
}

// HandleMultipartAbort hủy phiên multipart upload, dọn các part trên backend.
func (h *UploadHandler) HandleMultipartAbort(c fiber.Ctx) error {
	if _, err := h.requireUploadPermission(c); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	var input uploaddto.MultipartAbortInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := h.ValidateInput(&input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}

	err := h.uploadService.MultipartAbort(c.Context(), input.UploadID)
	if err == nil {
		logger.LogAction("upload_multipart_abort", c, map[string]interface{}{"upload_id": input.UploadID})
	}
	h.HandleResponse(c, nil, err)
	return nil
}

// HandlePresign ký URL PUT cho một file nhỏ: size và contentType được
// kiểm tra server-side trước khi ký, quota được kiểm tra trước mọi network call.
func (h *UploadHandler) HandlePresign(c fiber.Ctx) error {
	workspaceID, err := h.requireUploadPermission(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	var input uploaddto.PresignInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := h.ValidateInput(&input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}

	key, url, cdnURL, err := h.uploadService.PresignSingle(c.Context(), workspaceID, input.FileName, input.ContentType, input.Size)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	logger.LogAction("upload_presign", c, map[string]interface{}{"key": key, "size": input.Size})
	h.HandleResponse(c, uploaddto.PresignOutput{URL: url, Key: key, CdnURL: cdnURL}, nil)
	return nil
}

// HandleUpload upload server-side từ multipart form (field "file"), chạy
// orchestrator đầy đủ: quota, threshold 20 MB, media introspection, metadata.
func (h *UploadHandler) HandleUpload(c fiber.Ctx) error {
	workspaceID, err := h.requireUploadPermission(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput,
			"Thiếu file trong form (field 'file')", common.StatusBadRequest, err))
		return nil
	}

	projectIDStr := c.FormValue("projectId")
	projectID, err := primitive.ObjectIDFromHex(projectIDStr)
	if err != nil {
		h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput,
			"projectId không hợp lệ", common.StatusBadRequest, err))
		return nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput,
			"Không đọc được file upload", common.StatusBadRequest, err))
		return nil
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput,
			"Không đọc được file upload", common.StatusBadRequest, err))
		return nil
	}

	contentType := fileHeader.Header.Get("Content-Type")
	result, err := h.uploadService.Upload(c.Context(), uploadsvc.UploadParams{
		WorkspaceID: workspaceID,
		ProjectID:   projectID,
		Title:       c.FormValue("title"),
		FileName:    fileHeader.Filename,
		ContentType: contentType,
		Data:        data,
	})
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	logger.LogAction("upload_server_side", c, map[string]interface{}{"key": result.Key, "size": len(data)})
	h.HandleResponse(c, result, nil)
	return nil
}
