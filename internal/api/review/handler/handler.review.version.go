package reviewhdl

import (
	"fmt"

	basehdl "feedo/internal/api/base/handler"
	reviewdto "feedo/internal/api/review/dto"
	models "feedo/internal/api/review/models"
	reviewsvc "feedo/internal/api/review/service"
	wsmodels "feedo/internal/api/workspace/models"
	workspacesvc "feedo/internal/api/workspace/service"
	"feedo/internal/logger"

	"github.com/gofiber/fiber/v3"
)

// VersionHandler xử lý các request liên quan đến version
type VersionHandler struct {
	*basehdl.BaseHandler[models.Version, reviewdto.VersionCreateInput, reviewdto.VersionUpdateInput]
	versionService   *reviewsvc.VersionService
	workspaceService *workspacesvc.WorkspaceService
}

// NewVersionHandler tạo instance mới của VersionHandler
func NewVersionHandler() (*VersionHandler, error) {
	versionService, err := reviewsvc.NewVersionService()
	if err != nil {
		return nil, fmt.Errorf("failed to create version service: %v", err)
	}
	workspaceService, err := workspacesvc.NewWorkspaceService()
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace service: %v", err)
	}
	baseHandler := basehdl.NewBaseHandler[models.Version, reviewdto.VersionCreateInput, reviewdto.VersionUpdateInput](versionService)
	return &VersionHandler{
		BaseHandler:      baseHandler,
		versionService:   versionService,
		workspaceService: workspaceService,
	}, nil
}

// HandleCreateVersion tạo version mới; số version do server gán (max+1).
// Yêu cầu quyền owner hoặc editor trong workspace của project.
func (h *VersionHandler) HandleCreateVersion(c fiber.Ctx) error {
	var input reviewdto.VersionCreateInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := h.ValidateInput(&input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	version, err := h.TransformCreateInputToModel(&input)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}

	project, err := h.versionService.FindProjectOfVersion(c.Context(), version.ProjectID)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := requireWorkspacePermission(c, h.workspaceService, project.WorkspaceID,
		wsmodels.PermissionOwner, wsmodels.PermissionEditor); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}

	created, err := h.versionService.CreateVersion(c.Context(), *version)
	if err == nil {
		logger.LogAction("version_create", c, map[string]interface{}{
			"project_id": created.ProjectID.Hex(),
			"version":    created.Version,
		})
	}
	h.HandleResponse(c, created, err)
	return nil
}

// HandleDeleteVersion xóa version và gỡ bản tóm tắt khỏi project.
// Version còn video document sẽ bị chặn bởi relationship check.
func (h *VersionHandler) HandleDeleteVersion(c fiber.Ctx) error {
	versionID, err := objectIDFromParams(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	version, err := h.versionService.FindOneById(c.Context(), versionID)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := requireWorkspacePermission(c, h.workspaceService, version.WorkspaceID,
		wsmodels.PermissionOwner, wsmodels.PermissionEditor); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}

	err = h.versionService.DeleteVersion(c.Context(), versionID)
	if err == nil {
		logger.LogAction("version_delete", c, map[string]interface{}{
			"project_id": version.ProjectID.Hex(),
			"version":    version.Version,
		})
	}
	h.HandleResponse(c, nil, err)
	return nil
}
