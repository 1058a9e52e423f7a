// Package reviewhdl - handler cho domain review: project, version, video, thumbnail.
package reviewhdl

import (
	"fmt"

	basehdl "feedo/internal/api/base/handler"
	reviewdto "feedo/internal/api/review/dto"
	models "feedo/internal/api/review/models"
	reviewsvc "feedo/internal/api/review/service"
	wsmodels "feedo/internal/api/workspace/models"
	workspacesvc "feedo/internal/api/workspace/service"
	"feedo/internal/common"
	"feedo/internal/logger"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProjectHandler xử lý các request liên quan đến project
type ProjectHandler struct {
	*basehdl.BaseHandler[models.Project, reviewdto.ProjectCreateInput, reviewdto.ProjectUpdateInput]
	projectService   *reviewsvc.ProjectService
	workspaceService *workspacesvc.WorkspaceService
}

// NewProjectHandler tạo instance mới của ProjectHandler
func NewProjectHandler() (*ProjectHandler, error) {
	projectService, err := reviewsvc.NewProjectService()
	if err != nil {
		return nil, fmt.Errorf("failed to create project service: %v", err)
	}
	workspaceService, err := workspacesvc.NewWorkspaceService()
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace service: %v", err)
	}
	baseHandler := basehdl.NewBaseHandler[models.Project, reviewdto.ProjectCreateInput, reviewdto.ProjectUpdateInput](projectService)
	return &ProjectHandler{
		BaseHandler:      baseHandler,
		projectService:   projectService,
		workspaceService: workspaceService,
	}, nil
}

// currentUserEmail lấy user_email từ context (đã qua AuthMiddleware).
func currentUserEmail(c fiber.Ctx) (string, error) {
	email, ok := c.Locals("user_email").(string)
	if !ok || email == "" {
		return "", common.NewError(common.ErrCodeAuth, "User not authenticated", common.StatusUnauthorized, nil)
	}
	return email, nil
}

// requireWorkspacePermission kiểm tra email hiện tại có một trong các quyền yêu cầu trong workspace.
func requireWorkspacePermission(c fiber.Ctx, workspaceService *workspacesvc.WorkspaceService, workspaceID primitive.ObjectID, allowed ...string) error {
	email, err := currentUserEmail(c)
	if err != nil {
		return err
	}
	permission, err := workspaceService.GetPermissionForEmail(c.Context(), workspaceID, email)
	if err != nil {
		return err
	}
	if permission == "" {
		return common.ErrNoPermission
	}
	for _, a := range allowed {
		if permission == a {
			return nil
		}
	}
	return common.ErrNoPermission
}

// objectIDFromParams lấy ObjectID từ path param :id.
func objectIDFromParams(c fiber.Ctx) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return primitive.NilObjectID, common.NewError(common.ErrCodeValidationFormat, "ID không hợp lệ", common.StatusBadRequest, err)
	}
	return id, nil
}

// HandleChangeStatus chuyển trạng thái project theo bảng chuyển trạng thái.
// Yêu cầu quyền owner hoặc editor trong workspace của project.
func (h *ProjectHandler) HandleChangeStatus(c fiber.Ctx) error {
	projectID, err := objectIDFromParams(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	var input reviewdto.ProjectStatusInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := h.ValidateInput(&input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}

	project, err := h.projectService.FindOneById(c.Context(), projectID)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := requireWorkspacePermission(c, h.workspaceService, project.WorkspaceID,
		wsmodels.PermissionOwner, wsmodels.PermissionEditor); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}

	updated, err := h.projectService.ChangeStatus(c.Context(), projectID, input.Status)
	if err == nil {
		logger.LogAction("project_status_change", c, map[string]interface{}{
			"project_id": projectID.Hex(),
			"from":       project.Status,
			"to":         input.Status,
		})
	}
	h.HandleResponse(c, updated, err)
	return nil
}

// HandleGetAllowedStatuses trả về các trạng thái kế tiếp hợp lệ của project.
func (h *ProjectHandler) HandleGetAllowedStatuses(c fiber.Ctx) error {
	projectID, err := objectIDFromParams(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	project, err := h.projectService.FindOneById(c.Context(), projectID)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	h.HandleResponse(c, map[string]interface{}{
		"status":  project.Status,
		"allowed": models.AllowedNextStatuses(project.Status),
	}, nil)
	return nil
}
