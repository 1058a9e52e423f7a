// Package workspacehdl - handler cho domain workspace.
package workspacehdl

import (
	"fmt"

	authmodels "feedo/internal/api/auth/models"
	authsvc "feedo/internal/api/auth/service"
	basehdl "feedo/internal/api/base/handler"
	basesvc "feedo/internal/api/base/service"
	workspacedto "feedo/internal/api/workspace/dto"
	models "feedo/internal/api/workspace/models"
	workspacesvc "feedo/internal/api/workspace/service"
	"feedo/internal/common"
	"feedo/internal/logger"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkspaceHandler xử lý các request liên quan đến workspace
type WorkspaceHandler struct {
	*basehdl.BaseHandler[models.Workspace, workspacedto.WorkspaceCreateInput, workspacedto.WorkspaceUpdateInput]
	workspaceService *workspacesvc.WorkspaceService
}

// NewWorkspaceHandler tạo instance mới của WorkspaceHandler
func NewWorkspaceHandler() (*WorkspaceHandler, error) {
	workspaceService, err := workspacesvc.NewWorkspaceService()
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace service: %v", err)
	}
	baseHandler := basehdl.NewBaseHandler[models.Workspace, workspacedto.WorkspaceCreateInput, workspacedto.WorkspaceUpdateInput](workspaceService)
	return &WorkspaceHandler{
		BaseHandler:      baseHandler,
		workspaceService: workspaceService,
	}, nil
}

// currentUser lấy user_id (ObjectID) và user_email từ context.
func currentUser(c fiber.Ctx) (primitive.ObjectID, string, error) {
	userIDRaw := c.Locals("user_id")
	emailRaw := c.Locals("user_email")
	if userIDRaw == nil || emailRaw == nil {
		return primitive.NilObjectID, "", common.NewError(common.ErrCodeAuth, "User not authenticated", common.StatusUnauthorized, nil)
	}
	userID, err := primitive.ObjectIDFromHex(userIDRaw.(string))
	if err != nil {
		return primitive.NilObjectID, "", common.NewError(common.ErrCodeValidationFormat, "Invalid user ID", common.StatusBadRequest, err)
	}
	email, _ := emailRaw.(string)
	return userID, email, nil
}

// workspaceIDFromParams lấy workspace ID từ path param :id.
func (h *WorkspaceHandler) workspaceIDFromParams(c fiber.Ctx) (primitive.ObjectID, error) {
	id := h.GetIDFromContext(c)
	if id == "" {
		return primitive.NilObjectID, common.NewError(common.ErrCodeValidationFormat, "ID không hợp lệ", common.StatusBadRequest, nil)
	}
	wsID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, common.NewError(common.ErrCodeValidationFormat, "ID không hợp lệ", common.StatusBadRequest, err)
	}
	return wsID, nil
}

// requirePermission kiểm tra email hiện tại có một trong các quyền yêu cầu trong workspace.
func (h *WorkspaceHandler) requirePermission(c fiber.Ctx, workspaceID primitive.ObjectID, email string, allowed ...string) error {
	permission, err := h.workspaceService.GetPermissionForEmail(c.Context(), workspaceID, email)
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

// HandleCreate tạo workspace mới, user hiện tại trở thành owner
func (h *WorkspaceHandler) HandleCreate(c fiber.Ctx) error {
	userID, email, err := currentUser(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	var input workspacedto.WorkspaceCreateInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := h.ValidateInput(&input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	ws, err := h.workspaceService.Create(c.Context(), userID, email, input.Name, input.Description)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	logger.LogAction("workspace_create", c, map[string]interface{}{"workspace_id": ws.ID.Hex()})
	h.HandleResponse(c, ws, nil)
	return nil
}

// HandleListMine liệt kê các workspace mà user hiện tại là thành viên
func (h *WorkspaceHandler) HandleListMine(c fiber.Ctx) error {
	_, email, err := currentUser(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	workspaces, err := h.workspaceService.FindForUser(c.Context(), email)
	h.HandleResponse(c, workspaces, err)
	return nil
}

// HandleGetById lấy chi tiết workspace, yêu cầu là thành viên
func (h *WorkspaceHandler) HandleGetById(c fiber.Ctx) error {
	_, email, err := currentUser(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	wsID, err := h.workspaceIDFromParams(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	ws, err := h.workspaceService.FindOneById(c.Context(), wsID)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if ws.GetPermissionForEmail(email) == "" {
		h.HandleResponse(c, nil, common.ErrNoPermission)
		return nil
	}
	h.HandleResponse(c, ws, nil)
	return nil
}

// HandleUpdate cập nhật thông tin workspace, yêu cầu quyền owner hoặc editor
func (h *WorkspaceHandler) HandleUpdate(c fiber.Ctx) error {
	_, email, err := currentUser(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	wsID, err := h.workspaceIDFromParams(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := h.requirePermission(c, wsID, email, models.PermissionOwner, models.PermissionEditor); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	var input workspacedto.WorkspaceUpdateInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := h.ValidateInput(&input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	update := &basesvc.UpdateData{Set: map[string]interface{}{
		"name":        input.Name,
		"description": input.Description,
	}}
	updated, err := h.workspaceService.UpdateById(c.Context(), wsID, update)
	h.HandleResponse(c, updated, err)
	return nil
}

// HandleDelete xóa workspace, chỉ owner. Workspace còn project sẽ bị chặn bởi relationship check.
func (h *WorkspaceHandler) HandleDelete(c fiber.Ctx) error {
	_, email, err := currentUser(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	wsID, err := h.workspaceIDFromParams(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := h.requirePermission(c, wsID, email, models.PermissionOwner); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	err = h.workspaceService.DeleteById(c.Context(), wsID)
	if err == nil {
		logger.LogAction("workspace_delete", c, map[string]interface{}{"workspace_id": wsID.Hex()})
	}
	h.HandleResponse(c, nil, err)
	return nil
}

// HandleAddCollaborator thêm collaborator, chỉ owner
func (h *WorkspaceHandler) HandleAddCollaborator(c fiber.Ctx) error {
	_, email, err := currentUser(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	wsID, err := h.workspaceIDFromParams(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := h.requirePermission(c, wsID, email, models.PermissionOwner); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	var input workspacedto.CollaboratorAddInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := h.ValidateInput(&input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	ws, err := h.workspaceService.AddCollaborator(c.Context(), wsID, input.Email, input.Permission)
	if err == nil {
		logger.LogPermission("collaborator_add", c, map[string]interface{}{"workspace_id": wsID.Hex(), "email": input.Email, "permission": input.Permission})
	}
	h.HandleResponse(c, ws, err)
	return nil
}

// HandleUpdateCollaborator đổi quyền collaborator, chỉ owner
func (h *WorkspaceHandler) HandleUpdateCollaborator(c fiber.Ctx) error {
	_, email, err := currentUser(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	wsID, err := h.workspaceIDFromParams(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := h.requirePermission(c, wsID, email, models.PermissionOwner); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	var input workspacedto.CollaboratorUpdateInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := h.ValidateInput(&input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	ws, err := h.workspaceService.UpdateCollaboratorPermission(c.Context(), wsID, input.Email, input.Permission)
	if err == nil {
		logger.LogPermission("collaborator_update", c, map[string]interface{}{"workspace_id": wsID.Hex(), "email": input.Email, "permission": input.Permission})
	}
	h.HandleResponse(c, ws, err)
	return nil
}

// HandleRemoveCollaborator gỡ collaborator, chỉ owner
func (h *WorkspaceHandler) HandleRemoveCollaborator(c fiber.Ctx) error {
	_, email, err := currentUser(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	wsID, err := h.workspaceIDFromParams(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := h.requirePermission(c, wsID, email, models.PermissionOwner); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	var input workspacedto.CollaboratorRemoveInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := h.ValidateInput(&input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	ws, err := h.workspaceService.RemoveCollaborator(c.Context(), wsID, input.Email)
	if err == nil {
		logger.LogPermission("collaborator_remove", c, map[string]interface{}{"workspace_id": wsID.Hex(), "email": input.Email})
	}
	h.HandleResponse(c, ws, err)
	return nil
}

// HandleStorageUsed trả về tổng dung lượng user hiện tại đang dùng trên mọi
// workspace mà họ là owner hoặc editor, kèm hạn mức theo tier.
func (h *WorkspaceHandler) HandleStorageUsed(c fiber.Ctx) error {
	userID, email, err := currentUser(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	used, err := h.workspaceService.StorageUsedForUser(c.Context(), email)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	userService, err := authsvc.NewUserService()
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	user, err := userService.FindOneById(c.Context(), userID)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	quotaBytes := authmodels.TierQuotaGB(user.Tier) * 1024 * 1024 * 1024
	remaining := quotaBytes - used
	if remaining < 0 {
		remaining = 0
	}
	h.HandleResponse(c, map[string]interface{}{
		"storageUsed":    used,
		"quotaBytes":     quotaBytes,
		"quotaRemaining": remaining,
		"tier":           user.Tier,
	}, nil)
	return nil
}

// HandleGetQuota trả về tình trạng quota của workspace, yêu cầu là thành viên
func (h *WorkspaceHandler) HandleGetQuota(c fiber.Ctx) error {
	_, email, err := currentUser(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	wsID, err := h.workspaceIDFromParams(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := h.requirePermission(c, wsID, email, models.PermissionOwner, models.PermissionEditor, models.PermissionViewer, models.PermissionClient); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	status, err := h.workspaceService.GetQuotaStatus(c.Context(), wsID)
	h.HandleResponse(c, status, err)
	return nil
}
