// Package authhdl - handler admin (block user, đổi tier, set administrator).
package authhdl

import (
	"fmt"

	authdto "feedo/internal/api/auth/dto"
	authmodels "feedo/internal/api/auth/models"
	authsvc "feedo/internal/api/auth/service"
	basehdl "feedo/internal/api/base/handler"
	"feedo/internal/common"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminHandler xử lý các route liên quan đến quản trị viên
type AdminHandler struct {
	basehdl.BaseHandler[authmodels.User, authdto.UserCreateInput, authdto.UserChangeInfoInput]
	UserCRUD     *authsvc.UserService
	AdminService *authsvc.AdminService
}

// NewAdminHandler tạo một instance mới của AdminHandler
func NewAdminHandler() (*AdminHandler, error) {
	h := &AdminHandler{}
	userService, err := authsvc.NewUserService()
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %v", err)
	}
	h.UserCRUD = userService
	adminService, err := authsvc.NewAdminService()
	if err != nil {
		return nil, fmt.Errorf("failed to create admin service: %v", err)
	}
	h.AdminService = adminService
	h.BaseService = userService
	return h, nil
}

// requireAdmin kiểm tra user hiện tại có quyền administrator không
func (h *AdminHandler) requireAdmin(c fiber.Ctx) error {
	user, ok := c.Locals("user").(authmodels.User)
	if !ok {
		return common.NewError(common.ErrCodeAuth, "User not authenticated", common.StatusUnauthorized, nil)
	}
	if !user.IsAdmin {
		return common.NewError(common.ErrCodeAuthRole, "Yêu cầu quyền administrator", common.StatusForbidden, nil)
	}
	return nil
}

// HandleBlockUser xử lý khóa người dùng
func (h *AdminHandler) HandleBlockUser(c fiber.Ctx) error {
	if err := h.requireAdmin(c); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	var input authdto.BlockUserInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat, err.Error(), common.StatusBadRequest, nil))
		return nil
	}
	if err := h.ValidateInput(&input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	result, err := h.AdminService.BlockUser(c.Context(), input.Email, true, input.Note)
	h.HandleResponse(c, result, err)
	return nil
}

// HandleUnBlockUser xử lý mở khóa người dùng
func (h *AdminHandler) HandleUnBlockUser(c fiber.Ctx) error {
	if err := h.requireAdmin(c); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	var input authdto.UnBlockUserInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat, err.Error(), common.StatusBadRequest, nil))
		return nil
	}
	if err := h.ValidateInput(&input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	result, err := h.AdminService.BlockUser(c.Context(), input.Email, false, "")
	h.HandleResponse(c, result, err)
	return nil
}

// HandleSetTier đổi gói dung lượng cho người dùng
func (h *AdminHandler) HandleSetTier(c fiber.Ctx) error {
	if err := h.requireAdmin(c); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	var input authdto.UserChangeTierInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat, err.Error(), common.StatusBadRequest, nil))
		return nil
	}
	if err := h.ValidateInput(&input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	result, err := h.AdminService.SetTier(c.Context(), input.Email, input.Tier)
	h.HandleResponse(c, result, err)
	return nil
}

// HandleAddAdministrator thiết lập administrator cho user theo ID.
// User đầu tiên gọi route này khi hệ thống chưa có admin sẽ không cần quyền admin (bootstrap).
func (h *AdminHandler) HandleAddAdministrator(c fiber.Ctx) error {
	hasAdmin, err := h.AdminService.HasAnyAdministrator(c.Context())
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if hasAdmin {
		if err := h.requireAdmin(c); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
	}
	id := h.GetIDFromContext(c)
	if id == "" {
		h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat, "ID không hợp lệ", common.StatusBadRequest, nil))
		return nil
	}
	userID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat, "ID không hợp lệ", common.StatusBadRequest, err))
		return nil
	}
	result, err := h.AdminService.SetAdministrator(c.Context(), userID)
	h.HandleResponse(c, result, err)
	return nil
}
