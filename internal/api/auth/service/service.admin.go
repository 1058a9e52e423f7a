// Package authsvc - service quản trị (Admin): block user, đổi tier, set administrator.
package authsvc

import (
	"context"
	"fmt"

	models "feedo/internal/api/auth/models"
	basesvc "feedo/internal/api/base/service"
	"feedo/internal/common"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminService là cấu trúc chứa các phương thức liên quan đến admin
type AdminService struct {
	userService *UserService
}

// NewAdminService tạo mới AdminService
func NewAdminService() (*AdminService, error) {
	userService, err := NewUserService()
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}
	return &AdminService{
		userService: userService,
	}, nil
}

// BlockUser chặn hoặc bỏ chặn User dựa trên Email và trạng thái Block
func (s *AdminService) BlockUser(ctx context.Context, email string, block bool, note string) (*models.User, error) {
	filter := bson.M{"email": email}
	user, err := s.userService.FindOne(ctx, filter, nil)
	if err != nil {
		return nil, err
	}

	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"isBlock":   block,
			"blockNote": note,
		},
	}
	updatedUser, err := s.userService.UpdateById(ctx, user.ID, updateData)
	if err != nil {
		return nil, err
	}
	return &updatedUser, nil
}

// UnBlockUser mở khóa người dùng
func (s *AdminService) UnBlockUser(ctx context.Context, email string) (*models.User, error) {
	return s.BlockUser(ctx, email, false, "")
}

// SetTier đổi gói dung lượng cho User dựa trên Email
func (s *AdminService) SetTier(ctx context.Context, email string, tier string) (*models.User, error) {
	switch tier {
	case models.TierFree, models.TierPremium, models.TierEnterprise:
	default:
		return nil, common.NewError(common.ErrCodeValidationInput, "Tier không hợp lệ: "+tier, common.StatusBadRequest, nil)
	}

	filter := bson.M{"email": email}
	user, err := s.userService.FindOne(ctx, filter, nil)
	if err != nil {
		return nil, err
	}

	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{"tier": tier},
	}
	updatedUser, err := s.userService.UpdateById(ctx, user.ID, updateData)
	if err != nil {
		return nil, err
	}
	return &updatedUser, nil
}

// SetAdministrator gán quyền administrator cho User theo ID
func (s *AdminService) SetAdministrator(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{"isAdmin": true},
	}
	updatedUser, err := s.userService.UpdateById(ctx, userID, updateData)
	if err != nil {
		return nil, err
	}
	return &updatedUser, nil
}

// HasAnyAdministrator kiểm tra hệ thống đã có administrator nào chưa
func (s *AdminService) HasAnyAdministrator(ctx context.Context) (bool, error) {
	count, err := s.userService.CountDocuments(ctx, bson.M{"isAdmin": true})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
