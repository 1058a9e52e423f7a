package middleware

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"

	models "feedo/internal/api/auth/models"
	authsvc "feedo/internal/api/auth/service"
	"feedo/internal/common"
	"feedo/internal/global"
	"feedo/internal/logger"
	"feedo/internal/utility"
)

// AuthManager quản lý xác thực người dùng
type AuthManager struct {
	UserCRUD *authsvc.UserService
	Cache    *utility.Cache
}

var (
	authManagerInstance *AuthManager
	authManagerOnce     sync.Once
)

// GetAuthManager trả về instance duy nhất của AuthManager (singleton pattern)
func GetAuthManager() *AuthManager {
	authManagerOnce.Do(func() {
		var err error
		authManagerInstance, err = newAuthManager()
		if err != nil {
			panic(err)
		}
	})
	return authManagerInstance
}

// newAuthManager khởi tạo một instance mới của AuthManager (private constructor)
func newAuthManager() (*AuthManager, error) {
	newManager := new(AuthManager)

	userService, err := authsvc.NewUserService()
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %v", err)
	}
	newManager.UserCRUD = userService

	// Khởi tạo cache với thời gian sống 5 phút và thời gian dọn dẹp 10 phút
	newManager.Cache = utility.NewCache(5*time.Minute, 10*time.Minute)

	return newManager, nil
}

// findUserByToken tìm user theo token, ưu tiên field "token" (token mới nhất),
// fallback sang array "tokens" (token theo hwid).
// Kết quả cache 5 phút theo token để không lookup database mỗi request;
// user bị block trong khoảng đó vẫn dùng được đến khi cache hết hạn.
func (am *AuthManager) findUserByToken(ctx context.Context, token string) (models.User, error) {
	if cached, ok := am.Cache.Get(token); ok {
		if user, ok := cached.(models.User); ok {
			return user, nil
		}
	}

	user, err := am.UserCRUD.FindOne(ctx, bson.M{"token": token}, nil)
	if err != nil {
		user, err = am.UserCRUD.FindOne(ctx, bson.M{"tokens.jwtToken": token}, nil)
	}
	if err != nil {
		user, err = am.UserCRUD.FindOne(ctx, bson.M{
			"tokens": bson.M{
				"$elemMatch": bson.M{"jwtToken": token},
			},
		}, nil)
	}
	if err != nil {
		return models.User{}, err
	}

	am.Cache.Set(token, user)
	return user, nil
}

// AuthMiddleware middleware xác thực cho Fiber.
// Xác thực Bearer token, lưu thông tin user vào context.
// Phân quyền theo workspace (collaborator) được xử lý bởi WorkspaceContextMiddleware
// hoặc trực tiếp trong service theo từng resource.
func AuthMiddleware() fiber.Handler {
	// Sử dụng singleton instance của AuthManager
	authManager := GetAuthManager()

	return func(c fiber.Ctx) error {
		// Lấy token từ header
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			// Chỉ log khi thiếu token (lỗi quan trọng)
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":   c.Path(),
				"method": c.Method(),
			}).Warn("❌ [AUTH] Missing Authorization header")
			HandleErrorResponse(c, common.ErrTokenMissing)
			return nil
		}

		// Kiểm tra định dạng token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		token := parts[1]

		// Verify chữ ký JWT trước khi chạm database: token giả mạo
		// bị loại ngay, không tốn một query lookup.
		if _, err := utility.ParseToken(global.MongoDB_ServerConfig.JwtSecret, token); err != nil {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":  c.Path(),
				"error": err.Error(),
			}).Warn("❌ [AUTH] JWT signature verification failed")
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		user, err := authManager.findUserByToken(context.Background(), token)
		if err != nil {
			// Chỉ log khi không tìm thấy token (lỗi quan trọng)
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":  c.Path(),
				"error": err.Error(),
			}).Warn("❌ [AUTH] Token not found in database")
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		// Kiểm tra user có bị block không
		if user.IsBlock {
			HandleErrorResponse(c, common.NewError(
				common.ErrCodeAuthCredentials,
				"Tài khoản đã bị khóa: "+user.BlockNote,
				common.StatusForbidden,
				nil,
			))
			return nil
		}

		// Lưu thông tin user vào context
		c.Locals("user_id", user.ID.Hex())
		c.Locals("user_email", user.Email)
		c.Locals("user", user)

		return c.Next()
	}
}
