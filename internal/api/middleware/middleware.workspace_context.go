package middleware

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"feedo/internal/global"
)

// workspaceMembership là projection tối thiểu để kiểm tra quyền của user trong workspace.
type workspaceMembership struct {
	ID            primitive.ObjectID `bson:"_id"`
	Collaborators []struct {
		Email      string `bson:"email"`
		Permission string `bson:"permission"`
	} `bson:"collaborators"`
}

// WorkspaceContextMiddleware middleware để quản lý workspace context.
// - Đọc X-Workspace-ID từ header (hoặc param workspaceId của route)
// - Validate user là collaborator của workspace này (theo email)
// - Lưu active_workspace_id và workspace_permission vào context
//
// Middleware này không chặn request khi thiếu workspace context — các handler
// cần phân quyền chặt sẽ tự kiểm tra qua workspace service.
func WorkspaceContextMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		// Lấy email từ context (đã được set bởi AuthMiddleware)
		userEmail, ok := c.Locals("user_email").(string)
		if !ok || userEmail == "" {
			// Không có user, có thể là route không cần auth
			return c.Next()
		}

		// Lấy workspace ID từ header hoặc route param
		workspaceIDStr := c.Get("X-Workspace-ID")
		if workspaceIDStr == "" {
			workspaceIDStr = c.Params("workspaceId")
		}
		if workspaceIDStr == "" {
			return c.Next()
		}

		workspaceID, err := primitive.ObjectIDFromHex(workspaceIDStr)
		if err != nil {
			// Workspace ID không hợp lệ, không set context
			return c.Next()
		}

		permission, err := lookupWorkspacePermission(context.Background(), workspaceID, userEmail)
		if err != nil || permission == "" {
			// User không thuộc workspace này, không set context
			return c.Next()
		}

		c.Locals("active_workspace_id", workspaceID.Hex())
		c.Locals("workspace_permission", permission)

		return c.Next()
	}
}

// lookupWorkspacePermission trả về quyền của email trong workspace ("" nếu không phải collaborator).
func lookupWorkspacePermission(ctx context.Context, workspaceID primitive.ObjectID, email string) (string, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Workspaces)
	if !exist {
		return "", nil
	}

	var ws workspaceMembership
	err := collection.FindOne(ctx, bson.M{"_id": workspaceID}).Decode(&ws)
	if err != nil {
		return "", err
	}

	for _, collaborator := range ws.Collaborators {
		if collaborator.Email == email {
			return collaborator.Permission, nil
		}
	}
	return "", nil
}
