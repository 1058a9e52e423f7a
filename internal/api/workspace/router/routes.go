// Package router đăng ký các route thuộc domain workspace.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"feedo/internal/api/middleware"
	apirouter "feedo/internal/api/router"
	workspacehdl "feedo/internal/api/workspace/handler"
)

// Register đăng ký các route workspace lên v1.
// Workspace là gốc phân quyền nên không dùng CRUD route generic: mọi route
// đều kiểm tra quyền collaborator cụ thể trong handler.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	workspaceHandler, err := workspacehdl.NewWorkspaceHandler()
	if err != nil {
		return fmt.Errorf("failed to create workspace handler: %w", err)
	}

	authMiddleware := middleware.AuthMiddleware()
	chain := []fiber.Handler{authMiddleware}

	apirouter.RegisterRouteWithMiddleware(v1, "/workspace", "POST", "/", chain, workspaceHandler.HandleCreate)
	apirouter.RegisterRouteWithMiddleware(v1, "/workspace", "GET", "/mine", chain, workspaceHandler.HandleListMine)
	// Đăng ký trước "/:id" để không bị param route bắt mất
	apirouter.RegisterRouteWithMiddleware(v1, "/workspace", "GET", "/storage-used", chain, workspaceHandler.HandleStorageUsed)
	apirouter.RegisterRouteWithMiddleware(v1, "/workspace", "GET", "/:id", chain, workspaceHandler.HandleGetById)
	apirouter.RegisterRouteWithMiddleware(v1, "/workspace", "PUT", "/:id", chain, workspaceHandler.HandleUpdate)
	apirouter.RegisterRouteWithMiddleware(v1, "/workspace", "DELETE", "/:id", chain, workspaceHandler.HandleDelete)
	apirouter.RegisterRouteWithMiddleware(v1, "/workspace", "GET", "/:id/quota", chain, workspaceHandler.HandleGetQuota)
	apirouter.RegisterRouteWithMiddleware(v1, "/workspace", "POST", "/:id/collaborator", chain, workspaceHandler.HandleAddCollaborator)
	apirouter.RegisterRouteWithMiddleware(v1, "/workspace", "PUT", "/:id/collaborator", chain, workspaceHandler.HandleUpdateCollaborator)
	apirouter.RegisterRouteWithMiddleware(v1, "/workspace", "DELETE", "/:id/collaborator", chain, workspaceHandler.HandleRemoveCollaborator)

	return nil
}
