// Package router đăng ký các route thuộc domain review.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"feedo/internal/api/middleware"
	reviewhdl "feedo/internal/api/review/handler"
	apirouter "feedo/internal/api/router"
)

// Register đăng ký các route review lên v1: project, version, video, thumbnail.
// CRUD generic dùng cho đọc/cập nhật thường; các thao tác có nghiệp vụ riêng
// (chuyển trạng thái, tạo version, comment/annotation) có route tùy biến.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	projectHandler, err := reviewhdl.NewProjectHandler()
	if err != nil {
		return fmt.Errorf("failed to create project handler: %w", err)
	}
	versionHandler, err := reviewhdl.NewVersionHandler()
	if err != nil {
		return fmt.Errorf("failed to create version handler: %w", err)
	}
	videoHandler, err := reviewhdl.NewVideoHandler()
	if err != nil {
		return fmt.Errorf("failed to create video handler: %w", err)
	}
	thumbnailHandler, err := reviewhdl.NewThumbnailHandler()
	if err != nil {
		return fmt.Errorf("failed to create thumbnail handler: %w", err)
	}

	r.RegisterCRUDRoutes(v1, "/project", projectHandler, apirouter.ReadWriteConfig)
	r.RegisterCRUDRoutes(v1, "/version", versionHandler, apirouter.ReadOnlyConfig)
	r.RegisterCRUDRoutes(v1, "/video", videoHandler, apirouter.ReadWriteConfig)
	r.RegisterCRUDRoutes(v1, "/thumbnail", thumbnailHandler, apirouter.ReadWriteConfig)

	authMiddleware := middleware.AuthMiddleware()
	wsContextMiddleware := middleware.WorkspaceContextMiddleware()
	chain := []fiber.Handler{authMiddleware, wsContextMiddleware}

	// Project: chuyển trạng thái theo bảng chuyển trạng thái
	apirouter.RegisterRouteWithMiddleware(v1, "/project", "PUT", "/:id/status", chain, projectHandler.HandleChangeStatus)
	apirouter.RegisterRouteWithMiddleware(v1, "/project", "GET", "/:id/status/allowed", chain, projectHandler.HandleGetAllowedStatuses)

	// Version: tạo và xóa có nghiệp vụ riêng (số version do server gán)
	apirouter.RegisterRouteWithMiddleware(v1, "/version", "POST", "/", chain, versionHandler.HandleCreateVersion)
	apirouter.RegisterRouteWithMiddleware(v1, "/version", "DELETE", "/:id", chain, versionHandler.HandleDeleteVersion)

	// Video: comment và annotation
	apirouter.RegisterRouteWithMiddleware(v1, "/video", "POST", "/:id/comment", chain, videoHandler.HandleAddComment)
	apirouter.RegisterRouteWithMiddleware(v1, "/video", "PUT", "/:id/comment/resolve", chain, videoHandler.HandleResolveComment)
	apirouter.RegisterRouteWithMiddleware(v1, "/video", "DELETE", "/:id/comment", chain, videoHandler.HandleDeleteComment)
	apirouter.RegisterRouteWithMiddleware(v1, "/video", "POST", "/:id/annotation", chain, videoHandler.HandleAddAnnotation)
	apirouter.RegisterRouteWithMiddleware(v1, "/video", "PUT", "/:id/annotation/resolve", chain, videoHandler.HandleResolveAnnotation)
	apirouter.RegisterRouteWithMiddleware(v1, "/video", "DELETE", "/:id/annotation", chain, videoHandler.HandleDeleteAnnotation)

	return nil
}
