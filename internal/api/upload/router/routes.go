// Package router đăng ký các route thuộc domain upload.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"feedo/internal/api/middleware"
	apirouter "feedo/internal/api/router"
	uploadhdl "feedo/internal/api/upload/handler"
	uploadsvc "feedo/internal/api/upload/service"
	"feedo/internal/global"
)

// Register đăng ký các route upload. Upload là API hợp đồng với client nên
// nằm trực tiếp dưới /api thay vì /api/v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	storage, err := uploadsvc.NewStorageService(global.MongoDB_ServerConfig)
	if err != nil {
		return fmt.Errorf("failed to create storage service: %w", err)
	}
	uploadService, err := uploadsvc.NewUploadService(storage)
	if err != nil {
		return fmt.Errorf("failed to create upload service: %w", err)
	}
	uploadHandler, err := uploadhdl.NewUploadHandler(uploadService)
	if err != nil {
		return fmt.Errorf("failed to create upload handler: %w", err)
	}

	authMiddleware := middleware.AuthMiddleware()
	wsContextMiddleware := middleware.WorkspaceContextMiddleware()
	chain := []fiber.Handler{authMiddleware, wsContextMiddleware}

	app := r.App()
	apirouter.RegisterRouteWithMiddleware(app, "/api/upload", "POST", "/multipart/start", chain, uploadHandler.HandleMultipartStart)
	apirouter.RegisterRouteWithMiddleware(app, "/api/upload", "POST", "/multipart/presign", chain, uploadHandler.HandleMultipartPresign)
	apirouter.RegisterRouteWithMiddleware(app, "/api/upload", "POST", "/multipart/complete", chain, uploadHandler.HandleMultipartComplete)
	apirouter.RegisterRouteWithMiddleware(app, "/api/upload", "POST", "/multipart/abort", chain, uploadHandler.HandleMultipartAbort)
	apirouter.RegisterRouteWithMiddleware(app, "/api/upload", "POST", "/presign", chain, uploadHandler.HandlePresign)
	apirouter.RegisterRouteWithMiddleware(app, "/api/upload", "POST", "/", chain, uploadHandler.HandleUpload)

	return nil
}
