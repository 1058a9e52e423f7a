package main

import (
	workspacesvc "feedo/internal/api/workspace/service"
	"feedo/internal/logger"
)

// InitDefaultData gắn các hook mặc định của hệ thống trước khi nhận request.
func InitDefaultData() {
	log := logger.GetAppLogger()
	log.Info("🔄 [INIT] Starting InitDefaultData...")

	// Đăng ký các hook đồng bộ dữ liệu workspace (aggregate khi xoá project/version)
	workspacesvc.RegisterDataChangeHooks()
	log.Info("✅ [INIT] Workspace data change hooks registered")

	log.Info("✅ [INIT] InitDefaultData completed successfully")
}
