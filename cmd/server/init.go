package main

import (
	"context"

	"feedo/config"
	authmodels "feedo/internal/api/auth/models"
	reviewmodels "feedo/internal/api/review/models"
	uploadmodels "feedo/internal/api/upload/models"
	wsmodels "feedo/internal/api/workspace/models"
	"feedo/internal/database"
	"feedo/internal/global"

	"github.com/sirupsen/logrus"
)

// Hàm khởi tạo các biến toàn cục
func InitGlobal() {
	initColNames()         // Khởi tạo tên các collection trong database
	initValidator()        // Khởi tạo validator
	initConfig()           // Khởi tạo cấu hình server
	initDatabase_MongoDB() // Khởi tạo kết nối database
}

// Hàm khởi tạo tên các collection trong database
func initColNames() {
	global.MongoDB_ColNames.Users = "auth_users"
	global.MongoDB_ColNames.Workspaces = "workspaces"
	global.MongoDB_ColNames.Projects = "projects"
	global.MongoDB_ColNames.Versions = "versions"
	global.MongoDB_ColNames.Videos = "videos"
	global.MongoDB_ColNames.Thumbnails = "thumbnails"
	global.MongoDB_ColNames.UploadSessions = "upload_sessions"

	logrus.Info("Initialized collection names") // Ghi log thông báo đã khởi tạo tên các collection
}

// Hàm khởi tạo validator (dùng global.InitValidator để đăng ký custom validators: no_xss, timecode, permission, ...)
func initValidator() {
	global.InitValidator()
	logrus.Info("Initialized validator") // Ghi log thông báo đã khởi tạo validator
}

// Hàm khởi tạo cấu hình server
func initConfig() {
	global.MongoDB_ServerConfig = config.NewConfig()
	if global.MongoDB_ServerConfig == nil {
		logrus.Fatalf("Failed to initialize config: config is nil") // Ghi log lỗi nếu khởi tạo cấu hình thất bại
	}
	logrus.Info("Initialized server config") // Ghi log thông báo đã khởi tạo cấu hình server
}

// Hàm khởi tạo kết nối database
func initDatabase_MongoDB() {
	var err error
	global.MongoDB_Session, err = database.GetInstance(global.MongoDB_ServerConfig)
	if err != nil {
		logrus.Fatalf("Failed to get database instance: %v", err) // Ghi log lỗi nếu kết nối database thất bại
	}
	logrus.Info("Connected to MongoDB") // Ghi log thông báo đã kết nối database thành công

	// Khởi tạo các db và collections nếu chưa có
	if err := database.EnsureDatabaseAndCollections(global.MongoDB_Session); err != nil {
		logrus.Fatalf("Failed to ensure database and collections: %v", err)
	}
	logrus.Info("Ensured database and collections") // Ghi log thông báo đã đảm bảo database và các collection

	// Khơi tạo các index cho các collection
	dbName := global.MongoDB_ServerConfig.MongoDB_DBName
	db := global.MongoDB_Session.Database(dbName)
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Users), authmodels.User{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Workspaces), wsmodels.Workspace{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Projects), reviewmodels.Project{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Versions), reviewmodels.Version{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Videos), reviewmodels.Video{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Thumbnails), reviewmodels.Thumbnail{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.UploadSessions), uploadmodels.UploadSession{})
}
