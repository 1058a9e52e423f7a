package global

import (
	"feedo/config"
	"feedo/internal/registry"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

// ColNames chứa tên các collection trong database
type ColNames struct {
	Users          string // Người dùng (auth_users)
	Workspaces     string // Workspace cộng tác (workspaces)
	Projects       string // Project video trong workspace (projects)
	Versions       string // Các version của project (versions)
	Videos         string // Tài liệu trang video (denormalize từ version) (videos)
	Thumbnails     string // Ảnh thumbnail base64 tách riêng (thumbnails)
	UploadSessions string // Phiên multipart upload (upload_sessions)
}

var (
	// MongoDB_ServerConfig là cấu hình server được load từ env
	MongoDB_ServerConfig *config.Configuration

	// MongoDB_Session là client MongoDB dùng chung
	MongoDB_Session *mongo.Client

	// MongoDB_ColNames là tên các collection
	MongoDB_ColNames ColNames

	// RegistryCollections là registry các collection đã đăng ký
	RegistryCollections = registry.NewRegistry[*mongo.Collection]()

	// Validate là validator instance dùng chung
	Validate *validator.Validate
)
