package global

import (
	"context"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// timecodeRegex khớp định dạng mốc thời gian của comment: M:SS.mmm
var timecodeRegex = regexp.MustCompile(`^\d+:[0-5]\d\.\d{3}$`)

// InitValidator khởi tạo và đăng ký các custom validator
func InitValidator() {
	// Khởi tạo validator
	Validate = validator.New()

	// Đăng ký các custom validator
	_ = Validate.RegisterValidation("no_xss", validateNoXSS)
	_ = Validate.RegisterValidation("exists", validateExists)
	_ = Validate.RegisterValidation("timecode", validateTimecode)
	_ = Validate.RegisterValidation("permission", validatePermission)
	_ = Validate.RegisterValidation("tier", validateTier)
	_ = Validate.RegisterValidation("project_status", validateProjectStatus)
}

// validateNoXSS kiểm tra XSS
func validateNoXSS(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	dangerousPatterns := []string{
		"<script",
		"javascript:",
		"onerror=",
		"onload=",
		"onclick=",
		"onmouseover=",
		"eval(",
		"document.cookie",
		"document.write",
		"innerHTML",
		"fromCharCode",
		"window.location",
		"<iframe",
		"<object",
		"<embed",
	}

	value = strings.ToLower(value)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(value, pattern) {
			return false
		}
	}
	return true
}

// validateTimecode kiểm tra định dạng mốc thời gian M:SS.mmm (ví dụ "1:05.250")
// Chuỗi rỗng được chấp nhận (comment không gắn mốc thời gian)
func validateTimecode(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return timecodeRegex.MatchString(value)
}

// validatePermission kiểm tra quyền của cộng tác viên trong workspace
func validatePermission(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "owner", "editor", "viewer", "client":
		return true
	}
	return false
}

// validateTier kiểm tra gói lưu trữ của người dùng
func validateTier(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "", "free", "premium", "enterprise":
		return true
	}
	return false
}

// validateProjectStatus kiểm tra trạng thái project thuộc tập đóng
func validateProjectStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "In Progress", "Pending Review", "Reviewed", "Rejected", "Completed":
		return true
	}
	return false
}

// validateExists kiểm tra ObjectID tồn tại trong collection (foreign key validation)
// Format: validate:"exists=<collection_name>"
// Ví dụ: validate:"exists=workspaces"
func validateExists(fl validator.FieldLevel) bool {
	value := fl.Field()

	// Lấy collection name từ param
	collectionName := fl.Param()
	if collectionName == "" {
		return false
	}

	// Convert value sang ObjectID
	var objID primitive.ObjectID
	switch v := value.Interface().(type) {
	case string:
		if v == "" {
			return true // Empty string = optional, skip validation (nếu có omitempty)
		}
		var err error
		objID, err = primitive.ObjectIDFromHex(v)
		if err != nil {
			return false
		}
	case primitive.ObjectID:
		if v == primitive.NilObjectID {
			return true // Nil ObjectID = optional, skip validation
		}
		objID = v
	case *primitive.ObjectID:
		if v == nil {
			return true // Nil pointer = optional, skip validation
		}
		objID = *v
	default:
		// Không phải ObjectID → không validate
		return false
	}

	// Lấy collection từ registry
	collection, exist := RegistryCollections.Get(collectionName)
	if !exist {
		// Collection không tồn tại trong registry → không thể validate
		return false
	}

	// Query database để check tồn tại
	ctx := context.Background()
	count, err := collection.CountDocuments(ctx, bson.M{"_id": objID})
	if err != nil {
		return false
	}

	return count > 0
}
