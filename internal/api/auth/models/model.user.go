// Package models - model người dùng (User) thuộc domain auth.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tier gói dung lượng của người dùng.
const (
	TierFree       = "free"
	TierPremium    = "premium"
	TierEnterprise = "enterprise"
)

// TierQuotaGB trả về hạn mức dung lượng (GB) theo tier. Tier không hợp lệ trả về hạn mức free.
func TierQuotaGB(tier string) int64 {
	switch tier {
	case TierPremium:
		return 2048
	case TierEnterprise:
		return 8192
	default:
		return 2
	}
}

// User định nghĩa mô hình người dùng
// Token chứa token xác thực mới nhất của người dùng
// Tokens chứa danh sách các token, mỗi thiết bị khác nhau sẽ có một token riêng để xác thực (bằng hwid)
type User struct {
	_Relationships struct{}           `relationship:"collection:workspaces,field:owner,message:Không thể xóa user vì có %d workspace thuộc sở hữu của user này. Vui lòng xóa hoặc chuyển quyền sở hữu các workspace trước."`
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name           string             `json:"name" bson:"name"`
	Email          string             `json:"email,omitempty" bson:"email,omitempty" index:"unique,sparse"`
	Password       string             `json:"-" bson:"password,omitempty"`
	Salt           string             `json:"-" bson:"salt,omitempty"`
	Tier           string             `json:"tier" bson:"tier"`
	IsAdmin        bool               `json:"isAdmin" bson:"isAdmin"`
	AvatarURL      string             `json:"avatarUrl,omitempty" bson:"avatarUrl,omitempty"`
	Token          string             `json:"token" bson:"token"`
	Tokens         []Token            `json:"-" bson:"tokens"`
	IsBlock        bool               `json:"-" bson:"isBlock"`
	BlockNote      string             `json:"-" bson:"blockNote"`
	CreatedAt      int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt      int64              `json:"updatedAt" bson:"updatedAt"`
}

// UserPaginateResult đại diện cho kết quả phân trang User
type UserPaginateResult struct {
	Page      int64  `json:"page" bson:"page"`
	Limit     int64  `json:"limit" bson:"limit"`
	ItemCount int64  `json:"itemCount" bson:"itemCount"`
	Items     []User `json:"items" bson:"items"`
}
