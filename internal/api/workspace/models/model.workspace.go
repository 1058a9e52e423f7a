// Package models - model Workspace và Collaborator.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Permission các mức quyền của collaborator trong workspace.
const (
	PermissionOwner  = "owner"
	PermissionEditor = "editor"
	PermissionViewer = "viewer"
	PermissionClient = "client"
)

// CanEdit trả về true nếu permission cho phép chỉnh sửa nội dung workspace.
func CanEdit(permission string) bool {
	return permission == PermissionOwner || permission == PermissionEditor
}

// CanComment trả về true nếu permission cho phép bình luận (mọi thành viên đều được).
func CanComment(permission string) bool {
	switch permission {
	case PermissionOwner, PermissionEditor, PermissionViewer, PermissionClient:
		return true
	}
	return false
}

// Collaborator một thành viên của workspace, định danh bằng email.
type Collaborator struct {
	Email      string `json:"email" bson:"email"`
	Permission string `json:"permission" bson:"permission"`
}

// Workspace không gian làm việc chứa project, version, video.
// StorageUsed (byte) và VideoCount là số liệu tổng hợp, cập nhật atomic bằng $inc
// khi video được upload hoặc xóa.
type Workspace struct {
	_Relationships struct{}           `relationship:"collection:projects,field:workspaceId,message:Không thể xóa workspace vì có %d project trực thuộc. Vui lòng xóa các project trước."`
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name           string             `json:"name" bson:"name"`
	Description    string             `json:"description" bson:"description"`
	Owner          primitive.ObjectID `json:"owner" bson:"owner" index:"single"`
	Collaborators  []Collaborator     `json:"collaborators" bson:"collaborators" index:"single"`
	NumMembers     int64              `json:"numMembers" bson:"numMembers"`
	StorageUsed    int64              `json:"storageUsed" bson:"storageUsed"`
	VideoCount     int64              `json:"videoCount" bson:"videoCount"`
	CreatedAt      int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt      int64              `json:"updatedAt" bson:"updatedAt"`
}

// GetPermissionForEmail trả về permission của email trong workspace, rỗng nếu không phải thành viên.
func (w *Workspace) GetPermissionForEmail(email string) string {
	for _, c := range w.Collaborators {
		if c.Email == email {
			return c.Permission
		}
	}
	return ""
}
