// Package models - các model thuộc domain review: Project, Version, Video, Thumbnail.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status các trạng thái của project. Tập đóng, chuyển trạng thái theo bảng allowedTransitions.
const (
	StatusInProgress    = "In Progress"
	StatusPendingReview = "Pending Review"
	StatusReviewed      = "Reviewed"
	StatusRejected      = "Rejected"
	StatusCompleted     = "Completed"
)

// allowedTransitions bảng chuyển trạng thái hợp lệ. Completed là trạng thái cuối.
var allowedTransitions = map[string][]string{
	StatusInProgress:    {StatusPendingReview},
	StatusPendingReview: {StatusReviewed, StatusRejected},
	StatusRejected:      {StatusInProgress, StatusPendingReview},
	StatusReviewed:      {StatusCompleted, StatusRejected},
	StatusCompleted:     {},
}

// CanTransition kiểm tra chuyển từ from sang to có hợp lệ không.
func CanTransition(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// AllowedNextStatuses trả về các trạng thái có thể chuyển tới từ from.
func AllowedNextStatuses(from string) []string {
	return allowedTransitions[from]
}

// VersionRef bản tóm tắt version nhúng trong project.
type VersionRef struct {
	VersionID primitive.ObjectID `json:"versionId" bson:"versionId"`
	Number    int                `json:"number" bson:"number"`
	Size      int64              `json:"size" bson:"size"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`
}

// Project một deliverable video trong workspace, chứa một hoặc nhiều version.
type Project struct {
	_Relationships struct{}           `relationship:"collection:versions,field:projectId,message:Không thể xóa project vì có %d version trực thuộc. Vui lòng xóa các version trước."`
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	WorkspaceID    primitive.ObjectID `json:"workspaceId" bson:"workspaceId" index:"single"`
	Title          string             `json:"title" bson:"title"`
	Status         string             `json:"status" bson:"status" default:"In Progress"`
	Progress       int                `json:"progress" bson:"progress"`
	DueDate        int64              `json:"dueDate,omitempty" bson:"dueDate,omitempty"`
	NumVersions    int                `json:"numVersions" bson:"numVersions"`
	Versions       []VersionRef       `json:"versions" bson:"versions"`
	CreatedAt      int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt      int64              `json:"updatedAt" bson:"updatedAt"`
}
