package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Version một file video cụ thể của project. Số version tăng đơn điệu trong
// project, gán bằng max(hiện có)+1.
type Version struct {
	_Relationships struct{}           `relationship:"collection:videos,field:versionId,message:Không thể xóa version vì có %d video document trực thuộc. Vui lòng xóa video trước."`
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	WorkspaceID    primitive.ObjectID `json:"workspaceId" bson:"workspaceId" index:"single"`
	ProjectID      primitive.ObjectID `json:"projectId" bson:"projectId" index:"compound:projectId_version_unique"`
	Version        int                `json:"version" bson:"version" index:"compound:projectId_version_unique"`
	StorageKey     string             `json:"storageKey" bson:"storageKey"`
	CdnURL         string             `json:"cdnUrl" bson:"cdnUrl"`
	Size           int64              `json:"size" bson:"size"`
	MimeType       string             `json:"mimeType" bson:"mimeType"`
	Duration       float64            `json:"duration" bson:"duration"`
	ThumbnailID    primitive.ObjectID `json:"thumbnailId,omitempty" bson:"thumbnailId,omitempty"`
	CreatedAt      int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt      int64              `json:"updatedAt" bson:"updatedAt"`
}
