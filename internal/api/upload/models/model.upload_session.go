package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trạng thái phiên multipart upload.
const (
	SessionPending   = "pending"
	SessionCompleted = "completed"
	SessionAborted   = "aborted"
)

// UploadSession phiên multipart upload đang mở trên storage backend.
// Ghi lại khi start để complete/abort có thể xác thực uploadId thuộc về
// phiên hợp lệ và phát hiện phiên hết hạn.
type UploadSession struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	WorkspaceID primitive.ObjectID `json:"workspaceId,omitempty" bson:"workspaceId,omitempty" index:"single"`
	FileName    string             `json:"fileName" bson:"fileName"`
	Key         string             `json:"key" bson:"key"`
	UploadID    string             `json:"uploadId" bson:"uploadId" index:"unique"`
	ContentType string             `json:"contentType" bson:"contentType"`
	PartSize    int64              `json:"partSize" bson:"partSize"`
	Status      string             `json:"status" bson:"status" default:"pending"`
	ExpiresAt   int64              `json:"expiresAt" bson:"expiresAt"`
	CreatedAt   int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64              `json:"updatedAt" bson:"updatedAt"`
}
