package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Thumbnail document độc lập giữ ảnh base64, tham chiếu theo id từ version
// để tránh nhúng payload lớn lặp lại trong project/video.
type Thumbnail struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	WorkspaceID primitive.ObjectID `json:"workspaceId" bson:"workspaceId" index:"single"`
	VideoID     primitive.ObjectID `json:"videoId,omitempty" bson:"videoId,omitempty" index:"single"`
	Data        string             `json:"data" bson:"data"`
	MimeType    string             `json:"mimeType" bson:"mimeType" default:"image/jpeg"`
	CreatedAt   int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64              `json:"updatedAt" bson:"updatedAt"`
}
