package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Resolver thông tin người resolve một comment/annotation.
type Resolver struct {
	ID           string `json:"id" bson:"id"`
	UserName     string `json:"userName" bson:"userName"`
	UserImageURL string `json:"userImageUrl,omitempty" bson:"userImageUrl,omitempty"`
	ResolvedAt   int64  `json:"resolvedAt" bson:"resolvedAt"`
}

// Comment bình luận gắn mốc thời gian trên video.
// Timestamp định dạng "M:SS.mmm", rỗng nếu comment không gắn mốc.
type Comment struct {
	ID             string    `json:"id" bson:"id"`
	Content        string    `json:"content" bson:"content"`
	Timestamp      string    `json:"timestamp,omitempty" bson:"timestamp,omitempty"`
	AuthorEmail    string    `json:"authorEmail" bson:"authorEmail"`
	AuthorName     string    `json:"authorName" bson:"authorName"`
	AuthorImageURL string    `json:"authorImageUrl,omitempty" bson:"authorImageUrl,omitempty"`
	IsResolved     bool      `json:"isResolved" bson:"isResolved"`
	Resolved       *Resolver `json:"resolved,omitempty" bson:"resolved,omitempty"`
	CreatedAt      int64     `json:"createdAt" bson:"createdAt"`
}

// Annotation cùng hình dạng với Comment nhưng mang hình vẽ base64 thay cho nội dung chữ.
type Annotation struct {
	ID             string    `json:"id" bson:"id"`
	Data           string    `json:"data" bson:"data"`
	Timestamp      string    `json:"timestamp,omitempty" bson:"timestamp,omitempty"`
	AuthorEmail    string    `json:"authorEmail" bson:"authorEmail"`
	AuthorName     string    `json:"authorName" bson:"authorName"`
	AuthorImageURL string    `json:"authorImageUrl,omitempty" bson:"authorImageUrl,omitempty"`
	IsResolved     bool      `json:"isResolved" bson:"isResolved"`
	Resolved       *Resolver `json:"resolved,omitempty" bson:"resolved,omitempty"`
	CreatedAt      int64     `json:"createdAt" bson:"createdAt"`
}

// Video bản ghi "trang video" chính tắc, khóa theo version: bản denormalize
// của Version kèm danh sách comment và annotation riêng.
type Video struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	WorkspaceID primitive.ObjectID `json:"workspaceId" bson:"workspaceId" index:"single"`
	ProjectID   primitive.ObjectID `json:"projectId" bson:"projectId" index:"single"`
	VersionID   primitive.ObjectID `json:"versionId" bson:"versionId" index:"unique"`
	Title       string             `json:"title" bson:"title"`
	StorageKey  string             `json:"storageKey" bson:"storageKey"`
	CdnURL      string             `json:"cdnUrl" bson:"cdnUrl"`
	Size        int64              `json:"size" bson:"size"`
	MimeType    string             `json:"mimeType" bson:"mimeType"`
	Duration    float64            `json:"duration" bson:"duration"`
	ThumbnailID primitive.ObjectID `json:"thumbnailId,omitempty" bson:"thumbnailId,omitempty"`
	Comments    []Comment          `json:"comments" bson:"comments"`
	Annotations []Annotation       `json:"annotations" bson:"annotations"`
	CreatedAt   int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64              `json:"updatedAt" bson:"updatedAt"`
}
