package reviewdto

// VideoCreateInput đầu vào tạo video document (thường do metadata writer gọi nội bộ).
type VideoCreateInput struct {
	ProjectID  string `json:"projectId" transform:"str_objectid" validate:"required,exists=projects"`
	VersionID  string `json:"versionId" transform:"str_objectid" validate:"required,exists=versions"`
	Title      string `json:"title" validate:"required,no_xss,max=300"`
	StorageKey string `json:"storageKey" validate:"required"`
	CdnURL     string `json:"cdnUrl" validate:"omitempty,url"`
	Size       int64  `json:"size" validate:"required,min=1"`
	MimeType   string `json:"mimeType" validate:"required"`
}

// VideoUpdateInput đầu vào cập nhật video document.
type VideoUpdateInput struct {
	Title string `json:"title" validate:"omitempty,no_xss,max=300"`
}

// CommentAddInput đầu vào thêm comment vào video.
type CommentAddInput struct {
	Content   string `json:"content" validate:"required,no_xss,max=2000"`
	Timestamp string `json:"timestamp" validate:"omitempty,timecode"`
}

// CommentResolveInput đầu vào resolve/unresolve comment.
type CommentResolveInput struct {
	CommentID  string `json:"commentId" validate:"required"`
	IsResolved bool   `json:"isResolved"`
}

// CommentDeleteInput đầu vào xóa comment.
type CommentDeleteInput struct {
	CommentID string `json:"commentId" validate:"required"`
}

// AnnotationAddInput đầu vào thêm annotation (hình vẽ base64) vào video.
type AnnotationAddInput struct {
	Data      string `json:"data" validate:"required"`
	Timestamp string `json:"timestamp" validate:"omitempty,timecode"`
}

// AnnotationResolveInput đầu vào resolve/unresolve annotation.
type AnnotationResolveInput struct {
	AnnotationID string `json:"annotationId" validate:"required"`
	IsResolved   bool   `json:"isResolved"`
}

// AnnotationDeleteInput đầu vào xóa annotation.
type AnnotationDeleteInput struct {
	AnnotationID string `json:"annotationId" validate:"required"`
}

// ThumbnailCreateInput đầu vào tạo thumbnail.
type ThumbnailCreateInput struct {
	VideoID  string `json:"videoId" transform:"str_objectid,optional" validate:"omitempty,exists=videos"`
	Data     string `json:"data" validate:"required"`
	MimeType string `json:"mimeType" validate:"omitempty"`
}

// ThumbnailUpdateInput đầu vào cập nhật thumbnail.
type ThumbnailUpdateInput struct {
	Data string `json:"data" validate:"required"`
}
