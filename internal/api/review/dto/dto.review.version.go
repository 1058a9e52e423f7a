package reviewdto

// VersionCreateInput đầu vào tạo version. Số version do service gán (max+1),
// không nhận từ client.
type VersionCreateInput struct {
	ProjectID  string  `json:"projectId" transform:"str_objectid" validate:"required,exists=projects"`
	StorageKey string  `json:"storageKey" validate:"required"`
	CdnURL     string  `json:"cdnUrl" validate:"omitempty,url"`
	Size       int64   `json:"size" validate:"required,min=1"`
	MimeType   string  `json:"mimeType" validate:"required"`
	Duration   float64 `json:"duration" validate:"omitempty,min=0"`
}

// VersionUpdateInput đầu vào cập nhật version (metadata phụ).
type VersionUpdateInput struct {
	CdnURL   string  `json:"cdnUrl" validate:"omitempty,url"`
	Duration float64 `json:"duration" validate:"omitempty,min=0"`
}
