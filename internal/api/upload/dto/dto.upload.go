// Package uploaddto - DTO cho domain upload.
package uploaddto

// MultipartStartInput đầu vào mở phiên multipart upload.
type MultipartStartInput struct {
	FileName    string `json:"filename" validate:"required,max=500"`
	ContentType string `json:"contentType" validate:"required"`
}

// MultipartStartOutput kết quả mở phiên multipart upload.
type MultipartStartOutput struct {
	UploadID string `json:"uploadId"`
	Key      string `json:"key"`
	PartSize int64  `json:"partSize"`
}

// MultipartPresignInput đầu vào xin URL ký sẵn cho các part.
// PartNumbers là số lượng part; URL thứ i ứng với part i+1.
type MultipartPresignInput struct {
	FileName    string `json:"fileName" validate:"required,max=500"`
	UploadID    string `json:"uploadId" validate:"required"`
	PartNumbers int    `json:"partNumbers" validate:"required,min=1,max=10000"`
}

// MultipartPresignOutput danh sách URL ký sẵn theo thứ tự part.
type MultipartPresignOutput struct {
	PresignedUrls []string `json:"presignedUrls"`
}

// CompletedPartInput một part đã upload xong, do client báo về.
type CompletedPartInput struct {
	ETag       string `json:"ETag" validate:"required"`
	PartNumber int32  `json:"PartNumber" validate:"required,min=1"`
}

// MultipartCompleteInput đầu vào hoàn tất phiên multipart upload.
type MultipartCompleteInput struct {
	FileName string               `json:"filename" validate:"required,max=500"`
	UploadID string               `json:"uploadId" validate:"required"`
	Parts    []CompletedPartInput `json:"parts" validate:"required,min=1,dive"`
}

// MultipartCompleteOutput kết quả hoàn tất multipart upload.
type MultipartCompleteOutput struct {
	Key    string `json:"key"`
	CdnURL string `json:"cdnUrl"`
}

// MultipartAbortInput đầu vào hủy phiên multipart upload.
type MultipartAbortInput struct {
	FileName string `json:"filename" validate:"required,max=500"`
	UploadID string `json:"uploadId" validate:"required"`
}

// PresignInput đầu vào xin URL ký sẵn cho upload một file nhỏ.
// Size được kiểm tra server-side trước khi ký (0 < size ≤ 500 MB),
// contentType phải có prefix "video/".
type PresignInput struct {
	FileName    string `json:"filename" validate:"required,max=500"`
	ContentType string `json:"contentType" validate:"required"`
	Size        int64  `json:"size" validate:"required,min=1"`
}

// PresignOutput kết quả ký URL upload một file.
type PresignOutput struct {
	URL    string `json:"url"`
	Key    string `json:"key"`
	CdnURL string `json:"cdnUrl"`
}

// UploadOutput kết quả upload server-side (orchestrator).
type UploadOutput struct {
	Key    string `json:"key"`
	URL    string `json:"url"`
	CdnURL string `json:"cdnUrl"`
}
