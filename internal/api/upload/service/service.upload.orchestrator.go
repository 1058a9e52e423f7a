package uploadsvc

import (
	"context"
	"fmt"
	"sync"

	basesvc "feedo/internal/api/base/service"
	reviewmodels "feedo/internal/api/review/models"
	reviewsvc "feedo/internal/api/review/service"
	uploadmodels "feedo/internal/api/upload/models"
	workspacesvc "feedo/internal/api/workspace/service"
	"feedo/internal/common"
	"feedo/internal/media"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Ngưỡng và kích thước cố định của pipeline upload.
const (
	// SingleUploadThreshold file ≤ 20 MB đi đường PutObject trọn gói.
	SingleUploadThreshold = int64(20 * 1024 * 1024)
	// PartSize kích thước cố định mỗi part của multipart upload.
	PartSize = int64(10 * 1024 * 1024)
	// MaxSingleUploadSize trần kích thước cho đường presign một file.
	MaxSingleUploadSize = int64(500 * 1024 * 1024)
)

// PartCount số part cần cho size byte: ceil(size/PartSize).
func PartCount(size int64) int {
	return int((size + PartSize - 1) / PartSize)
}

// Các interface hẹp mô tả phần orchestrator cần từ những service xung quanh.
// WorkspaceService, VersionService... thỏa mãn sẵn; test thay bằng fake.
type workspaceAggregator interface {
	CheckQuota(ctx context.Context, workspaceID primitive.ObjectID, addBytes int64) error
	ApplyUploadAggregates(ctx context.Context, workspaceID primitive.ObjectID, sizeDelta int64, videoDelta int64) error
}

type versionWriter interface {
	CreateVersion(ctx context.Context, version reviewmodels.Version) (*reviewmodels.Version, error)
	UpdateById(ctx context.Context, id primitive.ObjectID, data interface{}) (reviewmodels.Version, error)
}

type videoWriter interface {
	InsertOne(ctx context.Context, video reviewmodels.Video) (reviewmodels.Video, error)
	UpdateById(ctx context.Context, id primitive.ObjectID, data interface{}) (reviewmodels.Video, error)
}

type thumbnailWriter interface {
	InsertOne(ctx context.Context, thumbnail reviewmodels.Thumbnail) (reviewmodels.Thumbnail, error)
}

// UploadService điều phối toàn bộ pipeline upload: quota, storage,
// media introspection và ghi metadata.
type UploadService struct {
	storage          *StorageService
	sessions         *SessionService
	workspaceService workspaceAggregator
	versionService   versionWriter
	videoService     videoWriter
	thumbnailService thumbnailWriter
}

// NewUploadService tạo mới UploadService với đầy đủ các service phụ thuộc.
func NewUploadService(storage *StorageService) (*UploadService, error) {
	sessions, err := NewSessionService()
	if err != nil {
		return nil, fmt.Errorf("failed to create session service: %v", err)
	}
	workspaceService, err := workspacesvc.NewWorkspaceService()
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace service: %v", err)
	}
	versionService, err := reviewsvc.NewVersionService()
	if err != nil {
		return nil, fmt.Errorf("failed to create version service: %v", err)
	}
	videoService, err := reviewsvc.NewVideoService()
	if err != nil {
		return nil, fmt.Errorf("failed to create video service: %v", err)
	}
	thumbnailService, err := reviewsvc.NewThumbnailService()
	if err != nil {
		return nil, fmt.Errorf("failed to create thumbnail service: %v", err)
	}
	return &UploadService{
		storage:          storage,
		sessions:         sessions,
		workspaceService: workspaceService,
		versionService:   versionService,
		videoService:     videoService,
		thumbnailService: thumbnailService,
	}, nil
}

// Storage trả về storage service (dùng cho handler presign).
func (s *UploadService) Storage() *StorageService {
	return s.storage
}

// PresignSingle ký URL PUT cho client tự upload một file nhỏ.
// Ràng buộc được kiểm tra server-side trước khi ký: 0 < size ≤ 500 MB,
// contentType phải là video.
func (s *UploadService) PresignSingle(ctx context.Context, workspaceID primitive.ObjectID, fileName, contentType string, size int64) (key string, url string, cdnURL string, err error) {
	if size <= 0 || size > MaxSingleUploadSize {
		return "", "", "", common.ErrFileTooLarge
	}
	if !isVideoContent(contentType) {
		return "", "", "", common.ErrInvalidContentType
	}
	if err := s.workspaceService.CheckQuota(ctx, workspaceID, size); err != nil {
		return "", "", "", err
	}

	key = s.storage.BuildStorageKey(fileName)
	url, err = s.storage.PresignPutObject(ctx, key, contentType)
	if err != nil {
		return "", "", "", err
	}
	return key, url, s.storage.CdnURL(key), nil
}

// MultipartStart mở phiên multipart upload và ghi session để
// presign/complete/abort xác thực được uploadId.
func (s *UploadService) MultipartStart(ctx context.Context, workspaceID primitive.ObjectID, fileName, contentType string) (*uploadmodels.UploadSession, error) {
	key := s.storage.BuildStorageKey(fileName)
	uploadID, err := s.storage.CreateMultipartUpload(ctx, key, contentType)
	if err != nil {
		return nil, err
	}
	session, err := s.sessions.Open(ctx, workspaceID, fileName, key, uploadID, contentType, PartSize)
	if err != nil {
		// Session không ghi được thì phiên trên storage thành mồ côi, hủy luôn.
		if abortErr := s.storage.AbortMultipartUpload(ctx, key, uploadID); abortErr != nil {
			logrus.WithFields(logrus.Fields{"upload_id": uploadID, "error": abortErr}).Error("Upload: hủy phiên mồ côi thất bại")
		}
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"upload_id": uploadID, "key": key}).Info("Upload: mở phiên multipart")
	return session, nil
}

// MultipartPresign ký URL cho partNumbers part của phiên; URL thứ i ứng với part i+1.
func (s *UploadService) MultipartPresign(ctx context.Context, uploadID string, partNumbers int) ([]string, error) {
	session, err := s.sessions.FindOpen(ctx, uploadID)
	if err != nil {
		return nil, err
	}
	urls := make([]string, 0, partNumbers)
	for i := 0; i < partNumbers; i++ {
		url, err := s.storage.PresignUploadPart(ctx, session.Key, uploadID, int32(i+1))
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// MultipartComplete hoàn tất phiên multipart; parts được sort theo PartNumber
// trong tầng storage trước khi gửi.
func (s *UploadService) MultipartComplete(ctx context.Context, uploadID string, parts []CompletedPart) (key string, cdnURL string, err error) {
	session, err := s.sessions.FindOpen(ctx, uploadID)
	if err != nil {
		return "", "", err
	}
	if err := s.storage.CompleteMultipartUpload(ctx, session.Key, uploadID, parts); err != nil {
		return "", "", err
	}
	if err := s.sessions.Close(ctx, session.ID, uploadmodels.SessionCompleted); err != nil {
		logrus.WithFields(logrus.Fields{"upload_id": uploadID, "error": err}).Warn("Upload: không đóng được session sau complete")
	}
	logrus.WithFields(logrus.Fields{"upload_id": uploadID, "key": session.Key, "parts": len(parts)}).Info("Upload: hoàn tất multipart")
	return session.Key, s.storage.CdnURL(session.Key), nil
}

// MultipartAbort hủy phiên multipart và đóng session.
func (s *UploadService) MultipartAbort(ctx context.Context, uploadID string) error {
	session, err := s.sessions.FindOpen(ctx, uploadID)
	if err != nil {
		return err
	}
	if err := s.storage.AbortMultipartUpload(ctx, session.Key, uploadID); err != nil {
		return err
	}
	if err := s.sessions.Close(ctx, session.ID, uploadmodels.SessionAborted); err != nil {
		logrus.WithFields(logrus.Fields{"upload_id": uploadID, "error": err}).Warn("Upload: không đóng được session sau abort")
	}
	return nil
}

// UploadParams đầu vào của orchestrator upload server-side.
type UploadParams struct {
	WorkspaceID primitive.ObjectID
	ProjectID   primitive.ObjectID
	Title       string
	FileName    string
	ContentType string
	Data        []byte
}

// UploadResult kết quả upload server-side.
type UploadResult struct {
	Key       string                `json:"key"`
	CdnURL    string                `json:"cdnUrl"`
	Version   *reviewmodels.Version `json:"version,omitempty"`
	VideoID   primitive.ObjectID    `json:"videoId,omitempty"`
	Duration  float64               `json:"duration"`
	Thumbnail primitive.ObjectID    `json:"thumbnailId,omitempty"`
}

// Upload chạy orchestrator đầy đủ: kiểm tra quota TRƯỚC mọi network call,
// chọn đường đi theo ngưỡng 20 MB, introspect media và ghi metadata.
func (s *UploadService) Upload(ctx context.Context, params UploadParams) (*UploadResult, error) {
	size := int64(len(params.Data))
	if size == 0 {
		return nil, common.NewError(common.ErrCodeValidationInput, "File rỗng", common.StatusBadRequest, nil)
	}
	if size > MaxSingleUploadSize {
		return nil, common.ErrFileTooLarge
	}
	if !isVideoContent(params.ContentType) {
		return nil, common.ErrInvalidContentType
	}
	if err := s.workspaceService.CheckQuota(ctx, params.WorkspaceID, size); err != nil {
		return nil, err
	}

	key := s.storage.BuildStorageKey(params.FileName)
	if err := s.storeObject(ctx, key, params.ContentType, params.Data); err != nil {
		return nil, err
	}

	introspect := media.Introspect(ctx, params.Data, params.FileName)

	result, err := s.writeUploadMetadata(ctx, params, key, size, introspect)
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"key":      key,
		"size":     size,
		"duration": introspect.Duration,
	}).Info("Upload: hoàn tất pipeline")
	return result, nil
}

// storeObject chọn đường đi theo ngưỡng: file ≤ 20 MB đi PutObject trọn gói,
// lớn hơn đi multipart.
func (s *UploadService) storeObject(ctx context.Context, key string, contentType string, data []byte) error {
	if int64(len(data)) <= SingleUploadThreshold {
		return s.storage.PutObject(ctx, key, contentType, data)
	}
	return s.uploadMultipart(ctx, key, contentType, data)
}

// uploadMultipart upload các part 10 MB song song, fan-in bằng WaitGroup.
// Bất kỳ part nào lỗi thì hủy toàn bộ phiên.
func (s *UploadService) uploadMultipart(ctx context.Context, key string, contentType string, data []byte) error {
	uploadID, err := s.storage.CreateMultipartUpload(ctx, key, contentType)
	if err != nil {
		return err
	}

	size := int64(len(data))
	partCount := PartCount(size)
	parts := make([]CompletedPart, partCount)
	errs := make([]error, partCount)

	var wg sync.WaitGroup
	for i := 0; i < partCount; i++ {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			start := int64(index) * PartSize
			end := start + PartSize
			if end > size {
				end = size
			}
			part, err := s.storage.UploadPart(ctx, key, uploadID, int32(index+1), data[start:end])
			if err != nil {
				errs[index] = err
				return
			}
			parts[index] = part
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			if abortErr := s.storage.AbortMultipartUpload(ctx, key, uploadID); abortErr != nil {
				logrus.WithFields(logrus.Fields{"upload_id": uploadID, "error": abortErr}).Error("Upload: abort sau lỗi part thất bại")
			}
			return err
		}
	}

	return s.storage.CompleteMultipartUpload(ctx, key, uploadID, parts)
}

// writeUploadMetadata ghi Version (số max+1), Video document, Thumbnail và
// cập nhật aggregates của workspace bằng $inc atomic.
func (s *UploadService) writeUploadMetadata(ctx context.Context, params UploadParams, key string, size int64, introspect media.IntrospectResult) (*UploadResult, error) {
	cdnURL := s.storage.CdnURL(key)

	version, err := s.versionService.CreateVersion(ctx, reviewmodels.Version{
		WorkspaceID: params.WorkspaceID,
		ProjectID:   params.ProjectID,
		StorageKey:  key,
		CdnURL:      cdnURL,
		Size:        size,
		MimeType:    params.ContentType,
		Duration:    introspect.Duration,
	})
	if err != nil {
		return nil, err
	}

	title := params.Title
	if title == "" {
		title = params.FileName
	}
	video, err := s.videoService.InsertOne(ctx, reviewmodels.Video{
		WorkspaceID: params.WorkspaceID,
		ProjectID:   params.ProjectID,
		VersionID:   version.ID,
		Title:       title,
		StorageKey:  key,
		CdnURL:      cdnURL,
		Size:        size,
		MimeType:    params.ContentType,
		Duration:    introspect.Duration,
		Comments:    []reviewmodels.Comment{},
		Annotations: []reviewmodels.Annotation{},
	})
	if err != nil {
		return nil, err
	}

	thumbnail, err := s.thumbnailService.InsertOne(ctx, reviewmodels.Thumbnail{
		WorkspaceID: params.WorkspaceID,
		VideoID:     video.ID,
		Data:        introspect.ThumbnailBase64,
		MimeType:    introspect.ThumbnailMime,
	})
	if err != nil {
		return nil, err
	}

	thumbnailRef := &basesvc.UpdateData{Set: map[string]interface{}{"thumbnailId": thumbnail.ID}}
	if _, err := s.videoService.UpdateById(ctx, video.ID, thumbnailRef); err != nil {
		return nil, err
	}
	if _, err := s.versionService.UpdateById(ctx, version.ID, thumbnailRef); err != nil {
		return nil, err
	}

	if err := s.workspaceService.ApplyUploadAggregates(ctx, params.WorkspaceID, size, 1); err != nil {
		return nil, err
	}

	return &UploadResult{
		Key:       key,
		CdnURL:    cdnURL,
		Version:   version,
		VideoID:   video.ID,
		Duration:  introspect.Duration,
		Thumbnail: thumbnail.ID,
	}, nil
}
