// Package uploadsvc - service cho domain upload: storage backend S3-compatible,
// phiên multipart và orchestrator upload server-side.
package uploadsvc

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"feedo/config"
	"feedo/internal/common"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Thời hạn URL ký sẵn.
const (
	PresignPutExpiry  = 10 * time.Minute // upload một file nhỏ
	PresignPartExpiry = 5 * time.Hour    // từng part của multipart upload
)

// Các hàm SDK được bọc trong biến package-level để test stub được mà không cần
// storage backend thật.
var (
	loadDefaultAWSConfig  = awsconfig.LoadDefaultConfig
	newS3ClientFromConfig = s3.NewFromConfig
	newS3PresignClient    = s3.NewPresignClient

	s3PutObject = func(ctx context.Context, client *s3.Client, input *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return client.PutObject(ctx, input)
	}
	s3CreateMultipartUpload = func(ctx context.Context, client *s3.Client, input *s3.CreateMultipartUploadInput) (*s3.CreateMultipartUploadOutput, error) {
		return client.CreateMultipartUpload(ctx, input)
	}
	s3UploadPart = func(ctx context.Context, client *s3.Client, input *s3.UploadPartInput) (*s3.UploadPartOutput, error) {
		return client.UploadPart(ctx, input)
	}
	s3CompleteMultipartUpload = func(ctx context.Context, client *s3.Client, input *s3.CompleteMultipartUploadInput) (*s3.CompleteMultipartUploadOutput, error) {
		return client.CompleteMultipartUpload(ctx, input)
	}
	s3AbortMultipartUpload = func(ctx context.Context, client *s3.Client, input *s3.AbortMultipartUploadInput) (*s3.AbortMultipartUploadOutput, error) {
		return client.AbortMultipartUpload(ctx, input)
	}
	s3PresignPutObject = func(ctx context.Context, presigner *s3.PresignClient, input *s3.PutObjectInput, expires time.Duration) (string, error) {
		req, err := presigner.PresignPutObject(ctx, input, s3.WithPresignExpires(expires))
		if err != nil {
			return "", err
		}
		return req.URL, nil
	}
	s3PresignUploadPart = func(ctx context.Context, presigner *s3.PresignClient, input *s3.UploadPartInput, expires time.Duration) (string, error) {
		req, err := presigner.PresignUploadPart(ctx, input, s3.WithPresignExpires(expires))
		if err != nil {
			return "", err
		}
		return req.URL, nil
	}
)

// CompletedPart một part đã upload thành công.
type CompletedPart struct {
	ETag       string
	PartNumber int32
}

// StorageService bọc client S3 cho một bucket, hỗ trợ endpoint override
// cho backend S3-compatible (MinIO...).
type StorageService struct {
	client      *s3.Client
	presigner   *s3.PresignClient
	bucket      string
	cdnBaseURL  string
	environment string
}

// NewStorageService tạo client S3 từ cấu hình ứng dụng.
func NewStorageService(cfg *config.Configuration) (*StorageService, error) {
	awsCfg, err := loadDefaultAWSConfig(context.Background(),
		awsconfig.WithRegion(cfg.S3_Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3_AccessKeyID,
			cfg.S3_SecretAccessKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3_Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3_Endpoint)
		}
		o.UsePathStyle = cfg.S3_ForcePathStyle
	})

	return &StorageService{
		client:      client,
		presigner:   newS3PresignClient(client),
		bucket:      cfg.S3_BucketName,
		cdnBaseURL:  strings.TrimRight(cfg.CDN_BaseURL, "/"),
		environment: cfg.Environment,
	}, nil
}

// BuildStorageKey sinh storage key dạng <ENVIRONMENT>/<tên>-<uuid>.<ext>.
// UUID chống ghi đè khi hai file trùng tên.
func (s *StorageService) BuildStorageKey(fileName string) string {
	ext := filepath.Ext(fileName)
	name := strings.TrimSuffix(filepath.Base(fileName), ext)
	return fmt.Sprintf("%s/%s-%s%s", s.environment, name, uuid.NewString(), ext)
}

// CdnURL nối storage key với base URL của CDN thành URL công khai.
func (s *StorageService) CdnURL(key string) string {
	return s.cdnBaseURL + "/" + key
}

// isVideoContent kiểm tra contentType có phải video không.
func isVideoContent(contentType string) bool {
	return strings.HasPrefix(contentType, "video/")
}

// PutObject upload một object trọn gói.
func (s *StorageService) PutObject(ctx context.Context, key string, contentType string, data []byte) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if isVideoContent(contentType) {
		input.ContentDisposition = aws.String("inline")
	}
	if _, err := s3PutObject(ctx, s.client, input); err != nil {
		logrus.WithFields(logrus.Fields{"key": key, "error": err}).Error("Storage: PutObject thất bại")
		return common.NewError(common.ErrCodeUploadStorage, "Upload file lên storage thất bại", common.StatusInternalServerError, err)
	}
	return nil
}

// PresignPutObject ký URL PUT cho client upload trực tiếp.
func (s *StorageService) PresignPutObject(ctx context.Context, key string, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}
	if isVideoContent(contentType) {
		input.ContentDisposition = aws.String("inline")
	}
	url, err := s3PresignPutObject(ctx, s.presigner, input, PresignPutExpiry)
	if err != nil {
		return "", common.NewError(common.ErrCodeUploadStorage, "Ký URL upload thất bại", common.StatusInternalServerError, err)
	}
	return url, nil
}

// CreateMultipartUpload mở phiên multipart upload, trả về uploadId.
func (s *StorageService) CreateMultipartUpload(ctx context.Context, key string, contentType string) (string, error) {
	input := &s3.CreateMultipartUploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}
	if isVideoContent(contentType) {
		input.ContentDisposition = aws.String("inline")
	}
	out, err := s3CreateMultipartUpload(ctx, s.client, input)
	if err != nil {
		logrus.WithFields(logrus.Fields{"key": key, "error": err}).Error("Storage: CreateMultipartUpload thất bại")
		return "", common.NewError(common.ErrCodeUploadStorage, "Mở phiên multipart upload thất bại", common.StatusInternalServerError, err)
	}
	return aws.ToString(out.UploadId), nil
}

// PresignUploadPart ký URL cho một part của phiên multipart.
func (s *StorageService) PresignUploadPart(ctx context.Context, key string, uploadID string, partNumber int32) (string, error) {
	url, err := s3PresignUploadPart(ctx, s.presigner, &s3.UploadPartInput{
		Bucket:     aws.String(s.bucket),
		Key:        aws.String(key),
		UploadId:   aws.String(uploadID),
		PartNumber: aws.Int32(partNumber),
	}, PresignPartExpiry)
	if err != nil {
		return "", common.NewError(common.ErrCodeUploadStorage, "Ký URL part thất bại", common.StatusInternalServerError, err)
	}
	return url, nil
}

// UploadPart upload một part của phiên multipart, trả về ETag.
func (s *StorageService) UploadPart(ctx context.Context, key string, uploadID string, partNumber int32, data []byte) (CompletedPart, error) {
	out, err := s3UploadPart(ctx, s.client, &s3.UploadPartInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		UploadId:      aws.String(uploadID),
		PartNumber:    aws.Int32(partNumber),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return CompletedPart{}, common.NewError(common.ErrCodeUploadStorage,
			fmt.Sprintf("Upload part %d thất bại", partNumber), common.StatusInternalServerError, err)
	}
	return CompletedPart{ETag: aws.ToString(out.ETag), PartNumber: partNumber}, nil
}

// CompleteMultipartUpload hoàn tất phiên multipart. Parts luôn được sort tăng dần
// theo PartNumber trước khi gửi vì backend yêu cầu đúng thứ tự, còn client
// (hoặc goroutine fan-out) có thể trả part về không theo thứ tự.
func (s *StorageService) CompleteMultipartUpload(ctx context.Context, key string, uploadID string, parts []CompletedPart) error {
	sorted := make([]CompletedPart, len(parts))
	copy(sorted, parts)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].PartNumber < sorted[j].PartNumber
	})

	completed := make([]types.CompletedPart, 0, len(sorted))
	for _, p := range sorted {
		completed = append(completed, types.CompletedPart{
			ETag:       aws.String(p.ETag),
			PartNumber: aws.Int32(p.PartNumber),
		})
	}

	_, err := s3CompleteMultipartUpload(ctx, s.client, &s3.CompleteMultipartUploadInput{
		Bucket:          aws.String(s.bucket),
		Key:             aws.String(key),
		UploadId:        aws.String(uploadID),
		MultipartUpload: &types.CompletedMultipartUpload{Parts: completed},
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{"key": key, "upload_id": uploadID, "error": err}).Error("Storage: CompleteMultipartUpload thất bại")
		return common.NewError(common.ErrCodeUploadStorage, "Hoàn tất multipart upload thất bại", common.StatusInternalServerError, err)
	}
	return nil
}

// AbortMultipartUpload hủy phiên multipart, dọn các part đã upload trên backend.
func (s *StorageService) AbortMultipartUpload(ctx context.Context, key string, uploadID string) error {
	_, err := s3AbortMultipartUpload(ctx, s.client, &s3.AbortMultipartUploadInput{
		Bucket:   aws.String(s.bucket),
		Key:      aws.String(key),
		UploadId: aws.String(uploadID),
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{"key": key, "upload_id": uploadID, "error": err}).Error("Storage: AbortMultipartUpload thất bại")
		return common.NewError(common.ErrCodeUploadStorage, "Hủy multipart upload thất bại", common.StatusInternalServerError, err)
	}
	return nil
}
