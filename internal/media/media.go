// Package media - giới thiệu metadata video server-side bằng ffprobe/ffmpeg.
// Mọi lỗi ở đây chỉ làm giảm chất lượng metadata (duration 0, thumbnail
// placeholder), không bao giờ làm upload thất bại.
package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Giới hạn thời gian cho một lần gọi ffprobe/ffmpeg.
const commandTimeout = 30 * time.Second

// Cạnh dài tối đa của thumbnail (px).
const thumbnailMaxEdge = 320

// PlaceholderMimeType là MIME type của thumbnail placeholder.
const PlaceholderMimeType = "image/png"

// placeholderBase64 là ảnh PNG 1×1 trong suốt, dùng khi không trích được frame.
const placeholderBase64 = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

// runCommand bọc exec để test stub được mà không cần ffmpeg cài sẵn.
var runCommand = func(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w (%s)", name, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// PlaceholderThumbnail trả về ảnh placeholder 1×1 (raw bytes).
func PlaceholderThumbnail() []byte {
	data, _ := base64.StdEncoding.DecodeString(placeholderBase64)
	return data
}

// PlaceholderThumbnailBase64 trả về ảnh placeholder ở dạng base64.
func PlaceholderThumbnailBase64() string {
	return placeholderBase64
}

// ProbeDuration đọc duration (giây) của file video bằng ffprobe.
// Trả về 0 khi không đọc được.
func ProbeDuration(ctx context.Context, path string) float64 {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	out, err := runCommand(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	if err != nil {
		logrus.WithFields(logrus.Fields{"path": path, "error": err}).Warn("Media: ffprobe thất bại")
		return 0
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil || duration < 0 {
		logrus.WithFields(logrus.Fields{"path": path, "output": string(out)}).Warn("Media: không parse được duration")
		return 0
	}
	return duration
}

// ThumbnailSeekOffset tính mốc thời gian trích frame: ~10% duration, tối thiểu 1 giây.
func ThumbnailSeekOffset(duration float64) float64 {
	offset := duration * 0.1
	if offset < 1 {
		offset = 1
	}
	return offset
}

// GenerateThumbnail trích một frame JPEG từ file video tại ~10% duration,
// scale về cạnh dài tối đa 320px. Lỗi bất kỳ trả về placeholder 1×1.
func GenerateThumbnail(ctx context.Context, path string, duration float64) ([]byte, string) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	offset := ThumbnailSeekOffset(duration)
	scale := fmt.Sprintf("scale='min(%d,iw)':-2", thumbnailMaxEdge)

	out, err := runCommand(ctx, "ffmpeg",
		"-ss", strconv.FormatFloat(offset, 'f', 3, 64),
		"-i", path,
		"-vframes", "1",
		"-vf", scale,
		"-f", "image2pipe",
		"-vcodec", "mjpeg",
		"-",
	)
	if err != nil || len(out) == 0 {
		logrus.WithFields(logrus.Fields{"path": path, "error": err}).Warn("Media: trích thumbnail thất bại, dùng placeholder")
		return PlaceholderThumbnail(), PlaceholderMimeType
	}
	return out, "image/jpeg"
}

// IntrospectResult kết quả giới thiệu metadata của một file video.
type IntrospectResult struct {
	Duration        float64
	ThumbnailBase64 string
	ThumbnailMime   string
}

// Introspect ghi data ra file tạm rồi chạy ffprobe + ffmpeg.
// Không bao giờ trả lỗi: mọi thất bại đều degrade về duration 0 và placeholder.
func Introspect(ctx context.Context, data []byte, fileName string) IntrospectResult {
	fallback := IntrospectResult{
		Duration:        0,
		ThumbnailBase64: PlaceholderThumbnailBase64(),
		ThumbnailMime:   PlaceholderMimeType,
	}

	tmp, err := os.CreateTemp("", "feedo-upload-*"+sanitizeExt(fileName))
	if err != nil {
		logrus.WithField("error", err).Warn("Media: không tạo được file tạm")
		return fallback
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		logrus.WithField("error", err).Warn("Media: không ghi được file tạm")
		return fallback
	}
	tmp.Close()

	duration := ProbeDuration(ctx, tmp.Name())
	thumbnail, mimeType := GenerateThumbnail(ctx, tmp.Name(), duration)

	return IntrospectResult{
		Duration:        duration,
		ThumbnailBase64: base64.StdEncoding.EncodeToString(thumbnail),
		ThumbnailMime:   mimeType,
	}
}

// sanitizeExt lấy phần mở rộng an toàn từ tên file cho file tạm.
func sanitizeExt(fileName string) string {
	idx := strings.LastIndex(fileName, ".")
	if idx < 0 {
		return ""
	}
	ext := fileName[idx:]
	if len(ext) > 10 || strings.ContainsAny(ext, "/\\") {
		return ""
	}
	return ext
}
