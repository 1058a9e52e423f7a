package uploadsvc

import (
	"context"
	"regexp"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func newTestStorageService() *StorageService {
	return &StorageService{
		client:      &s3.Client{},
		presigner:   &s3.PresignClient{},
		bucket:      "feedo-test",
		cdnBaseURL:  "https://cdn.feedo.test",
		environment: "production",
	}
}

func TestBuildStorageKey_Format(t *testing.T) {
	st := newTestStorageService()

	key := st.BuildStorageKey("my-video.mp4")
	pattern := regexp.MustCompile(`^production/my-video-[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.mp4$`)
	if !pattern.MatchString(key) {
		t.Errorf("Storage key sai định dạng <environment>/<tên>-<uuid>.<ext>: %q", key)
	}

	// Hai lần build cùng tên file phải ra key khác nhau (UUID chống ghi đè)
	if st.BuildStorageKey("my-video.mp4") == key {
		t.Error("Hai lần BuildStorageKey cùng tên file không được trùng key")
	}
}

func TestBuildStorageKey_NoExtension(t *testing.T) {
	st := newTestStorageService()
	key := st.BuildStorageKey("raw-footage")
	pattern := regexp.MustCompile(`^production/raw-footage-[0-9a-f-]{36}$`)
	if !pattern.MatchString(key) {
		t.Errorf("Key cho file không có extension sai định dạng: %q", key)
	}
}

func TestCdnURL(t *testing.T) {
	st := newTestStorageService()
	url := st.CdnURL("production/clip-abc.mp4")
	want := "https://cdn.feedo.test/production/clip-abc.mp4"
	if url != want {
		t.Errorf("CdnURL = %q, muốn %q", url, want)
	}
}

func TestIsVideoContent(t *testing.T) {
	cases := []struct {
		contentType string
		want        bool
	}{
		{"video/mp4", true},
		{"video/quicktime", true},
		{"image/png", false},
		{"application/octet-stream", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := isVideoContent(tc.contentType); got != tc.want {
			t.Errorf("isVideoContent(%q) = %v, muốn %v", tc.contentType, got, tc.want)
		}
	}
}

func TestPartCount(t *testing.T) {
	mb := int64(1024 * 1024)
	cases := []struct {
		size int64
		want int
	}{
		{5 * mb, 1},
		{10 * mb, 1},
		{10*mb + 1, 2},
		{20 * mb, 2},
		{25 * mb, 3},
		{500 * mb, 50},
	}
	for _, tc := range cases {
		if got := PartCount(tc.size); got != tc.want {
			t.Errorf("PartCount(%d) = %d, muốn %d", tc.size, got, tc.want)
		}
	}
}

func TestCompleteMultipartUpload_SortsPartsByPartNumber(t *testing.T) {
	st := newTestStorageService()

	var captured *s3.CompleteMultipartUploadInput
	orig := s3CompleteMultipartUpload
	s3CompleteMultipartUpload = func(ctx context.Context, client *s3.Client, input *s3.CompleteMultipartUploadInput) (*s3.CompleteMultipartUploadOutput, error) {
		captured = input
		return &s3.CompleteMultipartUploadOutput{}, nil
	}
	t.Cleanup(func() { s3CompleteMultipartUpload = orig })

	// Client trả part về không theo thứ tự
	parts := []CompletedPart{
		{ETag: "etag-3", PartNumber: 3},
		{ETag: "etag-1", PartNumber: 1},
		{ETag: "etag-2", PartNumber: 2},
	}
	if err := st.CompleteMultipartUpload(context.Background(), "production/x.mp4", "upload-1", parts); err != nil {
		t.Fatalf("CompleteMultipartUpload lỗi: %v", err)
	}

	if captured == nil || captured.MultipartUpload == nil {
		t.Fatal("Không bắt được input của CompleteMultipartUpload")
	}
	got := captured.MultipartUpload.Parts
	if len(got) != 3 {
		t.Fatalf("Số part gửi đi = %d, muốn 3", len(got))
	}
	for i, p := range got {
		if aws.ToInt32(p.PartNumber) != int32(i+1) {
			t.Errorf("Part thứ %d có PartNumber %d, parts phải được sort tăng dần", i, aws.ToInt32(p.PartNumber))
		}
	}
	if aws.ToString(got[0].ETag) != "etag-1" || aws.ToString(got[2].ETag) != "etag-3" {
		t.Error("ETag không đi theo part sau khi sort")
	}

	// Slice gốc của caller không bị xáo trộn
	if parts[0].PartNumber != 3 {
		t.Error("CompleteMultipartUpload không được sửa slice parts của caller")
	}
}

func TestCompleteMultipartUpload_SortedEqualsUnsorted(t *testing.T) {
	st := newTestStorageService()

	var sent [][]int32
	orig := s3CompleteMultipartUpload
	s3CompleteMultipartUpload = func(ctx context.Context, client *s3.Client, input *s3.CompleteMultipartUploadInput) (*s3.CompleteMultipartUploadOutput, error) {
		var nums []int32
		for _, p := range input.MultipartUpload.Parts {
			nums = append(nums, aws.ToInt32(p.PartNumber))
		}
		sent = append(sent, nums)
		return &s3.CompleteMultipartUploadOutput{}, nil
	}
	t.Cleanup(func() { s3CompleteMultipartUpload = orig })

	unordered := []CompletedPart{{ETag: "a", PartNumber: 1}, {ETag: "c", PartNumber: 3}, {ETag: "b", PartNumber: 2}}
	ordered := []CompletedPart{{ETag: "a", PartNumber: 1}, {ETag: "b", PartNumber: 2}, {ETag: "c", PartNumber: 3}}

	if err := st.CompleteMultipartUpload(context.Background(), "k", "u", unordered); err != nil {
		t.Fatalf("complete với parts không thứ tự lỗi: %v", err)
	}
	if err := st.CompleteMultipartUpload(context.Background(), "k", "u", ordered); err != nil {
		t.Fatalf("complete với parts đúng thứ tự lỗi: %v", err)
	}

	if len(sent) != 2 {
		t.Fatalf("Số lần gọi backend = %d, muốn 2", len(sent))
	}
	for i := range sent[0] {
		if sent[0][i] != sent[1][i] {
			t.Errorf("Parts {1,3,2} và {1,2,3} phải cho cùng một thứ tự gửi đi, khác tại vị trí %d", i)
		}
	}
}
