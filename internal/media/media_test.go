package media

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
)

// stubCommand thay runCommand bằng stub, restore sau test.
func stubCommand(t *testing.T, fn func(ctx context.Context, name string, args ...string) ([]byte, error)) {
	t.Helper()
	orig := runCommand
	runCommand = fn
	t.Cleanup(func() { runCommand = orig })
}

func TestProbeDuration_ParsesOutput(t *testing.T) {
	stubCommand(t, func(ctx context.Context, name string, args ...string) ([]byte, error) {
		if name != "ffprobe" {
			t.Errorf("ProbeDuration phải gọi ffprobe, gọi %q", name)
		}
		return []byte("12.345\n"), nil
	})

	got := ProbeDuration(context.Background(), "/tmp/clip.mp4")
	if got != 12.345 {
		t.Errorf("ProbeDuration = %v, muốn 12.345", got)
	}
}

func TestProbeDuration_FailureReturnsZero(t *testing.T) {
	stubCommand(t, func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return nil, errors.New("ffprobe: executable file not found")
	})
	if got := ProbeDuration(context.Background(), "/tmp/clip.mp4"); got != 0 {
		t.Errorf("ffprobe lỗi thì duration phải là 0, nhận %v", got)
	}
}

func TestProbeDuration_GarbageOutputReturnsZero(t *testing.T) {
	stubCommand(t, func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return []byte("N/A"), nil
	})
	if got := ProbeDuration(context.Background(), "/tmp/clip.mp4"); got != 0 {
		t.Errorf("Output không parse được thì duration phải là 0, nhận %v", got)
	}
}

func TestThumbnailSeekOffset(t *testing.T) {
	cases := []struct {
		duration float64
		want     float64
	}{
		{100, 10}, // 10% duration
		{60, 6},
		{5, 1},  // tối thiểu 1 giây
		{0, 1},  // duration 0 vẫn seek 1 giây
		{12, 1.2},
	}
	for _, tc := range cases {
		if got := ThumbnailSeekOffset(tc.duration); got != tc.want {
			t.Errorf("ThumbnailSeekOffset(%v) = %v, muốn %v", tc.duration, got, tc.want)
		}
	}
}

func TestGenerateThumbnail_Success(t *testing.T) {
	frame := []byte{0xFF, 0xD8, 0xFF, 0xE0} // JPEG magic
	stubCommand(t, func(ctx context.Context, name string, args ...string) ([]byte, error) {
		if name != "ffmpeg" {
			t.Errorf("GenerateThumbnail phải gọi ffmpeg, gọi %q", name)
		}
		return frame, nil
	})

	data, mimeType := GenerateThumbnail(context.Background(), "/tmp/clip.mp4", 30)
	if string(data) != string(frame) {
		t.Error("GenerateThumbnail phải trả về frame từ ffmpeg")
	}
	if mimeType != "image/jpeg" {
		t.Errorf("MIME type = %q, muốn image/jpeg", mimeType)
	}
}

func TestGenerateThumbnail_FailureReturnsPlaceholder(t *testing.T) {
	stubCommand(t, func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return nil, errors.New("ffmpeg: no such file")
	})

	data, mimeType := GenerateThumbnail(context.Background(), "/tmp/clip.mp4", 30)
	if mimeType != PlaceholderMimeType {
		t.Errorf("Thất bại phải trả MIME placeholder %q, nhận %q", PlaceholderMimeType, mimeType)
	}
	if base64.StdEncoding.EncodeToString(data) != PlaceholderThumbnailBase64() {
		t.Error("Thất bại phải trả đúng ảnh placeholder 1x1")
	}
}

func TestGenerateThumbnail_EmptyOutputReturnsPlaceholder(t *testing.T) {
	stubCommand(t, func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return []byte{}, nil
	})
	_, mimeType := GenerateThumbnail(context.Background(), "/tmp/clip.mp4", 30)
	if mimeType != PlaceholderMimeType {
		t.Error("Output rỗng phải degrade về placeholder")
	}
}

func TestIntrospect_NeverFails(t *testing.T) {
	stubCommand(t, func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return nil, errors.New("toolchain không có sẵn")
	})

	result := Introspect(context.Background(), []byte("not a real video"), "clip.mp4")
	if result.Duration != 0 {
		t.Errorf("Duration phải là 0 khi probe thất bại, nhận %v", result.Duration)
	}
	if result.ThumbnailBase64 != PlaceholderThumbnailBase64() {
		t.Error("Introspect phải degrade về thumbnail placeholder")
	}
	if result.ThumbnailMime != PlaceholderMimeType {
		t.Errorf("MIME = %q, muốn %q", result.ThumbnailMime, PlaceholderMimeType)
	}
}

func TestIntrospect_Success(t *testing.T) {
	frame := []byte{0xFF, 0xD8, 0xFF}
	stubCommand(t, func(ctx context.Context, name string, args ...string) ([]byte, error) {
		if name == "ffprobe" {
			return []byte("42.5"), nil
		}
		return frame, nil
	})

	result := Introspect(context.Background(), []byte("video bytes"), "clip.mp4")
	if result.Duration != 42.5 {
		t.Errorf("Duration = %v, muốn 42.5", result.Duration)
	}
	if result.ThumbnailMime != "image/jpeg" {
		t.Errorf("MIME = %q, muốn image/jpeg", result.ThumbnailMime)
	}
	if result.ThumbnailBase64 != base64.StdEncoding.EncodeToString(frame) {
		t.Error("ThumbnailBase64 phải là frame encode base64")
	}
}

func TestSanitizeExt(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"clip.mp4", ".mp4"},
		{"archive.tar.gz", ".gz"},
		{"no-extension", ""},
		{"weird.ext/../../x", ""}, // chứa separator thì bỏ
		{"x.averylongextension", ""},
	}
	for _, tc := range cases {
		if got := sanitizeExt(tc.in); got != tc.want {
			t.Errorf("sanitizeExt(%q) = %q, muốn %q", tc.in, got, tc.want)
		}
	}
}

func TestPlaceholderThumbnail_ValidBase64(t *testing.T) {
	data := PlaceholderThumbnail()
	if len(data) == 0 {
		t.Fatal("Placeholder không được rỗng")
	}
	// PNG magic
	if data[0] != 0x89 || string(data[1:4]) != "PNG" {
		t.Error("Placeholder phải là ảnh PNG")
	}
}
