package utility

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// timecodePattern khớp mốc thời gian dạng M:SS.mmm, ví dụ "1:05.250"
var timecodePattern = regexp.MustCompile(`^(\d+):([0-5]\d)\.(\d{3})$`)

// FormatTimecode chuyển millisecond thành chuỗi mốc thời gian "M:SS.mmm".
// Phút không giới hạn hai chữ số ("75:00.000" hợp lệ cho video dài).
func FormatTimecode(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	minutes := ms / 60000
	seconds := (ms % 60000) / 1000
	millis := ms % 1000
	return fmt.Sprintf("%d:%02d.%03d", minutes, seconds, millis)
}

// ParseTimecode chuyển chuỗi "M:SS.mmm" về millisecond.
// Round-trip với FormatTimecode: ParseTimecode(FormatTimecode(ms)) == ms.
func ParseTimecode(s string) (int64, error) {
	m := timecodePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("mốc thời gian không hợp lệ: %q (định dạng M:SS.mmm)", s)
	}
	minutes, _ := strconv.ParseInt(m[1], 10, 64)
	seconds, _ := strconv.ParseInt(m[2], 10, 64)
	millis, _ := strconv.ParseInt(m[3], 10, 64)
	return minutes*60000 + seconds*1000 + millis, nil
}
