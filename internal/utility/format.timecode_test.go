package utility

import "testing"

func TestFormatTimecode(t *testing.T) {
	cases := []struct {
		ms   int64
		want string
	}{
		{0, "0:00.000"},
		{1000, "0:01.000"},
		{65250, "1:05.250"},
		{600000, "10:00.000"},
		{4500000, "75:00.000"}, // phút không giới hạn hai chữ số
		{-5, "0:00.000"},       // âm clamp về 0
	}
	for _, tc := range cases {
		if got := FormatTimecode(tc.ms); got != tc.want {
			t.Errorf("FormatTimecode(%d) = %q, muốn %q", tc.ms, got, tc.want)
		}
	}
}

func TestParseTimecode(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"0:00.000", 0},
		{"1:05.250", 65250},
		{"75:00.000", 4500000},
		{" 2:30.500 ", 150500}, // khoảng trắng thừa được trim
	}
	for _, tc := range cases {
		got, err := ParseTimecode(tc.in)
		if err != nil {
			t.Errorf("ParseTimecode(%q) lỗi: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseTimecode(%q) = %d, muốn %d", tc.in, got, tc.want)
		}
	}
}

func TestParseTimecode_Invalid(t *testing.T) {
	invalid := []string{
		"",
		"1:60.000",  // giây vượt 59
		"1:05.25",   // thiếu chữ số millisecond
		"1:05",      // thiếu phần millisecond
		"05.250",    // thiếu phút
		"1:5.250",   // giây phải hai chữ số
		"a:bb.ccc",  // không phải số
		"1:05.2500", // thừa chữ số millisecond
	}
	for _, in := range invalid {
		if _, err := ParseTimecode(in); err == nil {
			t.Errorf("ParseTimecode(%q) phải trả lỗi", in)
		}
	}
}

func TestTimecodeRoundTrip(t *testing.T) {
	for _, ms := range []int64{0, 1, 999, 1000, 59999, 60000, 65250, 3599999, 4500000} {
		got, err := ParseTimecode(FormatTimecode(ms))
		if err != nil {
			t.Fatalf("Round-trip %d lỗi: %v", ms, err)
		}
		if got != ms {
			t.Errorf("Round-trip %d ra %d", ms, got)
		}
	}
}
