package utility

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFormatBytes(t *testing.T) {
	cases := []struct {
		bytes uint64
		want  string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KB"},
		{10 * 1024 * 1024, "10.0 MB"},
		{2 * 1024 * 1024 * 1024, "2.0 GB"},
	}
	for _, tc := range cases {
		if got := FormatBytes(tc.bytes); got != tc.want {
			t.Errorf("FormatBytes(%d) = %q, muốn %q", tc.bytes, got, tc.want)
		}
	}
}

func TestP2Int64(t *testing.T) {
	cases := []struct {
		input interface{}
		want  int64
	}{
		{"42", 42},
		{"không phải số", 0},
		{float64(7), 7},
		{int(3), 3},
		{int64(9), 9},
		{nil, 0},
	}
	for _, tc := range cases {
		if got := P2Int64(tc.input); got != tc.want {
			t.Errorf("P2Int64(%v) = %d, muốn %d", tc.input, got, tc.want)
		}
	}
}

func TestString2ObjectID(t *testing.T) {
	id := primitive.NewObjectID()
	if got := String2ObjectID(id.Hex()); got != id {
		t.Errorf("String2ObjectID(%q) = %v, muốn %v", id.Hex(), got, id)
	}
	if got := String2ObjectID("không-hợp-lệ"); got != primitive.NilObjectID {
		t.Errorf("Chuỗi không hợp lệ phải cho NilObjectID, nhận %v", got)
	}
}

func TestStringArray2ObjectIDArray(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	got := StringArray2ObjectIDArray([]string{a.Hex(), b.Hex()})
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Errorf("StringArray2ObjectIDArray phải giữ nguyên thứ tự, nhận %v", got)
	}
	if got := StringArray2ObjectIDArray(nil); len(got) != 0 {
		t.Errorf("Mảng rỗng phải cho kết quả rỗng, nhận %v", got)
	}
}
