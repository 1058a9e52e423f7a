package utility

import "testing"

func TestToMap_RespectsBsonTags(t *testing.T) {
	type doc struct {
		Title string `bson:"title"`
		Size  int64  `bson:"size"`
		Note  string `bson:"note,omitempty"`
	}

	m, err := ToMap(doc{Title: "bản nháp", Size: 1024})
	if err != nil {
		t.Fatalf("ToMap thất bại: %v", err)
	}
	if m["title"] != "bản nháp" {
		t.Errorf("Field title sai: %v", m["title"])
	}
	if size, ok := m["size"].(int64); !ok || size != 1024 {
		t.Errorf("Field size sai: %v", m["size"])
	}
	if _, exists := m["note"]; exists {
		t.Error("Field omitempty rỗng không được xuất hiện trong map")
	}
}

func TestToMap_NonStructFails(t *testing.T) {
	if _, err := ToMap("không phải struct"); err == nil {
		t.Fatal("ToMap với giá trị không phải struct phải trả lỗi")
	}
}
