package models

import "testing"

func TestCanEdit(t *testing.T) {
	cases := []struct {
		permission string
		want       bool
	}{
		{PermissionOwner, true},
		{PermissionEditor, true},
		{PermissionViewer, false},
		{PermissionClient, false},
		{"", false},
		{"admin", false},
	}
	for _, tc := range cases {
		if got := CanEdit(tc.permission); got != tc.want {
			t.Errorf("CanEdit(%q) = %v, muốn %v", tc.permission, got, tc.want)
		}
	}
}

func TestCanComment(t *testing.T) {
	// Mọi thành viên đều bình luận được, kể cả client và viewer
	for _, p := range []string{PermissionOwner, PermissionEditor, PermissionViewer, PermissionClient} {
		if !CanComment(p) {
			t.Errorf("CanComment(%q) phải là true", p)
		}
	}
	if CanComment("") || CanComment("stranger") {
		t.Error("Người ngoài workspace không được bình luận")
	}
}

func TestGetPermissionForEmail(t *testing.T) {
	ws := Workspace{
		Collaborators: []Collaborator{
			{Email: "owner@feedo.test", Permission: PermissionOwner},
			{Email: "editor@feedo.test", Permission: PermissionEditor},
			{Email: "client@feedo.test", Permission: PermissionClient},
		},
	}

	if got := ws.GetPermissionForEmail("editor@feedo.test"); got != PermissionEditor {
		t.Errorf("GetPermissionForEmail(editor) = %q, muốn editor", got)
	}
	if got := ws.GetPermissionForEmail("stranger@feedo.test"); got != "" {
		t.Errorf("Email không phải thành viên phải trả chuỗi rỗng, nhận %q", got)
	}
	// Email phân biệt đúng theo chuỗi, không match một phần
	if got := ws.GetPermissionForEmail("owner@feedo"); got != "" {
		t.Errorf("Email khớp một phần không được tính là thành viên, nhận %q", got)
	}
}
