package global

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type commentInput struct {
	Content   string `validate:"required,no_xss"`
	Timestamp string `validate:"omitempty,timecode"`
}

type collaboratorInput struct {
	Permission string `validate:"required,permission"`
}

type statusInput struct {
	Status string `validate:"required,project_status"`
}

func TestValidateTimecode(t *testing.T) {
	InitValidator()

	valid := []string{"0:00.000", "1:05.250", "75:00.000", ""}
	for _, tc := range valid {
		err := Validate.Struct(&commentInput{Content: "ok", Timestamp: tc})
		assert.NoError(t, err, "Timestamp %q phải hợp lệ", tc)
	}

	invalid := []string{"1:60.000", "1:5.250", "1:05.25", "abc", "1:05", "0500"}
	for _, tc := range invalid {
		err := Validate.Struct(&commentInput{Content: "ok", Timestamp: tc})
		assert.Error(t, err, "Timestamp %q phải bị từ chối", tc)
	}
}

func TestValidateNoXSS(t *testing.T) {
	InitValidator()

	err := Validate.Struct(&commentInput{Content: "Cắt cảnh này ngắn lại nhé"})
	require.NoError(t, err)

	for _, payload := range []string{
		"<script>alert(1)</script>",
		"xem thêm javascript:void(0)",
		"<img onerror=alert(1)>",
		"<iframe src=x>",
	} {
		err := Validate.Struct(&commentInput{Content: payload})
		assert.Error(t, err, "Nội dung %q phải bị chặn XSS", payload)
	}
}

func TestValidatePermission(t *testing.T) {
	InitValidator()

	for _, p := range []string{"owner", "editor", "viewer", "client"} {
		assert.NoError(t, Validate.Struct(&collaboratorInput{Permission: p}), "Permission %q phải hợp lệ", p)
	}
	for _, p := range []string{"admin", "Owner", "EDITOR", "guest"} {
		assert.Error(t, Validate.Struct(&collaboratorInput{Permission: p}), "Permission %q phải bị từ chối", p)
	}
}

func TestValidateProjectStatus(t *testing.T) {
	InitValidator()

	for _, s := range []string{"In Progress", "Pending Review", "Reviewed", "Rejected", "Completed"} {
		assert.NoError(t, Validate.Struct(&statusInput{Status: s}), "Status %q thuộc tập đóng", s)
	}
	for _, s := range []string{"in progress", "Done", "Archived", "InProgress"} {
		assert.Error(t, Validate.Struct(&statusInput{Status: s}), "Status %q ngoài tập đóng phải bị từ chối", s)
	}
}

func TestValidateTier(t *testing.T) {
	InitValidator()

	type userInput struct {
		Tier string `validate:"tier"`
	}
	for _, tier := range []string{"", "free", "premium", "enterprise"} {
		assert.NoError(t, Validate.Struct(&userInput{Tier: tier}), "Tier %q phải hợp lệ", tier)
	}
	assert.Error(t, Validate.Struct(&userInput{Tier: "platinum"}), "Tier lạ phải bị từ chối")
}
