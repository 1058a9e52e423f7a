// Package reviewdto - DTO cho domain review.
package reviewdto

// ProjectCreateInput đầu vào tạo project.
type ProjectCreateInput struct {
	WorkspaceID string `json:"workspaceId" transform:"str_objectid" validate:"required,exists=workspaces"`
	Title       string `json:"title" validate:"required,no_xss,max=300"`
	DueDate     int64  `json:"dueDate" validate:"omitempty,min=0"`
}

// ProjectUpdateInput đầu vào cập nhật project (không đổi status ở đây).
type ProjectUpdateInput struct {
	Title    string `json:"title" validate:"omitempty,no_xss,max=300"`
	Progress int    `json:"progress" validate:"omitempty,min=0,max=100"`
	DueDate  int64  `json:"dueDate" validate:"omitempty,min=0"`
}

// ProjectStatusInput đầu vào chuyển trạng thái project.
type ProjectStatusInput struct {
	Status string `json:"status" validate:"required,project_status"`
}
