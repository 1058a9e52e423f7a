// Package workspacedto - DTO cho domain workspace.
package workspacedto

// WorkspaceCreateInput đầu vào tạo workspace.
type WorkspaceCreateInput struct {
	Name        string `json:"name" validate:"required,no_xss,max=200"`
	Description string `json:"description" validate:"omitempty,no_xss,max=1000"`
}

// WorkspaceUpdateInput đầu vào cập nhật workspace.
type WorkspaceUpdateInput struct {
	Name        string `json:"name" validate:"required,no_xss,max=200"`
	Description string `json:"description" validate:"omitempty,no_xss,max=1000"`
}

// CollaboratorAddInput đầu vào thêm collaborator vào workspace.
type CollaboratorAddInput struct {
	Email      string `json:"email" validate:"required,email"`
	Permission string `json:"permission" validate:"required,permission"`
}

// CollaboratorUpdateInput đầu vào đổi quyền collaborator.
type CollaboratorUpdateInput struct {
	Email      string `json:"email" validate:"required,email"`
	Permission string `json:"permission" validate:"required,permission"`
}

// CollaboratorRemoveInput đầu vào gỡ collaborator khỏi workspace.
type CollaboratorRemoveInput struct {
	Email string `json:"email" validate:"required,email"`
}
