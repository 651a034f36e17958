package user

type CreateUserDTO struct {
	Name         string `json:"name" validate:"required,notblank,max=120"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	Role         string `json:"role,omitempty" validate:"omitempty,oneof=admin manager technician employee"`
	DepartmentID *int64 `json:"department_id,omitempty"`
}

// ListUsersQuery narrows GET /users.
type ListUsersQuery struct {
	Role string
}
