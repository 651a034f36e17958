package department

type CreateDepartmentDTO struct {
	Name        string `json:"name" validate:"required,notblank,max=120"`
	Description string `json:"description" validate:"required,notblank"`
}

type UpdateDepartmentDTO struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,notblank,max=120"`
	Description *string `json:"description,omitempty" validate:"omitempty,notblank"`
}
