package user

import (
	"strings"
	"time"

	errors "github.com/frahmantamala/gearguard/internal"
	"github.com/frahmantamala/gearguard/internal/core/common/validation"
	userDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/user"
)

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleTechnician Role = "technician"
	RoleEmployee   Role = "employee"
)

var Roles = []string{string(RoleAdmin), string(RoleManager), string(RoleTechnician), string(RoleEmployee)}

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	DepartmentID *int64    `json:"department_id,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ValidateRecord checks the write-time constraints of a user row.
func ValidateRecord(u *userDatamodel.User) *errors.AppError {
	v := validation.NewValidator()
	v.Field("name", u.Name).Required().MaxLength(120)
	v.Field("email", u.Email).Required().Custom(func(value interface{}) *errors.AppError {
		s, _ := value.(string)
		if at := strings.Index(s, "@"); at <= 0 || at == len(s)-1 {
			return errors.NewValidationFieldError("email", "email must be a valid address", errors.ErrCodeValidationFailed)
		}
		return nil
	})
	v.Field("password", u.PasswordHash).Required()
	v.Field("role", u.Role).Required().OneOf(Roles...)
	return v.Validate()
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		DepartmentID: u.DepartmentID,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         Role(u.Role),
		DepartmentID: u.DepartmentID,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
