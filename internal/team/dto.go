package team

type CreateTeamDTO struct {
	Name        string  `json:"team_name" validate:"required,notblank,max=120"`
	Description string  `json:"description" validate:"required,notblank"`
	MemberIDs   []int64 `json:"member_ids,omitempty" validate:"omitempty,dive,gt=0"`
}

// UpdateTeamDTO replaces the member set when MemberIDs is present.
type UpdateTeamDTO struct {
	Name        *string  `json:"team_name,omitempty" validate:"omitempty,notblank,max=120"`
	Description *string  `json:"description,omitempty" validate:"omitempty,notblank"`
	MemberIDs   *[]int64 `json:"member_ids,omitempty" validate:"omitempty,dive,gt=0"`
}

type AddMemberDTO struct {
	UserID int64 `json:"user_id" validate:"required,gt=0"`
}
