package dto

type InviteStaffRequest struct {
	FullName   string  `json:"full_name"  validate:"required,min=2"`
	Email      string  `json:"email"      validate:"required,email"`
	Role       string  `json:"role"       validate:"required,oneof=ADMIN MANAGER STAFF SELLER"`
	Department *string `json:"department"`
}

type UpdateStaffRequest struct {
	FullName   *string `json:"full_name" validate:"omitempty,min=2"`
	Role       *string `json:"role"      validate:"omitempty,oneof=ADMIN MANAGER STAFF SELLER"`
	Department *string `json:"department"`
	Active     *bool   `json:"active"`
}

type StaffResponse struct {
	ID         string  `json:"id"`
	FullName   string  `json:"full_name"`
	Email      string  `json:"email"`
	Role       string  `json:"role"`
	Department *string `json:"department"`
	Active     bool    `json:"active"`
	CreatedAt  string  `json:"created_at"`
}

type StaffListResponse struct {
	Data  []StaffResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

type StaffFilter struct {
	Role   string `form:"role"`
	Active *bool  `form:"active"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}
