package dto

type CreateCustomerRequest struct {
	FullName  string  `json:"full_name"  validate:"required,min=2"`
	Document  string  `json:"document"   validate:"required,min=5"`
	Email     *string `json:"email"      validate:"omitempty,email"`
	Phone     *string `json:"phone"`
	BirthDate *string `json:"birth_date"` // YYYY-MM-DD
	Notes     *string `json:"notes"`
}

type UpdateCustomerRequest struct {
	FullName  *string `json:"full_name" validate:"omitempty,min=2"`
	Email     *string `json:"email"     validate:"omitempty,email"`
	Phone     *string `json:"phone"`
	BirthDate *string `json:"birth_date"` // YYYY-MM-DD
	Notes     *string `json:"notes"`
}

type CustomerFilter struct {
	Search string `form:"search"` // matches name or document
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type CustomerResponse struct {
	ID        string  `json:"id"`
	FullName  string  `json:"full_name"`
	Document  string  `json:"document"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	BirthDate *string `json:"birth_date"`
	Notes     *string `json:"notes"`
	CreatedAt string  `json:"created_at"`
}

type CustomerListResponse struct {
	Data  []CustomerResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
