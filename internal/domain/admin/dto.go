package admin

// LoginRequest authenticates an admin by email
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the admin token plus the account
type LoginResponse struct {
	Token string     `json:"token"`
	Admin *AdminUser `json:"admin"`
}

// CreateRequest provisions a new admin account
type CreateRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"omitempty,max=100"`
	Role     string `json:"role" validate:"required,oneof=admin moderator"`
}

// UpdateRequest changes an admin account. Nil leaves the field untouched.
type UpdateRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=100"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin moderator"`
	IsActive *bool   `json:"is_active"`
}

// GrantCreditsRequest is the admin-facing credit mutation payload
type GrantCreditsRequest struct {
	OfficerID        string `json:"officer_id" validate:"required,uuid"`
	Action           string `json:"action" validate:"required,credit_action"`
	Credits          int    `json:"credits" validate:"required"`
	PaymentMode      string `json:"payment_mode" validate:"omitempty,max=64"`
	PaymentReference string `json:"payment_reference" validate:"omitempty,max=128"`
	Remarks          string `json:"remarks" validate:"omitempty,max=500"`
}
