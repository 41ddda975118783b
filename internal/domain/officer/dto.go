package officer

// CreateRequest is the admin-facing payload for registering an officer.
type CreateRequest struct {
	Name             string `json:"name" validate:"required,min=2,max=100"`
	Email            string `json:"email" validate:"omitempty,email"`
	Mobile           string `json:"mobile" validate:"required,min=10,max=16"`
	TelegramID       string `json:"telegram_id" validate:"omitempty,max=64"`
	Department       string `json:"department" validate:"omitempty,max=100"`
	Rank             string `json:"rank" validate:"omitempty,max=64"`
	BadgeNumber      string `json:"badge_number" validate:"omitempty,max=32"`
	Station          string `json:"station" validate:"omitempty,max=100"`
	Password         string `json:"password" validate:"required,min=6"`
	RateLimitPerHour int    `json:"rate_limit_per_hour" validate:"omitempty,min=1,max=10000"`
	ProAccessEnabled bool   `json:"pro_access_enabled"`
}

// UpdateRequest carries partial officer profile changes. Nil means leave
// the field untouched.
type UpdateRequest struct {
	Name             *string `json:"name" validate:"omitempty,min=2,max=100"`
	Email            *string `json:"email" validate:"omitempty,email"`
	TelegramID       *string `json:"telegram_id" validate:"omitempty,max=64"`
	Department       *string `json:"department" validate:"omitempty,max=100"`
	Rank             *string `json:"rank" validate:"omitempty,max=64"`
	BadgeNumber      *string `json:"badge_number" validate:"omitempty,max=32"`
	Station          *string `json:"station" validate:"omitempty,max=100"`
	Password         *string `json:"password" validate:"omitempty,min=6"`
	RateLimitPerHour *int    `json:"rate_limit_per_hour" validate:"omitempty,min=1,max=10000"`
	ProAccessEnabled *bool   `json:"pro_access_enabled"`
}

// StatusRequest toggles an officer between Active and Suspended.
type StatusRequest struct {
	Status string `json:"status" validate:"required,officer_status"`
}

// LoginRequest authenticates an officer by email or mobile.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// LoginResponse returns the officer token plus the profile.
type LoginResponse struct {
	Token   string   `json:"token"`
	Officer *Officer `json:"officer"`
}
