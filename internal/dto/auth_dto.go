package dto

// ─── Auth ────────────────────────────────────────────────────────────────────

type LoginRequest struct {
	Username string `json:"username" validate:"required,min=3,max=60"`
	Password string `json:"password" validate:"required,min=4"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"`
	User         UserResponse `json:"user"`
}

// ─── Users ───────────────────────────────────────────────────────────────────

type CreateUserRequest struct {
	Username string  `json:"username"  validate:"required,min=3,max=60"`
	FullName string  `json:"full_name" validate:"required,min=2,max=120"`
	Email    *string `json:"email"     validate:"omitempty,email"`
	Password string  `json:"password"  validate:"required,min=6"`
	Role     string  `json:"role"      validate:"required,oneof=admin manager employee"`
}

type UpdateUserRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,min=2,max=120"`
	Email    *string `json:"email"     validate:"omitempty,email"`
	Password *string `json:"password"  validate:"omitempty,min=6"`
	Role     *string `json:"role"      validate:"omitempty,oneof=admin manager employee"`
}

type UserResponse struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	FullName string  `json:"full_name"`
	Email    *string `json:"email"`
	Role     string  `json:"role"`
	Active   bool    `json:"active"`
}
