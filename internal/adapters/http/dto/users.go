package dto

import "github.com/jsamuelsen/foodgram/internal/domain"

// RegisterRequest is the body of POST /users.
type RegisterRequest struct {
	Email     string `json:"email"      validate:"required,email,max=254"`
	Username  string `json:"username"   validate:"required,max=150,username"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name"  validate:"required,max=150"`
	Password  string `json:"password"   validate:"required"`
}

// ToDomain converts the request to a registration.
func (r *RegisterRequest) ToDomain() domain.Registration {
	return domain.Registration{
		Email:     r.Email,
		Username:  r.Username,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Password:  r.Password,
	}
}

// SetPasswordRequest is the body of POST /users/set_password.
type SetPasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required"`
}

// LoginRequest is the body of POST /auth/token/login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse carries a freshly issued auth token.
type TokenResponse struct {
	AuthToken string `json:"auth_token"`
}

// CreatedUserResponse is returned by registration.
type CreatedUserResponse struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// NewCreatedUserResponse converts a freshly registered user.
func NewCreatedUserResponse(u *domain.User) CreatedUserResponse {
	return CreatedUserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// UserResponse is a user as seen by the caller.
type UserResponse struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

// NewUserResponse converts a user and the caller's subscription flag.
func NewUserResponse(u *domain.User, subscribed bool) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}

// NewProfileResponse converts a profile.
func NewProfileResponse(p *domain.Profile) UserResponse {
	return NewUserResponse(&p.User, p.IsSubscribed)
}

// NewProfileResponses converts a page of profiles.
func NewProfileResponses(profiles []domain.Profile) []UserResponse {
	out := make([]UserResponse, len(profiles))
	for i := range profiles {
		out[i] = NewProfileResponse(&profiles[i])
	}

	return out
}

// SubscriptionResponse is a followed author with a preview of their recipes.
type SubscriptionResponse struct {
	UserResponse

	Recipes      []ShortRecipeResponse `json:"recipes"`
	RecipesCount int64                 `json:"recipes_count"`
}

// NewSubscriptionResponse converts an author summary.
func NewSubscriptionResponse(s *domain.AuthorSummary, imageURL func(string) string) SubscriptionResponse {
	recipes := make([]ShortRecipeResponse, len(s.Recipes))
	for i := range s.Recipes {
		recipes[i] = NewShortRecipeResponse(&s.Recipes[i], imageURL)
	}

	return SubscriptionResponse{
		UserResponse: NewProfileResponse(&s.Profile),
		Recipes:      recipes,
		RecipesCount: s.RecipesCount,
	}
}

// NewSubscriptionResponses converts a page of author summaries.
func NewSubscriptionResponses(items []domain.AuthorSummary, imageURL func(string) string) []SubscriptionResponse {
	out := make([]SubscriptionResponse, len(items))
	for i := range items {
		out[i] = NewSubscriptionResponse(&items[i], imageURL)
	}

	return out
}
