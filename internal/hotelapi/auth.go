package hotelapi

import (
	"context"

	"hotelbot/internal/models"
)

// RegisterRequest is the registration form the API expects. Validation tags
// are enforced client-side before the request is sent.
type RegisterRequest struct {
	Username    string `json:"username" validate:"required,min=3"`
	Password    string `json:"password" validate:"required,min=8"`
	Password2   string `json:"password2" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	PhoneNumber string `json:"phone_number" validate:"required"`
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenPair is the token/ response.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Register creates a new account. The response body carries no fields the
// client uses.
func (a *API) Register(ctx context.Context, req RegisterRequest) error {
	return a.c.Post(ctx, "users/register/", req, nil)
}

// Login obtains a fresh token pair for the credentials.
func (a *API) Login(ctx context.Context, creds Credentials) (TokenPair, error) {
	var pair TokenPair
	err := a.c.Post(ctx, "token/", creds, &pair)
	return pair, err
}

// Refresh exchanges a refresh token for a new access token. The silent
// refresh inside the auth interceptor uses its own non-intercepted call;
// this binding exists for explicit, caller-driven refreshes.
func (a *API) Refresh(ctx context.Context, refresh string) (string, error) {
	var out struct {
		Access string `json:"access"`
	}
	err := a.c.Post(ctx, "token/refresh/", map[string]string{"refresh": refresh}, &out)
	return out.Access, err
}

// Profile fetches the signed-in user's profile.
func (a *API) Profile(ctx context.Context) (models.UserProfile, error) {
	var profile models.UserProfile
	err := a.c.Get(ctx, "users/profile/", &profile)
	return profile, err
}
