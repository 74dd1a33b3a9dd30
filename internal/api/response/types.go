package response

import (
	"time"

	"github.com/accountd/accountd/internal/model"
	"github.com/accountd/accountd/internal/services/account"
)

// Account represents an account in API responses. Email is already
// redacted: handlers build this from an AccountView, never from a raw
// model.Account.
type Account struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AccountFromView converts a model.AccountView to a response Account
func AccountFromView(v model.AccountView) Account {
	return Account{
		ID:          int64(v.ID),
		Email:       v.Email,
		Username:    v.Username,
		DisplayName: v.DisplayName,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Account      Account `json:"account"`
	SessionToken string  `json:"session_token"`
}

// AuthResponseFromResult creates an AuthResponse from an auth result.
// The result's own session is the viewer, so the email is always visible
// to the freshly authenticated caller.
func AuthResponseFromResult(svc *account.Service, result *account.AuthResult) AuthResponse {
	return AuthResponse{
		Account:      AccountFromView(svc.View(result.Account, result.Session)),
		SessionToken: string(result.Session.ID),
	}
}

// OKResponse reports a boolean outcome
type OKResponse struct {
	OK bool `json:"ok"`
}
