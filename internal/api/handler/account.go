package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/accountd/accountd/internal/api/middleware"
	"github.com/accountd/accountd/internal/api/request"
	"github.com/accountd/accountd/internal/api/response"
	"github.com/accountd/accountd/internal/model"
	"github.com/accountd/accountd/internal/services/account"
)

// sessionCookieMaxAge matches the long-lived session model: the cookie
// outlives any realistic client, and the server never times sessions out.
const sessionCookieMaxAge = 10 * 365 * 24 * time.Hour

// AccountHandler handles account endpoints
type AccountHandler struct {
	svc *account.Service
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(svc *account.Service) *AccountHandler {
	return &AccountHandler{svc: svc}
}

// Register handles POST /api/v1/accounts/register
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	result, err := h.svc.Register(r.Context(), account.RegisterParams{
		Email:       req.Email,
		Password:    req.Password,
		Username:    req.Username,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	h.setSessionCookie(w, result.Session.ID)
	response.JSON(w, http.StatusCreated, response.AuthResponseFromResult(h.svc, result))
}

// Login handles POST /api/v1/accounts/login
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	result, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.setSessionCookie(w, result.Session.ID)
	response.JSON(w, http.StatusOK, response.AuthResponseFromResult(h.svc, result))
}

// ForgotPassword handles POST /api/v1/accounts/forgot-password.
// It always reports ok, whether or not the email is registered.
func (h *AccountHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req request.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if err := h.svc.ForgotPassword(r.Context(), req.Email); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.OKResponse{OK: true})
}

// ChangePassword handles POST /api/v1/accounts/change-password
func (h *AccountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req request.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	result, err := h.svc.ChangePassword(r.Context(), req.Token, req.NewPassword)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.setSessionCookie(w, result.Session.ID)
	response.JSON(w, http.StatusOK, response.AuthResponseFromResult(h.svc, result))
}

// Me handles GET /api/v1/accounts/me
func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())

	acct, err := h.svc.Me(r.Context(), session)
	if err != nil {
		WriteError(w, err)
		return
	}
	if acct == nil {
		// Session's account no longer resolves
		response.NoContent(w)
		return
	}

	response.JSON(w, http.StatusOK, response.AccountFromView(h.svc.View(acct, session)))
}

// Get handles GET /api/v1/accounts/{id}. Anonymous access is allowed;
// the email field guard hides the address from everyone but the owner.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		WriteError(w, NewInvalidRequestError("invalid account id"))
		return
	}

	acct, err := h.svc.Lookup(r.Context(), model.AccountID(id))
	if err != nil {
		WriteError(w, err)
		return
	}

	session := middleware.GetSession(r.Context())
	response.JSON(w, http.StatusOK, response.AccountFromView(h.svc.View(acct, session)))
}

// Logout handles POST /api/v1/accounts/logout.
// The cookie is cleared whether or not the server-side destroy succeeded.
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())

	ok := h.svc.Logout(r.Context(), session.ID)

	h.clearSessionCookie(w)
	response.JSON(w, http.StatusOK, response.OKResponse{OK: ok})
}

func (h *AccountHandler) setSessionCookie(w http.ResponseWriter, id model.SessionID) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    string(id),
		Path:     "/",
		MaxAge:   int(sessionCookieMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AccountHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
