// Package account implements the account service: registration, login,
// session lifecycle, the password-reset flow, and the field-level email
// guard. Storage, hashing, and notification are injected collaborators.
package account

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/accountd/accountd/internal/dependencies/clock"
	"github.com/accountd/accountd/internal/dependencies/random"
	"github.com/accountd/accountd/internal/hash"
	"github.com/accountd/accountd/internal/model"
	"github.com/accountd/accountd/internal/notify"
	"github.com/accountd/accountd/internal/storage"
	"github.com/accountd/accountd/internal/validation"
)

// Errors
var (
	ErrInvalidSession = errors.New("invalid session")
)

// User-facing field error messages. These are fixed text; clients match on
// them, so changes are breaking.
const (
	msgEmailRequired     = "Please insert an email"
	msgEmailInvalid      = "Please insert a valid email"
	msgEmailExists       = "That email already exists"
	msgEmailMissing      = "That email doesn't exist"
	msgPasswordRequired  = "Please insert a password"
	msgPasswordIncorrect = "Incorrect password"
	msgUsernameExists    = "That username already exists"
	msgTokenInvalid      = "Invalid token"
)

const notifySendTimeout = 30 * time.Second

// Service orchestrates account operations and owns the session lifecycle
type Service struct {
	storage  storage.Storage
	hasher   hash.PasswordHasher
	notifier notify.Notifier
	clock    clock.Clock
	random   random.Random
	logger   *slog.Logger
	cfg      Config
}

// Config holds configuration for the account service
type Config struct {
	// ResetTokenTTL is how long a password-reset token stays usable
	ResetTokenTTL time.Duration
	// OpTimeout bounds the store and hashing work of a single operation.
	// Exceeding it surfaces as model.ErrUnavailable. Zero disables the bound.
	OpTimeout time.Duration
	// FrontendURL is the base URL embedded in reset links
	FrontendURL string
	// KeepUsedResetTokens leaves reset tokens valid after a successful
	// password change, replicating the legacy replayable behavior.
	// Off by default: tokens are single-use.
	KeepUsedResetTokens bool
}

// DefaultConfig returns default account service configuration
func DefaultConfig() Config {
	return Config{
		ResetTokenTTL: 3 * 24 * time.Hour,
		OpTimeout:     10 * time.Second,
		FrontendURL:   "http://localhost:3000",
	}
}

// New creates a new account Service
func New(storage storage.Storage, hasher hash.PasswordHasher, notifier notify.Notifier, clock clock.Clock, random random.Random, cfg Config, logger *slog.Logger) *Service {
	if cfg.ResetTokenTTL == 0 {
		cfg.ResetTokenTTL = DefaultConfig().ResetTokenTTL
	}
	if cfg.FrontendURL == "" {
		cfg.FrontendURL = DefaultConfig().FrontendURL
	}
	return &Service{
		storage:  storage,
		hasher:   hasher,
		notifier: notifier,
		clock:    clock,
		random:   random,
		logger:   logger,
		cfg:      cfg,
	}
}

// AuthResult is returned by every operation that authenticates the caller
type AuthResult struct {
	Account *model.Account
	Session *model.Session
}

// RegisterParams is the input to Register. Username and DisplayName are
// optional; a missing username is generated from the email's local part.
type RegisterParams struct {
	Email       string
	Password    string
	Username    string
	DisplayName string
}

// Register creates an account and binds a session to it.
//
// Email errors (required, format, already-taken) form an else-if chain, so
// at most one is reported per attempt. A weak password short-circuits the
// whole batch: any email errors already collected are discarded and only
// the password error is returned.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*AuthResult, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	var errs model.FieldErrors

	if params.Email == "" {
		errs = append(errs, model.FieldError{Field: "email", Message: msgEmailRequired})
	} else if !validation.Email(params.Email).Valid {
		errs = append(errs, model.FieldError{Field: "email", Message: msgEmailInvalid})
	} else {
		_, err := s.storage.GetAccountByEmail(ctx, params.Email)
		switch {
		case err == nil:
			errs = append(errs, model.FieldError{Field: "email", Message: msgEmailExists})
		case !errors.Is(err, model.ErrAccountNotFound):
			return nil, s.infra("checking email", err)
		}
	}

	if params.Password == "" {
		errs = append(errs, model.FieldError{Field: "password", Message: msgPasswordRequired})
	} else if res := validation.Password(params.Password); !res.Valid {
		return nil, model.NewFieldError("password", res.Message)
	}

	if len(errs) > 0 {
		return nil, errs
	}

	passwordHash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return nil, s.infra("hashing password", err)
	}

	username := params.Username
	if username == "" {
		username, err = s.generateUsername(ctx, params.Email)
		if err != nil {
			return nil, err
		}
	}

	// DisplayName falls back to the username argument as supplied, which
	// may be empty when the username was generated.
	displayName := params.DisplayName
	if displayName == "" {
		displayName = params.Username
	}

	now := s.clock.Now()
	account := &model.Account{
		Email:        params.Email,
		Username:     username,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.CreateAccount(ctx, account); err != nil {
		// The store is the uniqueness authority; a race that slipped past
		// the earlier lookup surfaces here as a field error.
		switch {
		case errors.Is(err, model.ErrEmailExists):
			return nil, model.NewFieldError("email", msgEmailExists)
		case errors.Is(err, model.ErrUsernameExists):
			return nil, model.NewFieldError("username", msgUsernameExists)
		}
		return nil, s.infra("creating account", err)
	}

	session, err := s.createSession(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Account: account, Session: session}, nil
}

// Login authenticates credentials and binds a session.
// An unknown email is reported as such; an existing email with a wrong
// password reveals only that the password was incorrect.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	account, err := s.storage.GetAccountByEmail(ctx, email)
	if errors.Is(err, model.ErrAccountNotFound) {
		return nil, model.NewFieldError("email", msgEmailMissing)
	}
	if err != nil {
		return nil, s.infra("looking up account", err)
	}

	ok, err := s.hasher.Verify(account.PasswordHash, password)
	if err != nil {
		return nil, s.infra("verifying password", err)
	}
	if !ok {
		return nil, model.NewFieldError("password", msgPasswordIncorrect)
	}

	session, err := s.createSession(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Account: account, Session: session}, nil
}

// ForgotPassword starts the reset flow. It reports success whether or not
// the email maps to an account, so this endpoint cannot be used to probe
// for registered addresses. When the account exists, a single-use token is
// stored with a TTL and the reset link is dispatched out of band.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	account, err := s.storage.GetAccountByEmail(ctx, email)
	if errors.Is(err, model.ErrAccountNotFound) {
		return nil
	}
	if err != nil {
		return s.infra("looking up account", err)
	}

	token := uuid.NewString()
	if err := s.storage.SaveResetToken(ctx, token, account.ID, s.cfg.ResetTokenTTL); err != nil {
		return s.infra("saving reset token", err)
	}

	// Fire-and-forget: delivery failures are logged, never surfaced, and
	// the token stays valid even if the mail never arrives.
	body := fmt.Sprintf(`Click here to <a href="%s/forgot-password?q=%s">Reset password</a>`, s.cfg.FrontendURL, token)
	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), notifySendTimeout)
		defer cancel()
		if err := s.notifier.Send(sendCtx, email, "Forgot your password?", body); err != nil {
			s.logger.Error("failed to send reset email", slog.String("error", err.Error()))
		}
	}()

	return nil
}

// ChangePassword redeems a reset token, persists the new credential, and
// binds a session (an implicit login). Unless KeepUsedResetTokens is set,
// the token is invalidated on success.
func (s *Service) ChangePassword(ctx context.Context, token, newPassword string) (*AuthResult, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	accountID, err := s.storage.GetResetToken(ctx, token)
	if errors.Is(err, model.ErrTokenNotFound) {
		return nil, model.NewFieldError("token", msgTokenInvalid)
	}
	if err != nil {
		return nil, s.infra("looking up reset token", err)
	}

	if res := validation.Password(newPassword); !res.Valid {
		return nil, model.NewFieldError("newPassword", res.Message)
	}

	account, err := s.storage.GetAccount(ctx, accountID)
	if errors.Is(err, model.ErrAccountNotFound) {
		// The token outlived its account
		return nil, model.NewFieldError("token", msgTokenInvalid)
	}
	if err != nil {
		return nil, s.infra("looking up account", err)
	}

	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return nil, s.infra("hashing password", err)
	}

	now := s.clock.Now()
	if err := s.storage.UpdateAccountPassword(ctx, account.ID, passwordHash, now); err != nil {
		return nil, s.infra("updating password", err)
	}
	account.PasswordHash = passwordHash
	account.UpdatedAt = now

	if !s.cfg.KeepUsedResetTokens {
		if err := s.storage.DeleteResetToken(ctx, token); err != nil {
			s.logger.Error("failed to invalidate reset token", slog.String("error", err.Error()))
		}
	}

	session, err := s.createSession(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Account: account, Session: session}, nil
}

// Me returns the account bound to the session, or nil when the bound id no
// longer resolves to a live account. Rejecting requests with no session at
// all is the auth middleware's job, not this method's.
func (s *Service) Me(ctx context.Context, session *model.Session) (*model.Account, error) {
	if session == nil {
		return nil, nil
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	account, err := s.storage.GetAccount(ctx, session.AccountID)
	if errors.Is(err, model.ErrAccountNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, s.infra("looking up account", err)
	}
	return account, nil
}

// Lookup fetches an account by id.
func (s *Service) Lookup(ctx context.Context, id model.AccountID) (*model.Account, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	account, err := s.storage.GetAccount(ctx, id)
	if errors.Is(err, model.ErrAccountNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, s.infra("looking up account", err)
	}
	return account, nil
}

// Logout destroys the server-side session. A store failure is logged and
// reported as false; it is never fatal to the caller, who clears the
// client-side cookie either way.
func (s *Service) Logout(ctx context.Context, id model.SessionID) bool {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	if err := s.storage.DeleteSession(ctx, id); err != nil {
		s.logger.Error("failed to destroy session",
			slog.String("session_id", string(id)),
			slog.String("error", err.Error()),
		)
		return false
	}
	return true
}

// ValidateSession resolves a session identifier to its server-side state
func (s *Service) ValidateSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	if id == "" {
		return nil, ErrInvalidSession
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	session, err := s.storage.GetSession(ctx, id)
	if errors.Is(err, model.ErrSessionNotFound) {
		return nil, ErrInvalidSession
	}
	if err != nil {
		return nil, s.infra("looking up session", err)
	}
	return session, nil
}

// VisibleEmail applies the field-level guard: an account's email is
// visible only to the session bound to that same account. Everyone else,
// including anonymous callers, sees an empty string.
func (s *Service) VisibleEmail(account *model.Account, viewer *model.Session) string {
	if viewer != nil && viewer.AccountID == account.ID {
		return account.Email
	}
	return ""
}

// View builds the caller-facing projection of an account with the email
// guard already applied. Handlers serialize views, never raw accounts.
func (s *Service) View(account *model.Account, viewer *model.Session) model.AccountView {
	return model.AccountView{
		ID:          account.ID,
		Email:       s.VisibleEmail(account, viewer),
		Username:    account.Username,
		DisplayName: account.DisplayName,
		CreatedAt:   account.CreatedAt,
		UpdatedAt:   account.UpdatedAt,
	}
}

// createSession binds a fresh session to an account id
func (s *Service) createSession(ctx context.Context, accountID model.AccountID) (*model.Session, error) {
	session := &model.Session{
		ID:        model.SessionID(generateSessionID()),
		AccountID: accountID,
		CreatedAt: s.clock.Now(),
	}

	if err := s.storage.SaveSession(ctx, session); err != nil {
		return nil, s.infra("saving session", err)
	}
	return session, nil
}

// generateSessionID generates a random opaque session identifier
func generateSessionID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return "sess_" + base64.RawURLEncoding.EncodeToString(b)
}

// opContext bounds an operation's store and hashing work
func (s *Service) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.OpTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.cfg.OpTimeout)
}

// infra wraps a non-field error, mapping timeouts to ErrUnavailable
func (s *Service) infra(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, model.ErrUnavailable)
	}
	return fmt.Errorf("%s: %w", op, err)
}
