package memory

import (
	"context"
	"sync"
	"time"

	"github.com/accountd/accountd/internal/model"
	"github.com/accountd/accountd/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Reset-token expiry is checked lazily on read against the wall clock.
type Storage struct {
	mu sync.RWMutex

	nextID        model.AccountID
	accounts      map[model.AccountID]*model.Account
	emailIndex    map[string]model.AccountID
	usernameIndex map[string]model.AccountID
	sessions      map[model.SessionID]*model.Session
	resetTokens   map[string]resetToken
}

type resetToken struct {
	accountID model.AccountID
	expiresAt time.Time
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		nextID:        1,
		accounts:      make(map[model.AccountID]*model.Account),
		emailIndex:    make(map[string]model.AccountID),
		usernameIndex: make(map[string]model.AccountID),
		sessions:      make(map[model.SessionID]*model.Session),
		resetTokens:   make(map[string]resetToken),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Account operations

func (s *Storage) CreateAccount(ctx context.Context, account *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Uniqueness check and insert happen under one lock, so two
	// concurrent registrations cannot both claim the same email.
	if _, ok := s.emailIndex[account.Email]; ok {
		return model.ErrEmailExists
	}
	if _, ok := s.usernameIndex[account.Username]; ok {
		return model.ErrUsernameExists
	}

	account.ID = s.nextID
	s.nextID++

	copied := *account
	s.accounts[copied.ID] = &copied
	s.emailIndex[copied.Email] = copied.ID
	s.usernameIndex[copied.Username] = copied.ID
	return nil
}

func (s *Storage) GetAccount(ctx context.Context, id model.AccountID) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[id]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	copied := *account
	return &copied, nil
}

func (s *Storage) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.emailIndex[email]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	copied := *s.accounts[id]
	return &copied, nil
}

func (s *Storage) GetAccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	copied := *s.accounts[id]
	return &copied, nil
}

func (s *Storage) UpdateAccountPassword(ctx context.Context, id model.AccountID, passwordHash string, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[id]
	if !ok {
		return model.ErrAccountNotFound
	}
	account.PasswordHash = passwordHash
	account.UpdatedAt = updatedAt
	return nil
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *session
	s.sessions[copied.ID] = &copied
	return nil
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	copied := *session
	return &copied, nil
}

func (s *Storage) DeleteSession(ctx context.Context, id model.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Reset token operations

func (s *Storage) SaveResetToken(ctx context.Context, token string, accountID model.AccountID, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetTokens[token] = resetToken{
		accountID: accountID,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

func (s *Storage) GetResetToken(ctx context.Context, token string) (model.AccountID, error) {
	s.mu.RLock()
	rt, ok := s.resetTokens[token]
	s.mu.RUnlock()

	if !ok {
		return 0, model.ErrTokenNotFound
	}
	if time.Now().After(rt.expiresAt) {
		s.mu.Lock()
		delete(s.resetTokens, token)
		s.mu.Unlock()
		return 0, model.ErrTokenNotFound
	}
	return rt.accountID, nil
}

func (s *Storage) DeleteResetToken(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.resetTokens, token)
	return nil
}
