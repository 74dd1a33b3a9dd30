package storage

import (
	"context"
	"time"

	"github.com/accountd/accountd/internal/model"
)

// Storage defines the interface for data persistence.
//
// Accounts are durable records; sessions and reset tokens are ephemeral.
// Implementations must enforce email and username uniqueness atomically in
// CreateAccount (two concurrent registrations with the same email must not
// both succeed) and must enforce reset-token expiry passively via the ttl
// given to SaveResetToken.
type Storage interface {
	// Account operations.
	// CreateAccount assigns the account's ID and returns
	// model.ErrEmailExists / model.ErrUsernameExists on conflicts.
	CreateAccount(ctx context.Context, account *model.Account) error
	GetAccount(ctx context.Context, id model.AccountID) (*model.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*model.Account, error)
	GetAccountByUsername(ctx context.Context, username string) (*model.Account, error)
	UpdateAccountPassword(ctx context.Context, id model.AccountID, passwordHash string, updatedAt time.Time) error

	// Session operations
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, id model.SessionID) (*model.Session, error)
	DeleteSession(ctx context.Context, id model.SessionID) error

	// Reset token operations
	SaveResetToken(ctx context.Context, token string, accountID model.AccountID, ttl time.Duration) error
	GetResetToken(ctx context.Context, token string) (model.AccountID, error)
	DeleteResetToken(ctx context.Context, token string) error
}
