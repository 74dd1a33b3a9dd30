package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/accountd/accountd/internal/model"
	"github.com/accountd/accountd/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Account operations

func (s *Storage) CreateAccount(ctx context.Context, account *model.Account) error {
	id, err := s.client.Incr(ctx, accountIDCounterKey()).Result()
	if err != nil {
		return err
	}
	account.ID = model.AccountID(id)

	// SETNX on the email index is the uniqueness gate: only one of two
	// racing registrations can claim the key.
	ok, err := s.client.SetNX(ctx, emailIndexKey(account.Email), id, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return model.ErrEmailExists
	}

	ok, err = s.client.SetNX(ctx, usernameIndexKey(account.Username), id, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		// Release the email claim so the caller can retry
		_ = s.client.Del(ctx, emailIndexKey(account.Email)).Err()
		return model.ErrUsernameExists
	}

	data, err := json.Marshal(account)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, accountKey(account.ID), data, 0).Err()
}

func (s *Storage) GetAccount(ctx context.Context, id model.AccountID) (*model.Account, error) {
	data, err := s.client.Get(ctx, accountKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}

	var account model.Account
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *Storage) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	return s.getAccountByIndex(ctx, emailIndexKey(email))
}

func (s *Storage) GetAccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	return s.getAccountByIndex(ctx, usernameIndexKey(username))
}

func (s *Storage) getAccountByIndex(ctx context.Context, indexKey string) (*model.Account, error) {
	idStr, err := s.client.Get(ctx, indexKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return nil, err
	}
	return s.GetAccount(ctx, model.AccountID(id))
}

func (s *Storage) UpdateAccountPassword(ctx context.Context, id model.AccountID, passwordHash string, updatedAt time.Time) error {
	account, err := s.GetAccount(ctx, id)
	if err != nil {
		return err
	}

	account.PasswordHash = passwordHash
	account.UpdatedAt = updatedAt

	data, err := json.Marshal(account)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, accountKey(id), data, 0).Err()
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(session.ID), data, s.cfg.SessionTTL).Err()
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSessionNotFound
		}
		return nil, err
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Storage) DeleteSession(ctx context.Context, id model.SessionID) error {
	return s.client.Del(ctx, sessionKey(id)).Err()
}

// Reset token operations

func (s *Storage) SaveResetToken(ctx context.Context, token string, accountID model.AccountID, ttl time.Duration) error {
	return s.client.Set(ctx, resetTokenKey(token), int64(accountID), ttl).Err()
}

func (s *Storage) GetResetToken(ctx context.Context, token string) (model.AccountID, error) {
	idStr, err := s.client.Get(ctx, resetTokenKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, model.ErrTokenNotFound
		}
		return 0, err
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, err
	}
	return model.AccountID(id), nil
}

func (s *Storage) DeleteResetToken(ctx context.Context, token string) error {
	return s.client.Del(ctx, resetTokenKey(token)).Err()
}
