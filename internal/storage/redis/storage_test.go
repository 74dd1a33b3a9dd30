package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/accountd/accountd/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.storage = NewWithClient(client, DefaultConfig())
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) newAccount(email, username string) *model.Account {
	return &model.Account{
		Email:        email,
		Username:     username,
		DisplayName:  username,
		PasswordHash: "hash123",
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
}

// Account tests

func (s *StorageSuite) TestCreateAndGetAccount() {
	account := s.newAccount("a@b.com", "alice")

	err := s.storage.CreateAccount(s.ctx, account)
	s.Require().NoError(err)
	s.NotZero(account.ID)

	retrieved, err := s.storage.GetAccount(s.ctx, account.ID)
	s.Require().NoError(err)
	s.Equal("a@b.com", retrieved.Email)
	s.Equal("alice", retrieved.Username)
	s.Equal("hash123", retrieved.PasswordHash)
}

func (s *StorageSuite) TestCreateAccountAssignsDistinctIDs() {
	first := s.newAccount("a@b.com", "alice")
	second := s.newAccount("b@b.com", "bob")

	s.Require().NoError(s.storage.CreateAccount(s.ctx, first))
	s.Require().NoError(s.storage.CreateAccount(s.ctx, second))

	s.NotEqual(first.ID, second.ID)
}

func (s *StorageSuite) TestCreateAccountRejectsDuplicateEmail() {
	s.Require().NoError(s.storage.CreateAccount(s.ctx, s.newAccount("a@b.com", "alice")))

	err := s.storage.CreateAccount(s.ctx, s.newAccount("a@b.com", "bob"))
	s.ErrorIs(err, model.ErrEmailExists)
}

func (s *StorageSuite) TestCreateAccountRejectsDuplicateUsername() {
	s.Require().NoError(s.storage.CreateAccount(s.ctx, s.newAccount("a@b.com", "alice")))

	err := s.storage.CreateAccount(s.ctx, s.newAccount("b@b.com", "alice"))
	s.ErrorIs(err, model.ErrUsernameExists)
}

func (s *StorageSuite) TestUsernameConflictReleasesEmailClaim() {
	s.Require().NoError(s.storage.CreateAccount(s.ctx, s.newAccount("a@b.com", "alice")))

	err := s.storage.CreateAccount(s.ctx, s.newAccount("b@b.com", "alice"))
	s.Require().ErrorIs(err, model.ErrUsernameExists)

	// The failed registration must not leave b@b.com claimed
	err = s.storage.CreateAccount(s.ctx, s.newAccount("b@b.com", "bob"))
	s.NoError(err)
}

func (s *StorageSuite) TestGetAccountByEmail() {
	account := s.newAccount("a@b.com", "alice")
	s.Require().NoError(s.storage.CreateAccount(s.ctx, account))

	retrieved, err := s.storage.GetAccountByEmail(s.ctx, "a@b.com")
	s.Require().NoError(err)
	s.Equal(account.ID, retrieved.ID)
}

func (s *StorageSuite) TestGetAccountByUsername() {
	account := s.newAccount("a@b.com", "alice")
	s.Require().NoError(s.storage.CreateAccount(s.ctx, account))

	retrieved, err := s.storage.GetAccountByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(account.ID, retrieved.ID)
}

func (s *StorageSuite) TestGetAccountNotFound() {
	_, err := s.storage.GetAccount(s.ctx, 42)
	s.ErrorIs(err, model.ErrAccountNotFound)

	_, err = s.storage.GetAccountByEmail(s.ctx, "missing@x.com")
	s.ErrorIs(err, model.ErrAccountNotFound)

	_, err = s.storage.GetAccountByUsername(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrAccountNotFound)
}

func (s *StorageSuite) TestUpdateAccountPassword() {
	account := s.newAccount("a@b.com", "alice")
	s.Require().NoError(s.storage.CreateAccount(s.ctx, account))

	updatedAt := time.Now().UTC().Add(time.Hour)
	err := s.storage.UpdateAccountPassword(s.ctx, account.ID, "newhash", updatedAt)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetAccount(s.ctx, account.ID)
	s.Require().NoError(err)
	s.Equal("newhash", retrieved.PasswordHash)
	s.True(retrieved.UpdatedAt.Equal(updatedAt))
}

func (s *StorageSuite) TestUpdateAccountPasswordNotFound() {
	err := s.storage.UpdateAccountPassword(s.ctx, 42, "newhash", time.Now())
	s.ErrorIs(err, model.ErrAccountNotFound)
}

// Session tests

func (s *StorageSuite) TestSaveGetDeleteSession() {
	session := &model.Session{ID: "sess_1", AccountID: 1, CreatedAt: time.Now().UTC()}
	s.Require().NoError(s.storage.SaveSession(s.ctx, session))

	retrieved, err := s.storage.GetSession(s.ctx, "sess_1")
	s.Require().NoError(err)
	s.Equal(model.AccountID(1), retrieved.AccountID)

	s.Require().NoError(s.storage.DeleteSession(s.ctx, "sess_1"))

	_, err = s.storage.GetSession(s.ctx, "sess_1")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestSessionHasNoTTLByDefault() {
	session := &model.Session{ID: "sess_1", AccountID: 1}
	s.Require().NoError(s.storage.SaveSession(s.ctx, session))

	s.Equal(time.Duration(0), s.mini.TTL(sessionKey("sess_1")))
}

func (s *StorageSuite) TestSessionTTLWhenConfigured() {
	cfg := DefaultConfig()
	cfg.SessionTTL = time.Hour
	s.storage.cfg = cfg

	session := &model.Session{ID: "sess_1", AccountID: 1}
	s.Require().NoError(s.storage.SaveSession(s.ctx, session))

	s.True(s.mini.TTL(sessionKey("sess_1")) > 0)
}

// Reset token tests

func (s *StorageSuite) TestSaveAndGetResetToken() {
	err := s.storage.SaveResetToken(s.ctx, "tok", 7, time.Hour)
	s.Require().NoError(err)

	accountID, err := s.storage.GetResetToken(s.ctx, "tok")
	s.Require().NoError(err)
	s.Equal(model.AccountID(7), accountID)

	s.True(s.mini.TTL(resetTokenKey("tok")) > 0, "reset token should carry a TTL")
}

func (s *StorageSuite) TestResetTokenExpires() {
	err := s.storage.SaveResetToken(s.ctx, "tok", 7, 72*time.Hour)
	s.Require().NoError(err)

	s.mini.FastForward(72*time.Hour + time.Second)

	_, err = s.storage.GetResetToken(s.ctx, "tok")
	s.ErrorIs(err, model.ErrTokenNotFound)
}

func (s *StorageSuite) TestDeleteResetToken() {
	s.Require().NoError(s.storage.SaveResetToken(s.ctx, "tok", 7, time.Hour))
	s.Require().NoError(s.storage.DeleteResetToken(s.ctx, "tok"))

	_, err := s.storage.GetResetToken(s.ctx, "tok")
	s.ErrorIs(err, model.ErrTokenNotFound)
}

func (s *StorageSuite) TestGetResetTokenUnknown() {
	_, err := s.storage.GetResetToken(s.ctx, "never-issued")
	s.ErrorIs(err, model.ErrTokenNotFound)
}
