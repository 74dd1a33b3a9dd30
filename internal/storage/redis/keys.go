package redis

import (
	"fmt"

	"github.com/accountd/accountd/internal/model"
)

// Key prefix for all account-service data. The reset-token namespace in
// particular matters: the ephemeral store may be shared with other data.
const keyPrefix = "accountd"

// accountKey returns the Redis key for an Account record
func accountKey(id model.AccountID) string {
	return fmt.Sprintf("%s:account:%d", keyPrefix, id)
}

// emailIndexKey returns the Redis key for the email -> account_id index
func emailIndexKey(email string) string {
	return fmt.Sprintf("%s:idx:email:%s", keyPrefix, email)
}

// usernameIndexKey returns the Redis key for the username -> account_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// accountIDCounterKey returns the Redis key for the account id sequence
func accountIDCounterKey() string {
	return fmt.Sprintf("%s:seq:account_id", keyPrefix)
}

// sessionKey returns the Redis key for a Session
func sessionKey(id model.SessionID) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, id)
}

// resetTokenKey returns the Redis key for a password-reset token
func resetTokenKey(token string) string {
	return fmt.Sprintf("%s:reset_token:%s", keyPrefix, token)
}
