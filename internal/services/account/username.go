package account

import (
	"context"
	"errors"
	"strings"

	"github.com/accountd/accountd/internal/model"
)

const (
	usernameSuffixLen   = 4
	usernameMaxAttempts = 100
	digits              = "0123456789"
)

// ErrUsernameGeneration is returned when no free username could be found
// within the attempt budget. With a 4-digit suffix space this only happens
// when a local part is pathologically oversubscribed.
var ErrUsernameGeneration = errors.New("could not generate a unique username")

// generateUsername derives a handle from the email's local part plus an
// underscore and a random 4-digit suffix, redrawing the suffix until the
// store reports no existing owner.
func (s *Service) generateUsername(ctx context.Context, email string) (string, error) {
	base := email
	if at := strings.Index(email, "@"); at >= 0 {
		base = email[:at]
	}

	for i := 0; i < usernameMaxAttempts; i++ {
		candidate := base + "_" + s.random.String(usernameSuffixLen, digits)

		_, err := s.storage.GetAccountByUsername(ctx, candidate)
		if errors.Is(err, model.ErrAccountNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", s.infra("checking username", err)
		}
	}

	return "", ErrUsernameGeneration
}
