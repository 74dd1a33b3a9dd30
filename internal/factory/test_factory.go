package factory

import (
	"time"

	"github.com/accountd/accountd/internal/dependencies/mocks"
	"github.com/accountd/accountd/internal/hash"
	"github.com/accountd/accountd/internal/services/account"
	"github.com/accountd/accountd/internal/storage/memory"
	"github.com/accountd/accountd/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock    *mocks.MockClock
	MockRandom   *mocks.MockRandom
	MockNotifier *mocks.MockNotifier
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	mockNotifier := mocks.NewMockNotifier()

	app := newWithDependencies(store, mockClock, mockRandom, hash.NewArgon2id(), mockNotifier, account.DefaultConfig(), testutil.NopLogger())

	return &TestApp{
		App:          app,
		MockClock:    mockClock,
		MockRandom:   mockRandom,
		MockNotifier: mockNotifier,
	}
}
