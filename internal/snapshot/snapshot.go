// Package snapshot maintains a point-in-time copy of remote account state.
// A snapshot is replaced wholesale on every fetch and never mutated in place.
package snapshot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/preppilot/preppilot-cli/internal/preppilot"
	"github.com/preppilot/preppilot-cli/internal/util"
	"go.uber.org/zap"
)

// DefaultRefreshInterval matches the activity-style feed refetch cadence.
const DefaultRefreshInterval = 30 * time.Second

// Account is an immutable-per-fetch view of the user's remote state.
type Account struct {
	FetchedAt time.Time
	Balance   int
	Roles     []*preppilot.RoleSelection
	CVs       []*preppilot.CV
}

// Fetcher supplies the remote queries backing a snapshot.
type Fetcher interface {
	GetWallet() (*preppilot.Wallet, error)
	GetUserRoles() (*preppilot.RoleSelections, error)
	GetCVs() (*preppilot.CVs, error)
}

// Source holds the latest Account and refreshes it on demand or on a fixed
// interval. Consumers always read whichever snapshot was most recently
// received; staleness up to the refresh interval is accepted.
type Source struct {
	mu      sync.RWMutex
	fetcher Fetcher
	logger  *zap.Logger
	current *Account
}

func NewSource(fetcher Fetcher, logger *zap.Logger) *Source {
	return &Source{fetcher: fetcher, logger: logger}
}

// Latest returns the most recently received snapshot, or nil before the
// first successful refresh.
func (s *Source) Latest() *Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Refresh fetches wallet, roles and CVs and replaces the snapshot wholesale.
// A partial fetch failure leaves the previous snapshot in place.
func (s *Source) Refresh() (*Account, error) {
	wallet, err := s.fetcher.GetWallet()
	if err != nil {
		return nil, fmt.Errorf("refreshing wallet: %w", err)
	}

	roles, err := s.fetcher.GetUserRoles()
	if err != nil {
		return nil, fmt.Errorf("refreshing roles: %w", err)
	}

	cvs, err := s.fetcher.GetCVs()
	if err != nil {
		return nil, fmt.Errorf("refreshing cvs: %w", err)
	}

	account := &Account{
		FetchedAt: time.Now().UTC(),
		Balance:   wallet.BalanceCredits,
		Roles:     roles.Items,
		CVs:       cvs.Items,
	}

	s.mu.Lock()
	s.current = account
	s.mu.Unlock()

	return account, nil
}

// Run refreshes the snapshot on the given interval until the context ends.
// Refresh failures are logged and the loop keeps going: the previous
// snapshot stays valid. This request line is independent of any in-flight
// launch submission.
func (s *Source) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}

	for {
		if err := util.WaitFor(ctx, interval); err != nil {
			return
		}

		if _, err := s.Refresh(); err != nil {
			s.logger.Warn("snapshot refresh failed", zap.Error(err))
		}
	}
}

// FirstRole returns the first selected role in snapshot order, or nil.
func (a *Account) FirstRole() *preppilot.RoleSelection {
	if a == nil || len(a.Roles) == 0 {
		return nil
	}
	return a.Roles[0]
}

// FindCV returns the CV with the given id, or nil when it is not part of
// this snapshot.
func (a *Account) FindCV(id int) *preppilot.CV {
	if a == nil {
		return nil
	}
	for _, cv := range a.CVs {
		if cv.ID == id {
			return cv
		}
	}
	return nil
}
