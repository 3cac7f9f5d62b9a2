package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/marcward/gridstreak/internal/store"
)

// EnsureUser returns the stored user profile, minting a guest identity
// on first run. The guest id is the sync key until a real account takes
// over, so it is generated once and then stable.
func (s *Session) EnsureUser(ctx context.Context) (*store.UserProfile, error) {
	u, err := s.store.GetUser(ctx)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("ensure user: %w", err)
	}

	guest := store.UserProfile{
		ID:      "guest-" + uuid.Must(uuid.NewV7()).String(),
		IsGuest: true,
	}
	if err := s.store.SaveUser(ctx, guest); err != nil {
		return nil, fmt.Errorf("ensure user: %w", err)
	}

	s.log.Info("created guest profile", "id", guest.ID)
	return s.store.GetUser(ctx)
}

// LinkAccount upgrades the profile to a real account, keeping history
// keyed by the new id.
func (s *Session) LinkAccount(ctx context.Context, id, email, name string) (*store.UserProfile, error) {
	if id == "" {
		return nil, errors.New("game: account id is required")
	}
	account := store.UserProfile{ID: id, Email: email, Name: name, IsGuest: false}
	if err := s.store.SaveUser(ctx, account); err != nil {
		return nil, fmt.Errorf("link account: %w", err)
	}
	return s.store.GetUser(ctx)
}
