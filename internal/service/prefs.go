package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fleetflow/navigator/backend/internal/store"
)

// PrefService persists per-user interface preferences in the local store.
// Currently that is just the dark-mode flag.
type PrefService struct {
	kv store.KV
}

// NewPrefService constructs a PrefService over the given store.
func NewPrefService(kv store.KV) *PrefService {
	return &PrefService{kv: kv}
}

// DarkMode returns the user's dark-mode preference. Absent or unreadable
// state defaults to true (the interface ships dark).
func (s *PrefService) DarkMode(ctx context.Context, userID string) (bool, error) {
	value, err := s.kv.Get(ctx, darkModeKey(userID))
	if err != nil {
		if errors.Is(err, store.ErrNoKey) {
			return true, nil
		}
		return true, fmt.Errorf("service.PrefService.DarkMode: %w", err)
	}
	return string(value) == "true", nil
}

// SetDarkMode stores the user's dark-mode preference.
func (s *PrefService) SetDarkMode(ctx context.Context, userID string, enabled bool) error {
	value := "false"
	if enabled {
		value = "true"
	}
	if err := s.kv.Put(ctx, darkModeKey(userID), []byte(value)); err != nil {
		return fmt.Errorf("service.PrefService.SetDarkMode: %w", err)
	}
	return nil
}

func darkModeKey(userID string) string {
	return "pref/darkmode/" + userID
}
