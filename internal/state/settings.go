package state

import (
	"context"

	"pantry/internal/api"
	"pantry/internal/log"
)

// SettingsBackend is the collaborator surface for the settings view.
type SettingsBackend interface {
	api.ConfigStore
	api.PreferenceStore
}

// Settings round-trips the backend configuration snapshot and the
// household preferences. Plain fetch and store, no dirty tracking.
type Settings struct {
	backend SettingsBackend
	logger  *log.Logger
}

func NewSettings(backend SettingsBackend, logger *log.Logger) *Settings {
	return &Settings{
		backend: backend,
		logger:  logger.WithComponent(log.ComponentSettings),
	}
}

func (s *Settings) Load(ctx context.Context) (api.ConfigSnapshot, error) {
	return s.backend.ReadConfig(ctx)
}

func (s *Settings) Save(ctx context.Context, snap api.ConfigSnapshot) error {
	if err := s.backend.WriteConfig(ctx, snap); err != nil {
		s.logger.WarnContext(ctx, "Settings save failed", log.FieldError, err)
		return err
	}
	s.logger.InfoContext(ctx, "Settings saved")
	return nil
}

func (s *Settings) LoadPreferences(ctx context.Context) (api.Preferences, error) {
	return s.backend.ReadPreferences(ctx)
}

func (s *Settings) SavePreferences(ctx context.Context, prefs api.Preferences) error {
	if err := s.backend.WritePreferences(ctx, prefs); err != nil {
		s.logger.WarnContext(ctx, "Preferences save failed", log.FieldError, err)
		return err
	}
	return nil
}
