package service

import (
	"context"

	"github.com/skyreport-dev/skyreport/internal/domain"
)

// to mock service in tests
type SettingsService interface {
	Get(ctx context.Context) (domain.Settings, error)
	Update(ctx context.Context, settings domain.Settings) error
}

type SettingsStorage interface {
	Settings(ctx context.Context) (domain.Settings, error)
	UpdateSettings(ctx context.Context, settings domain.Settings) error
}

type Settings struct {
	storage SettingsStorage
}

func NewSettings(storage SettingsStorage) *Settings {
	return &Settings{storage: storage}
}

func (s *Settings) Get(ctx context.Context) (domain.Settings, error) {
	return s.storage.Settings(ctx)
}

func (s *Settings) Update(ctx context.Context, settings domain.Settings) error {
	return s.storage.UpdateSettings(ctx, settings)
}
