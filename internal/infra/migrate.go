package infra

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

// Migrate applies every pending up migration from source (e.g. file://migrations).
func Migrate(source, dsn string) error {
	m, err := migrate.New(source, dsn)
	if err != nil {
		return fmt.Errorf("cannot create new migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrate up: %w", err)
	}
	log.Info().Str("source", source).Msg("db migrated successfully")
	return nil
}
