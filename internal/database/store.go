package database

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Driver names accepted by Open.
const (
	DriverPostgres = "postgres"
	DriverSupabase = "supabase"
)

// Options selects and configures the storage backend.
type Options struct {
	Driver             string
	DatabaseURL        string
	AutoMigrate        bool
	SupabaseURL        string
	SupabaseServiceKey string
}

// Store bundles the repositories of one backend.
type Store struct {
	Schedules ScheduleRepository
	Users     UserRepository
	closeFn   func() error
}

// Close releases the backend's resources.
func (s *Store) Close() error {
	if s.closeFn == nil {
		return nil
	}
	return s.closeFn()
}

// Open connects to the configured backend.
func Open(ctx context.Context, opts Options) (*Store, error) {
	switch opts.Driver {
	case DriverPostgres, "":
		if opts.AutoMigrate {
			if err := MigrateUp(opts.DatabaseURL); err != nil {
				return nil, err
			}
		}
		svc, err := NewDatabaseService(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return &Store{
			Schedules: NewScheduleRepository(svc.DB),
			Users:     NewUserRepository(svc.DB),
			closeFn:   svc.Close,
		}, nil

	case DriverSupabase:
		repo, err := NewSupabaseRepository(opts.SupabaseURL, opts.SupabaseServiceKey)
		if err != nil {
			return nil, err
		}
		log.Info("Using Supabase PostgREST store")
		return &Store{Schedules: repo, Users: repo}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}
