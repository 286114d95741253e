// seed loads the sample donors, events and donations into DATABASE_URL and creates the
// admin account for AUTH_BACKEND=local. Safe to run repeatedly: existing rows are kept.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"nss-bloodbank/backend/internal/config"
	"nss-bloodbank/backend/internal/db"
	donationdomain "nss-bloodbank/backend/internal/donation/domain"
	donationrepo "nss-bloodbank/backend/internal/donation/repository"
	donordomain "nss-bloodbank/backend/internal/donor/domain"
	donorrepo "nss-bloodbank/backend/internal/donor/repository"
	eventdomain "nss-bloodbank/backend/internal/event/domain"
	eventrepo "nss-bloodbank/backend/internal/event/repository"
	"nss-bloodbank/backend/internal/logging"
	"nss-bloodbank/backend/internal/security"
	userdomain "nss-bloodbank/backend/internal/user/domain"
	userrepo "nss-bloodbank/backend/internal/user/repository"
)

const seedTimeout = time.Minute

type donorCreator interface {
	Create(ctx context.Context, d *donordomain.Donor) error
}

type eventInserter interface {
	Insert(ctx context.Context, e *eventdomain.Event) error
}

type donationInserter interface {
	Insert(ctx context.Context, d *donationdomain.Donation) error
}

// stores are the tables the seeder writes to.
type stores struct {
	donors    donorCreator
	events    eventInserter
	donations donationInserter
	users     userrepo.Repository
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "seed:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}
	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), seedTimeout)
	defer cancel()
	return seed(ctx, stores{
		donors:    donorrepo.NewPostgresRepository(conn),
		events:    eventrepo.NewPostgresRepository(conn),
		donations: donationrepo.NewPostgresRepository(conn),
		users:     userrepo.NewPostgresRepository(conn),
	}, cfg, logger)
}

func seed(ctx context.Context, s stores, cfg *config.Config, logger *zap.Logger) error {
	added := 0
	for _, d := range donorrepo.Fixtures() {
		err := s.donors.Create(ctx, d)
		if errors.Is(err, donorrepo.ErrDuplicateDonor) {
			continue
		}
		if err != nil {
			return fmt.Errorf("donor %s: %w", d.ID, err)
		}
		added++
	}
	logger.Info("seed: donors", zap.Int("added", added))

	events := eventrepo.Fixtures()
	for _, e := range events {
		if err := s.events.Insert(ctx, e); err != nil {
			return fmt.Errorf("event %s: %w", e.ID, err)
		}
	}
	logger.Info("seed: events", zap.Int("upserted", len(events)))

	history := donationrepo.Fixtures()
	for _, d := range history {
		if err := s.donations.Insert(ctx, d); err != nil {
			return fmt.Errorf("donation %s: %w", d.ID, err)
		}
	}
	logger.Info("seed: donations", zap.Int("ensured", len(history)))

	if err := seedAdmin(ctx, cfg, s.users, logger); err != nil {
		return fmt.Errorf("admin: %w", err)
	}
	return nil
}

// seedAdmin creates ADMIN_EMAIL with ADMIN_PASSWORD and the admin flag unless the user exists.
func seedAdmin(ctx context.Context, cfg *config.Config, users userrepo.Repository, logger *zap.Logger) error {
	email := userdomain.NormalizeEmail(cfg.AdminEmail)
	if email == "" || cfg.AdminPassword == "" {
		logger.Warn("seed: ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin")
		return nil
	}
	existing, err := users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		logger.Info("seed: admin already exists", zap.String("email", email))
		return nil
	}
	hash, err := security.NewHasher(cfg.BcryptCost).Hash([]byte(cfg.AdminPassword))
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	u := &userdomain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         "NSS Admin",
		PasswordHash: hash,
		IsAdmin:      true,
		Status:       userdomain.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Create(ctx, u); err != nil {
		if errors.Is(err, userrepo.ErrDuplicateEmail) {
			return nil
		}
		return err
	}
	logger.Info("seed: admin created", zap.String("email", email))
	return nil
}
