package repository

import (
	"context"
	"fmt"
	"time"

	"FRD_airdrop_bot/pkg/logger"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrAlreadyExists       = errors.New("already exists")
	ErrDuplicateCredential = errors.New("credential already submitted")
	ErrStoreUnavailable    = errors.New("store unavailable")
)

const (
	retryAttempts = 3
	retryBackoff  = 100 * time.Millisecond
)

type Repository struct {
	db *sqlx.DB
}

type Config struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (c *Config) GetDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Name,
	)
}

func New(cfg Config) (*Repository, error) {
	db, err := sqlx.Connect("pgx", cfg.GetDatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	r := &Repository{db: db}
	if err := r.initSchema(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Logger().Info("Connected to database successfully")
	return r, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS participants (
			telegram_id       BIGINT PRIMARY KEY,
			username          TEXT NOT NULL DEFAULT '',
			referral_link     TEXT NOT NULL,
			referrer_id       BIGINT,
			referrals         INT NOT NULL DEFAULT 0,
			registration_date TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS credentials (
			id             UUID PRIMARY KEY,
			participant_id BIGINT NOT NULL REFERENCES participants (telegram_id) ON DELETE CASCADE,
			kind           TEXT NOT NULL,
			value          TEXT NOT NULL,
			submitted_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (participant_id, kind)
		)`,
	}

	for _, stmt := range statements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) Transaction(ctx context.Context, t func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	err = t(tx)
	if err != nil {
		txErr := tx.Rollback()
		if txErr != nil {
			return errors.Wrapf(err, "rollback error: %v", txErr)
		}
		return err
	}
	return tx.Commit()
}

// withRetry runs op up to retryAttempts times with linear backoff. Expected
// control-flow errors (not found, duplicates) pass through on the first hit;
// anything still failing after the last attempt surfaces as
// ErrStoreUnavailable.
func (r *Repository) withRetry(ctx context.Context, op func() error) error {
	var err error
	for attempt := 1; attempt <= retryAttempts; attempt++ {
		err = op()
		if err == nil || isExpected(err) {
			return err
		}
		if attempt < retryAttempts {
			select {
			case <-time.After(time.Duration(attempt) * retryBackoff):
			case <-ctx.Done():
				return errors.Wrap(ErrStoreUnavailable, ctx.Err().Error())
			}
		}
	}
	return errors.Wrapf(ErrStoreUnavailable, "after %d attempts: %v", retryAttempts, err)
}

func isExpected(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrAlreadyExists) ||
		errors.Is(err, ErrDuplicateCredential)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
