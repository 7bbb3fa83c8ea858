package repository

import (
	"context"
	"database/sql"
	"fmt"

	"FRD_airdrop_bot/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type participant struct {
	TelegramID       int64        `db:"telegram_id"`
	Username         string       `db:"username"`
	ReferralLink     string       `db:"referral_link"`
	ReferrerID       *int64       `db:"referrer_id"`
	Referrals        int          `db:"referrals"`
	RegistrationDate sql.NullTime `db:"registration_date"`
}

func (p *participant) toModel() *model.Participant {
	m := &model.Participant{
		TelegramID:   p.TelegramID,
		Username:     p.Username,
		ReferralLink: p.ReferralLink,
		ReferrerID:   p.ReferrerID,
		Referrals:    p.Referrals,
	}
	if p.RegistrationDate.Valid {
		m.RegistrationDate = p.RegistrationDate.Time
	}
	return m
}

func (r *Repository) GetParticipant(ctx context.Context, telegramID int64) (*model.Participant, error) {
	var p participant
	query, args, err := squirrel.
		Select("*").
		From("participants").
		Where(squirrel.Eq{"telegram_id": telegramID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &p, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(ErrStoreUnavailable, "get participant: %v", err)
	}

	return p.toModel(), nil
}

// CreateParticipant inserts the participant and, when an inviter is set,
// increments that inviter's referral counter inside the same transaction.
// The pair must land atomically: a participant attributed to an inviter
// whose counter was never bumped (or the reverse) is the one corruption
// this store has to rule out.
func (r *Repository) CreateParticipant(ctx context.Context, p *model.Participant) error {
	return r.withRetry(ctx, func() error {
		return r.Transaction(ctx, func(tx *sqlx.Tx) error {
			query, args, err := squirrel.
				Insert("participants").
				SetMap(map[string]interface{}{
					"telegram_id":       p.TelegramID,
					"username":          p.Username,
					"referral_link":     p.ReferralLink,
					"referrer_id":       p.ReferrerID,
					"referrals":         0,
					"registration_date": p.RegistrationDate,
				}).
				PlaceholderFormat(squirrel.Dollar).
				ToSql()
			if err != nil {
				return fmt.Errorf("failed to build participant insert query: %w", err)
			}

			_, err = tx.ExecContext(ctx, query, args...)
			if err != nil {
				if isUniqueViolation(err) {
					return ErrAlreadyExists
				}
				return fmt.Errorf("failed to insert participant: %w", err)
			}

			if p.ReferrerID != nil {
				updateQuery, updateArgs, err := squirrel.
					Update("participants").
					Set("referrals", squirrel.Expr("referrals + 1")).
					Where(squirrel.Eq{"telegram_id": p.ReferrerID}).
					PlaceholderFormat(squirrel.Dollar).
					ToSql()
				if err != nil {
					return fmt.Errorf("failed to build referrer update query: %w", err)
				}

				res, err := tx.ExecContext(ctx, updateQuery, updateArgs...)
				if err != nil {
					return fmt.Errorf("failed to update referrer: %w", err)
				}
				n, err := res.RowsAffected()
				if err != nil {
					return err
				}
				if n == 0 {
					return errors.Wrap(ErrNotFound, "referrer")
				}
			}

			return nil
		})
	})
}

// UpdateInviter repoints an existing participant at a new inviter and
// refreshes the stored referral link. Counters are left alone: credit is
// granted on first-time registration only.
func (r *Repository) UpdateInviter(ctx context.Context, telegramID, inviterID int64, link string) error {
	return r.withRetry(ctx, func() error {
		query, args, err := squirrel.
			Update("participants").
			Set("referrer_id", inviterID).
			Set("referral_link", link).
			Where(squirrel.Eq{"telegram_id": telegramID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		res, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to update inviter: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *Repository) IncrementReferralCount(ctx context.Context, telegramID int64) error {
	return r.withRetry(ctx, func() error {
		query, args, err := squirrel.
			Update("participants").
			Set("referrals", squirrel.Expr("referrals + 1")).
			Where(squirrel.Eq{"telegram_id": telegramID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		res, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to increment referral count: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *Repository) ListChildren(ctx context.Context, inviterID int64) ([]*model.Participant, error) {
	query, args, err := squirrel.
		Select("*").
		From("participants").
		Where(squirrel.And{
			squirrel.Eq{"referrer_id": inviterID},
			squirrel.NotEq{"telegram_id": inviterID},
		}).
		OrderBy("registration_date").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []participant
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, errors.Wrapf(ErrStoreUnavailable, "list children: %v", err)
	}

	children := make([]*model.Participant, len(rows))
	for i := range rows {
		children[i] = rows[i].toModel()
	}
	return children, nil
}

func (r *Repository) ListParticipants(ctx context.Context) ([]*model.Participant, error) {
	query, args, err := squirrel.
		Select("*").
		From("participants").
		OrderBy("registration_date").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []participant
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, errors.Wrapf(ErrStoreUnavailable, "list participants: %v", err)
	}

	participants := make([]*model.Participant, len(rows))
	for i := range rows {
		participants[i] = rows[i].toModel()
	}
	return participants, nil
}

// ClearAll wipes every participant and credential. Admin bulk-clear only.
func (r *Repository) ClearAll(ctx context.Context) error {
	return r.withRetry(ctx, func() error {
		return r.Transaction(ctx, func(tx *sqlx.Tx) error {
			if _, err := tx.ExecContext(ctx, "DELETE FROM credentials"); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, "DELETE FROM participants"); err != nil {
				return err
			}
			return nil
		})
	})
}
