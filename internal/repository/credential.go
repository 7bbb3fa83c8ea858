package repository

import (
	"context"
	"fmt"
	"time"

	"FRD_airdrop_bot/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type credential struct {
	ID            uuid.UUID `db:"id"`
	ParticipantID int64     `db:"participant_id"`
	Kind          string    `db:"kind"`
	Value         string    `db:"value"`
	SubmittedAt   time.Time `db:"submitted_at"`
}

// InsertCredential stores one credential of the given kind for a
// participant. A second submission of the same kind is rejected and the
// first value is retained, enforced by the (participant_id, kind) unique
// constraint rather than a read-check-write race.
func (r *Repository) InsertCredential(ctx context.Context, c *model.Credential) error {
	return r.withRetry(ctx, func() error {
		query, args, err := squirrel.
			Insert("credentials").
			SetMap(map[string]interface{}{
				"id":             uuid.New(),
				"participant_id": c.ParticipantID,
				"kind":           string(c.Kind),
				"value":          c.Value,
				"submitted_at":   time.Now().UTC(),
			}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build credential insert query: %w", err)
		}

		_, err = r.db.ExecContext(ctx, query, args...)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateCredential
			}
			return fmt.Errorf("failed to insert credential: %w", err)
		}
		return nil
	})
}

func (r *Repository) ListCredentials(ctx context.Context, kind model.CredentialKind) ([]*model.Credential, error) {
	query, args, err := squirrel.
		Select("id", "participant_id", "kind", "value", "submitted_at").
		From("credentials").
		Where(squirrel.Eq{"kind": string(kind)}).
		OrderBy("submitted_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []credential
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, errors.Wrapf(ErrStoreUnavailable, "list credentials: %v", err)
	}

	creds := make([]*model.Credential, len(rows))
	for i, row := range rows {
		creds[i] = &model.Credential{
			ID:            row.ID.String(),
			ParticipantID: row.ParticipantID,
			Kind:          model.CredentialKind(row.Kind),
			Value:         row.Value,
			SubmittedAt:   row.SubmittedAt,
		}
	}
	return creds, nil
}

// ListSubmittedKinds returns which credential kinds a participant has
// already provided, for the mini-app status endpoint.
func (r *Repository) ListSubmittedKinds(ctx context.Context, participantID int64) ([]model.CredentialKind, error) {
	query, args, err := squirrel.
		Select("kind").
		From("credentials").
		Where(squirrel.Eq{"participant_id": participantID}).
		OrderBy("submitted_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var kinds []string
	err = r.db.SelectContext(ctx, &kinds, query, args...)
	if err != nil {
		return nil, errors.Wrapf(ErrStoreUnavailable, "list submitted kinds: %v", err)
	}

	out := make([]model.CredentialKind, len(kinds))
	for i, k := range kinds {
		out[i] = model.CredentialKind(k)
	}
	return out, nil
}
