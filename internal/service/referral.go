package service

import (
	"context"
	"fmt"
	"time"

	"FRD_airdrop_bot/internal/model"
	"FRD_airdrop_bot/internal/repository"
	"FRD_airdrop_bot/pkg/logger"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ReferralService owns the one-level referral tree: who invited whom, and
// the denormalized per-inviter referral counter.
type ReferralService struct {
	repo        ParticipantRepository
	botUsername string
	notifier    ReferralNotifier
}

func NewReferralService(repo ParticipantRepository, botUsername string, notifier ReferralNotifier) *ReferralService {
	return &ReferralService{
		repo:        repo,
		botUsername: botUsername,
		notifier:    notifier,
	}
}

type RegisterResult struct {
	Participant *model.Participant
	Created     bool
}

// Link derives a participant's personal invitation link from their identity.
func (s *ReferralService) Link(id int64) string {
	return fmt.Sprintf("https://t.me/%s?start=%d", s.botUsername, id)
}

// RegisterReferral handles an entry via /start, with or without an inviter
// argument. Rules:
//
//   - Unknown inviter (or self-referral): the participant is created as an
//     orphan.
//   - Existing participant: the inviter pointer is updated, nothing is
//     counted. Credit is granted on first-ever registration only, so
//     repeated link clicks never double-increment anyone.
//   - New participant with a valid inviter: the record is created and the
//     inviter's counter incremented atomically as a pair.
func (s *ReferralService) RegisterReferral(ctx context.Context, id int64, username string, inviterID *int64) (*RegisterResult, error) {
	log := logger.Logger()

	if inviterID != nil && *inviterID == id {
		inviterID = nil
	}

	existing, err := s.repo.GetParticipant(ctx, id)
	if err == nil {
		return s.reenter(ctx, existing, inviterID)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to load participant %d: %w", id, err)
	}

	if inviterID != nil {
		_, err := s.repo.GetParticipant(ctx, *inviterID)
		if errors.Is(err, repository.ErrNotFound) {
			log.Info("inviter unknown, registering orphan",
				zap.Int64("participant_id", id),
				zap.Int64("inviter_id", *inviterID))
			inviterID = nil
		} else if err != nil {
			return nil, fmt.Errorf("failed to resolve inviter: %w", err)
		}
	}

	p := &model.Participant{
		TelegramID:       id,
		Username:         username,
		ReferralLink:     s.Link(id),
		ReferrerID:       inviterID,
		RegistrationDate: time.Now().UTC(),
	}

	err = s.repo.CreateParticipant(ctx, p)
	if errors.Is(err, repository.ErrAlreadyExists) {
		// Lost a create race against a concurrent entry for the same id.
		// Whoever won holds the registration; treat ours as a re-entry
		// without touching any counter.
		won, gerr := s.repo.GetParticipant(ctx, id)
		if gerr != nil {
			return nil, fmt.Errorf("failed to reload participant after create race: %w", gerr)
		}
		return &RegisterResult{Participant: won, Created: false}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create participant: %w", err)
	}

	if s.notifier != nil {
		s.notifier.ReferralRegistered(model.ReferralEvent{
			ParticipantID: p.TelegramID,
			Username:      p.Username,
			ReferrerID:    p.ReferrerID,
			RegisteredAt:  p.RegistrationDate,
		})
	}

	return &RegisterResult{Participant: p, Created: true}, nil
}

func (s *ReferralService) reenter(ctx context.Context, existing *model.Participant, inviterID *int64) (*RegisterResult, error) {
	if inviterID == nil {
		return &RegisterResult{Participant: existing, Created: false}, nil
	}

	if _, err := s.repo.GetParticipant(ctx, *inviterID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &RegisterResult{Participant: existing, Created: false}, nil
		}
		return nil, fmt.Errorf("failed to resolve inviter: %w", err)
	}

	link := s.Link(existing.TelegramID)
	if err := s.repo.UpdateInviter(ctx, existing.TelegramID, *inviterID, link); err != nil {
		return nil, fmt.Errorf("failed to update inviter: %w", err)
	}

	existing.ReferrerID = inviterID
	existing.ReferralLink = link
	return &RegisterResult{Participant: existing, Created: false}, nil
}

func (s *ReferralService) GetParticipant(ctx context.Context, id int64) (*model.Participant, error) {
	p, err := s.repo.GetParticipant(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	return p, nil
}

// CountDirect reads the denormalized counter. It is not computed from edges;
// keeping it exact is the create path's job.
func (s *ReferralService) CountDirect(ctx context.Context, id int64) (int, error) {
	p, err := s.GetParticipant(ctx, id)
	if err != nil {
		return 0, err
	}
	return p.Referrals, nil
}

func (s *ReferralService) ListChildren(ctx context.Context, id int64) ([]*model.Participant, error) {
	children, err := s.repo.ListChildren(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list referrals: %w", err)
	}
	return children, nil
}

func (s *ReferralService) ListParticipants(ctx context.Context) ([]*model.Participant, error) {
	participants, err := s.repo.ListParticipants(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	return participants, nil
}

func (s *ReferralService) ClearAll(ctx context.Context) error {
	if err := s.repo.ClearAll(ctx); err != nil {
		return fmt.Errorf("failed to clear campaign data: %w", err)
	}
	logger.Logger().Info("campaign data cleared")
	return nil
}
