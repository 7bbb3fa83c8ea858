package service

import (
	"context"
	"errors"
	"io"

	"FRD_airdrop_bot/internal/model"
)

var (
	ErrParticipantNotFound = errors.New("participant not found")
	ErrAlreadySubmitted    = errors.New("credential already submitted")
	ErrInvalidValue        = errors.New("credential value has invalid format")
)

type Service struct {
	*ReferralService
	*CredentialService
}

func NewService(referrals *ReferralService, credentials *CredentialService) *Service {
	return &Service{
		ReferralService:   referrals,
		CredentialService: credentials,
	}
}

type ReferralServiceI interface {
	RegisterReferral(ctx context.Context, id int64, username string, inviterID *int64) (*RegisterResult, error)
	GetParticipant(ctx context.Context, id int64) (*model.Participant, error)
	CountDirect(ctx context.Context, id int64) (int, error)
	ListChildren(ctx context.Context, id int64) ([]*model.Participant, error)
	ListParticipants(ctx context.Context) ([]*model.Participant, error)
	ClearAll(ctx context.Context) error
	Link(id int64) string
}

type CredentialServiceI interface {
	Submit(ctx context.Context, participantID int64, kind model.CredentialKind, value string) error
	SubmittedKinds(ctx context.Context, participantID int64) ([]model.CredentialKind, error)
	ExportCSV(ctx context.Context, kind model.CredentialKind, w io.Writer) error
	ExportFile(ctx context.Context, kind model.CredentialKind) (string, error)
}

type ParticipantRepository interface {
	GetParticipant(ctx context.Context, telegramID int64) (*model.Participant, error)
	CreateParticipant(ctx context.Context, p *model.Participant) error
	UpdateInviter(ctx context.Context, telegramID, inviterID int64, link string) error
	IncrementReferralCount(ctx context.Context, telegramID int64) error
	ListChildren(ctx context.Context, inviterID int64) ([]*model.Participant, error)
	ListParticipants(ctx context.Context) ([]*model.Participant, error)
	ClearAll(ctx context.Context) error
}

type CredentialRepository interface {
	InsertCredential(ctx context.Context, c *model.Credential) error
	ListCredentials(ctx context.Context, kind model.CredentialKind) ([]*model.Credential, error)
	ListSubmittedKinds(ctx context.Context, participantID int64) ([]model.CredentialKind, error)
}

// ReferralNotifier receives first-time registration events, e.g. for the
// admin live feed. Implementations must not block.
type ReferralNotifier interface {
	ReferralRegistered(event model.ReferralEvent)
}
