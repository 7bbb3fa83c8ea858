package mocks

import (
	"context"

	"FRD_airdrop_bot/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockParticipantRepository struct {
	mock.Mock
}

func (m *MockParticipantRepository) GetParticipant(ctx context.Context, telegramID int64) (*model.Participant, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Participant), args.Error(1)
}

func (m *MockParticipantRepository) CreateParticipant(ctx context.Context, p *model.Participant) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockParticipantRepository) UpdateInviter(ctx context.Context, telegramID, inviterID int64, link string) error {
	args := m.Called(ctx, telegramID, inviterID, link)
	return args.Error(0)
}

func (m *MockParticipantRepository) IncrementReferralCount(ctx context.Context, telegramID int64) error {
	args := m.Called(ctx, telegramID)
	return args.Error(0)
}

func (m *MockParticipantRepository) ListChildren(ctx context.Context, inviterID int64) ([]*model.Participant, error) {
	args := m.Called(ctx, inviterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Participant), args.Error(1)
}

func (m *MockParticipantRepository) ListParticipants(ctx context.Context) ([]*model.Participant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Participant), args.Error(1)
}

func (m *MockParticipantRepository) ClearAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockCredentialRepository struct {
	mock.Mock
}

func (m *MockCredentialRepository) InsertCredential(ctx context.Context, c *model.Credential) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCredentialRepository) ListCredentials(ctx context.Context, kind model.CredentialKind) ([]*model.Credential, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Credential), args.Error(1)
}

func (m *MockCredentialRepository) ListSubmittedKinds(ctx context.Context, participantID int64) ([]model.CredentialKind, error) {
	args := m.Called(ctx, participantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CredentialKind), args.Error(1)
}
