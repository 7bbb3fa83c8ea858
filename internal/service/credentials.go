package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"FRD_airdrop_bot/internal/model"
	"FRD_airdrop_bot/internal/repository"
	"FRD_airdrop_bot/pkg/validate"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// CredentialService collects wallet/email/handle submissions and produces
// the CSV dumps the campaign operators download.
type CredentialService struct {
	repo CredentialRepository
}

func NewCredentialService(repo CredentialRepository) *CredentialService {
	return &CredentialService{repo: repo}
}

// Submit validates and stores one credential. A participant gets at most
// one credential per kind; resubmission is rejected and the stored value
// kept.
func (s *CredentialService) Submit(ctx context.Context, participantID int64, kind model.CredentialKind, value string) error {
	if !validKind(kind, value) {
		return ErrInvalidValue
	}

	err := s.repo.InsertCredential(ctx, &model.Credential{
		ParticipantID: participantID,
		Kind:          kind,
		Value:         value,
	})
	if errors.Is(err, repository.ErrDuplicateCredential) {
		return ErrAlreadySubmitted
	}
	if err != nil {
		return fmt.Errorf("failed to store %s: %w", kind, err)
	}
	return nil
}

func validKind(kind model.CredentialKind, value string) bool {
	switch kind {
	case model.CredentialWallet:
		return validate.WalletAddress(value)
	case model.CredentialEmail:
		return validate.EmailAddress(value)
	case model.CredentialHandle:
		return validate.SocialHandle(value)
	default:
		return false
	}
}

func (s *CredentialService) SubmittedKinds(ctx context.Context, participantID int64) ([]model.CredentialKind, error) {
	kinds, err := s.repo.ListSubmittedKinds(ctx, participantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submitted kinds: %w", err)
	}
	return kinds, nil
}

// ExportCSV writes every stored credential of one kind as a two-column
// dump: participant id, value.
func (s *CredentialService) ExportCSV(ctx context.Context, kind model.CredentialKind, w io.Writer) error {
	creds, err := s.repo.ListCredentials(ctx, kind)
	if err != nil {
		return fmt.Errorf("failed to list credentials: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Chat ID", csvHeader(kind)}); err != nil {
		return err
	}
	for _, c := range creds {
		if err := cw.Write([]string{strconv.FormatInt(c.ParticipantID, 10), c.Value}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvHeader(kind model.CredentialKind) string {
	switch kind {
	case model.CredentialWallet:
		return "BEP20 Address"
	case model.CredentialEmail:
		return "Email"
	case model.CredentialHandle:
		return "Handle"
	default:
		return "Value"
	}
}

// ExportFile writes the dump to a uniquely named temp file and returns its
// path, for delivery as a chat document. The caller removes the file after
// sending.
func (s *CredentialService) ExportFile(ctx context.Context, kind model.CredentialKind) (string, error) {
	name := fmt.Sprintf("%s-%s.csv", kind, uuid.New())
	path := filepath.Join(os.TempDir(), name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}

	if err := s.ExportCSV(ctx, kind, f); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}
