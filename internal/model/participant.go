package model

import "time"

type Participant struct {
	TelegramID       int64
	Username         string
	ReferralLink     string
	ReferrerID       *int64
	Referrals        int
	RegistrationDate time.Time
}

type CredentialKind string

const (
	CredentialWallet CredentialKind = "wallet"
	CredentialEmail  CredentialKind = "email"
	CredentialHandle CredentialKind = "handle"
)

func (k CredentialKind) Valid() bool {
	switch k {
	case CredentialWallet, CredentialEmail, CredentialHandle:
		return true
	default:
		return false
	}
}

type Credential struct {
	ID            string
	ParticipantID int64
	Kind          CredentialKind
	Value         string
	SubmittedAt   time.Time
}

// ReferralEvent is pushed to the admin live feed whenever a first-time
// registration lands.
type ReferralEvent struct {
	ParticipantID int64     `json:"participant_id"`
	Username      string    `json:"username,omitempty"`
	ReferrerID    *int64    `json:"referrer_id,omitempty"`
	RegisteredAt  time.Time `json:"registered_at"`
}
