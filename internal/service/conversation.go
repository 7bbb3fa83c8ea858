package service

import (
	"sync"

	"FRD_airdrop_bot/internal/model"
)

// Step is the pending-input marker for one participant. It exists only for
// the lifetime of the process; a restart forgets who was mid-prompt, which
// is acceptable because stored submissions are never left half-written.
type Step int

const (
	StepIdle Step = iota
	StepAwaitingWallet
	StepAwaitingEmail
	StepAwaitingHandle
)

// Kind maps an awaiting step to the credential kind it collects.
func (s Step) Kind() (model.CredentialKind, bool) {
	switch s {
	case StepAwaitingWallet:
		return model.CredentialWallet, true
	case StepAwaitingEmail:
		return model.CredentialEmail, true
	case StepAwaitingHandle:
		return model.CredentialHandle, true
	default:
		return "", false
	}
}

func StepFor(kind model.CredentialKind) Step {
	switch kind {
	case model.CredentialWallet:
		return StepAwaitingWallet
	case model.CredentialEmail:
		return StepAwaitingEmail
	case model.CredentialHandle:
		return StepAwaitingHandle
	default:
		return StepIdle
	}
}

// StateTable holds every participant's current step. Many updates are
// handled concurrently, so access goes through one lock; per-key atomicity
// is all the flow controller needs.
type StateTable struct {
	mu    sync.RWMutex
	steps map[int64]Step
}

func NewStateTable() *StateTable {
	return &StateTable{steps: make(map[int64]Step)}
}

func (t *StateTable) Get(participantID int64) Step {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.steps[participantID]
}

func (t *StateTable) Set(participantID int64, step Step) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if step == StepIdle {
		delete(t.steps, participantID)
		return
	}
	t.steps[participantID] = step
}

func (t *StateTable) Clear(participantID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.steps, participantID)
}
