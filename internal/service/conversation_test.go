package service

import (
	"sync"
	"testing"

	"FRD_airdrop_bot/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestStateTable_DefaultsToIdle(t *testing.T) {
	table := NewStateTable()
	assert.Equal(t, StepIdle, table.Get(42))
}

func TestStateTable_SetGetClear(t *testing.T) {
	table := NewStateTable()

	table.Set(1, StepAwaitingWallet)
	assert.Equal(t, StepAwaitingWallet, table.Get(1))

	table.Set(1, StepAwaitingEmail)
	assert.Equal(t, StepAwaitingEmail, table.Get(1))

	table.Clear(1)
	assert.Equal(t, StepIdle, table.Get(1))

	table.Set(2, StepAwaitingHandle)
	table.Set(2, StepIdle)
	assert.Equal(t, StepIdle, table.Get(2))
}

func TestStateTable_ConcurrentParticipants(t *testing.T) {
	table := NewStateTable()

	var wg sync.WaitGroup
	for i := int64(0); i < 100; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			table.Set(id, StepAwaitingWallet)
			_ = table.Get(id)
			table.Set(id, StepAwaitingEmail)
			if id%2 == 0 {
				table.Clear(id)
			}
		}(i)
	}
	wg.Wait()

	for i := int64(0); i < 100; i++ {
		if i%2 == 0 {
			assert.Equal(t, StepIdle, table.Get(i))
		} else {
			assert.Equal(t, StepAwaitingEmail, table.Get(i))
		}
	}
}

func TestStepKindMapping(t *testing.T) {
	kind, ok := StepAwaitingWallet.Kind()
	assert.True(t, ok)
	assert.Equal(t, model.CredentialWallet, kind)

	kind, ok = StepAwaitingEmail.Kind()
	assert.True(t, ok)
	assert.Equal(t, model.CredentialEmail, kind)

	kind, ok = StepAwaitingHandle.Kind()
	assert.True(t, ok)
	assert.Equal(t, model.CredentialHandle, kind)

	_, ok = StepIdle.Kind()
	assert.False(t, ok)

	assert.Equal(t, StepAwaitingWallet, StepFor(model.CredentialWallet))
	assert.Equal(t, StepIdle, StepFor(model.CredentialKind("bogus")))
}
