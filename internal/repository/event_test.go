package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtlethecat2/projectrift/internal/models"
)

func TestAdmissionLockKeyDeterministic(t *testing.T) {
	first := admissionLockKey("nooks", "call_dial", `{"phone_number":"+15550001111"}`)
	second := admissionLockKey("nooks", "call_dial", `{"phone_number":"+15550001111"}`)

	assert.Equal(t, first, second)
}

func TestAdmissionLockKeyDiscriminates(t *testing.T) {
	base := admissionLockKey("nooks", "call_dial", `{"a":1}`)

	// Chaque composante du triplet participe à la clé
	assert.NotEqual(t, base, admissionLockKey("outreach", "call_dial", `{"a":1}`))
	assert.NotEqual(t, base, admissionLockKey("nooks", "call_connect", `{"a":1}`))
	assert.NotEqual(t, base, admissionLockKey("nooks", "call_dial", `{"a":2}`))
}

func TestAdmissionLockKeySeparatorPreventsCollisions(t *testing.T) {
	// "ab"+"c" et "a"+"bc" ne doivent pas produire la même clé
	assert.NotEqual(t,
		admissionLockKey("ab", "c", "{}"),
		admissionLockKey("a", "bc", "{}"),
	)
}

func TestWrapAcquireErrorPoolExhaustion(t *testing.T) {
	err := wrapAcquireError("duplicate check", context.DeadlineExceeded)

	var poolErr *models.PoolExhaustedError
	require.ErrorAs(t, err, &poolErr)
}

func TestWrapAcquireErrorOrdinaryFailure(t *testing.T) {
	err := wrapAcquireError("event insert", errors.New("connection reset"))

	var storeErr *models.StoreError
	require.ErrorAs(t, err, &storeErr)

	var poolErr *models.PoolExhaustedError
	assert.False(t, errors.As(err, &poolErr))
}
