package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSMTP = errors.New("smtp: connection refused")

func failing() error { return errSMTP }
func succeeding() error { return nil }

func TestCircuitBreaker_TripsAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 3,
		SuccessThreshold: 1,
		OpenTimeout:      time.Minute,
	})

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Execute(failing), errSMTP)
	}
	assert.Equal(t, CBOpen, cb.State())

	// open circuit fast-fails without calling fn
	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestCircuitBreaker_RecoversThroughHalfOpen(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 2,
		SuccessThreshold: 2,
		OpenTimeout:      20 * time.Millisecond,
	})

	cb.Execute(failing)
	cb.Execute(failing)
	require.Equal(t, CBOpen, cb.State())

	time.Sleep(25 * time.Millisecond)
	assert.Equal(t, CBHalfOpen, cb.State())

	// two successful probes close the circuit
	require.NoError(t, cb.Execute(succeeding))
	require.NoError(t, cb.Execute(succeeding))
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreaker_FailedProbeReopens(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 1,
		SuccessThreshold: 1,
		OpenTimeout:      20 * time.Millisecond,
	})

	cb.Execute(failing)
	require.Equal(t, CBOpen, cb.State())

	time.Sleep(25 * time.Millisecond)
	require.Equal(t, CBHalfOpen, cb.State())

	cb.Execute(failing)
	assert.Equal(t, CBOpen, cb.State())
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 2,
		SuccessThreshold: 1,
		OpenTimeout:      time.Minute,
	})

	cb.Execute(failing)
	require.NoError(t, cb.Execute(succeeding))
	cb.Execute(failing)

	// never reached two consecutive failures
	assert.Equal(t, CBClosed, cb.State())
}
