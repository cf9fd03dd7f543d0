package ucommon

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	SetLogger(nil)
	goleak.VerifyTestMain(m)
}

// requireContract asserts that fn panics with a ContractError wrapping err.
func requireContract(t *testing.T, err error, fn func()) {
	t.Helper()

	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic")

		var ce *ContractError
		e, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		require.True(t, errors.As(e, &ce), "panic value %v is not a ContractError", r)
		require.ErrorIs(t, ce, err)
	}()
	fn()
}

// waitFor polls cond until it holds or a second has passed.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, time.Second, time.Millisecond)
}
