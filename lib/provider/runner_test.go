package provider

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vpsdeck/vpsdeck/lib/agent"
)

func countingAction(name string, calls *int, err error) Action {
	return Action{
		Name: name,
		Execute: func(ctx context.Context) error {
			*calls++
			return err
		},
	}
}

func withDialog(a Action) Action {
	a.Dialog = func() *Dialog {
		return &Dialog{
			Title:       "Confirm",
			Message:     "Sure?",
			Severity:    SeverityWarn,
			ConfirmText: "Yes",
			CancelText:  "No",
		}
	}
	return a
}

func TestInvokeWithoutDialogExecutesImmediately(t *testing.T) {
	calls := 0
	declineEverything := ConfirmFunc(func(context.Context, Dialog) (bool, error) {
		t.Fatal("no dialog defined, confirmer must not be consulted")
		return false, nil
	})

	res := Invoke(context.Background(), countingAction("start", &calls, nil), declineEverything)
	assert.Equal(t, OutcomeSucceeded, res.Outcome)
	assert.Equal(t, 1, calls)
}

func TestInvokeDeclinedIsCancelledNotError(t *testing.T) {
	calls := 0
	decline := ConfirmFunc(func(context.Context, Dialog) (bool, error) {
		return false, nil
	})

	res := Invoke(context.Background(), withDialog(countingAction("stop", &calls, nil)), decline)
	assert.Equal(t, OutcomeCancelled, res.Outcome)
	assert.NoError(t, res.Err)
	assert.Zero(t, calls, "declining must have no side effect")
}

func TestInvokeConfirmedExecutes(t *testing.T) {
	calls := 0
	var seen Dialog
	confirm := ConfirmFunc(func(_ context.Context, d Dialog) (bool, error) {
		seen = d
		return true, nil
	})

	res := Invoke(context.Background(), withDialog(countingAction("stop", &calls, nil)), confirm)
	assert.Equal(t, OutcomeSucceeded, res.Outcome)
	assert.Equal(t, 1, calls)
	assert.Equal(t, SeverityWarn, seen.Severity)
}

func TestInvokeFailure(t *testing.T) {
	calls := 0
	boom := errors.New("vendor exploded")

	res := Invoke(context.Background(), countingAction("reboot", &calls, boom), nil)
	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.ErrorIs(t, res.Err, boom)
}

func TestInvokePendingIsNotFailure(t *testing.T) {
	calls := 0
	pending := fmt.Errorf("queued: %w", agent.ErrPending)

	res := Invoke(context.Background(), countingAction("copy-backup", &calls, pending), AutoConfirm)
	assert.Equal(t, OutcomePending, res.Outcome)
	assert.NoError(t, res.Err)
}

func TestInvokeIsRepeatable(t *testing.T) {
	calls := 0
	action := withDialog(countingAction("stop", &calls, nil))

	for i := 0; i < 3; i++ {
		res := Invoke(context.Background(), action, AutoConfirm)
		require.Equal(t, OutcomeSucceeded, res.Outcome)
	}
	assert.Equal(t, 3, calls, "the whole dialog cycle can run again after success")
}

func TestInvokeNilConfirmerCancelsDialogActions(t *testing.T) {
	calls := 0
	res := Invoke(context.Background(), withDialog(countingAction("stop", &calls, nil)), nil)
	assert.Equal(t, OutcomeCancelled, res.Outcome)
	assert.Zero(t, calls)
}
