package provider

import (
	"context"
	"errors"

	"github.com/vpsdeck/vpsdeck/lib/agent"
	"github.com/vpsdeck/vpsdeck/lib/logger"
)

// Outcome of one action invocation.
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
	OutcomeCancelled Outcome = "cancelled"
	// OutcomePending means the vendor accepted the work but completes
	// it asynchronously (Bandwagon's backup-to-snapshot copy answers by
	// email). Not a failure; the caller re-fetches later.
	OutcomePending Outcome = "pending"
)

// Result is the terminal state of a dialog cycle. Err is set only for
// OutcomeFailed.
type Result struct {
	Outcome Outcome `json:"outcome"`
	Err     error   `json:"-"`
}

// Confirmer is the blocking collaborator that answers confirmation
// dialogs. The suspension point is a user decision, not a timeout, so
// Confirm takes the context and may wait indefinitely.
type Confirmer interface {
	Confirm(ctx context.Context, d Dialog) (bool, error)
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(ctx context.Context, d Dialog) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, d Dialog) (bool, error) {
	return f(ctx, d)
}

// AutoConfirm approves every dialog. The API layer uses it once the
// caller has explicitly confirmed.
var AutoConfirm = ConfirmFunc(func(context.Context, Dialog) (bool, error) {
	return true, nil
})

// Invoke runs one full dialog cycle for an action:
//
//	idle → dialog-shown → {confirmed → executing → {succeeded | failed | pending}} | cancelled
//
// An absent dialog short-circuits straight to executing. A declined
// dialog is a normal cancelled outcome, never an error. Invoking the
// same action again after success is safe; nothing here is one-shot.
func Invoke(ctx context.Context, action Action, confirmer Confirmer) Result {
	log := logger.FromContext(ctx)

	if action.Dialog != nil {
		if d := action.Dialog(); d != nil {
			if confirmer == nil {
				return Result{Outcome: OutcomeCancelled}
			}
			ok, err := confirmer.Confirm(ctx, *d)
			if err != nil {
				return Result{Outcome: OutcomeFailed, Err: err}
			}
			if !ok {
				log.DebugContext(ctx, "action declined", "action", action.Name)
				return Result{Outcome: OutcomeCancelled}
			}
		}
	}

	if err := action.Execute(ctx); err != nil {
		if errors.Is(err, agent.ErrPending) {
			log.InfoContext(ctx, "action pending vendor-side completion", "action", action.Name)
			return Result{Outcome: OutcomePending}
		}
		log.ErrorContext(ctx, "action failed", "action", action.Name, "error", err)
		return Result{Outcome: OutcomeFailed, Err: err}
	}

	log.InfoContext(ctx, "action succeeded", "action", action.Name)
	return Result{Outcome: OutcomeSucceeded}
}
