package reqctx

import (
	"context"
	"errors"
	"fmt"
)

// Action is a staged side effect and its optional compensation.
type Action struct {
	Name string
	Do   func(ctx context.Context) error
	Undo func(ctx context.Context) error
}

// Stage queues a side effect for the next Commit. undo may be nil when the
// effect cannot or need not be reverted.
func (rc *RequestContext) Stage(name string, do, undo func(ctx context.Context) error) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.actions = append(rc.actions, Action{Name: name, Do: do, Undo: undo})
}

// Commit runs the staged actions in order and empties the stage. When one
// fails, the ones already done are undone newest first, on a context that
// survives cancellation of ctx. Undo failures are joined to the returned
// error, which still matches the original cause.
func (rc *RequestContext) Commit(ctx context.Context) error {
	rc.mu.Lock()
	staged := rc.actions
	rc.actions = nil
	rc.mu.Unlock()

	for i, a := range staged {
		err := a.Do(ctx)
		if err == nil {
			continue
		}

		errs := []error{fmt.Errorf("%s: %w", a.Name, err)}
		undoCtx := context.WithoutCancel(ctx)

		for j := i - 1; j >= 0; j-- {
			if staged[j].Undo == nil {
				continue
			}

			if uerr := staged[j].Undo(undoCtx); uerr != nil {
				errs = append(errs, fmt.Errorf("undo %s: %w", staged[j].Name, uerr))
			}
		}

		return errors.Join(errs...)
	}

	return nil
}

// Staged returns the names of the queued actions.
func (rc *RequestContext) Staged() []string {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	names := make([]string, len(rc.actions))
	for i, a := range rc.actions {
		names[i] = a.Name
	}

	return names
}
