package repository

import (
	"context"
	"errors"
	"fmt"
)

type rollbackKey struct{}

type rollbackLog struct {
	steps []func(ctx context.Context) error
}

// Sequential is a Transactor for stores without multi-document
// transactions. Writes apply immediately; when fn fails, the steps
// registered with OnRollback run in reverse order.
type Sequential struct{}

func (Sequential) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(rollbackKey{}).(*rollbackLog); ok {
		return fn(ctx)
	}

	rb := &rollbackLog{}
	err := fn(context.WithValue(ctx, rollbackKey{}, rb))
	if err == nil {
		return nil
	}
	undoCtx := context.WithoutCancel(ctx)
	for i := len(rb.steps) - 1; i >= 0; i-- {
		if uerr := rb.steps[i](undoCtx); uerr != nil {
			err = errors.Join(err, fmt.Errorf("rollback: %w", uerr))
		}
	}
	return err
}

// OnRollback registers the undo of a write just made through ctx. It is a
// no-op inside transactional units, which roll back on their own.
func OnRollback(ctx context.Context, step func(ctx context.Context) error) {
	if rb, ok := ctx.Value(rollbackKey{}).(*rollbackLog); ok {
		rb.steps = append(rb.steps, step)
	}
}
