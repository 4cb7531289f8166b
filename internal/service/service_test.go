package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"walpay-wallet/internal/repository"
)

func TestWithTx(t *testing.T) {
	t.Run("CommitsOnSuccess", func(t *testing.T) {
		d := newTestDeps()
		d.txc.On("Commit").Return(nil).Once()
		d.txc.On("Rollback").Return(nil).Once()

		err := d.txRunner().withTx(context.Background(), "op", func(q repository.DBExecutor) error {
			assert.Equal(t, d.txc, q)
			return nil
		})
		assert.NoError(t, err)
		d.txc.AssertExpectations(t)
	})

	t.Run("RollsBackOnError", func(t *testing.T) {
		d := newTestDeps()
		d.txc.On("Rollback").Return(nil).Once()
		boom := errors.New("boom")

		err := d.txRunner().withTx(context.Background(), "op", func(repository.DBExecutor) error { return boom })
		assert.ErrorIs(t, err, boom)
		d.txc.AssertNotCalled(t, "Commit")
		d.txc.AssertExpectations(t)
	})

	t.Run("CommitFailure", func(t *testing.T) {
		d := newTestDeps()
		d.txc.On("Commit").Return(errors.New("serialization failure")).Once()
		d.txc.On("Rollback").Return(nil).Once()

		err := d.txRunner().withTx(context.Background(), "op", func(repository.DBExecutor) error { return nil })
		assert.ErrorContains(t, err, "op: failed to commit transaction")
	})
}
