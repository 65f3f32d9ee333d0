package commands_test

import (
	"errors"
	"testing"

	"warehouse/internal/core/application/usecases/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSweepExpiredClaimsCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd := commands.NewSweepExpiredClaimsCommand()

	taskRepo := new(MockRequestTaskRepository)
	uow := new(MockTaskUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("TaskRepository").Return(taskRepo).Once(),
		taskRepo.On("DeleteExpiredClaims", ctx, mock.AnythingOfType("time.Time")).
			Return(int64(3), nil).
			Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockTaskUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewSweepExpiredClaimsCommandHandler(factory)
	swept, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.EqualValues(t, 3, swept)
	// Swept tasks never go back to a queue.
	taskRepo.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)

	taskRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestSweepExpiredClaimsCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	var cmd commands.SweepExpiredClaimsCommand // not constructed properly

	factory := new(MockTaskUoWFactory)
	handler := commands.NewSweepExpiredClaimsCommandHandler(factory)
	_, err := handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrSweepExpiredClaimsCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestSweepExpiredClaimsCommandHandler_Handle_DeleteError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.NewSweepExpiredClaimsCommand()

	taskRepo := new(MockRequestTaskRepository)
	uow := new(MockTaskUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("TaskRepository").Return(taskRepo).Once(),
		taskRepo.On("DeleteExpiredClaims", ctx, mock.AnythingOfType("time.Time")).
			Return(int64(0), errors.New("database error")).
			Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockTaskUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewSweepExpiredClaimsCommandHandler(factory)
	_, err := handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.EqualError(t, err, "database error")
}
