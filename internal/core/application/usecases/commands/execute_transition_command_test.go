package commands_test

import (
	"testing"

	"warehouse/internal/core/application/usecases/commands"
	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExecuteTransitionCommand_ValidInput(t *testing.T) {
	orderID := kernel.NewUUID()
	cmd, err := commands.NewExecuteTransitionCommand(orderID, order.Pick, "started picking")
	require.NoError(t, err)
	assert.Equal(t, orderID, cmd.OrderID())
	assert.Equal(t, order.Pick, cmd.Transition())
	assert.Equal(t, "started picking", cmd.Notes())
}

func TestNewExecuteTransitionCommand_InvalidOrderID(t *testing.T) {
	_, err := commands.NewExecuteTransitionCommand(kernel.UUID{}, order.Pick, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestNewExecuteTransitionCommand_UnknownTransition(t *testing.T) {
	_, err := commands.NewExecuteTransitionCommand(kernel.NewUUID(), "teleport", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, order.ErrInvalidTransition)
}

func TestExecuteTransitionCommand_ValidateUnconstructed(t *testing.T) {
	var cmd commands.ExecuteTransitionCommand
	require.ErrorIs(t, cmd.Validate(), commands.ErrExecuteTransitionCommandIsNotConstructed)
}
