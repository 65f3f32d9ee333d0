package commands_test

import (
	"testing"

	"warehouse/internal/core/application/usecases/commands"
	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/core/domain/model/order"
	"warehouse/internal/core/domain/model/task"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequestTransitionCommand_ValidInput(t *testing.T) {
	taskID := kernel.NewUUID()
	orderID := kernel.NewUUID()

	cmd, err := commands.NewRequestTransitionCommand(
		taskID, orderID, order.Confirm, task.Fulfillment, "agent-7", "priority")
	require.NoError(t, err)
	assert.Equal(t, taskID, cmd.TaskID())
	assert.Equal(t, orderID, cmd.OrderID())
	assert.Equal(t, order.Confirm, cmd.Transition())
	assert.Equal(t, task.Fulfillment, cmd.Role())
	assert.Equal(t, "agent-7", cmd.AgentID())
	assert.Equal(t, "priority", cmd.Notes())
}

func TestNewRequestTransitionCommand_InvalidTaskID(t *testing.T) {
	_, err := commands.NewRequestTransitionCommand(
		kernel.UUID{}, kernel.NewUUID(), order.Confirm, task.Fulfillment, "", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestNewRequestTransitionCommand_UnknownTransition(t *testing.T) {
	_, err := commands.NewRequestTransitionCommand(
		kernel.NewUUID(), kernel.NewUUID(), "teleport", task.Fulfillment, "", "")
	require.Error(t, err)
	// Unknown names classify the same as edges illegal from the current
	// state, so clients see one invalid-transition category for both.
	assert.ErrorIs(t, err, order.ErrInvalidTransition)
}

func TestNewRequestTransitionCommand_UnknownRole(t *testing.T) {
	_, err := commands.NewRequestTransitionCommand(
		kernel.NewUUID(), kernel.NewUUID(), order.Confirm, "manager", "", "")
	require.Error(t, err)
}

func TestRequestTransitionCommand_ValidateUnconstructed(t *testing.T) {
	var cmd commands.RequestTransitionCommand
	require.ErrorIs(t, cmd.Validate(), commands.ErrRequestTransitionCommandIsNotConstructed)
}
