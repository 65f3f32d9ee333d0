package queries_test

import (
	"testing"

	"warehouse/internal/core/application/usecases/queries"
	"warehouse/internal/core/domain/model/order"
	"warehouse/internal/core/domain/model/task"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStateMachineQueryHandler_Handle(t *testing.T) {
	ctx := t.Context()
	handler := queries.NewGetStateMachineQueryHandler(task.NewPermissions())

	resp, err := handler.Handle(ctx, queries.NewGetStateMachineQuery())
	require.NoError(t, err)

	assert.Equal(t, order.AllStates(), resp.States)
	assert.Equal(t, order.Pending, resp.Initial)
	assert.ElementsMatch(t, []order.State{order.Cancelled, order.Returned}, resp.Terminal)

	require.Len(t, resp.Transitions, len(order.Edges()))
	for _, transition := range resp.Transitions {
		edge, ok := order.Lookup(transition.Name)
		require.True(t, ok, "transition %s must be declared", transition.Name)
		assert.Equal(t, edge.From, transition.From)
		assert.Equal(t, edge.To, transition.To)
		require.Len(t, transition.Roles, 1, "transition %s", transition.Name)
	}
}

func TestGetStateMachineQueryHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	handler := queries.NewGetStateMachineQueryHandler(task.NewPermissions())

	var query queries.GetStateMachineQuery // not constructed properly
	_, err := handler.Handle(ctx, query)

	require.ErrorIs(t, err, queries.ErrGetStateMachineQueryIsNotConstructed)
}
