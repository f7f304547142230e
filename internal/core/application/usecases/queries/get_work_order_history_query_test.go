package queries_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repairshop/internal/core/application/usecases/queries"
	"repairshop/internal/core/domain/model/kernel"
)

func TestNewGetWorkOrderHistoryQuery_Success(t *testing.T) {
	workOrderID := kernel.NewUUID()

	query, err := queries.NewGetWorkOrderHistoryQuery(workOrderID)

	require.NoError(t, err)
	require.NoError(t, query.Validate())
	assert.Equal(t, workOrderID, query.WorkOrderID())
}

func TestNewGetWorkOrderHistoryQuery_InvalidID(t *testing.T) {
	var empty kernel.UUID

	_, err := queries.NewGetWorkOrderHistoryQuery(empty)

	require.Error(t, err)
}

func TestGetWorkOrderHistoryQuery_Validate_NotConstructed(t *testing.T) {
	var query queries.GetWorkOrderHistoryQuery

	err := query.Validate()

	require.Error(t, err)
	require.ErrorIs(t, err, queries.ErrGetWorkOrderHistoryQueryIsNotConstructed)
}
