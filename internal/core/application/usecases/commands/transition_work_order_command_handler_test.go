package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"repairshop/internal/core/application/usecases/commands"
	"repairshop/internal/core/domain/model/kernel"
	"repairshop/internal/core/domain/model/user"
	"repairshop/internal/core/domain/model/workorder"
	"repairshop/internal/core/ports"
	"repairshop/internal/pkg/errs"
	"repairshop/internal/pkg/tenantctx"
)

type MockTransitionWorkOrderRepository struct{ mock.Mock }

func (m *MockTransitionWorkOrderRepository) Add(ctx context.Context, o *workorder.WorkOrder) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockTransitionWorkOrderRepository) Get(ctx context.Context, id kernel.UUID) (*workorder.WorkOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workorder.WorkOrder), args.Error(1)
}

func (m *MockTransitionWorkOrderRepository) UpdateStatus(
	ctx context.Context,
	o *workorder.WorkOrder,
	expectedStatus workorder.Status,
) error {
	args := m.Called(ctx, o, expectedStatus)
	return args.Error(0)
}

type MockTransitionHistoryRepository struct{ mock.Mock }

func (m *MockTransitionHistoryRepository) Add(ctx context.Context, r *workorder.HistoryRecord) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockTransitionHistoryRepository) GetByWorkOrderID(
	ctx context.Context,
	workOrderID kernel.UUID,
) ([]*workorder.HistoryRecord, error) {
	args := m.Called(ctx, workOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*workorder.HistoryRecord), args.Error(1)
}

type MockTransitionUserRepository struct{ mock.Mock }

func (m *MockTransitionUserRepository) Get(ctx context.Context, id kernel.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

type MockTransitionUoW struct{ mock.Mock }

func (m *MockTransitionUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTransitionUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTransitionUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTransitionUoW) WorkOrderRepository() ports.WorkOrderRepository {
	args := m.Called()
	return args.Get(0).(ports.WorkOrderRepository)
}

func (m *MockTransitionUoW) WorkOrderHistoryRepository() ports.WorkOrderHistoryRepository {
	args := m.Called()
	return args.Get(0).(ports.WorkOrderHistoryRepository)
}

func (m *MockTransitionUoW) UserRepository() ports.UserRepository {
	args := m.Called()
	return args.Get(0).(ports.UserRepository)
}

type MockTransitionUoWFactory struct{ mock.Mock }

func (m *MockTransitionUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

func newTransitionTestScope() tenantctx.Scope {
	return tenantctx.Scope{
		TenantID: kernel.NewUUID(),
		UserID:   kernel.NewUUID(),
	}
}

func newTransitionTestActor(t *testing.T, scope tenantctx.Scope) *user.User {
	t.Helper()
	actor, err := user.RestoreUser(scope.UserID, scope.TenantID, "Ada Reyes", "ada@shop.test")
	require.NoError(t, err)
	return actor
}

func newTransitionTestWorkOrder(t *testing.T, tenantID kernel.UUID, status workorder.Status) *workorder.WorkOrder {
	t.Helper()
	now := time.Now().UTC()
	order, err := workorder.RestoreWorkOrder(
		kernel.NewUUID(), tenantID, kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		status, "intermittent shutdowns", "", false, nil, nil, now, now,
	)
	require.NoError(t, err)
	return order
}

func TestTransitionWorkOrderCommandHandler_Handle_Success(t *testing.T) {
	scope := newTransitionTestScope()
	ctx := tenantctx.WithScope(t.Context(), scope)
	actor := newTransitionTestActor(t, scope)
	order := newTransitionTestWorkOrder(t, scope.TenantID, workorder.StatusReceived)

	cmd, err := commands.NewTransitionWorkOrderCommand(
		order.ID(), workorder.StatusUnderAnalysis, "bench test started",
	)
	require.NoError(t, err)

	workOrderRepo := new(MockTransitionWorkOrderRepository)
	historyRepo := new(MockTransitionHistoryRepository)
	userRepo := new(MockTransitionUserRepository)
	uow := new(MockTransitionUoW)

	var addedRecord *workorder.HistoryRecord

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("UserRepository").Return(userRepo).Once(),
		userRepo.On("Get", ctx, scope.UserID).Return(actor, nil).Once(),
		uow.On("WorkOrderRepository").Return(workOrderRepo).Once(),
		workOrderRepo.On("Get", ctx, order.ID()).Return(order, nil).Once(),
		workOrderRepo.On("UpdateStatus", ctx, order, workorder.StatusReceived).Return(nil).Once(),
		uow.On("WorkOrderHistoryRepository").Return(historyRepo).Once(),
		historyRepo.On("Add", ctx, mock.AnythingOfType("*workorder.HistoryRecord")).
			Run(func(args mock.Arguments) {
				addedRecord = args.Get(1).(*workorder.HistoryRecord)
			}).
			Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockTransitionUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewTransitionWorkOrderCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	workOrderRepo.AssertExpectations(t)
	historyRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)

	require.Equal(t, workorder.StatusUnderAnalysis, order.Status())

	require.NotNil(t, addedRecord)
	require.NotNil(t, addedRecord.StatusBefore())
	require.Equal(t, workorder.StatusReceived, *addedRecord.StatusBefore())
	require.Equal(t, workorder.StatusUnderAnalysis, addedRecord.StatusAfter())
	require.Equal(t, "bench test started", addedRecord.Observation())
	require.Equal(t, scope.UserID, addedRecord.ActorID())
}

func TestTransitionWorkOrderCommandHandler_Handle_InvalidTransition(t *testing.T) {
	scope := newTransitionTestScope()
	ctx := tenantctx.WithScope(t.Context(), scope)
	actor := newTransitionTestActor(t, scope)
	order := newTransitionTestWorkOrder(t, scope.TenantID, workorder.StatusReceived)

	cmd, err := commands.NewTransitionWorkOrderCommand(order.ID(), workorder.StatusReady, "")
	require.NoError(t, err)

	workOrderRepo := new(MockTransitionWorkOrderRepository)
	userRepo := new(MockTransitionUserRepository)
	uow := new(MockTransitionUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("UserRepository").Return(userRepo).Once(),
		userRepo.On("Get", ctx, scope.UserID).Return(actor, nil).Once(),
		uow.On("WorkOrderRepository").Return(workOrderRepo).Once(),
		workOrderRepo.On("Get", ctx, order.ID()).Return(order, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockTransitionUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewTransitionWorkOrderCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	var invalidTransition *workorder.InvalidTransitionError
	require.ErrorAs(t, err, &invalidTransition)
	require.Equal(t, workorder.StatusReceived, invalidTransition.From)
	require.Equal(t, workorder.StatusReady, invalidTransition.To)

	// Rejected transitions leave the aggregate and the audit trail untouched.
	require.Equal(t, workorder.StatusReceived, order.Status())
	workOrderRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestTransitionWorkOrderCommandHandler_Handle_WorkOrderNotFound(t *testing.T) {
	scope := newTransitionTestScope()
	ctx := tenantctx.WithScope(t.Context(), scope)
	actor := newTransitionTestActor(t, scope)
	workOrderID := kernel.NewUUID()

	cmd, err := commands.NewTransitionWorkOrderCommand(workOrderID, workorder.StatusCancelled, "")
	require.NoError(t, err)

	workOrderRepo := new(MockTransitionWorkOrderRepository)
	userRepo := new(MockTransitionUserRepository)
	uow := new(MockTransitionUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("UserRepository").Return(userRepo).Once(),
		userRepo.On("Get", ctx, scope.UserID).Return(actor, nil).Once(),
		uow.On("WorkOrderRepository").Return(workOrderRepo).Once(),
		workOrderRepo.On("Get", ctx, workOrderID).
			Return(nil, errs.NewObjectNotFoundError("workOrder", workOrderID.String())).
			Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockTransitionUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewTransitionWorkOrderCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestTransitionWorkOrderCommandHandler_Handle_NoTenantScope(t *testing.T) {
	ctx := t.Context() // no scope bound

	cmd, err := commands.NewTransitionWorkOrderCommand(kernel.NewUUID(), workorder.StatusCancelled, "")
	require.NoError(t, err)

	factory := new(MockTransitionUoWFactory)
	handler := commands.NewTransitionWorkOrderCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrTenantScopeRequired)
	factory.AssertNotCalled(t, "Create")
}

func TestTransitionWorkOrderCommandHandler_Handle_RetriesOnceOnConflict(t *testing.T) {
	scope := newTransitionTestScope()
	ctx := tenantctx.WithScope(t.Context(), scope)
	actor := newTransitionTestActor(t, scope)

	// First read sees Received; the write loses the race. The re-read sees
	// UnderAnalysis, from which the requested transition is still valid.
	firstRead := newTransitionTestWorkOrder(t, scope.TenantID, workorder.StatusReceived)
	secondRead, err := workorder.RestoreWorkOrder(
		firstRead.ID(), scope.TenantID, firstRead.ClientID(), firstRead.EquipmentID(),
		firstRead.TechnicianID(), workorder.StatusUnderAnalysis,
		firstRead.DefectReport(), "", false, nil, nil, firstRead.CreatedAt(), firstRead.CreatedAt(),
	)
	require.NoError(t, err)

	cmd, err := commands.NewTransitionWorkOrderCommand(firstRead.ID(), workorder.StatusCancelled, "client gave up")
	require.NoError(t, err)

	workOrderRepo1 := new(MockTransitionWorkOrderRepository)
	userRepo1 := new(MockTransitionUserRepository)
	uow1 := new(MockTransitionUoW)

	mock.InOrder(
		uow1.On("Begin", ctx).Return(nil).Once(),
		uow1.On("UserRepository").Return(userRepo1).Once(),
		userRepo1.On("Get", ctx, scope.UserID).Return(actor, nil).Once(),
		uow1.On("WorkOrderRepository").Return(workOrderRepo1).Once(),
		workOrderRepo1.On("Get", ctx, firstRead.ID()).Return(firstRead, nil).Once(),
		workOrderRepo1.On("UpdateStatus", ctx, firstRead, workorder.StatusReceived).
			Return(errs.NewConcurrentModificationError("workOrder", firstRead.ID().String())).
			Once(),
		uow1.On("Rollback", ctx).Return(nil).Once(),
	)

	workOrderRepo2 := new(MockTransitionWorkOrderRepository)
	historyRepo2 := new(MockTransitionHistoryRepository)
	userRepo2 := new(MockTransitionUserRepository)
	uow2 := new(MockTransitionUoW)

	mock.InOrder(
		uow2.On("Begin", ctx).Return(nil).Once(),
		uow2.On("UserRepository").Return(userRepo2).Once(),
		userRepo2.On("Get", ctx, scope.UserID).Return(actor, nil).Once(),
		uow2.On("WorkOrderRepository").Return(workOrderRepo2).Once(),
		workOrderRepo2.On("Get", ctx, firstRead.ID()).Return(secondRead, nil).Once(),
		workOrderRepo2.On("UpdateStatus", ctx, secondRead, workorder.StatusUnderAnalysis).Return(nil).Once(),
		uow2.On("WorkOrderHistoryRepository").Return(historyRepo2).Once(),
		historyRepo2.On("Add", ctx, mock.AnythingOfType("*workorder.HistoryRecord")).Return(nil).Once(),
		uow2.On("Commit", ctx).Return(nil).Once(),
		uow2.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockTransitionUoWFactory)
	factory.On("Create").Return(uow1).Once()
	factory.On("Create").Return(uow2).Once()

	handler := commands.NewTransitionWorkOrderCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	require.Equal(t, workorder.StatusCancelled, secondRead.Status())
	factory.AssertExpectations(t)
	uow1.AssertExpectations(t)
	uow2.AssertExpectations(t)
}

func TestTransitionWorkOrderCommandHandler_Handle_RetryExhausted(t *testing.T) {
	scope := newTransitionTestScope()
	ctx := tenantctx.WithScope(t.Context(), scope)
	actor := newTransitionTestActor(t, scope)

	cmd, err := commands.NewTransitionWorkOrderCommand(kernel.NewUUID(), workorder.StatusCancelled, "")
	require.NoError(t, err)

	conflict := errs.NewConcurrentModificationError("workOrder", cmd.WorkOrderID().String())

	newConflictingUoW := func() *MockTransitionUoW {
		order := newTransitionTestWorkOrder(t, scope.TenantID, workorder.StatusReceived)
		workOrderRepo := new(MockTransitionWorkOrderRepository)
		userRepo := new(MockTransitionUserRepository)
		uow := new(MockTransitionUoW)
		mock.InOrder(
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.On("UserRepository").Return(userRepo).Once(),
			userRepo.On("Get", ctx, scope.UserID).Return(actor, nil).Once(),
			uow.On("WorkOrderRepository").Return(workOrderRepo).Once(),
			workOrderRepo.On("Get", ctx, cmd.WorkOrderID()).Return(order, nil).Once(),
			workOrderRepo.On("UpdateStatus", ctx, order, workorder.StatusReceived).Return(conflict).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)
		return uow
	}

	uow1 := newConflictingUoW()
	uow2 := newConflictingUoW()

	factory := new(MockTransitionUoWFactory)
	factory.On("Create").Return(uow1).Once()
	factory.On("Create").Return(uow2).Once()

	handler := commands.NewTransitionWorkOrderCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrConcurrentModification)
	factory.AssertExpectations(t)
	uow1.AssertExpectations(t)
	uow2.AssertExpectations(t)
}
