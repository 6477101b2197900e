package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bjulian5/promote/internal/model"
	"github.com/bjulian5/promote/internal/reconcile"
)

// MockRefSource is a testify mock of a RefSource
type MockRefSource struct {
	mock.Mock
}

func (m *MockRefSource) NewRefs(ctx context.Context, project string) (model.RefSet, error) {
	args := m.Called(ctx, project)
	return args.Get(0).(model.RefSet), args.Error(1)
}

// MockReconciler is a testify mock of a Reconciler
type MockReconciler struct {
	mock.Mock
}

func (m *MockReconciler) Reconcile(ctx context.Context, project string, refs model.RefSet) (*reconcile.Result, error) {
	args := m.Called(ctx, project, refs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reconcile.Result), args.Error(1)
}

// MockPresenter is a testify mock of a Presenter
type MockPresenter struct {
	mock.Mock
}

func (m *MockPresenter) Present(crs []model.ChangeRequest) error {
	return m.Called(crs).Error(0)
}

// MockGate is a testify mock of an ApprovalGate
type MockGate struct {
	mock.Mock
}

func (m *MockGate) Approve() (bool, error) {
	args := m.Called()
	return args.Bool(0), args.Error(1)
}

// MockTrigger is a testify mock of a deployment Trigger
type MockTrigger struct {
	mock.Mock
}

func (m *MockTrigger) DispatchWorkflow(ctx context.Context, project, workflow, ref string) (string, error) {
	args := m.Called(ctx, project, workflow, ref)
	return args.String(0), args.Error(1)
}
