package testutil

import (
	"context"
	"sync"

	"github.com/thruflo/rota/internal/page"
	"github.com/thruflo/rota/internal/rpc"
)

// FakeCall is one call recorded by FakeBackend.
type FakeCall struct {
	Procedure rpc.Procedure
	Args      []string
}

// FakeBackend is an rpc.Backend whose results are scripted per procedure.
// A procedure without a scripted func returns its zero result (ok=false).
type FakeBackend struct {
	LoginFunc    func(ctx context.Context, username, password string) (rpc.LoginResult, error)
	ValidateFunc func(ctx context.Context, token string) (rpc.ValidateResult, error)
	RegisterFunc func(ctx context.Context, username, password, displayName string) (rpc.RegisterResult, error)
	MyShiftFunc  func(ctx context.Context, token string) (rpc.ShiftResult, error)

	mu    sync.Mutex
	calls []FakeCall
}

func (f *FakeBackend) record(proc rpc.Procedure, args ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, FakeCall{Procedure: proc, Args: args})
}

func (f *FakeBackend) Login(ctx context.Context, username, password string) (rpc.LoginResult, error) {
	f.record(rpc.ProcLogin, username, password)
	if f.LoginFunc == nil {
		return rpc.LoginResult{}, nil
	}
	return f.LoginFunc(ctx, username, password)
}

func (f *FakeBackend) Validate(ctx context.Context, token string) (rpc.ValidateResult, error) {
	f.record(rpc.ProcValidate, token)
	if f.ValidateFunc == nil {
		return rpc.ValidateResult{}, nil
	}
	return f.ValidateFunc(ctx, token)
}

func (f *FakeBackend) Register(ctx context.Context, username, password, displayName string) (rpc.RegisterResult, error) {
	f.record(rpc.ProcRegister, username, password, displayName)
	if f.RegisterFunc == nil {
		return rpc.RegisterResult{}, nil
	}
	return f.RegisterFunc(ctx, username, password, displayName)
}

func (f *FakeBackend) MyShift(ctx context.Context, token string) (rpc.ShiftResult, error) {
	f.record(rpc.ProcMyShift, token)
	if f.MyShiftFunc == nil {
		return rpc.ShiftResult{}, nil
	}
	return f.MyShiftFunc(ctx, token)
}

// Calls returns a copy of every call made so far.
func (f *FakeBackend) Calls() []FakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]FakeCall, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallCount returns how many times proc was called.
func (f *FakeBackend) CallCount(proc rpc.Procedure) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Procedure == proc {
			n++
		}
	}
	return n
}

var _ rpc.Backend = (*FakeBackend)(nil)

// RecordingNavigator records navigations. When Err is set, Navigate fails
// with it and records nothing.
type RecordingNavigator struct {
	Err error

	mu     sync.Mutex
	visits []page.ID
}

func (n *RecordingNavigator) Navigate(id page.ID) error {
	if n.Err != nil {
		return n.Err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.visits = append(n.visits, id)
	return nil
}

// Visits returns the pages navigated to, in order.
func (n *RecordingNavigator) Visits() []page.ID {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]page.ID, len(n.visits))
	copy(out, n.visits)
	return out
}
