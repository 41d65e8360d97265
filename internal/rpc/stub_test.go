package rpc

import (
	"context"
	"sync"
)

// stubBackend answers every procedure from fixed fields and records calls.
type stubBackend struct {
	mu    sync.Mutex
	calls []string

	login    LoginResult
	validate ValidateResult
	register RegisterResult
	shift    ShiftResult
	err      error
}

func (s *stubBackend) record(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, name)
}

func (s *stubBackend) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *stubBackend) Login(_ context.Context, username, password string) (LoginResult, error) {
	s.record("login:" + username + ":" + password)
	return s.login, s.err
}

func (s *stubBackend) Validate(_ context.Context, token string) (ValidateResult, error) {
	s.record("validate:" + token)
	return s.validate, s.err
}

func (s *stubBackend) Register(_ context.Context, username, password, displayName string) (RegisterResult, error) {
	s.record("register:" + username + ":" + password + ":" + displayName)
	return s.register, s.err
}

func (s *stubBackend) MyShift(_ context.Context, token string) (ShiftResult, error) {
	s.record("myShift:" + token)
	return s.shift, s.err
}
