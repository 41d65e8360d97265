package rpc

import "context"

// LoginResult is the outcome of a login attempt. Token is set only when OK.
type LoginResult struct {
	OK      bool   `json:"ok"`
	Token   string `json:"token,omitempty"`
	Message string `json:"message,omitempty"`
}

// ValidateResult reports whether a session token is still valid.
type ValidateResult struct {
	OK bool `json:"ok"`
}

// RegisterResult is the outcome of an account registration.
type RegisterResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

// Shift is a single work shift.
type Shift struct {
	Group string `json:"group" yaml:"group"`
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

// ShiftResult carries the signed-in user's shift. OK is false when the
// token is not valid; Shift is nil when no shift is assigned.
type ShiftResult struct {
	OK      bool   `json:"ok"`
	Shift   *Shift `json:"shift,omitempty"`
	Message string `json:"message,omitempty"`
}

// Backend is the set of remote procedures. A non-nil error means the call
// itself failed; rejections are reported through the result's OK field.
type Backend interface {
	Login(ctx context.Context, username, password string) (LoginResult, error)
	Validate(ctx context.Context, token string) (ValidateResult, error)
	Register(ctx context.Context, username, password, displayName string) (RegisterResult, error)
	MyShift(ctx context.Context, token string) (ShiftResult, error)
}
