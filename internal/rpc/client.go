package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/thruflo/rota/internal/logging"
)

// roundTripper sends one call and waits for its reply.
type roundTripper interface {
	roundTrip(ctx context.Context, call Call) (Reply, error)
}

// procedures implements Backend on top of a roundTripper.
type procedures struct {
	rt     roundTripper
	logger *logging.Logger
}

func (p procedures) Login(ctx context.Context, username, password string) (LoginResult, error) {
	return invoke[LoginResult](ctx, p, ProcLogin, username, password)
}

func (p procedures) Validate(ctx context.Context, token string) (ValidateResult, error) {
	return invoke[ValidateResult](ctx, p, ProcValidate, token)
}

func (p procedures) Register(ctx context.Context, username, password, displayName string) (RegisterResult, error) {
	return invoke[RegisterResult](ctx, p, ProcRegister, username, password, displayName)
}

func (p procedures) MyShift(ctx context.Context, token string) (ShiftResult, error) {
	return invoke[ShiftResult](ctx, p, ProcMyShift, token)
}

// invoke performs a call and decodes its result into T. A result that does
// not have T's shape decodes as the zero T, so a malformed reply reads as
// ok=false rather than as a guessed success.
func invoke[T any](ctx context.Context, p procedures, proc Procedure, args ...any) (T, error) {
	var zero T

	call, err := NewCall(proc, args...)
	if err != nil {
		return zero, err
	}

	reply, err := p.rt.roundTrip(ctx, call)
	if err != nil {
		return zero, err
	}
	if reply.ID != "" && reply.ID != call.ID {
		return zero, fmt.Errorf("reply id %q does not match call id %q", reply.ID, call.ID)
	}
	if reply.Error != "" {
		return zero, &RemoteError{Procedure: proc, Message: reply.Error}
	}
	if len(reply.Result) == 0 {
		return zero, nil
	}

	var out T
	if err := json.Unmarshal(reply.Result, &out); err != nil {
		p.logger.Warn("malformed rpc result", "fn", proc, "id", call.ID, "error", err)
		return zero, nil
	}
	return out, nil
}

var _ Backend = procedures{}
