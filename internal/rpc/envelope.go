package rpc

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Call is one remote invocation on the wire.
type Call struct {
	ID        string            `json:"id"`
	Procedure Procedure         `json:"fn"`
	Args      []json.RawMessage `json:"args"`
}

// Reply answers a Call. Exactly one of Result and Error is set.
type Reply struct {
	ID     string          `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// NewCall builds a Call with a fresh ID and JSON-encoded arguments.
func NewCall(p Procedure, args ...any) (Call, error) {
	call := Call{
		ID:        uuid.NewString(),
		Procedure: p,
		Args:      make([]json.RawMessage, 0, len(args)),
	}
	for i, arg := range args {
		data, err := json.Marshal(arg)
		if err != nil {
			return Call{}, fmt.Errorf("failed to encode argument %d of %s: %w", i, p, err)
		}
		call.Args = append(call.Args, data)
	}
	return call, nil
}

// StringArgs decodes the call's arguments as strings, checking the count
// against the procedure's arity.
func (c Call) StringArgs() ([]string, error) {
	want := c.Procedure.Arity()
	if len(c.Args) != want {
		return nil, fmt.Errorf("%w: %s expects %d arguments, got %d", ErrArity, c.Procedure, want, len(c.Args))
	}
	out := make([]string, len(c.Args))
	for i, raw := range c.Args {
		if err := json.Unmarshal(raw, &out[i]); err != nil {
			return nil, fmt.Errorf("%w: argument %d of %s must be a string", ErrArity, i, c.Procedure)
		}
	}
	return out, nil
}

func successReply(id string, result any) Reply {
	data, err := json.Marshal(result)
	if err != nil {
		return errorReply(id, fmt.Errorf("failed to encode result: %w", err))
	}
	return Reply{ID: id, Result: data}
}

func errorReply(id string, err error) Reply {
	return Reply{ID: id, Error: err.Error()}
}
