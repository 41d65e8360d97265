package rpc

import (
	"errors"
	"fmt"
)

// Procedure names a remote procedure.
type Procedure string

// Procedures exposed by the backend.
const (
	ProcLogin    Procedure = "login"
	ProcValidate Procedure = "validate"
	ProcRegister Procedure = "register"
	ProcMyShift  Procedure = "myShift"
)

var (
	// ErrUnknownProcedure is returned for names outside the procedure set.
	ErrUnknownProcedure = errors.New("unknown procedure")

	// ErrArity is returned when a call carries the wrong arguments.
	ErrArity = errors.New("invalid arguments")
)

var arity = map[Procedure]int{
	ProcLogin:    2,
	ProcValidate: 1,
	ProcRegister: 3,
	ProcMyShift:  1,
}

// ParseProcedure validates a procedure name.
func ParseProcedure(name string) (Procedure, error) {
	p := Procedure(name)
	if _, ok := arity[p]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownProcedure, name)
	}
	return p, nil
}

// Arity returns the number of positional arguments p takes.
func (p Procedure) Arity() int {
	return arity[p]
}

func (p Procedure) String() string {
	return string(p)
}
