package rpc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/thruflo/rota/internal/logging"
)

// HandlerFunc answers one call.
type HandlerFunc func(ctx context.Context, call Call) Reply

// Middleware wraps a HandlerFunc.
type Middleware func(next HandlerFunc) HandlerFunc

// Chain composes middlewares so the first one runs outermost.
func Chain(middlewares ...Middleware) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}

// Dispatcher routes decoded calls to a Backend.
type Dispatcher struct {
	backend Backend
	handler HandlerFunc
}

// NewDispatcher returns a Dispatcher serving backend behind middlewares.
func NewDispatcher(backend Backend, middlewares ...Middleware) (*Dispatcher, error) {
	if backend == nil {
		return nil, errors.New("backend is required")
	}
	d := &Dispatcher{backend: backend}
	d.handler = Chain(middlewares...)(d.invoke)
	return d, nil
}

// Dispatch answers call. It never returns a reply without exactly one of
// Result or Error set.
func (d *Dispatcher) Dispatch(ctx context.Context, call Call) Reply {
	return d.handler(ctx, call)
}

func (d *Dispatcher) invoke(ctx context.Context, call Call) Reply {
	if _, err := ParseProcedure(string(call.Procedure)); err != nil {
		return errorReply(call.ID, err)
	}
	args, err := call.StringArgs()
	if err != nil {
		return errorReply(call.ID, err)
	}

	var result any
	switch call.Procedure {
	case ProcLogin:
		result, err = d.backend.Login(ctx, args[0], args[1])
	case ProcValidate:
		result, err = d.backend.Validate(ctx, args[0])
	case ProcRegister:
		result, err = d.backend.Register(ctx, args[0], args[1], args[2])
	case ProcMyShift:
		result, err = d.backend.MyShift(ctx, args[0])
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownProcedure, call.Procedure)
	}
	if err != nil {
		return errorReply(call.ID, err)
	}
	return successReply(call.ID, result)
}

// RateLimit rejects calls above r per second with bursts of up to burst,
// using a single token bucket shared by every caller.
func RateLimit(r float64, burst int) Middleware {
	limiter := rate.NewLimiter(rate.Limit(r), burst)
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, call Call) Reply {
			if !limiter.Allow() {
				return Reply{ID: call.ID, Error: "rate limit exceeded"}
			}
			return next(ctx, call)
		}
	}
}

// Logging logs each call's procedure, duration and error. Arguments are
// never logged since they carry passwords and tokens.
func Logging(logger *logging.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, call Call) Reply {
			start := time.Now()
			reply := next(ctx, call)
			elapsed := time.Since(start)
			if reply.Error != "" {
				logger.Warn("rpc call failed", "fn", call.Procedure, "id", call.ID, "duration", elapsed, "error", reply.Error)
			} else {
				logger.Debug("rpc call", "fn", call.Procedure, "id", call.ID, "duration", elapsed)
			}
			return reply
		}
	}
}
