// Package engine implements the heliograph instruction processor: it
// decodes instruction payloads and applies them to the accounts of an
// invocation, enforcing the authority chain on every mutation.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/heliolabs/heliograph/internal/did"
	"github.com/heliolabs/heliograph/internal/instruction"
	"github.com/heliolabs/heliograph/internal/ledger"
	"github.com/heliolabs/heliograph/internal/observability"
	"github.com/heliolabs/heliograph/pkg/errors"
)

// Engine is the state-transition processor. It is stateless between
// invocations; all persistent state lives in ledger accounts.
type Engine struct {
	resolver did.Resolver
	metrics  *observability.Metrics
	log      *slog.Logger
}

// New creates an engine backed by the given identity resolver. Metrics
// may be nil.
func New(resolver did.Resolver, metrics *observability.Metrics, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{resolver: resolver, metrics: metrics, log: log}
}

// Process implements ledger.Processor.
func (e *Engine) Process(ctx context.Context, inv *ledger.Invocation) error {
	in, err := instruction.Decode(inv.Data)
	if err != nil {
		if e.metrics != nil {
			e.metrics.InstructionTotal.WithLabelValues("unknown", "error").Inc()
		}
		return err
	}

	start := time.Now()
	err = e.dispatch(inv, in)

	status := "ok"
	if err != nil {
		status = "error"
	}
	name := in.Kind().String()
	if e.metrics != nil {
		e.metrics.InstructionTotal.WithLabelValues(name, status).Inc()
		e.metrics.InstructionDuration.WithLabelValues(name, status).Observe(time.Since(start).Seconds())
	}
	e.log.DebugContext(ctx, "instruction processed",
		"instruction", name,
		"status", status,
	)
	return err
}

func (e *Engine) dispatch(inv *ledger.Invocation, in instruction.Instruction) error {
	switch in := in.(type) {
	case instruction.InitializeChannel:
		return e.initializeChannel(inv, in)
	case instruction.InitializeDirectChannel:
		return e.initializeDirectChannel(inv, in)
	case instruction.Post:
		return e.post(inv, in)
	case instruction.AddToChannel:
		return e.addToChannel(inv, in)
	case instruction.AddUserKey:
		return e.addUserKey(inv, in)
	case instruction.RemoveUserKey:
		return e.removeUserKey(inv, in)
	case instruction.CreateProfile:
		return e.createProfile(inv, in)
	case instruction.UpdateProfile:
		return e.updateProfile(inv, in)
	case instruction.CreateNotifications:
		return e.createNotifications(inv, in)
	case instruction.AddNotification:
		return e.addNotification(inv, in)
	default:
		return errors.ErrInvalidInstructionData
	}
}
