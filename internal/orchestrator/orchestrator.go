// Package orchestrator drives the reconciliation engine from external
// sources and publishes its events to a sink.
//
// One pass follows the fixed contract: drain the obligation source fully,
// drain the status-message source fully, run exactly one engine cycle,
// publish every outbox event to the sink, clear the outbox. Run executes
// passes on a poll interval until the context is cancelled.
package orchestrator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/settlerec/settlerec/internal/domain"
	"github.com/settlerec/settlerec/internal/engine"
)

// ObligationSource produces newly created obligations.
// Implemented by feed.BankSource.
type ObligationSource interface {
	Drain() ([]domain.NewObligation, error)
}

// StatusSource produces newly arrived status messages.
// Implemented by feed.MarketSource.
type StatusSource interface {
	Drain() ([]domain.StatusMessage, error)
}

// EventSink consumes the domain events of one cycle.
// Implemented by feed.StatusSink.
type EventSink interface {
	Publish([]domain.Event) error
}

// PassStats summarizes one orchestration pass.
type PassStats struct {
	Obligations int
	Messages    int
	Events      int
}

// Orchestrator owns one engine instance and its boundary collaborators.
type Orchestrator struct {
	eng    *engine.Engine
	bank   ObligationSource
	market StatusSource
	sink   EventSink
	log    *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the orchestrator's logger.
func WithLogger(log *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.log = log
	}
}

// New wires an orchestrator around an engine and its collaborators.
func New(eng *engine.Engine, bank ObligationSource, market StatusSource, sink EventSink, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		eng:    eng,
		bank:   bank,
		market: market,
		sink:   sink,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Engine exposes the underlying engine for read-only inspection.
func (o *Orchestrator) Engine() *engine.Engine {
	return o.eng
}

// RunOnce executes one orchestration pass.
func (o *Orchestrator) RunOnce() (PassStats, error) {
	var stats PassStats

	obligations, err := o.bank.Drain()
	if err != nil {
		return stats, fmt.Errorf("drain obligation source: %w", err)
	}
	for _, ob := range obligations {
		o.eng.CreateObligation(ob)
	}
	stats.Obligations = len(obligations)

	messages, err := o.market.Drain()
	if err != nil {
		return stats, fmt.Errorf("drain status source: %w", err)
	}
	for _, m := range messages {
		o.eng.IngestStatus(m)
	}
	stats.Messages = len(messages)

	o.eng.RunCycle()

	events := o.eng.Outbox()
	if err := o.sink.Publish(events); err != nil {
		return stats, fmt.Errorf("publish events: %w", err)
	}
	o.eng.ClearOutbox()
	stats.Events = len(events)

	if stats.Obligations > 0 || stats.Messages > 0 || stats.Events > 0 {
		o.log.Info("pass complete",
			"obligations", stats.Obligations,
			"messages", stats.Messages,
			"events", stats.Events,
		)
	}
	return stats, nil
}

// Run executes passes on the given interval until ctx is cancelled.
// Pass errors are logged and the loop continues; a broken drain on one
// poll must not take the process down.
func (o *Orchestrator) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	o.log.Info("orchestrator starting", "interval", interval.String())
	for {
		select {
		case <-ctx.Done():
			o.log.Info("orchestrator stopping: context cancelled")
			return ctx.Err()
		case <-ticker.C:
			if _, err := o.RunOnce(); err != nil {
				o.log.Error("pass failed", "error", err)
			}
		}
	}
}
