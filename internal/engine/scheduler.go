// Package engine provides the simulation scheduler: the tick driver that
// partitions the population, runs decisions, applies their effects, evolves
// relationships, and independently schedules player contact.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hardknock/syndicate/internal/agents"
	"github.com/hardknock/syndicate/internal/config"
	"github.com/hardknock/syndicate/internal/decision"
	"github.com/hardknock/syndicate/internal/economy"
	"github.com/hardknock/syndicate/internal/rnd"
)

// Event is a notable occurrence in the simulation.
type Event struct {
	Tick        uint64    `json:"tick"`
	Time        time.Time `json:"time"`
	Description string    `json:"description"`
	Category    string    `json:"category"` // "economy", "crime", "social", "betrayal", "contact"
}

// Decider picks one agent's next action from a world snapshot.
// *decision.Engine is the production implementation.
type Decider interface {
	DecideAction(a *agents.Agent, ws decision.WorldState) decision.Action
}

// MessageSink is the message-generation collaborator invoked when an agent
// contacts the player. The scheduler does not format the resulting message.
type MessageSink interface {
	GenerateOffer(a *agents.Agent) error
}

// Observer receives the non-fatal faults the scheduler contains: a single
// agent's failure never aborts a tick, and persistence failures never stop
// the simulation.
type Observer interface {
	AgentError(id uuid.UUID, err error)
	PersistenceError(err error)
}

// SlogObserver is the default Observer; it logs and moves on.
type SlogObserver struct{}

func (SlogObserver) AgentError(id uuid.UUID, err error) {
	slog.Error("agent processing failed", "agent", id, "error", err)
}

func (SlogObserver) PersistenceError(err error) {
	slog.Error("persistence failed", "error", err)
}

// Scheduler drives the simulation. All mutation of the registry and ledger
// happens inside Tick, on one logical thread; external callers submit
// mutations through Do.
type Scheduler struct {
	reg    *agents.Registry
	dec    Decider
	ledger *economy.Ledger
	sink   MessageSink
	obs    Observer
	rng    rnd.Source
	cfg    *config.Tuning

	tick        uint64
	nextContact time.Time

	mu    sync.Mutex
	queue []func(*agents.Registry)

	events []Event
}

// NewScheduler wires a scheduler. A nil observer defaults to SlogObserver.
func NewScheduler(reg *agents.Registry, dec Decider, ledger *economy.Ledger,
	sink MessageSink, obs Observer, rng rnd.Source, cfg *config.Tuning) *Scheduler {
	if obs == nil {
		obs = SlogObserver{}
	}
	return &Scheduler{
		reg:    reg,
		dec:    dec,
		ledger: ledger,
		sink:   sink,
		obs:    obs,
		rng:    rng,
		cfg:    cfg,
	}
}

// Do queues a registry mutation to run at the start of the next tick. This is
// the single-writer entry point for player-facing code.
func (s *Scheduler) Do(cmd func(*agents.Registry)) {
	s.mu.Lock()
	s.queue = append(s.queue, cmd)
	s.mu.Unlock()
}

// Run drives Tick from a real clock until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Scheduler.TickPeriod())
	defer ticker.Stop()

	slog.Info("scheduler started", "period", s.cfg.Scheduler.TickPeriod(), "agents", s.reg.Count())
	for {
		select {
		case <-ctx.Done():
			slog.Info("scheduler stopped", "tick", s.tick)
			return
		case now := <-ticker.C:
			s.Tick(now)
		}
	}
}

// Tick runs one scheduling pass. Only the partition matching the tick
// counter modulo 3 is processed, so every agent is revisited within 3 ticks
// at roughly a third of the population per tick.
func (s *Scheduler) Tick(now time.Time) {
	partition := s.tick % 3
	s.tick++

	s.drainCommands()

	ws := decision.WorldState{Agents: s.reg.All(), Market: s.ledger, Now: now}

	for i, a := range ws.Agents {
		if uint64(i)%3 != partition {
			continue
		}
		s.processAgent(a, ws, now)
	}

	if partition == 0 {
		s.evolveRelationships(now)
	}

	s.maybeContactPlayer(now)
	s.ledger.Decay(now)

	if err := s.reg.Save(); err != nil {
		s.obs.PersistenceError(err)
	}

	s.trimEvents()
}

// CurrentTick returns the number of completed ticks.
func (s *Scheduler) CurrentTick() uint64 { return s.tick }

func (s *Scheduler) drainCommands() {
	s.mu.Lock()
	cmds := s.queue
	s.queue = nil
	s.mu.Unlock()

	for _, cmd := range cmds {
		cmd(s.reg)
	}
}

// processAgent runs one agent's decision and effect. A panic here is
// contained and reported; the rest of the tick proceeds.
func (s *Scheduler) processAgent(a *agents.Agent, ws decision.WorldState, now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			s.obs.AgentError(a.ID, fmt.Errorf("agent processing: %v", r))
		}
	}()

	if now.Before(a.CooldownUntil) {
		return
	}

	action := s.dec.DecideAction(a, ws)
	s.apply(a, action, now)
	s.reg.SetCooldown(a.ID, now, now.Add(s.cooldownFor(action.Kind)))
}

// cooldownFor maps an action type to its re-fire delay.
func (s *Scheduler) cooldownFor(kind decision.ActionKind) time.Duration {
	sc := s.cfg.Scheduler
	seconds := sc.WaitCooldownSeconds
	switch kind {
	case decision.ActionBuyGoods, decision.ActionSellGoods:
		seconds = sc.TradeCooldownSeconds
	case decision.ActionCommitCrime:
		seconds = sc.CrimeCooldownSeconds
	case decision.ActionBuyProperty:
		seconds = sc.PropertyCooldownSeconds
	case decision.ActionCollectIncome:
		seconds = sc.IncomeCooldownSeconds
	case decision.ActionContactPlayer:
		seconds = sc.ContactCooldownSeconds
	case decision.ActionFormAlliance:
		seconds = sc.AllianceCooldownSeconds
	}
	return time.Duration(seconds) * time.Second
}

// EmitEvent appends to the recent-events ring.
func (s *Scheduler) EmitEvent(e Event) {
	s.events = append(s.events, e)
}

// Events returns the recent-events ring.
func (s *Scheduler) Events() []Event { return s.events }

func (s *Scheduler) trimEvents() {
	if limit := s.cfg.Scheduler.EventCap; limit > 0 && len(s.events) > limit {
		s.events = s.events[len(s.events)-limit:]
	}
}
