package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hardknock/syndicate/internal/agents"
	"github.com/hardknock/syndicate/internal/catalog"
	"github.com/hardknock/syndicate/internal/config"
	"github.com/hardknock/syndicate/internal/decision"
	"github.com/hardknock/syndicate/internal/economy"
	"github.com/hardknock/syndicate/internal/rnd"
)

// stubDecider records who was asked to decide and always answers WAIT.
// Setting panicOn makes it blow up for one agent.
type stubDecider struct {
	seen    map[uuid.UUID]int
	panicOn uuid.UUID
}

func newStubDecider() *stubDecider {
	return &stubDecider{seen: make(map[uuid.UUID]int)}
}

func (d *stubDecider) DecideAction(a *agents.Agent, ws decision.WorldState) decision.Action {
	if a.ID == d.panicOn {
		panic("decider exploded")
	}
	d.seen[a.ID]++
	return decision.Action{AgentID: a.ID, Kind: decision.ActionWait}
}

// recordingObserver captures contained faults.
type recordingObserver struct {
	agentErrs   map[uuid.UUID]error
	persistErrs []error
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{agentErrs: make(map[uuid.UUID]error)}
}

func (o *recordingObserver) AgentError(id uuid.UUID, err error) { o.agentErrs[id] = err }

func (o *recordingObserver) PersistenceError(err error) {
	o.persistErrs = append(o.persistErrs, err)
}

// seqSource replays a scripted roll sequence, then repeats the last value.
type seqSource struct {
	floats []float64
	pos    int
}

func (s *seqSource) Float64() float64 {
	if s.pos < len(s.floats) {
		v := s.floats[s.pos]
		s.pos++
		return v
	}
	return 0.99
}

func (s *seqSource) Intn(n int) int { return 0 }

// failSink always errors; the contact must still be recorded.
type failSink struct{ calls int }

func (f *failSink) GenerateOffer(a *agents.Agent) error {
	f.calls++
	return errors.New("no transport")
}

func newTestWorld(t *testing.T, target int, src rnd.Source) (*agents.Registry, *config.Tuning) {
	t.Helper()
	cfg := config.Default()
	cfg.Population.Target = target
	r := rnd.New(7)
	if src == nil {
		src = r
	}
	reg := agents.NewRegistry(nil, agents.NewGenerator(r, cfg.Population), src, &cfg)
	require.NoError(t, reg.Initialize())
	return reg, &cfg
}

func TestTickPartitionsCoverEveryoneInThree(t *testing.T) {
	reg, cfg := newTestWorld(t, 9, nil)
	dec := newStubDecider()
	sched := NewScheduler(reg, dec, economy.NewLedger(cfg.Market), nil, nil, rnd.New(7), cfg)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		sched.Tick(now.Add(time.Duration(i) * time.Minute))
	}

	assert.Equal(t, uint64(3), sched.CurrentTick())
	assert.Len(t, dec.seen, reg.Count())
	for id, n := range dec.seen {
		assert.Equal(t, 1, n, "agent %s decided %d times in one full cycle", id, n)
	}
}

func TestTickSkipsAgentsOnCooldown(t *testing.T) {
	reg, cfg := newTestWorld(t, 9, nil)
	dec := newStubDecider()
	sched := NewScheduler(reg, dec, economy.NewLedger(cfg.Market), nil, nil, rnd.New(7), cfg)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sched.Tick(now)
	first := len(dec.seen)
	assert.Equal(t, 3, first)

	// Same instant again: everyone processed last tick is inside the WAIT
	// cooldown, and it is a different partition anyway.
	sched.Tick(now)
	sched.Tick(now)
	sched.Tick(now) // partition 0 again, still cooling down
	for _, n := range dec.seen {
		assert.Equal(t, 1, n)
	}

	// Past the cooldown the same partition fires again.
	sched.Tick(now.Add(time.Minute))
	total := 0
	for _, n := range dec.seen {
		total += n
	}
	assert.Greater(t, total, reg.Count())
}

func TestDoRunsBeforeAgentProcessing(t *testing.T) {
	reg, cfg := newTestWorld(t, 9, nil)
	sched := NewScheduler(reg, newStubDecider(), economy.NewLedger(cfg.Market), nil, nil, rnd.New(7), cfg)

	target := reg.All()[0]
	cash := target.Cash
	respect := target.Respect

	sched.Do(func(r *agents.Registry) { r.AdjustCash(target.ID, 500) })
	sched.Do(func(r *agents.Registry) { r.AdjustRespect(target.ID, 10) })

	// Nothing runs until the next tick.
	assert.Equal(t, cash, target.Cash)

	sched.Tick(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, cash+500, target.Cash)
	assert.Equal(t, respect+10, target.Respect)
}

func TestAgentPanicIsContained(t *testing.T) {
	reg, cfg := newTestWorld(t, 9, nil)
	dec := newStubDecider()
	dec.panicOn = reg.All()[0].ID
	obs := newRecordingObserver()
	sched := NewScheduler(reg, dec, economy.NewLedger(cfg.Market), nil, obs, rnd.New(7), cfg)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		sched.Tick(now.Add(time.Duration(i) * time.Minute))
	}

	// Exactly one fault, attributed to the panicking agent, and the rest of
	// the population still got processed.
	require.Len(t, obs.agentErrs, 1)
	err, ok := obs.agentErrs[dec.panicOn]
	require.True(t, ok)
	assert.ErrorContains(t, err, "decider exploded")
	assert.Len(t, dec.seen, reg.Count()-1)

	// The panicking agent never reached cooldown assignment.
	assert.True(t, reg.All()[0].CooldownUntil.IsZero())
}

func TestSaboteurBetrayalConvertsAllianceToRivalry(t *testing.T) {
	script := &seqSource{}
	reg, cfg := newTestWorld(t, 8, script)

	sabs := reg.ByArchetype(catalog.ArchSaboteur)
	require.NotEmpty(t, sabs)
	sab := sabs[0]

	var ally *agents.Agent
	for _, a := range reg.All() {
		if a.ID != sab.ID {
			ally = a
			break
		}
	}
	reg.FormAlliance(sab.ID, ally.ID)
	require.True(t, sab.IsAlly(ally.ID))

	// Script the evolution pass: every alliance and rivalry roll misses,
	// only the saboteur's betrayal roll hits.
	var floats []float64
	for _, a := range reg.All() {
		floats = append(floats, 0.99, 0.99)
		if a.Archetype == catalog.ArchSaboteur {
			floats = append(floats, 0.0)
		}
	}
	script.floats = floats
	script.pos = 0

	sched := NewScheduler(reg, newStubDecider(), economy.NewLedger(cfg.Market), nil, nil, script, cfg)
	sched.evolveRelationships(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	assert.False(t, sab.IsAlly(ally.ID))
	assert.True(t, sab.IsRival(ally.ID))
	assert.True(t, ally.IsRival(sab.ID))

	events := sched.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "betrayal", events[0].Category)
	assert.Contains(t, events[0].Description, sab.ID.String())
	assert.Contains(t, events[0].Description, ally.ID.String())
}

func TestContactDriverSchedulesThenFires(t *testing.T) {
	reg, cfg := newTestWorld(t, 8, nil)
	sink := &failSink{}
	sched := NewScheduler(reg, newStubDecider(), economy.NewLedger(cfg.Market), sink, nil, rnd.New(7), cfg)

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// First pass only arms the timer.
	sched.maybeContactPlayer(start)
	assert.Zero(t, sink.calls)
	require.False(t, sched.nextContact.IsZero())
	assert.True(t, sched.nextContact.After(start.Add(cfg.Scheduler.ContactMin()-time.Second)))
	assert.True(t, sched.nextContact.Before(start.Add(cfg.Scheduler.ContactMax()+time.Second)))

	// Past the deadline one agent reaches out, even though the sink errored,
	// and the timer re-arms.
	fire := start.Add(16 * time.Minute)
	sched.maybeContactPlayer(fire)
	assert.Equal(t, 1, sink.calls)
	assert.True(t, sched.nextContact.After(fire))

	var contacted *agents.Agent
	for _, a := range reg.All() {
		if a.LastContact.Equal(fire) {
			contacted = a
		}
	}
	require.NotNil(t, contacted)

	events := sched.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "contact", events[0].Category)
	assert.Contains(t, events[0].Description, contacted.Name)

	// Before the new deadline nothing more happens.
	sched.maybeContactPlayer(fire.Add(time.Second))
	assert.Equal(t, 1, sink.calls)
}

func TestContactDriverRespectsPerAgentGap(t *testing.T) {
	reg, cfg := newTestWorld(t, 8, nil)
	sched := NewScheduler(reg, newStubDecider(), economy.NewLedger(cfg.Market), nil, nil, rnd.New(7), cfg)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for _, a := range reg.All() {
		reg.SetLastContact(a.ID, now.Add(-time.Minute))
	}

	_, ok := sched.pickContactAgent(now)
	assert.False(t, ok)

	// Once the per-agent gap has elapsed, someone is eligible again.
	later := now.Add(cfg.Scheduler.AgentContactGap())
	picked, ok := sched.pickContactAgent(later)
	require.True(t, ok)
	assert.NotNil(t, picked)
}

func TestEventRingIsCapped(t *testing.T) {
	reg, cfg := newTestWorld(t, 8, nil)
	cfg.Scheduler.EventCap = 10
	sched := NewScheduler(reg, newStubDecider(), economy.NewLedger(cfg.Market), nil, nil, rnd.New(7), cfg)

	for i := 0; i < 25; i++ {
		sched.EmitEvent(Event{Description: "filler", Category: "economy"})
	}
	sched.trimEvents()
	assert.Len(t, sched.Events(), 10)
}

func TestCrimeOutcomeEffects(t *testing.T) {
	script := &seqSource{}
	reg, cfg := newTestWorld(t, 8, nil)
	sched := NewScheduler(reg, newStubDecider(), economy.NewLedger(cfg.Market), nil, nil, script, cfg)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	a := reg.All()[0]
	cash, respect, energy := a.Cash, a.Respect, a.Energy
	act := decision.Action{AgentID: a.ID, Kind: decision.ActionCommitCrime, Crime: "pickpocket"}

	// Success roll hits, payout roll lands mid-range (exactly base payout).
	script.floats = []float64{0.0, 0.5}
	script.pos = 0
	sched.apply(a, act, now)

	assert.Equal(t, cash+75, a.Cash)
	assert.Equal(t, respect+2, a.Respect) // 1 + 75/50
	assert.Equal(t, int64(9), a.XP)       // 1 + 75/10
	assert.Equal(t, energy-5, a.Energy)
	assert.InDelta(t, 2.0, a.Heat, 1e-9) // half the listed heat on success

	events := sched.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "crime", events[0].Category)

	// A failed attempt draws full heat and pays nothing, but still teaches.
	script.floats = []float64{0.99}
	script.pos = 0
	sched.apply(a, act, now)

	assert.Equal(t, cash+75, a.Cash)
	assert.Equal(t, int64(10), a.XP)
	assert.InDelta(t, 6.0, a.Heat, 1e-9)
	require.Len(t, sched.Events(), 1)
}

func TestWaitRecoversEnergy(t *testing.T) {
	reg, cfg := newTestWorld(t, 8, nil)
	sched := NewScheduler(reg, newStubDecider(), economy.NewLedger(cfg.Market), nil, nil, rnd.New(7), cfg)

	a := reg.All()[0]
	reg.AdjustEnergy(a.ID, -50)
	was := a.Energy

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sched.apply(a, decision.Action{AgentID: a.ID, Kind: decision.ActionWait}, now)
	assert.Equal(t, was+2, a.Energy)
}
