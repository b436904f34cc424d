package decision

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hardknock/syndicate/internal/agents"
	"github.com/hardknock/syndicate/internal/catalog"
	"github.com/hardknock/syndicate/internal/config"
	"github.com/hardknock/syndicate/internal/economy"
	"github.com/hardknock/syndicate/internal/rnd"
)

func newTestEngine() (*Engine, *config.Tuning) {
	cfg := config.Default()
	return NewEngine(&cfg, rnd.New(1)), &cfg
}

func testAgent(arch catalog.Archetype) *agents.Agent {
	return &agents.Agent{
		ID:        uuid.New(),
		Name:      "Test Subject",
		Archetype: arch,
		Level:     1,
		Health:    agents.MaxHealth,
		Energy:    agents.MaxEnergy,
		Traits:    agents.Traits{Risk: 0.5, Aggression: 0.5, Social: 0.5, Patience: 0.5, Deception: 0.5},
		Inventory: make(map[string]int),
		Allies:    make(map[uuid.UUID]bool),
		Rivals:    make(map[uuid.UUID]bool),
	}
}

func kinds(cands []Action) []ActionKind {
	out := make([]ActionKind, len(cands))
	for i, c := range cands {
		out[i] = c.Kind
	}
	return out
}

func TestDestituteAgentCanOnlyWait(t *testing.T) {
	e, _ := newTestEngine()
	now := time.Now()

	a := testAgent(catalog.ArchGrinder)
	a.Cash = 0
	a.Energy = 0        // below every crime's cost
	a.LastContact = now // contact gap not yet elapsed

	ws := WorldState{Agents: []*agents.Agent{a}, Now: now}
	cands := e.Candidates(a, ws)

	require.Len(t, cands, 1)
	assert.Equal(t, ActionWait, cands[0].Kind)

	// The decision still resolves.
	chosen := e.DecideAction(a, ws)
	assert.Equal(t, ActionWait, chosen.Kind)
	assert.Equal(t, a.ID, chosen.AgentID)
}

func TestCandidatePreconditions(t *testing.T) {
	e, _ := newTestEngine()
	now := time.Now()

	a := testAgent(catalog.ArchHustler)
	a.Cash = 150
	a.Energy = 25
	a.LastContact = now

	other := testAgent(catalog.ArchEnforcer)
	ws := WorldState{Agents: []*agents.Agent{a, other}, Now: now}

	got := kinds(e.Candidates(a, ws))
	assert.Equal(t, []ActionKind{ActionWait, ActionBuyGoods, ActionCommitCrime, ActionFormAlliance}, got)

	// No goods held, no properties, not enough cash for one, contact too recent.
	assert.NotContains(t, got, ActionSellGoods)
	assert.NotContains(t, got, ActionBuyProperty)
	assert.NotContains(t, got, ActionCollectIncome)
	assert.NotContains(t, got, ActionContactPlayer)
}

func TestCandidatesUnlockWithState(t *testing.T) {
	e, cfg := newTestEngine()
	now := time.Now()

	a := testAgent(catalog.ArchKingpin)
	a.Level = 5
	a.Cash = 10000
	a.Goods = []agents.GoodHolding{{Good: "bootleg_liquor", Qty: 4, AvgCost: 35}}
	a.Properties = []agents.OwnedProperty{{Type: "corner_store", Level: 1}}
	a.LastContact = now.Add(-2 * cfg.Scheduler.AgentContactGap())

	ws := WorldState{Agents: []*agents.Agent{a}, Now: now}
	got := kinds(e.Candidates(a, ws))

	assert.Contains(t, got, ActionBuyGoods)
	assert.Contains(t, got, ActionSellGoods)
	assert.Contains(t, got, ActionBuyProperty)
	assert.Contains(t, got, ActionCollectIncome)
	assert.Contains(t, got, ActionCommitCrime)
	assert.Contains(t, got, ActionContactPlayer)
	// Alone in the world: no alliance target.
	assert.NotContains(t, got, ActionFormAlliance)
}

func TestAllianceTargetSkipsRelatedAgents(t *testing.T) {
	e, _ := newTestEngine()
	now := time.Now()

	a := testAgent(catalog.ArchSocialite)
	a.LastContact = now
	ally := testAgent(catalog.ArchGrinder)
	rival := testAgent(catalog.ArchEnforcer)
	a.Allies[ally.ID] = true
	a.Rivals[rival.ID] = true

	ws := WorldState{Agents: []*agents.Agent{a, ally, rival}, Now: now}
	got := kinds(e.Candidates(a, ws))
	assert.NotContains(t, got, ActionFormAlliance)

	open := testAgent(catalog.ArchTactician)
	ws.Agents = append(ws.Agents, open)
	cands := e.Candidates(a, ws)
	last := cands[len(cands)-1]
	require.Equal(t, ActionFormAlliance, last.Kind)
	assert.Equal(t, open.ID, last.TargetID)
}

func TestUnresolvedHoldingNeverOffered(t *testing.T) {
	e, _ := newTestEngine()
	now := time.Now()

	a := testAgent(catalog.ArchHustler)
	a.Cash = 0
	a.Energy = 0
	a.LastContact = now
	a.Goods = []agents.GoodHolding{{Good: "discontinued_good", Qty: 5, AvgCost: 10}}

	ws := WorldState{Agents: []*agents.Agent{a}, Now: now}
	got := kinds(e.Candidates(a, ws))
	assert.NotContains(t, got, ActionSellGoods)

	// And if such an action were proposed anyway, it scores zero.
	score := e.Score(a, ws, Action{AgentID: a.ID, Kind: ActionSellGoods, Good: "discontinued_good", Qty: 5})
	assert.Equal(t, 0.0, score)
}

func TestBestCrimeRespectsLevelAndEnergy(t *testing.T) {
	e, _ := newTestEngine()

	a := testAgent(catalog.ArchEnforcer)
	a.Level = 1
	a.Energy = 100
	crime, ok := e.bestCrime(a)
	require.True(t, ok)
	c, _ := catalog.CrimeByID(crime)
	assert.LessOrEqual(t, c.MinLevel, a.Level)

	a.Level = 10
	crime, _ = e.bestCrime(a)
	c, _ = catalog.CrimeByID(crime)
	// Higher level unlocks better expected value.
	assert.Greater(t, float64(c.BasePayout)*c.SuccessRate, 100.0)

	a.Energy = 1
	_, ok = e.bestCrime(a)
	assert.False(t, ok)
}

func TestScoreAppliesPersonalityMultiplier(t *testing.T) {
	e, cfg := newTestEngine()
	ws := WorldState{Now: time.Now()}

	patient := testAgent(catalog.ArchTactician)
	patient.Traits.Patience = 1.0
	impatient := testAgent(catalog.ArchWildcard)
	impatient.Traits.Patience = 0.0

	wait := Action{Kind: ActionWait}
	assert.InDelta(t, cfg.Decision.WaitScore*1.5, e.Score(patient, ws, wait), 1e-9)
	assert.InDelta(t, cfg.Decision.WaitScore*0.5, e.Score(impatient, ws, wait), 1e-9)
}

func TestRecencyPenaltyAndFloor(t *testing.T) {
	e, _ := newTestEngine()
	now := time.Now()
	id := uuid.New()

	// No history: score passes through.
	assert.Equal(t, 100.0, e.applyRecency(id, ActionCommitCrime, 100, now))

	e.recordRecent(id, ActionCommitCrime, now)
	e.recordRecent(id, ActionCommitCrime, now)
	assert.InDelta(t, 80.0, e.applyRecency(id, ActionCommitCrime, 100, now), 1e-9)

	// Other action types are unaffected.
	assert.Equal(t, 100.0, e.applyRecency(id, ActionBuyGoods, 100, now))

	// The penalty never cuts a score below the configured floor.
	for i := 0; i < 10; i++ {
		e.recordRecent(id, ActionCommitCrime, now)
	}
	assert.InDelta(t, 50.0, e.applyRecency(id, ActionCommitCrime, 100, now), 1e-9)
}

func TestRecencyWindowResets(t *testing.T) {
	e, cfg := newTestEngine()
	now := time.Now()
	id := uuid.New()

	e.recordRecent(id, ActionSellGoods, now)
	later := now.Add(cfg.Decision.RecencyWindow() + time.Second)
	assert.Equal(t, 100.0, e.applyRecency(id, ActionSellGoods, 100, later))
}

func TestDecisionUsesMarketPrice(t *testing.T) {
	e, _ := newTestEngine()

	g, _ := catalog.GoodByID("bootleg_liquor")
	// No ledger: base price.
	assert.Equal(t, g.BasePrice, e.marketPrice(WorldState{}, g))
}

func TestBuyPressureShiftsScores(t *testing.T) {
	e, cfg := newTestEngine()
	now := time.Now()

	a := testAgent(catalog.ArchHustler)
	a.Cash = 10000
	a.Goods = []agents.GoodHolding{{Good: "bootleg_liquor", Qty: 5, AvgCost: 40}}

	buy := Action{AgentID: a.ID, Kind: ActionBuyGoods, Good: "bootleg_liquor", Qty: 2}
	sell := Action{AgentID: a.ID, Kind: ActionSellGoods, Good: "bootleg_liquor", Qty: 5}

	calm := WorldState{Agents: []*agents.Agent{a}, Now: now}
	calmBuy := e.Score(a, calm, buy)
	calmSell := e.Score(a, calm, sell)

	// Heavy buying at the base price leaves the price alone but marks the
	// buy side as crowded: selling into the demand gains what buying loses.
	ledger := economy.NewLedger(cfg.Market)
	ledger.Record("bootleg_liquor", economy.Buy, 20, 40, now)
	hot := WorldState{Agents: []*agents.Agent{a}, Market: ledger, Now: now}

	assert.Less(t, e.Score(a, hot, buy), calmBuy)
	assert.Greater(t, e.Score(a, hot, sell), calmSell)
	assert.InDelta(t, calmSell+5, e.Score(a, hot, sell), 1e-9)
}
