// Engine core — enumerate, score, and sample.
package decision

import (
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat/sampleuv"

	"github.com/hardknock/syndicate/internal/agents"
	"github.com/hardknock/syndicate/internal/catalog"
	"github.com/hardknock/syndicate/internal/config"
	"github.com/hardknock/syndicate/internal/rnd"
)

// Engine scores candidate actions for one agent at a time. It keeps only the
// per-agent recency counters between calls; everything else is read from the
// arguments.
type Engine struct {
	cfg *config.Tuning
	rng *rnd.Rand

	recent map[uuid.UUID]*recencyState
}

// recencyState tracks how often each action type was recently chosen by one
// agent. Counters reset once the window elapses.
type recencyState struct {
	counts  map[ActionKind]int
	touched time.Time
}

// NewEngine creates a decision engine.
func NewEngine(cfg *config.Tuning, rng *rnd.Rand) *Engine {
	return &Engine{
		cfg:    cfg,
		rng:    rng,
		recent: make(map[uuid.UUID]*recencyState),
	}
}

// DecideAction picks the agent's next action: enumerate candidates whose
// preconditions hold, score each, then draw weighted-random over the scores.
// WAIT is always a candidate, so a decision always exists.
func (e *Engine) DecideAction(a *agents.Agent, ws WorldState) Action {
	cands := e.Candidates(a, ws)

	weights := make([]float64, len(cands))
	for i, c := range cands {
		w := e.Score(a, ws, c)
		w = e.applyRecency(a.ID, c.Kind, w, ws.Now)
		w *= e.noiseFactor(a)
		if w < e.cfg.Decision.ScoreEpsilon {
			w = e.cfg.Decision.ScoreEpsilon
		}
		weights[i] = w
	}

	chosen := cands[0] // cands[0] is always WAIT
	sampler := sampleuv.NewWeighted(weights, e.rng.Src())
	if idx, ok := sampler.Take(); ok {
		chosen = cands[idx]
	}

	e.recordRecent(a.ID, chosen.Kind, ws.Now)
	return chosen
}

// Candidates enumerates every action whose preconditions hold. The first
// entry is always WAIT.
func (e *Engine) Candidates(a *agents.Agent, ws WorldState) []Action {
	d := e.cfg.Decision
	cands := []Action{{AgentID: a.ID, Kind: ActionWait}}

	if a.Cash >= d.BuyGoodsCashFloor {
		if good, qty, ok := e.bestGoodToBuy(a, ws); ok {
			cands = append(cands, Action{AgentID: a.ID, Kind: ActionBuyGoods, Good: good, Qty: qty})
		}
	}

	if a.HasGoods() {
		if good, qty, ok := e.bestHoldingToSell(a, ws); ok {
			cands = append(cands, Action{AgentID: a.ID, Kind: ActionSellGoods, Good: good, Qty: qty})
		}
	}

	if a.Cash >= d.BuyPropertyCashFloor {
		if prop, ok := e.bestPropertyToBuy(a); ok {
			cands = append(cands, Action{AgentID: a.ID, Kind: ActionBuyProperty, Property: prop})
		}
	}

	if len(a.Properties) > 0 {
		cands = append(cands, Action{AgentID: a.ID, Kind: ActionCollectIncome})
	}

	if crime, ok := e.bestCrime(a); ok {
		cands = append(cands, Action{AgentID: a.ID, Kind: ActionCommitCrime, Crime: crime})
	}

	if ws.Now.Sub(a.LastContact) >= e.cfg.Scheduler.AgentContactGap() {
		cands = append(cands, Action{AgentID: a.ID, Kind: ActionContactPlayer})
	}

	if target, ok := e.allianceTarget(a, ws); ok {
		cands = append(cands, Action{AgentID: a.ID, Kind: ActionFormAlliance, TargetID: target})
	}

	return cands
}

// bestGoodToBuy picks the level-appropriate good with the best price ratio
// against its base price.
func (e *Engine) bestGoodToBuy(a *agents.Agent, ws WorldState) (string, int, bool) {
	bestRatio := 0.0
	var best catalog.Good
	found := false

	for _, id := range catalog.GoodIDs() {
		g, ok := catalog.GoodByID(id)
		if !ok || g.MinLevel > a.Level {
			continue
		}
		price := e.marketPrice(ws, g)
		if price <= 0 || int64(price) > a.Cash {
			continue
		}
		ratio := g.BasePrice / price
		if !found || ratio > bestRatio {
			bestRatio = ratio
			best = g
			found = true
		}
	}
	if !found {
		return "", 0, false
	}

	price := e.marketPrice(ws, best)
	qty := int(float64(a.Cash) / price / 2) // commit half the bankroll at most
	if qty < 1 {
		qty = 1
	}
	if qty > 10 {
		qty = 10
	}
	return best.ID, qty, true
}

// bestHoldingToSell picks the holding with the best profit ratio against its
// cost basis.
func (e *Engine) bestHoldingToSell(a *agents.Agent, ws WorldState) (string, int, bool) {
	bestProfit := -1.0
	var bestGood string
	bestQty := 0

	for _, h := range a.Goods {
		if h.Qty <= 0 {
			continue
		}
		g, ok := catalog.GoodByID(h.Good)
		if !ok {
			continue // unresolved reference, never offered
		}
		price := e.marketPrice(ws, g)
		profit := 0.0
		if h.AvgCost > 0 {
			profit = (price - h.AvgCost) / h.AvgCost
		}
		if profit > bestProfit {
			bestProfit = profit
			bestGood = h.Good
			bestQty = h.Qty
		}
	}
	if bestGood == "" {
		return "", 0, false
	}
	return bestGood, bestQty, true
}

// bestPropertyToBuy picks the most lucrative affordable property.
func (e *Engine) bestPropertyToBuy(a *agents.Agent) (string, bool) {
	bestROI := 0.0
	var best string
	for _, id := range catalog.PropertyIDs() {
		p, ok := catalog.PropertyByID(id)
		if !ok || p.Cost > a.Cash {
			continue
		}
		roi := float64(p.Income) / float64(p.Cost)
		if best == "" || roi > bestROI {
			bestROI = roi
			best = id
		}
	}
	return best, best != ""
}

// bestCrime picks the crime with the best expected value among those the
// agent's level and energy permit.
func (e *Engine) bestCrime(a *agents.Agent) (string, bool) {
	bestEV := 0.0
	var best string
	for _, id := range catalog.CrimeIDs() {
		c, ok := catalog.CrimeByID(id)
		if !ok || c.MinLevel > a.Level || c.EnergyCost > a.Energy {
			continue
		}
		ev := float64(c.BasePayout) * c.SuccessRate
		if best == "" || ev > bestEV {
			bestEV = ev
			best = id
		}
	}
	return best, best != ""
}

// allianceTarget picks a random agent that is neither an ally nor a rival.
func (e *Engine) allianceTarget(a *agents.Agent, ws WorldState) (uuid.UUID, bool) {
	var open []uuid.UUID
	for _, other := range ws.Agents {
		if other.ID == a.ID || a.Related(other.ID) {
			continue
		}
		open = append(open, other.ID)
	}
	if len(open) == 0 {
		return uuid.Nil, false
	}
	return open[e.rng.Intn(len(open))], true
}

func (e *Engine) marketPrice(ws WorldState, g catalog.Good) float64 {
	if ws.Market == nil {
		return g.BasePrice
	}
	return ws.Market.Price(g.ID, g.BasePrice)
}

// ── Recency and noise ───────────────────────────────────────────────────

// applyRecency reduces a score by the configured penalty per recent
// occurrence of the same action type, floored at the configured fraction.
func (e *Engine) applyRecency(id uuid.UUID, kind ActionKind, score float64, now time.Time) float64 {
	st, ok := e.recent[id]
	if !ok {
		return score
	}
	if now.Sub(st.touched) > e.cfg.Decision.RecencyWindow() {
		delete(e.recent, id)
		return score
	}
	factor := 1 - e.cfg.Decision.RecencyPenalty*float64(st.counts[kind])
	if factor < e.cfg.Decision.RecencyFloor {
		factor = e.cfg.Decision.RecencyFloor
	}
	return score * factor
}

func (e *Engine) recordRecent(id uuid.UUID, kind ActionKind, now time.Time) {
	st, ok := e.recent[id]
	if !ok || now.Sub(st.touched) > e.cfg.Decision.RecencyWindow() {
		st = &recencyState{counts: make(map[ActionKind]int)}
		e.recent[id] = st
	}
	st.counts[kind]++
	st.touched = now
}

// noiseFactor draws the personality-scaled randomness multiplier from
// [1-r, 1+r]. Wildcards get a wide radius, everyone else a narrow one.
func (e *Engine) noiseFactor(a *agents.Agent) float64 {
	r := 0.10
	if p, ok := catalog.PersonalityFor(a.Archetype); ok {
		r = p.Noise
	}
	return e.rng.Between(1-r, 1+r)
}
