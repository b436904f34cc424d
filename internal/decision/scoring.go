// Action-specific scoring heuristics and the personality multiplier layer.
package decision

import (
	"github.com/hardknock/syndicate/internal/agents"
	"github.com/hardknock/syndicate/internal/catalog"
)

// Score computes the heuristic score for one candidate, including the
// personality multiplier. Scores never go below zero; an action whose
// reference data cannot be resolved scores zero.
func (e *Engine) Score(a *agents.Agent, ws WorldState, c Action) float64 {
	var score float64
	switch c.Kind {
	case ActionBuyGoods:
		score = e.scoreBuyGoods(a, ws, c)
	case ActionSellGoods:
		score = e.scoreSellGoods(a, ws, c)
	case ActionBuyProperty:
		score = e.scoreBuyProperty(a, c)
	case ActionCollectIncome:
		score = e.cfg.Decision.CollectScore
	case ActionCommitCrime:
		score = e.scoreCommitCrime(a, c)
	case ActionContactPlayer:
		score = e.scoreContactPlayer(a)
	case ActionFormAlliance:
		score = e.scoreFormAlliance(a)
	case ActionWait:
		score = e.cfg.Decision.WaitScore
	}

	score *= personalityMultiplier(a, c.Kind)
	if score < 0 {
		score = 0
	}
	return score
}

// scoreBuyGoods rewards buying below base price, adds a risk-weighted bonus
// for risky goods, and penalizes thin affordable quantity. Net buy pressure
// marks a crowded side of the market and counts against buying more.
func (e *Engine) scoreBuyGoods(a *agents.Agent, ws WorldState, c Action) float64 {
	g, ok := catalog.GoodByID(c.Good)
	if !ok {
		return 0
	}
	price := e.marketPrice(ws, g)
	if price <= 0 {
		return 0
	}

	score := 30 * (g.BasePrice / price)
	if g.Risky {
		score += 15 * a.Traits.Risk
	}
	if affordable := float64(a.Cash) / price; affordable < 2 {
		score *= 0.5
	}
	return score - e.pressureBias(ws, g.ID)
}

// scoreSellGoods rewards profit over cost basis, with an urgency bonus when
// heat is high and liquidating makes sense. Net buy pressure is demand to
// sell into.
func (e *Engine) scoreSellGoods(a *agents.Agent, ws WorldState, c Action) float64 {
	g, ok := catalog.GoodByID(c.Good)
	if !ok {
		return 0
	}
	h, ok := a.Holding(c.Good)
	if !ok || h.Qty <= 0 {
		return 0
	}

	price := e.marketPrice(ws, g)
	profitRatio := 0.0
	if h.AvgCost > 0 {
		profitRatio = (price - h.AvgCost) / h.AvgCost
	}

	score := 20 + 40*profitRatio
	if a.Heat > 60 {
		score += 20
	}
	return score + e.pressureBias(ws, g.ID)
}

// pressureBias maps the ledger's net buy pressure for a good into a bounded
// score adjustment.
func (e *Engine) pressureBias(ws WorldState, good string) float64 {
	if ws.Market == nil {
		return 0
	}
	bias := ws.Market.Pressure(good) / 4
	if bias > 10 {
		bias = 10
	}
	if bias < -10 {
		bias = -10
	}
	return bias
}

// scoreBuyProperty weighs affordability headroom and projected return, with
// a penalty once the portfolio is already large.
func (e *Engine) scoreBuyProperty(a *agents.Agent, c Action) float64 {
	p, ok := catalog.PropertyByID(c.Property)
	if !ok || p.Cost <= 0 {
		return 0
	}

	headroom := float64(a.Cash) / float64(p.Cost)
	if headroom > 3 {
		headroom = 3
	}
	roi := float64(p.Income) / float64(p.Cost) // income per collection per crown

	score := 15*headroom + 600*roi
	if len(a.Properties) > e.cfg.Decision.MaxProperties {
		score *= 0.3
	}
	return score
}

// scoreCommitCrime is expected value minus a heat-risk penalty scaled by the
// agent's caution (1 - risk tolerance).
func (e *Engine) scoreCommitCrime(a *agents.Agent, c Action) float64 {
	cr, ok := catalog.CrimeByID(c.Crime)
	if !ok {
		return 0
	}
	if cr.MinLevel > a.Level || cr.EnergyCost > a.Energy {
		return 0
	}

	ev := float64(cr.BasePayout) * cr.SuccessRate
	heatPenalty := cr.HeatGain * (1 - a.Traits.Risk)
	return ev/25 - heatPenalty
}

// scoreContactPlayer combines socialness, the current relation band, and a
// large bonus for the archetypes that seek the player out.
func (e *Engine) scoreContactPlayer(a *agents.Agent) float64 {
	score := 10 + 30*a.Traits.Social

	switch a.PlayerRelation {
	case agents.RelationAllied:
		score += 15
	case agents.RelationFriendly:
		score += 8
	case agents.RelationSuspicious:
		score -= 8
	case agents.RelationHostile:
		score -= 15
	}

	if p, ok := catalog.PersonalityFor(a.Archetype); ok && p.ContactAffinity {
		score += 25
	}
	return score
}

// scoreFormAlliance is a socialness bonus with a penalty once the agent is
// already well-connected.
func (e *Engine) scoreFormAlliance(a *agents.Agent) float64 {
	score := 10 + 25*a.Traits.Social
	if len(a.Allies) > e.cfg.Decision.MaxAlliances {
		score *= 0.4
	}
	return score
}

// personalityMultiplier applies the per-action-type trait scaling.
func personalityMultiplier(a *agents.Agent, kind ActionKind) float64 {
	switch kind {
	case ActionBuyGoods:
		return 0.5 + a.Traits.Risk
	case ActionCommitCrime:
		return 0.5 + a.Traits.Aggression
	case ActionFormAlliance, ActionContactPlayer:
		return 0.5 + a.Traits.Social
	case ActionWait:
		return 0.5 + a.Traits.Patience
	default:
		return 1
	}
}
