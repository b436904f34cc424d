// Action execution — applies a decided action's effects to the registry and
// the market-influence ledger.
package engine

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/hardknock/syndicate/internal/agents"
	"github.com/hardknock/syndicate/internal/catalog"
	"github.com/hardknock/syndicate/internal/decision"
	"github.com/hardknock/syndicate/internal/economy"
)

func (s *Scheduler) apply(a *agents.Agent, act decision.Action, now time.Time) {
	switch act.Kind {
	case decision.ActionBuyGoods:
		s.applyBuyGoods(a, act, now)
	case decision.ActionSellGoods:
		s.applySellGoods(a, act, now)
	case decision.ActionBuyProperty:
		s.applyBuyProperty(a, act, now)
	case decision.ActionCollectIncome:
		s.applyCollectIncome(a)
	case decision.ActionCommitCrime:
		s.applyCommitCrime(a, act, now)
	case decision.ActionContactPlayer:
		s.contactAgent(a, now)
	case decision.ActionFormAlliance:
		s.applyFormAlliance(a, act, now)
	case decision.ActionWait:
		// Sitting out recovers a little energy.
		s.reg.AdjustEnergy(a.ID, 2)
	}
}

func (s *Scheduler) applyBuyGoods(a *agents.Agent, act decision.Action, now time.Time) {
	g, ok := catalog.GoodByID(act.Good)
	if !ok {
		return
	}
	price := s.ledger.Price(g.ID, g.BasePrice)
	if price <= 0 {
		return
	}

	qty := act.Qty
	if affordable := int(float64(a.Cash) / price); qty > affordable {
		qty = affordable
	}
	if qty <= 0 {
		return
	}

	cost := int64(price * float64(qty))
	s.reg.AdjustCash(a.ID, -cost)
	s.reg.AddGoods(a.ID, g.ID, qty, price)
	s.ledger.Record(g.ID, economy.Buy, qty, price, now)
}

func (s *Scheduler) applySellGoods(a *agents.Agent, act decision.Action, now time.Time) {
	g, ok := catalog.GoodByID(act.Good)
	if !ok {
		return
	}
	price := s.ledger.Price(g.ID, g.BasePrice)

	sold, basis := s.reg.RemoveGoods(a.ID, g.ID, act.Qty)
	if sold <= 0 {
		return
	}

	revenue := int64(price * float64(sold))
	s.reg.AdjustCash(a.ID, revenue)
	s.ledger.Record(g.ID, economy.Sell, sold, price, now)

	// A profitable flip earns a little respect on the street.
	if profit := (price - basis) * float64(sold); profit > 0 {
		s.reg.AdjustRespect(a.ID, 1+int64(profit/100))
		s.EmitEvent(Event{
			Tick:        s.tick,
			Time:        now,
			Description: fmt.Sprintf("%s moved %d %s for $%s", a.Name, sold, g.Name, humanize.Comma(revenue)),
			Category:    "economy",
		})
	}
}

func (s *Scheduler) applyBuyProperty(a *agents.Agent, act decision.Action, now time.Time) {
	p, ok := catalog.PropertyByID(act.Property)
	if !ok || a.Cash < p.Cost {
		return
	}
	s.reg.AdjustCash(a.ID, -p.Cost)
	s.reg.AddProperty(a.ID, p.ID)
	s.EmitEvent(Event{
		Tick:        s.tick,
		Time:        now,
		Description: fmt.Sprintf("%s bought a %s for $%s", a.Name, p.Name, humanize.Comma(p.Cost)),
		Category:    "economy",
	})
}

func (s *Scheduler) applyCollectIncome(a *agents.Agent) {
	var income int64
	for _, owned := range a.Properties {
		p, ok := catalog.PropertyByID(owned.Type)
		if !ok {
			continue
		}
		income += p.Income * int64(owned.Level)
	}
	if income <= 0 {
		return
	}
	// Small per-collection variance.
	income = int64(float64(income) * (0.9 + 0.2*s.rng.Float64()))
	s.reg.AdjustCash(a.ID, income)
}

func (s *Scheduler) applyCommitCrime(a *agents.Agent, act decision.Action, now time.Time) {
	c, ok := catalog.CrimeByID(act.Crime)
	if !ok || a.Energy < c.EnergyCost {
		return
	}
	s.reg.AdjustEnergy(a.ID, -c.EnergyCost)

	if s.rng.Float64() < c.SuccessRate {
		payout := int64(float64(c.BasePayout) * (0.8 + 0.4*s.rng.Float64()))
		s.reg.AdjustCash(a.ID, payout)
		s.reg.AdjustRespect(a.ID, 1+payout/50)
		s.reg.AddXP(a.ID, 1+payout/10)
		// Agents draw half the heat a player would for the same act.
		s.reg.AdjustHeat(a.ID, c.HeatGain*0.5)
		s.EmitEvent(Event{
			Tick:        s.tick,
			Time:        now,
			Description: fmt.Sprintf("%s pulled off %s for $%s", a.Name, c.Name, humanize.Comma(payout)),
			Category:    "crime",
		})
	} else {
		s.reg.AdjustHeat(a.ID, c.HeatGain)
		s.reg.AddXP(a.ID, 1) // a botched job still teaches something
	}
}

func (s *Scheduler) applyFormAlliance(a *agents.Agent, act decision.Action, now time.Time) {
	target, ok := s.reg.ByID(act.TargetID)
	if !ok || target.ID == a.ID {
		return
	}
	s.reg.FormAlliance(a.ID, target.ID)
	s.EmitEvent(Event{
		Tick:        s.tick,
		Time:        now,
		Description: fmt.Sprintf("%s and %s are now working together", a.Name, target.Name),
		Category:    "social",
	})
}
