// Player-contact driver — an independent random timer that picks one agent
// to reach out to the human player every 5 to 15 minutes.
package engine

import (
	"log/slog"
	"time"

	"github.com/hardknock/syndicate/internal/agents"
)

// maybeContactPlayer fires the contact driver when its deadline has passed
// and reschedules it regardless of outcome.
func (s *Scheduler) maybeContactPlayer(now time.Time) {
	if s.nextContact.IsZero() {
		s.scheduleNextContact(now)
		return
	}
	if now.Before(s.nextContact) {
		return
	}

	if a, ok := s.pickContactAgent(now); ok {
		s.contactAgent(a, now)
	}
	s.scheduleNextContact(now)
}

func (s *Scheduler) scheduleNextContact(now time.Time) {
	sc := s.cfg.Scheduler
	interval := sc.ContactMin() + time.Duration(s.rng.Float64()*float64(sc.ContactMax()-sc.ContactMin()))
	s.nextContact = now.Add(interval)
}

// pickContactAgent selects the eligible agent with the highest
// socialness-plus-relationship weight, with a noise term so the same agent
// does not win every draw.
func (s *Scheduler) pickContactAgent(now time.Time) (*agents.Agent, bool) {
	gap := s.cfg.Scheduler.AgentContactGap()

	var best *agents.Agent
	bestWeight := 0.0
	for _, a := range s.reg.All() {
		if now.Sub(a.LastContact) < gap {
			continue
		}
		weight := a.Traits.Social + relationWeight(a.PlayerRelation) + s.rng.Float64()*0.5
		if best == nil || weight > bestWeight {
			best = a
			bestWeight = weight
		}
	}
	return best, best != nil
}

func relationWeight(rel agents.Relation) float64 {
	switch rel {
	case agents.RelationAllied:
		return 0.75
	case agents.RelationFriendly:
		return 0.4
	case agents.RelationSuspicious:
		return -0.4
	case agents.RelationHostile:
		return -0.75
	default:
		return 0
	}
}

// contactAgent hands the agent to the message collaborator and stamps the
// contact time. Sink failures are logged; the contact still counts so the
// agent does not immediately retry.
func (s *Scheduler) contactAgent(a *agents.Agent, now time.Time) {
	if s.sink != nil {
		if err := s.sink.GenerateOffer(a); err != nil {
			slog.Warn("offer generation failed", "agent", a.Name, "error", err)
		}
	}
	s.reg.SetLastContact(a.ID, now)
	s.EmitEvent(Event{
		Tick:        s.tick,
		Time:        now,
		Description: a.Name + " reached out to you",
		Category:    "contact",
	})
}
