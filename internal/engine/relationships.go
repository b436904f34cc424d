// Relationship evolution — alliance and rivalry formation, and saboteur
// betrayals. Runs once every third tick.
package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/hardknock/syndicate/internal/agents"
	"github.com/hardknock/syndicate/internal/catalog"
)

// evolveRelationships gives each agent a chance to form an alliance
// (proportional to socialness), start a rivalry (proportional to
// aggressiveness), and — for saboteurs — betray an existing ally.
func (s *Scheduler) evolveRelationships(now time.Time) {
	sc := s.cfg.Scheduler
	population := s.reg.All()

	for _, a := range population {
		if s.rng.Float64() < sc.AllianceChance*a.Traits.Social {
			if target, ok := s.unrelatedTarget(a, population); ok {
				s.reg.FormAlliance(a.ID, target.ID)
				s.EmitEvent(Event{
					Tick:        s.tick,
					Time:        now,
					Description: fmt.Sprintf("%s and %s are now working together", a.Name, target.Name),
					Category:    "social",
				})
			}
		}

		if s.rng.Float64() < sc.RivalryChance*a.Traits.Aggression {
			if target, ok := s.unrelatedTarget(a, population); ok {
				s.reg.CreateRivalry(a.ID, target.ID)
				s.EmitEvent(Event{
					Tick:        s.tick,
					Time:        now,
					Description: fmt.Sprintf("bad blood between %s and %s", a.Name, target.Name),
					Category:    "social",
				})
			}
		}

		if a.Archetype == catalog.ArchSaboteur && len(a.Allies) > 0 &&
			s.rng.Float64() < sc.BetrayalChance {
			s.betray(a, now)
		}
	}
}

// unrelatedTarget picks a random agent that is neither self, ally, nor rival.
func (s *Scheduler) unrelatedTarget(a *agents.Agent, population []*agents.Agent) (*agents.Agent, bool) {
	var open []*agents.Agent
	for _, other := range population {
		if other.ID == a.ID || a.Related(other.ID) {
			continue
		}
		open = append(open, other)
	}
	if len(open) == 0 {
		return nil, false
	}
	return open[s.rng.Intn(len(open))], true
}

// betray converts one of the saboteur's alliances directly into a rivalry.
func (s *Scheduler) betray(a *agents.Agent, now time.Time) {
	allies := make([]uuid.UUID, 0, len(a.Allies))
	for id := range a.Allies {
		allies = append(allies, id)
	}
	// Map order is random; sort so the pick depends only on the rng.
	sort.Slice(allies, func(i, j int) bool { return allies[i].String() < allies[j].String() })

	victimID := allies[s.rng.Intn(len(allies))]
	victim, ok := s.reg.ByID(victimID)
	if !ok {
		return
	}

	s.reg.CreateRivalry(a.ID, victimID)
	s.EmitEvent(Event{
		Tick:        s.tick,
		Time:        now,
		Description: fmt.Sprintf("%s (%s) turned on %s (%s)", a.Name, a.ID, victim.Name, victim.ID),
		Category:    "betrayal",
	})
}
