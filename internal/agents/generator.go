// Agent generation — procedural names, jittered traits, and rank-weighted
// starting stats.
package agents

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/hardknock/syndicate/internal/catalog"
	"github.com/hardknock/syndicate/internal/config"
	"github.com/hardknock/syndicate/internal/rnd"
)

// Generator creates agents with unique display names.
type Generator struct {
	rng      *rnd.Rand
	jitter   distuv.Uniform
	maxLevel int
	used     map[string]bool
}

// NewGenerator creates an agent generator sharing the simulation's random
// stream.
func NewGenerator(r *rnd.Rand, cfg config.PopulationTuning) *Generator {
	return &Generator{
		rng:      r,
		jitter:   distuv.Uniform{Min: -cfg.TraitJitter, Max: cfg.TraitJitter, Src: r.Src()},
		maxLevel: cfg.MaxLevel,
		used:     make(map[string]bool),
	}
}

// MarkUsed reserves display names already present in a loaded population so
// top-up generation cannot collide with them.
func (g *Generator) MarkUsed(names []string) {
	for _, n := range names {
		g.used[n] = true
	}
}

// NewAgent creates one agent. rank in [0,1] weights starting strength:
// earlier-generated agents pass rank closer to 1 and come out statistically
// stronger.
func (g *Generator) NewAgent(arch catalog.Archetype, rank float64, now time.Time) *Agent {
	p, ok := catalog.PersonalityFor(arch)
	if !ok {
		// Unknown archetype tags fall back to the grinder template.
		p, _ = catalog.PersonalityFor(catalog.ArchGrinder)
	}

	level := 1 + int(rank*float64(g.maxLevel)/2*g.rng.Between(0.5, 1.0))
	if level > g.maxLevel {
		level = g.maxLevel
	}

	return &Agent{
		ID:        uuid.New(),
		Name:      g.uniqueName(),
		Archetype: arch,

		Level:   level,
		Cash:    200 + int64(rank*5000*g.rng.Float64()),
		Bank:    int64(rank * 10000 * g.rng.Float64()),
		Respect: 100 + int64(rank*4000*g.rng.Float64()),
		Heat:    0,
		Health:  MaxHealth,
		Energy:  MaxEnergy,

		Traits: Traits{
			Risk:       g.jitterTrait(p.Traits.Risk),
			Aggression: g.jitterTrait(p.Traits.Aggression),
			Social:     g.jitterTrait(p.Traits.Social),
			Patience:   g.jitterTrait(p.Traits.Patience),
			Deception:  g.jitterTrait(p.Traits.Deception),
		},

		Inventory: make(map[string]int),
		Allies:    make(map[uuid.UUID]bool),
		Rivals:    make(map[uuid.UUID]bool),

		PlayerRelation: RelationNeutral,
		PlayerTrust:    40 + g.rng.Between(-10, 10),

		CreatedAt: now,
		UpdatedAt: now,
	}
}

// jitterTrait applies the ±15% creation jitter and clamps to [0,1].
func (g *Generator) jitterTrait(base float64) float64 {
	return clamp(base*(1+g.jitter.Rand()), 0, 1)
}

// uniqueName draws from the catalog name pools until it finds an unused
// display name, falling back to a numeric suffix.
func (g *Generator) uniqueName() string {
	for attempt := 0; attempt < 40; attempt++ {
		name := g.drawName()
		if !g.used[name] {
			g.used[name] = true
			return name
		}
	}
	base := g.drawName()
	for i := 2; ; i++ {
		name := fmt.Sprintf("%s %d", base, i)
		if !g.used[name] {
			g.used[name] = true
			return name
		}
	}
}

func (g *Generator) drawName() string {
	first := catalog.FirstNames[g.rng.Intn(len(catalog.FirstNames))]
	last := catalog.LastNames[g.rng.Intn(len(catalog.LastNames))]
	// About a third of the population carries a street handle.
	if g.rng.Float64() < 0.35 {
		handle := catalog.Handles[g.rng.Intn(len(catalog.Handles))]
		return fmt.Sprintf("%s \"%s\" %s", first, handle, last)
	}
	return first + " " + last
}
