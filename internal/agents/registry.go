// The Registry owns the persistent AI-player population: generation, offline
// progression, queries, and the clamped mutation primitives every other
// system goes through.
package agents

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/hardknock/syndicate/internal/catalog"
	"github.com/hardknock/syndicate/internal/config"
	"github.com/hardknock/syndicate/internal/rnd"
)

// Store is the persistence collaborator. Failures are never fatal to the
// Registry; they degrade to "no persisted state".
type Store interface {
	SaveAgents(agents []*Agent) error
	LoadAgents() ([]*Agent, error)
	HasState() bool
	SaveMeta(key, value string) error
	GetMeta(key string) (string, error)
}

const metaLastSaved = "last_saved"

// Registry holds the in-memory population. It assumes single-writer access:
// all mutation happens from scheduler callbacks or the player's own handlers
// on one logical thread.
type Registry struct {
	agents []*Agent
	index  map[uuid.UUID]*Agent

	store Store
	gen   *Generator
	rng   rnd.Source
	cfg   *config.Tuning

	now func() time.Time
}

// NewRegistry creates an empty registry. Call Initialize to populate it.
func NewRegistry(store Store, gen *Generator, rng rnd.Source, cfg *config.Tuning) *Registry {
	return &Registry{
		index: make(map[uuid.UUID]*Agent),
		store: store,
		gen:   gen,
		rng:   rng,
		cfg:   cfg,
		now:   time.Now,
	}
}

// SetClock replaces the registry's time source. Tests drive a virtual clock.
func (r *Registry) SetClock(now func() time.Time) { r.now = now }

// Initialize loads the persisted population, generates up to the target, and
// applies offline progression for the time since the last save.
func (r *Registry) Initialize() error {
	now := r.now()

	if r.store != nil && r.store.HasState() {
		loaded, err := r.store.LoadAgents()
		if err != nil {
			slog.Warn("population load failed, regenerating", "error", err)
		} else {
			r.adopt(loaded)
		}
	}

	target := r.cfg.Population.Target
	if len(r.agents) == 0 {
		r.generateFresh(target, now)
	} else if len(r.agents) < target {
		r.topUp(target-len(r.agents), now)
	}

	sort.SliceStable(r.agents, func(i, j int) bool {
		return r.agents[i].Respect > r.agents[j].Respect
	})

	r.applyOfflineProgression(now)
	return nil
}

func (r *Registry) adopt(loaded []*Agent) {
	names := make([]string, 0, len(loaded))
	for _, a := range loaded {
		if a.Inventory == nil {
			a.Inventory = make(map[string]int)
		}
		if a.Allies == nil {
			a.Allies = make(map[uuid.UUID]bool)
		}
		if a.Rivals == nil {
			a.Rivals = make(map[uuid.UUID]bool)
		}
		r.agents = append(r.agents, a)
		r.index[a.ID] = a
		names = append(names, a.Name)
	}
	r.gen.MarkUsed(names)
}

// generateFresh builds the full population: one agent per archetype first,
// the rest randomly archetyped. Generation order is rank-weighted so earlier
// agents come out statistically stronger.
func (r *Registry) generateFresh(target int, now time.Time) {
	for i := 0; i < target; i++ {
		var arch catalog.Archetype
		if i < len(catalog.Archetypes) {
			arch = catalog.Archetypes[i]
		} else {
			arch = catalog.Archetypes[r.rng.Intn(len(catalog.Archetypes))]
		}
		rank := 1 - float64(i)/float64(target)
		r.add(r.gen.NewAgent(arch, rank, now))
	}
	slog.Info("population generated", "count", len(r.agents))
}

// topUp adds randomly-archetyped agents at modest rank until the target is met.
func (r *Registry) topUp(missing int, now time.Time) {
	for i := 0; i < missing; i++ {
		arch := catalog.Archetypes[r.rng.Intn(len(catalog.Archetypes))]
		r.add(r.gen.NewAgent(arch, 0.3*r.rng.Float64(), now))
	}
	slog.Info("population topped up", "added", missing, "count", len(r.agents))
}

func (r *Registry) add(a *Agent) {
	r.agents = append(r.agents, a)
	r.index[a.ID] = a
}

// applyOfflineProgression advances every agent for the hours elapsed since
// the last persisted save. Every growth factor includes a random multiplier
// so no two agents advance identically.
func (r *Registry) applyOfflineProgression(now time.Time) {
	if r.store == nil {
		return
	}
	raw, err := r.store.GetMeta(metaLastSaved)
	if err != nil {
		return // no prior save recorded
	}
	unix, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		slog.Warn("bad last_saved meta", "value", raw, "error", err)
		return
	}
	hours := now.Sub(time.Unix(unix, 0)).Hours()
	if hours <= 0 {
		return
	}

	off := r.cfg.Offline
	for _, a := range r.agents {
		cashFactor := 1 + off.CashRatePerHour*a.Traits.Risk*hours*r.rng.Float64()
		a.Cash = int64(float64(a.Cash) * cashFactor)

		bankFactor := 1 + off.BankRatePerHour*hours*r.rng.Float64()
		a.Bank = int64(float64(a.Bank) * bankFactor)

		respectFactor := 1 + off.RespectRatePerHour*a.Traits.Aggression*hours*r.rng.Float64()
		a.Respect = int64(float64(a.Respect) * respectFactor)

		// Roll the level-up chance once per elapsed hour, so a long absence
		// can grant several levels up to the cap.
		for h := 0; h < int(hours) && a.Level < r.cfg.Population.MaxLevel; h++ {
			if r.rng.Float64() < off.LevelUpChancePerHour {
				a.Level++
				a.Respect += off.LevelUpRespectBonus
			}
		}

		a.Heat = clamp(a.Heat-off.HeatDecayPerHour*hours, 0, MaxHeat)
		a.UpdatedAt = now
	}
	slog.Info("offline progression applied", "hours", fmt.Sprintf("%.1f", hours), "agents", len(r.agents))
}

// Save persists the whole population and stamps the save time.
func (r *Registry) Save() error {
	if r.store == nil {
		return nil
	}
	if err := r.store.SaveAgents(r.agents); err != nil {
		return fmt.Errorf("save population: %w", err)
	}
	if err := r.store.SaveMeta(metaLastSaved, strconv.FormatInt(r.now().Unix(), 10)); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}
	return nil
}

// Reset clears the population. Outside debug builds it requires force.
func (r *Registry) Reset(force bool) error {
	if !force && !r.cfg.Debug {
		return fmt.Errorf("reset requires force outside debug mode")
	}
	r.agents = nil
	r.index = make(map[uuid.UUID]*Agent)
	return nil
}

// ── Queries ─────────────────────────────────────────────────────────────

// ByID fetches one agent.
func (r *Registry) ByID(id uuid.UUID) (*Agent, bool) {
	a, ok := r.index[id]
	return a, ok
}

// All returns the live population slice in registry order. Callers must not
// reorder it.
func (r *Registry) All() []*Agent { return r.agents }

// Count returns the population size.
func (r *Registry) Count() int { return len(r.agents) }

// SortedByRespect returns a copy sorted by respect descending.
func (r *Registry) SortedByRespect() []*Agent {
	return r.sortedBy(func(a, b *Agent) bool { return a.Respect > b.Respect })
}

// SortedByWealth returns a copy sorted by cash+bank descending.
func (r *Registry) SortedByWealth() []*Agent {
	return r.sortedBy(func(a, b *Agent) bool { return a.Wealth() > b.Wealth() })
}

// SortedByLevel returns a copy sorted by level descending.
func (r *Registry) SortedByLevel() []*Agent {
	return r.sortedBy(func(a, b *Agent) bool { return a.Level > b.Level })
}

func (r *Registry) sortedBy(less func(a, b *Agent) bool) []*Agent {
	out := make([]*Agent, len(r.agents))
	copy(out, r.agents)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// ByArchetype filters the population by personality.
func (r *Registry) ByArchetype(arch catalog.Archetype) []*Agent {
	var out []*Agent
	for _, a := range r.agents {
		if a.Archetype == arch {
			out = append(out, a)
		}
	}
	return out
}

// ByPlayerRelation filters the population by stance toward the player.
func (r *Registry) ByPlayerRelation(rel Relation) []*Agent {
	var out []*Agent
	for _, a := range r.agents {
		if a.PlayerRelation == rel {
			out = append(out, a)
		}
	}
	return out
}

// ── Mutators ────────────────────────────────────────────────────────────

func (r *Registry) touch(a *Agent) { a.UpdatedAt = r.now() }

// AdjustCash changes cash by delta, clamped at zero.
func (r *Registry) AdjustCash(id uuid.UUID, delta int64) {
	if a, ok := r.index[id]; ok {
		a.Cash += delta
		if a.Cash < 0 {
			a.Cash = 0
		}
		r.touch(a)
	}
}

// AdjustBank changes banked cash by delta, clamped at zero.
func (r *Registry) AdjustBank(id uuid.UUID, delta int64) {
	if a, ok := r.index[id]; ok {
		a.Bank += delta
		if a.Bank < 0 {
			a.Bank = 0
		}
		r.touch(a)
	}
}

// AddXP grants experience earned from completed actions.
func (r *Registry) AddXP(id uuid.UUID, delta int64) {
	if a, ok := r.index[id]; ok {
		a.XP += delta
		r.touch(a)
	}
}

// AdjustRespect changes respect by delta, clamped at zero.
func (r *Registry) AdjustRespect(id uuid.UUID, delta int64) {
	if a, ok := r.index[id]; ok {
		a.Respect += delta
		if a.Respect < 0 {
			a.Respect = 0
		}
		r.touch(a)
	}
}

// AdjustHeat changes heat by delta, clamped to [0, 100].
func (r *Registry) AdjustHeat(id uuid.UUID, delta float64) {
	if a, ok := r.index[id]; ok {
		a.Heat = clamp(a.Heat+delta, 0, MaxHeat)
		r.touch(a)
	}
}

// AdjustEnergy changes energy by delta, clamped to [0, max].
func (r *Registry) AdjustEnergy(id uuid.UUID, delta float64) {
	if a, ok := r.index[id]; ok {
		a.Energy = clamp(a.Energy+delta, 0, MaxEnergy)
		r.touch(a)
	}
}

// AdjustTrust changes player trust by delta, clamped to [0, 100], and
// recomputes the relation band when a threshold is crossed.
func (r *Registry) AdjustTrust(id uuid.UUID, delta float64) {
	if a, ok := r.index[id]; ok {
		a.PlayerTrust = clamp(a.PlayerTrust+delta, 0, MaxTrust)
		a.PlayerRelation = RelationForTrust(a.PlayerTrust)
		r.touch(a)
	}
}

// SetPlayerRelation overrides the relation band directly.
func (r *Registry) SetPlayerRelation(id uuid.UUID, rel Relation) {
	if a, ok := r.index[id]; ok {
		a.PlayerRelation = rel
		r.touch(a)
	}
}

// RecordTrade logs a completed trade with the player.
func (r *Registry) RecordTrade(id uuid.UUID, honest bool) {
	if a, ok := r.index[id]; ok {
		a.TradesTotal++
		if honest {
			a.TradesHonest++
		} else {
			a.TradesDeceptive++
		}
		r.touch(a)
	}
}

// RecordBetrayal logs a betrayal of the player: a deceptive trade plus a
// steep trust drop.
func (r *Registry) RecordBetrayal(id uuid.UUID) {
	if a, ok := r.index[id]; ok {
		a.TradesTotal++
		a.TradesDeceptive++
		r.touch(a)
	}
	r.AdjustTrust(id, -25)
}

// FormAlliance makes a and b allies. Any existing rivalry between the pair is
// dissolved first, preserving mutual exclusion, and the relation is written
// symmetrically.
func (r *Registry) FormAlliance(aID, bID uuid.UUID) {
	a, okA := r.index[aID]
	b, okB := r.index[bID]
	if !okA || !okB || aID == bID {
		return
	}
	delete(a.Rivals, bID)
	delete(b.Rivals, aID)
	a.Allies[bID] = true
	b.Allies[aID] = true
	r.touch(a)
	r.touch(b)
}

// CreateRivalry makes a and b rivals, dissolving any alliance first.
func (r *Registry) CreateRivalry(aID, bID uuid.UUID) {
	a, okA := r.index[aID]
	b, okB := r.index[bID]
	if !okA || !okB || aID == bID {
		return
	}
	delete(a.Allies, bID)
	delete(b.Allies, aID)
	a.Rivals[bID] = true
	b.Rivals[aID] = true
	r.touch(a)
	r.touch(b)
}

// SetLastContact stamps the agent's last player contact.
func (r *Registry) SetLastContact(id uuid.UUID, t time.Time) {
	if a, ok := r.index[id]; ok {
		a.LastContact = t
		r.touch(a)
	}
}

// SetCooldown sets the agent's action-cooldown expiry and last-action time.
func (r *Registry) SetCooldown(id uuid.UUID, actedAt, until time.Time) {
	if a, ok := r.index[id]; ok {
		a.LastAction = actedAt
		a.CooldownUntil = until
		r.touch(a)
	}
}

// AddGoods adds qty units bought at price, recomputing the average cost basis.
func (r *Registry) AddGoods(id uuid.UUID, good string, qty int, price float64) {
	a, ok := r.index[id]
	if !ok || qty <= 0 {
		return
	}
	for i := range a.Goods {
		if a.Goods[i].Good == good {
			h := &a.Goods[i]
			total := h.AvgCost*float64(h.Qty) + price*float64(qty)
			h.Qty += qty
			h.AvgCost = total / float64(h.Qty)
			r.touch(a)
			return
		}
	}
	a.Goods = append(a.Goods, GoodHolding{Good: good, Qty: qty, AvgCost: price})
	r.touch(a)
}

// RemoveGoods removes up to qty units and returns how many were removed and
// their average cost basis.
func (r *Registry) RemoveGoods(id uuid.UUID, good string, qty int) (int, float64) {
	a, ok := r.index[id]
	if !ok || qty <= 0 {
		return 0, 0
	}
	for i := range a.Goods {
		if a.Goods[i].Good != good {
			continue
		}
		h := &a.Goods[i]
		removed := qty
		if removed > h.Qty {
			removed = h.Qty
		}
		basis := h.AvgCost
		h.Qty -= removed
		if h.Qty == 0 {
			a.Goods = append(a.Goods[:i], a.Goods[i+1:]...)
		}
		r.touch(a)
		return removed, basis
	}
	return 0, 0
}

// AddProperty appends a level-1 property to the agent's portfolio.
func (r *Registry) AddProperty(id uuid.UUID, propType string) {
	if a, ok := r.index[id]; ok {
		a.Properties = append(a.Properties, OwnedProperty{Type: propType, Level: 1})
		r.touch(a)
	}
}
