// Package agents provides the AI-player data model and the Registry that
// owns the simulated population.
package agents

import (
	"time"

	"github.com/google/uuid"

	"github.com/hardknock/syndicate/internal/catalog"
)

// Bounds for clamped agent scalars.
const (
	MaxHeat   = 100.0
	MaxTrust  = 100.0
	MaxEnergy = 100.0
	MaxHealth = 100.0
)

// Relation enumerates an agent's stance toward the human player.
type Relation uint8

const (
	RelationHostile Relation = iota
	RelationSuspicious
	RelationNeutral
	RelationFriendly
	RelationAllied
)

var relationNames = [...]string{"hostile", "suspicious", "neutral", "friendly", "allied"}

func (r Relation) String() string {
	if int(r) < len(relationNames) {
		return relationNames[r]
	}
	return "unknown"
}

// RelationForTrust maps a trust score to its relation band.
func RelationForTrust(trust float64) Relation {
	switch {
	case trust >= 80:
		return RelationAllied
	case trust >= 60:
		return RelationFriendly
	case trust >= 40:
		return RelationNeutral
	case trust >= 20:
		return RelationSuspicious
	default:
		return RelationHostile
	}
}

// Traits are the behavioral scalars of one agent, each in [0,1].
// Derived from the archetype at creation and fixed for life.
type Traits struct {
	Risk       float64 `json:"risk"`
	Aggression float64 `json:"aggression"`
	Social     float64 `json:"social"`
	Patience   float64 `json:"patience"`
	Deception  float64 `json:"deception"`
}

// OwnedProperty is one property in an agent's portfolio.
type OwnedProperty struct {
	Type  string `json:"type"`
	Level int    `json:"level"`
}

// GoodHolding is a position in one tradeable good.
type GoodHolding struct {
	Good    string  `json:"good"`
	Qty     int     `json:"qty"`
	AvgCost float64 `json:"avg_cost"` // running average cost basis per unit
}

// Agent is one simulated AI player.
type Agent struct {
	ID        uuid.UUID         `json:"id"`
	Name      string            `json:"name"`
	Archetype catalog.Archetype `json:"archetype"`

	// Economic stats.
	Level   int     `json:"level"`
	XP      int64   `json:"xp"`
	Cash    int64   `json:"cash"`
	Bank    int64   `json:"bank"`
	Respect int64   `json:"respect"`
	Heat    float64 `json:"heat"`
	Health  float64 `json:"health"`
	Energy  float64 `json:"energy"`

	Traits Traits `json:"traits"`

	// Assets.
	Properties []OwnedProperty `json:"properties"`
	Inventory  map[string]int  `json:"inventory"`
	Goods      []GoodHolding   `json:"goods"`

	// Social state.
	Crew           string             `json:"crew,omitempty"`
	Allies         map[uuid.UUID]bool `json:"allies"`
	Rivals         map[uuid.UUID]bool `json:"rivals"`
	PlayerRelation Relation           `json:"player_relation"`
	PlayerTrust    float64            `json:"player_trust"`

	// Trade history with the player.
	TradesTotal     int `json:"trades_total"`
	TradesHonest    int `json:"trades_honest"`
	TradesDeceptive int `json:"trades_deceptive"`

	// Scheduling state.
	LastAction    time.Time `json:"last_action"`
	LastContact   time.Time `json:"last_contact"`
	CooldownUntil time.Time `json:"cooldown_until"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Holding returns the agent's position in a good, if any.
func (a *Agent) Holding(good string) (GoodHolding, bool) {
	for _, h := range a.Goods {
		if h.Good == good {
			return h, true
		}
	}
	return GoodHolding{}, false
}

// HasGoods reports whether the agent holds any tradeable goods.
func (a *Agent) HasGoods() bool {
	for _, h := range a.Goods {
		if h.Qty > 0 {
			return true
		}
	}
	return false
}

// Wealth is cash plus bank, used for wealth-sorted queries.
func (a *Agent) Wealth() int64 {
	return a.Cash + a.Bank
}

// IsAlly reports whether the given agent id is an ally.
func (a *Agent) IsAlly(id uuid.UUID) bool { return a.Allies[id] }

// IsRival reports whether the given agent id is a rival.
func (a *Agent) IsRival(id uuid.UUID) bool { return a.Rivals[id] }

// Related reports whether the given id is already an ally or rival.
func (a *Agent) Related(id uuid.UUID) bool { return a.Allies[id] || a.Rivals[id] }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
