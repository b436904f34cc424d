// Package config holds the simulation tuning file. Every game-balance
// constant lives here so the formulas keep their shape while the numbers
// stay adjustable.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Tuning is the root configuration document.
type Tuning struct {
	Seed   uint64 `yaml:"seed"`
	DBPath string `yaml:"db_path"`
	Debug  bool   `yaml:"debug"` // gates Registry.Reset outside development

	Population PopulationTuning `yaml:"population"`
	Offline    OfflineTuning    `yaml:"offline"`
	Decision   DecisionTuning   `yaml:"decision"`
	Scheduler  SchedulerTuning  `yaml:"scheduler"`
	Market     MarketTuning     `yaml:"market"`
}

// PopulationTuning controls generation.
type PopulationTuning struct {
	Target      int     `yaml:"target"`       // minimum population size
	MaxLevel    int     `yaml:"max_level"`    // level cap for agents
	TraitJitter float64 `yaml:"trait_jitter"` // ±fraction applied to archetype traits
}

// OfflineTuning controls the catch-up pass applied after time away.
type OfflineTuning struct {
	CashRatePerHour      float64 `yaml:"cash_rate_per_hour"`    // scaled by risk tolerance
	BankRatePerHour      float64 `yaml:"bank_rate_per_hour"`    // fixed, smaller
	RespectRatePerHour   float64 `yaml:"respect_rate_per_hour"` // scaled by aggressiveness
	LevelUpChancePerHour float64 `yaml:"level_up_chance_per_hour"`
	LevelUpRespectBonus  int64   `yaml:"level_up_respect_bonus"`
	HeatDecayPerHour     float64 `yaml:"heat_decay_per_hour"`
}

// DecisionTuning controls the scoring heuristics.
type DecisionTuning struct {
	BuyGoodsCashFloor    int64   `yaml:"buy_goods_cash_floor"`
	BuyPropertyCashFloor int64   `yaml:"buy_property_cash_floor"`
	MaxProperties        int     `yaml:"max_properties"` // penalty beyond this many
	MaxAlliances         int     `yaml:"max_alliances"`  // penalty beyond this many
	WaitScore            float64 `yaml:"wait_score"`
	CollectScore         float64 `yaml:"collect_score"`
	ScoreEpsilon         float64 `yaml:"score_epsilon"` // floor keeping every candidate drawable
	RecencyPenalty       float64 `yaml:"recency_penalty"`
	RecencyFloor         float64 `yaml:"recency_floor"`
	RecencyWindowSeconds int     `yaml:"recency_window_seconds"`
}

// SchedulerTuning controls the tick and contact drivers.
type SchedulerTuning struct {
	TickSeconds int `yaml:"tick_seconds"`

	// Per-action cooldowns, seconds.
	TradeCooldownSeconds    int `yaml:"trade_cooldown_seconds"`
	CrimeCooldownSeconds    int `yaml:"crime_cooldown_seconds"`
	PropertyCooldownSeconds int `yaml:"property_cooldown_seconds"`
	IncomeCooldownSeconds   int `yaml:"income_cooldown_seconds"`
	ContactCooldownSeconds  int `yaml:"contact_cooldown_seconds"`
	AllianceCooldownSeconds int `yaml:"alliance_cooldown_seconds"`
	WaitCooldownSeconds     int `yaml:"wait_cooldown_seconds"`

	// Player-contact driver interval bounds, seconds.
	ContactMinSeconds int `yaml:"contact_min_seconds"`
	ContactMaxSeconds int `yaml:"contact_max_seconds"`

	// Per-agent gap between contacts, seconds.
	AgentContactGapSeconds int `yaml:"agent_contact_gap_seconds"`

	// Relationship-evolution probabilities, scaled by traits.
	AllianceChance float64 `yaml:"alliance_chance"` // × socialness
	RivalryChance  float64 `yaml:"rivalry_chance"`  // × aggressiveness
	BetrayalChance float64 `yaml:"betrayal_chance"` // saboteurs only

	EventCap int `yaml:"event_cap"`
}

// MarketTuning controls the influence ledger.
type MarketTuning struct {
	DecayIdleSeconds int     `yaml:"decay_idle_seconds"` // halve entries idle longer than this
	PruneBelow       float64 `yaml:"prune_below"`        // drop entries under this volume
}

// Default returns the tuning used when no file is supplied.
func Default() Tuning {
	return Tuning{
		Seed:   42,
		DBPath: "data/syndicate.db",
		Population: PopulationTuning{
			Target:      27,
			MaxLevel:    15,
			TraitJitter: 0.15,
		},
		Offline: OfflineTuning{
			CashRatePerHour:      0.02,
			BankRatePerHour:      0.005,
			RespectRatePerHour:   0.01,
			LevelUpChancePerHour: 0.02,
			LevelUpRespectBonus:  50,
			HeatDecayPerHour:     2,
		},
		Decision: DecisionTuning{
			BuyGoodsCashFloor:    100,
			BuyPropertyCashFloor: 2500,
			MaxProperties:        5,
			MaxAlliances:         5,
			WaitScore:            5,
			CollectScore:         40,
			ScoreEpsilon:         0.5,
			RecencyPenalty:       0.10,
			RecencyFloor:         0.50,
			RecencyWindowSeconds: 600,
		},
		Scheduler: SchedulerTuning{
			TickSeconds:             60,
			TradeCooldownSeconds:    30,
			CrimeCooldownSeconds:    120,
			PropertyCooldownSeconds: 180,
			IncomeCooldownSeconds:   300,
			ContactCooldownSeconds:  300,
			AllianceCooldownSeconds: 180,
			WaitCooldownSeconds:     30,
			ContactMinSeconds:       300,
			ContactMaxSeconds:       900,
			AgentContactGapSeconds:  1800,
			AllianceChance:          0.10,
			RivalryChance:           0.06,
			BetrayalChance:          0.03,
			EventCap:                1000,
		},
		Market: MarketTuning{
			DecayIdleSeconds: 300,
			PruneBelow:       0.5,
		},
	}
}

// Load reads a tuning file, overlaying it on the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (Tuning, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("tuning: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("tuning: %w", err)
	}
	return cfg, nil
}

// Validate rejects values that would break the simulation's invariants.
func (t Tuning) Validate() error {
	if t.Population.Target < len(requiredArchetypeSlots) {
		return fmt.Errorf("population.target %d below archetype count %d",
			t.Population.Target, len(requiredArchetypeSlots))
	}
	if t.Population.TraitJitter < 0 || t.Population.TraitJitter >= 1 {
		return fmt.Errorf("population.trait_jitter %v out of [0,1)", t.Population.TraitJitter)
	}
	if t.Scheduler.TickSeconds <= 0 {
		return fmt.Errorf("scheduler.tick_seconds must be positive")
	}
	if t.Scheduler.ContactMinSeconds <= 0 || t.Scheduler.ContactMaxSeconds < t.Scheduler.ContactMinSeconds {
		return fmt.Errorf("scheduler contact interval bounds invalid: [%d, %d]",
			t.Scheduler.ContactMinSeconds, t.Scheduler.ContactMaxSeconds)
	}
	if t.Decision.ScoreEpsilon <= 0 {
		return fmt.Errorf("decision.score_epsilon must be positive")
	}
	if t.Decision.RecencyFloor <= 0 || t.Decision.RecencyFloor > 1 {
		return fmt.Errorf("decision.recency_floor %v out of (0,1]", t.Decision.RecencyFloor)
	}
	if t.Market.DecayIdleSeconds <= 0 {
		return fmt.Errorf("market.decay_idle_seconds must be positive")
	}
	return nil
}

// requiredArchetypeSlots mirrors the archetype count without importing the
// catalog (config stays a leaf package).
var requiredArchetypeSlots = [8]struct{}{}

// Duration helpers.

func (s SchedulerTuning) TickPeriod() time.Duration {
	return time.Duration(s.TickSeconds) * time.Second
}

func (s SchedulerTuning) ContactMin() time.Duration {
	return time.Duration(s.ContactMinSeconds) * time.Second
}

func (s SchedulerTuning) ContactMax() time.Duration {
	return time.Duration(s.ContactMaxSeconds) * time.Second
}

func (s SchedulerTuning) AgentContactGap() time.Duration {
	return time.Duration(s.AgentContactGapSeconds) * time.Second
}

func (d DecisionTuning) RecencyWindow() time.Duration {
	return time.Duration(d.RecencyWindowSeconds) * time.Second
}

func (m MarketTuning) DecayIdle() time.Duration {
	return time.Duration(m.DecayIdleSeconds) * time.Second
}
