// Package economy provides the market-influence ledger: an ephemeral,
// decaying record of aggregate buy/sell pressure per good. It is never
// persisted.
package economy

import (
	"time"

	"github.com/hardknock/syndicate/internal/config"
)

// Direction marks which side of the market an influence entry tracks.
type Direction uint8

const (
	Buy Direction = iota
	Sell
)

func (d Direction) String() string {
	if d == Buy {
		return "buy"
	}
	return "sell"
}

type key struct {
	good string
	dir  Direction
}

// Entry is the running state for one (good, direction) pair.
type Entry struct {
	Good       string
	Dir        Direction
	Volume     float64
	AvgPrice   float64 // running volume-weighted average
	LastUpdate time.Time
}

// Ledger aggregates trade influence. Entries idle past the configured window
// halve on each decay pass and are pruned once negligible.
type Ledger struct {
	entries    map[key]*Entry
	decayIdle  time.Duration
	pruneBelow float64
}

// NewLedger creates an empty ledger.
func NewLedger(cfg config.MarketTuning) *Ledger {
	return &Ledger{
		entries:    make(map[key]*Entry),
		decayIdle:  cfg.DecayIdle(),
		pruneBelow: cfg.PruneBelow,
	}
}

// Record folds one trade into the ledger.
func (l *Ledger) Record(good string, dir Direction, qty int, price float64, now time.Time) {
	if qty <= 0 {
		return
	}
	k := key{good: good, dir: dir}
	e, ok := l.entries[k]
	if !ok {
		e = &Entry{Good: good, Dir: dir}
		l.entries[k] = e
	}
	total := e.AvgPrice*e.Volume + price*float64(qty)
	e.Volume += float64(qty)
	e.AvgPrice = total / e.Volume
	e.LastUpdate = now
}

// Decay halves entries idle longer than the decay window and prunes entries
// whose volume has fallen below the negligible threshold.
func (l *Ledger) Decay(now time.Time) {
	for k, e := range l.entries {
		if now.Sub(e.LastUpdate) > l.decayIdle {
			e.Volume /= 2
		}
		if e.Volume < l.pruneBelow {
			delete(l.entries, k)
		}
	}
}

// Lookup returns the entry for a (good, direction) pair.
func (l *Ledger) Lookup(good string, dir Direction) (Entry, bool) {
	e, ok := l.entries[key{good: good, dir: dir}]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Price returns the current effective price for a good: the volume-weighted
// blend of recent buy and sell averages, or base when no influence exists.
func (l *Ledger) Price(good string, base float64) float64 {
	buy, okB := l.entries[key{good: good, dir: Buy}]
	sell, okS := l.entries[key{good: good, dir: Sell}]
	switch {
	case okB && okS:
		vol := buy.Volume + sell.Volume
		return (buy.AvgPrice*buy.Volume + sell.AvgPrice*sell.Volume) / vol
	case okB:
		return buy.AvgPrice
	case okS:
		return sell.AvgPrice
	default:
		return base
	}
}

// Pressure returns net buy pressure for a good (buy volume minus sell volume).
func (l *Ledger) Pressure(good string) float64 {
	var p float64
	if e, ok := l.entries[key{good: good, dir: Buy}]; ok {
		p += e.Volume
	}
	if e, ok := l.entries[key{good: good, dir: Sell}]; ok {
		p -= e.Volume
	}
	return p
}

// Len returns the live entry count.
func (l *Ledger) Len() int { return len(l.entries) }
