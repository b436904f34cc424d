// Package decision implements the per-agent decision engine: candidate
// enumeration, heuristic scoring, and weighted-random selection.
package decision

import (
	"time"

	"github.com/google/uuid"

	"github.com/hardknock/syndicate/internal/agents"
	"github.com/hardknock/syndicate/internal/economy"
)

// ActionKind enumerates everything an agent can decide to do.
type ActionKind uint8

const (
	ActionWait ActionKind = iota
	ActionBuyGoods
	ActionSellGoods
	ActionBuyProperty
	ActionCollectIncome
	ActionCommitCrime
	ActionContactPlayer
	ActionFormAlliance
)

var actionNames = [...]string{
	"wait", "buy_goods", "sell_goods", "buy_property",
	"collect_income", "commit_crime", "contact_player", "form_alliance",
}

func (k ActionKind) String() string {
	if int(k) < len(actionNames) {
		return actionNames[k]
	}
	return "unknown"
}

// Action is one concrete, parameterized candidate.
type Action struct {
	AgentID uuid.UUID
	Kind    ActionKind

	Good     string    // buy/sell goods
	Qty      int       // buy/sell goods
	Crime    string    // commit crime
	Property string    // buy property
	TargetID uuid.UUID // form alliance
}

// WorldState is the snapshot handed to the engine for one decision. The
// engine only reads it.
type WorldState struct {
	Agents []*agents.Agent
	Market *economy.Ledger
	Now    time.Time
}
