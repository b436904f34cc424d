// Package persistence provides SQLite-backed population storage. It
// implements the Registry's Store contract; callers treat failures as
// "no persisted state".
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/hardknock/syndicate/internal/agents"
	"github.com/hardknock/syndicate/internal/catalog"
)

// Store wraps a SQLite connection.
type Store struct {
	conn *sqlx.DB
}

// Open opens or creates the database at path and runs migrations.
// Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	st := &Store{conn: conn}
	if err := st.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return st, nil
}

// Close closes the connection.
func (st *Store) Close() error {
	return st.conn.Close()
}

func (st *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS agents (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		archetype TEXT NOT NULL,
		level INTEGER NOT NULL,
		xp INTEGER NOT NULL,
		cash INTEGER NOT NULL,
		bank INTEGER NOT NULL,
		respect INTEGER NOT NULL,
		heat REAL NOT NULL,
		health REAL NOT NULL,
		energy REAL NOT NULL,
		crew TEXT NOT NULL DEFAULT '',
		player_relation INTEGER NOT NULL,
		player_trust REAL NOT NULL,
		trades_total INTEGER NOT NULL,
		trades_honest INTEGER NOT NULL,
		trades_deceptive INTEGER NOT NULL,
		last_action INTEGER NOT NULL,
		last_contact INTEGER NOT NULL,
		cooldown_until INTEGER NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL,
		traits_json TEXT NOT NULL,
		properties_json TEXT NOT NULL,
		inventory_json TEXT NOT NULL,
		goods_json TEXT NOT NULL,
		allies_json TEXT NOT NULL,
		rivals_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sim_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_agents_respect ON agents(respect);
	`
	_, err := st.conn.Exec(schema)
	return err
}

// SaveAgents writes the whole population in one transaction (full replace).
func (st *Store) SaveAgents(list []*agents.Agent) error {
	tx, err := st.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM agents"); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT INTO agents
		(id, name, archetype, level, xp, cash, bank, respect, heat, health, energy,
		 crew, player_relation, player_trust, trades_total, trades_honest, trades_deceptive,
		 last_action, last_contact, cooldown_until, created_at, updated_at,
		 traits_json, properties_json, inventory_json, goods_json, allies_json, rivals_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, a := range list {
		traitsJSON, _ := json.Marshal(a.Traits)
		propsJSON, _ := json.Marshal(a.Properties)
		invJSON, _ := json.Marshal(a.Inventory)
		goodsJSON, _ := json.Marshal(a.Goods)
		alliesJSON, _ := json.Marshal(idSet(a.Allies))
		rivalsJSON, _ := json.Marshal(idSet(a.Rivals))

		_, err := stmt.Exec(
			a.ID.String(), a.Name, string(a.Archetype), a.Level, a.XP,
			a.Cash, a.Bank, a.Respect, a.Heat, a.Health, a.Energy,
			a.Crew, a.PlayerRelation, a.PlayerTrust,
			a.TradesTotal, a.TradesHonest, a.TradesDeceptive,
			unix(a.LastAction), unix(a.LastContact), unix(a.CooldownUntil),
			unix(a.CreatedAt), unix(a.UpdatedAt),
			string(traitsJSON), string(propsJSON), string(invJSON),
			string(goodsJSON), string(alliesJSON), string(rivalsJSON),
		)
		if err != nil {
			return fmt.Errorf("insert agent %s: %w", a.ID, err)
		}
	}

	return tx.Commit()
}

type agentRow struct {
	ID              string  `db:"id"`
	Name            string  `db:"name"`
	Archetype       string  `db:"archetype"`
	Level           int     `db:"level"`
	XP              int64   `db:"xp"`
	Cash            int64   `db:"cash"`
	Bank            int64   `db:"bank"`
	Respect         int64   `db:"respect"`
	Heat            float64 `db:"heat"`
	Health          float64 `db:"health"`
	Energy          float64 `db:"energy"`
	Crew            string  `db:"crew"`
	PlayerRelation  uint8   `db:"player_relation"`
	PlayerTrust     float64 `db:"player_trust"`
	TradesTotal     int     `db:"trades_total"`
	TradesHonest    int     `db:"trades_honest"`
	TradesDeceptive int     `db:"trades_deceptive"`
	LastAction      int64   `db:"last_action"`
	LastContact     int64   `db:"last_contact"`
	CooldownUntil   int64   `db:"cooldown_until"`
	CreatedAt       int64   `db:"created_at"`
	UpdatedAt       int64   `db:"updated_at"`
	TraitsJSON      string  `db:"traits_json"`
	PropertiesJSON  string  `db:"properties_json"`
	InventoryJSON   string  `db:"inventory_json"`
	GoodsJSON       string  `db:"goods_json"`
	AlliesJSON      string  `db:"allies_json"`
	RivalsJSON      string  `db:"rivals_json"`
}

// LoadAgents reads the whole population.
func (st *Store) LoadAgents() ([]*agents.Agent, error) {
	var rows []agentRow
	if err := st.conn.Select(&rows, "SELECT * FROM agents ORDER BY respect DESC"); err != nil {
		return nil, fmt.Errorf("select agents: %w", err)
	}

	out := make([]*agents.Agent, 0, len(rows))
	for _, r := range rows {
		a, err := r.toAgent()
		if err != nil {
			return nil, fmt.Errorf("decode agent %s: %w", r.ID, err)
		}
		out = append(out, a)
	}
	return out, nil
}

func (r agentRow) toAgent() (*agents.Agent, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, err
	}

	a := &agents.Agent{
		ID:              id,
		Name:            r.Name,
		Archetype:       catalog.Archetype(r.Archetype),
		Level:           r.Level,
		XP:              r.XP,
		Cash:            r.Cash,
		Bank:            r.Bank,
		Respect:         r.Respect,
		Heat:            r.Heat,
		Health:          r.Health,
		Energy:          r.Energy,
		Crew:            r.Crew,
		PlayerRelation:  agents.Relation(r.PlayerRelation),
		PlayerTrust:     r.PlayerTrust,
		TradesTotal:     r.TradesTotal,
		TradesHonest:    r.TradesHonest,
		TradesDeceptive: r.TradesDeceptive,
		LastAction:      fromUnix(r.LastAction),
		LastContact:     fromUnix(r.LastContact),
		CooldownUntil:   fromUnix(r.CooldownUntil),
		CreatedAt:       fromUnix(r.CreatedAt),
		UpdatedAt:       fromUnix(r.UpdatedAt),
	}

	if err := json.Unmarshal([]byte(r.TraitsJSON), &a.Traits); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(r.PropertiesJSON), &a.Properties); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(r.InventoryJSON), &a.Inventory); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(r.GoodsJSON), &a.Goods); err != nil {
		return nil, err
	}

	var allies, rivals []string
	if err := json.Unmarshal([]byte(r.AlliesJSON), &allies); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(r.RivalsJSON), &rivals); err != nil {
		return nil, err
	}
	a.Allies, err = toIDSet(allies)
	if err != nil {
		return nil, err
	}
	a.Rivals, err = toIDSet(rivals)
	if err != nil {
		return nil, err
	}

	if a.Inventory == nil {
		a.Inventory = make(map[string]int)
	}
	return a, nil
}

// HasState reports whether a population has been persisted.
func (st *Store) HasState() bool {
	var count int
	if err := st.conn.Get(&count, "SELECT COUNT(*) FROM agents"); err != nil {
		return false
	}
	return count > 0
}

// SaveMeta stores a key/value pair.
func (st *Store) SaveMeta(key, value string) error {
	_, err := st.conn.Exec(
		"INSERT OR REPLACE INTO sim_meta (key, value) VALUES (?, ?)", key, value)
	return err
}

// GetMeta retrieves a metadata value.
func (st *Store) GetMeta(key string) (string, error) {
	var value string
	err := st.conn.Get(&value, "SELECT value FROM sim_meta WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("meta %q: %w", key, err)
	}
	return value, err
}

func idSet(set map[uuid.UUID]bool) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id.String())
	}
	return out
}

func toIDSet(list []string) (map[uuid.UUID]bool, error) {
	out := make(map[uuid.UUID]bool, len(list))
	for _, s := range list {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		out[id] = true
	}
	return out, nil
}

func unix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func fromUnix(v int64) time.Time {
	if v == 0 {
		return time.Time{}
	}
	return time.Unix(v, 0)
}
