package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while the game writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS trades (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp  INTEGER NOT NULL,
			wallet     TEXT,
			day        INTEGER,
			location   TEXT,
			side       TEXT,
			product    TEXT,
			quantity   INTEGER,
			unit_price INTEGER,
			amount     INTEGER,
			cash_after INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_ts ON trades(timestamp)`,

		`CREATE TABLE IF NOT EXISTS turn_events (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			wallet      TEXT,
			day         INTEGER,
			location    TEXT,
			kind        TEXT,
			description TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_ts ON turn_events(timestamp)`,

		`CREATE TABLE IF NOT EXISTS promotions (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp    INTEGER NOT NULL,
			wallet       TEXT,
			day          INTEGER,
			rank         TEXT,
			contribution INTEGER,
			staked_after INTEGER
		)`,

		`CREATE TABLE IF NOT EXISTS runs (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			wallet      TEXT,
			days        INTEGER,
			final_score INTEGER,
			staked      INTEGER,
			rank        TEXT,
			ended_early INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_score ON runs(final_score)`,

		`CREATE TABLE IF NOT EXISTS agent_actions (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp    INTEGER NOT NULL,
			agent        TEXT,
			action       TEXT,
			amount       REAL,
			confirmation TEXT,
			note         TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_agent_ts ON agent_actions(timestamp)`,

		`CREATE TABLE IF NOT EXISTS agent_stats (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp     INTEGER NOT NULL,
			agent         TEXT,
			total_buys    INTEGER,
			total_sells   INTEGER,
			total_volume  REAL,
			active_orders INTEGER,
			filled_orders INTEGER,
			is_running    INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_agent_stats_ts ON agent_stats(timestamp)`,

		`CREATE TABLE IF NOT EXISTS market_snapshots (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			sol_price   REAL,
			token_price REAL,
			volume_24h  REAL,
			liquidity   REAL,
			multiplier  REAL,
			condition   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_market_ts ON market_snapshots(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordTrade(t *TradeRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO trades
		(timestamp, wallet, day, location, side, product, quantity, unit_price, amount, cash_after)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), t.Wallet, t.Day, t.Location, string(t.Side),
		t.Product, t.Quantity, t.UnitPrice, t.Amount, t.CashAfter,
	)
	return err
}

func (r *SQLiteRecorder) RecordEvent(e *TurnEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO turn_events
		(timestamp, wallet, day, location, kind, description)
		VALUES (?,?,?,?,?,?)`,
		time.Now().Unix(), e.Wallet, e.Day, e.Location, e.Kind, e.Description,
	)
	return err
}

func (r *SQLiteRecorder) RecordPromotion(p *PromotionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO promotions
		(timestamp, wallet, day, rank, contribution, staked_after)
		VALUES (?,?,?,?,?,?)`,
		time.Now().Unix(), p.Wallet, p.Day, p.Rank, p.Contribution, p.StakedAfter,
	)
	return err
}

func (r *SQLiteRecorder) RecordRun(rec *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	endedEarly := 0
	if rec.EndedEarly {
		endedEarly = 1
	}
	_, err := r.db.Exec(`INSERT INTO runs
		(timestamp, wallet, days, final_score, staked, rank, ended_early)
		VALUES (?,?,?,?,?,?,?)`,
		time.Now().Unix(), rec.Wallet, rec.Days, rec.FinalScore, rec.Staked, rec.Rank, endedEarly,
	)
	return err
}

func (r *SQLiteRecorder) RecordAgentAction(a *AgentAction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO agent_actions
		(timestamp, agent, action, amount, confirmation, note)
		VALUES (?,?,?,?,?,?)`,
		time.Now().Unix(), a.Agent, a.Action, a.Amount, a.Confirmation, a.Note,
	)
	return err
}

func (r *SQLiteRecorder) RecordAgentStats(s *AgentStatsSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	running := 0
	if s.IsRunning {
		running = 1
	}
	_, err := r.db.Exec(`INSERT INTO agent_stats
		(timestamp, agent, total_buys, total_sells, total_volume, active_orders, filled_orders, is_running)
		VALUES (?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), s.Agent, s.TotalBuys, s.TotalSells, s.TotalVolume,
		s.ActiveOrders, s.FilledOrders, running,
	)
	return err
}

func (r *SQLiteRecorder) RecordMarket(m *MarketSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO market_snapshots
		(timestamp, sol_price, token_price, volume_24h, liquidity, multiplier, condition)
		VALUES (?,?,?,?,?,?,?)`,
		time.Now().Unix(), m.SolPrice, m.TokenPrice, m.Volume24h, m.Liquidity, m.Multiplier, m.Condition,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
