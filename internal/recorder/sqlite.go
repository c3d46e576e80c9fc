package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"MarketPulse/internal/model"
)

// SQLiteRecorder persists refresh history to a SQLite database.
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

	// WAL so dashboards can read while the refreshers write.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS quote_snapshots (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			as_of          INTEGER NOT NULL,
			position       INTEGER NOT NULL,
			symbol         TEXT NOT NULL,
			price          REAL,
			change         REAL,
			change_percent REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_quote_symbol_ts ON quote_snapshots(symbol, as_of)`,

		`CREATE TABLE IF NOT EXISTS chart_refreshes (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			as_of          INTEGER NOT NULL,
			symbol         TEXT NOT NULL,
			points         INTEGER,
			open           REAL,
			last           REAL,
			day_high       REAL,
			day_low        REAL,
			change         REAL,
			change_percent REAL,
			session_date   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chart_symbol_ts ON chart_refreshes(symbol, as_of)`,

		`CREATE TABLE IF NOT EXISTS provider_events (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp  INTEGER NOT NULL,
			provider   TEXT,
			from_state TEXT,
			to_state   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_provider_ts ON provider_events(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordWatchlist(snap model.WatchlistSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO quote_snapshots
		(as_of, position, symbol, price, change, change_percent)
		VALUES (?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	ts := snap.AsOf.UnixMilli()
	for i, q := range snap.Quotes {
		if _, err := stmt.Exec(ts, i, q.Symbol, q.Price, q.Change, q.ChangePercent); err != nil {
			return fmt.Errorf("insert %s: %w", q.Symbol, err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) RecordChart(s model.IntradaySeries) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO chart_refreshes
		(as_of, symbol, points, open, last, day_high, day_low, change, change_percent, session_date)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		s.AsOf.UnixMilli(), s.Symbol, len(s.Prices), s.Open, s.Last,
		s.DayHigh, s.DayLow, s.Change, s.ChangePercent, s.SessionDate,
	)
	return err
}

func (r *SQLiteRecorder) RecordProviderEvent(evt ProviderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO provider_events
		(timestamp, provider, from_state, to_state)
		VALUES (?,?,?,?)`,
		time.Now().Unix(), evt.Provider, evt.From, evt.To,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
