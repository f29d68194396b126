package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/seenimoa/finvizlite/pkg/models"
)

// SQLiteRecorder persists snapshots to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	now func() time.Time
	log *logrus.Entry
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log *logrus.Logger) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets readers query the history while a batch run writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if log == nil {
		log = logrus.StandardLogger()
	}
	r := &SQLiteRecorder{
		db:  db,
		now: time.Now,
		log: log.WithField("component", "recorder"),
	}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.log.WithField("path", dbPath).Info("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS fundamentals (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			ticker      TEXT    NOT NULL,
			timestamp   INTEGER NOT NULL,
			label       TEXT    NOT NULL,
			value_text  TEXT,
			value_num   REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fundamentals_ticker_ts ON fundamentals(ticker, timestamp)`,

		`CREATE TABLE IF NOT EXISTS news (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			ticker       TEXT    NOT NULL,
			published_at INTEGER NOT NULL,
			title        TEXT,
			link         TEXT    NOT NULL,
			source       TEXT,
			recorded_at  INTEGER NOT NULL,
			UNIQUE(ticker, link)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_news_ticker_ts ON news(ticker, published_at)`,

		`CREATE TABLE IF NOT EXISTS ratings (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			ticker      TEXT    NOT NULL,
			rated_on    TEXT    NOT NULL,
			status      TEXT,
			firm        TEXT,
			rating      TEXT,
			price       TEXT,
			recorded_at INTEGER NOT NULL,
			UNIQUE(ticker, rated_on, firm, status, rating, price)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ratings_ticker ON ratings(ticker, rated_on)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordFundamentals stores one row per label. Numeric values go to
// value_num, everything else is stored as text.
func (r *SQLiteRecorder) RecordFundamentals(ticker string, at time.Time, f models.Fundamentals) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.Prepare(`INSERT INTO fundamentals
		(ticker, timestamp, label, value_text, value_num) VALUES (?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	ts := at.Unix()
	for _, label := range f.Labels() {
		var text sql.NullString
		var num sql.NullFloat64
		switch v := f[label].(type) {
		case float64:
			num = sql.NullFloat64{Float64: v, Valid: true}
		case bool:
			text = sql.NullString{String: fmt.Sprint(v), Valid: true}
		case string:
			text = sql.NullString{String: v, Valid: true}
		}
		if _, err := stmt.Exec(ticker, ts, label, text, num); err != nil {
			return fmt.Errorf("insert %s %s: %w", ticker, label, err)
		}
	}
	return tx.Commit()
}

// RecordNews stores news items, ignoring links already recorded for ticker.
func (r *SQLiteRecorder) RecordNews(ticker string, items []models.NewsItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := r.now().Unix()
	added := 0
	for _, n := range items {
		res, err := tx.Exec(`INSERT OR IGNORE INTO news
			(ticker, published_at, title, link, source, recorded_at) VALUES (?,?,?,?,?,?)`,
			ticker, n.Date.Unix(), n.Title, n.Link, n.Source, now,
		)
		if err != nil {
			return fmt.Errorf("insert news %s: %w", n.Link, err)
		}
		if c, err := res.RowsAffected(); err == nil {
			added += int(c)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	r.log.WithFields(logrus.Fields{"ticker": ticker, "new": added, "seen": len(items) - added}).Debug("news recorded")
	return nil
}

// RecordRatings stores analyst actions, ignoring rows already recorded.
func (r *SQLiteRecorder) RecordRatings(ticker string, items []models.Rating) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := r.now().Unix()
	for _, rt := range items {
		_, err := tx.Exec(`INSERT OR IGNORE INTO ratings
			(ticker, rated_on, status, firm, rating, price, recorded_at) VALUES (?,?,?,?,?,?,?)`,
			ticker, rt.Date.Format("2006-01-02"), rt.Status, rt.Outer, rt.Rating, rt.Price, now,
		)
		if err != nil {
			return fmt.Errorf("insert rating %s: %w", ticker, err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info("closing sqlite recorder")
	return r.db.Close()
}
