// Package store is the local sqlite database behind the discovery and sync
// layers: known relays and their polled documents, signing profiles, trade
// listings with their locations and media, and the link tables joining them.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/radroots/radroots/pkg/slog"

	_ "modernc.org/sqlite"
)

var log, chk = slog.New(os.Stderr)

// T wraps the sqlite handle.
type T struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the database at path and applies the
// schema. The parent directory is created when missing.
func Open(path string) (s *T, err error) {
	if err = os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	var db *sql.DB
	// WAL for concurrent reads during a poll cycle
	if db, err = sql.Open("sqlite", path+"?_journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	s = &T{db: db, path: path}
	if _, err = db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set up database: %w", err)
	}
	log.T.F("opened store at %s", path)
	return
}

// Close closes the underlying handle.
func (s *T) Close() (err error) {
	if s.db != nil {
		err = s.db.Close()
	}
	return
}

func newID() string { return uuid.NewString() }

func now() string { return time.Now().UTC().Format(time.RFC3339) }

const schema = `
PRAGMA synchronous = NORMAL;
PRAGMA busy_timeout = 5000;

CREATE TABLE IF NOT EXISTS nostr_relay (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	url TEXT NOT NULL UNIQUE,
	relay_id TEXT,
	name TEXT,
	description TEXT,
	pubkey TEXT,
	contact TEXT,
	supported_nips TEXT,
	software TEXT,
	version TEXT,
	icon TEXT,
	data TEXT
);
CREATE TABLE IF NOT EXISTS nostr_profile (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	public_key TEXT NOT NULL UNIQUE,
	name TEXT,
	display_name TEXT,
	about TEXT,
	website TEXT,
	picture TEXT,
	banner TEXT,
	nip05 TEXT,
	lud06 TEXT,
	lud16 TEXT
);
CREATE TABLE IF NOT EXISTS nostr_profile_relay (
	tb_pr TEXT NOT NULL,
	tb_rl TEXT NOT NULL,
	PRIMARY KEY (tb_pr, tb_rl)
);
CREATE TABLE IF NOT EXISTS trade_product (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	key TEXT NOT NULL UNIQUE,
	category TEXT NOT NULL,
	title TEXT NOT NULL,
	summary TEXT NOT NULL,
	process TEXT NOT NULL,
	lot TEXT NOT NULL,
	profile TEXT NOT NULL,
	year INTEGER NOT NULL,
	qty_amt INTEGER NOT NULL,
	qty_unit TEXT NOT NULL,
	qty_label TEXT,
	qty_avail INTEGER,
	price_amt REAL NOT NULL,
	price_currency TEXT NOT NULL,
	price_qty_amt INTEGER NOT NULL,
	price_qty_unit TEXT NOT NULL,
	notes TEXT
);
CREATE TABLE IF NOT EXISTS location_gcs (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	lat REAL NOT NULL,
	lng REAL NOT NULL,
	geohash TEXT NOT NULL,
	kind TEXT NOT NULL,
	label TEXT,
	area REAL,
	elevation INTEGER,
	soil TEXT,
	climate TEXT,
	gc_id TEXT,
	gc_name TEXT,
	gc_admin1_id TEXT,
	gc_admin1_name TEXT,
	gc_country_id TEXT,
	gc_country_name TEXT
);
CREATE TABLE IF NOT EXISTS trade_product_location (
	tb_tp TEXT NOT NULL,
	tb_lg TEXT NOT NULL,
	PRIMARY KEY (tb_tp, tb_lg)
);
CREATE TABLE IF NOT EXISTS media_image (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	file_path TEXT NOT NULL,
	mime_type TEXT NOT NULL,
	res_base TEXT NOT NULL,
	res_path TEXT NOT NULL,
	label TEXT,
	description TEXT
);
CREATE TABLE IF NOT EXISTS trade_product_media (
	tb_tp TEXT NOT NULL,
	tb_mu TEXT NOT NULL,
	PRIMARY KEY (tb_tp, tb_mu)
);
`
