package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("store: not found")

// relayColumns is the closed set of nostr_relay columns the poller may
// update from a mapped relay information document.
var relayColumns = map[string]struct{}{
	"relay_id":       {},
	"name":           {},
	"description":    {},
	"pubkey":         {},
	"contact":        {},
	"supported_nips": {},
	"software":       {},
	"version":        {},
	"icon":           {},
	"data":           {},
}

const relaySelect = `SELECT id, created_at, updated_at, url,
	COALESCE(relay_id,''), COALESCE(name,''), COALESCE(description,''),
	COALESCE(pubkey,''), COALESCE(contact,''), COALESCE(supported_nips,''),
	COALESCE(software,''), COALESCE(version,''), COALESCE(icon,''),
	COALESCE(data,'')
	FROM nostr_relay`

func scanRelay(row interface{ Scan(...any) error }) (r *Relay, err error) {
	r = &Relay{}
	if err = row.Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt, &r.URL, &r.RelayID,
		&r.Name, &r.Description, &r.PubKey, &r.Contact, &r.SupportedNIPs,
		&r.Software, &r.Version, &r.Icon, &r.Data); err != nil {
		return nil, err
	}
	return
}

// CreateRelay inserts a relay row for url, returning the new row id. The url
// must not already be present.
func (s *T) CreateRelay(url string) (id string, err error) {
	id = newID()
	ts := now()
	if _, err = s.db.Exec(
		`INSERT INTO nostr_relay (id, created_at, updated_at, url)
		VALUES (?, ?, ?, ?)`, id, ts, ts, url); err != nil {
		return "", fmt.Errorf("failed to create relay %s: %w", url, err)
	}
	return
}

// EnsureRelay returns the row id for url, inserting the row when missing.
func (s *T) EnsureRelay(url string) (id string, err error) {
	var r *Relay
	if r, err = s.RelayByURL(url); err == nil {
		return r.ID, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return
	}
	return s.CreateRelay(url)
}

// RelayByURL looks a relay up by its address.
func (s *T) RelayByURL(url string) (r *Relay, err error) {
	r, err = scanRelay(s.db.QueryRow(relaySelect+` WHERE url = ?`, url))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return
}

// Relays lists every known relay ordered by url.
func (s *T) Relays() (relays []*Relay, err error) {
	var rows *sql.Rows
	if rows, err = s.db.Query(relaySelect + ` ORDER BY url`); chk.E(err) {
		return
	}
	defer rows.Close()
	for rows.Next() {
		var r *Relay
		if r, err = scanRelay(rows); chk.E(err) {
			return
		}
		relays = append(relays, r)
	}
	err = rows.Err()
	return
}

// UpdateRelay applies mapped document fields to the relay row keyed by url.
// Column names outside the closed relay column set are rejected. An empty
// field map is a no-op.
func (s *T) UpdateRelay(url string, fields map[string]string) (err error) {
	if len(fields) == 0 {
		return
	}
	cols := make([]string, 0, len(fields))
	for col := range fields {
		if _, ok := relayColumns[col]; !ok {
			return fmt.Errorf("unknown relay column %q", col)
		}
		cols = append(cols, col)
	}
	sort.Strings(cols)
	q := `UPDATE nostr_relay SET updated_at = ?`
	args := []any{now()}
	for _, col := range cols {
		q += `, ` + col + ` = ?`
		args = append(args, fields[col])
	}
	q += ` WHERE url = ?`
	args = append(args, url)
	var res sql.Result
	if res, err = s.db.Exec(q, args...); chk.E(err) {
		return
	}
	var n int64
	if n, err = res.RowsAffected(); chk.E(err) {
		return
	}
	if n == 0 {
		return fmt.Errorf("%w: relay %s", ErrNotFound, url)
	}
	return
}

// LinkProfileRelay joins the profile with public key pubkey to the relay at
// url. Both rows must exist. Repeat links are ignored.
func (s *T) LinkProfileRelay(pubkey, url string) (err error) {
	if _, err = s.db.Exec(
		`INSERT OR IGNORE INTO nostr_profile_relay (tb_pr, tb_rl) VALUES (
			(SELECT id FROM nostr_profile WHERE public_key = ?),
			(SELECT id FROM nostr_relay WHERE url = ?))`,
		pubkey, url); err != nil {
		return fmt.Errorf("failed to link profile to relay %s: %w", url, err)
	}
	return
}

// UnlinkProfileRelay removes the join between a profile and a relay.
func (s *T) UnlinkProfileRelay(pubkey, url string) (err error) {
	_, err = s.db.Exec(
		`DELETE FROM nostr_profile_relay WHERE
			tb_pr = (SELECT id FROM nostr_profile WHERE public_key = ?) AND
			tb_rl = (SELECT id FROM nostr_relay WHERE url = ?)`,
		pubkey, url)
	return
}

// ReadRelays lists the relays linked to the profile with the given public
// key. An empty result is not an error here, callers decide what an empty
// relay set means.
func (s *T) ReadRelays(pubkey string) (relays []*Relay, err error) {
	var rows *sql.Rows
	if rows, err = s.db.Query(relaySelect+
		` WHERE id IN (SELECT tb_rl FROM nostr_profile_relay WHERE
			tb_pr = (SELECT id FROM nostr_profile WHERE public_key = ?))
		ORDER BY url`, pubkey); chk.E(err) {
		return
	}
	defer rows.Close()
	for rows.Next() {
		var r *Relay
		if r, err = scanRelay(rows); chk.E(err) {
			return
		}
		relays = append(relays, r)
	}
	err = rows.Err()
	return
}
