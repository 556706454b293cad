package store

import (
	"database/sql"
	"errors"
	"fmt"
)

const profileSelect = `SELECT id, created_at, updated_at, public_key,
	COALESCE(name,''), COALESCE(display_name,''), COALESCE(about,''),
	COALESCE(website,''), COALESCE(picture,''), COALESCE(banner,''),
	COALESCE(nip05,''), COALESCE(lud06,''), COALESCE(lud16,'')
	FROM nostr_profile`

func scanProfile(row interface{ Scan(...any) error }) (p *Profile, err error) {
	p = &Profile{}
	if err = row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt, &p.PublicKey,
		&p.Name, &p.DisplayName, &p.About, &p.Website, &p.Picture, &p.Banner,
		&p.NIP05, &p.LUD06, &p.LUD16); err != nil {
		return nil, err
	}
	return
}

// SaveProfile inserts or updates the profile row keyed by public key and
// returns its row id.
func (s *T) SaveProfile(p *Profile) (id string, err error) {
	existing, err := s.ReadProfile(p.PublicKey)
	switch {
	case err == nil:
		id = existing.ID
		if _, err = s.db.Exec(
			`UPDATE nostr_profile SET updated_at = ?, name = ?,
			display_name = ?, about = ?, website = ?, picture = ?,
			banner = ?, nip05 = ?, lud06 = ?, lud16 = ?
			WHERE public_key = ?`,
			now(), p.Name, p.DisplayName, p.About, p.Website, p.Picture,
			p.Banner, p.NIP05, p.LUD06, p.LUD16, p.PublicKey); chk.E(err) {
			return "", err
		}
	case errors.Is(err, ErrNotFound):
		id = newID()
		ts := now()
		if _, err = s.db.Exec(
			`INSERT INTO nostr_profile (id, created_at, updated_at,
			public_key, name, display_name, about, website, picture, banner,
			nip05, lud06, lud16)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, ts, ts, p.PublicKey, p.Name, p.DisplayName, p.About,
			p.Website, p.Picture, p.Banner, p.NIP05, p.LUD06,
			p.LUD16); chk.E(err) {
			return "", err
		}
	default:
		return "", fmt.Errorf("failed to save profile: %w", err)
	}
	return
}

// ReadProfile looks a profile up by its public key.
func (s *T) ReadProfile(pubkey string) (p *Profile, err error) {
	p, err = scanProfile(s.db.QueryRow(profileSelect+
		` WHERE public_key = ?`, pubkey))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return
}
