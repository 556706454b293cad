package store

import (
	"database/sql"
	"errors"
	"fmt"
)

const listingSelect = `SELECT id, created_at, updated_at, key, category,
	title, summary, process, lot, profile, year, qty_amt, qty_unit,
	COALESCE(qty_label,''), COALESCE(qty_avail,0), price_amt, price_currency,
	price_qty_amt, price_qty_unit, COALESCE(notes,'')
	FROM trade_product`

const locationSelect = `SELECT id, created_at, updated_at, lat, lng, geohash,
	kind, COALESCE(label,''), COALESCE(area,0), COALESCE(elevation,0),
	COALESCE(soil,''), COALESCE(climate,''), COALESCE(gc_id,''),
	COALESCE(gc_name,''), COALESCE(gc_admin1_id,''),
	COALESCE(gc_admin1_name,''), COALESCE(gc_country_id,''),
	COALESCE(gc_country_name,'')
	FROM location_gcs`

const mediaSelect = `SELECT id, created_at, updated_at, file_path, mime_type,
	res_base, res_path, COALESCE(label,''), COALESCE(description,'')
	FROM media_image`

func scanListing(row interface{ Scan(...any) error }) (l *Listing, err error) {
	l = &Listing{}
	if err = row.Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt, &l.Key, &l.Category,
		&l.Title, &l.Summary, &l.Process, &l.Lot, &l.Profile, &l.Year,
		&l.QtyAmt, &l.QtyUnit, &l.QtyLabel, &l.QtyAvail, &l.PriceAmt,
		&l.PriceCurrency, &l.PriceQtyAmt, &l.PriceQtyUnit,
		&l.Notes); err != nil {
		return nil, err
	}
	return
}

func scanLocation(row interface{ Scan(...any) error }) (lc *Location,
	err error) {

	lc = &Location{}
	if err = row.Scan(&lc.ID, &lc.CreatedAt, &lc.UpdatedAt, &lc.Lat, &lc.Lng,
		&lc.Geohash, &lc.Kind, &lc.Label, &lc.Area, &lc.Elevation, &lc.Soil,
		&lc.Climate, &lc.GcID, &lc.GcName, &lc.GcAdmin1ID, &lc.GcAdmin1Name,
		&lc.GcCountryID, &lc.GcCountryName); err != nil {
		return nil, err
	}
	return
}

func scanMedia(row interface{ Scan(...any) error }) (m *MediaImage,
	err error) {

	m = &MediaImage{}
	if err = row.Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt, &m.FilePath,
		&m.MimeType, &m.ResBase, &m.ResPath, &m.Label,
		&m.Description); err != nil {
		return nil, err
	}
	return
}

// CreateListing inserts a trade product row, returning the new row id. The
// listing key must be unique.
func (s *T) CreateListing(l *Listing) (id string, err error) {
	id = newID()
	ts := now()
	if _, err = s.db.Exec(
		`INSERT INTO trade_product (id, created_at, updated_at, key,
		category, title, summary, process, lot, profile, year, qty_amt,
		qty_unit, qty_label, qty_avail, price_amt, price_currency,
		price_qty_amt, price_qty_unit, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, ts, ts, l.Key, l.Category, l.Title, l.Summary, l.Process, l.Lot,
		l.Profile, l.Year, l.QtyAmt, l.QtyUnit, l.QtyLabel, l.QtyAvail,
		l.PriceAmt, l.PriceCurrency, l.PriceQtyAmt, l.PriceQtyUnit,
		l.Notes); err != nil {
		return "", fmt.Errorf("failed to create listing %s: %w", l.Key, err)
	}
	return
}

// ListingByKey looks a listing up by its stable key.
func (s *T) ListingByKey(key string) (l *Listing, err error) {
	l, err = scanListing(s.db.QueryRow(listingSelect+` WHERE key = ?`, key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return
}

// Listings lists every trade product ordered by key.
func (s *T) Listings() (listings []*Listing, err error) {
	var rows *sql.Rows
	if rows, err = s.db.Query(listingSelect + ` ORDER BY key`); chk.E(err) {
		return
	}
	defer rows.Close()
	for rows.Next() {
		var l *Listing
		if l, err = scanListing(rows); chk.E(err) {
			return
		}
		listings = append(listings, l)
	}
	err = rows.Err()
	return
}

// CreateLocation inserts a location row, returning the new row id.
func (s *T) CreateLocation(lc *Location) (id string, err error) {
	id = newID()
	ts := now()
	if _, err = s.db.Exec(
		`INSERT INTO location_gcs (id, created_at, updated_at, lat, lng,
		geohash, kind, label, area, elevation, soil, climate, gc_id, gc_name,
		gc_admin1_id, gc_admin1_name, gc_country_id, gc_country_name)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, ts, ts, lc.Lat, lc.Lng, lc.Geohash, lc.Kind, lc.Label, lc.Area,
		lc.Elevation, lc.Soil, lc.Climate, lc.GcID, lc.GcName, lc.GcAdmin1ID,
		lc.GcAdmin1Name, lc.GcCountryID, lc.GcCountryName); err != nil {
		return "", fmt.Errorf("failed to create location: %w", err)
	}
	return
}

// CreateMedia inserts a media image row, returning the new row id.
func (s *T) CreateMedia(m *MediaImage) (id string, err error) {
	id = newID()
	ts := now()
	if _, err = s.db.Exec(
		`INSERT INTO media_image (id, created_at, updated_at, file_path,
		mime_type, res_base, res_path, label, description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, ts, ts, m.FilePath, m.MimeType, m.ResBase, m.ResPath, m.Label,
		m.Description); err != nil {
		return "", fmt.Errorf("failed to create media image: %w", err)
	}
	return
}

// LinkListingLocation joins a listing to a location. Repeat links are
// ignored.
func (s *T) LinkListingLocation(listingID, locationID string) (err error) {
	_, err = s.db.Exec(`INSERT OR IGNORE INTO trade_product_location
		(tb_tp, tb_lg) VALUES (?, ?)`, listingID, locationID)
	return
}

// LinkListingMedia joins a listing to a media image. Repeat links are
// ignored.
func (s *T) LinkListingMedia(listingID, mediaID string) (err error) {
	_, err = s.db.Exec(`INSERT OR IGNORE INTO trade_product_media
		(tb_tp, tb_mu) VALUES (?, ?)`, listingID, mediaID)
	return
}

// ReadLocation resolves the location linked to a listing, ErrNotFound when
// the listing carries none.
func (s *T) ReadLocation(listingID string) (lc *Location, err error) {
	lc, err = scanLocation(s.db.QueryRow(locationSelect+
		` WHERE id = (SELECT tb_lg FROM trade_product_location
			WHERE tb_tp = ?)`, listingID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return
}

// ReadMedia lists the media images linked to a listing in insertion order.
func (s *T) ReadMedia(listingID string) (media []*MediaImage, err error) {
	var rows *sql.Rows
	if rows, err = s.db.Query(mediaSelect+
		` WHERE id IN (SELECT tb_mu FROM trade_product_media WHERE tb_tp = ?)
		ORDER BY created_at, id`, listingID); chk.E(err) {
		return
	}
	defer rows.Close()
	for rows.Next() {
		var m *MediaImage
		if m, err = scanMedia(rows); chk.E(err) {
			return
		}
		media = append(media, m)
	}
	err = rows.Err()
	return
}

// ReadListings assembles every listing with its linked location and media.
func (s *T) ReadListings() (bundles []*ListingBundle, err error) {
	var listings []*Listing
	if listings, err = s.Listings(); err != nil {
		return
	}
	for _, l := range listings {
		b := &ListingBundle{Listing: *l}
		var lc *Location
		if lc, err = s.ReadLocation(l.ID); err == nil {
			b.Location = lc
		} else if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		var media []*MediaImage
		if media, err = s.ReadMedia(l.ID); err != nil {
			return nil, err
		}
		for _, m := range media {
			b.Media = append(b.Media, *m)
		}
		bundles = append(bundles, b)
	}
	err = nil
	return
}
