package store

// Relay is a row of the nostr_relay table: a relay URL plus whatever its
// NIP-11 information document reported the last time it was polled. Optional
// columns are empty strings when never filled.
type Relay struct {
	ID            string
	CreatedAt     string
	UpdatedAt     string
	URL           string
	RelayID       string
	Name          string
	Description   string
	PubKey        string
	Contact       string
	SupportedNIPs string
	Software      string
	Version       string
	Icon          string
	Data          string
}

// Profile is a row of the nostr_profile table, the kind-0 metadata fields of
// a signing identity.
type Profile struct {
	ID          string
	CreatedAt   string
	UpdatedAt   string
	PublicKey   string
	Name        string
	DisplayName string
	About       string
	Website     string
	Picture     string
	Banner      string
	NIP05       string
	LUD06       string
	LUD16       string
}

// Listing is a row of the trade_product table. Key is the human-facing
// listing handle; the row id is what the replaceable event d tag carries.
type Listing struct {
	ID            string
	CreatedAt     string
	UpdatedAt     string
	Key           string
	Category      string
	Title         string
	Summary       string
	Process       string
	Lot           string
	Profile       string
	Year          int64
	QtyAmt        int64
	QtyUnit       string
	QtyLabel      string
	QtyAvail      int64
	PriceAmt      float64
	PriceCurrency string
	PriceQtyAmt   int64
	PriceQtyUnit  string
	Notes         string
}

// Location is a row of the location_gcs table: a coordinate with geohash and
// reverse-geocode columns.
type Location struct {
	ID            string
	CreatedAt     string
	UpdatedAt     string
	Lat           float64
	Lng           float64
	Geohash       string
	Kind          string
	Label         string
	Area          float64
	Elevation     int64
	Soil          string
	Climate       string
	GcID          string
	GcName        string
	GcAdmin1ID    string
	GcAdmin1Name  string
	GcCountryID   string
	GcCountryName string
}

// MediaImage is a row of the media_image table. ResBase/ResPath/MimeType
// assemble into the public image URL.
type MediaImage struct {
	ID          string
	CreatedAt   string
	UpdatedAt   string
	FilePath    string
	MimeType    string
	ResBase     string
	ResPath     string
	Label       string
	Description string
}

// ListingBundle is a listing joined with its linked location and media rows,
// everything the tag composer needs for one classified event.
type ListingBundle struct {
	Listing  Listing
	Location *Location
	Media    []MediaImage
}
