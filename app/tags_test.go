package app

import (
	"reflect"
	"testing"

	"github.com/radroots/radroots/pkg/store"
)

func bundle() *store.ListingBundle {
	return &store.ListingBundle{
		Listing: store.Listing{
			ID:            "11111111-2222-3333-4444-555555555555",
			Key:           "geisha-natural-2025",
			Category:      "coffee",
			Title:         "Geisha Natural",
			Summary:       "floral, honey",
			Process:       "natural",
			Lot:           "E-7",
			Profile:       "bright",
			Year:          2025,
			QtyAmt:        35,
			QtyUnit:       "kg",
			PriceAmt:      12.5,
			PriceCurrency: "USD",
			PriceQtyAmt:   1,
			PriceQtyUnit:  "kg",
		},
	}
}

var testClient = Attribution{
	Name:   "rootsync",
	PubKey: "3bf0c63fcb93463407af97a5e5ee64fa883d107ef9e558472c4eb9aaaefa459d",
	Relay:  "wss://relay.example.com",
}

func TestClassifiedTagsBareListing(t *testing.T) {
	ts := ClassifiedTags(bundle(), testClient)
	for _, absent := range []string{"location", "lat", "lng", "g", "image"} {
		if ts.GetFirst([]string{absent}) != nil {
			t.Errorf("listing without location/media emitted a %q tag",
				absent)
		}
	}
	d := ts.GetFirst([]string{"d"})
	if d == nil || d.Value() != "11111111-2222-3333-4444-555555555555" {
		t.Errorf("d tag = %v; want the listing id", d)
	}
	if y := ts.GetFirst([]string{"year"}); y == nil || y.Value() != "2025" {
		t.Errorf("year tag = %v; want plain decimal", y)
	}
	price := ts.GetFirst([]string{"price"})
	if price == nil ||
		!reflect.DeepEqual([]string(*price),
			[]string{"price", "12.5", "USD", "1", "kg"}) {
		t.Errorf("price tag = %v; want [price 12.5 USD 1 kg]", price)
	}
	quantity := ts.GetFirst([]string{"quantity"})
	if quantity == nil ||
		!reflect.DeepEqual([]string(*quantity),
			[]string{"quantity", "35", "kg"}) {
		t.Errorf("quantity tag = %v; no label expected", quantity)
	}
	cl := ts.GetFirst([]string{"client"})
	if cl == nil || !reflect.DeepEqual([]string(*cl),
		[]string{"client", "rootsync", testClient.PubKey,
			"wss://relay.example.com"}) {
		t.Errorf("client tag = %v", cl)
	}
}

func TestClassifiedTagsLocationAndMedia(t *testing.T) {
	b := bundle()
	b.Listing.QtyLabel = "bag"
	b.Location = &store.Location{
		Lat:           14.533,
		Lng:           -90.733,
		Geohash:       "9fxd6hu",
		GcName:        "Antigua",
		GcAdmin1Name:  "Sacatepéquez",
		GcAdmin1ID:    "GT.16",
		GcCountryName: "Guatemala",
		GcCountryID:   "GT",
	}
	b.Media = []store.MediaImage{
		{ResBase: "https://cdn.example.com", ResPath: "lots/one",
			MimeType: "jpeg"},
		{ResBase: "https://cdn.example.com", ResPath: "lots/two",
			MimeType: "webp"},
	}
	ts := ClassifiedTags(b, testClient)
	loc := ts.GetFirst([]string{"location"})
	if loc == nil || !reflect.DeepEqual([]string(*loc),
		[]string{"location", "Antigua", "Sacatepéquez", "GT.16",
			"Guatemala", "GT"}) {
		t.Errorf("location tag = %v", loc)
	}
	if lat := ts.GetFirst([]string{"lat"}); lat == nil ||
		lat.Value() != "14.533" {
		t.Errorf("lat tag = %v; want shortest decimal", lat)
	}
	if lng := ts.GetFirst([]string{"lng"}); lng == nil ||
		lng.Value() != "-90.733" {
		t.Errorf("lng tag = %v", lng)
	}
	if g := ts.GetFirst([]string{"g"}); g == nil || g.Value() != "9fxd6hu" {
		t.Errorf("g tag = %v", g)
	}
	images := ts.GetAll("image")
	if len(images) != 2 {
		t.Fatalf("got %d image tags; want 2", len(images))
	}
	if images[0].Value() != "https://cdn.example.com/lots/one.jpeg" ||
		images[1].Value() != "https://cdn.example.com/lots/two.webp" {
		t.Errorf("image urls wrong: %v", images)
	}
	quantity := ts.GetFirst([]string{"quantity"})
	if quantity == nil || !reflect.DeepEqual([]string(*quantity),
		[]string{"quantity", "35", "kg", "bag"}) {
		t.Errorf("quantity tag = %v; label expected", quantity)
	}
}

func TestClassifiedTagsStable(t *testing.T) {
	b := bundle()
	a := ClassifiedTags(b, testClient)
	c := ClassifiedTags(b, testClient)
	if !reflect.DeepEqual(a, c) {
		t.Error("composing twice for the same listing differs")
	}
}

func TestNumStr(t *testing.T) {
	if numStrF(12.5) != "12.5" {
		t.Errorf("12.5 rendered %q", numStrF(12.5))
	}
	if numStrF(12.0) != "12" {
		t.Errorf("12.0 rendered %q; padded zeros are not allowed",
			numStrF(12.0))
	}
	if numStr(123456) != "123456" {
		t.Errorf("123456 rendered %q; no separators allowed", numStr(123456))
	}
}

func TestProfileContent(t *testing.T) {
	got, err := ProfileContent(&store.Profile{Name: "finca",
		About: "coffee"})
	if err != nil {
		t.Fatalf("ProfileContent: %v", err)
	}
	if got != `{"name":"finca","about":"coffee"}` {
		t.Errorf("content = %s", got)
	}
}
