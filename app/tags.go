package app

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/radroots/radroots/pkg/nostr/tag"
	"github.com/radroots/radroots/pkg/nostr/tags"
	"github.com/radroots/radroots/pkg/store"
)

// Attribution identifies the publishing client in the client tag.
type Attribution struct {
	Name   string
	PubKey string
	Relay  string
}

// Tag renders the client attribution tag, omitting empty trailing values.
func (a Attribution) Tag() tag.T {
	t := tag.T{"client", a.Name}
	if a.PubKey != "" {
		t = append(t, a.PubKey)
		if a.Relay != "" {
			t = append(t, a.Relay)
		}
	}
	return t
}

// numStr renders an integer as a plain decimal string.
func numStr(n int64) string { return strconv.FormatInt(n, 10) }

// numStrF renders a float with the shortest exact decimal form, no locale
// formatting and no padded zeros.
func numStrF(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

// ClassifiedTags builds the tag set of a classified listing event from a
// listing bundle. The d tag is the listing's local id, which makes the
// remote event replaceable under the same identifier. Absent optionals
// (no location, no media) contribute no tags at all.
func ClassifiedTags(b *store.ListingBundle, client Attribution) tags.T {
	l := &b.Listing
	ts := tags.T{
		tag.T{"d", l.ID},
		client.Tag(),
		tag.T{"t", l.Category},
		tag.T{"title", l.Title},
		tag.T{"summary", l.Summary},
		tag.T{"process", l.Process},
		tag.T{"lot", l.Lot},
		tag.T{"profile", l.Profile},
		tag.T{"year", numStr(l.Year)},
	}
	quantity := tag.T{"quantity", numStr(l.QtyAmt), l.QtyUnit}
	if l.QtyLabel != "" {
		quantity = append(quantity, l.QtyLabel)
	}
	ts = append(ts, quantity)
	ts = append(ts, tag.T{"price", numStrF(l.PriceAmt), l.PriceCurrency,
		numStr(l.PriceQtyAmt), l.PriceQtyUnit})
	if lc := b.Location; lc != nil {
		ts = append(ts,
			tag.T{"location", lc.GcName, lc.GcAdmin1Name, lc.GcAdmin1ID,
				lc.GcCountryName, lc.GcCountryID},
			tag.T{"lat", numStrF(lc.Lat)},
			tag.T{"lng", numStrF(lc.Lng)},
			tag.T{"g", lc.Geohash},
		)
	}
	for _, m := range b.Media {
		ts = append(ts, tag.T{"image", MediaURL(&m)})
	}
	return ts
}

// MediaURL assembles the public URL of a media image.
func MediaURL(m *store.MediaImage) string {
	return fmt.Sprintf("%s/%s.%s", m.ResBase, m.ResPath, m.MimeType)
}

// MetadataTags builds the minimal tag set of a profile metadata event.
func MetadataTags(client Attribution) tags.T {
	return tags.T{client.Tag()}
}

// ProfileContent projects the profile row onto the metadata event content,
// the JSON body of a kind 0 event. Empty fields are omitted.
func ProfileContent(p *store.Profile) (string, error) {
	type metadata struct {
		Name        string `json:"name,omitempty"`
		DisplayName string `json:"display_name,omitempty"`
		About       string `json:"about,omitempty"`
		Website     string `json:"website,omitempty"`
		Picture     string `json:"picture,omitempty"`
		Banner      string `json:"banner,omitempty"`
		NIP05       string `json:"nip05,omitempty"`
		LUD06       string `json:"lud06,omitempty"`
		LUD16       string `json:"lud16,omitempty"`
	}
	b, err := json.Marshal(metadata{
		Name:        p.Name,
		DisplayName: p.DisplayName,
		About:       p.About,
		Website:     p.Website,
		Picture:     p.Picture,
		Banner:      p.Banner,
		NIP05:       p.NIP05,
		LUD06:       p.LUD06,
		LUD16:       p.LUD16,
	})
	if err != nil {
		return "", err
	}
	return string(b), nil
}
