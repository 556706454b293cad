// Package relayinfo fetches and represents the NIP-11 relay information
// document that relays serve over HTTP when asked with the
// application/nostr+json accept header.
package relayinfo

import (
	"encoding/json"
)

// Limits specifies the various restrictions and limitations that apply to
// interactions with a given relay.
type Limits struct {
	MaxMessageLength int  `json:"max_message_length,omitempty"`
	MaxSubscriptions int  `json:"max_subscriptions,omitempty"`
	MaxFilters       int  `json:"max_filters,omitempty"`
	MaxLimit         int  `json:"max_limit,omitempty"`
	MaxSubidLength   int  `json:"max_subid_length,omitempty"`
	MaxEventTags     int  `json:"max_event_tags,omitempty"`
	MaxContentLength int  `json:"max_content_length,omitempty"`
	MinPowDifficulty int  `json:"min_pow_difficulty,omitempty"`
	AuthRequired     bool `json:"auth_required"`
	PaymentRequired  bool `json:"payment_required"`
	RestrictedWrites bool `json:"restricted_writes"`
}

// T provides the information for a relay on the network as regards to
// versions, NIP support, contact, policies, and payment requirements.
type T struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	PubKey        string  `json:"pubkey"`
	Contact       string  `json:"contact"`
	SupportedNIPs []int   `json:"supported_nips"`
	Software      string  `json:"software"`
	Version       string  `json:"version"`
	Limitation    *Limits `json:"limitation,omitempty"`
	PostingPolicy string  `json:"posting_policy,omitempty"`
	PaymentsURL   string  `json:"payments_url,omitempty"`
	Icon          string  `json:"icon"`

	// Raw holds the document as served, some relays use nonstandard field
	// names that the typed fields above miss.
	Raw json.RawMessage `json:"-"`
}

// HasNIP reports whether the document advertises support for a NIP number.
func (ri *T) HasNIP(n int) (ok bool) {
	for i := range ri.SupportedNIPs {
		if ri.SupportedNIPs[i] == n {
			return true
		}
	}
	return
}
