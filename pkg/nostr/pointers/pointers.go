// Package pointers defines the decoded forms of the bech32 encoded entity
// references used in nostr: URIs and event content.
package pointers

import (
	"github.com/radroots/radroots/pkg/nostr/kind"
)

// Profile is a reference to a user by public key with optional relay hints.
type Profile struct {
	PublicKey string   `json:"pubkey"`
	Relays    []string `json:"relays,omitempty"`
}

// Event is a reference to an event by id, with best-effort, order-preserving
// relay hints, and optionally the author public key and the event kind.
type Event struct {
	ID     string   `json:"id"`
	Relays []string `json:"relays,omitempty"`
	Author string   `json:"author,omitempty"`
	Kind   kind.T   `json:"kind,omitempty"`
}
