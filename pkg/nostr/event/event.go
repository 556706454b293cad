// Package event defines the wire form of a protocol event, its canonical
// serialization for identity hashing, and schnorr signing and verification
// over that canonical form.
package event

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/minio/sha256-simd"
	"github.com/radroots/radroots/pkg/nostr/kind"
	"github.com/radroots/radroots/pkg/nostr/tags"
	"github.com/radroots/radroots/pkg/nostr/timestamp"
)

// T is an event under construction or on the wire. ID, PubKey and Sig are
// empty until the signing step completes them.
type T struct {
	ID        string      `json:"id"`
	PubKey    string      `json:"pubkey"`
	CreatedAt timestamp.T `json:"created_at"`
	Kind      kind.T      `json:"kind"`
	Tags      tags.T      `json:"tags"`
	Content   string      `json:"content"`
	Sig       string      `json:"sig"`
}

// Serialize outputs a byte array that can be hashed and signed to identify
// and authenticate the event. JSON encoding as defined in RFC8259, array form
// as per NIP-01: [0,"pubkey",created_at,kind,tags,content].
func (ev *T) Serialize() []byte {
	dst := make([]byte, 0, 256)
	dst = append(dst, []byte(
		fmt.Sprintf("[0,\"%s\",%d,%d,", ev.PubKey, ev.CreatedAt, ev.Kind))...)
	if ev.Tags == nil {
		dst = append(dst, '[', ']')
	} else {
		dst = ev.Tags.MarshalTo(dst)
	}
	dst = append(dst, ',')
	dst = appendEscapedString(dst, ev.Content)
	dst = append(dst, ']')
	return dst
}

// GetID serializes the event and returns the hex encoded hash of the
// canonical form. The receiver is not mutated.
func (ev *T) GetID() string {
	h := sha256.Sum256(ev.Serialize())
	return hex.EncodeToString(h[:])
}

// Sign signs the event with the given hex private key, filling in PubKey, ID
// and Sig. The id is computed over the serialization at the time of the call,
// so content must be final before signing.
func (ev *T) Sign(privateKey string) error {
	s, err := hex.DecodeString(privateKey)
	if err != nil {
		return fmt.Errorf("sign called with invalid private key: %w", err)
	}
	if ev.Tags == nil {
		ev.Tags = make(tags.T, 0)
	}
	sk, pk := btcec.PrivKeyFromBytes(s)
	ev.PubKey = hex.EncodeToString(schnorr.SerializePubKey(pk))
	h := sha256.Sum256(ev.Serialize())
	sig, err := schnorr.Sign(sk, h[:])
	if err != nil {
		return err
	}
	ev.ID = hex.EncodeToString(h[:])
	ev.Sig = hex.EncodeToString(sig.Serialize())
	return nil
}

// CheckSignature verifies the signature against the hash of the canonical
// serialization. Returns an error if the signature or pubkey themselves are
// malformed.
func (ev *T) CheckSignature() (bool, error) {
	pk, err := hex.DecodeString(ev.PubKey)
	if err != nil {
		return false, fmt.Errorf("event pubkey '%s' is invalid hex: %w",
			ev.PubKey, err)
	}
	pubkey, err := schnorr.ParsePubKey(pk)
	if err != nil {
		return false, fmt.Errorf("event has invalid pubkey '%s': %w",
			ev.PubKey, err)
	}
	s, err := hex.DecodeString(ev.Sig)
	if err != nil {
		return false, fmt.Errorf("signature '%s' is invalid hex: %w",
			ev.Sig, err)
	}
	sig, err := schnorr.ParseSignature(s)
	if err != nil {
		return false, fmt.Errorf("failed to parse signature: %w", err)
	}
	hash := sha256.Sum256(ev.Serialize())
	return sig.Verify(hash[:], pubkey), nil
}

// appendEscapedString appends s as a JSON string to dst, escaping according
// to RFC8259. Content is user generated so it must be escaped in general.
func appendEscapedString(dst []byte, s string) []byte {
	dst = append(dst, '"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			dst = append(dst, []byte{'\\', '"'}...)
		case c == '\\':
			dst = append(dst, []byte{'\\', '\\'}...)
		case c >= 0x20:
			dst = append(dst, c)
		case c == 0x08:
			dst = append(dst, []byte{'\\', 'b'}...)
		case c < 0x09:
			dst = append(dst, []byte{'\\', 'u', '0', '0', '0', '0' + c}...)
		case c == 0x09:
			dst = append(dst, []byte{'\\', 't'}...)
		case c == 0x0a:
			dst = append(dst, []byte{'\\', 'n'}...)
		case c == 0x0c:
			dst = append(dst, []byte{'\\', 'f'}...)
		case c == 0x0d:
			dst = append(dst, []byte{'\\', 'r'}...)
		case c < 0x10:
			dst = append(dst, []byte{'\\', 'u', '0', '0', '0', 0x57 + c}...)
		case c < 0x1a:
			dst = append(dst, []byte{'\\', 'u', '0', '0', '1', 0x20 + c}...)
		case c < 0x20:
			dst = append(dst, []byte{'\\', 'u', '0', '0', '1', 0x47 + c}...)
		}
	}
	dst = append(dst, '"')
	return dst
}
