package bech32encoding

import (
	"bytes"
	"encoding/hex"
	"reflect"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/radroots/radroots/pkg/nostr/kind"
	"github.com/radroots/radroots/pkg/nostr/pointers"
)

func TestEncodeNpub(t *testing.T) {
	npub, err := EncodePublicKey("3bf0c63fcb93463407af97a5e5ee64fa883d107ef9e558472c4eb9aaaefa459d")
	if err != nil {
		t.Errorf("shouldn't error: %s", err)
	}
	if npub != "npub180cvv07tjdrrgpa0j7j7tmnyl2yr6yr7l8j4s3evf6u64th6gkwsyjh6w6" {
		t.Error("produced an unexpected npub string")
	}
}

func TestEncodeNsec(t *testing.T) {
	nsec, err := EncodeSecretKey("3bf0c63fcb93463407af97a5e5ee64fa883d107ef9e558472c4eb9aaaefa459d")
	if err != nil {
		t.Errorf("shouldn't error: %s", err)
	}
	if nsec != "nsec180cvv07tjdrrgpa0j7j7tmnyl2yr6yr7l8j4s3evf6u64th6gkwsgyumg0" {
		t.Error("produced an unexpected nsec string")
	}
}

func TestDecodeNpub(t *testing.T) {
	prefix, pubkey, err := DecodeKey("npub180cvv07tjdrrgpa0j7j7tmnyl2yr6yr7l8j4s3evf6u64th6gkwsyjh6w6")
	if err != nil {
		t.Errorf("shouldn't error: %s", err)
	}
	if prefix != "npub" {
		t.Error("returned invalid prefix")
	}
	if pubkey != "3bf0c63fcb93463407af97a5e5ee64fa883d107ef9e558472c4eb9aaaefa459d" {
		t.Error("returned wrong pubkey")
	}
}

func TestFailDecodeBadChecksumNpub(t *testing.T) {
	_, _, err := DecodeKey("npub180cvv07tjdrrgpa0j7j7tmnyl2yr6yr7l8j4s3evf6u64th6gkwsyjh6w4")
	if err == nil {
		t.Errorf("should have errored: %s", err)
	}
}

func TestDecodeNprofile(t *testing.T) {
	prefix, data, err := Decode("nprofile1qqsrhuxx8l9ex335q7he0f09aej04zpazpl0ne2cgukyawd24mayt8gpp4mhxue69uhhytnc9e3k7mgpz4mhxue69uhkg6nzv9ejuumpv34kytnrdaksjlyr9p")
	if err != nil {
		t.Error("failed to decode nprofile")
	}
	if prefix != "nprofile" {
		t.Error("returned invalid prefix")
	}
	pp, ok := data.(pointers.Profile)
	if !ok {
		t.Error("value returned of wrong type")
	}
	if pp.PublicKey != "3bf0c63fcb93463407af97a5e5ee64fa883d107ef9e558472c4eb9aaaefa459d" {
		t.Error("decoded invalid public key")
	}
	if len(pp.Relays) != 2 {
		t.Error("decoded wrong number of relays")
	}
	if pp.Relays[0] != "wss://r.x.com" || pp.Relays[1] != "wss://djbas.sadkb.com" {
		t.Error("decoded relay URLs wrongly")
	}
}

func TestEventPointerRoundTrip(t *testing.T) {
	ep := pointers.Event{
		ID:     "3bf0c63fcb93463407af97a5e5ee64fa883d107ef9e558472c4eb9aaaefa459d",
		Relays: []string{"wss://relay.one.example.com", "wss://relay.two.example.com"},
		Author: "79dff8f82963424e0bb02708a22e44b4980893e3a4be0fa3cb60a43b946764e3",
		Kind:   kind.ClassifiedListing,
	}
	nevent, err := EncodeEvent(ep)
	if err != nil {
		t.Fatalf("shouldn't error: %s", err)
	}
	prefix, data, err := Decode(nevent)
	if err != nil {
		t.Fatalf("failed to decode nevent: %s", err)
	}
	if prefix != "nevent" {
		t.Error("returned invalid prefix")
	}
	decoded, ok := data.(pointers.Event)
	if !ok {
		t.Fatal("value returned of wrong type")
	}
	if !reflect.DeepEqual(decoded, ep) {
		t.Errorf("pointer did not round-trip: got %v want %v", decoded, ep)
	}
}

func TestEventPointerNoRelays(t *testing.T) {
	ep := pointers.Event{
		ID:   "3bf0c63fcb93463407af97a5e5ee64fa883d107ef9e558472c4eb9aaaefa459d",
		Kind: kind.TextNote,
	}
	nevent, err := EncodeEvent(ep)
	if err != nil {
		t.Fatalf("shouldn't error: %s", err)
	}
	_, data, err := Decode(nevent)
	if err != nil {
		t.Fatalf("failed to decode nevent: %s", err)
	}
	decoded := data.(pointers.Event)
	if decoded.ID != ep.ID || decoded.Kind != ep.Kind {
		t.Error("id or kind did not survive the round trip")
	}
	if len(decoded.Relays) != 0 {
		t.Error("no relay hints were encoded, none should decode")
	}
}

func TestFailDecodeTruncatedKindTLV(t *testing.T) {
	// a well-formed id entry followed by a kind entry of only 2 bytes
	id, err := hex.DecodeString(
		"3bf0c63fcb93463407af97a5e5ee64fa883d107ef9e558472c4eb9aaaefa459d")
	if err != nil {
		t.Fatalf("shouldn't error: %s", err)
	}
	buf := &bytes.Buffer{}
	writeTLVEntry(buf, TLVDefault, id)
	writeTLVEntry(buf, TLVKind, []byte{0x76, 0xc2})
	bits5, err := bech32.ConvertBits(buf.Bytes(), 8, 5, true)
	if err != nil {
		t.Fatalf("shouldn't error: %s", err)
	}
	nevent, err := bech32.Encode(NeventHRP, bits5)
	if err != nil {
		t.Fatalf("shouldn't error: %s", err)
	}
	_, _, err = Decode(nevent)
	if err == nil {
		t.Error("a truncated kind entry should fail to decode")
	}
}

func TestFailEncodeEventShortID(t *testing.T) {
	_, err := EncodeEvent(pointers.Event{
		ID: "3bf0c63fcb93463407af97a5e5ee64fa",
	})
	if err == nil {
		t.Fatal("a 16-byte id should fail to encode")
	}
	if strings.Contains(err.Error(), "%!w") {
		t.Errorf("error message wraps a nil error: %s", err)
	}
}
