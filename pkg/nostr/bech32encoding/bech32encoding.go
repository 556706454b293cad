// Package bech32encoding implements the bech32 entity encoding used to
// reference keys, events and profiles in nostr: URIs and event content.
//
// Entities are the human readable prefix followed by either the raw 32 byte
// value (npub, nsec, note) or a TLV sequence (nprofile, nevent) carrying the
// value plus relay hints, author and kind.
package bech32encoding

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/radroots/radroots/pkg/nostr/kind"
	"github.com/radroots/radroots/pkg/nostr/pointers"
)

const (
	NoteHRP     = "note"
	NsecHRP     = "nsec"
	NpubHRP     = "npub"
	NprofileHRP = "nprofile"
	NeventHRP   = "nevent"
)

// The NIP-19 TLV type codes.
const (
	TLVDefault byte = iota
	TLVRelay
	TLVAuthor
	TLVKind
)

func writeTLVEntry(buf *bytes.Buffer, typ byte, value []byte) {
	buf.WriteByte(typ)
	buf.WriteByte(byte(len(value)))
	buf.Write(value)
}

func readTLVEntry(data []byte) (typ byte, value []byte) {
	if len(data) < 2 {
		return 0, nil
	}
	typ = data[0]
	length := int(data[1])
	if len(data) < 2+length {
		return typ, nil
	}
	value = data[2 : 2+length]
	return
}

// Decode decodes any recognized bech32 entity, returning its prefix and the
// decoded value: a hex string for npub/nsec/note, a pointers.Profile for
// nprofile or a pointers.Event for nevent.
func Decode(bech32string string) (prefix string, value any, err error) {
	var bits5 []byte
	if prefix, bits5, err = bech32.DecodeNoLimit(bech32string); err != nil {
		return
	}
	var data []byte
	if data, err = bech32.ConvertBits(bits5, 5, 8, false); err != nil {
		return prefix, nil, fmt.Errorf("failed translating data into 8 bits: %w",
			err)
	}
	switch prefix {
	case NpubHRP, NsecHRP, NoteHRP:
		if len(data) < 32 {
			return prefix, nil, fmt.Errorf("data is less than 32 bytes (%d)",
				len(data))
		}
		return prefix, hex.EncodeToString(data[0:32]), nil
	case NprofileHRP:
		var result pointers.Profile
		curr := 0
		for {
			t, v := readTLVEntry(data[curr:])
			if v == nil {
				// end here
				if result.PublicKey == "" {
					return prefix, result, fmt.Errorf("no pubkey found for nprofile")
				}
				return prefix, result, nil
			}
			switch t {
			case TLVDefault:
				if len(v) < 32 {
					return prefix, nil, fmt.Errorf("pubkey is less than 32 bytes (%d)",
						len(v))
				}
				result.PublicKey = hex.EncodeToString(v)
			case TLVRelay:
				result.Relays = append(result.Relays, string(v))
			default:
				// ignore
			}
			curr = curr + 2 + len(v)
		}
	case NeventHRP:
		var result pointers.Event
		curr := 0
		for {
			t, v := readTLVEntry(data[curr:])
			if v == nil {
				// end here
				if result.ID == "" {
					return prefix, result, fmt.Errorf("no id found for nevent")
				}
				return prefix, result, nil
			}
			switch t {
			case TLVDefault:
				if len(v) < 32 {
					return prefix, nil, fmt.Errorf("id is less than 32 bytes (%d)",
						len(v))
				}
				result.ID = hex.EncodeToString(v)
			case TLVRelay:
				result.Relays = append(result.Relays, string(v))
			case TLVAuthor:
				if len(v) < 32 {
					return prefix, nil, fmt.Errorf("author is less than 32 bytes (%d)",
						len(v))
				}
				result.Author = hex.EncodeToString(v)
			case TLVKind:
				if len(v) < 4 {
					return prefix, nil, fmt.Errorf("kind is less than 4 bytes (%d)",
						len(v))
				}
				result.Kind = kind.T(binary.BigEndian.Uint32(v))
			default:
				// ignore
			}
			curr = curr + 2 + len(v)
		}
	}
	return prefix, data, fmt.Errorf("unknown prefix %s", prefix)
}

// EncodeNote encodes a bare event id as a note entity.
func EncodeNote(eventIDHex string) (s string, err error) {
	var b []byte
	if b, err = hex.DecodeString(eventIDHex); err != nil {
		return "", fmt.Errorf("failed to decode event id hex: %w", err)
	}
	var bits5 []byte
	if bits5, err = bech32.ConvertBits(b, 8, 5, true); err != nil {
		return
	}
	return bech32.Encode(NoteHRP, bits5)
}

// EncodeProfile encodes a public key with relay hints as an nprofile entity.
func EncodeProfile(publicKeyHex string, relays []string) (s string, err error) {
	buf := &bytes.Buffer{}
	var pb []byte
	if pb, err = hex.DecodeString(publicKeyHex); err != nil {
		return "", fmt.Errorf("invalid pubkey '%s': %w", publicKeyHex, err)
	}
	writeTLVEntry(buf, TLVDefault, pb)
	for _, url := range relays {
		writeTLVEntry(buf, TLVRelay, []byte(url))
	}
	var bits5 []byte
	if bits5, err = bech32.ConvertBits(buf.Bytes(), 8, 5, true); err != nil {
		return "", fmt.Errorf("failed to convert bits: %w", err)
	}
	return bech32.Encode(NprofileHRP, bits5)
}

// EncodeEvent encodes an event pointer as an nevent entity. Relay hints are
// written in the order given; author and kind are included when present so
// the pointer is decodable back to the full reference.
func EncodeEvent(ep pointers.Event) (s string, err error) {
	buf := &bytes.Buffer{}
	var id []byte
	if id, err = hex.DecodeString(ep.ID); err != nil {
		return "", fmt.Errorf("invalid id '%s': %w", ep.ID, err)
	}
	if len(id) != 32 {
		return "", fmt.Errorf("id '%s' is %d bytes, expected 32", ep.ID, len(id))
	}
	writeTLVEntry(buf, TLVDefault, id)
	for _, url := range ep.Relays {
		writeTLVEntry(buf, TLVRelay, []byte(url))
	}
	if pubkey, _ := hex.DecodeString(ep.Author); len(pubkey) == 32 {
		writeTLVEntry(buf, TLVAuthor, pubkey)
	}
	if ep.Kind != 0 {
		kindBytes := make([]byte, 4)
		binary.BigEndian.PutUint32(kindBytes, uint32(ep.Kind))
		writeTLVEntry(buf, TLVKind, kindBytes)
	}
	var bits5 []byte
	if bits5, err = bech32.ConvertBits(buf.Bytes(), 8, 5, true); err != nil {
		return "", fmt.Errorf("failed to convert bits: %w", err)
	}
	return bech32.Encode(NeventHRP, bits5)
}
