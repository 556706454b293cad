package bech32encoding

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

const (
	// MinKeyStringLen is 56 because Bech32 needs 52 characters plus 4 for the
	// HRP, any string shorter than this cannot be a nostr key.
	MinKeyStringLen = 56
	HexKeyLen       = 64
)

// ConvertForBech32 performs the bit expansion required for encoding into
// Bech32.
func ConvertForBech32(b8 []byte) (b5 []byte, err error) {
	return bech32.ConvertBits(b8, 8, 5, true)
}

// ConvertFromBech32 collapses together the bit expanded 5 bit numbers encoded
// in bech32.
func ConvertFromBech32(b5 []byte) (b8 []byte, err error) {
	return bech32.ConvertBits(b5, 5, 8, false)
}

// EncodeSecretKey encodes a hex secret key as a Bech32 string (nsec).
func EncodeSecretKey(skHex string) (encoded string, err error) {
	return encodeKey(NsecHRP, skHex)
}

// EncodePublicKey encodes a hex public key as a Bech32 string (npub).
func EncodePublicKey(pkHex string) (encoded string, err error) {
	return encodeKey(NpubHRP, pkHex)
}

func encodeKey(hrp, keyHex string) (encoded string, err error) {
	if len(keyHex) != HexKeyLen {
		return "", fmt.Errorf("key is %d characters, must be %d",
			len(keyHex), HexKeyLen)
	}
	var b []byte
	if b, err = hex.DecodeString(keyHex); err != nil {
		return "", fmt.Errorf("invalid key hex: %w", err)
	}
	var b5 []byte
	if b5, err = ConvertForBech32(b); err != nil {
		return
	}
	return bech32.Encode(hrp, b5)
}

// DecodeKey decodes an npub or nsec entity to the hex form of the key,
// returning also which human readable prefix it carried.
func DecodeKey(encoded string) (hrp, keyHex string, err error) {
	if len(encoded) < MinKeyStringLen {
		return "", "", fmt.Errorf("key string too short: %d", len(encoded))
	}
	var b5, b8 []byte
	if hrp, b5, err = bech32.DecodeNoLimit(encoded); err != nil {
		return
	}
	if hrp != NsecHRP && hrp != NpubHRP {
		return hrp, "", fmt.Errorf("wrong human readable part, got '%s'", hrp)
	}
	if b8, err = ConvertFromBech32(b5); err != nil {
		return
	}
	if len(b8) < 32 {
		return hrp, "", fmt.Errorf("key is less than 32 bytes (%d)", len(b8))
	}
	return hrp, hex.EncodeToString(b8[:32]), nil
}
