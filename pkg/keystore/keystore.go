// Package keystore holds the signing identity on disk: a single secret key
// file, mode 0600, accepted as nsec or raw hex.
package keystore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/radroots/radroots/pkg/nostr/bech32encoding"
	"github.com/radroots/radroots/pkg/nostr/event"
	"github.com/radroots/radroots/pkg/nostr/keys"
	"github.com/radroots/radroots/pkg/slog"
)

var log, chk = slog.New(os.Stderr)

// ErrNoIdentity is returned when the key file does not exist yet.
var ErrNoIdentity = errors.New("keystore: no signing identity")

// T is a loaded signing identity.
type T struct {
	path      string
	secretKey string
	publicKey string
}

func keyFile(dir string) string { return filepath.Join(dir, "identity.key") }

// Load reads the identity from dir.
func Load(dir string) (ks *T, err error) {
	var b []byte
	if b, err = os.ReadFile(keyFile(dir)); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoIdentity
		}
		return
	}
	return fromSecret(keyFile(dir), strings.TrimSpace(string(b)))
}

// Generate creates a fresh identity and writes it under dir.
func Generate(dir string) (ks *T, err error) {
	return write(dir, keys.GeneratePrivateKey())
}

// Import accepts an nsec or 64-char hex secret key and writes it under dir,
// replacing any existing identity.
func Import(dir, sec string) (ks *T, err error) {
	sec = strings.TrimSpace(sec)
	if strings.HasPrefix(sec, bech32encoding.NsecHRP) {
		var hrp, hexSec string
		if hrp, hexSec, err = bech32encoding.DecodeKey(sec); chk.E(err) {
			return
		}
		if hrp != bech32encoding.NsecHRP {
			return nil, fmt.Errorf("expected an nsec, got %s", hrp)
		}
		sec = hexSec
	}
	if !keys.IsValid32ByteHex(sec) {
		return nil, errors.New("secret key is not nsec or 64-char hex")
	}
	return write(dir, sec)
}

func write(dir, sec string) (ks *T, err error) {
	if err = os.MkdirAll(dir, 0700); chk.E(err) {
		return
	}
	path := keyFile(dir)
	if err = os.WriteFile(path, []byte(sec+"\n"), 0600); chk.E(err) {
		return
	}
	log.I.F("wrote signing identity to %s", path)
	return fromSecret(path, sec)
}

func fromSecret(path, sec string) (ks *T, err error) {
	if !keys.IsValid32ByteHex(sec) {
		return nil, fmt.Errorf("malformed key file %s", path)
	}
	var pub string
	if pub, err = keys.GetPublicKey(sec); chk.E(err) {
		return
	}
	return &T{path: path, secretKey: sec, publicKey: pub}, nil
}

// PublicKey returns the hex public key of the identity.
func (ks *T) PublicKey() string { return ks.publicKey }

// Npub returns the bech32 form of the public key.
func (ks *T) Npub() (npub string, err error) {
	return bech32encoding.EncodePublicKey(ks.publicKey)
}

// Nsec returns the bech32 form of the secret key.
func (ks *T) Nsec() (nsec string, err error) {
	return bech32encoding.EncodeSecretKey(ks.secretKey)
}

// Sign fills the event's pubkey, id and signature.
func (ks *T) Sign(ev *event.T) (err error) {
	return ev.Sign(ks.secretKey)
}
