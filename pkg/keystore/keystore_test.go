package keystore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/radroots/radroots/pkg/nostr/event"
	"github.com/radroots/radroots/pkg/nostr/kind"
)

func TestGenerateLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	ks, err := Generate(dir)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if ks.PublicKey() == "" {
		t.Fatal("generated identity has no public key")
	}
	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.PublicKey() != ks.PublicKey() {
		t.Error("loaded identity differs from generated one")
	}
	fi, err := os.Stat(filepath.Join(dir, "identity.key"))
	if err != nil {
		t.Fatalf("stat key file: %v", err)
	}
	if fi.Mode().Perm() != 0600 {
		t.Errorf("key file mode = %o; want 0600", fi.Mode().Perm())
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(t.TempDir()); err != ErrNoIdentity {
		t.Errorf("expected ErrNoIdentity, got %v", err)
	}
}

func TestImportNsecAndHex(t *testing.T) {
	const hexSec =
		"67dea2ed018072d675f5415ecfaed7d2597555e202d85b3d65ea4e58d2d92ffa"
	dir := t.TempDir()
	ks, err := Import(dir, hexSec)
	if err != nil {
		t.Fatalf("Import hex: %v", err)
	}
	nsec, err := ks.Nsec()
	if err != nil {
		t.Fatalf("Nsec: %v", err)
	}
	if !strings.HasPrefix(nsec, "nsec1") {
		t.Fatalf("unexpected nsec form %s", nsec)
	}
	ks2, err := Import(t.TempDir(), nsec)
	if err != nil {
		t.Fatalf("Import nsec: %v", err)
	}
	if ks2.PublicKey() != ks.PublicKey() {
		t.Error("nsec import resolved to a different identity")
	}
	if _, err = Import(t.TempDir(), "not-a-key"); err == nil {
		t.Error("expected an error importing garbage")
	}
}

func TestSign(t *testing.T) {
	ks, err := Generate(t.TempDir())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	ev := &event.T{Kind: kind.ClassifiedListing, Content: "x"}
	if err = ks.Sign(ev); err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if ev.PubKey != ks.PublicKey() {
		t.Error("signed event does not carry the identity's pubkey")
	}
	if ok, err := ev.CheckSignature(); !ok || err != nil {
		t.Errorf("signature did not verify: ok=%v err=%v", ok, err)
	}
}
