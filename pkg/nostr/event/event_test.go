package event

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/radroots/radroots/pkg/nostr/keys"
	"github.com/radroots/radroots/pkg/nostr/kind"
	"github.com/radroots/radroots/pkg/nostr/tag"
	"github.com/radroots/radroots/pkg/nostr/tags"
	"github.com/radroots/radroots/pkg/nostr/timestamp"
	"lukechampine.com/frand"
)

func genEvent(t *testing.T, maxSize int) (ev *T, sk string) {
	sk = keys.GeneratePrivateKey()
	l := frand.Intn(maxSize * 6 / 8) // account for base64 expansion
	ev = &T{
		Kind:      kind.TextNote,
		CreatedAt: timestamp.Now(),
		Content:   base64.StdEncoding.EncodeToString(frand.Bytes(l)),
		Tags:      tags.T{tag.T{"d", "test"}},
	}
	if err := ev.Sign(sk); err != nil {
		t.Fatalf("failed to sign: %s", err)
	}
	return
}

func TestSignAndVerify(t *testing.T) {
	for i := 0; i < 16; i++ {
		ev, sk := genEvent(t, 1024)
		if ev.ID == "" || ev.Sig == "" || ev.PubKey == "" {
			t.Fatal("signing did not complete the event")
		}
		pub, err := keys.GetPublicKey(sk)
		if err != nil {
			t.Fatalf("failed to derive pubkey: %s", err)
		}
		if ev.PubKey != pub {
			t.Error("signing set a different pubkey than the key derivation")
		}
		ok, err := ev.CheckSignature()
		if err != nil {
			t.Fatalf("signature check errored: %s", err)
		}
		if !ok {
			t.Error("signature did not verify")
		}
	}
}

func TestIDMatchesSerialization(t *testing.T) {
	ev, _ := genEvent(t, 256)
	if ev.GetID() != ev.ID {
		t.Error("assigned id does not match the canonical hash")
	}
	// mutating content after signing must change the canonical id
	ev.Content += "tampered"
	if ev.GetID() == ev.ID {
		t.Error("id should no longer match after content mutation")
	}
	if ok, _ := ev.CheckSignature(); ok {
		t.Error("signature should not verify after content mutation")
	}
}

func TestSerializeEscapes(t *testing.T) {
	ev := &T{
		Kind:      kind.TextNote,
		CreatedAt: timestamp.FromUnix(1700000000),
		Content:   "line one\nline \"two\"\t\\end",
	}
	s := string(ev.Serialize())
	for _, want := range []string{`\n`, `\"two\"`, `\t`, `\\end`} {
		if !strings.Contains(s, want) {
			t.Errorf("serialization missing escape %q in %s", want, s)
		}
	}
	if !strings.HasPrefix(s, `[0,"",1700000000,1,`) {
		t.Errorf("unexpected canonical prefix: %s", s)
	}
}

func TestSerializeNilTags(t *testing.T) {
	ev := &T{Kind: kind.ProfileMetadata, Content: "{}"}
	s := string(ev.Serialize())
	if !strings.Contains(s, ",[],") {
		t.Errorf("nil tags should serialize as an empty array: %s", s)
	}
}
