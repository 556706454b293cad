package app

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/radroots/radroots/pkg/context"
	"github.com/radroots/radroots/pkg/nostr/event"
	"github.com/radroots/radroots/pkg/nostr/keys"
	"github.com/radroots/radroots/pkg/nostr/relayinfo"
	"github.com/radroots/radroots/pkg/store"
)

type testSigner struct {
	sk, pk string
}

func newTestSigner(t *testing.T) *testSigner {
	t.Helper()
	sk := keys.GeneratePrivateKey()
	pk, err := keys.GetPublicKey(sk)
	if err != nil {
		t.Fatalf("GetPublicKey: %v", err)
	}
	return &testSigner{sk: sk, pk: pk}
}

func (s *testSigner) Sign(ev *event.T) error { return ev.Sign(s.sk) }
func (s *testSigner) PublicKey() string      { return s.pk }

type fakeUI struct {
	confirmResp bool
	confirms    []string
	alerts      []string
}

func (u *fakeUI) Confirm(m string) bool {
	u.confirms = append(u.confirms, m)
	return u.confirmResp
}

func (u *fakeUI) Alert(m string) { u.alerts = append(u.alerts, m) }

// capture records every publish across the concurrent fan-out.
type capture struct {
	mx     sync.Mutex
	events []*event.T
	urls   []string
}

func (cp *capture) publish(c context.T, url string, ev *event.T) error {
	cp.mx.Lock()
	defer cp.mx.Unlock()
	cp.events = append(cp.events, ev)
	cp.urls = append(cp.urls, url)
	return nil
}

func (cp *capture) count() int {
	cp.mx.Lock()
	defer cp.mx.Unlock()
	return len(cp.events)
}

func newTestApp(t *testing.T) (*T, *fakeUI, *capture) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "radroots.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	ui := &fakeUI{}
	cp := &capture{}
	a := New(st, newTestSigner(t), ui,
		Attribution{Name: "rootsync", Relay: "wss://relay.example.com"})
	a.Publish = cp.publish
	a.FetchInfo = func(c context.T, url string) (*relayinfo.T, error) {
		return nil, errors.New("no fetcher installed")
	}
	return a, ui, cp
}

func linkRelays(t *testing.T, a *T, urls ...string) {
	t.Helper()
	if _, err := a.Store.SaveProfile(&store.Profile{
		PublicKey: a.Signer.PublicKey(), Name: "finca",
	}); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	for _, u := range urls {
		if _, err := a.Store.CreateRelay(u); err != nil {
			t.Fatalf("CreateRelay: %v", err)
		}
		if err := a.Store.LinkProfileRelay(a.Signer.PublicKey(),
			u); err != nil {
			t.Fatalf("LinkProfileRelay: %v", err)
		}
	}
}

func infoWith(raw string) func(context.T, string) (*relayinfo.T, error) {
	return func(c context.T, url string) (*relayinfo.T, error) {
		return &relayinfo.T{Raw: []byte(raw)}, nil
	}
}

func TestPollConnectsAndStops(t *testing.T) {
	a, _, _ := newTestApp(t)
	linkRelays(t, a, "wss://a.example.com", "wss://b.example.com")
	a.FetchInfo = infoWith(`{"name":"r","software":"s","version":"1"}`)

	if err := a.Poll(context.Bg()); err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if !a.Session.PollStopped() {
		t.Error("polling should stop once every relay answered")
	}
	if a.Session.PollAttempts() != 1 {
		t.Errorf("attempts = %d; want 1", a.Session.PollAttempts())
	}
	r, err := a.Store.RelayByURL("wss://a.example.com")
	if err != nil {
		t.Fatalf("RelayByURL: %v", err)
	}
	if r.Name != "r" || r.Software != "s" || r.Version != "1" {
		t.Errorf("document fields not merged: %+v", r)
	}
	if !a.Session.Connected(r.ID) {
		t.Error("relay should be in the connected set")
	}
}

func TestPollUnreachableRelayAdvancesCounter(t *testing.T) {
	a, _, _ := newTestApp(t)
	linkRelays(t, a, "wss://a.example.com")
	a.FetchInfo = func(c context.T, url string) (*relayinfo.T, error) {
		return nil, fmt.Errorf("%s returned status 500", url)
	}
	if err := a.Poll(context.Bg()); err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if a.Session.PollAttempts() != 1 {
		t.Errorf("attempts = %d; want 1", a.Session.PollAttempts())
	}
	if a.Session.ConnectedCount() != 0 {
		t.Error("failed relay must not join the connected set")
	}
	if a.Session.PollStopped() {
		t.Error("poller must not stop early on a failed cycle")
	}
}

func TestPollAttemptCap(t *testing.T) {
	a, _, _ := newTestApp(t)
	linkRelays(t, a, "wss://a.example.com")
	a.FetchInfo = func(c context.T, url string) (*relayinfo.T, error) {
		return nil, errors.New("down")
	}
	for i := 0; i < MaxPollAttempts+3; i++ {
		if err := a.Poll(context.Bg()); err != nil {
			t.Fatalf("Poll: %v", err)
		}
	}
	if a.Session.PollAttempts() != MaxPollAttempts {
		t.Errorf("attempts = %d; want cap %d", a.Session.PollAttempts(),
			MaxPollAttempts)
	}
	if !a.Session.PollStopped() {
		t.Error("poller must stop at the attempt cap")
	}
}

func TestPollEmptyMappingSkipsWrite(t *testing.T) {
	a, _, _ := newTestApp(t)
	linkRelays(t, a, "wss://a.example.com")
	a.FetchInfo = infoWith(`{"bogus":"x","unrecognized":1}`)
	if err := a.Poll(context.Bg()); err != nil {
		t.Fatalf("Poll: %v", err)
	}
	r, err := a.Store.RelayByURL("wss://a.example.com")
	if err != nil {
		t.Fatalf("RelayByURL: %v", err)
	}
	before := r.UpdatedAt
	if r.Name != "" {
		t.Error("nothing should have been written")
	}
	if a.Session.ConnectedCount() != 0 {
		t.Error("empty mapping must leave the relay unconnected")
	}
	r, _ = a.Store.RelayByURL("wss://a.example.com")
	if r.UpdatedAt != before {
		t.Error("store write happened despite empty mapping")
	}
}

func TestMapFields(t *testing.T) {
	m := MapFields(map[string]any{
		"name":       "r",
		"public_key": "ab",
		"nips":       []any{1.0, 11.0, 99.0},
		"icon_url":   "https://x/i.png",
		"junk":       "dropped",
	})
	if len(m) != 4 {
		t.Fatalf("mapped %d fields; want 4", len(m))
	}
	if m[FieldPubKey] != "ab" {
		t.Error("public_key synonym not recognized")
	}
	if m[FieldSupportedNIPs] != "[1,11,99]" {
		t.Errorf("nips = %q; want JSON array", m[FieldSupportedNIPs])
	}
	if m[FieldIcon] != "https://x/i.png" {
		t.Error("icon_url synonym not recognized")
	}
	if len(MapFields(map[string]any{"a": 1, "b": 2})) != 0 {
		t.Error("unrecognized-only document must map to nothing")
	}
	// deterministic
	m2 := MapFields(map[string]any{"name": "r"})
	m3 := MapFields(map[string]any{"name": "r"})
	if m2[FieldName] != m3[FieldName] {
		t.Error("mapping is not deterministic")
	}
}
