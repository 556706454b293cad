// Package app ties the local store, the signing identity and the relay
// transport together: relay discovery polling, classified and metadata event
// composition, and the sync orchestration around them.
package app

import (
	"errors"
	"os"

	"github.com/radroots/radroots/pkg/context"
	"github.com/radroots/radroots/pkg/nostr/client"
	"github.com/radroots/radroots/pkg/nostr/event"
	"github.com/radroots/radroots/pkg/nostr/relayinfo"
	"github.com/radroots/radroots/pkg/slog"
	"github.com/radroots/radroots/pkg/store"
)

var log, chk = slog.New(os.Stderr)

// ErrNoRelays is returned by Sync when the active profile has no linked
// relays to publish to.
var ErrNoRelays = errors.New("no relays connected")

// ErrUserDeclined marks a sync stopped at the confirmation gate. Sync treats
// it as a silent no-op, not a failure.
var ErrUserDeclined = errors.New("sync declined")

// Signer is the keystore capability consumed by the publisher.
type Signer interface {
	Sign(ev *event.T) error
	PublicKey() string
}

// UI is the dialog surface for confirmation prompts and user-visible
// failures. Terminal and test implementations live outside the core.
type UI interface {
	Confirm(message string) bool
	Alert(message string)
}

// T is one discovery/sync session over a store and a signing identity.
type T struct {
	Store   *store.T
	Session *Session
	Signer  Signer
	UI      UI
	Client  Attribution

	// FetchInfo retrieves a relay's information document. Defaults to
	// relayinfo.Fetch.
	FetchInfo func(c context.T, url string) (*relayinfo.T, error)
	// Publish sends a signed event to one relay and waits for the OK.
	// Defaults to a dial-publish-close over pkg/nostr/client.
	Publish func(c context.T, url string, ev *event.T) error
}

// New builds a session-scoped app handle with the real transport wired in.
func New(st *store.T, signer Signer, ui UI, cl Attribution) *T {
	return &T{
		Store:     st,
		Session:   NewSession(),
		Signer:    signer,
		UI:        ui,
		Client:    cl,
		FetchInfo: relayinfo.Fetch,
		Publish:   dialPublish,
	}
}

func dialPublish(c context.T, url string, ev *event.T) (err error) {
	var rl *client.T
	if rl, err = client.Connect(c, url); err != nil {
		return
	}
	defer func() { chk.D(rl.Close()) }()
	return rl.Publish(c, ev)
}
