package app

import (
	"time"

	"github.com/radroots/radroots/pkg/context"
	"github.com/radroots/radroots/pkg/nostr/relayinfo"
)

const (
	// MaxPollAttempts caps how many poll cycles a session will run.
	MaxPollAttempts = 10
	// PollDelay is the fixed pause between poll cycles.
	PollDelay = 3000 * time.Millisecond
)

// Poll runs one relay discovery cycle: fetch the information document of
// every relay of the active profile that has not yet answered this session,
// merge recognized fields into the store, and grow the connected set.
// Per-relay failures are logged and skipped. Polling stops for the session
// when the attempt cap is reached or every relay has answered.
func (a *T) Poll(c context.T) (err error) {
	if a.Session.PollStopped() {
		return
	}
	if a.Session.PollAttempts() >= MaxPollAttempts {
		a.Session.stopPolling()
		return
	}
	attempt := a.Session.advanceAttempt()
	relays, err := a.Store.ReadRelays(a.Signer.PublicKey())
	if chk.E(err) {
		return
	}
	unconnected := relays[:0:0]
	for _, r := range relays {
		if !a.Session.Connected(r.ID) {
			unconnected = append(unconnected, r)
		}
	}
	if len(unconnected) == 0 {
		a.Session.stopPolling()
		return
	}
	log.D.F("poll cycle %d: %d of %d relays unconnected", attempt,
		len(unconnected), len(relays))
	for _, r := range unconnected {
		var info *relayinfo.T
		if info, err = a.FetchInfo(c, r.URL); err != nil {
			// unreachable this cycle, try again next one
			log.D.F("relay %s: %v", r.URL, err)
			err = nil
			continue
		}
		fields := DocumentFields(info)
		if len(fields) == 0 {
			// nothing recognized, skip the write and leave it unconnected
			continue
		}
		if err = a.Store.UpdateRelay(r.URL, Columns(fields)); chk.E(err) {
			err = nil
			continue
		}
		a.Session.markConnected(r.ID)
	}
	if a.Session.ConnectedCount() >= len(relays) {
		a.Session.stopPolling()
	}
	return
}

// Run loops Poll with the fixed delay until the session stops polling or
// the context is done.
func (a *T) Run(c context.T) (err error) {
	for {
		if err = a.Poll(c); err != nil {
			return
		}
		if a.Session.PollStopped() {
			return
		}
		select {
		case <-c.Done():
			return c.Err()
		case <-time.After(PollDelay):
		}
	}
}
