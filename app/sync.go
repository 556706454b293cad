package app

import (
	"errors"
	"fmt"

	"github.com/radroots/radroots/pkg/context"
	"github.com/radroots/radroots/pkg/nostr/event"
	"github.com/radroots/radroots/pkg/nostr/kind"
	"github.com/radroots/radroots/pkg/nostr/timestamp"
	"github.com/radroots/radroots/pkg/store"
)

// Sync is the single entry point of a synchronization pass: gate on the
// sync prevention flag, resolve the publish target relays, publish the
// profile metadata, then publish every classified listing. The metadata
// publish strictly precedes any listing publish. A declined confirmation is
// a silent no-op; an empty relay set is ErrNoRelays.
func (a *T) Sync(c context.T) (err error) {
	if err = a.sync(c); errors.Is(err, ErrUserDeclined) {
		log.I.Ln("sync declined at the confirmation gate")
		return nil
	}
	return
}

func (a *T) sync(c context.T) (err error) {
	if a.Session.SyncPrevented() {
		if !a.UI.Confirm("syncing is currently disabled, enable it?") {
			return ErrUserDeclined
		}
		a.Session.SetSyncPrevent(false)
		// one re-entry, terminates because the gate is now clear
		return a.sync(c)
	}
	var relays []*store.Relay
	if relays, err = a.Store.ReadRelays(a.Signer.PublicKey()); chk.E(err) {
		return
	}
	if len(relays) == 0 {
		a.UI.Alert("no relays connected")
		return ErrNoRelays
	}
	urls := make([]string, len(relays))
	for i, r := range relays {
		urls[i] = r.URL
	}
	if err = a.syncMetadata(c, urls); err != nil {
		return
	}
	return a.syncClassified(c, urls)
}

// syncMetadata publishes the kind 0 event carrying the active profile. A
// missing profile row aborts the whole sync.
func (a *T) syncMetadata(c context.T, urls []string) (err error) {
	var p *store.Profile
	if p, err = a.Store.ReadProfile(a.Signer.PublicKey()); err != nil {
		return fmt.Errorf("no profile for active identity: %w", err)
	}
	var content string
	if content, err = ProfileContent(p); chk.E(err) {
		return
	}
	ev := &event.T{
		Kind:      kind.ProfileMetadata,
		CreatedAt: timestamp.Now(),
		Tags:      MetadataTags(a.Client),
		Content:   content,
	}
	if err = a.Signer.Sign(ev); chk.E(err) {
		return
	}
	return a.publishAll(c, urls, ev)
}

// syncClassified publishes one classified listing event per stored listing.
// A failing listing is logged and its siblings continue.
func (a *T) syncClassified(c context.T, urls []string) (err error) {
	var bundles []*store.ListingBundle
	if bundles, err = a.Store.ReadListings(); chk.E(err) {
		return
	}
	for _, b := range bundles {
		if e := a.publishListing(c, urls, b); e != nil {
			log.E.F("listing %s: %v", b.Listing.Key, e)
		}
	}
	return
}

func (a *T) publishListing(c context.T, urls []string,
	b *store.ListingBundle) (err error) {

	ev := &event.T{
		PubKey:    a.Signer.PublicKey(),
		Kind:      kind.ClassifiedListing,
		CreatedAt: timestamp.Now(),
		Tags:      ClassifiedTags(b, a.Client),
		Content:   "",
	}
	// the pointer carries the construction-time id, computed before the
	// content is written; signing afterwards makes the published event
	// canonical over the final form
	if ev.Content, err = ContentPointer(ev, urls); err != nil {
		return
	}
	if err = a.Signer.Sign(ev); err != nil {
		return
	}
	return a.publishAll(c, urls, ev)
}
