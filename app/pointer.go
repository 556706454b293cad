package app

import (
	"fmt"

	"github.com/radroots/radroots/pkg/nostr/bech32encoding"
	"github.com/radroots/radroots/pkg/nostr/event"
	"github.com/radroots/radroots/pkg/nostr/pointers"
)

// ContentNamespace prefixes the self-reference pointer embedded in event
// content. Downstream parsers match the literal bracket framing.
const ContentNamespace = "radroots"

// ContentPointer renders the self-referencing content of a classified event:
// the event's own id, author, kind and relay hints as a bech32 nevent,
// framed as "radroots:[nostr:<nevent>]". The id is the event's canonical
// hash at the time of the call, so the pointer must be computed before the
// content is written and the event signed.
func ContentPointer(ev *event.T, relays []string) (content string, err error) {
	var nevent string
	if nevent, err = bech32encoding.EncodeEvent(pointers.Event{
		ID:     ev.GetID(),
		Author: ev.PubKey,
		Relays: relays,
		Kind:   ev.Kind,
	}); chk.E(err) {
		return
	}
	return fmt.Sprintf("%s:[nostr:%s]", ContentNamespace, nevent), nil
}
