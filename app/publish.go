package app

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/radroots/radroots/pkg/context"
	"github.com/radroots/radroots/pkg/nostr/event"
)

// publishAll fans the signed event out to every relay url concurrently and
// waits for the acknowledgements. Per-relay failures are logged; only zero
// accepting relays is an error.
func (a *T) publishAll(c context.T, urls []string, ev *event.T) (err error) {
	if len(urls) == 0 {
		return fmt.Errorf("no relays to publish to")
	}
	var wg sync.WaitGroup
	var success atomic.Int32
	for _, u := range urls {
		wg.Add(1)
		go func(u string) {
			defer wg.Done()
			if e := a.Publish(c, u, ev); e != nil {
				log.E.F("publish to %s failed: %v", u, e)
				return
			}
			log.D.F("published %s to %s", ev.ID, u)
			success.Add(1)
		}(u)
	}
	wg.Wait()
	if success.Load() == 0 {
		return fmt.Errorf("event %s was not accepted by any of %d relays",
			ev.ID, len(urls))
	}
	return
}
