package relayinfo

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/radroots/radroots/pkg/context"
	"github.com/radroots/radroots/pkg/nostr/normalize"
	"github.com/radroots/radroots/pkg/slog"
)

var log, chk = slog.New(os.Stderr)

// Fetch fetches the NIP-11 document of a relay. The relay address may be
// given in websocket form, it is rewritten to http/https for the request.
func Fetch(c context.T, u string) (info *T, err error) {
	if _, ok := c.Deadline(); !ok {
		// if no timeout is set, force it to 7 seconds
		var cancel context.F
		c, cancel = context.Timeout(c, 7*time.Second)
		defer cancel()
	}
	httpURL := normalize.HTTPURL(u)
	var req *http.Request
	if req, err = http.NewRequestWithContext(c, http.MethodGet, httpURL,
		nil); chk.E(err) {
		return
	}
	// the NIP-11 header
	req.Header.Add("Accept", "application/nostr+json")
	var resp *http.Response
	if resp, err = http.DefaultClient.Do(req); err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", httpURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d", httpURL,
			resp.StatusCode)
	}
	var b []byte
	if b, err = io.ReadAll(resp.Body); chk.E(err) {
		return
	}
	info = &T{}
	if err = json.Unmarshal(b, info); err != nil {
		return nil, fmt.Errorf("invalid relay information document from %s: %w",
			httpURL, err)
	}
	info.Raw = b
	log.T.F("fetched relay information document from %s", httpURL)
	return
}
