package relayinfo

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/radroots/radroots/pkg/context"
)

const testDocument = `{
	"name": "orchard relay",
	"description": "a relay for produce listings",
	"pubkey": "3bf0c63fcb93463407af97a5e5ee64fa883d107ef9e558472c4eb9aaaefa459d",
	"contact": "mailto:admin@example.com",
	"supported_nips": [1, 11, 99],
	"software": "git+https://github.com/example/relay",
	"version": "0.4.1",
	"icon": "https://example.com/icon.png",
	"limitation": {"max_message_length": 524288, "auth_required": false}
}`

func TestFetch(t *testing.T) {
	var gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			gotAccept = r.Header.Get("Accept")
			w.Header().Set("Content-Type", "application/nostr+json")
			w.Write([]byte(testDocument))
		}))
	defer srv.Close()
	// address the relay the way a client would, by its websocket URL
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	info, err := Fetch(context.Bg(), wsURL)
	if err != nil {
		t.Fatalf("fetch failed: %s", err)
	}
	if gotAccept != "application/nostr+json" {
		t.Errorf("wrong accept header: %s", gotAccept)
	}
	if info.Name != "orchard relay" {
		t.Errorf("wrong name: %s", info.Name)
	}
	if info.Version != "0.4.1" {
		t.Errorf("wrong version: %s", info.Version)
	}
	if !info.HasNIP(99) {
		t.Error("expected NIP-99 support")
	}
	if info.HasNIP(42) {
		t.Error("did not expect NIP-42 support")
	}
	if info.Limitation == nil || info.Limitation.MaxMessageLength != 524288 {
		t.Error("limitation block not decoded")
	}
	if len(info.Raw) == 0 {
		t.Error("raw document not retained")
	}
}

func TestFetchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusInternalServerError)
		}))
	defer srv.Close()
	if _, err := Fetch(context.Bg(), srv.URL); err == nil {
		t.Fatal("expected an error for a 500 response")
	}
}

func TestFetchBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>not a document</html>"))
		}))
	defer srv.Close()
	if _, err := Fetch(context.Bg(), srv.URL); err == nil {
		t.Fatal("expected an error for a non-JSON body")
	}
}
