// Package client implements the relay side of publication: a websocket
// connection to a nostr relay that can send EVENT envelopes and wait for the
// relay's OK acknowledgement.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v2"
	"github.com/radroots/radroots/pkg/context"
	"github.com/radroots/radroots/pkg/nostr/event"
	"github.com/radroots/radroots/pkg/nostr/normalize"
	"github.com/radroots/radroots/pkg/slog"
	"github.com/tidwall/gjson"
)

var log, chk = slog.New(os.Stderr)

type writeRequest struct {
	msg    []byte
	answer chan error
}

// T is a client connection to a single relay. The connection closes when the
// context given to NewRelay is canceled or Close is called.
type T struct {
	closeMutex              sync.Mutex
	url                     string
	RequestHeader           http.Header // e.g. for origin header
	Connection              *Conn
	ConnectionError         error
	ConnectionContext       context.T
	ConnectionContextCancel context.F
	okCallbacks             *xsync.MapOf[string, func(bool, string)]
	writeQueue              chan writeRequest
	notices                 chan string
}

// URL returns the normalized address of the relay.
func (r *T) URL() string { return r.url }

func (r *T) String() string { return r.url }

// IsConnected returns true if the connection to this relay seems to be
// active.
func (r *T) IsConnected() bool { return r.ConnectionContext.Err() == nil }

// Option is the type of the optional arguments to NewRelay and Connect.
type Option interface {
	IsRelayOption()
}

// WithNoticeHandler receives NIP-01 NOTICE texts. When not given, notices
// are logged.
type WithNoticeHandler func(notice string)

func (_ WithNoticeHandler) IsRelayOption() {}

var _ Option = (WithNoticeHandler)(nil)

// NewRelay returns a new relay handle without connecting.
func NewRelay(c context.T, url string, opts ...Option) *T {
	ctx, cancel := context.Cancel(c)
	r := &T{
		url:                     normalize.URL(url),
		ConnectionContext:       ctx,
		ConnectionContextCancel: cancel,
		okCallbacks:             xsync.NewMapOf[func(bool, string)](),
		writeQueue:              make(chan writeRequest),
	}
	for _, opt := range opts {
		switch o := opt.(type) {
		case WithNoticeHandler:
			r.notices = make(chan string)
			go func() {
				for n := range r.notices {
					o(n)
				}
			}()
		}
	}
	return r
}

// Connect returns a relay object connected to url. Once successfully
// connected, cancelling ctx has no effect. To close the connection, call
// r.Close().
func Connect(c context.T, url string, opts ...Option) (*T, error) {
	r := NewRelay(c, url, opts...)
	err := r.Connect(c)
	return r, err
}

// Connect tries to establish the websocket connection. If the context has no
// deadline a 7 second timeout is applied to the dial only.
func (r *T) Connect(c context.T) (err error) {
	if r.ConnectionContext == nil {
		return fmt.Errorf("relay must be initialized with a call to NewRelay()")
	}
	if r.url == "" {
		return fmt.Errorf("invalid relay URL '%s'", r.URL())
	}
	if _, ok := c.Deadline(); !ok {
		var cancel context.F
		c, cancel = context.Timeout(c, 7*time.Second)
		defer cancel()
	}
	var conn *Conn
	if conn, err = dial(c, r.url, r.RequestHeader); err != nil {
		return fmt.Errorf("error opening websocket to '%s': %w", r.URL(), err)
	}
	r.Connection = conn
	// ping every 29 seconds
	ticker := time.NewTicker(29 * time.Second)
	go func() {
		<-r.ConnectionContext.Done()
		ticker.Stop()
	}()
	// queue all write operations here so we don't do mutex spaghetti
	go func() {
		var err error
		for {
			select {
			case <-ticker.C:
				err = r.Connection.Ping()
				if err != nil {
					log.D.F("{%s} error writing ping: %v; closing websocket",
						r.URL(), err)
					chk.D(r.Close())
					return
				}
			case wr := <-r.writeQueue:
				if wr.msg == nil {
					return
				}
				if err = r.Connection.WriteMessage(wr.msg); err != nil {
					wr.answer <- err
				}
				close(wr.answer)
			case <-r.ConnectionContext.Done():
				return
			}
		}
	}()
	go r.messageReadLoop(conn)
	return nil
}

func (r *T) messageReadLoop(conn *Conn) {
	// the read loop is the only sender on notices, so it owns the close
	if r.notices != nil {
		defer close(r.notices)
	}
	buf := new(bytes.Buffer)
	var err error
	for {
		buf.Reset()
		if err = conn.ReadMessage(r.ConnectionContext, buf); err != nil {
			r.ConnectionError = err
			chk.D(r.Close())
			break
		}
		message := buf.Bytes()
		env := gjson.ParseBytes(message)
		if !env.IsArray() {
			log.D.F("{%s} received non-envelope message %s", r.URL(),
				string(message))
			continue
		}
		arr := env.Array()
		if len(arr) < 2 {
			continue
		}
		switch arr[0].Str {
		case "NOTICE":
			if r.notices != nil {
				r.notices <- arr[1].Str
			} else {
				log.D.F("NOTICE from %s: '%s'", r.URL(), arr[1].Str)
			}
		case "OK":
			if len(arr) < 3 {
				continue
			}
			reason := ""
			if len(arr) > 3 {
				reason = arr[3].Str
			}
			if okCallback, exist := r.okCallbacks.Load(arr[1].Str); exist {
				okCallback(arr[2].Bool(), reason)
			} else {
				log.D.F("{%s} got an unexpected OK message for event %s",
					r.URL(), arr[1].Str)
			}
		case "CLOSED":
			log.D.F("{%s} subscription closed: %s", r.URL(), arr[1].Str)
		default:
			// publication clients have no subscriptions, so EVENT and EOSE
			// envelopes are unexpected here
			log.D.F("{%s} ignoring %s envelope", r.URL(), arr[0].Str)
		}
	}
}

// Write queues a message to be sent to the relay.
func (r *T) Write(msg []byte) (ch chan error) {
	ch = make(chan error)
	timeout := time.After(time.Second * 5)
	select {
	case r.writeQueue <- writeRequest{msg: msg, answer: ch}:
	case <-r.ConnectionContext.Done():
		go func() { ch <- fmt.Errorf("connection closed") }()
	case <-timeout:
		go func() { ch <- fmt.Errorf("write timed out") }()
	}
	return
}

// Publish sends an "EVENT" command to the relay as in NIP-01 and waits for
// an OK response. The relay rejecting the event is reported as an error.
func (r *T) Publish(c context.T, ev *event.T) (err error) {
	var cancel context.F
	if _, ok := c.Deadline(); !ok {
		// if no timeout is set, force it to 4 seconds
		c, cancel = context.Timeout(c, 4*time.Second)
		defer cancel()
	} else {
		// otherwise make the context cancellable so we can stop waiting upon
		// receiving an "OK"
		c, cancel = context.Cancel(c)
		defer cancel()
	}
	// data races on gotOk and err without this mutex: the callback runs on
	// the read loop while the deadline can wake the select below
	var mu sync.Mutex
	// listen for an OK callback
	gotOk := false
	r.okCallbacks.Store(ev.ID, func(ok bool, reason string) {
		mu.Lock()
		defer mu.Unlock()
		gotOk = true
		if !ok {
			err = fmt.Errorf("event %s rejected by %s: %s", ev.ID, r.URL(),
				reason)
		}
		cancel()
	})
	defer r.okCallbacks.Delete(ev.ID)
	var enb []byte
	if enb, err = EventEnvelope(ev); chk.E(err) {
		return
	}
	if err = <-r.Write(enb); err != nil {
		return err
	}
	for {
		select {
		case <-c.Done():
			// either an OK arrived or the context was canceled
			mu.Lock()
			defer mu.Unlock()
			if gotOk {
				return err
			}
			return c.Err()
		case <-r.ConnectionContext.Done():
			// we lost connectivity before the acknowledgement
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				err = fmt.Errorf("connection to %s closed before OK", r.URL())
			}
			return err
		}
	}
}

// EventEnvelope renders the NIP-01 client-to-relay EVENT message.
func EventEnvelope(ev *event.T) (b []byte, err error) {
	var evb []byte
	if evb, err = json.Marshal(ev); err != nil {
		return
	}
	buf := new(bytes.Buffer)
	buf.WriteString(`["EVENT",`)
	buf.Write(evb)
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// Close terminates the connection and cancels the connection context.
func (r *T) Close() error {
	r.closeMutex.Lock()
	defer r.closeMutex.Unlock()
	if r.ConnectionContextCancel == nil {
		return fmt.Errorf("relay not connected")
	}
	r.ConnectionContextCancel()
	r.ConnectionContextCancel = nil
	return r.Connection.Close()
}
