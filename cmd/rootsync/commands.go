package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mdp/qrterminal/v3"
	"github.com/radroots/radroots/app"
	"github.com/radroots/radroots/pkg/context"
	"github.com/radroots/radroots/pkg/keystore"
	"github.com/radroots/radroots/pkg/nostr/normalize"
	"github.com/radroots/radroots/pkg/store"
	"github.com/urfave/cli/v2"
)

// terminalUI answers confirmation prompts on stdin and prints alerts to
// stderr.
type terminalUI struct{}

func (terminalUI) Confirm(message string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N] ", message)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func (terminalUI) Alert(message string) {
	fmt.Fprintln(os.Stderr, message)
}

func openApp(cCtx *cli.Context) (a *app.T, cfg *C, err error) {
	if cfg, err = loadConfig(cCtx.String("a")); err != nil {
		return
	}
	var ks *keystore.T
	if ks, err = keystore.Load(cfg.DataDir); err != nil {
		if errors.Is(err, keystore.ErrNoIdentity) {
			err = fmt.Errorf("no signing identity, run %s init first",
				appName)
		}
		return
	}
	var st *store.T
	if st, err = store.Open(cfg.storePath()); err != nil {
		return
	}
	a = app.New(st, ks, terminalUI{}, cfg.attribution())
	return
}

func doInit(cCtx *cli.Context) (err error) {
	var cfg *C
	if cfg, err = loadConfig(cCtx.String("a")); err != nil {
		return
	}
	var ks *keystore.T
	if sec := cCtx.String("nsec"); sec != "" {
		if ks, err = keystore.Import(cfg.DataDir, sec); err != nil {
			return
		}
	} else if ks, err = keystore.Load(cfg.DataDir); err != nil {
		if !errors.Is(err, keystore.ErrNoIdentity) {
			return
		}
		if ks, err = keystore.Generate(cfg.DataDir); err != nil {
			return
		}
	}
	var st *store.T
	if st, err = store.Open(cfg.storePath()); err != nil {
		return
	}
	defer st.Close()
	if _, err = st.SaveProfile(&store.Profile{
		PublicKey: ks.PublicKey(),
	}); err != nil {
		return
	}
	for _, u := range cfg.DefaultRelays {
		u = normalize.URL(u)
		if _, err = st.EnsureRelay(u); err != nil {
			return
		}
		if err = st.LinkProfileRelay(ks.PublicKey(), u); err != nil {
			return
		}
	}
	if err = saveConfig(cCtx.String("a"), cfg); err != nil {
		return
	}
	var npub string
	if npub, err = ks.Npub(); err != nil {
		return
	}
	fmt.Println(npub)
	return
}

func doRelayAdd(cCtx *cli.Context) (err error) {
	u := normalize.URL(cCtx.Args().First())
	if u == "" {
		return errors.New("relay url required")
	}
	var a *app.T
	if a, _, err = openApp(cCtx); err != nil {
		return
	}
	defer a.Store.Close()
	if _, err = a.Store.EnsureRelay(u); err != nil {
		return
	}
	if err = a.Store.LinkProfileRelay(a.Signer.PublicKey(), u); err != nil {
		return
	}
	fmt.Println(u)
	return
}

func doRelayList(cCtx *cli.Context) (err error) {
	var a *app.T
	if a, _, err = openApp(cCtx); err != nil {
		return
	}
	defer a.Store.Close()
	var relays []*store.Relay
	if cCtx.Bool("all") {
		relays, err = a.Store.Relays()
	} else {
		relays, err = a.Store.ReadRelays(a.Signer.PublicKey())
	}
	if err != nil {
		return
	}
	for _, r := range relays {
		if r.Software != "" || r.Version != "" {
			fmt.Printf("%s\t%s %s\n", r.URL, r.Software, r.Version)
		} else {
			fmt.Println(r.URL)
		}
	}
	return
}

func doProfileSet(cCtx *cli.Context) (err error) {
	var a *app.T
	if a, _, err = openApp(cCtx); err != nil {
		return
	}
	defer a.Store.Close()
	pk := a.Signer.PublicKey()
	p, err := a.Store.ReadProfile(pk)
	if errors.Is(err, store.ErrNotFound) {
		p = &store.Profile{PublicKey: pk}
		err = nil
	} else if err != nil {
		return
	}
	for flag, dst := range map[string]*string{
		"name":         &p.Name,
		"display-name": &p.DisplayName,
		"about":        &p.About,
		"website":      &p.Website,
		"picture":      &p.Picture,
		"nip05":        &p.NIP05,
	} {
		if cCtx.IsSet(flag) {
			*dst = cCtx.String(flag)
		}
	}
	_, err = a.Store.SaveProfile(p)
	return
}

func doProfileShow(cCtx *cli.Context) (err error) {
	var cfg *C
	if cfg, err = loadConfig(cCtx.String("a")); err != nil {
		return
	}
	var ks *keystore.T
	if ks, err = keystore.Load(cfg.DataDir); err != nil {
		return
	}
	var npub string
	if npub, err = ks.Npub(); err != nil {
		return
	}
	fmt.Println(npub)
	qrterminal.Generate("nostr:"+npub, qrterminal.L, os.Stdout)
	return
}

func doListingAdd(cCtx *cli.Context) (err error) {
	var a *app.T
	if a, _, err = openApp(cCtx); err != nil {
		return
	}
	defer a.Store.Close()
	l := &store.Listing{
		Key:           cCtx.String("key"),
		Category:      cCtx.String("category"),
		Title:         cCtx.String("title"),
		Summary:       cCtx.String("summary"),
		Process:       cCtx.String("process"),
		Lot:           cCtx.String("lot"),
		Profile:       cCtx.String("profile"),
		Year:          cCtx.Int64("year"),
		QtyAmt:        cCtx.Int64("qty-amt"),
		QtyUnit:       cCtx.String("qty-unit"),
		QtyLabel:      cCtx.String("qty-label"),
		PriceAmt:      cCtx.Float64("price-amt"),
		PriceCurrency: cCtx.String("currency"),
		PriceQtyAmt:   cCtx.Int64("price-qty-amt"),
		PriceQtyUnit:  cCtx.String("price-qty-unit"),
	}
	var id string
	if id, err = a.Store.CreateListing(l); err != nil {
		return
	}
	if cCtx.IsSet("lat") && cCtx.IsSet("lng") {
		var locID string
		if locID, err = a.Store.CreateLocation(&store.Location{
			Lat:     cCtx.Float64("lat"),
			Lng:     cCtx.Float64("lng"),
			Geohash: cCtx.String("geohash"),
			Kind:    "farm",
		}); err != nil {
			return
		}
		if err = a.Store.LinkListingLocation(id, locID); err != nil {
			return
		}
	}
	fmt.Println(id)
	return
}

func doListingList(cCtx *cli.Context) (err error) {
	var a *app.T
	if a, _, err = openApp(cCtx); err != nil {
		return
	}
	defer a.Store.Close()
	var bundles []*store.ListingBundle
	if bundles, err = a.Store.ReadListings(); err != nil {
		return
	}
	for _, b := range bundles {
		l := &b.Listing
		extras := ""
		if b.Location != nil {
			extras = " @" + b.Location.Geohash
		}
		if n := len(b.Media); n > 0 {
			extras += fmt.Sprintf(" %d image(s)", n)
		}
		fmt.Printf("%s\t%s\t%s %s/%s%s\n", l.Key, l.Title, l.Category,
			l.Lot, l.Process, extras)
	}
	return
}

func doPoll(cCtx *cli.Context) (err error) {
	var a *app.T
	if a, _, err = openApp(cCtx); err != nil {
		return
	}
	defer a.Store.Close()
	if err = a.Run(context.Bg()); err != nil {
		return
	}
	fmt.Printf("polling settled after %d cycle(s), %d relay(s) connected\n",
		a.Session.PollAttempts(), a.Session.ConnectedCount())
	return
}

func doSync(cCtx *cli.Context) (err error) {
	var a *app.T
	if a, _, err = openApp(cCtx); err != nil {
		return
	}
	defer a.Store.Close()
	return a.Sync(context.Bg())
}
