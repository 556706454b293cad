// rootsync is the terminal client for the radroots publication layer: it
// keeps the local database of relays, profile and listings, polls relay
// information documents, and syncs everything to the linked relays as signed
// events.
package main

import (
	"fmt"
	"os"

	"github.com/radroots/radroots/pkg/slog"
	"github.com/urfave/cli/v2"
)

var log, chk = slog.New(os.Stderr)

const appName = "rootsync"

const version = "0.1.0"

func main() {
	app := &cli.App{
		Name:    appName,
		Usage:   "publish radroots listings over nostr relays",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "a", Usage: "config profile name"},
			&cli.BoolFlag{Name: "V", Usage: "verbose"},
		},
		Before: func(cCtx *cli.Context) error {
			if cCtx.Bool("V") {
				slog.SetLogLevel(slog.Debug)
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create the signing identity and seed default relays",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "nsec",
						Usage: "import an existing key (nsec or hex)"},
				},
				Action: doInit,
			},
			{
				Name:  "relay",
				Usage: "manage the relay set",
				Subcommands: []*cli.Command{
					{
						Name:      "add",
						Usage:     "link a relay to the active profile",
						ArgsUsage: "<url>",
						Action:    doRelayAdd,
					},
					{
						Name:    "ls",
						Aliases: []string{"list"},
						Usage:   "list relays of the active profile",
						Flags: []cli.Flag{
							&cli.BoolFlag{Name: "all",
								Usage: "include relays not linked to the profile"},
						},
						Action: doRelayList,
					},
				},
			},
			{
				Name:  "profile",
				Usage: "manage the publishing profile",
				Subcommands: []*cli.Command{
					{
						Name:  "set",
						Usage: "set profile metadata fields",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "name"},
							&cli.StringFlag{Name: "display-name"},
							&cli.StringFlag{Name: "about"},
							&cli.StringFlag{Name: "website"},
							&cli.StringFlag{Name: "picture"},
							&cli.StringFlag{Name: "nip05"},
						},
						Action: doProfileSet,
					},
					{
						Name:   "show",
						Usage:  "show the identity npub as text and QR",
						Action: doProfileShow,
					},
				},
			},
			{
				Name:  "listing",
				Usage: "manage trade listings",
				Subcommands: []*cli.Command{
					{
						Name:  "add",
						Usage: "create a listing",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "key", Required: true},
							&cli.StringFlag{Name: "category",
								Required: true},
							&cli.StringFlag{Name: "title", Required: true},
							&cli.StringFlag{Name: "summary"},
							&cli.StringFlag{Name: "process"},
							&cli.StringFlag{Name: "lot"},
							&cli.StringFlag{Name: "profile"},
							&cli.Int64Flag{Name: "year"},
							&cli.Int64Flag{Name: "qty-amt"},
							&cli.StringFlag{Name: "qty-unit"},
							&cli.StringFlag{Name: "qty-label"},
							&cli.Float64Flag{Name: "price-amt"},
							&cli.StringFlag{Name: "currency",
								Value: "USD"},
							&cli.Int64Flag{Name: "price-qty-amt",
								Value: 1},
							&cli.StringFlag{Name: "price-qty-unit"},
							&cli.Float64Flag{Name: "lat"},
							&cli.Float64Flag{Name: "lng"},
							&cli.StringFlag{Name: "geohash"},
						},
						Action: doListingAdd,
					},
					{
						Name:    "ls",
						Aliases: []string{"list"},
						Usage:   "list stored listings",
						Action:  doListingList,
					},
				},
			},
			{
				Name:   "poll",
				Usage:  "poll relay information documents until settled",
				Action: doPoll,
			},
			{
				Name:   "sync",
				Usage:  "publish profile metadata and all listings",
				Action: doSync,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
