package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/radroots/radroots/app"
)

// C is the CLI configuration, one JSON file per profile under the user
// config dir.
type C struct {
	DataDir       string   `json:"data_dir,omitempty"`
	DefaultRelays []string `json:"default_relays,omitempty"`
	ClientName    string   `json:"client_name,omitempty"`
	ClientPubKey  string   `json:"client_pubkey,omitempty"`
	ClientRelay   string   `json:"client_relay,omitempty"`
}

func configDir() (dir string, err error) {
	switch runtime.GOOS {
	case "darwin":
		if dir, err = os.UserHomeDir(); chk.E(err) {
			return
		}
		return filepath.Join(dir, ".config"), nil
	default:
		return os.UserConfigDir()
	}
}

func configPath(profile string) (fp string, err error) {
	var dir string
	if dir, err = configDir(); chk.E(err) {
		return
	}
	dir = filepath.Join(dir, appName)
	switch profile {
	case "":
		fp = filepath.Join(dir, "config.json")
	case "?":
		var nn []string
		p := filepath.Join(dir, "config-*.json")
		if nn, err = filepath.Glob(p); chk.E(err) {
			return
		}
		for _, n := range nn {
			n = filepath.Base(n)
			n = strings.TrimLeft(n[6:len(n)-5], "-")
			fmt.Println(n)
		}
		os.Exit(0)
	default:
		fp = filepath.Join(dir, "config-"+profile+".json")
	}
	return
}

func loadConfig(profile string) (cfg *C, err error) {
	var fp string
	if fp, err = configPath(profile); err != nil {
		return
	}
	if err = os.MkdirAll(filepath.Dir(fp), 0700); chk.E(err) {
		return
	}
	cfg = new(C)
	var b []byte
	if b, err = os.ReadFile(fp); err != nil {
		// first run, defaults only
		err = nil
	} else if err = json.Unmarshal(b, cfg); chk.E(err) {
		return
	}
	if cfg.DataDir == "" {
		cfg.DataDir = filepath.Dir(fp)
	}
	if len(cfg.DefaultRelays) == 0 {
		cfg.DefaultRelays = []string{
			"wss://relay.damus.io",
			"wss://nos.lol",
		}
	}
	if cfg.ClientName == "" {
		cfg.ClientName = appName
	}
	return
}

func saveConfig(profile string, cfg *C) (err error) {
	var fp string
	if fp, err = configPath(profile); err != nil {
		return
	}
	var b []byte
	if b, err = json.MarshalIndent(cfg, "", "  "); chk.E(err) {
		return
	}
	return os.WriteFile(fp, b, 0600)
}

func (cfg *C) storePath() string {
	return filepath.Join(cfg.DataDir, "radroots.db")
}

func (cfg *C) attribution() app.Attribution {
	return app.Attribution{
		Name:   cfg.ClientName,
		PubKey: cfg.ClientPubKey,
		Relay:  cfg.ClientRelay,
	}
}
