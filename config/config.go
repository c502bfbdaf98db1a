// ════════════════════════════════════════════════════════════════════════════════════════════════
// ⚡ CONFIG — PIPELINE CONFIGURATION
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Component: Loads a JSON config file and layers CLI flag overrides on top.
// ════════════════════════════════════════════════════════════════════════════════════════════════

package config

import (
	"flag"
	"os"

	"github.com/sugawarayuuta/sonnet"

	"itchfeed/constants"
)

// Config holds every tunable the pipeline needs, whether supplied via a JSON
// file, CLI flags, or built-in defaults (built-in defaults lowest, then the
// JSON file, then CLI flags highest).
type Config struct {
	Mode string `json:"mode"` // "replay" or "net"

	ReplayPath string `json:"replayPath"`

	MulticastGroup string `json:"multicastGroup"`
	PortA          int    `json:"portA"`
	PortB          int    `json:"portB"`
	DurationSecs   int    `json:"durationSecs"`

	Ultra bool `json:"ultra"`

	GapCapacity int `json:"gapCapacity"`
	GapTTLMs    int `json:"gapTtlMs"`

	MinPrice uint32 `json:"minPrice"`
	MaxPrice uint32 `json:"maxPrice"`

	NumShards int `json:"numShards"`
	BaseCore  int `json:"baseCore"`

	SymbolDBPath string `json:"symbolDbPath"`
	MetricsAddr  string `json:"metricsAddr"`
}

// Default returns the built-in configuration baseline.
func Default() Config {
	return Config{
		Mode:           "replay",
		MulticastGroup: "239.1.1.1",
		PortA:          constants.DefaultPortA,
		PortB:          constants.DefaultPortB,
		DurationSecs:   0,
		GapCapacity:    constants.GapCapacity,
		GapTTLMs:       constants.GapTTLMillis,
		MinPrice:       constants.MinPrice,
		MaxPrice:       constants.MaxPrice,
		NumShards:      4,
		BaseCore:       0,
		SymbolDBPath:   "symbols.db",
		MetricsAddr:    ":9090",
	}
}

// LoadFile merges JSON config at path onto base, returning the merged
// result. A missing file is not an error; base is returned unchanged.
func LoadFile(path string, base Config) (Config, error) {
	if path == "" {
		return base, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return base, nil
		}
		return base, err
	}
	cfg := base
	if err := sonnet.Unmarshal(data, &cfg); err != nil {
		return base, err
	}
	return cfg, nil
}

// BindFlags registers CLI flags on fs that override fields of cfg when the
// caller explicitly passes them; fs.Parse is left to the caller so tests can
// drive BindFlags with a fresh FlagSet.
func BindFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.Mode, "mode", cfg.Mode, "replay or net")
	fs.StringVar(&cfg.ReplayPath, "replay", cfg.ReplayPath, "path to a recorded ITCH stream")
	fs.StringVar(&cfg.MulticastGroup, "mcast", cfg.MulticastGroup, "multicast group address")
	fs.IntVar(&cfg.PortA, "port-a", cfg.PortA, "feed A UDP port")
	fs.IntVar(&cfg.PortB, "port-b", cfg.PortB, "feed B UDP port")
	fs.IntVar(&cfg.DurationSecs, "duration", cfg.DurationSecs, "net mode run duration in seconds, 0 = run until interrupted")
	fs.BoolVar(&cfg.Ultra, "ultra", cfg.Ultra, "lock the main loop to its OS thread and disable the GC")
	fs.IntVar(&cfg.GapCapacity, "gap-capacity", cfg.GapCapacity, "arbiter gap table capacity")
	fs.IntVar(&cfg.GapTTLMs, "gap-ttl-ms", cfg.GapTTLMs, "arbiter gap entry time-to-live in milliseconds")
	fs.IntVar(&cfg.NumShards, "shards", cfg.NumShards, "number of book-router shards")
	fs.IntVar(&cfg.BaseCore, "base-core", cfg.BaseCore, "first core to pin shard consumers to")
	fs.StringVar(&cfg.SymbolDBPath, "symbol-db", cfg.SymbolDBPath, "sqlite3 path for the persisted symbol directory")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "listen address for the /metrics endpoint")
}
