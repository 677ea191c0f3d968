package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"shrike/hasher"
	"shrike/logger"
	"shrike/version"
)

type Config struct {
	Source          string              `json:"source"`
	Destination     string              `json:"destination"`
	Workers         int                 `json:"workers"`
	Serial          bool                `json:"serial"`
	DryRun          bool                `json:"dry_run"`
	ConflictPolicy  string              `json:"conflict_policy"`
	HashAlgorithm   string              `json:"hash_algorithm"`
	IncludeHidden   bool                `json:"include_hidden"`
	SniffContent    bool                `json:"sniff_content"`
	IncludePatterns []string            `json:"include_patterns"`
	ExcludePatterns []string            `json:"exclude_patterns"`
	MaxIOPerSecond  int                 `json:"max_io_per_second"`
	LogLevel        string              `json:"log_level"`
	WriteReport     bool                `json:"write_report"`
	Categories      map[string][]string `json:"categories"`
	ConfigFile      string              `json:"-"`
}

// LoadConfig builds the effective configuration: built-in defaults,
// overlaid by the optional JSON config file, overlaid by explicit flags.
// A malformed config file is logged and ignored, never fatal.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Workers:        4,
		ConflictPolicy: "rename",
		HashAlgorithm:  hasher.DefaultAlgorithm,
		SniffContent:   true,
		LogLevel:       "info",
		WriteReport:    true,
		Categories:     map[string][]string{},
	}

	configFile := flag.String("config", "", "Path to JSON configuration file (default: none).")
	workers := flag.Int("workers", cfg.Workers, fmt.Sprintf("Number of concurrent workers (default: %d).", cfg.Workers))
	serial := flag.Bool("serial", cfg.Serial, "Process files serially instead of in parallel.")
	dryRun := flag.Bool("dry-run", cfg.DryRun, "Simulate organization without moving files.")
	policy := flag.String("policy", cfg.ConflictPolicy, "Conflict policy: rename, overwrite, skip, or fail (default: rename).")
	hashAlgo := flag.String("hash", cfg.HashAlgorithm, "Fingerprint algorithm: sha256, blake3, or xxhash (default: sha256).")
	includeHidden := flag.Bool("include-hidden", cfg.IncludeHidden, "Include dot-files (default: false).")
	sniffContent := flag.Bool("sniff-content", cfg.SniffContent, "Sniff file content to categorize unknown extensions (default: true).")
	includes := flag.String("include", "", "Comma-separated file name globs to include (default: all).")
	excludes := flag.String("exclude", "", "Comma-separated file name globs to exclude (default: none).")
	maxIO := flag.Int("max-io-per-second", cfg.MaxIOPerSecond, "Maximum file dispatches per second, 0 disables (default: 0).")
	logLevel := flag.String("log-level", cfg.LogLevel, fmt.Sprintf("Log level: debug, info, warn, error, fatal, or panic (default: %s).", cfg.LogLevel))
	noReport := flag.Bool("no-report", false, "Do not persist the JSON report artifact.")
	showVersion := flag.Bool("version", false, "Print version and exit")

	flag.Usage = displayHelp
	flag.Parse()

	if *showVersion {
		fmt.Printf("shrike version %s\n", version.Version)
		os.Exit(0)
	}

	if *configFile != "" {
		cfg.ConfigFile = *configFile
		if err := cfg.loadFromFile(cfg.ConfigFile); err != nil {
			// Category/config problems fall back to defaults.
			logger.Warnf("Ignoring config file %s: %v", cfg.ConfigFile, err)
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "workers":
			cfg.Workers = *workers
		case "serial":
			cfg.Serial = *serial
		case "dry-run":
			cfg.DryRun = *dryRun
		case "policy":
			cfg.ConflictPolicy = strings.ToLower(*policy)
		case "hash":
			cfg.HashAlgorithm = strings.ToLower(*hashAlgo)
		case "include-hidden":
			cfg.IncludeHidden = *includeHidden
		case "sniff-content":
			cfg.SniffContent = *sniffContent
		case "include":
			cfg.IncludePatterns = parseCommaSeparated(*includes)
		case "exclude":
			cfg.ExcludePatterns = parseCommaSeparated(*excludes)
		case "max-io-per-second":
			cfg.MaxIOPerSecond = *maxIO
		case "log-level":
			cfg.LogLevel = strings.ToLower(*logLevel)
		case "no-report":
			cfg.WriteReport = !*noReport
		}
	})

	if flag.NArg() > 0 {
		cfg.Source = flag.Arg(0)
	}
	if flag.NArg() > 1 {
		cfg.Destination = flag.Arg(1)
	}
	cfg.ConflictPolicy = strings.ToLower(strings.TrimSpace(cfg.ConflictPolicy))
	cfg.HashAlgorithm = strings.ToLower(strings.TrimSpace(cfg.HashAlgorithm))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DestinationRoot is where category subdirectories (and the report
// artifact) land: the explicit destination, or the source for in-place
// organization.
func (cfg *Config) DestinationRoot() string {
	if cfg.Destination != "" {
		return cfg.Destination
	}
	return cfg.Source
}

func displayHelp() {
	fmt.Println("shrike - concurrent file organizer")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  shrike [options] <source> [destination]")
	fmt.Println()
	fmt.Println("Files directly inside <source> are moved into category")
	fmt.Println("subdirectories under [destination] (default: in place).")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  shrike ~/Downloads")
	fmt.Println("  shrike --dry-run ~/Downloads /srv/sorted")
	fmt.Println("  shrike --policy overwrite --workers 8 /data/inbox")
}

func (cfg *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not read config file: %v", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("invalid config file format: %v", err)
	}
	return nil
}

func (cfg *Config) validate() error {
	if strings.TrimSpace(cfg.Source) == "" {
		return fmt.Errorf("a source directory argument is required")
	}
	if cfg.Workers <= 0 {
		return fmt.Errorf("workers must be positive")
	}
	switch cfg.ConflictPolicy {
	case "rename", "overwrite", "skip", "fail":
	default:
		return fmt.Errorf("invalid conflict policy: %s", cfg.ConflictPolicy)
	}
	if !hasher.Supported(cfg.HashAlgorithm) {
		return fmt.Errorf("invalid fingerprint algorithm: %s", cfg.HashAlgorithm)
	}
	if cfg.MaxIOPerSecond < 0 {
		return fmt.Errorf("max-io-per-second must be zero or positive")
	}
	if cfg.LogLevel != "debug" && cfg.LogLevel != "info" && cfg.LogLevel != "warn" &&
		cfg.LogLevel != "error" && cfg.LogLevel != "fatal" && cfg.LogLevel != "panic" {
		return fmt.Errorf("invalid log level: %s", cfg.LogLevel)
	}
	return nil
}

func parseCommaSeparated(input string) []string {
	if input == "" {
		return []string{}
	}
	items := strings.Split(input, ",")
	for i, item := range items {
		items[i] = strings.TrimSpace(item)
	}
	return items
}
