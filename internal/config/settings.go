// Package config parses the server's key=value configuration file and
// its optional JSON extension block.
package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Settings holds every key the server configuration file understands.
// Fields left at their zero value when the key is absent get the
// defaults applied by Defaults().
type Settings struct {
	Username  string
	Pidfile   string
	Unixpath  string
	Port      int
	Verbose   bool
	Maxconn   int
	Threads   int
	Backlog   int
	MaxReqs   int

	ChineseMapFile string
	IndexFile      string
	MaxDepth       int

	LogPath  string
	LogLevel string

	MonitorPort    int
	MonitorTimeout int

	// ExtraConfigFile optionally points at a JSON document carrying the
	// NATS/JWT sub-configuration (Extra, populated by LoadExtra).
	ExtraConfigFile string
	Extra           ExtraSettings
}

// Defaults returns the baseline settings applied before the config file
// is parsed over them.
func Defaults() Settings {
	return Settings{
		Port:           11211,
		Maxconn:        1024,
		Threads:        4,
		Backlog:        1024,
		MaxReqs:        20,
		MaxDepth:       8,
		LogLevel:       "info",
		MonitorPort:    8081,
		MonitorTimeout: 10,
	}
}

// Load reads and parses the key=value configuration file at path.
func Load(path string) (Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		return Settings{}, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads the key=value, #-comment format from r. Unknown keys are
// silently ignored; this is intentional (spec §6) so that newer config
// files remain loadable by older binaries and vice versa.
func Parse(r io.Reader) (Settings, error) {
	s := Defaults()
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		applyKey(&s, key, value)
	}
	if err := sc.Err(); err != nil {
		return Settings{}, fmt.Errorf("config: read: %w", err)
	}

	if s.ExtraConfigFile != "" {
		extra, err := LoadExtra(s.ExtraConfigFile)
		if err != nil {
			return Settings{}, err
		}
		s.Extra = extra
	}
	return s, nil
}

func applyKey(s *Settings, key, value string) {
	switch key {
	case "username":
		s.Username = value
	case "pidfile":
		s.Pidfile = value
	case "unixpath":
		s.Unixpath = value
	case "port":
		s.Port = atoiOr(value, s.Port)
	case "verbose":
		s.Verbose = boolOr(value, s.Verbose)
	case "maxconn":
		s.Maxconn = atoiOr(value, s.Maxconn)
	case "threads":
		s.Threads = atoiOr(value, s.Threads)
	case "backlog":
		s.Backlog = atoiOr(value, s.Backlog)
	case "max_requests":
		s.MaxReqs = atoiOr(value, s.MaxReqs)
	case "chinese_map_file":
		s.ChineseMapFile = value
	case "index_file":
		s.IndexFile = value
	case "max_depth":
		s.MaxDepth = atoiOr(value, s.MaxDepth)
	case "log_path":
		s.LogPath = value
	case "log_level":
		s.LogLevel = value
	case "monitor_port":
		s.MonitorPort = atoiOr(value, s.MonitorPort)
	case "monitor_timeout":
		s.MonitorTimeout = atoiOr(value, s.MonitorTimeout)
	case "extra_config_file":
		s.ExtraConfigFile = value
	default:
		// Unrecognized keys are ignored, not an error (spec §6).
	}
}

func atoiOr(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func boolOr(s string, fallback bool) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return fallback
	}
	return b
}
