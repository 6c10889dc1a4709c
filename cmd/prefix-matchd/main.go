// Command prefix-matchd is the serving daemon: it loads a configuration
// file, mmaps the configured trie index, and serves prefix-match
// lookups over both the binary TCP protocol and an HTTP admin surface,
// reloading the index on SIGUSR1, an mtime-poll, an admin request, or
// an optional NATS message.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/gops/agent"

	"github.com/pombredanne/prefix-match-server/internal/admin"
	"github.com/pombredanne/prefix-match-server/internal/audit"
	"github.com/pombredanne/prefix-match-server/internal/config"
	"github.com/pombredanne/prefix-match-server/internal/index"
	"github.com/pombredanne/prefix-match-server/internal/procsetup"
	"github.com/pombredanne/prefix-match-server/internal/reloadbus"
	"github.com/pombredanne/prefix-match-server/internal/server"
	"github.com/pombredanne/prefix-match-server/internal/signals"
	"github.com/pombredanne/prefix-match-server/pkg/romanize"
	"github.com/pombredanne/prefix-match-server/pkg/xlog"
)

func main() {
	os.Exit(run())
}

func run() int {
	cliInit()

	if flagConfigFile == "" {
		fmt.Fprintln(os.Stderr, "usage: prefix-matchd -f <config>")
		return -1
	}

	cfg, err := config.Load(flagConfigFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "prefix-matchd: %v\n", err)
		return -1
	}

	if cfg.LogPath != "" {
		if err := xlog.SetOutputFile(cfg.LogPath); err != nil {
			fmt.Fprintf(os.Stderr, "prefix-matchd: %v\n", err)
			return -1
		}
	}
	xlog.SetLogLevel(cfg.LogLevel)

	if flagGops {
		if err := agent.Listen(agent.Options{}); err != nil {
			xlog.Fatalf("gops/agent.Listen failed: %s", err.Error())
		}
	}

	if err := procsetup.WritePidfile(cfg.Pidfile); err != nil {
		xlog.Warnf("prefix-matchd: %v", err)
	}
	defer procsetup.RemovePidfile(cfg.Pidfile)

	dict, err := romanize.LoadDictionary(cfg.ChineseMapFile)
	if err != nil {
		xlog.Errorf("prefix-matchd: %v", err)
		return -1
	}

	registry := index.NewRegistry(cfg.IndexFile, cfg.Extra.S3.AccessKey, cfg.Extra.S3.SecretKey)
	if err := registry.Reload(context.Background(), cfg.IndexFile); err != nil {
		xlog.Errorf("prefix-matchd: initial index load: %v", err)
		return -1
	}

	// Privilege drop happens right after srv.ListenAndServe below has
	// bound its listeners and started accepting; the admin listener is
	// bound after the drop. Best effort, not fatal, since most
	// deployments never run this as root at all.
	srv := server.New(cfg, registry, dict)

	var auditLog *audit.Logger
	if cfg.Extra.Audit.Enabled {
		auditLog, err = audit.Open(cfg.Extra.Audit.Path)
		if err != nil {
			xlog.Errorf("prefix-matchd: %v", err)
			return -1
		}
		defer auditLog.Close()
	}
	srv.Audit = auditLog

	if err := srv.ListenAndServe(); err != nil {
		xlog.Errorf("prefix-matchd: %v", err)
		return -1
	}

	if cfg.Username != "" {
		if err := procsetup.DropPrivileges(cfg.Username, ""); err != nil {
			xlog.Warnf("prefix-matchd: drop privileges: %v", err)
		}
	}

	adminSrv := admin.New(cfg, registry, dict, srv.Metrics, auditLog)
	go func() {
		if err := adminSrv.ListenAndServe(); err != nil {
			xlog.Errorf("prefix-matchd: admin: %v", err)
		}
	}()

	watcher, err := server.NewWatcher(registry, cfg.IndexFile, srv.Metrics)
	if err != nil {
		xlog.Errorf("prefix-matchd: %v", err)
		return -1
	}
	if cfg.Extra.Watch.Enabled {
		interval := time.Duration(cfg.Extra.Watch.IntervalSeconds) * time.Second
		if err := watcher.Start(interval); err != nil {
			xlog.Errorf("prefix-matchd: watcher: %v", err)
			return -1
		}
		defer watcher.Stop()
	}

	bus, err := reloadbus.Connect(cfg, registry, srv.Metrics)
	if err != nil {
		xlog.Errorf("prefix-matchd: %v", err)
		return -1
	}
	defer bus.Close()

	sig := signals.New(registry, cfg.IndexFile, func() {
		adminSrv.Shutdown(context.Background())
		srv.Shutdown()
	})
	sig.Start()
	defer sig.Stop()

	xlog.Notef("prefix-matchd: ready on port %d", cfg.Port)
	select {}
}
