package main

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"jdparse-engine/internal/config"
	"jdparse-engine/internal/events"
)

// reloader swaps in a new config and parser when the config file changes
// on disk.
type reloader struct {
	path      string
	cfgVal    *atomic.Value // stores config.Config
	parserVal *atomic.Value // stores *extract.Parser
	hub       *events.Hub
	log       *slog.Logger

	modTime time.Time
}

func newReloader(path string, cfgVal, parserVal *atomic.Value, hub *events.Hub, log *slog.Logger) *reloader {
	rl := &reloader{path: path, cfgVal: cfgVal, parserVal: parserVal, hub: hub, log: log}
	if fi, err := os.Stat(path); err == nil {
		rl.modTime = fi.ModTime()
	}
	return rl
}

// check is a scheduler.Task. An invalid edit is reported and the running
// config kept.
func (rl *reloader) check(context.Context) error {
	fi, err := os.Stat(rl.path)
	if err != nil {
		return err
	}
	if !fi.ModTime().After(rl.modTime) {
		return nil
	}
	rl.modTime = fi.ModTime()

	loaded, err := config.Load(rl.path)
	if err != nil {
		return err
	}
	cfg, vr := config.NormalizeAndValidate(loaded)
	if err := vr.Err(); err != nil {
		return err
	}
	p, err := buildParser(cfg, rl.log)
	if err != nil {
		return err
	}
	rl.cfgVal.Store(cfg)
	rl.parserVal.Store(p)

	rl.log.Info("config.reloaded", "path", rl.path, "warnings", len(vr.Warnings))
	rl.hub.Publish(events.New("", events.TypeConfigChanged, events.ConfigData{Path: rl.path, Warnings: vr.Warnings}))
	return nil
}
