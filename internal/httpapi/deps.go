package httpapi

import (
	"log/slog"
	"sync/atomic"

	"jdparse-engine/internal/config"
	"jdparse-engine/internal/events"
	"jdparse-engine/internal/extract"
)

type Deps struct {
	Hub *events.Hub
	Log *slog.Logger

	// Atomic stores
	CfgVal    *atomic.Value // stores config.Config
	ParserVal *atomic.Value // stores *extract.Parser

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	// builds the parser for a freshly saved config
	NewParser func(cfg config.Config) (*extract.Parser, error)
}

func (d Deps) logger() *slog.Logger {
	if d.Log == nil {
		return slog.Default()
	}
	return d.Log
}
