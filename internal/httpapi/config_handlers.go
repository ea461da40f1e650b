package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync/atomic"

	"jdparse-engine/internal/config"
	"jdparse-engine/internal/events"
	"jdparse-engine/internal/extract"
)

type ConfigHandler struct {
	CfgVal      *atomic.Value // stores config.Config
	ParserVal   *atomic.Value // stores *extract.Parser
	UserCfgPath string
	LoadCfg     func() (config.Config, error)
	NewParser   func(cfg config.Config) (*extract.Parser, error)
	Hub         *events.Hub
	Log         *slog.Logger
}

func (h ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	cur := h.CfgVal.Load().(config.Config)
	WriteJSON(w, http.StatusOK, cur)
}

// Put validates, saves and reloads the config, then swaps in a parser built
// from it. Requests already running keep the parser they started with.
func (h ConfigHandler) Put(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var incoming config.Config
	if err := dec.Decode(&incoming); err != nil {
		WriteError(w, r, http.StatusBadRequest, CodeInvalidJSON, err.Error())
		return
	}
	if dec.More() {
		WriteError(w, r, http.StatusBadRequest, CodeInvalidJSON, "trailing data")
		return
	}

	normalized, vr := config.NormalizeAndValidate(incoming)
	if !vr.OK() {
		// structured errors so the UI can show them
		WriteJSON(w, http.StatusBadRequest, vr)
		return
	}

	parser, err := h.NewParser(normalized)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, CodeInvalidVocabulary, err.Error())
		return
	}

	if err := config.SaveAtomic(h.UserCfgPath, normalized); err != nil {
		WriteError(w, r, http.StatusInternalServerError, CodeSaveFailed, err.Error())
		return
	}

	saved, err := h.LoadCfg()
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, CodeReloadFailed, "saved but reload failed: "+err.Error())
		return
	}
	h.CfgVal.Store(saved)
	h.ParserVal.Store(parser)

	h.Log.Info("config.saved", "request_id", RequestIDFrom(r.Context()), "path", h.UserCfgPath, "warnings", len(vr.Warnings))
	h.Hub.Publish(events.New(RequestIDFrom(r.Context()), events.TypeConfigChanged, events.ConfigData{
		Path:     h.UserCfgPath,
		Warnings: vr.Warnings,
	}))
	WriteJSON(w, http.StatusOK, saved)
}

func (h ConfigHandler) Path(w http.ResponseWriter, r *http.Request) {
	abs, _ := filepath.Abs(h.UserCfgPath)
	WriteJSON(w, http.StatusOK, map[string]any{"path": abs})
}

func (h ConfigHandler) Validate(w http.ResponseWriter, r *http.Request) {
	cur := h.CfgVal.Load().(config.Config)
	_, vr := config.NormalizeAndValidate(cur)
	WriteJSON(w, http.StatusOK, vr)
}
