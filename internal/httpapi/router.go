package httpapi

import "net/http"

// NewMux returns the raw mux so main() can still attach /shutdown (needs srv+token).
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: HealthHandler{}.Health,
	}))
	mux.HandleFunc("/schema", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: HealthHandler{}.Schema,
	}))

	// Parsing
	ph := ParseHandler{CfgVal: d.CfgVal, ParserVal: d.ParserVal, Hub: d.Hub, Log: d.logger()}
	mux.HandleFunc("/parse", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ph.Parse,
	}))
	mux.HandleFunc("/parse/batch", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ph.Batch,
	}))

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		ParserVal:   d.ParserVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
		NewParser:   d.NewParser,
		Hub:         d.Hub,
		Log:         d.logger(),
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))
	mux.HandleFunc("/config/validate", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Validate,
	}))

	// SSE events
	if d.Hub != nil {
		eh := EventsHandler{Hub: d.Hub}
		mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
			http.MethodGet: eh.ServeSSE,
		}))
	}

	return mux
}
