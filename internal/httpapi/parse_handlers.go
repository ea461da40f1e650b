package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"sync/atomic"

	"jdparse-engine/internal/config"
	"jdparse-engine/internal/docfile"
	"jdparse-engine/internal/events"
	"jdparse-engine/internal/extract"
	"jdparse-engine/internal/htmltext"
)

type ParseHandler struct {
	CfgVal    *atomic.Value // stores config.Config
	ParserVal *atomic.Value // stores *extract.Parser
	Hub       *events.Hub
	Log       *slog.Logger
}

type parseRequest struct {
	Text any `json:"text"`
}

type batchRequest struct {
	Texts []any `json:"texts"`
}

func (h ParseHandler) parser() *extract.Parser {
	return h.ParserVal.Load().(*extract.Parser)
}

// Parse accepts JSON {"text": ...} or a document body (plain text, HTML,
// PDF, DOCX).
func (h ParseHandler) Parse(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}

	var text string
	switch mt := mediaType(r); mt {
	case "application/json":
		var in parseRequest
		if err := json.Unmarshal(body, &in); err != nil {
			WriteError(w, r, http.StatusBadRequest, CodeInvalidJSON, err.Error())
			return
		}
		text = flatten(extract.ValueText(in.Text))
	default:
		var err error
		text, err = docfile.Extract(mt, body)
		if errors.Is(err, docfile.ErrUnsupported) {
			WriteError(w, r, http.StatusUnsupportedMediaType, CodeUnsupportedMedia, err.Error())
			return
		}
		if err != nil {
			WriteError(w, r, http.StatusUnprocessableEntity, CodeUnreadableDoc, err.Error())
			return
		}
	}

	rec := h.parser().Parse(text)
	h.Hub.Publish(events.New(RequestIDFrom(r.Context()), events.TypeParsed, events.ParsedData{
		Title:     rec.Title,
		Company:   rec.Company,
		Defaulted: rec.DefaultedFields(),
	}))
	WriteJSON(w, http.StatusOK, rec)
}

// Batch parses JSON {"texts": [...]}; records come back in input order.
func (h ParseHandler) Batch(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}
	var in batchRequest
	if err := json.Unmarshal(body, &in); err != nil {
		WriteError(w, r, http.StatusBadRequest, CodeInvalidJSON, err.Error())
		return
	}

	texts := make([]string, len(in.Texts))
	for i, v := range in.Texts {
		texts[i] = flatten(extract.ValueText(v))
	}

	cfg := h.CfgVal.Load().(config.Config)
	recs, err := h.parser().ParseBatch(r.Context(), texts, cfg.Parser.BatchLimit)
	if err != nil {
		h.Log.Warn("parse.batch_aborted", "request_id", RequestIDFrom(r.Context()), "err", err)
		WriteError(w, r, http.StatusServiceUnavailable, CodeCancelled, err.Error())
		return
	}

	h.Hub.Publish(events.New(RequestIDFrom(r.Context()), events.TypeBatchParsed, events.BatchData{Count: len(recs)}))
	WriteJSON(w, http.StatusOK, recs)
}

// readBody reads at most parser.max_input_bytes and answers 413 beyond it.
func (h ParseHandler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	cfg := h.CfgVal.Load().(config.Config)
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, int64(cfg.Parser.MaxInputBytes)))
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			WriteError(w, r, http.StatusRequestEntityTooLarge, CodeBodyTooLarge, "request body exceeds parser.max_input_bytes")
			return nil, false
		}
		WriteError(w, r, http.StatusBadRequest, CodeReadFailed, err.Error())
		return nil, false
	}
	return body, true
}

func mediaType(r *http.Request) string {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return ""
	}
	return mt
}

// flatten turns HTML-looking text into plain text and leaves the rest alone.
func flatten(s string) string {
	if htmltext.LooksLikeHTML(s) {
		return htmltext.ToText(s)
	}
	return s
}
