package httpapi

import (
	"encoding/json"
	"net/http"
)

// ErrorCode is the machine-readable "code" of an error response.
type ErrorCode string

const (
	CodeMethodNotAllowed  ErrorCode = "method_not_allowed"
	CodeInvalidJSON       ErrorCode = "invalid_json"
	CodeReadFailed        ErrorCode = "read_failed"
	CodeBodyTooLarge      ErrorCode = "body_too_large"
	CodeUnsupportedMedia  ErrorCode = "unsupported_media_type"
	CodeUnreadableDoc     ErrorCode = "unreadable_document"
	CodeCancelled         ErrorCode = "cancelled"
	CodeInvalidVocabulary ErrorCode = "invalid_vocabulary"
	CodeSaveFailed        ErrorCode = "save_failed"
	CodeReloadFailed      ErrorCode = "reload_failed"
	CodeStreamUnsupported ErrorCode = "stream_unsupported"
	CodeRateLimited       ErrorCode = "rate_limited"
	CodeInternal          ErrorCode = "internal_error"
	CodeForbidden         ErrorCode = "forbidden"
	CodeUnauthorized      ErrorCode = "unauthorized"
)

// APIError is the body of every non-2xx response:
// {"error":{"code":..,"message":..,"request_id":..}}.
type APIError struct {
	Error struct {
		Code      ErrorCode `json:"code"`
		Message   string    `json:"message"`
		RequestID string    `json:"request_id,omitempty"`
	} `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes the error envelope tagged with the request id.
func WriteError(w http.ResponseWriter, r *http.Request, status int, code ErrorCode, message string) {
	var e APIError
	e.Error.Code = code
	e.Error.Message = message
	e.Error.RequestID = RequestIDFrom(r.Context())
	WriteJSON(w, status, e)
}
