package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	dErrors "kycdid/pkg/domain-errors"
	"kycdid/pkg/requestcontext"
)

// MaxBodyBytes caps request bodies; document content travels inline.
const MaxBodyBytes = 8 << 20

// DecodeJSON decodes the request body into a T. On failure it writes a
// bad_request reply and returns nil, false.
//
//	req, ok := httputil.DecodeJSON[applicationRequest](w, r, h.logger)
//	if !ok {
//	    return
//	}
func DecodeJSON[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger) (*T, bool) {
	return decode[T](w, r, logger, false)
}

// DecodeOptionalJSON is DecodeJSON that accepts an empty body as the zero T.
func DecodeOptionalJSON[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger) (*T, bool) {
	return decode[T](w, r, logger, true)
}

func decode[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, allowEmpty bool) (*T, bool) {
	var req T
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes)).Decode(&req)
	if err == nil || (allowEmpty && errors.Is(err, io.EOF)) {
		return &req, true
	}
	ctx := r.Context()
	logger.WarnContext(ctx, "failed to decode request body",
		"error", err,
		"request_id", requestcontext.RequestID(ctx),
	)
	WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
	return nil, false
}
