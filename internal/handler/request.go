package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/postboard/internal/apperror"
)

// maxBodyBytes caps request bodies. Records are a handful of short strings.
const maxBodyBytes = 1 << 20

const invalidJSONMessage = "Invalid JSON body"

// decodeBody reads a JSON object into dst. An empty body decodes as {} so the
// service can report which field is missing.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// pathID reads the {id} URL parameter. A value that is not a base-10 integer
// cannot name any row, so it is reported as not found.
func pathID(r *http.Request, resource string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, apperror.NotFound(resource)
	}
	return id, nil
}

// parseUserID accepts user_id as a JSON integer or a string holding one
// ("10"). The second result is false for anything else, including null.
func parseUserID(raw json.RawMessage) (int64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, false
	}

	text := string(raw)
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		text = strings.TrimSpace(s)
	}

	id, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
