package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
)

// maxBodySize caps request bodies; every payload here is a few hundred bytes.
const maxBodySize = 1 << 20

// writeJSON encodes a response body with the given function and writes it
// with the status code.
func writeJSON(w http.ResponseWriter, status int, encode func(e *jx.Encoder)) {
	var e jx.Encoder
	encode(&e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

// writeError writes a {code, message} error body.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("code")
		e.Int(status)
		e.FieldStart("message")
		e.Str(message)
		e.ObjEnd()
	})
}

// fieldMoney emits a monetary field as a raw JSON number with exactly two
// decimal places, e.g. 81.00. encoding/json cannot do this without wrapper
// types, which is the reason the handler layer uses jx.
func fieldMoney(e *jx.Encoder, name string, v decimal.Decimal) {
	e.FieldStart(name)
	e.RawStr(v.StringFixed(2))
}

// fieldDecimal emits a decimal field without forcing a scale (used for
// percentages).
func fieldDecimal(e *jx.Encoder, name string, v decimal.Decimal) {
	e.FieldStart(name)
	e.RawStr(v.String())
}

func fieldStr(e *jx.Encoder, name, v string) {
	e.FieldStart(name)
	e.Str(v)
}

func fieldInt(e *jx.Encoder, name string, v int) {
	e.FieldStart(name)
	e.Int(v)
}

func fieldInt64(e *jx.Encoder, name string, v int64) {
	e.FieldStart(name)
	e.Int64(v)
}

func fieldTime(e *jx.Encoder, name string, v time.Time) {
	e.FieldStart(name)
	e.Str(v.UTC().Format(time.RFC3339))
}

// decodeBody reads and decodes a JSON request body. It returns false after
// writing a 400 response when the body is unreadable or malformed.
func decodeBody(w http.ResponseWriter, r *http.Request, decode func(d *jx.Decoder) error) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot read request body")
		return false
	}

	if err := decode(jx.DecodeBytes(body)); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
