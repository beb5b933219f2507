// Package payload classifies raw MQTT message payloads into a small set of
// decoded kinds (UTF-8 text, JSON, MessagePack, binary) and extracts an
// optional numeric value for graphing, per spec §4.1.
package payload

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/vmihailenco/msgpack/v5"
)

// Kind tags which variant a Payload decoded to.
type Kind int

const (
	// KindText is valid UTF-8 that does not parse as JSON.
	KindText Kind = iota
	// KindJSON is valid UTF-8 that also parses as a JSON value.
	KindJSON
	// KindMessagePack is not valid UTF-8 but decodes cleanly as MessagePack.
	KindMessagePack
	// KindBinary is none of the above.
	KindBinary
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindJSON:
		return "json"
	case KindMessagePack:
		return "messagepack"
	case KindBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// Payload is the memoized classification of one message's raw bytes.
type Payload struct {
	Kind Kind

	// Raw holds the (possibly truncated) bytes exactly as stored.
	Raw []byte

	// Text holds the decoded string for KindText and KindJSON.
	Text string

	// JSON holds the parsed value for KindJSON, decoded with
	// json.Number so large integers are not rounded to float64.
	JSON any

	// MessagePack holds the decoded value for KindMessagePack.
	MessagePack any

	// Truncated is true when Raw was cut short by the configured
	// payload size limit and does not represent the full wire payload.
	Truncated bool
}

// Decode classifies raw according to spec §4.1: valid UTF-8 is tried as
// JSON first; failing that it is MessagePack-decoded only if the decode
// consumes the entire buffer; otherwise it is Binary. raw is retained by
// reference, not copied (caller keeps it immutable).
func Decode(raw []byte, truncated bool) Payload {
	p := Payload{Raw: raw, Truncated: truncated}

	if utf8.Valid(raw) {
		p.Text = string(raw)
		if v, ok := parseJSON(raw); ok {
			p.Kind = KindJSON
			p.JSON = v
			return p
		}
		p.Kind = KindText
		return p
	}

	if v, ok := parseMessagePackExact(raw); ok {
		p.Kind = KindMessagePack
		p.MessagePack = v
		return p
	}

	p.Kind = KindBinary
	return p
}

func parseJSON(raw []byte) (any, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	// Reject trailing garbage after the first JSON value.
	if dec.More() {
		return nil, false
	}
	return v, true
}

func parseMessagePackExact(raw []byte) (any, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	dec := msgpack.NewDecoder(bytes.NewReader(raw))
	v, err := dec.DecodeInterface()
	if err != nil {
		return nil, false
	}
	if dec.Buffered() > 0 {
		// Bytes left unconsumed: the decode did not span the whole buffer.
		return nil, false
	}
	return v, true
}

// Number extracts a finite real number from p for graphing, per the rules
// in spec §4.1. Returns ok=false when no number can be extracted or the
// candidate is non-finite (NaN or +-Inf).
func Number(p Payload) (float64, bool) {
	switch p.Kind {
	case KindText:
		return numberFromText(p.Text)
	case KindJSON:
		return numberFromJSON(p.JSON)
	case KindMessagePack:
		return numberFromMessagePack(p.MessagePack)
	default:
		return 0, false
	}
}

func numberFromText(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if idx := strings.IndexAny(s, " \t\r\n"); idx >= 0 {
		s = s[:idx]
	}
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return finite(f)
}

func numberFromJSON(v any) (float64, bool) {
	switch val := v.(type) {
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return 0, false
		}
		return finite(f)
	case string:
		return numberFromText(val)
	default:
		return 0, false
	}
}

func numberFromMessagePack(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return finite(val)
	case float32:
		return finite(float64(val))
	case int64:
		return finite(float64(val))
	case int32:
		return finite(float64(val))
	case int16:
		return finite(float64(val))
	case int8:
		return finite(float64(val))
	case int:
		return finite(float64(val))
	case uint64:
		return finite(float64(val))
	case uint32:
		return finite(float64(val))
	case uint16:
		return finite(float64(val))
	case uint8:
		return finite(float64(val))
	default:
		return 0, false
	}
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
