package signer

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Sign computes a deterministic content digest of an arbitrary JSON-like
// value. The value is flattened into "dotted.path:token" leaf lines, the
// lines are sorted lexicographically and hashed with SHA-256, and the first
// 16 bytes are returned as a 32-character hex string.
//
// Object key order never affects the digest because the leaf lines are
// sorted; array order does, because elements keep their positional path
// segment. Nil leaves encode to a sentinel token distinct from the string
// "null", so the two can never collide. Map keys and string payloads are
// escaped before joining, so keys containing separator characters keep
// their structure: {"a.b": 1} and {"a": {"b": 1}} produce distinct digests.
func Sign(v any) (string, error) {
	normalized, err := normalize(v)
	if err != nil {
		return "", err
	}

	var lines []string
	if err := flatten(normalized, "", &lines); err != nil {
		return "", err
	}
	sort.Strings(lines)

	sum := sha256.Sum256([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(sum[:16]), nil
}

// Validate recomputes the digest of v and compares it to the expected value.
// Values that cannot be signed never validate.
func Validate(v any, digest string) bool {
	computed, err := Sign(v)
	if err != nil {
		return false
	}
	return computed == digest
}

// normalize reduces arbitrary Go values to the JSON data model
// (maps, slices, strings, float64, bool, nil) by round-tripping anything
// unfamiliar through JSON.
func normalize(v any) (any, error) {
	switch v.(type) {
	case nil, string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64,
		map[string]any, []any:
		return v, nil
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Join(ErrUnsupportedValue, err)
	}

	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, errors.Join(ErrUnsupportedValue, err)
	}
	return out, nil
}

func flatten(v any, path string, lines *[]string) error {
	switch val := v.(type) {
	case map[string]any:
		if len(val) == 0 {
			*lines = append(*lines, path+":m0")
			return nil
		}
		for k, child := range val {
			norm, err := normalize(child)
			if err != nil {
				return err
			}
			if err := flatten(norm, join(path, lineEscaper.Replace(k)), lines); err != nil {
				return err
			}
		}
	case []any:
		if len(val) == 0 {
			*lines = append(*lines, path+":a0")
			return nil
		}
		for i, child := range val {
			norm, err := normalize(child)
			if err != nil {
				return err
			}
			if err := flatten(norm, join(path, strconv.Itoa(i)), lines); err != nil {
				return err
			}
		}
	default:
		*lines = append(*lines, path+":"+token(val))
	}
	return nil
}

// lineEscaper keeps the structural separators (".", ":", "\n") out of path
// segments and string payloads, so a dotted map key can never collapse into
// nested-path form and a string leaf can never forge extra leaf lines.
var lineEscaper = strings.NewReplacer(
	"%", "%25",
	".", "%2E",
	":", "%3A",
	"\n", "%0A",
)

func join(path, segment string) string {
	if path == "" {
		return segment
	}
	return path + "." + segment
}

// token encodes a leaf with a type prefix so values of different types never
// collide ("s:null" vs the nil sentinel, "s:true" vs "b:true").
func token(v any) string {
	switch val := v.(type) {
	case nil:
		return "\x00nil"
	case string:
		return "s:" + lineEscaper.Replace(val)
	case bool:
		return "b:" + strconv.FormatBool(val)
	case float64:
		return "n:" + strconv.FormatFloat(val, 'g', -1, 64)
	case float32:
		return "n:" + strconv.FormatFloat(float64(val), 'g', -1, 64)
	case int:
		return "n:" + strconv.FormatFloat(float64(val), 'g', -1, 64)
	case int8:
		return "n:" + strconv.FormatFloat(float64(val), 'g', -1, 64)
	case int16:
		return "n:" + strconv.FormatFloat(float64(val), 'g', -1, 64)
	case int32:
		return "n:" + strconv.FormatFloat(float64(val), 'g', -1, 64)
	case int64:
		return "n:" + strconv.FormatFloat(float64(val), 'g', -1, 64)
	case uint:
		return "n:" + strconv.FormatFloat(float64(val), 'g', -1, 64)
	case uint8:
		return "n:" + strconv.FormatFloat(float64(val), 'g', -1, 64)
	case uint16:
		return "n:" + strconv.FormatFloat(float64(val), 'g', -1, 64)
	case uint32:
		return "n:" + strconv.FormatFloat(float64(val), 'g', -1, 64)
	case uint64:
		return "n:" + strconv.FormatFloat(float64(val), 'g', -1, 64)
	default:
		// Unreachable after normalize, kept as a safe fallback.
		return "?:" + fmt.Sprintf("%v", val)
	}
}
