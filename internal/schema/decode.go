package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/coursegest/internal/record"
)

// snippetLen bounds the payload excerpt carried by a DecodeError.
const snippetLen = 200

// DecodeError reports a structured payload that could not be decoded or did
// not match its schema. Snippet holds the start of the offending payload.
type DecodeError struct {
	Kind    record.Kind
	Snippet string
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s payload: %v (raw: %s)", e.Kind, e.Err, e.Snippet)
}

func (e *DecodeError) Unwrap() error { return e.Err }

var codeBlockRe = regexp.MustCompile("(?s)^```(?:json|JSON)?\\s*(.*?)\\s*```$")

// StripCodeBlock removes a surrounding markdown code fence, if any.
func StripCodeBlock(s string) string {
	s = strings.TrimSpace(s)
	if m := codeBlockRe.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return s
}

// LooksStructured reports whether text is a JSON object, bare or fenced.
func LooksStructured(text string) bool {
	s := StripCodeBlock(text)
	return strings.HasPrefix(s, "{") || (strings.HasPrefix(s, `"{`) && strings.HasSuffix(s, `"`))
}

// Decode turns an echoed structured payload into a typed record. Heading
// labels and legacy keys are renamed before decoding, and the renamed tree
// must satisfy the embedded schema for kind.
func Decode(kind record.Kind, raw string) (record.Record, error) {
	payload := StripCodeBlock(raw)
	fail := func(err error) (record.Record, error) {
		return nil, &DecodeError{Kind: kind, Snippet: head(payload, snippetLen), Err: err}
	}

	// Some providers return the object as a quoted JSON string.
	if strings.HasPrefix(payload, `"`) {
		var inner string
		if err := json.Unmarshal([]byte(payload), &inner); err != nil {
			return fail(fmt.Errorf("unquote payload: %w", err))
		}
		payload = StripCodeBlock(inner)
	}

	var tree any
	if err := json.Unmarshal([]byte(payload), &tree); err != nil {
		return fail(err)
	}
	obj, ok := tree.(map[string]any)
	if !ok {
		return fail(fmt.Errorf("expected a JSON object, got %T", tree))
	}
	if inner, ok := obj[string(kind)].(map[string]any); ok && len(obj) == 1 {
		obj = inner
	}

	var table map[string]string
	switch kind {
	case record.KindAssessment:
		table = AssessmentRenames
	case record.KindChapter:
		table = ChapterRenames
	default:
		return nil, fmt.Errorf("unknown schema kind: %q", kind)
	}
	renamed := Rename(obj, table)

	if err := Validate(kind, renamed); err != nil {
		return fail(err)
	}

	rec, err := record.New(kind)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(renamed)
	if err != nil {
		return fail(err)
	}
	if err := json.Unmarshal(b, rec); err != nil {
		return fail(err)
	}
	record.FillEmpty(rec)
	return rec, nil
}

// MapStrings passes every string value of a structured payload to fn, in a
// stable order, and re-encodes the payload with the returned values. Object
// keys are left alone. A payload that is not valid JSON is returned
// unchanged so that Decode can report it.
func MapStrings(raw string, fn func([]string) ([]string, error)) (string, error) {
	payload := StripCodeBlock(raw)
	if strings.HasPrefix(payload, `"`) {
		var inner string
		if json.Unmarshal([]byte(payload), &inner) != nil {
			return raw, nil
		}
		payload = StripCodeBlock(inner)
	}
	var tree any
	if json.Unmarshal([]byte(payload), &tree) != nil {
		return raw, nil
	}

	var leaves []string
	mapLeaves(tree, func(s string) string {
		leaves = append(leaves, s)
		return s
	})
	if len(leaves) == 0 {
		return raw, nil
	}
	out, err := fn(leaves)
	if err != nil {
		return raw, err
	}
	if len(out) != len(leaves) {
		return raw, fmt.Errorf("map strings: expected %d values, got %d", len(leaves), len(out))
	}
	i := 0
	tree = mapLeaves(tree, func(string) string {
		s := out[i]
		i++
		return s
	})

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(tree); err != nil {
		return raw, fmt.Errorf("map strings: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func mapLeaves(v any, fn func(string) string) any {
	switch t := v.(type) {
	case string:
		return fn(t)
	case map[string]any:
		for _, k := range slices.Sorted(maps.Keys(t)) {
			t[k] = mapLeaves(t[k], fn)
		}
	case []any:
		for i := range t {
			t[i] = mapLeaves(t[i], fn)
		}
	}
	return v
}

func head(s string, n int) string {
	if len(s) <= n {
		return s
	}
	// Back off to a rune boundary so the snippet stays valid UTF-8.
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
