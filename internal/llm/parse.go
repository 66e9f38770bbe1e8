package llm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrMalformedPoem is returned when a provider reply is not a single JSON
// object carrying exactly lineOne, lineTwo and lineThree, all non-empty.
var ErrMalformedPoem = errors.New("malformed poem")

// Poem is a parsed three-line reply.
type Poem struct {
	LineOne   string `json:"lineOne"`
	LineTwo   string `json:"lineTwo"`
	LineThree string `json:"lineThree"`
}

// poemKeys maps each accepted key, matched case-sensitively, to its line.
var poemKeys = map[string]int{"lineOne": 0, "lineTwo": 1, "lineThree": 2}

// ParsePoem decodes body strictly. The body must be one JSON object whose
// keys are exactly lineOne, lineTwo and lineThree, each once, each a
// non-empty string. Anything else is an error wrapping ErrMalformedPoem. A
// trailing separator at the end of a line (",", ";", "/", "|") is dropped.
func ParsePoem(body string) (Poem, error) {
	if !gjson.Valid(body) {
		return Poem{}, fmt.Errorf("%w: invalid json", ErrMalformedPoem)
	}
	obj := gjson.Parse(body)
	if !obj.IsObject() {
		return Poem{}, fmt.Errorf("%w: not an object", ErrMalformedPoem)
	}

	var (
		out  [3]string
		seen [3]bool
		err  error
	)
	obj.ForEach(func(k, v gjson.Result) bool {
		idx, known := poemKeys[k.String()]
		switch {
		case !known:
			err = fmt.Errorf("%w: unknown key %q", ErrMalformedPoem, k.String())
		case seen[idx]:
			err = fmt.Errorf("%w: duplicate key %q", ErrMalformedPoem, k.String())
		case v.Type != gjson.String:
			err = fmt.Errorf("%w: %s is not a string", ErrMalformedPoem, k.String())
		default:
			seen[idx] = true
			out[idx] = cleanLine(v.String())
		}
		return err == nil
	})
	if err != nil {
		return Poem{}, err
	}

	for name, idx := range poemKeys {
		if !seen[idx] {
			return Poem{}, fmt.Errorf("%w: missing %s", ErrMalformedPoem, name)
		}
		if out[idx] == "" {
			return Poem{}, fmt.Errorf("%w: empty %s", ErrMalformedPoem, name)
		}
	}
	return Poem{LineOne: out[0], LineTwo: out[1], LineThree: out[2]}, nil
}

func cleanLine(s string) string {
	s = strings.TrimSpace(s)
	for s != "" && strings.ContainsRune(",;/|", rune(s[len(s)-1])) {
		s = strings.TrimSpace(s[:len(s)-1])
	}
	return s
}
