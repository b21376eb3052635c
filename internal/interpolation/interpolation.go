// Package interpolation finds and fills printf-style placeholders in
// translatable strings.
package interpolation

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrArgumentCount is returned when a string needs a different number of
// arguments than supplied.
var ErrArgumentCount = errors.New("placeholder count does not match argument count")

// Placeholder is one conversion such as %s, %05.2f or %2$s.
type Placeholder struct {
	Start, End int
	// Position is the explicit argument number of %N$ forms, 0 otherwise.
	Position int
	Flags    string
	Verb     byte
}

// Escaped reports whether the placeholder is a literal %%.
func (p Placeholder) Escaped() bool { return p.Verb == '%' }

var pattern = regexp.MustCompile(`%%|%(?:(\d+)\$)?([-+ 0]*\d*(?:\.\d+)?)([bcdeEfFgGosuxX])`)

// Find returns every placeholder of text in order, including %% escapes.
func Find(text string) []Placeholder {
	locs := pattern.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}

	out := make([]Placeholder, 0, len(locs))
	for _, loc := range locs {
		p := Placeholder{Start: loc[0], End: loc[1]}
		if text[loc[0]:loc[1]] == "%%" {
			p.Verb = '%'
			out = append(out, p)
			continue
		}
		if loc[2] >= 0 {
			p.Position, _ = strconv.Atoi(text[loc[2]:loc[3]])
		}
		p.Flags = text[loc[4]:loc[5]]
		p.Verb = text[loc[6]]
		out = append(out, p)
	}
	return out
}

// CountArgs returns how many arguments text consumes.
func CountArgs(text string) int {
	next, highest := 0, 0
	for _, p := range Find(text) {
		switch {
		case p.Escaped():
		case p.Position > 0:
			highest = max(highest, p.Position)
		default:
			next++
			highest = max(highest, next)
		}
	}
	return highest
}

// Format replaces the placeholders of text with args.
func Format(text string, args ...any) (string, error) {
	placeholders := Find(text)
	if want := CountArgs(text); want != len(args) {
		return "", fmt.Errorf("%w: %q needs %d, got %d", ErrArgumentCount, text, want, len(args))
	}
	if len(placeholders) == 0 {
		return text, nil
	}

	var b strings.Builder
	last, next := 0, 0
	for _, p := range placeholders {
		b.WriteString(text[last:p.Start])
		last = p.End

		if p.Escaped() {
			b.WriteByte('%')
			continue
		}
		idx := next
		if p.Position > 0 {
			idx = p.Position - 1
		} else {
			next++
		}
		b.WriteString(convert(p, args[idx]))
	}
	b.WriteString(text[last:])
	return b.String(), nil
}

func convert(p Placeholder, arg any) string {
	prefix := "%" + p.Flags
	switch p.Verb {
	case 's':
		return fmt.Sprintf(prefix+"s", fmt.Sprint(arg))
	case 'd', 'u':
		return fmt.Sprintf(prefix+"d", toInt(arg))
	case 'c':
		return string(rune(toInt(arg)))
	case 'b', 'o', 'x', 'X':
		return fmt.Sprintf(prefix+string(p.Verb), toInt(arg))
	case 'F':
		return fmt.Sprintf(prefix+"f", toFloat(arg))
	default:
		return fmt.Sprintf(prefix+string(p.Verb), toFloat(arg))
	}
}

func toInt(arg any) int64 {
	switch v := arg.(type) {
	case int:
		return int64(v)
	case int8:
		return int64(v)
	case int16:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	case uint:
		return int64(v)
	case uint8:
		return int64(v)
	case uint16:
		return int64(v)
	case uint32:
		return int64(v)
	case uint64:
		return int64(v)
	case float32:
		return int64(v)
	case float64:
		return int64(v)
	case bool:
		if v {
			return 1
		}
		return 0
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			return n
		}
		return int64(toFloat(v))
	}
	return 0
}

func toFloat(arg any) float64 {
	switch v := arg.(type) {
	case float32:
		return float64(v)
	case float64:
		return v
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f
	}
	return float64(toInt(arg))
}
