package interpolation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFind(t *testing.T) {
	ps := Find("%s has %05.2f%% of %2$s")
	require.Len(t, ps, 4)

	assert.Equal(t, byte('s'), ps[0].Verb)
	assert.Equal(t, 0, ps[0].Position)
	assert.Equal(t, "05.2", ps[1].Flags)
	assert.Equal(t, byte('f'), ps[1].Verb)
	assert.True(t, ps[2].Escaped())
	assert.Equal(t, 2, ps[3].Position)

	assert.Nil(t, Find("no placeholders"))
}

func TestCountArgs(t *testing.T) {
	tests := map[string]int{
		"plain":              0,
		"100%%":              0,
		"%s and %s":          2,
		"%d items":           1,
		"%2$s before %1$s":   2,
		"%1$s again %1$s":    1,
		"%s then %3$s":       3,
		"50%":                0,
		"%-10s|%+d|% d|%05d": 4,
	}
	for text, want := range tests {
		assert.Equal(t, want, CountArgs(text), text)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		text string
		args []any
		want string
	}{
		{"no placeholders", "Save", nil, "Save"},
		{"string", "Hello %s", []any{"World"}, "Hello World"},
		{"number as string", "%s files", []any{3}, "3 files"},
		{"integer", "%d items", []any{"42"}, "42 items"},
		{"unsigned", "%u left", []any{7}, "7 left"},
		{"float", "%.2f EUR", []any{3.14159}, "3.14 EUR"},
		{"padding", "[%05d]", []any{42}, "[00042]"},
		{"left aligned", "[%-4s]", []any{"ab"}, "[ab  ]"},
		{"positional", "%2$s, %1$s", []any{"first", "second"}, "second, first"},
		{"escaped percent", "%d%% done", []any{50}, "50% done"},
		{"hex", "#%x", []any{255}, "#ff"},
		{"char", "%c", []any{65}, "A"},
		{"bool", "%d", []any{true}, "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Format(tt.text, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatArgumentMismatch(t *testing.T) {
	_, err := Format("Hello %s and %s", "one")
	assert.ErrorIs(t, err, ErrArgumentCount)
	assert.Contains(t, err.Error(), "Hello %s and %s")

	_, err = Format("Hello", "extra")
	assert.ErrorIs(t, err, ErrArgumentCount)
}
