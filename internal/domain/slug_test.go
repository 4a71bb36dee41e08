package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"  Lámpara  Luna ", "lampara-luna"},
		{"Ñandú & Cía.", "nandu-cia"},
		{"My App 2.0!", "my-app-2-0"},
		{"--already--slugged--", "already-slugged"},
		{"ÁÉÍÓÚ üñç", "aeiou-unc"},
		{"", ""},
		{"!!!", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Slugify(c.in), "input %q", c.in)
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	inputs := []string{"Hello World", "Café con Leche", "A — B — C", "x"}
	for _, in := range inputs {
		once := Slugify(in)
		assert.Equal(t, once, Slugify(once))
	}
}

func TestSlugifyTruncates(t *testing.T) {
	long := strings.Repeat("abcde ", 40)
	got := Slugify(long)
	assert.LessOrEqual(t, len(got), 100)
	assert.False(t, strings.HasSuffix(got, "-"))
}
