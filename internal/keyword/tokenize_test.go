package keyword

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	cases := []struct {
		text string
		out  []string
	}{
		{"Hello, World!", []string{"hello", "world"}},
		{"This contains BADWORD!", []string{"this", "contains", "badword"}},
		{"punctuation...does,not;join--words", []string{"punctuation", "does", "not", "join", "words"}},
		{"  spaced   out  ", []string{"spaced", "out"}},
		{"", nil},
		{"   \t\n", nil},
		{"çok güzel", []string{"cok", "guzel"}},
		{"numbers 123 stay", []string{"numbers", "123", "stay"}},
	}
	for _, c := range cases {
		got := Tokenize(c.text)
		if c.out == nil {
			assert.Empty(t, got, "text=%q", c.text)
			continue
		}
		assert.Equal(t, c.out, got, "text=%q", c.text)
	}
}
