package usecase

import (
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty input", input: "", want: ""},
		{name: "strips symbols", input: "Tom$$Cruise!!", want: "TomCruise"},
		{name: "keeps allowed punctuation", input: "Shaquille O'Neal Jr.", want: "Shaquille O'Neal Jr."},
		{name: "keeps hyphen", input: "Jay-Z", want: "Jay-Z"},
		{name: "trims whitespace", input: "   Beyonce \t\n", want: "Beyonce"},
		{name: "only symbols", input: "$$$", want: ""},
		{name: "drops non-ascii letters", input: "Beyoncé", want: "Beyonc"},
		{name: "trims after stripping", input: "@ Rihanna #", want: "Rihanna"},
		{name: "keeps digits", input: "50 Cent", want: "50 Cent"},
		{name: "strips markup", input: "<script>alert(1)</script>", want: "scriptalert1script"},
		{name: "keeps no-break space", input: "Tom\u00a0Cruise", want: "Tom\u00a0Cruise"},
		{name: "keeps vertical tab", input: "Tom\vCruise", want: "Tom\vCruise"},
		{name: "keeps em space", input: "Tom\u2003Cruise", want: "Tom\u2003Cruise"},
		{name: "trims unicode whitespace", input: "\u3000Rihanna\u00a0\u2028", want: "Rihanna"},
		{name: "drops zero width space", input: "Tom\u200bCruise", want: "TomCruise"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.input))
		})
	}
}

func allowedQueryRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') ||
		r == '.' || r == '-' || r == '\'' || unicode.IsSpace(r)
}

func TestSanitize_OutputAlphabet(t *testing.T) {
	inputs := []string{
		"", "   ", "Tom$$Cruise!!", "日本語 name", "a b", "x\ty\nz", "!!  Kim K  !!",
		"semi;colon,comma", "O'Brien-Smith.", "\u200bzero width", "emoji 🙂 here",
		"\u00a0Tom\u00a0", "\u0085Kim\u2029", "Jay\u3000Z",
	}

	for _, in := range inputs {
		out := Sanitize(in)
		for _, r := range out {
			assert.True(t, allowedQueryRune(r), "input %q produced %q", in, r)
		}
		assert.Equal(t, out, Sanitize(out), "sanitize must be idempotent for %q", in)
		if out != "" {
			runes := []rune(out)
			assert.False(t, unicode.IsSpace(runes[0]), "input %q", in)
			assert.False(t, unicode.IsSpace(runes[len(runes)-1]), "input %q", in)
		}
	}
}
