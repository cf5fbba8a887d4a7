package lingua_test

import (
	"strings"
	"testing"

	bloglingua "github.com/fwojciec/blogtext/lingua"
	"github.com/pemistahl/lingua-go"
	"github.com/stretchr/testify/assert"
)

func TestDetector_DetectLanguage(t *testing.T) {
	t.Parallel()

	d := bloglingua.NewDetector(lingua.English, lingua.German, lingua.French, lingua.Spanish)

	tests := []struct {
		name string
		text string
		want string
	}{
		{"english", "Plant garlic cloves about six weeks before the ground freezes, then mulch them well.", "en"},
		{"german", "Der Knoblauch wird etwa sechs Wochen vor dem ersten Frost in die Erde gesteckt.", "de"},
		{"french", "Il faut planter les gousses d'ail environ six semaines avant les premières gelées.", "fr"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, d.DetectLanguage(tt.text))
		})
	}
}

func TestDetector_LongTextIsSampled(t *testing.T) {
	t.Parallel()

	d := bloglingua.NewDetector(lingua.English, lingua.German)
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 200)

	assert.Equal(t, "en", d.DetectLanguage(text))
}
