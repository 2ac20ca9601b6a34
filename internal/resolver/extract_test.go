package resolver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricofy/wolfram-skill/internal/wolfram"
)

func pod(title, text string) wolfram.Pod {
	return wolfram.Pod{Title: title, Subpods: []wolfram.Subpod{{Plaintext: text}}}
}

func TestSelectPod(t *testing.T) {
	tests := []struct {
		name      string
		pods      []wolfram.Pod
		wantTitle string
		wantOK    bool
	}{
		{
			name:      "first accepted wins",
			pods:      []wolfram.Pod{pod("Input", "x"), pod("Limit", "a = 1"), pod("Result", "2")},
			wantTitle: "Limit",
			wantOK:    true,
		},
		{
			name:      "decimal approximation accepted",
			pods:      []wolfram.Pod{pod("Input interpretation", "pi"), pod("Decimal approximation", "3.14...")},
			wantTitle: "Decimal approximation",
			wantOK:    true,
		},
		{
			name:   "title match is case sensitive",
			pods:   []wolfram.Pod{pod("result", "2"), pod("RESULT", "2")},
			wantOK: false,
		},
		{
			name:   "no pods",
			pods:   nil,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectPod(tt.pods)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantTitle, got.Title)
		})
	}
}

func TestExtractAnswer(t *testing.T) {
	tests := []struct {
		name string
		pod  wolfram.Pod
		want string
	}{
		{"result verbatim", pod("Result", "42"), "42"},
		{"result keeps text", pod("Result", "Paris, Île-de-France, France"), "Paris, Île-de-France, France"},
		{"decimal rounds to four places", pod("Decimal approximation", "3.14159..."), "Approximately 3.1416"},
		{"decimal long expansion", pod("Decimal approximation", "2.7182818284590452353602874713526624977572470937000..."), "Approximately 2.7183"},
		{"decimal negative", pod("Decimal approximation", "-0.33333333333..."), "Approximately -0.3333"},
		{"decimal integer value", pod("Decimal approximation", "2.00000..."), "Approximately 2.0"},
		{"complex value", pod("Decimal approximation", "2.5 + 3.7 i ..."), "Approximately 2.5 + 3.7 i"},
		{"complex rounds to two places", pod("Decimal approximation", "0.20787957635 + 0.1234 i..."), "Approximately 0.21 + 0.12 i"},
		{"complex negative imaginary", pod("Decimal approximation", "1.5 - 0.866025 i"), "Approximately 1.5 - 0.87 i"},
		{"limit after equals", pod("Limit", "lim f(x) = 7"), "7"},
		{"limit uses first equals", pod("Limit", "lim_(x->0) sin(x)/x = 1 = one"), "1 = one"},
		{"limit with nothing after equals", pod("Limit", "x ="), ""},
		{"limit ending in equals", pod("Limit", "x="), ""},
		{"limit multibyte rune after equals", pod("Limit", "lim x->0 1/x =∞"), ""},
		{"limit multibyte value", pod("Limit", "lim_(x->0+) 1/x = ∞"), "∞"},
		{"complex whole parts", pod("Decimal approximation", "2 + 3 i"), "Approximately 2.0 + 3.0 i"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractAnswer(tt.pod)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractAnswer_Errors(t *testing.T) {
	tests := []struct {
		name string
		pod  wolfram.Pod
	}{
		{"no subpod", wolfram.Pod{Title: "Result"}},
		{"empty plaintext", pod("Result", "")},
		{"whitespace plaintext", pod("Result", "  \n ")},
		{"empty decimal plaintext", pod("Decimal approximation", "")},
		{"decimal not a number", pod("Decimal approximation", "about three")},
		{"complex too short", pod("Decimal approximation", "2.5i")},
		{"complex bad imaginary", pod("Decimal approximation", "2.5 + x i")},
		{"limit without equals", pod("Limit", "diverges")},
		{"title not accepted", pod("Input", "1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractAnswer(tt.pod)
			require.Error(t, err)

			var ee *ExtractionError
			require.True(t, errors.As(err, &ee))
			assert.Equal(t, tt.pod.Title, ee.Title)
		})
	}
}

func TestFormatRounded(t *testing.T) {
	tests := []struct {
		v      float64
		places int
		want   string
	}{
		{3.14159, 4, "3.1416"},
		{-0.00001, 4, "0.0"},
		{2.5, 2, "2.5"},
		{-1.2351, 2, "-1.24"},
		{2, 4, "2.0"},
		{0.125, 2, "0.12"},
		{0.375, 2, "0.38"},
		{-7, 2, "-7.0"},
	}

	for _, tt := range tests {
		if got := formatRounded(tt.v, tt.places); got != tt.want {
			t.Errorf("formatRounded(%v, %d) = %q, want %q", tt.v, tt.places, got, tt.want)
		}
	}
}
