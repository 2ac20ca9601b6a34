package resolver

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pricofy/wolfram-skill/internal/wolfram"
)

// Pod titles eligible to answer a query, in no particular priority; document
// order decides.
const (
	TitleResult  = "Result"
	TitleDecimal = "Decimal approximation"
	TitleLimit   = "Limit"
)

var acceptedTitles = map[string]bool{
	TitleResult:  true,
	TitleDecimal: true,
	TitleLimit:   true,
}

// ExtractionError reports a selected pod whose text could not be turned into
// an answer.
type ExtractionError struct {
	Title string
	Text  string
	Err   error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %q pod from %q: %v", e.Title, e.Text, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

var (
	errNoPlaintext = errors.New("pod has no plaintext")
	errNoEquals    = errors.New("no '=' in limit")
	errComplex     = errors.New("complex value needs real, operator and imaginary parts")
)

// SelectPod returns the first pod, in document order, whose title is accepted.
func SelectPod(pods []wolfram.Pod) (wolfram.Pod, bool) {
	for _, pod := range pods {
		if acceptedTitles[pod.Title] {
			return pod, true
		}
	}
	return wolfram.Pod{}, false
}

// ExtractAnswer converts the selected pod's plaintext into spoken text.
func ExtractAnswer(pod wolfram.Pod) (string, error) {
	text, ok := pod.Plaintext()
	if !ok || strings.TrimSpace(text) == "" {
		return "", &ExtractionError{Title: pod.Title, Err: errNoPlaintext}
	}

	var (
		answer string
		err    error
	)
	switch pod.Title {
	case TitleResult:
		answer = text
	case TitleDecimal:
		answer, err = decimalApproximation(text)
	case TitleLimit:
		answer, err = limitValue(text)
	default:
		err = errors.New("title not accepted")
	}
	if err != nil {
		return "", &ExtractionError{Title: pod.Title, Text: text, Err: err}
	}
	return answer, nil
}

func decimalApproximation(text string) (string, error) {
	s := strings.ReplaceAll(text, "...", "")

	if !strings.Contains(s, "i") {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return "", err
		}
		return "Approximately " + formatRounded(v, 4), nil
	}

	// "<re> <op> <im> i"
	fields := strings.Fields(s)
	if len(fields) < 3 {
		return "", errComplex
	}
	re, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return "", err
	}
	im, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return "", err
	}

	op := "+"
	if fields[1] == "-" || fields[1] == "−" {
		op = "-"
	}
	return fmt.Sprintf("Approximately %s %s %s i", formatRounded(re, 2), op, formatRounded(im, 2)), nil
}

func limitValue(text string) (string, error) {
	idx := strings.Index(text, "=")
	if idx < 0 {
		return "", errNoEquals
	}
	// skip "=" and the rune after it, usually a space
	rest := text[idx+1:]
	_, n := utf8.DecodeRuneInString(rest)
	return rest[n:], nil
}

// formatRounded rounds half to even at places decimals and prints the
// shortest representation with at least one decimal ("2.0", "3.1416").
func formatRounded(v float64, places int) string {
	scale := math.Pow(10, float64(places))
	rounded := math.RoundToEven(v*scale) / scale
	if rounded == 0 {
		rounded = 0 // normalise -0
	}
	s := strconv.FormatFloat(rounded, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
