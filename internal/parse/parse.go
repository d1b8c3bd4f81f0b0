// Package parse turns raw model completions into validated pipeline output.
// Models drift: they number lines, wrap text in markdown emphasis, and
// prepend chatty boilerplate. Parsing strips the known decoration first and
// skips what it still cannot read, counting every skipped line.
package parse

import (
	"regexp"
	"strings"

	"notedeck/internal/fault"
	"notedeck/internal/prompt"
)

// Flashcard is one question/answer pair. Both sides are non-empty; malformed
// candidates are dropped during parsing, never defaulted.
type Flashcard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Deck is the ordered flashcard sequence recovered from one completion.
type Deck []Flashcard

// Diags counts what parsing had to discard.
type Diags struct {
	SkippedLines int
}

var (
	// Chatty lead-ins models add before the actual summary.
	summaryPreamble = regexp.MustCompile(`(?i)^(sure[.,!]?\s*)?(of course[.,!]?\s*)?(here\s+(is|'s)\s+(the|a|your)\s+[\w ]*summary|summary|flashcards)\s*[:.]\s*`)
	// Trailing offers of further help.
	summaryPostamble = regexp.MustCompile(`(?i)^(let me know|feel free|i hope this helps|would you like)`)

	numberingPrefix = regexp.MustCompile(`^(\d+[.)]\s+|[-*•]\s+)`)
	questionLabel   = regexp.MustCompile(`(?i)^(q(uestion)?\s*\d*\s*[:.])\s*`)
	answerLabel     = regexp.MustCompile(`(?i)^(a(nswer)?\s*\d*\s*[:.])\s*`)
)

// Summary trims boilerplate the model may wrap around a summary and returns
// the remaining text verbatim. It fails only if nothing remains.
func Summary(completion string) (string, error) {
	lines := strings.Split(strings.TrimSpace(completion), "\n")

	// Drop code fences and a leading boilerplate line.
	var kept []string
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if strings.HasPrefix(line, "```") {
			continue
		}
		if i == 0 {
			if rest := summaryPreamble.ReplaceAllString(line, ""); rest != line {
				if rest = strings.TrimSpace(rest); rest != "" {
					kept = append(kept, rest)
				}
				continue
			}
		}
		kept = append(kept, raw)
	}
	// Trim trailing sign-off lines.
	for len(kept) > 0 {
		last := strings.TrimSpace(kept[len(kept)-1])
		if last == "" || summaryPostamble.MatchString(last) {
			kept = kept[:len(kept)-1]
			continue
		}
		break
	}

	text := strings.TrimSpace(strings.Join(kept, "\n"))
	if text == "" {
		return "", &fault.ParseError{Code: fault.CodeEmptySummary, Msg: "completion contains no summary text"}
	}
	return text, nil
}

// Flashcards recovers question/answer pairs from a completion following the
// prompt's one-pair-per-line convention. Lines that do not match are skipped
// and counted, never fatal on their own; zero recovered pairs is an error so
// a refusing or malformed model is distinguishable from an empty deck.
func Flashcards(completion string) (Deck, Diags, error) {
	var (
		deck     Deck
		diags    Diags
		pendingQ string
	)
	flushPending := func() {
		if pendingQ != "" {
			diags.SkippedLines++ // question line without an answer
			pendingQ = ""
		}
	}

	for _, raw := range strings.Split(completion, "\n") {
		line := cleanLine(raw)
		if line == "" || isHeadingLine(line) {
			continue
		}

		if i := strings.Index(line, prompt.PairSeparator); i >= 0 {
			flushPending()
			q := stripSide(line[:i], questionLabel)
			a := stripSide(line[i+len(prompt.PairSeparator):], answerLabel)
			if q == "" || a == "" {
				diags.SkippedLines++
				continue
			}
			deck = append(deck, Flashcard{Question: q, Answer: a})
			continue
		}

		// Tolerate the two-line form: a Q: line followed by an A: line.
		if questionLabel.MatchString(line) {
			flushPending()
			if q := stripSide(line, questionLabel); q != "" {
				pendingQ = q
			} else {
				diags.SkippedLines++
			}
			continue
		}
		if answerLabel.MatchString(line) && pendingQ != "" {
			a := stripSide(line, answerLabel)
			if a == "" {
				diags.SkippedLines++
			} else {
				deck = append(deck, Flashcard{Question: pendingQ, Answer: a})
			}
			pendingQ = ""
			continue
		}

		flushPending()
		diags.SkippedLines++
	}
	flushPending()

	if len(deck) == 0 {
		return nil, diags, &fault.ParseError{Code: fault.CodeNoFlashcards, Msg: "no valid question/answer pairs recovered"}
	}
	return deck, diags, nil
}

// cleanLine strips decorative markers models sprinkle on flashcard lines:
// numbering, list bullets, markdown emphasis, code backticks.
func cleanLine(raw string) string {
	line := strings.TrimSpace(raw)
	if strings.HasPrefix(line, "```") {
		return ""
	}
	line = numberingPrefix.ReplaceAllString(line, "")
	for _, marker := range []string{"**", "__", "`"} {
		line = strings.ReplaceAll(line, marker, "")
	}
	line = strings.Trim(line, "*_")
	return strings.TrimSpace(line)
}

// stripSide normalizes one side of a pair: surrounding emphasis first, then
// the Q:/A: label, then whatever emphasis wrapped the text inside the label.
func stripSide(side string, label *regexp.Regexp) string {
	s := strings.TrimSpace(side)
	s = strings.TrimSpace(strings.Trim(s, "*_"))
	s = label.ReplaceAllString(s, "")
	s = strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "*_"))
	return s
}

// isHeadingLine filters the closing label the prompt itself requests, so it
// never pollutes the skipped-line count.
func isHeadingLine(line string) bool {
	upper := strings.ToUpper(strings.TrimSuffix(strings.TrimSpace(line), ":"))
	return upper == "FLASHCARDS" || upper == "SUMMARY"
}
