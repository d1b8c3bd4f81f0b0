package parse

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"notedeck/internal/fault"
	"notedeck/internal/prompt"
)

func TestFlashcardsParsesDelimitedPairs(t *testing.T) {
	completion := "Q: What is X?|A: X is Y.\nnotalineatall\nQ: What is Z?|A: Z is W."

	deck, diags, err := Flashcards(completion)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Deck{
		{Question: "What is X?", Answer: "X is Y."},
		{Question: "What is Z?", Answer: "Z is W."},
	}
	assertDeck(t, deck, want)
	if diags.SkippedLines != 1 {
		t.Errorf("expected 1 skipped line, got %d", diags.SkippedLines)
	}
}

func TestFlashcardsRoundTrip(t *testing.T) {
	want := Deck{
		{Question: "What is entropy?", Answer: "A measure of disorder."},
		{Question: "Who proved the incompleteness theorems?", Answer: "Kurt Gödel."},
		{Question: "When was the transistor invented?", Answer: "1947."},
	}
	var sb strings.Builder
	for _, card := range want {
		fmt.Fprintf(&sb, "Q: %s %s A: %s\n", card.Question, prompt.PairSeparator, card.Answer)
	}

	deck, diags, err := Flashcards(sb.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDeck(t, deck, want)
	if diags.SkippedLines != 0 {
		t.Errorf("expected 0 skipped lines, got %d", diags.SkippedLines)
	}
}

func TestFlashcardsToleratesDecoration(t *testing.T) {
	completion := strings.Join([]string{
		"FLASHCARDS:",
		"1. **Q: What is a monad?** | *A: A monoid in the category of endofunctors.*",
		"2) Q: What is `gofmt`? | A: The canonical Go formatter.",
		"- Q: What is a goroutine? | A: A lightweight thread managed by the runtime.",
	}, "\n")

	deck, diags, err := Flashcards(completion)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Deck{
		{Question: "What is a monad?", Answer: "A monoid in the category of endofunctors."},
		{Question: "What is gofmt?", Answer: "The canonical Go formatter."},
		{Question: "What is a goroutine?", Answer: "A lightweight thread managed by the runtime."},
	}
	assertDeck(t, deck, want)
	if diags.SkippedLines != 0 {
		t.Errorf("heading or decorated lines wrongly counted as skipped: %d", diags.SkippedLines)
	}
}

func TestFlashcardsTwoLineForm(t *testing.T) {
	completion := "Q: What is osmosis?\nA: Diffusion of water across a membrane.\nQ: dangling question"

	deck, diags, err := Flashcards(completion)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDeck(t, deck, Deck{{Question: "What is osmosis?", Answer: "Diffusion of water across a membrane."}})
	if diags.SkippedLines != 1 {
		t.Errorf("expected dangling question counted as skipped, got %d", diags.SkippedLines)
	}
}

func TestFlashcardsMalformedSidesSkipped(t *testing.T) {
	completion := "Q: | A: answer without a question\nQ: question without an answer |\nQ: real? | A: yes."

	deck, diags, err := Flashcards(completion)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDeck(t, deck, Deck{{Question: "real?", Answer: "yes."}})
	if diags.SkippedLines != 2 {
		t.Errorf("expected 2 skipped lines, got %d", diags.SkippedLines)
	}
}

func TestFlashcardsTotality(t *testing.T) {
	for _, completion := range []string{
		"",
		"I cannot create flashcards from this document.",
		"no pairs\nhere\nat all",
	} {
		_, _, err := Flashcards(completion)
		if err == nil {
			t.Errorf("expected ParseError for %q, got nil", completion)
			continue
		}
		var pe *fault.ParseError
		if !errors.As(err, &pe) {
			t.Errorf("expected ParseError, got %T", err)
			continue
		}
		if pe.Code != fault.CodeNoFlashcards {
			t.Errorf("expected code %q, got %q", fault.CodeNoFlashcards, pe.Code)
		}
	}
}

func TestFlashcardsOrderPreserved(t *testing.T) {
	var lines []string
	for i := 0; i < 20; i++ {
		lines = append(lines, fmt.Sprintf("Q: question %02d? | A: answer %02d.", i, i))
	}
	deck, _, err := Flashcards(strings.Join(lines, "\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, card := range deck {
		if want := fmt.Sprintf("question %02d?", i); card.Question != want {
			t.Fatalf("card %d out of order: %q", i, card.Question)
		}
	}
}

func TestSummaryStripsBoilerplate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "The notes cover thermodynamics.", "The notes cover thermodynamics."},
		{"preamble line", "Here is the summary:\nThe notes cover thermodynamics.", "The notes cover thermodynamics."},
		{"inline preamble", "Summary: The notes cover thermodynamics.", "The notes cover thermodynamics."},
		{"postamble", "The notes cover thermodynamics.\n\nLet me know if you need more detail!", "The notes cover thermodynamics."},
		{"code fence", "```\nThe notes cover thermodynamics.\n```", "The notes cover thermodynamics."},
		{"multi paragraph survives", "First paragraph.\n\nSecond paragraph.", "First paragraph.\n\nSecond paragraph."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Summary(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSummaryEmptyFails(t *testing.T) {
	for _, in := range []string{"", "   \n\t", "Here is the summary:", "```\n```"} {
		_, err := Summary(in)
		if fault.CodeOf(err) != fault.CodeEmptySummary {
			t.Errorf("input %q: expected empty_summary, got %v", in, err)
		}
	}
}

func assertDeck(t *testing.T, got, want Deck) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("deck length %d, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("card %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
