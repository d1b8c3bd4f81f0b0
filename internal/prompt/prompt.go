// Package prompt renders provider-agnostic instruction payloads for the two
// note-processing tasks. The flashcard template is the single source of
// truth for the line format the response parser recognizes.
package prompt

import (
	"fmt"
	"strings"
	"unicode"

	"notedeck/internal/extract"
)

// TaskKind selects which instruction template to render.
type TaskKind string

const (
	TaskSummary    TaskKind = "summary"
	TaskFlashcards TaskKind = "flashcards"
)

// PairSeparator is the token between question and answer on a flashcard
// line. The flashcard template instructs the model to emit it and the
// parser splits on it.
const PairSeparator = "|"

// Params tunes template rendering and source truncation.
type Params struct {
	// SummaryWords is the requested summary length.
	SummaryWords int
	// MinCards and MaxCards bound the requested deck size.
	MinCards int
	MaxCards int
	// MaxSourceWords caps how much source text enters the prompt.
	MaxSourceWords int
}

const (
	defaultSummaryWords = 200
	defaultMinCards     = 5
	defaultMaxCards     = 10
	defaultSourceWords  = 3000
)

func (p Params) withDefaults() Params {
	if p.SummaryWords <= 0 {
		p.SummaryWords = defaultSummaryWords
	}
	maxSet := p.MaxCards > 0
	if p.MinCards <= 0 {
		p.MinCards = defaultMinCards
		// An explicit MaxCards below the defaulted minimum wins: the
		// rendered bound must never exceed what the caller asked for.
		if maxSet && p.MaxCards < p.MinCards {
			p.MinCards = p.MaxCards
		}
	}
	if !maxSet {
		p.MaxCards = defaultMaxCards
	}
	if p.MaxCards < p.MinCards {
		p.MaxCards = p.MinCards
	}
	if p.MaxSourceWords <= 0 {
		p.MaxSourceWords = defaultSourceWords
	}
	return p
}

// Payload is a rendered instruction for one task invocation. Rebuilt on
// every call; identical inputs produce byte-identical payloads.
type Payload struct {
	Task        TaskKind
	Instruction string
	Source      string
	Truncated   bool
	Params      Params
}

// Prompt returns the full text sent to a provider.
func (p Payload) Prompt() string {
	return p.Instruction + "\n\nACADEMIC NOTES:\n" + p.Source + "\n\n" + closingLabel(p.Task)
}

func closingLabel(task TaskKind) string {
	if task == TaskFlashcards {
		return "FLASHCARDS:"
	}
	return "SUMMARY:"
}

const summaryInstruction = "You are an expert academic assistant. Your task is to create a concise summary " +
	"of the following academic notes in about %d words. Focus on the key concepts, main ideas, and " +
	"important details. Organize the summary in a clear and structured way. Reply with the summary only."

const flashcardInstruction = "You are an expert academic assistant. Your task is to create flashcards based " +
	"on the following academic notes. Focus on key concepts, definitions, and important facts that would " +
	"be useful for studying. Create at least %d flashcards, but no more than %d.\n" +
	"Write exactly one flashcard per line, question and answer separated by the %q character, like this:\n" +
	"Q: What is the capital of France? %s A: Paris"

// Build renders the payload for a task. Deterministic and side-effect free.
func Build(task TaskKind, text extract.ExtractedText, params Params) (Payload, error) {
	params = params.withDefaults()

	var instruction string
	switch task {
	case TaskSummary:
		instruction = fmt.Sprintf(summaryInstruction, params.SummaryWords)
	case TaskFlashcards:
		instruction = fmt.Sprintf(flashcardInstruction, params.MinCards, params.MaxCards, PairSeparator, PairSeparator)
	default:
		return Payload{}, fmt.Errorf("unknown task kind %q", task)
	}

	source, truncated := truncateWords(text.Text, params.MaxSourceWords)
	return Payload{
		Task:        task,
		Instruction: instruction,
		Source:      source,
		Truncated:   truncated,
		Params:      params,
	}, nil
}

// truncateWords keeps the leading portion of s up to max whitespace-delimited
// words. Newlines inside the kept portion are preserved.
func truncateWords(s string, max int) (string, bool) {
	if max <= 0 {
		return s, false
	}
	count := 0
	inWord := false
	for i, r := range s {
		if unicode.IsSpace(r) {
			inWord = false
			continue
		}
		if !inWord {
			inWord = true
			count++
			if count > max {
				return strings.TrimRightFunc(s[:i], unicode.IsSpace), true
			}
		}
	}
	return s, false
}
