// Package pipeline sequences one processing run: extraction, prompt
// construction, provider invocation, and parsing, for both the summary and
// flashcard tasks. It does no retrying of its own; resilience lives in the
// provider layer.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"notedeck/internal/cache"
	"notedeck/internal/document"
	"notedeck/internal/extract"
	"notedeck/internal/fault"
	"notedeck/internal/parse"
	"notedeck/internal/prompt"
	"notedeck/internal/provider"
)

// State names where a run currently is, or ended.
type State string

const (
	StateReceived     State = "received"
	StateExtracting   State = "extracting"
	StateExtracted    State = "extracted"
	StateSummarizing  State = "summarizing"
	StateFlashcarding State = "flashcarding"
	StateCompleted    State = "completed"
	StateFailed       State = "failed"
)

// TaskStatus records the outcome of one LLM task within a run.
type TaskStatus string

const (
	TaskOK      TaskStatus = "ok"
	TaskFailed  TaskStatus = "failed"
	TaskSkipped TaskStatus = "skipped" // run aborted before the task started
)

// Options tune one run.
type Options struct {
	// Strict makes the whole run fail unless both tasks succeed.
	Strict bool
	// SummaryWords, MinCards, MaxCards and MaxSourceWords feed the prompt
	// builder; zero values use its defaults.
	SummaryWords   int
	MinCards       int
	MaxCards       int
	MaxSourceWords int
}

// Diagnostics is the per-run structured record of task outcomes.
type Diagnostics struct {
	RunID            uuid.UUID       `json:"run_id"`
	State            State           `json:"state"`
	SourceFormat     document.Format `json:"source_format,omitempty"`
	ExtractionOK     bool            `json:"extraction_ok"`
	CharCount        int             `json:"char_count,omitempty"`
	Truncated        bool            `json:"truncated"`
	SummaryStatus    TaskStatus      `json:"summary_status"`
	SummaryError     string          `json:"summary_error,omitempty"`
	FlashcardStatus  TaskStatus      `json:"flashcard_status"`
	FlashcardError   string          `json:"flashcard_error,omitempty"`
	SkippedLineCount int             `json:"skipped_line_count"`
}

// Result is the terminal artifact of one run. Summary is nil when the
// summary task failed; absence is explicit, never placeholder content.
type Result struct {
	Summary     *string     `json:"summary,omitempty"`
	Deck        parse.Deck  `json:"deck,omitempty"`
	Diagnostics Diagnostics `json:"diagnostics"`
}

// Runner is what callers of the pipeline depend on.
type Runner interface {
	Run(ctx context.Context, doc document.Document, provCfg provider.Config, opts Options) (Result, error)
}

// Pipeline orchestrates runs. Safe for concurrent use: each run carries its
// own state and nothing is shared across runs.
type Pipeline struct {
	Log      *slog.Logger
	Cache    cache.Cache
	CacheTTL time.Duration

	// NewClient builds the provider client for a run. Tests swap it out.
	NewClient func(provider.Config) (provider.Client, error)
}

// New builds a Pipeline with the real provider factory.
func New(log *slog.Logger, c cache.Cache, cacheTTL time.Duration) *Pipeline {
	if c == nil {
		c = cache.NewNoOpCache()
	}
	return &Pipeline{
		Log:       log,
		Cache:     c,
		CacheTTL:  cacheTTL,
		NewClient: provider.New,
	}
}

type taskResult struct {
	summary   string
	deck      parse.Deck
	truncated bool
	skipped   int
	err       error
}

// Run executes one full processing run. The returned error is non-nil only
// when the run as a whole failed: bad provider configuration, extraction
// failure, both tasks failing, or any task failing in strict mode.
// Individual task failures otherwise surface through Diagnostics.
func (p *Pipeline) Run(ctx context.Context, doc document.Document, provCfg provider.Config, opts Options) (Result, error) {
	diags := Diagnostics{
		RunID:           uuid.New(),
		State:           StateReceived,
		SummaryStatus:   TaskSkipped,
		FlashcardStatus: TaskSkipped,
	}
	log := p.Log.With("run_id", diags.RunID, "document", doc.Name)

	// Provider selection is pure configuration; fail here, not mid-run.
	client, err := p.NewClient(provCfg)
	if err != nil {
		diags.State = StateFailed
		log.Error("provider configuration rejected", "err", err)
		return Result{Diagnostics: diags}, err
	}

	diags.State = StateExtracting
	text, err := extract.Extract(doc)
	if err != nil {
		diags.State = StateFailed
		log.Error("extraction failed", "err", err)
		return Result{Diagnostics: diags}, err
	}
	diags.State = StateExtracted
	diags.ExtractionOK = true
	diags.SourceFormat = text.SourceFormat
	diags.CharCount = text.CharCount
	log.Info("text extracted", "format", text.SourceFormat, "chars", text.CharCount)

	promptParams := prompt.Params{
		SummaryWords:   opts.SummaryWords,
		MinCards:       opts.MinCards,
		MaxCards:       opts.MaxCards,
		MaxSourceWords: opts.MaxSourceWords,
	}

	// The two tasks are independent given the same text; run them
	// concurrently and join on their own result slots. A failure in one
	// must not cancel the other, so the group context stays unused.
	var sumRes, cardRes taskResult
	g := new(errgroup.Group)
	g.Go(func() error {
		sumRes = p.runSummary(ctx, log, client, provCfg, text, promptParams)
		return nil
	})
	g.Go(func() error {
		cardRes = p.runFlashcards(ctx, log, client, provCfg, text, promptParams)
		return nil
	})
	_ = g.Wait()

	diags.Truncated = sumRes.truncated || cardRes.truncated
	diags.SkippedLineCount = cardRes.skipped

	result := Result{Diagnostics: diags}
	if sumRes.err != nil {
		diags.SummaryStatus = TaskFailed
		diags.SummaryError = string(fault.CodeOf(sumRes.err))
		log.Warn("summary task failed", "err", sumRes.err)
	} else {
		diags.SummaryStatus = TaskOK
		result.Summary = &sumRes.summary
	}
	if cardRes.err != nil {
		diags.FlashcardStatus = TaskFailed
		diags.FlashcardError = string(fault.CodeOf(cardRes.err))
		log.Warn("flashcard task failed", "err", cardRes.err)
	} else {
		diags.FlashcardStatus = TaskOK
		result.Deck = cardRes.deck
	}

	switch {
	case opts.Strict && (sumRes.err != nil || cardRes.err != nil):
		diags.State = StateFailed
		result.Diagnostics = diags
		if sumRes.err != nil {
			return result, fmt.Errorf("strict run: summary task: %w", sumRes.err)
		}
		return result, fmt.Errorf("strict run: flashcard task: %w", cardRes.err)
	case sumRes.err != nil && cardRes.err != nil:
		diags.State = StateFailed
		result.Diagnostics = diags
		return result, fmt.Errorf("both tasks failed; summary: %w", sumRes.err)
	}

	diags.State = StateCompleted
	result.Diagnostics = diags
	log.Info("run completed",
		"summary_status", diags.SummaryStatus,
		"flashcard_status", diags.FlashcardStatus,
		"skipped_lines", diags.SkippedLineCount,
	)
	return result, nil
}

func (p *Pipeline) runSummary(ctx context.Context, log *slog.Logger, client provider.Client, provCfg provider.Config, text extract.ExtractedText, params prompt.Params) taskResult {
	log.Debug("task started", "state", StateSummarizing)
	payload, err := prompt.Build(prompt.TaskSummary, text, params)
	if err != nil {
		return taskResult{err: err}
	}
	completion, err := p.complete(ctx, log, client, provCfg, payload)
	if err != nil {
		return taskResult{truncated: payload.Truncated, err: err}
	}
	summary, err := parse.Summary(completion)
	return taskResult{summary: summary, truncated: payload.Truncated, err: err}
}

func (p *Pipeline) runFlashcards(ctx context.Context, log *slog.Logger, client provider.Client, provCfg provider.Config, text extract.ExtractedText, params prompt.Params) taskResult {
	log.Debug("task started", "state", StateFlashcarding)
	payload, err := prompt.Build(prompt.TaskFlashcards, text, params)
	if err != nil {
		return taskResult{err: err}
	}
	completion, err := p.complete(ctx, log, client, provCfg, payload)
	if err != nil {
		return taskResult{truncated: payload.Truncated, err: err}
	}
	deck, parseDiags, err := parse.Flashcards(completion)
	return taskResult{deck: deck, truncated: payload.Truncated, skipped: parseDiags.SkippedLines, err: err}
}

// complete invokes the provider through the completion cache. Cache failures
// degrade to a provider call; they never fail the task.
func (p *Pipeline) complete(ctx context.Context, log *slog.Logger, client provider.Client, provCfg provider.Config, payload prompt.Payload) (string, error) {
	promptText := payload.Prompt()
	key := cache.Key(
		string(provCfg.Kind),
		provCfg.Model,
		strconv.FormatFloat(provCfg.Temperature, 'f', -1, 64),
		strconv.Itoa(provCfg.MaxTokens),
		promptText,
	)
	if cached, ok, err := p.Cache.GetCompletion(ctx, key); err != nil {
		log.Warn("completion cache read failed", "err", err)
	} else if ok {
		log.Debug("completion cache hit", "task", payload.Task)
		return cached, nil
	}

	completion, err := client.Complete(ctx, promptText, provCfg.Params())
	if err != nil {
		return "", err
	}
	if err := p.Cache.SetCompletion(ctx, key, completion, p.CacheTTL); err != nil {
		log.Warn("completion cache write failed", "err", err)
	}
	return completion, nil
}
