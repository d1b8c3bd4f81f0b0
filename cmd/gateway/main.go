package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"notedeck/internal/app"
	"notedeck/internal/document"
	"notedeck/internal/fault"
	"notedeck/internal/httputil"
	"notedeck/internal/pipeline"
	"notedeck/internal/provider"
)

func main() {
	deps, err := app.Build()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	r := httputil.NewRouter(deps.Log)

	r.Post("/api/notes/process", processHandler(deps))
	r.Get("/api/providers", providersHandler())
	r.Get("/healthz", httputil.HealthHandler(deps.Log))

	addr := fmt.Sprintf(":%d", deps.Config.Port)
	deps.Log.Info("gateway listening", "addr", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		deps.Log.Error("server failed", "err", err)
	}
}

// processRequest carries the per-run settings from the upload form. The
// credential is deliberately not logged anywhere downstream.
type processRequest struct {
	Provider     string  `validate:"required"`
	Model        string  `validate:"required"`
	APIKey       string  `validate:"omitempty,max=512"`
	Temperature  float64 `validate:"gte=0,lte=2"`
	MaxTokens    int     `validate:"omitempty,min=1,max=8192"`
	Strict       bool
	SummaryWords int `validate:"omitempty,min=20,max=1000"`
	MinCards     int `validate:"omitempty,min=1,max=50"`
	MaxCards     int `validate:"omitempty,min=1,max=50"`
}

func processHandler(deps app.Deps) http.HandlerFunc {
	maxFileSize := deps.Config.MaxUploadSize

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if r.ContentLength > maxFileSize {
			httputil.Fail(deps.Log, w, fmt.Sprintf("file too large (max %d bytes)", maxFileSize), nil, http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			httputil.Fail(deps.Log, w, "file is required", err, http.StatusBadRequest)
			return
		}
		defer file.Close()

		if header.Size > maxFileSize {
			httputil.Fail(deps.Log, w, fmt.Sprintf("file too large (max %d bytes)", maxFileSize), nil, http.StatusBadRequest)
			return
		}

		req, err := parseProcessForm(r)
		if err != nil {
			httputil.Fail(deps.Log, w, "invalid form value: "+err.Error(), err, http.StatusBadRequest)
			return
		}
		if err := httputil.Validator.Struct(&req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}

		content, err := io.ReadAll(file)
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to read file", err, http.StatusInternalServerError)
			return
		}
		doc, err := document.New(header.Filename, content)
		if err != nil {
			httputil.Fail(deps.Log, w, "unsupported file type (only PDF and DOCX allowed)", err, http.StatusBadRequest)
			return
		}

		provCfg := provider.Config{
			Kind:        provider.Kind(req.Provider),
			Model:       req.Model,
			Credential:  req.APIKey,
			Temperature: req.Temperature,
			MaxTokens:   req.MaxTokens,
			Timeout:     deps.Config.ProviderTimeout,
			MaxAttempts: deps.Config.ProviderMaxAttempts,
		}
		switch provCfg.Kind {
		case provider.KindHuggingFace:
			provCfg.BaseURL = deps.Config.HuggingFaceBaseURL
		case provider.KindOllama:
			provCfg.BaseURL = deps.Config.OllamaBaseURL
		}

		opts := pipeline.Options{
			Strict:         req.Strict,
			SummaryWords:   req.SummaryWords,
			MinCards:       req.MinCards,
			MaxCards:       req.MaxCards,
			MaxSourceWords: deps.Config.PromptMaxWords,
		}

		result, err := deps.Pipeline.Run(ctx, doc, provCfg, opts)
		if err != nil {
			failRun(deps.Log, w, result, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, result)
	}
}

// failRun maps a whole-run failure onto an HTTP status, keeping the
// diagnostics in the body so the UI can explain what happened.
func failRun(log *slog.Logger, w http.ResponseWriter, result pipeline.Result, err error) {
	status := http.StatusBadGateway
	message := "processing failed"

	var (
		extractionErr *fault.ExtractionError
		unsupported   *fault.UnsupportedProviderError
		timeoutErr    *fault.TimeoutError
	)
	switch {
	case errors.As(err, &extractionErr):
		status = http.StatusUnprocessableEntity
		message = extractionErr.Msg
	case errors.As(err, &unsupported):
		status = http.StatusBadRequest
		message = unsupported.Error()
	case errors.As(err, &timeoutErr):
		status = http.StatusGatewayTimeout
		message = "the model took too long to respond; try a smaller document"
	}

	log.Error("run failed", "err", err, "reason", fault.CodeOf(err), "run_id", result.Diagnostics.RunID)
	httputil.WriteJSON(w, status, map[string]any{
		"error":       message,
		"reason":      fault.CodeOf(err),
		"diagnostics": result.Diagnostics,
	})
}

func parseProcessForm(r *http.Request) (processRequest, error) {
	req := processRequest{
		Provider: r.FormValue("provider"),
		Model:    r.FormValue("model"),
		APIKey:   r.FormValue("api_key"),
	}
	var err error
	if req.Temperature, err = formFloat(r, "temperature", 0.5); err != nil {
		return req, err
	}
	if req.MaxTokens, err = formInt(r, "max_tokens", 0); err != nil {
		return req, err
	}
	if req.SummaryWords, err = formInt(r, "summary_words", 0); err != nil {
		return req, err
	}
	if req.MinCards, err = formInt(r, "min_cards", 0); err != nil {
		return req, err
	}
	if req.MaxCards, err = formInt(r, "max_cards", 0); err != nil {
		return req, err
	}
	req.Strict = r.FormValue("strict") == "true"
	return req, nil
}

func formFloat(r *http.Request, name string, def float64) (float64, error) {
	v := r.FormValue(name)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return f, nil
}

func formInt(r *http.Request, name string, def int) (int, error) {
	v := r.FormValue(name)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return i, nil
}

func providersHandler() http.HandlerFunc {
	catalog := provider.Catalog()
	return func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]any{"providers": catalog})
	}
}
