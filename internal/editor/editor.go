package editor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dgallion1/pdfedit/internal/docmodel"
	"github.com/dgallion1/pdfedit/internal/llm"
)

// LanguageModel is the collaborator that turns prompts into edit requests and
// rewrites text. Implemented by llm.OpenAIClient.
type LanguageModel interface {
	Available() bool
	ParsePrompt(ctx context.Context, prompt, docText string) []llm.EditRequest
	HumanizeText(ctx context.Context, text string) (string, error)
}

// Editor runs the full edit pipeline for one document: extract blocks, parse
// the prompt, apply each request, save once at the end.
type Editor struct {
	cfg  Config
	hcfg HumanizeConfig
	llm  LanguageModel
	log  *slog.Logger
}

func New(lm LanguageModel, log *slog.Logger) *Editor {
	return NewWithConfig(DefaultConfig(), DefaultHumanizeConfig(), lm, log)
}

func NewWithConfig(cfg Config, hcfg HumanizeConfig, lm LanguageModel, log *slog.Logger) *Editor {
	return &Editor{
		cfg:  cfg,
		hcfg: hcfg,
		llm:  lm,
		log:  log,
	}
}

// Process applies the prompt's edits to doc and saves the result to
// outputPath. Requests are applied in parse order; all requests match
// against the block list captured before any edits. A failing edit aborts
// processing and nothing is written.
func (e *Editor) Process(ctx context.Context, doc docmodel.Document, prompt, outputPath string) error {
	if doc.PageCount() == 0 {
		return fmt.Errorf("document has no pages")
	}

	blocks, fullText, err := ExtractBlocks(doc, e.cfg)
	if err != nil {
		return fmt.Errorf("extract text blocks: %w", err)
	}

	var requests []llm.EditRequest
	if e.llm != nil {
		requests = e.llm.ParsePrompt(ctx, prompt, fullText)
	} else {
		requests = llm.ParseRules(prompt)
	}
	e.log.Info("applying edit requests", "count", len(requests), "blocks", len(blocks))

	for i, req := range requests {
		e.log.Info("processing edit request",
			"index", i, "action", req.Action, "target", req.TargetText)

		var err error
		switch req.Action {
		case llm.ActionReplace:
			err = e.applyReplacement(ctx, doc, req, blocks)
		case llm.ActionHighlight:
			err = e.applyHighlight(doc, req, blocks)
		case llm.ActionModifyHeading:
			err = e.applyHeadingModification(ctx, doc, req, blocks)
		default:
			e.log.Warn("unknown edit action, skipping", "action", req.Action)
		}
		if err != nil {
			return fmt.Errorf("apply edit %d (%s): %w", i, req.Action, err)
		}
	}

	if err := doc.Save(outputPath); err != nil {
		return fmt.Errorf("save edited document: %w", err)
	}
	return nil
}
