package explain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/theoremus-urban-solutions/gtfs-insurance-advisor/config"
	"github.com/theoremus-urban-solutions/gtfs-insurance-advisor/llm"
	"github.com/theoremus-urban-solutions/gtfs-insurance-advisor/policy"
)

// Fallback title used when the reply contains no usable object.
const UnparsedTitle = "Analysis and recommendations"

var (
	// ErrUnparseable marks a reply with no usable JSON object.
	ErrUnparseable = errors.New("no explanation object in model reply")
	// ErrGeneration marks a failed call to the chat model.
	ErrGeneration = errors.New("explanation generation failed")
)

// ChatClient is the completion call the generator depends on.
type ChatClient interface {
	Complete(ctx context.Context, req llm.Request) (string, error)
}

// Outcome is either Success with items or Degraded with one fallback item.
type Outcome struct {
	items    []Item
	fallback Item
	reason   error
}

// Success wraps parsed items.
func Success(items []Item) Outcome {
	if items == nil {
		items = []Item{}
	}
	return Outcome{items: items}
}

// Degraded wraps a fallback item and the reason it was needed.
func Degraded(fallback Item, reason error) Outcome {
	if reason == nil {
		reason = ErrUnparseable
	}
	return Outcome{fallback: fallback, reason: reason}
}

// IsDegraded reports whether the outcome is a fallback.
func (o Outcome) IsDegraded() bool { return o.reason != nil }

// Items returns the parsed items, or the single fallback item when degraded.
func (o Outcome) Items() []Item {
	if o.IsDegraded() {
		return []Item{o.fallback}
	}
	out := make([]Item, len(o.items))
	copy(out, o.items)
	return out
}

// Fallback returns the fallback item; ok is false for a Success.
func (o Outcome) Fallback() (Item, bool) { return o.fallback, o.IsDegraded() }

// Reason returns why the outcome is degraded, or nil.
func (o Outcome) Reason() error { return o.reason }

// Generator produces explanations through a chat model.
type Generator struct {
	client      ChatClient
	model       string
	maxTokens   int
	temperature float64
	log         *slog.Logger
}

// NewGenerator returns a generator sending requests shaped by cfg.
func NewGenerator(client ChatClient, cfg config.LLMConfig, log *slog.Logger) *Generator {
	if log == nil {
		log = slog.Default()
	}
	return &Generator{
		client:      client,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		log:         log.With("component", "explain"),
	}
}

// Explain asks for one explanation per matched policy. It makes at most one
// call and never fails: errors are folded into a Degraded outcome. An empty
// matched set succeeds with no items and no call.
func (g *Generator) Explain(ctx context.Context, tripID string, matched policy.Matched) Outcome {
	if len(matched) == 0 {
		return Success(nil)
	}

	text, err := g.complete(ctx, tripID, matched.Names())
	if err != nil {
		g.log.Warn("explanation call failed", "trip_id", tripID, "error", err)
		return Degraded(Item{
			Title:    fmt.Sprintf("Recommendation for %s - generation error", tripID),
			Analysis: err.Error(),
		}, fmt.Errorf("%w: %w", ErrGeneration, err))
	}

	items := ParseItems(text)
	if len(items) == 0 {
		g.log.Warn("explanation reply not parseable", "trip_id", tripID, "bytes", len(text))
		return Degraded(Item{Title: UnparsedTitle, Analysis: text}, ErrUnparseable)
	}
	if len(items) != len(matched) {
		g.log.Debug("explanation count differs from matched policies",
			"trip_id", tripID, "items", len(items), "matched", len(matched))
	}
	return Success(items)
}

func (g *Generator) complete(ctx context.Context, tripID string, names []string) (string, error) {
	if g.client == nil {
		return "", errors.New("no chat client configured")
	}
	return g.client.Complete(ctx, llm.Request{
		Model:       g.model,
		Messages:    buildMessages(tripID, names),
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
	})
}
