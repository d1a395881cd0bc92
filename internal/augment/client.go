// Package augment asks the knowledge-search provider for fresh details that
// the curated store cannot answer.
package augment

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/placesearch/internal/model"
	"github.com/sells-group/placesearch/pkg/perplexity"
)

// DefaultTimeout bounds one provider call.
const DefaultTimeout = 20 * time.Second

// Sampling parameters for the provider call.
const (
	temperature      = 0.2
	topP             = 0.9
	frequencyPenalty = 1.0
	maxTokens        = 1000
)

// ErrEmptyAnswer is returned when the provider answers without content.
var ErrEmptyAnswer = eris.New("augment: empty answer")

// Query is one augmentation request.
type Query struct {
	// Text is the user's query as typed.
	Text string
	// Zone is the requested zone, if any.
	Zone model.Zone
	// Subject names what is being searched, e.g. "restaurants".
	Subject string
	// Context holds the top curated results; at most five are quoted.
	Context []model.ScoredResult
}

// Client builds prompts and calls the provider.
type Client struct {
	pc      perplexity.Client
	model   string
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithModel sets the provider model for every call. Empty keeps the
// provider client's default.
func WithModel(m string) Option {
	return func(c *Client) { c.model = m }
}

// New creates a Client over a provider client.
func New(pc perplexity.Client, opts ...Option) *Client {
	c := &Client{pc: pc, timeout: DefaultTimeout}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Augment calls the provider once. Transport errors, non-200 responses,
// timeouts and empty answers all return an error; callers treat any error
// as "no augmentation".
func (c *Client) Augment(ctx context.Context, q Query) (*model.AugmentedAnswer, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	temp, p, penalty, tokens := temperature, topP, frequencyPenalty, maxTokens
	req := perplexity.ChatCompletionRequest{
		Model: c.model,
		Messages: []perplexity.Message{
			{Role: "system", Content: buildSystemPrompt(q)},
			{Role: "user", Content: buildPrompt(q)},
		},
		Temperature:      &temp,
		TopP:             &p,
		FrequencyPenalty: &penalty,
		MaxTokens:        &tokens,
	}

	start := time.Now()
	resp, err := c.pc.ChatCompletion(ctx, req)
	if err != nil {
		return nil, eris.Wrap(err, "augment: provider call")
	}

	content := resp.Content()
	if content == "" {
		return nil, ErrEmptyAnswer
	}

	zap.L().Debug("augment: provider answered",
		zap.String("subject", q.Subject),
		zap.Int("citations", len(resp.Citations)),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &model.AugmentedAnswer{
		Content:   content,
		Citations: resp.Citations,
		Images:    []string(resp.Images),
	}, nil
}
