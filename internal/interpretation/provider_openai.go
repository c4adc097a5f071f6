package interpretation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"cosmonumero/internal/numerology"
)

var tracer = otel.Tracer("cosmonumero/interpretation")

// ErrEmptyCompletion is returned when the model answers without usable text.
var ErrEmptyCompletion = errors.New("empty completion")

// OpenAIConfig configures the chat-completions provider.
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int64
	Temperature float64
	Timeout     time.Duration
	// MaxRetries is passed to the SDK; zero disables retries.
	MaxRetries int
}

// OpenAIProvider writes narratives with the OpenAI chat-completions API.
type OpenAIProvider struct {
	client openai.Client
	prompt *Prompt
	cfg    OpenAIConfig
}

func NewOpenAIProvider(cfg OpenAIConfig, prompt *Prompt, opts ...option.RequestOption) *OpenAIProvider {
	if cfg.Model == "" {
		cfg.Model = "gpt-4-turbo"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 2000
	}
	reqOpts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		reqOpts = append(reqOpts, option.WithRequestTimeout(cfg.Timeout))
	}
	reqOpts = append(reqOpts, opts...)
	return &OpenAIProvider{
		client: openai.NewClient(reqOpts...),
		prompt: prompt,
		cfg:    cfg,
	}
}

// Generate asks the model for a reading and parses its sections. Fields the
// model left out stay empty.
func (p *OpenAIProvider) Generate(ctx context.Context, subject Subject, r numerology.Result) (Narrative, error) {
	ctx, span := tracer.Start(ctx, "interpretation.openai.generate",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("llm.model", p.cfg.Model),
			attribute.Int("numerology.life_path", r.LifePathNumber),
		),
	)
	defer span.End()

	user, err := p.prompt.User(subject, r)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "render prompt")
		return Narrative{}, err
	}

	completion, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.cfg.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(p.prompt.System()),
			openai.UserMessage(user),
		},
		MaxTokens:   openai.Int(p.cfg.MaxTokens),
		Temperature: openai.Float(p.cfg.Temperature),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "chat completion")
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return Narrative{}, fmt.Errorf("openai status %d: %w", apiErr.StatusCode, err)
		}
		return Narrative{}, fmt.Errorf("openai request: %w", err)
	}
	if len(completion.Choices) == 0 || strings.TrimSpace(completion.Choices[0].Message.Content) == "" {
		span.SetStatus(codes.Error, "empty completion")
		return Narrative{}, ErrEmptyCompletion
	}
	span.SetAttributes(attribute.Int64("llm.completion_tokens", completion.Usage.CompletionTokens))

	n := p.prompt.Parse(completion.Choices[0].Message.Content)
	if n.IsEmpty() {
		return Narrative{}, fmt.Errorf("no sections recognised: %w", ErrEmptyCompletion)
	}
	return n, nil
}
