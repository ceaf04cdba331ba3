package news

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Scorer maps text to a sentiment polarity in [-1, 1]. Implementations must
// never fail ingestion: anything unscorable comes back as neutral 0.
type Scorer interface {
	Score(ctx context.Context, text string) float64
}

// RemoteScorer is the error-returning capability behind remote-backed scoring.
// FallbackScorer turns its failures into a lexicon score.
type RemoteScorer interface {
	ScoreText(ctx context.Context, text string) (float64, error)
}

var wordRx = regexp.MustCompile(`[a-z]+`)

// LexiconScorer scores by counting polarity words. The normalization
// (pos-neg)/(pos+neg+1) keeps the result strictly inside [-1, 1] and yields 0
// for text with no polarity hits.
type LexiconScorer struct {
	positive map[string]struct{}
	negative map[string]struct{}
}

var (
	defaultPositiveWords = []string{
		"bull", "bullish", "breakout", "surge", "surges", "rally", "rallies",
		"adoption", "growth", "buy", "uptrend", "recover", "recovery", "gain",
		"gains", "positive", "optimistic", "confidence", "embrace", "soar",
		"soars", "high", "record", "milestone", "institutional", "strong",
	}
	defaultNegativeWords = []string{
		"bear", "bearish", "dump", "dumps", "sell", "selloff", "crash",
		"crashes", "hack", "hacked", "lawsuit", "ban", "bans", "decline",
		"declines", "downtrend", "liquidation", "negative", "concern",
		"concerns", "uncertainty", "unclear", "fear", "drop", "drops", "loss",
		"losses", "weak", "issues",
	}
)

// NewLexiconScorer builds the default polarity-wordlist scorer.
func NewLexiconScorer() *LexiconScorer {
	return NewLexiconScorerWithWords(defaultPositiveWords, defaultNegativeWords)
}

// NewLexiconScorerWithWords builds a scorer over custom polarity lists.
func NewLexiconScorerWithWords(positive, negative []string) *LexiconScorer {
	s := &LexiconScorer{
		positive: make(map[string]struct{}, len(positive)),
		negative: make(map[string]struct{}, len(negative)),
	}
	for _, w := range positive {
		s.positive[strings.ToLower(w)] = struct{}{}
	}
	for _, w := range negative {
		s.negative[strings.ToLower(w)] = struct{}{}
	}
	return s
}

func (s *LexiconScorer) Score(_ context.Context, text string) float64 {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return 0
	}

	posCount, negCount := 0, 0
	for _, token := range wordRx.FindAllString(text, -1) {
		if _, ok := s.positive[token]; ok {
			posCount++
		}
		if _, ok := s.negative[token]; ok {
			negCount++
		}
	}

	raw := float64(posCount-negCount) / float64(posCount+negCount+1)
	return clampScore(raw)
}

// FallbackScorer prefers a remote scorer and degrades to a local one when the
// remote call fails, so a flaky upstream never blocks the pipeline.
type FallbackScorer struct {
	remote   RemoteScorer
	fallback Scorer
}

func NewFallbackScorer(remote RemoteScorer, fallback Scorer) *FallbackScorer {
	if fallback == nil {
		fallback = NewLexiconScorer()
	}
	return &FallbackScorer{remote: remote, fallback: fallback}
}

func (s *FallbackScorer) Score(ctx context.Context, text string) float64 {
	if s.remote != nil {
		score, err := s.remote.ScoreText(ctx, text)
		if err == nil {
			return clampScore(score)
		}
		log.Printf("remote sentiment scorer failed, using lexicon: %v", err)
	}
	return s.fallback.Score(ctx, text)
}

type openAIChatClient interface {
	CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)
}

// OpenAIScorer asks a chat model for a polarity score. It is an optional
// drop-in for the lexicon scorer; construction returns nil without an API key.
type OpenAIScorer struct {
	client openAIChatClient
	model  string
}

func NewOpenAIScorer(apiKey, model string) *OpenAIScorer {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil
	}
	if strings.TrimSpace(model) == "" {
		model = "gpt-4o-mini"
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIScorer{
		client: &openAIClient{client: client},
		model:  model,
	}
}

const scorerSystemPrompt = "You score the sentiment of crypto news text. " +
	"Return ONLY a JSON object {\"score\": s} where s is a float in [-1,1] " +
	"(negative = bearish, positive = bullish, 0 = neutral). No markdown."

func (s *OpenAIScorer) ScoreText(ctx context.Context, text string) (float64, error) {
	if s == nil || s.client == nil {
		return 0, fmt.Errorf("openai scorer not configured")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, nil
	}

	completion, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionNewParams{
		Model: s.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(scorerSystemPrompt),
			openai.UserMessage(text),
		},
	})
	if err != nil {
		return 0, err
	}
	if len(completion.Choices) == 0 {
		return 0, fmt.Errorf("empty scorer completion")
	}

	raw := trimCodeFence(completion.Choices[0].Message.Content)
	var parsed struct {
		Score float64 `json:"score"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return 0, fmt.Errorf("parse scorer json: %w", err)
	}
	return clampScore(parsed.Score), nil
}

func trimCodeFence(v string) string {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, "```") {
		v = strings.TrimPrefix(v, "```")
		v = strings.TrimSpace(v)
		if strings.HasPrefix(strings.ToLower(v), "json") {
			v = strings.TrimSpace(v[4:])
		}
		v = strings.TrimSuffix(v, "```")
		v = strings.TrimSpace(v)
	}
	return v
}

func clampScore(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}

type openAIClient struct {
	client openai.Client
}

func (c *openAIClient) CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	return c.client.Chat.Completions.New(ctx, params)
}
