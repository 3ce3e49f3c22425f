package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/i474232898/city-snapshot/internal/common"
	"github.com/i474232898/city-snapshot/internal/llm"
	"github.com/i474232898/city-snapshot/internal/snapshot"
	"github.com/sony/gobreaker"
)

// FallbackSentiment is a neutral chaos score.
const FallbackSentiment = snapshot.NeutralSentiment

const (
	feedProvider  = "google-news"
	modelProvider = "gemini"
)

// maxFeedChars bounds how much of the feed is placed in the prompt.
const maxFeedChars = 3000

// SentimentSource scores recent local headlines with a generative model.
type SentimentSource struct {
	name    string
	query   string
	feedURL string
	client  *http.Client
	model   llm.Client
	logger  *slog.Logger
}

func NewSentimentSource(client *http.Client, model llm.Client, query string, logger *slog.Logger) *SentimentSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &SentimentSource{
		name:    "news-sentiment",
		query:   query,
		feedURL: "https://news.google.com/rss/search",
		client:  client,
		model:   model,
		logger:  logger,
	}
}

func (s *SentimentSource) Name() string {
	return s.name
}

func (s *SentimentSource) Fallback() float64 {
	return FallbackSentiment
}

func (s *SentimentSource) Fetch(ctx context.Context) (float64, error) {
	if s.model == nil || !s.model.Configured() {
		return 0, snapshot.Unavailable(fmt.Errorf("gemini %w", errNoAPIKey))
	}

	feed, err := s.fetchFeed(ctx)
	if err != nil {
		return 0, err
	}

	resp, err := s.generate(ctx, buildSentimentPrompt(s.query, common.Truncate(feed, maxFeedChars)))
	if err != nil {
		s.logRaw(resp)
		return 0, classifyModelError(err)
	}

	score, err := parseScore(resp.Text)
	if err != nil {
		s.logRaw(resp)
		return 0, err
	}
	return snapshot.ClampSentiment(score), nil
}

func (s *SentimentSource) fetchFeed(ctx context.Context) (string, error) {
	values := url.Values{}
	values.Set("q", s.query+" when:1d")
	values.Set("hl", "en-IN")
	values.Set("gl", "IN")
	values.Set("ceid", "IN:en")

	req, err := http.NewRequest(http.MethodGet, s.feedURL+"?"+values.Encode(), nil)
	if err != nil {
		return "", snapshot.Unavailable(err)
	}

	body, err := fetch(ctx, s.client, feedProvider, req)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// generate calls the model through the run's breaker. resp keeps whatever
// the model returned, including on error.
func (s *SentimentSource) generate(ctx context.Context, prompt string) (llm.Response, error) {
	var resp llm.Response
	_, err := circuitFor(ctx, modelProvider).Execute(func() (interface{}, error) {
		r, genErr := s.model.Generate(ctx, prompt)
		resp = r
		return nil, genErr
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return resp, fmt.Errorf("%w: %v", errCircuitOpen, err)
	}
	return resp, err
}

func (s *SentimentSource) logRaw(resp llm.Response) {
	if resp.Raw != "" {
		s.logger.Warn("unusable sentiment response", "source", s.name, "raw", resp.Raw)
	}
}

func buildSentimentPrompt(query, feed string) string {
	return fmt.Sprintf(`
Analyze the sentiment of these news headlines about %s.
Return ONLY a single number between 0.0 (Calm/Positive) and 1.0 (Chaotic/Negative/Crisis).
Do not include any other text or explanation. Just the number.

Headlines RSS Data:
%s
`, query, feed)
}

func parseScore(text string) (float64, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0, snapshot.Malformed(errors.New("model returned no text"))
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, snapshot.Unparsable(fmt.Errorf("model returned %q: %w", trimmed, err))
	}
	if math.IsNaN(v) {
		return 0, snapshot.Unparsable(fmt.Errorf("model returned %q", trimmed))
	}
	return v, nil
}

func classifyModelError(err error) error {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, llm.ErrEmptyResponse), errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		return snapshot.Malformed(err)
	default:
		return snapshot.Unavailable(err)
	}
}
