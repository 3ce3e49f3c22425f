package snapshot

import (
	"context"
	"log/slog"
	"time"
)

// Sources bundles the five adapters the Aggregator draws from.
type Sources struct {
	Weather   Source[WeatherReading]
	Traffic   Source[Traffic]
	Metro     Source[MetroDensity]
	Sentiment Source[float64]
	Flights   Source[int]
}

// Outcome records how a single source was resolved during a run.
type Outcome struct {
	Source   string
	Fallback bool
	Reason   ErrorKind
	Err      error
}

// Report lists one Outcome per source, in fetch order.
type Report []Outcome

// Fallbacks returns the number of sources that fell back.
func (r Report) Fallbacks() int {
	n := 0
	for _, o := range r {
		if o.Fallback {
			n++
		}
	}
	return n
}

// Aggregator assembles a Snapshot from its sources. The sources are
// independent and are fetched one after another.
type Aggregator struct {
	sources Sources
	timeout time.Duration
	now     func() time.Time
	logger  *slog.Logger

	// runScope derives the context shared by all sources in one Build.
	runScope func(context.Context) context.Context
}

// NewAggregator creates an Aggregator. A positive timeout bounds each source
// call individually.
func NewAggregator(sources Sources, timeout time.Duration, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		sources: sources,
		timeout: timeout,
		now:     time.Now,
		logger:  resolveLogger(logger),
	}
}

// WithRunScope sets a function applied to the context at the start of every
// Build, so per-run state (such as circuit breakers) never outlives the run.
func (a *Aggregator) WithRunScope(scope func(context.Context) context.Context) *Aggregator {
	a.runScope = scope
	return a
}

// Build fetches every source and returns the assembled Snapshot. It cannot
// fail: each source contributes its fallback when the live fetch does not.
func (a *Aggregator) Build(ctx context.Context) (Snapshot, Report) {
	if a.runScope != nil {
		ctx = a.runScope(ctx)
	}
	started := a.now().UTC()
	report := make(Report, 0, 5)

	weather := resolveInto(ctx, a, a.sources.Weather, &report)
	traffic := resolveInto(ctx, a, a.sources.Traffic, &report)
	metro := resolveInto(ctx, a, a.sources.Metro, &report)
	sentiment := resolveInto(ctx, a, a.sources.Sentiment, &report)
	flights := resolveInto(ctx, a, a.sources.Flights, &report)

	return Snapshot{
		LastUpdated:   started,
		Weather:       weather.Weather,
		AQI:           weather.AQI,
		Traffic:       traffic,
		MetroDensity:  metro,
		NewsSentiment: ClampSentiment(sentiment),
		FlightCount:   flights,
	}, report
}

func resolveInto[T any](ctx context.Context, a *Aggregator, src Source[T], report *Report) T {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	res := Resolve(ctx, src, a.logger)
	*report = append(*report, Outcome{
		Source:   src.Name(),
		Fallback: res.Fallback,
		Reason:   res.Reason,
		Err:      res.Err,
	})
	return res.Value
}
