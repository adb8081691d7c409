package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/i211534/movieapp-recommendations/internal/domain"
	"github.com/i211534/movieapp-recommendations/internal/metrics"
)

// FailureKind classifies scoring-engine failures. The distinction exists
// for logs and metrics only: the orchestrator treats every kind the same
// way and falls back.
type FailureKind string

const (
	KindUnreachable FailureKind = "unreachable"
	KindTimedOut    FailureKind = "timed_out"
	KindUnavailable FailureKind = "unavailable"
)

type Error struct {
	Kind FailureKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("scoring engine %s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("scoring engine %s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func IsScoringError(err error) bool {
	var target *Error
	return errors.As(err, &target)
}

// recommendResponse is the engine's wire shape for GET /recommend.
type recommendResponse struct {
	Recommendations []domain.ScoredItemRef `json:"recommendations"`
	UserID          string                 `json:"userId"`
	Algorithm       string                 `json:"algorithm"`
	GeneratedAt     string                 `json:"generatedAt"`
}

type Options struct {
	BaseURL string
	// Timeout bounds one recommendation call. Default 10s.
	Timeout time.Duration
	// ProbeTimeout bounds one health probe. Default 5s.
	ProbeTimeout time.Duration
}

// Client issues single-attempt, bounded-latency calls to the scoring
// engine. It never retries; there is no retry policy anywhere in this
// system. Recommendation calls go through a circuit breaker so a dead
// engine stops costing a full timeout per request; the health probe
// bypasses the breaker because it must observe the engine as it is.
type Client struct {
	baseURL      string
	timeout      time.Duration
	probeTimeout time.Duration
	httpClient   *http.Client
	breaker      *gobreaker.CircuitBreaker[[]domain.ScoredItemRef]
	log          zerolog.Logger
}

func NewClient(opts Options, log zerolog.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = 5 * time.Second
	}

	c := &Client{
		baseURL:      opts.BaseURL,
		timeout:      opts.Timeout,
		probeTimeout: opts.ProbeTimeout,
		httpClient:   &http.Client{},
		log:          log,
	}

	c.breaker = gobreaker.NewCircuitBreaker[[]domain.ScoredItemRef](gobreaker.Settings{
		Name:        "scoring-engine",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.BreakerState.Set(breakerStateValue(to))
			log.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("scoring breaker state change")
		},
	})

	return c
}

// FetchScores asks the engine for up to limit ranked items for userID.
// Any failure comes back as a *Error; callers are expected to absorb it
// and degrade, never to surface it.
func (c *Client) FetchScores(ctx context.Context, userID string, limit int) ([]domain.ScoredItemRef, error) {
	scored, err := c.breaker.Execute(func() ([]domain.ScoredItemRef, error) {
		return c.fetchScores(ctx, userID, limit)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = &Error{Kind: KindUnavailable, Msg: "circuit breaker open", Err: err}
		}
		var serr *Error
		if errors.As(err, &serr) {
			metrics.ScoringFailures.WithLabelValues(string(serr.Kind)).Inc()
		}
		return nil, err
	}
	return scored, nil
}

func (c *Client) fetchScores(ctx context.Context, userID string, limit int) ([]domain.ScoredItemRef, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := fmt.Sprintf("%s/recommend?userId=%s&limit=%d", c.baseURL, url.QueryEscape(userID), limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &Error{Kind: KindUnavailable, Msg: "build request", Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Kind: KindUnavailable, Msg: fmt.Sprintf("status %d", resp.StatusCode)}
	}

	var body recommendResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		// Malformed payload is logged apart from transport failures but
		// classified the same way.
		c.log.Warn().Err(err).Str("user_id", userID).Msg("scoring engine returned malformed payload")
		return nil, &Error{Kind: KindUnavailable, Msg: "malformed payload", Err: err}
	}
	for _, item := range body.Recommendations {
		if item.MovieID == "" {
			c.log.Warn().Str("user_id", userID).Msg("scoring engine returned item without movieId")
			return nil, &Error{Kind: KindUnavailable, Msg: "malformed payload: item missing movieId"}
		}
	}

	return body.Recommendations, nil
}

// Probe checks the engine's liveness endpoint once with the short probe
// timeout. Used only by the health reporter.
func (c *Client) Probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return &Error{Kind: KindUnavailable, Msg: "build request", Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Kind: KindUnavailable, Msg: fmt.Sprintf("status %d", resp.StatusCode)}
	}
	return nil
}

func classifyTransportError(err error) *Error {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &Error{Kind: KindUnreachable, Msg: "dns lookup failed", Err: err}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && !opErr.Timeout() {
		return &Error{Kind: KindUnreachable, Msg: "connection failed", Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimedOut, Msg: "request exceeded timeout budget", Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindTimedOut, Msg: "request exceeded timeout budget", Err: err}
	}
	return &Error{Kind: KindUnavailable, Msg: "transport error", Err: err}
}

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 2
	}
}
