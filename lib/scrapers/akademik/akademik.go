// Package akademik scrapes the legacy akademik.its.ac.id portal. the
// portal exposes no API, only per-course per-section roster pages behind
// a PHPSESSID cookie, so everything here goes through HTML.
package akademik

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"classfinder-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("classfinder.lib.scrapers.akademik")

const DefaultBaseURL = "https://akademik.its.ac.id"

const (
	defaultTimeout    = time.Second * 10
	defaultMaxRetries = 3
	defaultBaseDelay  = time.Second * 2
)

// Student is one row of a roster page.
type Student struct {
	NRP    string
	Name   string
	Course string
}

// RosterQuery identifies one (course, section) roster page.
type RosterQuery struct {
	Department     string
	CourseCode     string
	Section        string
	Semester       int
	Year           int
	CurriculumYear int
}

type ClientOptions struct {
	// defaults to DefaultBaseURL
	BaseURL string
	// defaults to 10s
	Timeout time.Duration
	// retries after the first attempt, defaults to 3
	MaxRetries int
	// first backoff delay, doubled per attempt, defaults to 2s
	RetryBaseDelay time.Duration
}

// Client is stateless across calls, the session id is an argument of
// every method rather than client state so one client can serve
// concurrent scans with different credentials.
type Client struct {
	http       *resty.Client
	maxRetries int
	baseDelay  time.Duration
}

func NewClient(opts ClientOptions) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = defaultMaxRetries
	}
	if opts.RetryBaseDelay == 0 {
		opts.RetryBaseDelay = defaultBaseDelay
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseURL)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36")
	client.SetHeader("accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	client.SetHeader("accept-language", "en-US,en;q=0.5")
	client.SetHeader("upgrade-insecure-requests", "1")
	client.SetTimeout(opts.Timeout)

	telemetry.InstrumentResty(client, "scrapers/akademik/http")

	return &Client{
		http:       client,
		maxRetries: opts.MaxRetries,
		baseDelay:  opts.RetryBaseDelay,
	}
}

func sessionCookie(sessionID string) *http.Cookie {
	return &http.Cookie{Name: "PHPSESSID", Value: sessionID}
}

// FetchRoster fetches and parses one roster page, retrying transient
// failures (timeouts, non-200s, bodies without a roster table) with
// exponential backoff and multiplicative jitter. the returned error
// means all attempts were exhausted.
func (c *Client) FetchRoster(ctx context.Context, q RosterQuery, sessionID string) ([]Student, error) {
	ctx, span := tracer.Start(ctx, "client:FetchRoster")
	defer span.End()
	span.SetAttributes(
		attribute.String("course", q.CourseCode),
		attribute.String("section", q.Section),
	)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(backoffDelay(c.baseDelay, attempt)):
			case <-ctx.Done():
				span.SetStatus(codes.Error, ctx.Err().Error())
				return nil, ctx.Err()
			}
		}

		students, err := c.fetchRosterOnce(ctx, q, sessionID)
		if err == nil {
			span.SetAttributes(attribute.Int("students", len(students)))
			return students, nil
		}
		lastErr = err
		slog.DebugContext(
			ctx, "roster fetch failed",
			"course", q.CourseCode,
			"section", q.Section,
			"attempt", attempt+1,
			"err", err,
		)
	}

	span.RecordError(lastErr)
	span.SetStatus(codes.Error, "retries exhausted")
	return nil, fmt.Errorf("fetch roster %s-%s: %w", q.CourseCode, q.Section, lastErr)
}

func (c *Client) fetchRosterOnce(ctx context.Context, q RosterQuery, sessionID string) ([]Student, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"mkJur":          q.Department,
			"mkID":           q.CourseCode,
			"mkSem":          strconv.Itoa(q.Semester),
			"mkThn":          strconv.Itoa(q.Year),
			"mkKelas":        q.Section,
			"mkThnKurikulum": strconv.Itoa(q.CurriculumYear),
		}).
		SetCookie(sessionCookie(sessionID)).
		Get("/lv_peserta.php")
	if err != nil {
		return nil, err
	}
	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %s", res.Status())
	}
	if len(res.Body()) == 0 {
		return nil, fmt.Errorf("empty response body")
	}

	return ParseRoster(res.Body(), q.CourseCode, q.Section)
}

// delay = base * 2^(attempt-1) * uniform(0.5, 1.0)
func backoffDelay(base time.Duration, attempt int) time.Duration {
	jitter := 0.5 + rand.Float64()*0.5
	return time.Duration(float64(base) * math.Pow(2, float64(attempt-1)) * jitter)
}
