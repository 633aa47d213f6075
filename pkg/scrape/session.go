// Package scrape downloads and parses the serial's table of contents
// and chapter pages. It deliberately stays polite: one throttled
// session, jittered delays, bounded retries.
package scrape

import (
	"math/rand"
	"net/http"
	"time"

	"github.com/apex/log"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-uuid"
	"github.com/pkg/errors"
)

const BaseURL = "https://www.wanderinginn.com"

// ErrTooManyRetries is returned once the session exhausts its retry
// budget; the session must be Reset before further downloads.
var ErrTooManyRetries = errors.New("too many retries, session must be reset to continue")

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64; rv:126.0) Gecko/20100101 Firefox/126.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
}

// Session is a throttled HTTP client for chapter and wiki downloads.
// Each Session carries a run ID that gets stamped into downloaded
// chapter metadata so a batch of files can be traced to one run.
type Session struct {
	client   *resty.Client
	runID    string
	tries    int
	maxTries int
	throttle time.Duration
	lastGet  time.Time
}

type SessionOption func(*Session)

func WithMaxTries(n int) SessionOption {
	return func(s *Session) { s.maxTries = n }
}

func WithThrottle(d time.Duration) SessionOption {
	return func(s *Session) { s.throttle = d }
}

func NewSession(opts ...SessionOption) *Session {
	runID, _ := uuid.GenerateUUID()
	s := &Session{
		client:   resty.New().SetTimeout(10 * time.Second),
		runID:    runID,
		maxTries: 10,
		throttle: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}

	log.WithField("run_id", s.runID).Info("scrape session started")
	return s
}

// RunID identifies this scrape session in logs and saved metadata.
func (s *Session) RunID() string {
	return s.runID
}

// Get performs a throttled GET. The delay between requests is jittered
// to [0.75, 1.25] times the configured throttle. Responses in the 4xx
// range consume a retry; the retry counter resets on success.
func (s *Session) Get(url string) (*resty.Response, error) {
	jitter := time.Duration(float64(s.throttle) * (0.75 + rand.Float64()*0.5))
	if wait := jitter - time.Since(s.lastGet); wait > 0 {
		time.Sleep(wait)
	}
	s.lastGet = time.Now()

	for s.tries < s.maxTries {
		resp, err := s.client.R().
			SetHeader("User-Agent", userAgents[rand.Intn(len(userAgents))]).
			Get(url)
		if err != nil {
			s.tries++
			log.WithError(err).WithField("url", url).Warn("request failed, retrying")
			continue
		}

		if resp.StatusCode() >= http.StatusBadRequest && resp.StatusCode() < http.StatusInternalServerError {
			s.tries++
			log.WithFields(log.Fields{"url": url, "status": resp.StatusCode()}).
				Warn("request rejected, retrying")
			continue
		}

		s.tries = 0
		return resp, nil
	}

	return nil, ErrTooManyRetries
}

// Reset clears the retry counter after an operator intervenes.
func (s *Session) Reset() {
	s.tries = 0
}
