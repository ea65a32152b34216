package collector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"StealthRadar/internal/model"
)

// maxArchiveBytes caps a single report download.
const maxArchiveBytes = 64 << 20

// BhavcopyOptions configures a BhavcopyFetcher.
type BhavcopyOptions struct {
	BaseURL    string
	UserAgent  string
	ProxyURL   string
	Timeout    time.Duration
	RatePerSec float64 // 0 disables throttling
}

// BhavcopyFetcher implements Fetcher against the NSE daily equity archive.
type BhavcopyFetcher struct {
	BaseURL   string
	UserAgent string
	Client    *http.Client
	limiter   *rate.Limiter
	log       *zap.Logger
}

// NewBhavcopyFetcher creates a fetcher with optional proxy support.
func NewBhavcopyFetcher(opts BhavcopyOptions, log *zap.Logger) *BhavcopyFetcher {
	if log == nil {
		log = zap.NewNop()
	}
	transport := &http.Transport{}
	if opts.ProxyURL != "" {
		if u, err := url.Parse(opts.ProxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		} else {
			log.Warn("ignoring invalid proxy url", zap.String("proxy", opts.ProxyURL), zap.Error(err))
		}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	f := &BhavcopyFetcher{
		BaseURL:   strings.TrimRight(opts.BaseURL, "/"),
		UserAgent: opts.UserAgent,
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		log: log.With(zap.String("component", "bhavcopy")),
	}
	if opts.RatePerSec > 0 {
		f.limiter = rate.NewLimiter(rate.Limit(opts.RatePerSec), 1)
	}
	return f
}

func (f *BhavcopyFetcher) Name() string { return "bhavcopy" }

// URL returns the archive location for date.
func (f *BhavcopyFetcher) URL(date time.Time) string {
	return f.BaseURL + "/" + ArchivePath(date)
}

// FetchSession downloads, decompresses and parses the report for date.
// Transport failures and non-200 responses are reported as ErrNoData.
func (f *BhavcopyFetcher) FetchSession(ctx context.Context, date time.Time) (*model.Session, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			// The next token lands past the deadline.
			return nil, fmt.Errorf("rate limit wait: %w", context.DeadlineExceeded)
		}
	}

	u := f.URL(date)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.UserAgent)
	req.Header.Set("Accept", "application/zip,application/octet-stream,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := f.Client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: fetch %s: %v", ErrNoData, u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrNoData, u, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxArchiveBytes+1))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: read body: %v", ErrNoData, err)
	}
	if len(body) > maxArchiveBytes {
		return nil, fmt.Errorf("%w: archive exceeds %d bytes", ErrNoData, maxArchiveBytes)
	}

	session, err := ParseArchive(body, date)
	if err != nil {
		if errors.Is(err, ErrEmptyArchive) {
			return nil, err
		}
		return nil, fmt.Errorf("parse %s: %w", ArchiveName(date), err)
	}
	f.log.Debug("session fetched",
		zap.String("date", date.Format("2006-01-02")),
		zap.Int("symbols", session.Len()))
	return session, nil
}
