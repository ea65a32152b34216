package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchivePath(t *testing.T) {
	d := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "cm05JAN2024bhav.csv.zip", ArchiveName(d))
	assert.Equal(t, "2024/JAN/cm05JAN2024bhav.csv.zip", ArchivePath(d))

	d = time.Date(2023, 12, 29, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2023/DEC/cm29DEC2023bhav.csv.zip", ArchivePath(d))
}

func newTestFetcher(srv *httptest.Server) *BhavcopyFetcher {
	return NewBhavcopyFetcher(BhavcopyOptions{
		BaseURL:   srv.URL + "/EQUITIES/",
		UserAgent: "Mozilla/5.0 test",
		Timeout:   2 * time.Second,
	}, nil)
}

func TestBhavcopyFetcher_Success(t *testing.T) {
	payload := buildArchive(t, map[string]string{"cm15JAN2024bhav.csv": sampleCSV})
	var gotPath, gotUA, gotCache string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		gotCache = r.Header.Get("Cache-Control")
		w.Header().Set("Content-Type", "application/zip")
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	f := newTestFetcher(srv)
	s, err := f.FetchSession(context.Background(), jan(15))
	require.NoError(t, err)

	assert.Equal(t, "/EQUITIES/2024/JAN/cm15JAN2024bhav.csv.zip", gotPath)
	assert.Equal(t, "Mozilla/5.0 test", gotUA)
	assert.Equal(t, "no-cache", gotCache)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, "bhavcopy", f.Name())
}

func TestBhavcopyFetcher_NotFoundIsNoData(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := newTestFetcher(srv).FetchSession(context.Background(), jan(26))
	assert.ErrorIs(t, err, ErrNoData)
}

func TestBhavcopyFetcher_EmptyArchive(t *testing.T) {
	payload := buildArchive(t, nil)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	_, err := newTestFetcher(srv).FetchSession(context.Background(), jan(15))
	assert.ErrorIs(t, err, ErrEmptyArchive)
}

func TestBhavcopyFetcher_NetworkErrorIsNoData(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	f := newTestFetcher(srv)
	srv.Close()

	_, err := f.FetchSession(context.Background(), jan(15))
	assert.ErrorIs(t, err, ErrNoData)
}

func TestBhavcopyFetcher_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestFetcher(srv).FetchSession(ctx, jan(15))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBhavcopyFetcher_RateLimited(t *testing.T) {
	payload := buildArchive(t, map[string]string{"x.csv": sampleCSV})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	f := NewBhavcopyFetcher(BhavcopyOptions{BaseURL: srv.URL, RatePerSec: 20}, nil)
	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := f.FetchSession(context.Background(), jan(15))
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}

func TestBhavcopyFetcher_RateLimitPastDeadline(t *testing.T) {
	payload := buildArchive(t, map[string]string{"x.csv": sampleCSV})
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	f := NewBhavcopyFetcher(BhavcopyOptions{BaseURL: srv.URL, RatePerSec: 0.01}, nil)
	_, err := f.FetchSession(context.Background(), jan(15))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err = f.FetchSession(ctx, jan(16))
	require.Error(t, err)
	assert.NoError(t, ctx.Err())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, ErrNoData)
	assert.Equal(t, 1, calls)
}

func TestDirFetcher(t *testing.T) {
	dir := t.TempDir()
	payload := buildArchive(t, map[string]string{"cm15JAN2024bhav.csv": sampleCSV})
	require.NoError(t, os.WriteFile(filepath.Join(dir, ArchiveName(jan(15))), payload, 0o644))

	f := NewDirFetcher(dir)
	s, err := f.FetchSession(context.Background(), jan(15))
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())

	_, err = f.FetchSession(context.Background(), jan(16))
	assert.ErrorIs(t, err, ErrNoData)
}
