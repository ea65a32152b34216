package collector

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"StealthRadar/internal/model"
)

var (
	// ErrNoData means the provider had nothing usable for the date
	// (holiday, archive gap, non-200 status, network failure).
	ErrNoData = errors.New("no data for date")
	// ErrEmptyArchive means the payload was a zip without members.
	ErrEmptyArchive = errors.New("empty archive")
	// ErrNoSessions means no session could be retrieved within the lookback budget.
	ErrNoSessions = errors.New("no trading sessions retrievable within lookback window")
)

// Fetcher retrieves one trading day's regular-equity report.
type Fetcher interface {
	FetchSession(ctx context.Context, date time.Time) (*model.Session, error)
	Name() string
}

// ArchiveName returns the report file name for a date, e.g. cm05JAN2024bhav.csv.zip.
func ArchiveName(date time.Time) string {
	mon := monthToken(date)
	return fmt.Sprintf("cm%02d%s%04dbhav.csv.zip", date.Day(), mon, date.Year())
}

// ArchivePath returns the archive path relative to the provider base, e.g.
// 2024/JAN/cm05JAN2024bhav.csv.zip.
func ArchivePath(date time.Time) string {
	return fmt.Sprintf("%04d/%s/%s", date.Year(), monthToken(date), ArchiveName(date))
}

func monthToken(date time.Time) string {
	return strings.ToUpper(date.Format("Jan"))
}
