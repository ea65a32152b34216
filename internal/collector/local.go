package collector

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"StealthRadar/internal/model"
)

// DirFetcher replays report archives stored in a local directory, using the
// same file names the provider publishes.
type DirFetcher struct {
	Dir string
}

// NewDirFetcher creates a DirFetcher rooted at dir.
func NewDirFetcher(dir string) *DirFetcher {
	return &DirFetcher{Dir: dir}
}

func (d *DirFetcher) Name() string { return "dir" }

func (d *DirFetcher) FetchSession(ctx context.Context, date time.Time) (*model.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(d.Dir, ArchiveName(date))
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s not found", ErrNoData, filepath.Base(path))
		}
		return nil, fmt.Errorf("%w: read %s: %v", ErrNoData, path, err)
	}
	session, err := ParseArchive(data, date)
	if err != nil {
		if errors.Is(err, ErrEmptyArchive) {
			return nil, err
		}
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return session, nil
}
