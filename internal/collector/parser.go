package collector

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/shopspring/decimal"

	"StealthRadar/internal/model"
)

// Column names of the daily equity report header.
const (
	colSymbol      = "SYMBOL"
	colSeries      = "SERIES"
	colOpen        = "OPEN"
	colHigh        = "HIGH"
	colLow         = "LOW"
	colClose       = "CLOSE"
	colVolume      = "TOTTRDQTY"
	colTradedValue = "TOTTRDVAL"
)

var requiredColumns = []string{colSymbol, colSeries, colOpen, colHigh, colLow, colClose, colVolume, colTradedValue}

// ParseArchive decompresses a report payload and parses its single CSV member.
func ParseArchive(payload []byte, date time.Time) (*model.Session, error) {
	zr, err := zip.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	if len(zr.File) == 0 {
		return nil, ErrEmptyArchive
	}

	f, err := zr.File[0].Open()
	if err != nil {
		return nil, fmt.Errorf("open archive member %s: %w", zr.File[0].Name, err)
	}
	defer f.Close()

	return ParseCSV(f, date)
}

// ParseCSV reads a report with a header row and keeps only EQ series rows.
// Rows with unparseable numbers are dropped; a repeated symbol overwrites
// the earlier row.
func ParseCSV(r io.Reader, date time.Time) (*model.Session, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	session := &model.Session{Date: date, Records: make(map[string]model.SessionRecord)}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				continue
			}
			return nil, fmt.Errorf("read row: %w", err)
		}

		if strings.TrimSpace(field(row, idx[colSeries])) != model.SeriesEquity {
			continue
		}
		rec, ok := parseRecord(row, idx)
		if !ok {
			continue
		}
		session.Records[rec.Symbol] = rec
	}
	return session, nil
}

func indexColumns(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("missing column %s", col)
		}
	}
	return idx, nil
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func parseRecord(row []string, idx map[string]int) (model.SessionRecord, bool) {
	symbol := strings.TrimSpace(field(row, idx[colSymbol]))
	if symbol == "" {
		return model.SessionRecord{}, false
	}

	var prices [5]float64
	for i, col := range []string{colOpen, colHigh, colLow, colClose, colVolume} {
		v, err := strconv.ParseFloat(strings.TrimSpace(field(row, idx[col])), 64)
		if err != nil || v < 0 {
			return model.SessionRecord{}, false
		}
		prices[i] = v
	}
	tv, err := decimal.NewFromString(strings.TrimSpace(field(row, idx[colTradedValue])))
	if err != nil || tv.IsNegative() {
		return model.SessionRecord{}, false
	}

	return model.SessionRecord{
		Symbol:      symbol,
		Series:      model.SeriesEquity,
		Open:        prices[0],
		High:        prices[1],
		Low:         prices[2],
		Close:       prices[3],
		Volume:      prices[4],
		TradedValue: tv,
	}, true
}
