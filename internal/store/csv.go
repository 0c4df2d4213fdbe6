package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"tick-recorder/internal/model"
)

// csvHeader is written once when a ticker's file is created.
var csvHeader = []string{"Ticker", "Date", "Time", "LTP", "LTQ"}

// CSVStore appends one row per tick to a per-ticker file. Every
// append is synced to stable storage before returning: durability
// over throughput.
type CSVStore struct {
	dir    string
	logger *slog.Logger

	mu    sync.Mutex
	files map[string]*os.File // upper-cased ticker -> open file
}

// NewCSVStore creates the data directory if needed.
func NewCSVStore(dir string, logger *slog.Logger) (*CSVStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create csv dir: %w", err)
	}
	return &CSVStore{
		dir:    dir,
		logger: logger,
		files:  make(map[string]*os.File),
	}, nil
}

// Append writes one record to the ticker's file, creating it with a
// header on first use.
func (s *CSVStore) Append(ctx context.Context, ticker string, tick model.Tick) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.fileLocked(ticker)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	record := []string{
		tick.Symbol,
		tick.Date(),
		tick.Clock(),
		strconv.FormatFloat(tick.LTP, 'f', -1, 64),
		strconv.FormatInt(tick.LTQ, 10),
	}
	if err := w.Write(record); err != nil {
		return fmt.Errorf("write csv record: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv record: %w", err)
	}

	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync csv file: %w", err)
	}
	return nil
}

// Close closes all open per-ticker files.
func (s *CSVStore) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for ticker, f := range s.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close %s: %w", ticker, err)
		}
	}
	s.files = make(map[string]*os.File)
	return firstErr
}

// Path returns the file path used for a ticker.
func (s *CSVStore) Path(ticker string) string {
	return filepath.Join(s.dir, strings.ToUpper(ticker)+".csv")
}

// fileLocked returns the ticker's open file, initializing it with the
// header when the file is new or empty. Caller holds s.mu.
func (s *CSVStore) fileLocked(ticker string) (*os.File, error) {
	ticker = strings.ToUpper(ticker)
	if f, ok := s.files[ticker]; ok {
		return f, nil
	}

	path := s.Path(ticker)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open csv file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat csv file: %w", err)
	}

	if info.Size() == 0 {
		w := csv.NewWriter(f)
		if err := w.Write(csvHeader); err != nil {
			f.Close()
			return nil, fmt.Errorf("write csv header: %w", err)
		}
		w.Flush()
		if err := w.Error(); err != nil {
			f.Close()
			return nil, fmt.Errorf("flush csv header: %w", err)
		}
		s.logger.Info("created tick file", "path", path)
	}

	s.files[ticker] = f
	return f, nil
}
