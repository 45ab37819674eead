// Package session holds the report slots of one user session and keeps the
// combined dataset in step with every ingested file.
package session

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/finsight/internal/dataset"
	"github.com/cleared-dev/finsight/internal/importer"
	"github.com/cleared-dev/finsight/internal/model"
	"github.com/cleared-dev/finsight/internal/report"
)

// Session is the in-memory state of one user: a Profit & Loss slot, a
// Balance Sheet slot and the dataset combined from them. A Session is not
// safe for concurrent use.
type Session struct {
	log      zerolog.Logger
	registry *importer.Registry

	profitLoss   []model.Row // nil while the slot is empty
	balanceSheet []model.Row
	data         *dataset.Dataset
}

// New creates a session with both slots empty.
func New(registry *importer.Registry, log zerolog.Logger) *Session {
	return &Session{registry: registry, log: log}
}

// Result describes what one ingested file did to the session.
type Result struct {
	File   string
	Kind   model.ReportKind
	Routed bool // false when the filename matched no report kind
	Rows   int
}

// Ingest normalizes a parsed report into the slot chosen by its filename,
// replacing whatever the slot held, and recombines the dataset. Filenames
// matching no report kind are ignored without error. When normalization
// fails the slot is emptied, the other slot is kept and a *report.Error is
// returned.
func (s *Session) Ingest(filename string, t *model.Table) (Result, error) {
	res := Result{File: filename}
	kind, ok := model.KindForFilename(filepath.Base(filename))
	if !ok {
		s.log.Debug().Str("file", filename).Msg("filename matches no report kind, ignoring")
		return res, nil
	}
	res.Kind, res.Routed = kind, true

	rows, err := report.Normalize(kind, t)
	s.store(kind, rows)
	if err != nil {
		s.log.Error().Err(err).Str("file", filename).Stringer("kind", kind).Msg("report rejected")
		return res, err
	}

	res.Rows = len(rows)
	s.log.Info().
		Str("file", filename).
		Stringer("kind", kind).
		Int("rows", len(rows)).
		Int("dataset_rows", s.data.Len()).
		Msg("report ingested")
	return res, nil
}

// IngestReader parses r with the parser for filename's extension and
// ingests the result. Content that cannot be parsed fails its report kind
// like a normalization error.
func (s *Session) IngestReader(filename string, r io.Reader) (Result, error) {
	kind, ok := model.KindForFilename(filepath.Base(filename))
	if !ok {
		return s.Ingest(filename, nil)
	}

	p, err := s.registry.ForFile(filename)
	if err != nil {
		return s.reject(kind, filename, err)
	}
	t, err := p.Parse(r)
	if err != nil {
		return s.reject(kind, filename, fmt.Errorf("parsing %s: %w", filepath.Base(filename), err))
	}
	return s.Ingest(filename, t)
}

// IngestFile reads path with the parser for its extension and ingests it.
func (s *Session) IngestFile(path string) (Result, error) {
	kind, ok := model.KindForFilename(filepath.Base(path))
	if !ok {
		return s.Ingest(path, nil)
	}
	t, err := s.registry.ParseFile(path)
	if err != nil {
		return s.reject(kind, path, err)
	}
	return s.Ingest(path, t)
}

// reject empties the slot for a file that could not be read at all.
func (s *Session) reject(kind model.ReportKind, filename string, err error) (Result, error) {
	s.store(kind, nil)
	rerr := &report.Error{Kind: kind, Err: err}
	s.log.Error().Err(rerr).Str("file", filename).Msg("report rejected")
	return Result{File: filename, Kind: kind, Routed: true}, rerr
}

// store replaces a slot and recombines.
func (s *Session) store(kind model.ReportKind, rows []model.Row) {
	switch kind {
	case model.ReportProfitAndLoss:
		s.profitLoss = rows
	case model.ReportBalanceSheet:
		s.balanceSheet = rows
	}
	s.data = dataset.Combine(s.profitLoss, s.balanceSheet)
}

// Reset empties both slots.
func (s *Session) Reset() {
	s.profitLoss, s.balanceSheet, s.data = nil, nil, nil
}

// Loaded reports whether the slot for kind holds a report.
func (s *Session) Loaded(kind model.ReportKind) bool {
	switch kind {
	case model.ReportProfitAndLoss:
		return s.profitLoss != nil
	case model.ReportBalanceSheet:
		return s.balanceSheet != nil
	}
	return false
}

// Dataset returns the current combined dataset, nil when no report is
// loaded. Fetch it again after every ingest.
func (s *Session) Dataset() *dataset.Dataset { return s.data }

// TotalRevenue of the current dataset.
func (s *Session) TotalRevenue() decimal.Decimal { return dataset.TotalRevenue(s.data) }

// TotalExpenses of the current dataset.
func (s *Session) TotalExpenses() decimal.Decimal { return dataset.TotalExpenses(s.data) }

// Summary of the current dataset.
func (s *Session) Summary() dataset.Summary { return dataset.Summarize(s.data) }

// Filter returns the rows of the current dataset at level (0 for any) and
// of type typ ("" or "All" for any).
func (s *Session) Filter(level int, typ model.AccountType) *dataset.Dataset {
	return s.data.Filter(dataset.Filter{Level: level, Type: typ})
}
