package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"survey-app/internal/metrics"
	"survey-app/internal/models"
	"survey-app/internal/repository"

	"github.com/rs/zerolog/log"
)

// ErrImportRejected wraps every reason an uploaded table is refused.
var ErrImportRejected = errors.New("service: import rejected")

// ImportPreview summarises a validated batch before the user chooses what to do with it.
type ImportPreview struct {
	Project string          `json:"project"`
	Count   int             `json:"count"`
	Records []models.Record `json:"records"`
}

// ImportResult reports a completed merge or replace.
type ImportResult struct {
	Project  string `json:"project"`
	Mode     string `json:"mode"`
	Imported int    `json:"imported"`
	Total    int    `json:"total"`
}

// Export is a downloadable copy of a project.
type Export struct {
	Filename string
	Data     []byte
}

// TransferService imports and exports record tables for the active project.
type TransferService struct {
	session SurveySession
	repo    RecordRepository
}

// NewTransferService creates a new transfer service
func NewTransferService(sess SurveySession, repo RecordRepository) *TransferService {
	return &TransferService{session: sess, repo: repo}
}

// Export renders the active project as CSV with a byte order mark.
func (s *TransferService) Export(ctx context.Context) (Export, error) {
	project := s.session.Project()
	records, err := s.repo.Load(ctx, project)
	if err != nil {
		return Export{}, fmt.Errorf("service: failed to load %s for export: %w", project, err)
	}

	var buf bytes.Buffer
	if err := repository.EncodeRecordsWithBOM(&buf, records); err != nil {
		return Export{}, fmt.Errorf("service: failed to encode export: %w", err)
	}
	return Export{Filename: project + "_export.csv", Data: buf.Bytes()}, nil
}

// Preview decodes and validates an uploaded table without touching the store.
func (s *TransferService) Preview(ctx context.Context, r io.Reader) (ImportPreview, error) {
	records, err := decodeBatch(r)
	if err != nil {
		return ImportPreview{}, err
	}
	return ImportPreview{Project: s.session.Project(), Count: len(records), Records: records}, nil
}

// Merge appends an uploaded table to the active project.
func (s *TransferService) Merge(ctx context.Context, r io.Reader) (ImportResult, error) {
	return s.apply(ctx, r, "merge", s.repo.Merge)
}

// Replace overwrites the active project with an uploaded table.
func (s *TransferService) Replace(ctx context.Context, r io.Reader) (ImportResult, error) {
	return s.apply(ctx, r, "replace", s.repo.Overwrite)
}

func (s *TransferService) apply(ctx context.Context, r io.Reader, mode string,
	write func(context.Context, string, []models.Record) error) (ImportResult, error) {
	records, err := decodeBatch(r)
	if err != nil {
		return ImportResult{}, err
	}

	project := s.session.Project()
	if err := write(ctx, project, records); err != nil {
		return ImportResult{}, fmt.Errorf("service: failed to %s import into %s: %w", mode, project, err)
	}

	all, err := s.repo.Load(ctx, project)
	if err != nil {
		return ImportResult{}, fmt.Errorf("service: failed to reload %s: %w", project, err)
	}

	metrics.RecordsWritten.WithLabelValues(mode).Add(float64(len(records)))
	log.Info().Str("project", project).Str("mode", mode).Int("imported", len(records)).
		Int("total", len(all)).Msg("records imported")

	return ImportResult{Project: project, Mode: mode, Imported: len(records), Total: len(all)}, nil
}

// decodeBatch parses and validates an external batch; nothing is written on error.
func decodeBatch(r io.Reader) ([]models.Record, error) {
	records, err := repository.DecodeRecords(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImportRejected, err)
	}
	if err := repository.ValidateBatch(records); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImportRejected, err)
	}
	return records, nil
}
