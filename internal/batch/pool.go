// Package batch runs the claims pipeline over many files concurrently.
package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	x12 "github.com/donfox/X12-to-JSON-translator"
	"github.com/donfox/X12-to-JSON-translator/internal/config"
)

// FileResult is the outcome of processing a single input file.
type FileResult struct {
	Path       string
	Type       x12.TransactionType
	Valid      bool
	Errors     int
	Warnings   int
	OutputPath string
	// Err is set when the file could not be read or its output could
	// not be written. Validation findings are not errors.
	Err error
}

// Pool processes input files with a bounded number of workers.
type Pool struct {
	Workers  int
	Config   config.Config
	Pipeline x12.Pipeline
	Logger   *log.Logger
	// WriteReports emits a validation report next to each JSON output.
	WriteReports bool
	// SkipValidationGate converts files even when validation fails.
	SkipValidationGate bool
}

// Run processes all paths concurrently and returns one result per path,
// in input order.
func (p *Pool) Run(ctx context.Context, paths []string) []FileResult {
	results := make([]FileResult, len(paths))

	sem := make(chan struct{}, p.Workers)
	var wg sync.WaitGroup

	for i, path := range paths {
		wg.Add(1)
		go func(idx int, path string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results[idx] = FileResult{Path: path, Err: ctx.Err()}
				return
			}
			defer func() { <-sem }()

			results[idx] = p.processFile(ctx, path)
		}(i, path)
	}

	wg.Wait()
	return results
}

func (p *Pool) processFile(ctx context.Context, path string) FileResult {
	result := FileResult{Path: path}
	logger := p.Logger.With("file", path)

	data, err := os.ReadFile(path)
	if err != nil {
		result.Err = fmt.Errorf("reading %s: %w", path, err)
		logger.Error("read failed", "err", err)
		return result
	}

	detection := x12.Detect(data)
	result.Type = detection.Type
	logger.Info("detected",
		"type", detection.Type,
		"confidence", detection.Confidence,
		"consistent", detection.Consistent)
	if detection.Type == x12.TransactionUnknown {
		result.Err = fmt.Errorf("%s: unrecognized transaction type", path)
		logger.Error("detection failed", "details", strings.Join(detection.Details, "; "))
		return result
	}
	if detection.Type != x12.Transaction837P {
		logger.Warn("skipping, only professional claims are converted",
			"type", detection.Type)
		return result
	}

	validation, doc, err := p.Pipeline.Process(ctx, data)
	if err != nil {
		result.Err = err
		logger.Error("processing failed", "err", err)
		return result
	}

	summary := validation.Summary()
	result.Valid = validation.Valid()
	result.Errors = summary[x12.SeverityError]
	result.Warnings = summary[x12.SeverityWarning]
	logger.Info("validated",
		"segments", validation.SegmentCount,
		"valid", result.Valid,
		"errors", result.Errors,
		"warnings", result.Warnings)

	if p.WriteReports {
		if err := p.writeReport(path, validation); err != nil {
			result.Err = err
			logger.Error("report write failed", "err", err)
			return result
		}
	}

	if !result.Valid && !p.SkipValidationGate {
		logger.Warn("skipping conversion, validation failed")
		return result
	}

	outPath := p.Config.JSONPath(path)
	if err := writeJSON(outPath, doc); err != nil {
		result.Err = err
		logger.Error("output write failed", "err", err)
		return result
	}
	result.OutputPath = outPath
	logger.Info("converted", "output", outPath)
	return result
}

func (p *Pool) writeReport(inputPath string, validation *x12.ValidationResult) error {
	reportPath := p.Config.ReportPath(inputPath)
	f, err := os.Create(reportPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", reportPath, err)
	}
	if err := x12.WriteReport(f, validation); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", reportPath, err)
	}
	return f.Close()
}

func writeJSON(path string, doc *x12.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
