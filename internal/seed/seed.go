// Package seed imports taught records from a YAML file at startup.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/domain"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Knowledge is where imported records go. *service.KnowledgeService satisfies it.
type Knowledge interface {
	Teach(ctx context.Context, req domain.TeachRequest) (*domain.MemoryRecord, error)
	List(ctx context.Context) ([]domain.MemoryRecord, error)
}

// File is the on-disk layout:
//
//	records:
//	  - pattern: ساعت کاری
//	    answer: هر روز از ۸ تا ۲۲
//	  - pattern: غایب
//	    intent: attendance.today.absent
type File struct {
	Records []domain.TeachRequest `yaml:"records"`
}

// Result counts what an import did.
type Result struct {
	Imported int
	Skipped  int
	Invalid  int
}

// Parse decodes a seed document. Unknown fields are rejected.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &File{}, nil
		}
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	return &f, nil
}

// LoadFile parses the seed file at path and teaches its records.
func LoadFile(ctx context.Context, path string, ks Knowledge, logger *zap.Logger) (Result, error) {
	fh, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open seed file: %w", err)
	}
	defer fh.Close()

	f, err := Parse(fh)
	if err != nil {
		return Result{}, err
	}
	return Import(ctx, f.Records, ks, logger)
}

// Import teaches each request whose pattern and intent pair is not already
// stored, so running it on every start is safe. Invalid entries are logged
// and skipped.
func Import(ctx context.Context, reqs []domain.TeachRequest, ks Knowledge, logger *zap.Logger) (Result, error) {
	existing, err := ks.List(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("list existing records: %w", err)
	}
	seen := make(map[recordKey]bool, len(existing))
	for _, m := range existing {
		seen[recordKey{m.Pattern, m.Intent}] = true
	}

	var res Result
	for i, req := range reqs {
		rec, err := domain.NewMemoryRecord(req)
		if err != nil {
			logger.Warn("skipping invalid seed record", zap.Int("index", i), zap.Error(err))
			res.Invalid++
			continue
		}
		key := recordKey{rec.Pattern, rec.Intent}
		if seen[key] {
			res.Skipped++
			continue
		}
		if _, err := ks.Teach(ctx, req); err != nil {
			return res, fmt.Errorf("teach seed record %d: %w", i, err)
		}
		seen[key] = true
		res.Imported++
	}

	logger.Info("seed import finished",
		zap.Int("imported", res.Imported),
		zap.Int("skipped", res.Skipped),
		zap.Int("invalid", res.Invalid))
	return res, nil
}

type recordKey struct {
	pattern string
	intent  domain.IntentKey
}
