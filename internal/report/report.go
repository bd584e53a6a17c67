package report

import (
	"context"
	"time"

	"github.com/verte-zerg/calcdeck/internal/model"
)

// Source is the history storage a report reads from.
type Source interface {
	ListTape(ctx context.Context, cfg model.HistoryConfig) ([]model.TapeEntry, error)
	ListToolRuns(ctx context.Context, cfg model.HistoryConfig) ([]model.ToolRun, error)
	VariantCounts(ctx context.Context, since *time.Time) ([]model.VariantCount, error)
}

// Report contains precomputed data for history rendering.
type Report struct {
	Tape     []model.TapeEntry
	ToolRuns []model.ToolRun
	Counts   []model.VariantCount
	Summary  Summary
}

// BuildReport loads and prepares data for history rendering.
func BuildReport(ctx context.Context, src Source, cfg model.HistoryConfig) (Report, error) {
	tape, err := src.ListTape(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	runs, err := src.ListToolRuns(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	counts, err := src.VariantCounts(ctx, cfg.Since)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Tape:     tape,
		ToolRuns: runs,
		Counts:   counts,
		Summary:  Summarize(tape, runs),
	}, nil
}
