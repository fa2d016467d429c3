package stats

import (
	"context"
	"io"

	"github.com/verte-zerg/typeout/internal/model"
)

// RunLister loads recorded runs.
type RunLister interface {
	ListRuns(ctx context.Context, cfg model.HistoryConfig) ([]model.RunRecord, error)
}

// WriteReport loads runs matching cfg and prints the summary and history.
func WriteReport(ctx context.Context, w io.Writer, st RunLister, cfg model.HistoryConfig) error {
	runs, err := st.ListRuns(ctx, cfg)
	if err != nil {
		return err
	}
	if err := RenderSummary(w, runs); err != nil {
		return err
	}
	return RenderHistory(w, runs)
}
