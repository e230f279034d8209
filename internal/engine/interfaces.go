package engine

import (
	"context"

	"github.com/chitragupt/chitragupt/internal/model"
)

// Analyzer is the external analysis collaborator. It is slow and
// side-effect-free on the store, so the engine calls it outside the
// atomic transaction. A failure must surface as ErrAnalysisUnavailable.
type Analyzer interface {
	Analyze(ctx context.Context, document []byte) (*model.AnalysisReport, error)
}
