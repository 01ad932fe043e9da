package analyzer

import (
	"context"

	"github.com/pratapwarrohit13/OCPM-ENTITY-RELATIONSHIP/internal/profiler"
	"github.com/pratapwarrohit13/OCPM-ENTITY-RELATIONSHIP/pkg/models"
	"github.com/sirupsen/logrus"
)

// AnalyzePaths runs the whole forward pass for a set of files: parallel
// profiling, PK detection, relationship inference, model assembly. Failed
// tables surface as diagnostics; only the zero-tables case is an error.
func AnalyzePaths(ctx context.Context, paths []string, workers int, logger *logrus.Logger) (*models.SchemaModel, error) {
	profiles, order, diagnostics, err := profiler.BuildProfiles(ctx, paths, logger)
	if err != nil {
		return nil, err
	}
	sa := NewSchemaAnalyzer(logger, workers)
	return sa.Analyze(profiles, order, diagnostics)
}
