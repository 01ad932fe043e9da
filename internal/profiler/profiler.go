package profiler

import (
	"context"
	"io"
	"path/filepath"

	"github.com/pratapwarrohit13/OCPM-ENTITY-RELATIONSHIP/internal/reader"
	"github.com/pratapwarrohit13/OCPM-ENTITY-RELATIONSHIP/pkg/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ProfileTable loads one file through the tabular reader and folds its
// chunks into a frozen profile. A file that cannot be read surfaces as a
// LoadError for that table only.
func ProfileTable(path string, logger *logrus.Logger) (*models.TableProfile, []models.Diagnostic, error) {
	name := filepath.Base(path)

	rdr, err := reader.Open(path, logger)
	if err != nil {
		return nil, nil, &models.LoadError{Table: name, Err: err}
	}
	defer rdr.Close()

	// The first chunk fixes the column list and the type hints.
	first, err := rdr.Next()
	if err != nil {
		return nil, nil, &models.LoadError{Table: name, Err: err}
	}

	acc := NewAccumulator(rdr.Name(), rdr.Columns(), rdr.Types(), logger)
	if err := acc.Add(first); err != nil {
		return nil, nil, &models.LoadError{Table: name, Err: err}
	}

	for {
		chunk, err := rdr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, &models.LoadError{Table: name, Err: err}
		}
		if err := acc.Add(chunk); err != nil {
			return nil, nil, &models.LoadError{Table: name, Err: err}
		}
	}

	profile := acc.Finalize()
	logger.Infof("Loaded %s with %d rows, %d columns", profile.Name, profile.RowCount, len(profile.Columns))
	return profile, acc.Diagnostics(), nil
}

// BuildProfiles profiles every path in parallel, one goroutine per table.
// Chunk accumulation inside a table stays sequential. Failed tables become
// diagnostics; the returned order preserves the input declaration order of
// the tables that loaded. Canceling ctx aborts the run and returns the
// context's error.
func BuildProfiles(ctx context.Context, paths []string, logger *logrus.Logger) (map[string]*models.TableProfile, []string, []models.Diagnostic, error) {
	type slot struct {
		profile     *models.TableProfile
		diagnostics []models.Diagnostic
	}
	slots := make([]slot, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			profile, diags, err := ProfileTable(path, logger)
			if err != nil {
				logger.Errorf("Failed loading %s: %v", filepath.Base(path), err)
				diags = append(diags, models.Diagnostic{
					Stage:   "load",
					Table:   filepath.Base(path),
					Message: err.Error(),
				})
			}
			slots[i] = slot{profile: profile, diagnostics: diags}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}

	profiles := make(map[string]*models.TableProfile)
	var order []string
	var diagnostics []models.Diagnostic
	for _, s := range slots {
		diagnostics = append(diagnostics, s.diagnostics...)
		if s.profile != nil {
			profiles[s.profile.Name] = s.profile
			order = append(order, s.profile.Name)
		}
	}
	return profiles, order, diagnostics, nil
}
