package profiler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pratapwarrohit13/OCPM-ENTITY-RELATIONSHIP/pkg/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)
	return logger
}

func TestAccumulatorFold(t *testing.T) {
	columns := []string{"id", "city"}
	types := []models.ColumnType{models.TypeInteger, models.TypeString}
	acc := NewAccumulator("cities.csv", columns, types, testLogger())

	require.NoError(t, acc.Add(&models.Chunk{Columns: columns, Rows: [][]interface{}{
		{int64(1), "Oslo"},
		{int64(2), "Bergen"},
	}}))
	require.NoError(t, acc.Add(&models.Chunk{Columns: columns, Rows: [][]interface{}{
		{int64(3), "Oslo"},
		{int64(4), nil},
	}}))

	profile := acc.Finalize()
	assert.Equal(t, 4, profile.RowCount)
	assert.Len(t, profile.Distinct["id"], 4)
	assert.Len(t, profile.Distinct["city"], 2, "distinct values union across chunks")
	assert.False(t, profile.HasNulls["id"])
	assert.True(t, profile.HasNulls["city"])
	assert.True(t, profile.IsUniqueColumn("id"))
	assert.False(t, profile.IsUniqueColumn("city"))
}

func TestAccumulatorColumnMismatch(t *testing.T) {
	acc := NewAccumulator("t.csv", []string{"a"}, []models.ColumnType{models.TypeString}, testLogger())
	err := acc.Add(&models.Chunk{Columns: []string{"a", "b"}})
	require.Error(t, err)
}

func TestAccumulatorStringFallback(t *testing.T) {
	columns := []string{"n"}
	types := []models.ColumnType{models.TypeInteger}
	acc := NewAccumulator("drift.csv", columns, types, testLogger())

	// A later chunk delivers a value that no longer coerces to the
	// established integer type.
	require.NoError(t, acc.Add(&models.Chunk{Columns: columns, Rows: [][]interface{}{
		{int64(1)},
		{"x2"},
		{"x3"},
	}}))

	profile := acc.Finalize()
	assert.Equal(t, models.TypeInteger, profile.Types["n"], "established dtype does not change")
	assert.Len(t, profile.Distinct["n"], 3)

	diags := acc.Diagnostics()
	require.Len(t, diags, 1, "fallback is reported once per column")
	assert.Equal(t, "profile", diags[0].Stage)
	assert.Equal(t, "n", diags[0].Column)
}

func TestDateLikeDetection(t *testing.T) {
	columns := []string{"day", "code", "note"}
	types := []models.ColumnType{models.TypeString, models.TypeInteger, models.TypeString}
	acc := NewAccumulator("events.csv", columns, types, testLogger())

	require.NoError(t, acc.Add(&models.Chunk{Columns: columns, Rows: [][]interface{}{
		{"2023-01-01", int64(20230101), "hello"},
		{"2023-02-15", int64(20230215), "2023-02-15"},
		{"2023-03-30", int64(20230330), "world"},
	}}))

	profile := acc.Finalize()
	assert.Equal(t, models.TypeDateLike, profile.Types["day"])
	assert.Equal(t, []string{"day"}, profile.DateColumns)
	// Numeric columns are excluded outright, even with date-looking digits.
	assert.Equal(t, models.TypeInteger, profile.Types["code"])
	// One non-date sample disqualifies the column.
	assert.Equal(t, models.TypeString, profile.Types["note"])
}

func TestDateLikeNeedsSamples(t *testing.T) {
	columns := []string{"s"}
	types := []models.ColumnType{models.TypeString}
	acc := NewAccumulator("empty.csv", columns, types, testLogger())

	require.NoError(t, acc.Add(&models.Chunk{Columns: columns, Rows: [][]interface{}{{nil}, {nil}}}))

	profile := acc.Finalize()
	assert.Equal(t, models.TypeString, profile.Types["s"], "all-null column is never date-like")
	assert.Empty(t, profile.DateColumns)
}

func TestProfileTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "orders.csv")
	require.NoError(t, os.WriteFile(path, []byte(
		"order_id,customer_id,order_date\n"+
			"1,1,2023-01-01\n"+
			"2,1,2023-01-02\n"+
			"3,2,2023-01-03\n"), 0o644))

	profile, diags, err := ProfileTable(path, testLogger())
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Equal(t, "orders.csv", profile.Name)
	assert.Equal(t, 3, profile.RowCount)
	assert.Equal(t, []string{"order_id", "customer_id", "order_date"}, profile.Columns)
	assert.True(t, profile.IsUniqueColumn("order_id"))
	assert.Equal(t, []string{"order_date"}, profile.DateColumns)
}

func TestProfileTableLoadError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ragged.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2\n3\n"), 0o644))

	_, _, err := ProfileTable(path, testLogger())
	require.Error(t, err)
	var loadErr *models.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "ragged.csv", loadErr.Table)
}

func TestBuildProfilesSkipsFailedTables(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.csv")
	bad := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(good, []byte("id\n1\n2\n"), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte("a,b\n1\n"), 0o644))

	profiles, order, diags, err := BuildProfiles(context.Background(), []string{good, bad}, testLogger())
	require.NoError(t, err)

	assert.Equal(t, []string{"good.csv"}, order)
	require.Contains(t, profiles, "good.csv")
	assert.NotContains(t, profiles, "bad.csv")

	require.NotEmpty(t, diags)
	assert.Equal(t, "load", diags[0].Stage)
	assert.Equal(t, "bad.csv", diags[0].Table)
}

func TestBuildProfilesPreservesInputOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"c.csv", "a.csv", "b.csv"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte("id\n1\n"), 0o644))
		paths = append(paths, p)
	}

	_, order, _, err := BuildProfiles(context.Background(), paths, testLogger())
	require.NoError(t, err)
	assert.Equal(t, []string{"c.csv", "a.csv", "b.csv"}, order)
}

func TestBuildProfilesCanceledContext(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ok.csv")
	require.NoError(t, os.WriteFile(path, []byte("id\n1\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, _, err := BuildProfiles(ctx, []string{path}, testLogger())
	require.ErrorIs(t, err, context.Canceled)
}
