package reader

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pratapwarrohit13/OCPM-ENTITY-RELATIONSHIP/pkg/models"
	"github.com/sirupsen/logrus"
)

// ChunkSize is the number of rows delivered per chunk.
const ChunkSize = 1024

var supportedExtensions = map[string]bool{
	".csv":  true,
	".tsv":  true,
	".txt":  true,
	".xlsx": true,
}

// SupportedExtensions returns the recognized file extensions, sorted.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(supportedExtensions))
	for ext := range supportedExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// ValidateExtension checks that the file has a supported tabular format.
func ValidateExtension(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if !supportedExtensions[ext] {
		return &models.UnsupportedFormatError{Path: path, Extension: ext}
	}
	return nil
}

// TableReader pulls typed row chunks out of one tabular file. Next returns
// io.EOF once the file is drained.
type TableReader interface {
	Name() string
	Columns() []string
	Types() []models.ColumnType
	Next() (*models.Chunk, error)
	Close() error
}

// Open dispatches on the file extension and returns a chunked reader for
// the table. The table name is the file's base name.
func Open(path string, logger *logrus.Logger) (TableReader, error) {
	if err := ValidateExtension(path); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv":
		return openDelimited(path, ',', logger)
	case ".tsv":
		return openDelimited(path, '\t', logger)
	case ".txt":
		sep, err := sniffDelimiter(path)
		if err != nil {
			return nil, err
		}
		logger.Debugf("Sniffed delimiter %q for %s", string(sep), filepath.Base(path))
		return openDelimited(path, sep, logger)
	case ".xlsx":
		return openWorkbook(path, logger)
	default:
		return nil, &models.UnsupportedFormatError{Path: path, Extension: ext}
	}
}

// sniffDelimiter picks the delimiter that occurs most often in the header
// line. Tab wins ties, matching the original fallback for .txt files.
func sniffDelimiter(path string) (rune, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && err != io.EOF {
		return 0, err
	}

	best := '\t'
	bestCount := strings.Count(line, "\t")
	for _, cand := range []rune{',', ';', '|'} {
		if n := strings.Count(line, string(cand)); n > bestCount {
			best = cand
			bestCount = n
		}
	}
	return best, nil
}

// delimitedReader reads csv/tsv/txt files chunk by chunk.
type delimitedReader struct {
	name     string
	file     *os.File
	cr       *csv.Reader
	header   []string
	types    []models.ColumnType
	inferred bool
	logger   *logrus.Logger
}

func openDelimited(path string, comma rune, logger *logrus.Logger) (TableReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(f)
	cr.Comma = comma
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		f.Close()
		if err == io.EOF {
			return nil, fmt.Errorf("file %s is empty", filepath.Base(path))
		}
		return nil, err
	}

	return &delimitedReader{
		name:   filepath.Base(path),
		file:   f,
		cr:     cr,
		header: header,
		logger: logger,
	}, nil
}

func (dr *delimitedReader) Name() string { return dr.name }

func (dr *delimitedReader) Columns() []string { return dr.header }

func (dr *delimitedReader) Types() []models.ColumnType { return dr.types }

func (dr *delimitedReader) Next() (*models.Chunk, error) {
	records := make([][]string, 0, ChunkSize)
	for len(records) < ChunkSize {
		record, err := dr.cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if len(records) == 0 {
		if !dr.inferred {
			// Header-only file: the column set is still a valid (empty) table.
			dr.types = make([]models.ColumnType, len(dr.header))
			for i := range dr.types {
				dr.types[i] = models.TypeString
			}
			dr.inferred = true
			return &models.Chunk{Columns: dr.header, Rows: nil}, nil
		}
		return nil, io.EOF
	}

	if !dr.inferred {
		dr.types = inferColumnTypes(dr.header, records)
		dr.inferred = true
	}

	return convertRecords(dr.header, dr.types, records), nil
}

func (dr *delimitedReader) Close() error { return dr.file.Close() }

// nullLiterals are the string renderings treated as missing values.
var nullLiterals = map[string]bool{
	"":     true,
	"null": true,
	"na":   true,
	"n/a":  true,
	"nan":  true,
}

func isNullLiteral(s string) bool {
	return nullLiterals[strings.ToLower(strings.TrimSpace(s))]
}

// inferColumnTypes establishes each column's type from the first chunk.
// Every non-null sample must parse for a numeric or boolean bucket to win;
// otherwise the column is a string column.
func inferColumnTypes(header []string, records [][]string) []models.ColumnType {
	types := make([]models.ColumnType, len(header))
	for i := range header {
		allInt, allFloat, allBool := true, true, true
		seen := false
		for _, record := range records {
			if i >= len(record) || isNullLiteral(record[i]) {
				continue
			}
			seen = true
			raw := strings.TrimSpace(record[i])
			if _, err := strconv.ParseInt(raw, 10, 64); err != nil {
				allInt = false
			}
			if _, err := strconv.ParseFloat(raw, 64); err != nil {
				allFloat = false
			}
			if !isBoolLiteral(raw) {
				allBool = false
			}
			if !allInt && !allFloat && !allBool {
				break
			}
		}
		switch {
		case !seen:
			types[i] = models.TypeString
		case allBool:
			types[i] = models.TypeBoolean
		case allInt:
			types[i] = models.TypeInteger
		case allFloat:
			types[i] = models.TypeFloat
		default:
			types[i] = models.TypeString
		}
	}
	return types
}

func isBoolLiteral(s string) bool {
	switch strings.ToLower(s) {
	case "true", "false":
		return true
	}
	return false
}

// convertRecords turns raw string records into typed rows under the
// established column types. A value that fails to coerce is passed through
// as a string; the profiler records the fallback.
func convertRecords(header []string, types []models.ColumnType, records [][]string) *models.Chunk {
	rows := make([][]interface{}, 0, len(records))
	for _, record := range records {
		row := make([]interface{}, len(header))
		for i := range header {
			if i >= len(record) {
				row[i] = nil
				continue
			}
			row[i] = convertValue(record[i], types[i])
		}
		rows = append(rows, row)
	}
	return &models.Chunk{Columns: header, Rows: rows}
}

func convertValue(raw string, typ models.ColumnType) interface{} {
	if isNullLiteral(raw) {
		return nil
	}
	trimmed := strings.TrimSpace(raw)
	switch typ {
	case models.TypeInteger:
		if v, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return v
		}
	case models.TypeFloat:
		if v, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return v
		}
	case models.TypeBoolean:
		if isBoolLiteral(trimmed) {
			return strings.EqualFold(trimmed, "true")
		}
	}
	return raw
}
