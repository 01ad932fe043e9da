package reader

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/pratapwarrohit13/OCPM-ENTITY-RELATIONSHIP/pkg/models"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// workbookReader streams rows from the first sheet of an xlsx workbook.
type workbookReader struct {
	name     string
	file     *excelize.File
	rows     *excelize.Rows
	header   []string
	types    []models.ColumnType
	inferred bool
	logger   *logrus.Logger
}

func openWorkbook(path string, logger *logrus.Logger) (TableReader, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		f.Close()
		return nil, fmt.Errorf("workbook %s has no sheets", filepath.Base(path))
	}

	rows, err := f.Rows(sheets[0])
	if err != nil {
		f.Close()
		return nil, err
	}

	if !rows.Next() {
		rows.Close()
		f.Close()
		return nil, fmt.Errorf("workbook %s is empty", filepath.Base(path))
	}
	header, err := rows.Columns()
	if err != nil {
		rows.Close()
		f.Close()
		return nil, err
	}
	if len(header) == 0 {
		rows.Close()
		f.Close()
		return nil, fmt.Errorf("workbook %s has an empty header row", filepath.Base(path))
	}

	return &workbookReader{
		name:   filepath.Base(path),
		file:   f,
		rows:   rows,
		header: header,
		logger: logger,
	}, nil
}

func (wr *workbookReader) Name() string { return wr.name }

func (wr *workbookReader) Columns() []string { return wr.header }

func (wr *workbookReader) Types() []models.ColumnType { return wr.types }

func (wr *workbookReader) Next() (*models.Chunk, error) {
	records := make([][]string, 0, ChunkSize)
	for len(records) < ChunkSize && wr.rows.Next() {
		record, err := wr.rows.Columns()
		if err != nil {
			return nil, err
		}
		// Trailing empty cells are dropped by the sheet reader; pad back
		// to the header width so every row has the declared column count.
		for len(record) < len(wr.header) {
			record = append(record, "")
		}
		records = append(records, record)
	}
	if err := wr.rows.Error(); err != nil {
		return nil, err
	}

	if len(records) == 0 {
		if !wr.inferred {
			wr.types = make([]models.ColumnType, len(wr.header))
			for i := range wr.types {
				wr.types[i] = models.TypeString
			}
			wr.inferred = true
			return &models.Chunk{Columns: wr.header, Rows: nil}, nil
		}
		return nil, io.EOF
	}

	if !wr.inferred {
		wr.types = inferColumnTypes(wr.header, records)
		wr.inferred = true
	}

	return convertRecords(wr.header, wr.types, records), nil
}

func (wr *workbookReader) Close() error {
	wr.rows.Close()
	return wr.file.Close()
}
