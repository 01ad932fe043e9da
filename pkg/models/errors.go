package models

import "fmt"

// UnsupportedFormatError is returned when a file's extension is not one of
// the recognized tabular formats. The file is rejected before profiling.
type UnsupportedFormatError struct {
	Path      string
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("file format %q is not supported for %s", e.Extension, e.Path)
}

// LoadError is returned when a recognized-format file fails to parse.
// The table is excluded from the run; other tables proceed.
type LoadError struct {
	Table string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load table %s: %v", e.Table, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// RelationshipCheckError is an unexpected failure while comparing one
// specific (child, parent, column, pk) quadruple. That single candidate is
// skipped; the scan continues.
type RelationshipCheckError struct {
	ChildTable   string
	ChildColumn  string
	ParentTable  string
	ParentColumn string
	Err          error
}

func (e *RelationshipCheckError) Error() string {
	return fmt.Sprintf("error checking relationship %s.%s -> %s.%s: %v",
		e.ChildTable, e.ChildColumn, e.ParentTable, e.ParentColumn, e.Err)
}

func (e *RelationshipCheckError) Unwrap() error { return e.Err }

// NoDataError means zero tables loaded successfully. Nothing else can
// proceed, so this one is fatal for the run.
type NoDataError struct{}

func (e *NoDataError) Error() string {
	return "no tables could be loaded"
}
