package errors

import "fmt"

// Structural pipeline errors. Any of these aborts a batch run: the inputs
// are unusable, not merely dirty. Per-row data-quality issues are handled
// with sentinels and the quality report instead.

// FileNotFoundError reports a missing input file.
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("input file not found: %s", e.Path)
}

// SchemaError reports a required column missing from an input file.
type SchemaError struct {
	File   string
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: required column %q is missing", e.File, e.Column)
}

// KeyMismatchError reports an inner join that produced zero rows because
// the key sets of the two inputs are disjoint.
type KeyMismatchError struct {
	Key   string
	Left  int
	Right int
}

func (e *KeyMismatchError) Error() string {
	return fmt.Sprintf("join on %q produced no rows (%d left, %d right records share no keys)",
		e.Key, e.Left, e.Right)
}

// UnknownCategoryError reports a value outside a closed categorical domain,
// currently only severity. Unlike bad numerics this is fatal: an unknown
// severity label means the input is not the dataset we think it is.
type UnknownCategoryError struct {
	Column string
	Value  string
	Row    int
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("row %d: unrecognized %s value %q", e.Row, e.Column, e.Value)
}

// MalformedValueError describes a single unparseable cell. It is never
// propagated out of the transformer; it exists so quality accounting has a
// uniform shape when logging recovered defects.
type MalformedValueError struct {
	Column string
	Value  string
	Row    int
}

func (e *MalformedValueError) Error() string {
	return fmt.Sprintf("row %d: malformed %s value %q", e.Row, e.Column, e.Value)
}
