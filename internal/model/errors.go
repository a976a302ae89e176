package model

import (
	"fmt"
	"time"
)

// SchemaError reports a required column missing from the source schema. It is
// fatal: the run aborts and no document is produced.
type SchemaError struct {
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("required column %q missing from source schema", e.Column)
}

// AggregationError reports that a process-wide statistic has no denominator
// (zero usable rows). Fatal, and signaled explicitly rather than rendered as
// NaN or Infinity.
type AggregationError struct {
	Reason string
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("aggregation failed: %s", e.Reason)
}

// CoercionWarning records a single non-numeric price cell. Non-fatal: the cell
// is marked absent, the row is retained, and the warning is accumulated for
// the caller to log and persist. Warnings never surface in the document.
type CoercionWarning struct {
	SKU      string    `json:"sku"`
	Column   string    `json:"column"`
	Value    string    `json:"value"`
	Occurred time.Time `json:"occurred"`
}

func (w CoercionWarning) String() string {
	return fmt.Sprintf("sku %s: column %q value %q is not numeric, marked absent", w.SKU, w.Column, w.Value)
}
