package dto

// RowResult is one data row as seen after validation: the raw cells keyed by
// header, the normalized document when the row is valid, and the error list
// when it is not. Index is the 1-based file row number with the header on
// line 1.
type RowResult struct {
	Index  int                    `json:"index"`
	Raw    map[string]string      `json:"raw"`
	Data   map[string]interface{} `json:"data,omitempty"`
	Errors []string               `json:"errors,omitempty"`
}

// PreviewTotals summarizes a preview batch.
type PreviewTotals struct {
	Total   int `json:"total"`
	Valid   int `json:"valid"`
	Invalid int `json:"invalid"`
}

// PreviewResponse is the dry-run report for an uploaded CSV. Nothing has been
// written when this is returned.
type PreviewResponse struct {
	Entity  string        `json:"entity"`
	Headers []string      `json:"headers"`
	Rows    []RowResult   `json:"rows"`
	Totals  PreviewTotals `json:"totals"`
}

// CommitRow is one row submitted for commit, echoing the preview shape.
type CommitRow struct {
	Index *int              `json:"index"`
	Raw   map[string]string `json:"raw" binding:"required"`
}

// CommitRequest carries the rows a client wants persisted.
type CommitRequest struct {
	Rows []CommitRow `json:"rows" binding:"required"`
}

// CommitSummary aggregates the outcome counts of a commit batch.
type CommitSummary struct {
	Total   int `json:"total"`
	Created int `json:"created"`
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}

// FailedRow reports one row that could not be persisted. Index is null for
// rows that were malformed beyond having a position.
type FailedRow struct {
	Index  *int     `json:"index"`
	Errors []string `json:"errors"`
}

// CommitResponse is the per-row outcome report for a commit batch.
type CommitResponse struct {
	Entity  string        `json:"entity"`
	Summary CommitSummary `json:"summary"`
	Failed  []FailedRow   `json:"failed"`
}
