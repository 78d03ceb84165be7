package dto

// ExportRequest captures query parameters for an entity export.
type ExportRequest struct {
	Format string `form:"format"`
}

// ExportResult bundles the rendered export payload for the handler.
type ExportResult struct {
	FileName    string
	ContentType string
	Content     []byte
}
