package consts

// Database tables.
const (
	DBHistory = "history"
)

// History columns.
const (
	QHistID         = "id"
	QHistEndpoint   = "endpoint"
	QHistURL        = "url"
	QHistFormatID   = "format_id"
	QHistOutputKind = "output_kind"
	QHistStatus     = "status"
	QHistErrorKind  = "error_kind"
	QHistBytes      = "bytes"
	QHistStartedAt  = "started_at"
	QHistFinishedAt = "finished_at"
)
