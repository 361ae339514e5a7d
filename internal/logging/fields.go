package logging

// Field names for structured logging.
const (
	FieldError  = "error"
	FieldPath   = "path"
	FieldFiles  = "files"
	FieldJobs   = "jobs"
	FieldStyle  = "style"
	FieldConfig = "config"

	// Cursor and recovery events.
	FieldToken = "token"
	FieldFrom  = "from"
	FieldTo    = "to"
	FieldDocs  = "docs"
	FieldSeek  = "seek"

	// Layout events.
	FieldColumn  = "column"
	FieldWidth   = "width"
	FieldMode    = "mode"
	FieldPenalty = "penalty"

	// Driver statistics.
	FieldChanged  = "changed"
	FieldCached   = "cached"
	FieldDuration = "duration"
)
