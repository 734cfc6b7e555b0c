package recorder

// Entry holds the persisted fields of one completed analysis. Raw message
// text is never stored, only derived facts.
type Entry struct {
	Score     int
	Tier      string
	Labels    []string // fired detector labels, catalog order
	Payment   string
	LinkCount int
	Source    string // "http", "cli" or "inbox"
}

// Recorder persists analysis history for later review.
type Recorder interface {
	RecordAnalysis(e *Entry) error
	Close() error
}
