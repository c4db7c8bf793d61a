package store

// Bookmark kind values as stored in the bookmarks table. The movement core
// layers its own typed enum on top; the store only records the resolved
// namespace.
const (
	KindScratch = "scratch"
	KindPublic  = "public"
)

// Bookmark is a row of the bookmarks table: a named pointer into the
// history graph.
type Bookmark struct {
	Name       string
	Kind       string
	ChangesetID string
}

// LogEntry is a row of the append-only bookmark update log. Only public
// bookmark movement is logged.
type LogEntry struct {
	// ID is the log sequence. Assigned by the store, strictly increasing.
	ID int64

	Name string

	// FromChangesetID is nil for creates.
	FromChangesetID *string

	// ToChangesetID is nil for deletes.
	ToChangesetID *string

	// Reason records why the pointer moved (push, pull, blobimport, ...).
	Reason string

	// OperationID correlates the log row with the operation that produced
	// it, for audit.
	OperationID string

	// ReplayData carries opaque out-of-band replication metadata, when the
	// operation supplied any.
	ReplayData *string
}
