package model

import "time"

// Export is the top-level JSON structure for a full session dump.
type Export struct {
	ExportedAt time.Time      `json:"exported_at"`
	NumThreads int            `json:"num_threads"`
	Threads    []ThreadExport `json:"threads"`
}

// ThreadExport holds one thread's state snapshot and conversation log.
type ThreadExport struct {
	State    SessionState `json:"state"`
	Messages []LogMessage `json:"messages"`
}
