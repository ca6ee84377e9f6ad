package entities

import "time"

// FeedSnapshot is the complete result of one feed refresh for a worker
type FeedSnapshot struct {
	WorkerID    string          `json:"worker_id"`
	Today       time.Time       `json:"today"`
	GeneratedAt time.Time       `json:"generated_at"`
	Jobs        []JobWithStatus `json:"jobs"`
	Active      []JobWithStatus `json:"active"`
	Archived    []JobWithStatus `json:"archived"`
}

// Find returns the row for jobID, if present
func (s *FeedSnapshot) Find(jobID string) (JobWithStatus, bool) {
	for _, row := range s.Jobs {
		if row.Job.ID == jobID {
			return row, true
		}
	}
	return JobWithStatus{}, false
}

// FeedWrite is a worker's committed write and the feed re-derived after it.
// RefreshErr is set when the write landed but the re-fetch failed; Snapshot is nil then.
type FeedWrite struct {
	Snapshot   *FeedSnapshot
	RefreshErr error
}

// FeedStateKind tags the variant held by a FeedState
type FeedStateKind string

const (
	FeedStateLoading FeedStateKind = "loading"
	FeedStateSuccess FeedStateKind = "success"
	FeedStateError   FeedStateKind = "error"
)

// FeedState is what stream subscribers receive: exactly one of the variants.
// Snapshot is set only for success, Err only for error.
// Seq orders states from concurrent refreshes of the same worker; zero means unordered.
type FeedState struct {
	Kind     FeedStateKind `json:"kind"`
	Snapshot *FeedSnapshot `json:"snapshot,omitempty"`
	Err      error         `json:"-"`
	Seq      uint64        `json:"-"`
}

// Terminal reports whether the state ends a refresh
func (s FeedState) Terminal() bool {
	return s.Kind == FeedStateSuccess || s.Kind == FeedStateError
}

// WithSeq stamps the state with the sequence of the refresh that produced it
func (s FeedState) WithSeq(seq uint64) FeedState {
	s.Seq = seq
	return s
}

// LoadingState returns the loading variant
func LoadingState() FeedState {
	return FeedState{Kind: FeedStateLoading}
}

// SuccessState returns the success variant
func SuccessState(snapshot *FeedSnapshot) FeedState {
	return FeedState{Kind: FeedStateSuccess, Snapshot: snapshot}
}

// ErrorState returns the error variant
func ErrorState(err error) FeedState {
	return FeedState{Kind: FeedStateError, Err: err}
}
