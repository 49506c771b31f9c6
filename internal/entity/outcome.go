package entity

type Status int

const (
	StatusSkipped Status = iota
	StatusClean
	StatusFixed
	StatusFailed
)

func (s Status) String() string {
	return [...]string{"Skipped", "Clean", "Fixed", "Failed"}[s]
}

// Outcome is the per-archive processing record. It exists only for the
// final report and is never persisted.
type Outcome struct {
	Archive Archive
	Status  Status
	Fixed   int    // Number of entries rewritten, StatusFixed only.
	Message string // Short diagnostic, StatusFailed only.
}

// Summary aggregates one batch run.
type Summary struct {
	RunID      string
	WorkDir    string
	Total      int
	Processed  []Outcome // Clean and Fixed archives.
	Skipped    []Outcome
	Failed     []Outcome
	TotalFixed int
}

// HistoryItem is one line of the rolling completion history.
type HistoryItem struct {
	Index   int
	Total   int
	Outcome Outcome
}

// ProgressState carries the mutable display state threaded through the
// batch driver into the reporting collaborator.
type ProgressState struct {
	limit int
	Items []HistoryItem
}

func NewProgressState(limit int) *ProgressState {
	return &ProgressState{limit: limit}
}

// Push appends an item, evicting the oldest once the bound is reached.
func (s *ProgressState) Push(item HistoryItem) {
	s.Items = append(s.Items, item)
	if s.limit > 0 && len(s.Items) > s.limit {
		s.Items = s.Items[len(s.Items)-s.limit:]
	}
}
