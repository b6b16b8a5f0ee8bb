package detection

import "encoding/json"

// StageStatus is the terminal state of one pipeline stage.
type StageStatus string

const (
	StageCompleted StageStatus = "completed"
	StageSkipped   StageStatus = "skipped"
	StageFailed    StageStatus = "failed"
)

// StageOutcome wraps a stage result so the orchestrator and verdict compiler
// never branch on errors crossing stage boundaries. Exactly one of Result,
// Reason or Err is meaningful depending on Status.
type StageOutcome[T any] struct {
	Status StageStatus
	Result *T
	Reason string // human-readable skip reason
	Err    string // failure description
}

// Completed wraps a successful stage result.
func Completed[T any](result T) StageOutcome[T] {
	return StageOutcome[T]{Status: StageCompleted, Result: &result}
}

// Skipped records that a stage's entry gate was not met.
func Skipped[T any](reason string) StageOutcome[T] {
	return StageOutcome[T]{Status: StageSkipped, Reason: reason}
}

// Failed records a stage-local failure.
func Failed[T any](errMsg string) StageOutcome[T] {
	return StageOutcome[T]{Status: StageFailed, Err: errMsg}
}

// IsCompleted reports whether the stage produced a usable result.
func (o StageOutcome[T]) IsCompleted() bool {
	return o.Status == StageCompleted && o.Result != nil
}

// Value returns the stage result and whether it is usable.
func (o StageOutcome[T]) Value() (*T, bool) {
	if !o.IsCompleted() {
		return nil, false
	}
	return o.Result, true
}

// MarshalJSON serializes the outcome as the stage's result object, a
// {"skipped": true, "reason": ...} marker, or an {"error": ...} record.
func (o StageOutcome[T]) MarshalJSON() ([]byte, error) {
	switch o.Status {
	case StageCompleted:
		return json.Marshal(o.Result)
	case StageSkipped:
		return json.Marshal(struct {
			Skipped bool   `json:"skipped"`
			Reason  string `json:"reason"`
		}{Skipped: true, Reason: o.Reason})
	default:
		return json.Marshal(struct {
			Error string `json:"error"`
		}{Error: o.Err})
	}
}

// UnmarshalJSON restores an outcome written by MarshalJSON.
func (o *StageOutcome[T]) UnmarshalJSON(data []byte) error {
	var marker struct {
		Skipped bool   `json:"skipped"`
		Reason  string `json:"reason"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &marker); err != nil {
		return err
	}
	switch {
	case marker.Skipped:
		*o = Skipped[T](marker.Reason)
	case marker.Error != "":
		*o = Failed[T](marker.Error)
	default:
		var result T
		if err := json.Unmarshal(data, &result); err != nil {
			return err
		}
		*o = Completed(result)
	}
	return nil
}
