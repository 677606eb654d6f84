package growth

import (
	"dla/deque"
	"dla/model"
)

// Snapshot is the state right after one growth step.
type Snapshot struct {
	Step             int
	Cell             model.Cell
	Aggregate        *model.Grid
	Field            *model.Field
	SolverIterations int
	Residual         float64
	Omega            float64
	Reductions       int // 本步求解中 ω 被下调的次数
}

// History is the record of one run.
//
// Snapshots holds one entry per completed step, or only the most recent
// HistoryLimit entries when a limit is configured. Aggregate and Field always
// hold the final state; Field is the last successfully solved field.
type History struct {
	Snapshots             *deque.ArrDeque[Snapshot]
	Initial               *model.Grid
	Aggregate             *model.Grid
	Field                 *model.Field
	Steps                 int // 完成的生长步数
	TerminationStep       int // 终止时的步数，失败时为失败的那一步
	TotalSolverIterations int
	Status                Status
	Err                   error
}

func newHistory(limit int, initial *model.Grid) *History {
	return &History{
		Snapshots: deque.NewArrDeque[Snapshot](limit),
		Initial:   initial.Clone(),
	}
}

func (h *History) record(s Snapshot) {
	if h.Snapshots.IsFull() {
		h.Snapshots.RemoveFirst()
	}
	h.Snapshots.AddLast(s)
}

// Last returns the most recent snapshot.
func (h *History) Last() (Snapshot, bool) {
	if h.Snapshots.IsEmpty() {
		return Snapshot{}, false
	}
	return h.Snapshots.Get(h.Snapshots.Size() - 1), true
}

// CellsAdded is the number of cells grown on top of the seed.
func (h *History) CellsAdded() int {
	return h.Aggregate.Count() - h.Initial.Count()
}
