package studio

import "time"

// ProgressUpdate represents a step of ending a shift.
//
// Used to send real-time updates to the CLI or UI layer while feedback is requested.
type ProgressUpdate struct {
	Phase   Phase         // Operation phase
	Step    int           // Current step number
	Total   int           // Total steps
	Message string        // Human-readable message for display
	Elapsed time.Duration // Final shift duration, set once the shift is closed
}

// Phase of ending a shift
type Phase int

const (
	CloseShiftPhase Phase = iota
	SummarizePhase
	SavePhase
	DonePhase
)

func (p Phase) String() string {
	switch p {
	case CloseShiftPhase:
		return "close_shift"
	case SummarizePhase:
		return "summarize"
	case SavePhase:
		return "save"
	case DonePhase:
		return "done"
	default:
		return ""
	}
}

const endSteps = 4

func closingUpdate() ProgressUpdate {
	return ProgressUpdate{Phase: CloseShiftPhase, Step: 1, Total: endSteps, Message: "Подсчёт токенов..."}
}

func summarizingUpdate(elapsed time.Duration) ProgressUpdate {
	return ProgressUpdate{Phase: SummarizePhase, Step: 2, Total: endSteps, Message: "PRIMA AI анализирует смену...", Elapsed: elapsed}
}

func savingUpdate(elapsed time.Duration) ProgressUpdate {
	return ProgressUpdate{Phase: SavePhase, Step: 3, Total: endSteps, Message: "Сохранение...", Elapsed: elapsed}
}

func doneUpdate(elapsed time.Duration) ProgressUpdate {
	return ProgressUpdate{Phase: DonePhase, Step: 4, Total: endSteps, Message: "Смена завершена", Elapsed: elapsed}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
