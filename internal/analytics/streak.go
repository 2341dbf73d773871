package analytics

type Streak struct {
	Type   Outcome `json:"type,omitempty"`
	Length int     `json:"length"`
}

// streakTracker walks outcomes in order. A win resets the loss run, a loss
// resets the win run, and a tie resets both.
type streakTracker struct {
	curWin, curLoss, curTie int
	maxWin, maxLoss         int
}

func (t *streakTracker) record(o Outcome) {
	switch o {
	case Win:
		t.curWin++
		t.curLoss, t.curTie = 0, 0
		t.maxWin = max(t.maxWin, t.curWin)
	case Loss:
		t.curLoss++
		t.curWin, t.curTie = 0, 0
		t.maxLoss = max(t.maxLoss, t.curLoss)
	case Tie:
		t.curTie++
		t.curWin, t.curLoss = 0, 0
	}
}

func (t *streakTracker) current() Streak {
	switch {
	case t.curWin > 0:
		return Streak{Type: Win, Length: t.curWin}
	case t.curLoss > 0:
		return Streak{Type: Loss, Length: t.curLoss}
	case t.curTie > 0:
		return Streak{Type: Tie, Length: t.curTie}
	}
	return Streak{}
}

// StreakSummary runs a chronological outcome sequence through the streak
// rules and reports the longest runs and the run in progress.
func StreakSummary(outcomes []Outcome) (maxWin, maxLoss int, current Streak) {
	var t streakTracker
	for _, o := range outcomes {
		t.record(o)
	}
	return t.maxWin, t.maxLoss, t.current()
}
