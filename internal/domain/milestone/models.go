package milestone

// Milestone is a savings goal: a fixed target and the amount saved so far.
// Neither bound is enforced client-side; the server owns the values.
type Milestone struct {
	ID              string  `json:"id"`
	SavedAmount     float64 `json:"savedAmount"`
	GoalAmount      float64 `json:"goalAmount"`
	Duration        string  `json:"duration"`
	CreatedAtString string  `json:"createdAt"`
}

// Progress returns the display fraction savedAmount/goalAmount clamped to
// [0, 1]. The stored values themselves are not clamped anywhere.
func (m *Milestone) Progress() float64 {
	if m.GoalAmount <= 0 {
		return 0
	}
	p := m.SavedAmount / m.GoalAmount
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

type CreateParams struct {
	SavedAmount float64 `json:"savedAmount"`
	GoalAmount  float64 `json:"goalAmount"`
	Duration    string  `json:"duration"`
}
