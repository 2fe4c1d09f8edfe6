package entity

import "time"

type TaskStatus string

const (
	TaskStatusIdle              TaskStatus = "IDLE"
	TaskStatusAnalyzing         TaskStatus = "ANALYZING"
	TaskStatusModeSelection     TaskStatus = "MODE_SELECTION"
	TaskStatusAwaitingBids      TaskStatus = "AWAITING_BIDS"
	TaskStatusProviderSelection TaskStatus = "PROVIDER_SELECTION"
	TaskStatusNegotiating       TaskStatus = "NEGOTIATING"
	TaskStatusInProgress        TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted         TaskStatus = "COMPLETED"
	TaskStatusReviewed          TaskStatus = "REVIEWED"
)

func (s TaskStatus) String() string {
	return string(s)
}

type StepStatus string

const (
	StepPending StepStatus = "PENDING"
	StepActive  StepStatus = "ACTIVE"
	StepDone    StepStatus = "DONE"
)

type StepAction string

const (
	ActionOpenCamera        StepAction = "OPEN_CAMERA"
	ActionVerifyID          StepAction = "VERIFY_ID"
	ActionActivateInsurance StepAction = "ACTIVATE_INSURANCE"
	ActionPayDeposit        StepAction = "PAY_DEPOSIT"
)

type TaskStep struct {
	ID     string     `json:"id"`
	Title  string     `json:"title"`
	Status StepStatus `json:"status"`
	Action StepAction `json:"action,omitempty"`
}

type Task struct {
	ID                 string        `json:"id"`
	UserID             string        `json:"userId"`
	Description        string        `json:"description"`
	Category           string        `json:"category"`
	Scenario           string        `json:"scenario"`
	Status             TaskStatus    `json:"status"`
	DueDate            *time.Time    `json:"dueDate,omitempty"`
	AIAnalysis         string        `json:"aiAnalysis"`
	RecommendedModes   []ServiceMode `json:"recommendedModes"`
	SelectedModeID     string        `json:"selectedModeId,omitempty"`
	SelectedProviderID string        `json:"selectedProviderId,omitempty"`
	Steps              []TaskStep    `json:"steps"`
	CurrentStepIndex   int           `json:"currentStepIndex"`
	Quote              *Quote        `json:"quote,omitempty"`
	Bids               []Quote       `json:"bids"`
	HasInsurance       bool          `json:"hasInsurance"`
	IsEscrowActive     bool          `json:"isEscrowActive"`
	CreatedAt          time.Time     `json:"createdAt"`
	UpdatedAt          time.Time     `json:"updatedAt"`
}

// Mode returns the recommended mode with the given id.
func (t *Task) Mode(id string) (ServiceMode, bool) {
	for _, m := range t.RecommendedModes {
		if m.ID == id {
			return m, true
		}
	}
	return ServiceMode{}, false
}

// Bid returns the received bid with the given id.
func (t *Task) Bid(id string) (Quote, bool) {
	for _, b := range t.Bids {
		if b.ID == id {
			return b, true
		}
	}
	return Quote{}, false
}

// SetStep moves the progress pointer and recomputes every step status.
func (t *Task) SetStep(index int) {
	if index < 0 {
		index = 0
	}
	if n := len(t.Steps); n > 0 && index >= n {
		index = n - 1
	}
	t.CurrentStepIndex = index
	for i := range t.Steps {
		switch {
		case i < index:
			t.Steps[i].Status = StepDone
		case i == index:
			t.Steps[i].Status = StepActive
		default:
			t.Steps[i].Status = StepPending
		}
	}
}

// Clone returns a deep copy safe to hand out of a store.
func (t *Task) Clone() *Task {
	c := *t
	c.RecommendedModes = append([]ServiceMode(nil), t.RecommendedModes...)
	c.Steps = append([]TaskStep(nil), t.Steps...)
	if t.Bids != nil {
		c.Bids = make([]Quote, len(t.Bids))
		for i, b := range t.Bids {
			c.Bids[i] = *b.Clone()
		}
	}
	if t.Quote != nil {
		c.Quote = t.Quote.Clone()
	}
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	return &c
}
