package model

import "time"

// SessionState tags where a checklist run currently is. Presenting a
// question and waiting for its answer collapse into one stored state:
// the engine emits the prompt and immediately waits.
type SessionState string

const (
	SessionAwaitingAnswer SessionState = "awaiting_answer"
	SessionAwaitingPhoto  SessionState = "awaiting_photo" // Answer accepted, photo proof still missing
)

// Session is the transient state of one worker walking one checklist.
// It is keyed by the worker's conversation, cached in Redis, and
// discarded on completion or cancellation. Questions are snapshotted at
// start: admin edits mid-run do not change what this worker is asked.
type Session struct {
	WorkerID      string       `json:"workerId"`
	ChecklistID   string       `json:"checklistId"`
	ReportID      string       `json:"reportId"`
	Questions     []Question   `json:"questions"`
	CurrentIndex  int          `json:"currentIndex"`
	PendingAnswer string       `json:"pendingAnswer,omitempty"`
	State         SessionState `json:"state"`
	StartedAt     time.Time    `json:"startedAt"`
}

// Current returns the question the session is waiting on.
func (s *Session) Current() *Question {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Questions) {
		return nil
	}
	return &s.Questions[s.CurrentIndex]
}

// InputKind distinguishes the shapes of inbound events from the bot.
type InputKind string

const (
	InputChoice InputKind = "choice" // Button press: yes/no or a scale value
	InputText   InputKind = "text"   // Free-form message
	InputPhoto  InputKind = "photo"  // Photo attachment, optionally captioned
	InputCancel InputKind = "cancel" // Worker aborts the run
)

// Input is one inbound event routed into an in-progress session.
type Input struct {
	Kind     InputKind `json:"kind"`
	Value    string    `json:"value,omitempty"`    // Choice value or message text
	PhotoRef string    `json:"photoRef,omitempty"` // Opaque file reference from the transport
	Caption  string    `json:"caption,omitempty"`
}

// Binary choice values the engine accepts.
const (
	AnswerYes = "yes"
	AnswerNo  = "no"
)

// Step tells the front-end what to show next. Terminal means the
// session is over and the caller should restore the idle menu.
type Step struct {
	Prompt       string    `json:"prompt"`
	Question     *Question `json:"question,omitempty"`
	Number       int       `json:"number,omitempty"` // 1-based position of Question
	Total        int       `json:"total,omitempty"`
	Terminal     bool      `json:"terminal"`
	ScorePercent int       `json:"scorePercent,omitempty"` // Set on the completion step
}
