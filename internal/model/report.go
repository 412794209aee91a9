package model

import "time"

// Report is one worker's single pass through one checklist.
// ScorePercent stays 0 until scoring runs at completion; that is the
// only mutation a report sees after creation.
type Report struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	UserID       string    `json:"userId" bson:"userId"`
	ChecklistID  string    `json:"checklistId" bson:"checklistId"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	ScorePercent int       `json:"scorePercent" bson:"scorePercent"`
}

// Answer is one persisted response to one question within one report.
// Answers are append-only: there is no update or delete path.
type Answer struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	ReportID   string    `json:"reportId" bson:"reportId"`
	QuestionID string    `json:"questionId" bson:"questionId"`
	Text       string    `json:"text,omitempty" bson:"text,omitempty"`
	PhotoRef   string    `json:"photoRef,omitempty" bson:"photoRef,omitempty"`
	Points     int       `json:"points" bson:"points"`
	AnsweredAt time.Time `json:"answeredAt" bson:"answeredAt"`
}

// ReportWithUser pairs a report with the worker who filed it
type ReportWithUser struct {
	Report *Report `json:"report"`
	User   *User   `json:"user"`
}

// ReportWithChecklist pairs a report with its template
type ReportWithChecklist struct {
	Report    *Report    `json:"report"`
	Checklist *Checklist `json:"checklist"`
}

// ReportDetail joins a report with everything an admin needs to read it.
type ReportDetail struct {
	Report    *Report          `json:"report"`
	User      *User            `json:"user"`
	Checklist *Checklist       `json:"checklist"`
	Answers   []AnsweredDetail `json:"answers"`
}

// AnsweredDetail pairs an answer with its question text. Soft-deleted
// questions still show up here; history is never filtered.
type AnsweredDetail struct {
	Answer   Answer `json:"answer"`
	Question string `json:"question"`
}
