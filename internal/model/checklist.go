package model

import "time"

// QuestionType defines how a question is answered and scored
type QuestionType string

const (
	QuestionTypeBinary QuestionType = "binary" // Yes/No choice, 1 point for yes
	QuestionTypeScale  QuestionType = "scale"  // Integer 1-10, points equal the value
	QuestionTypeText   QuestionType = "text"   // Free text, never scored
)

// Valid reports whether t is one of the known question types.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeBinary, QuestionTypeScale, QuestionTypeText:
		return true
	}
	return false
}

// Checklist is a reusable audit template created by an admin.
// ShopID and TargetPosition are optional filters: empty means the
// checklist applies to every shop / every position.
type Checklist struct {
	ID             string    `json:"id" bson:"_id,omitempty"`
	Title          string    `json:"title" bson:"title"`
	ShopID         string    `json:"shopId,omitempty" bson:"shopId,omitempty"`
	TargetPosition string    `json:"targetPosition,omitempty" bson:"targetPosition,omitempty"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Question belongs to exactly one checklist. Deletion is a soft flag:
// historical answers keep referencing the question, so it is never
// physically removed.
type Question struct {
	ID          string       `json:"id" bson:"_id,omitempty"`
	ChecklistID string       `json:"checklistId" bson:"checklistId"`
	Text        string       `json:"text" bson:"text"`
	Type        QuestionType `json:"type" bson:"type"`
	NeedsPhoto  bool         `json:"needsPhoto" bson:"needsPhoto"`
	IsDeleted   bool         `json:"isDeleted" bson:"isDeleted"`
	Order       int          `json:"order" bson:"order"` // Presentation order within the checklist
}

// MaxPoints is the highest score attainable on this question.
func (q *Question) MaxPoints() int {
	switch q.Type {
	case QuestionTypeBinary:
		return 1
	case QuestionTypeScale:
		return 10
	default:
		return 0
	}
}
