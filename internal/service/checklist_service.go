package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shopcheck/internal/model"
	"shopcheck/internal/repository"
)

var (
	ErrQuestionNotFound    = errors.New("question not found")
	ErrInvalidQuestionType = errors.New("invalid question type")
	ErrChecklistHasReports = errors.New("checklist has reports and cannot be deleted")
)

// ChecklistService handles checklist template administration
type ChecklistService struct {
	checklistRepo repository.ChecklistRepo
	questionRepo  repository.QuestionRepo
	reportRepo    repository.ReportRepo
}

// NewChecklistService creates a new checklist service
func NewChecklistService(
	checklistRepo repository.ChecklistRepo,
	questionRepo repository.QuestionRepo,
	reportRepo repository.ReportRepo,
) *ChecklistService {
	return &ChecklistService{
		checklistRepo: checklistRepo,
		questionRepo:  questionRepo,
		reportRepo:    reportRepo,
	}
}

// Create creates a new checklist template. Empty shop or position means
// the checklist applies everywhere.
func (s *ChecklistService) Create(ctx context.Context, title, shopID, targetPosition string) (string, error) {
	checklist := &model.Checklist{
		Title:          title,
		ShopID:         shopID,
		TargetPosition: targetPosition,
	}
	return s.checklistRepo.Create(ctx, checklist)
}

// GetByID retrieves a checklist by ID
func (s *ChecklistService) GetByID(ctx context.Context, id string) (*model.Checklist, error) {
	return s.checklistRepo.GetByID(ctx, id)
}

// List retrieves all checklists
func (s *ChecklistService) List(ctx context.Context) ([]*model.Checklist, error) {
	return s.checklistRepo.List(ctx)
}

// Update updates title, shop or target position of a checklist
func (s *ChecklistService) Update(ctx context.Context, checklist *model.Checklist) error {
	return s.checklistRepo.Update(ctx, checklist)
}

// Delete removes a checklist and its questions, refusing while any
// report still references the template.
func (s *ChecklistService) Delete(ctx context.Context, id string) error {
	count, err := s.reportRepo.CountByChecklist(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: %d report(s) reference it", ErrChecklistHasReports, count)
	}

	if err := s.questionRepo.DeleteByChecklist(ctx, id); err != nil {
		return err
	}
	return s.checklistRepo.Delete(ctx, id)
}

// AvailableForWorker splits the worker's applicable checklists into
// ones still to do and ones already completed today.
func (s *ChecklistService) AvailableForWorker(ctx context.Context, user *model.User, completedToday []string) (todo, done []*model.Checklist, err error) {
	checklists, err := s.checklistRepo.ListForWorker(ctx, user.ShopID, user.Position)
	if err != nil {
		return nil, nil, err
	}

	completed := make(map[string]bool, len(completedToday))
	for _, id := range completedToday {
		completed[id] = true
	}

	for _, ch := range checklists {
		if completed[ch.ID] {
			done = append(done, ch)
		} else {
			todo = append(todo, ch)
		}
	}
	return todo, done, nil
}

// AddQuestion appends a question to a checklist
func (s *ChecklistService) AddQuestion(ctx context.Context, checklistID, text string, qt model.QuestionType, needsPhoto bool) (string, error) {
	if !qt.Valid() {
		return "", ErrInvalidQuestionType
	}

	existing, err := s.questionRepo.ListAll(ctx, checklistID)
	if err != nil {
		return "", err
	}

	question := &model.Question{
		ChecklistID: checklistID,
		Text:        text,
		Type:        qt,
		NeedsPhoto:  needsPhoto,
		Order:       len(existing) + 1,
	}
	return s.questionRepo.Create(ctx, question)
}

// EditQuestion updates text, type or photo requirement of a question
func (s *ChecklistService) EditQuestion(ctx context.Context, questionID, text string, qt model.QuestionType, needsPhoto bool) error {
	if !qt.Valid() {
		return ErrInvalidQuestionType
	}

	question, err := s.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		return err
	}
	if question == nil || question.IsDeleted {
		return ErrQuestionNotFound
	}

	question.Text = text
	question.Type = qt
	question.NeedsPhoto = needsPhoto
	return s.questionRepo.Update(ctx, question)
}

// RemoveQuestion soft-deletes a question. Historical answers keep
// referencing it; only presentation and max-score exclude it.
func (s *ChecklistService) RemoveQuestion(ctx context.Context, questionID string) error {
	question, err := s.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		return err
	}
	if question == nil {
		return ErrQuestionNotFound
	}
	return s.questionRepo.SoftDelete(ctx, questionID)
}

// Questions lists a checklist's questions, active only by default
func (s *ChecklistService) Questions(ctx context.Context, checklistID string, includeDeleted bool) ([]model.Question, error) {
	if includeDeleted {
		return s.questionRepo.ListAll(ctx, checklistID)
	}
	return s.questionRepo.ListActive(ctx, checklistID)
}

// UsedToday lists checklists that received at least one report today
func (s *ChecklistService) UsedToday(ctx context.Context) ([]*model.Checklist, error) {
	ids, err := s.reportRepo.ChecklistIDsSince(ctx, startOfDay(time.Now()))
	if err != nil {
		return nil, err
	}
	return s.checklistRepo.GetByIDs(ctx, ids)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
