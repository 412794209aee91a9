package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"shopcheck/internal/cache"
	"shopcheck/internal/model"
	"shopcheck/internal/repository"
)

var (
	ErrSessionNotFound   = errors.New("no checklist session in progress")
	ErrChecklistNotFound = errors.New("checklist not found")
)

// PhotoPlaceholder is stored as the answer text when a photo arrives
// with neither a pending answer nor a caption.
const PhotoPlaceholder = "photo report"

// SessionService drives one worker through one checklist instance: it
// snapshots the active questions at start, validates each inbound event
// against the current question's type, persists answers one by one and
// hands the finished report to the scoring service.
type SessionService struct {
	checklistRepo repository.ChecklistRepo
	questionRepo  repository.QuestionRepo
	reportRepo    repository.ReportRepo
	answerRepo    repository.AnswerRepo
	sessions      cache.SessionCache
	scoring       *ScoringService
	broadcaster   Broadcaster
}

// NewSessionService creates a new session service
func NewSessionService(
	checklistRepo repository.ChecklistRepo,
	questionRepo repository.QuestionRepo,
	reportRepo repository.ReportRepo,
	answerRepo repository.AnswerRepo,
	sessions cache.SessionCache,
	scoring *ScoringService,
) *SessionService {
	return &SessionService{
		checklistRepo: checklistRepo,
		questionRepo:  questionRepo,
		reportRepo:    reportRepo,
		answerRepo:    answerRepo,
		sessions:      sessions,
		scoring:       scoring,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *SessionService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Start begins a checklist run for a worker: creates the report,
// snapshots the checklist's active questions and returns the first
// question step. A checklist with zero active questions completes on
// the spot with a score of 0 and no answers.
func (s *SessionService) Start(ctx context.Context, workerID, checklistID string) (*model.Step, error) {
	checklist, err := s.checklistRepo.GetByID(ctx, checklistID)
	if err != nil {
		return nil, err
	}
	if checklist == nil {
		return nil, ErrChecklistNotFound
	}

	report := &model.Report{
		UserID:       workerID,
		ChecklistID:  checklistID,
		ScorePercent: 0,
	}
	reportID, err := s.reportRepo.Create(ctx, report)
	if err != nil {
		return nil, err
	}

	questions, err := s.questionRepo.ListActive(ctx, checklistID)
	if err != nil {
		return nil, err
	}

	session := &model.Session{
		WorkerID:     workerID,
		ChecklistID:  checklistID,
		ReportID:     reportID,
		Questions:    questions,
		CurrentIndex: 0,
		State:        model.SessionAwaitingAnswer,
		StartedAt:    time.Now(),
	}

	if len(questions) == 0 {
		return s.complete(ctx, session)
	}

	if err := s.sessions.Set(ctx, session); err != nil {
		return nil, err
	}
	return questionStep(session), nil
}

// Handle routes one inbound event into the worker's in-progress run and
// returns the next step to show. Validation failures never advance the
// state and never write an answer; they just re-prompt.
func (s *SessionService) Handle(ctx context.Context, workerID string, in model.Input) (*model.Step, error) {
	session, err := s.sessions.Get(ctx, workerID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if in.Kind == model.InputCancel {
		// Already-persisted answers stay; the report keeps its zero score.
		if err := s.sessions.Delete(ctx, workerID); err != nil {
			return nil, err
		}
		return &model.Step{Prompt: "Checklist cancelled.", Terminal: true}, nil
	}

	question := session.Current()
	if question == nil {
		// A session should never survive past its last question.
		s.discard(ctx, workerID)
		return nil, ErrSessionNotFound
	}

	if session.State == model.SessionAwaitingPhoto {
		return s.handleAwaitingPhoto(ctx, session, question, in)
	}
	return s.handleAwaitingAnswer(ctx, session, question, in)
}

func (s *SessionService) handleAwaitingAnswer(ctx context.Context, session *model.Session, question *model.Question, in model.Input) (*model.Step, error) {
	if in.Kind == model.InputPhoto {
		// A text question that wants photo proof takes the caption as
		// the answer in one message. Everything else must answer first.
		if question.Type == model.QuestionTypeText && question.NeedsPhoto {
			text := in.Caption
			if text == "" {
				text = PhotoPlaceholder
			}
			return s.persistAndAdvance(ctx, session, question, text, in.PhotoRef)
		}
		return questionStepWith(session, "Answer the question first, then send the photo."), nil
	}

	value, ok := validateAnswer(question.Type, in)
	if !ok {
		return questionStepWith(session, validationPrompt(question.Type)), nil
	}

	if question.NeedsPhoto {
		session.PendingAnswer = value
		session.State = model.SessionAwaitingPhoto
		if err := s.sessions.Set(ctx, session); err != nil {
			return nil, err
		}
		return &model.Step{
			Prompt: fmt.Sprintf("Answer %q accepted. Now send the photo.", value),
			Number: session.CurrentIndex + 1,
			Total:  len(session.Questions),
		}, nil
	}

	return s.persistAndAdvance(ctx, session, question, value, "")
}

func (s *SessionService) handleAwaitingPhoto(ctx context.Context, session *model.Session, question *model.Question, in model.Input) (*model.Step, error) {
	if in.Kind != model.InputPhoto {
		return &model.Step{
			Prompt: "A photo is required for this question. Please send one.",
			Number: session.CurrentIndex + 1,
			Total:  len(session.Questions),
		}, nil
	}

	text := session.PendingAnswer
	if text == "" {
		text = in.Caption
	}
	if text == "" {
		text = PhotoPlaceholder
	}
	return s.persistAndAdvance(ctx, session, question, text, in.PhotoRef)
}

// persistAndAdvance is the single write per presented question: one
// append-only answer with points computed here, then the advance rule.
func (s *SessionService) persistAndAdvance(ctx context.Context, session *model.Session, question *model.Question, text, photoRef string) (*model.Step, error) {
	answer := &model.Answer{
		ReportID:   session.ReportID,
		QuestionID: question.ID,
		Text:       text,
		PhotoRef:   photoRef,
		Points:     computePoints(question.Type, text),
	}
	if _, err := s.answerRepo.Create(ctx, answer); err != nil {
		return nil, err
	}

	session.PendingAnswer = ""
	session.State = model.SessionAwaitingAnswer
	session.CurrentIndex++

	if session.CurrentIndex >= len(session.Questions) {
		return s.complete(ctx, session)
	}

	if err := s.sessions.Set(ctx, session); err != nil {
		return nil, err
	}
	return questionStep(session), nil
}

func (s *SessionService) complete(ctx context.Context, session *model.Session) (*model.Step, error) {
	s.discard(ctx, session.WorkerID)

	percent, err := s.scoring.Finalize(ctx, session.ReportID)
	if err != nil {
		return nil, err
	}

	if s.broadcaster != nil {
		checklist, err := s.checklistRepo.GetByID(ctx, session.ChecklistID)
		shopID := ""
		if err == nil && checklist != nil {
			shopID = checklist.ShopID
		}
		s.broadcaster.BroadcastToAdmins(shopID, "report_completed", map[string]interface{}{
			"reportId":     session.ReportID,
			"checklistId":  session.ChecklistID,
			"workerId":     session.WorkerID,
			"scorePercent": percent,
		})
	}

	return &model.Step{
		Prompt:       fmt.Sprintf("Checklist complete! Your score: %d%%", percent),
		Terminal:     true,
		ScorePercent: percent,
	}, nil
}

func (s *SessionService) discard(ctx context.Context, workerID string) {
	if err := s.sessions.Delete(ctx, workerID); err != nil {
		log.Printf("failed to drop session for worker %s: %v", workerID, err)
	}
}

// validateAnswer checks an inbound event against the question type and
// returns the normalized answer value.
func validateAnswer(qt model.QuestionType, in model.Input) (string, bool) {
	switch qt {
	case model.QuestionTypeBinary:
		if in.Kind != model.InputChoice {
			return "", false
		}
		v := strings.ToLower(strings.TrimSpace(in.Value))
		if v == model.AnswerYes || v == model.AnswerNo {
			return v, true
		}
		return "", false
	case model.QuestionTypeScale:
		if in.Kind != model.InputChoice {
			return "", false
		}
		n, err := strconv.Atoi(strings.TrimSpace(in.Value))
		if err != nil || n < 1 || n > 10 {
			return "", false
		}
		return strconv.Itoa(n), true
	case model.QuestionTypeText:
		if in.Kind != model.InputText || strings.TrimSpace(in.Value) == "" {
			return "", false
		}
		return in.Value, true
	}
	return "", false
}

func validationPrompt(qt model.QuestionType) string {
	switch qt {
	case model.QuestionTypeBinary:
		return "Please answer with the yes/no buttons."
	case model.QuestionTypeScale:
		return "Please pick a number from 1 to 10."
	default:
		return "Please type your answer as a message."
	}
}

// computePoints awards points at persistence time: an affirmative
// binary answer is worth 1, a scale answer is worth its value, text
// never scores.
func computePoints(qt model.QuestionType, value string) int {
	switch qt {
	case model.QuestionTypeBinary:
		if strings.EqualFold(value, model.AnswerYes) {
			return 1
		}
		return 0
	case model.QuestionTypeScale:
		n, err := strconv.Atoi(value)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

func questionStep(session *model.Session) *model.Step {
	return questionStepWith(session, "")
}

func questionStepWith(session *model.Session, notice string) *model.Step {
	question := session.Current()
	prompt := fmt.Sprintf("Question %d of %d\n\n%s", session.CurrentIndex+1, len(session.Questions), question.Text)
	if question.NeedsPhoto {
		prompt += "\n\nPhoto proof required."
	}
	if notice != "" {
		prompt = notice + "\n\n" + prompt
	}
	return &model.Step{
		Prompt:   prompt,
		Question: question,
		Number:   session.CurrentIndex + 1,
		Total:    len(session.Questions),
	}
}
