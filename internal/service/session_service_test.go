package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"shopcheck/internal/model"
)

type sessionEnv struct {
	checklists *memChecklistRepo
	questions  *memQuestionRepo
	reports    *memReportRepo
	answers    *memAnswerRepo
	sessions   *memSessionCache
	broadcast  *recordingBroadcaster
	svc        *SessionService
}

func newSessionEnv() *sessionEnv {
	env := &sessionEnv{
		checklists: newMemChecklistRepo(),
		questions:  newMemQuestionRepo(),
		reports:    newMemReportRepo(),
		answers:    newMemAnswerRepo(),
		sessions:   newMemSessionCache(),
		broadcast:  &recordingBroadcaster{},
	}
	scoring := NewScoringService(env.reports, env.questions, env.answers)
	env.svc = NewSessionService(env.checklists, env.questions, env.reports, env.answers, env.sessions, scoring)
	env.svc.SetBroadcaster(env.broadcast)
	return env
}

func (env *sessionEnv) addChecklist(t *testing.T, shopID string, questions ...*model.Question) string {
	t.Helper()
	ctx := context.Background()
	id, err := env.checklists.Create(ctx, &model.Checklist{Title: "Opening routine", ShopID: shopID})
	if err != nil {
		t.Fatalf("create checklist: %v", err)
	}
	for i, q := range questions {
		q.ChecklistID = id
		q.Order = i + 1
		if _, err := env.questions.Create(ctx, q); err != nil {
			t.Fatalf("create question: %v", err)
		}
	}
	return id
}

func choice(v string) model.Input { return model.Input{Kind: model.InputChoice, Value: v} }
func text(v string) model.Input   { return model.Input{Kind: model.InputText, Value: v} }
func photo(ref, caption string) model.Input {
	return model.Input{Kind: model.InputPhoto, PhotoRef: ref, Caption: caption}
}

func TestSessionFullRun(t *testing.T) {
	env := newSessionEnv()
	ctx := context.Background()
	clID := env.addChecklist(t, "Central",
		&model.Question{Text: "Entrance clean?", Type: model.QuestionTypeBinary},
		&model.Question{Text: "Rate the shelves", Type: model.QuestionTypeScale},
	)

	step, err := env.svc.Start(ctx, "w1", clID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if step.Terminal {
		t.Fatal("first step should not be terminal")
	}
	if step.Number != 1 || step.Total != 2 {
		t.Fatalf("got step %d/%d, want 1/2", step.Number, step.Total)
	}
	if !strings.Contains(step.Prompt, "Entrance clean?") {
		t.Fatalf("prompt missing question text: %q", step.Prompt)
	}

	step, err = env.svc.Handle(ctx, "w1", choice("yes"))
	if err != nil {
		t.Fatalf("Handle binary: %v", err)
	}
	if step.Number != 2 {
		t.Fatalf("got step number %d, want 2", step.Number)
	}

	step, err = env.svc.Handle(ctx, "w1", choice("7"))
	if err != nil {
		t.Fatalf("Handle scale: %v", err)
	}
	if !step.Terminal {
		t.Fatal("final step should be terminal")
	}
	// 1 + 7 points out of 1 + 10; integer division truncates.
	if step.ScorePercent != 72 {
		t.Fatalf("got score %d, want 72", step.ScorePercent)
	}

	reports, _ := env.reports.ListAll(ctx)
	if len(reports) != 1 || reports[0].ScorePercent != 72 {
		t.Fatalf("persisted score = %+v, want one report at 72", reports)
	}
	if got, _ := env.sessions.Get(ctx, "w1"); got != nil {
		t.Fatal("session should be discarded after completion")
	}
	if len(env.broadcast.events) != 1 {
		t.Fatalf("got %d broadcast events, want 1", len(env.broadcast.events))
	}
	ev := env.broadcast.events[0]
	if ev.msgType != "report_completed" || ev.shopID != "Central" {
		t.Fatalf("got event %q for shop %q", ev.msgType, ev.shopID)
	}
}

func TestSessionEmptyChecklist(t *testing.T) {
	env := newSessionEnv()
	ctx := context.Background()
	clID := env.addChecklist(t, "")

	step, err := env.svc.Start(ctx, "w1", clID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !step.Terminal || step.ScorePercent != 0 {
		t.Fatalf("got %+v, want immediate terminal step with score 0", step)
	}

	reports, _ := env.reports.ListAll(ctx)
	if len(reports) != 1 || reports[0].ScorePercent != 0 {
		t.Fatalf("want one zero-score report, got %+v", reports)
	}
	if len(env.answers.items) != 0 {
		t.Fatalf("want no answers, got %d", len(env.answers.items))
	}
	if got, _ := env.sessions.Get(ctx, "w1"); got != nil {
		t.Fatal("no session should remain")
	}
}

func TestSessionStartUnknownChecklist(t *testing.T) {
	env := newSessionEnv()
	if _, err := env.svc.Start(context.Background(), "w1", "missing"); !errors.Is(err, ErrChecklistNotFound) {
		t.Fatalf("got %v, want ErrChecklistNotFound", err)
	}
}

func TestSessionNoSession(t *testing.T) {
	env := newSessionEnv()
	if _, err := env.svc.Handle(context.Background(), "w1", choice("yes")); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("got %v, want ErrSessionNotFound", err)
	}
}

func TestSessionPhotoGate(t *testing.T) {
	env := newSessionEnv()
	ctx := context.Background()
	clID := env.addChecklist(t, "Central",
		&model.Question{Text: "Shelves stocked?", Type: model.QuestionTypeBinary, NeedsPhoto: true},
	)

	if _, err := env.svc.Start(ctx, "w1", clID); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// Photo before the answer is rejected without persisting anything.
	step, err := env.svc.Handle(ctx, "w1", photo("f1", ""))
	if err != nil {
		t.Fatalf("Handle premature photo: %v", err)
	}
	if !strings.Contains(step.Prompt, "Answer the question first") {
		t.Fatalf("got prompt %q, want answer-first notice", step.Prompt)
	}
	if len(env.answers.items) != 0 {
		t.Fatal("premature photo must not persist an answer")
	}

	step, err = env.svc.Handle(ctx, "w1", choice("yes"))
	if err != nil {
		t.Fatalf("Handle answer: %v", err)
	}
	if !strings.Contains(step.Prompt, "Now send the photo") {
		t.Fatalf("got prompt %q, want photo request", step.Prompt)
	}
	if len(env.answers.items) != 0 {
		t.Fatal("answer must not persist until the photo arrives")
	}

	// Non-photo input while waiting for the photo re-prompts.
	step, err = env.svc.Handle(ctx, "w1", text("here you go"))
	if err != nil {
		t.Fatalf("Handle text during photo wait: %v", err)
	}
	if !strings.Contains(step.Prompt, "photo is required") {
		t.Fatalf("got prompt %q, want photo-required notice", step.Prompt)
	}

	step, err = env.svc.Handle(ctx, "w1", photo("f2", ""))
	if err != nil {
		t.Fatalf("Handle photo: %v", err)
	}
	if !step.Terminal {
		t.Fatal("single-question run should finish after the photo")
	}
	if len(env.answers.items) != 1 {
		t.Fatalf("got %d answers, want 1", len(env.answers.items))
	}
	a := env.answers.items[0]
	if a.Text != "yes" || a.PhotoRef != "f2" || a.Points != 1 {
		t.Fatalf("got answer %+v, want yes/f2/1pt", a)
	}
}

func TestSessionTextQuestionWithPhotoCaption(t *testing.T) {
	env := newSessionEnv()
	ctx := context.Background()
	clID := env.addChecklist(t, "",
		&model.Question{Text: "Describe the storefront", Type: model.QuestionTypeText, NeedsPhoto: true},
	)

	if _, err := env.svc.Start(ctx, "w1", clID); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// A captioned photo answers a text question in one message.
	step, err := env.svc.Handle(ctx, "w1", photo("f1", "all good"))
	if err != nil {
		t.Fatalf("Handle captioned photo: %v", err)
	}
	if !step.Terminal {
		t.Fatal("run should finish")
	}
	a := env.answers.items[0]
	if a.Text != "all good" || a.PhotoRef != "f1" || a.Points != 0 {
		t.Fatalf("got answer %+v, want caption text with zero points", a)
	}
}

func TestSessionPhotoPlaceholder(t *testing.T) {
	env := newSessionEnv()
	ctx := context.Background()
	clID := env.addChecklist(t, "",
		&model.Question{Text: "Describe the storefront", Type: model.QuestionTypeText, NeedsPhoto: true},
	)

	if _, err := env.svc.Start(ctx, "w1", clID); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := env.svc.Handle(ctx, "w1", photo("f1", "")); err != nil {
		t.Fatalf("Handle captionless photo: %v", err)
	}

	if got := env.answers.items[0].Text; got != PhotoPlaceholder {
		t.Fatalf("got answer text %q, want placeholder %q", got, PhotoPlaceholder)
	}
}

func TestSessionValidationRePrompts(t *testing.T) {
	env := newSessionEnv()
	ctx := context.Background()
	clID := env.addChecklist(t, "",
		&model.Question{Text: "Rate the shelves", Type: model.QuestionTypeScale},
	)

	if _, err := env.svc.Start(ctx, "w1", clID); err != nil {
		t.Fatalf("Start: %v", err)
	}

	for _, in := range []model.Input{choice("0"), choice("11"), choice("abc"), text("5")} {
		step, err := env.svc.Handle(ctx, "w1", in)
		if err != nil {
			t.Fatalf("Handle %+v: %v", in, err)
		}
		if step.Terminal {
			t.Fatalf("invalid input %+v must not finish the run", in)
		}
		if !strings.Contains(step.Prompt, "from 1 to 10") {
			t.Fatalf("got prompt %q, want scale hint", step.Prompt)
		}
	}
	if len(env.answers.items) != 0 {
		t.Fatalf("invalid inputs persisted %d answers", len(env.answers.items))
	}

	step, err := env.svc.Handle(ctx, "w1", choice(" 10 "))
	if err != nil {
		t.Fatalf("Handle valid: %v", err)
	}
	if !step.Terminal || step.ScorePercent != 100 {
		t.Fatalf("got %+v, want terminal at 100", step)
	}
}

func TestSessionBinaryNo(t *testing.T) {
	env := newSessionEnv()
	ctx := context.Background()
	clID := env.addChecklist(t, "",
		&model.Question{Text: "Entrance clean?", Type: model.QuestionTypeBinary},
	)

	if _, err := env.svc.Start(ctx, "w1", clID); err != nil {
		t.Fatalf("Start: %v", err)
	}
	step, err := env.svc.Handle(ctx, "w1", choice("No"))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !step.Terminal || step.ScorePercent != 0 {
		t.Fatalf("got %+v, want terminal at 0", step)
	}
	if env.answers.items[0].Points != 0 {
		t.Fatalf("no answer worth %d points, want 0", env.answers.items[0].Points)
	}
}

func TestSessionCancelKeepsAnswers(t *testing.T) {
	env := newSessionEnv()
	ctx := context.Background()
	clID := env.addChecklist(t, "",
		&model.Question{Text: "Entrance clean?", Type: model.QuestionTypeBinary},
		&model.Question{Text: "Rate the shelves", Type: model.QuestionTypeScale},
	)

	if _, err := env.svc.Start(ctx, "w1", clID); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := env.svc.Handle(ctx, "w1", choice("yes")); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	step, err := env.svc.Handle(ctx, "w1", model.Input{Kind: model.InputCancel})
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if !step.Terminal {
		t.Fatal("cancel step should be terminal")
	}

	// The persisted answer stays, the report keeps its zero score and
	// the session is gone.
	if len(env.answers.items) != 1 {
		t.Fatalf("got %d answers after cancel, want 1", len(env.answers.items))
	}
	reports, _ := env.reports.ListAll(ctx)
	if reports[0].ScorePercent != 0 {
		t.Fatalf("cancelled report scored %d, want 0", reports[0].ScorePercent)
	}
	if _, err := env.svc.Handle(ctx, "w1", choice("5")); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("got %v after cancel, want ErrSessionNotFound", err)
	}
}

func TestSessionSnapshotIgnoresLaterEdits(t *testing.T) {
	env := newSessionEnv()
	ctx := context.Background()
	clID := env.addChecklist(t, "",
		&model.Question{Text: "Entrance clean?", Type: model.QuestionTypeBinary},
		&model.Question{Text: "Rate the shelves", Type: model.QuestionTypeScale},
	)

	if _, err := env.svc.Start(ctx, "w1", clID); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// Soft-delete the second question mid-run; the snapshot still asks it.
	if err := env.questions.SoftDelete(ctx, "q2"); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	step, err := env.svc.Handle(ctx, "w1", choice("yes"))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if step.Terminal {
		t.Fatal("snapshotted run must still present the second question")
	}
	if !strings.Contains(step.Prompt, "Rate the shelves") {
		t.Fatalf("got prompt %q, want the snapshotted question", step.Prompt)
	}
}
