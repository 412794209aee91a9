package service

import (
	"context"
	"time"

	"shopcheck/internal/model"
	"shopcheck/internal/repository"
)

const recentLimit = 10

// ReportService handles report history and detail reads for admins
type ReportService struct {
	reportRepo    repository.ReportRepo
	answerRepo    repository.AnswerRepo
	questionRepo  repository.QuestionRepo
	checklistRepo repository.ChecklistRepo
	userRepo      repository.UserRepo
}

// NewReportService creates a new report service
func NewReportService(
	reportRepo repository.ReportRepo,
	answerRepo repository.AnswerRepo,
	questionRepo repository.QuestionRepo,
	checklistRepo repository.ChecklistRepo,
	userRepo repository.UserRepo,
) *ReportService {
	return &ReportService{
		reportRepo:    reportRepo,
		answerRepo:    answerRepo,
		questionRepo:  questionRepo,
		checklistRepo: checklistRepo,
		userRepo:      userRepo,
	}
}

// RecentByChecklist lists the latest reports for a template with the
// workers who filed them.
func (s *ReportService) RecentByChecklist(ctx context.Context, checklistID string) ([]model.ReportWithUser, error) {
	reports, err := s.reportRepo.ListByChecklist(ctx, checklistID, recentLimit)
	if err != nil {
		return nil, err
	}

	out := make([]model.ReportWithUser, 0, len(reports))
	for _, report := range reports {
		user, err := s.userRepo.GetByID(ctx, report.UserID)
		if err != nil {
			return nil, err
		}
		out = append(out, model.ReportWithUser{Report: report, User: user})
	}
	return out, nil
}

// RecentByWorker lists a worker's latest reports with their templates
func (s *ReportService) RecentByWorker(ctx context.Context, userID string) ([]model.ReportWithChecklist, error) {
	reports, err := s.reportRepo.ListByUser(ctx, userID, recentLimit)
	if err != nil {
		return nil, err
	}

	out := make([]model.ReportWithChecklist, 0, len(reports))
	for _, report := range reports {
		checklist, err := s.checklistRepo.GetByID(ctx, report.ChecklistID)
		if err != nil {
			return nil, err
		}
		out = append(out, model.ReportWithChecklist{Report: report, Checklist: checklist})
	}
	return out, nil
}

// Details assembles the full admin view of one report. Answers to
// soft-deleted questions are included; history is never filtered.
func (s *ReportService) Details(ctx context.Context, reportID string) (*model.ReportDetail, error) {
	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, ErrReportNotFound
	}

	user, err := s.userRepo.GetByID(ctx, report.UserID)
	if err != nil {
		return nil, err
	}
	checklist, err := s.checklistRepo.GetByID(ctx, report.ChecklistID)
	if err != nil {
		return nil, err
	}

	answers, err := s.answerRepo.ListByReport(ctx, reportID)
	if err != nil {
		return nil, err
	}

	details := make([]model.AnsweredDetail, 0, len(answers))
	for _, answer := range answers {
		question, err := s.questionRepo.GetByID(ctx, answer.QuestionID)
		if err != nil {
			return nil, err
		}
		text := ""
		if question != nil {
			text = question.Text
		}
		details = append(details, model.AnsweredDetail{Answer: *answer, Question: text})
	}

	return &model.ReportDetail{
		Report:    report,
		User:      user,
		Checklist: checklist,
		Answers:   details,
	}, nil
}

// CompletedTodayIDs lists the checklist ids a worker already finished today
func (s *ReportService) CompletedTodayIDs(ctx context.Context, userID string) ([]string, error) {
	return s.reportRepo.CompletedChecklistIDs(ctx, userID, startOfDay(time.Now()))
}
