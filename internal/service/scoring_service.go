package service

import (
	"context"
	"errors"

	"shopcheck/internal/repository"
)

var ErrReportNotFound = errors.New("report not found")

// ScoringService turns a finished report into an integer percentage.
// Max attainable points are recomputed against the checklist's current
// active questions, not a snapshot: a question soft-deleted between
// session start and scoring no longer contributes to the maximum, even
// though its answer still counts toward the sum.
type ScoringService struct {
	reportRepo   repository.ReportRepo
	questionRepo repository.QuestionRepo
	answerRepo   repository.AnswerRepo
}

// NewScoringService creates a new scoring service
func NewScoringService(
	reportRepo repository.ReportRepo,
	questionRepo repository.QuestionRepo,
	answerRepo repository.AnswerRepo,
) *ScoringService {
	return &ScoringService{
		reportRepo:   reportRepo,
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
	}
}

// Finalize sums the report's answer points, derives the maximum from
// the checklist's active questions (binary 1, scale 10, text 0) and
// writes the truncated percentage onto the report. A checklist with no
// scoreable questions yields 0 rather than dividing by zero.
func (s *ScoringService) Finalize(ctx context.Context, reportID string) (int, error) {
	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return 0, err
	}
	if report == nil {
		return 0, ErrReportNotFound
	}

	sum, err := s.answerRepo.SumPoints(ctx, reportID)
	if err != nil {
		return 0, err
	}

	questions, err := s.questionRepo.ListActive(ctx, report.ChecklistID)
	if err != nil {
		return 0, err
	}

	maxPoints := 0
	for i := range questions {
		maxPoints += questions[i].MaxPoints()
	}

	percent := 0
	if maxPoints > 0 {
		// Integer division on purpose: truncate, never round.
		percent = sum * 100 / maxPoints
	}

	if err := s.reportRepo.SetScore(ctx, reportID, percent); err != nil {
		return 0, err
	}
	return percent, nil
}
