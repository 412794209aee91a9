package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"shopcheck/internal/model"
	"shopcheck/internal/repository"
)

// ExportService flattens report history into an XLSX workbook for the
// superadmin's offline review.
type ExportService struct {
	reportRepo    repository.ReportRepo
	answerRepo    repository.AnswerRepo
	questionRepo  repository.QuestionRepo
	checklistRepo repository.ChecklistRepo
	userRepo      repository.UserRepo
}

// NewExportService creates a new export service
func NewExportService(
	reportRepo repository.ReportRepo,
	answerRepo repository.AnswerRepo,
	questionRepo repository.QuestionRepo,
	checklistRepo repository.ChecklistRepo,
	userRepo repository.UserRepo,
) *ExportService {
	return &ExportService{
		reportRepo:    reportRepo,
		answerRepo:    answerRepo,
		questionRepo:  questionRepo,
		checklistRepo: checklistRepo,
		userRepo:      userRepo,
	}
}

// BuildRows flattens every report, newest first, into export rows.
// Answers keep their soft-deleted questions: an exported report shows
// exactly what was asked and answered at the time.
func (s *ExportService) BuildRows(ctx context.Context) ([]model.ExportRow, error) {
	reports, err := s.reportRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]model.ExportRow, 0, len(reports))
	for _, report := range reports {
		user, err := s.userRepo.GetByID(ctx, report.UserID)
		if err != nil {
			return nil, err
		}
		checklist, err := s.checklistRepo.GetByID(ctx, report.ChecklistID)
		if err != nil {
			return nil, err
		}
		answers, err := s.answerRepo.ListByReport(ctx, report.ID)
		if err != nil {
			return nil, err
		}

		formatted := make([]string, 0, len(answers))
		for _, answer := range answers {
			question, err := s.questionRepo.GetByID(ctx, answer.QuestionID)
			if err != nil {
				return nil, err
			}
			questionText := "?"
			if question != nil {
				questionText = question.Text
			}
			value := answer.Text
			if value == "" {
				value = "-"
			}
			formatted = append(formatted, fmt.Sprintf("%s: %s (%dpts)", questionText, value, answer.Points))
		}

		row := model.ExportRow{
			Date:    report.CreatedAt.Format("2006-01-02 15:04"),
			Score:   report.ScorePercent,
			Answers: strings.Join(formatted, " || "),
		}
		if user != nil {
			row.Shop = user.ShopID
			row.Employee = user.FullName
		}
		if checklist != nil {
			row.Checklist = checklist.Title
		}
		rows = append(rows, row)
	}
	return rows, nil
}

var exportHeader = []string{"Date", "Shop", "Employee", "Checklist", "Score %", "Answers"}

// WriteXLSX renders rows into a single-sheet workbook
func (s *ExportService) WriteXLSX(rows []model.ExportRow) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Reports"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	for col, title := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, err
		}
	}

	for i, row := range rows {
		values := []interface{}{row.Date, row.Shop, row.Employee, row.Checklist, row.Score, row.Answers}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	return f.WriteToBuffer()
}

// Export builds the rows and renders the workbook in one call
func (s *ExportService) Export(ctx context.Context) (*bytes.Buffer, error) {
	rows, err := s.BuildRows(ctx)
	if err != nil {
		return nil, err
	}
	return s.WriteXLSX(rows)
}
