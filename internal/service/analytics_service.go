package service

import (
	"context"
	"log"
	"time"

	"shopcheck/internal/cache"
	"shopcheck/internal/model"
	"shopcheck/internal/repository"
)

// AnalyticsService aggregates activity stats for the admin dashboards
type AnalyticsService struct {
	userRepo      repository.UserRepo
	checklistRepo repository.ChecklistRepo
	questionRepo  repository.QuestionRepo
	reportRepo    repository.ReportRepo
	statsCache    cache.StatsCache
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(
	userRepo repository.UserRepo,
	checklistRepo repository.ChecklistRepo,
	questionRepo repository.QuestionRepo,
	reportRepo repository.ReportRepo,
	statsCache cache.StatsCache,
) *AnalyticsService {
	return &AnalyticsService{
		userRepo:      userRepo,
		checklistRepo: checklistRepo,
		questionRepo:  questionRepo,
		reportRepo:    reportRepo,
		statsCache:    statsCache,
	}
}

// ShopMonthly returns month-to-date average scores and report counts
// per shop, cached briefly between dashboard opens.
func (s *AnalyticsService) ShopMonthly(ctx context.Context) ([]model.ShopMonthlyStat, error) {
	now := time.Now()
	month := now.Format("2006-01")

	if s.statsCache != nil {
		cached, err := s.statsCache.GetShopMonthly(ctx, month)
		if err != nil {
			log.Printf("stats cache read failed: %v", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	stats, err := s.reportRepo.ShopMonthlyStats(ctx, start)
	if err != nil {
		return nil, err
	}

	if s.statsCache != nil {
		if err := s.statsCache.SetShopMonthly(ctx, month, stats); err != nil {
			log.Printf("stats cache write failed: %v", err)
		}
	}
	return stats, nil
}

// AdminActivity summarizes one admin's shops: templates, headcount,
// last report and week volume.
func (s *AnalyticsService) AdminActivity(ctx context.Context, adminChatID int64) (*model.AdminActivity, error) {
	admin, err := s.userRepo.GetByChatID(ctx, adminChatID)
	if err != nil {
		return nil, err
	}
	if admin == nil || admin.Role != model.RoleAdmin {
		return nil, ErrUserNotFound
	}

	shops, err := s.userRepo.ListAdminShops(ctx, adminChatID)
	if err != nil {
		return nil, err
	}

	activity := &model.AdminActivity{Admin: admin, Shops: shops}
	if len(shops) == 0 {
		return activity, nil
	}

	if activity.ChecklistCount, err = s.checklistRepo.CountByShops(ctx, shops); err != nil {
		return nil, err
	}

	for _, shop := range shops {
		employees, err := s.userRepo.ListByShop(ctx, shop)
		if err != nil {
			return nil, err
		}
		for _, e := range employees {
			if e.Role == model.RoleWorker {
				activity.WorkerCount++
			}
		}
	}

	if activity.LastActivity, err = s.reportRepo.LastCreatedByShops(ctx, shops); err != nil {
		return nil, err
	}

	weekAgo := time.Now().AddDate(0, 0, -7)
	if activity.ReportsLastWeek, err = s.reportRepo.CountByShopsSince(ctx, shops, weekAgo); err != nil {
		return nil, err
	}
	return activity, nil
}

// AllAdminsActivity summarizes every admin
func (s *AnalyticsService) AllAdminsActivity(ctx context.Context) ([]*model.AdminActivity, error) {
	admins, err := s.userRepo.ListByRole(ctx, model.RoleAdmin)
	if err != nil {
		return nil, err
	}

	out := make([]*model.AdminActivity, 0, len(admins))
	for _, admin := range admins {
		activity, err := s.AdminActivity(ctx, admin.ChatID)
		if err != nil {
			return nil, err
		}
		out = append(out, activity)
	}
	return out, nil
}

// WorkerActivity summarizes one worker's report history. The average
// ignores zero scores: those are abandoned or unscoreable runs.
func (s *AnalyticsService) WorkerActivity(ctx context.Context, userID string) (*model.WorkerActivity, error) {
	worker, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if worker == nil || worker.Role != model.RoleWorker {
		return nil, ErrUserNotFound
	}

	reports, err := s.reportRepo.ListByUser(ctx, userID, 0)
	if err != nil {
		return nil, err
	}

	activity := &model.WorkerActivity{Worker: worker, TotalReports: len(reports)}
	if len(reports) == 0 {
		return activity, nil
	}

	activity.LastActivity = &reports[0].CreatedAt

	sum, scored := 0, 0
	weekAgo := time.Now().AddDate(0, 0, -7)
	for _, report := range reports {
		if report.ScorePercent > 0 {
			sum += report.ScorePercent
			scored++
		}
		if report.CreatedAt.After(weekAgo) {
			activity.ReportsLastWeek++
		}
	}
	if scored > 0 {
		activity.AvgScore = sum / scored
	}
	return activity, nil
}

// AllWorkersActivity summarizes every worker
func (s *AnalyticsService) AllWorkersActivity(ctx context.Context) ([]*model.WorkerActivity, error) {
	workers, err := s.userRepo.ListByRole(ctx, model.RoleWorker)
	if err != nil {
		return nil, err
	}

	out := make([]*model.WorkerActivity, 0, len(workers))
	for _, worker := range workers {
		activity, err := s.WorkerActivity(ctx, worker.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, activity)
	}
	return out, nil
}

// ChecklistUsage summarizes how a template is being used
func (s *AnalyticsService) ChecklistUsage(ctx context.Context, checklistID string) (*model.ChecklistUsage, error) {
	checklist, err := s.checklistRepo.GetByID(ctx, checklistID)
	if err != nil {
		return nil, err
	}
	if checklist == nil {
		return nil, ErrChecklistNotFound
	}

	usage := &model.ChecklistUsage{Checklist: checklist}

	if usage.QuestionCount, err = s.questionRepo.CountActive(ctx, checklistID); err != nil {
		return nil, err
	}
	if usage.ReportCount, err = s.reportRepo.CountByChecklist(ctx, checklistID); err != nil {
		return nil, err
	}
	if usage.AvgScore, err = s.reportRepo.AvgNonZeroScore(ctx, checklistID); err != nil {
		return nil, err
	}
	if usage.LastUse, err = s.reportRepo.LastCreatedByChecklist(ctx, checklistID); err != nil {
		return nil, err
	}
	return usage, nil
}
