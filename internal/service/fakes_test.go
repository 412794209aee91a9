package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"shopcheck/internal/model"
)

// In-memory stand-ins for the mongo repositories and redis caches.
// They mirror the real query semantics closely enough for the service
// logic under test: newest-first report listings, soft-delete filtering
// and one-session-per-worker keying.

type memChecklistRepo struct {
	seq   int
	items map[string]*model.Checklist
}

func newMemChecklistRepo() *memChecklistRepo {
	return &memChecklistRepo{items: map[string]*model.Checklist{}}
}

func (r *memChecklistRepo) Create(ctx context.Context, checklist *model.Checklist) (string, error) {
	r.seq++
	checklist.ID = fmt.Sprintf("cl%d", r.seq)
	checklist.CreatedAt = time.Now()
	checklist.UpdatedAt = checklist.CreatedAt
	cp := *checklist
	r.items[checklist.ID] = &cp
	return checklist.ID, nil
}

func (r *memChecklistRepo) GetByID(ctx context.Context, id string) (*model.Checklist, error) {
	if ch, ok := r.items[id]; ok {
		cp := *ch
		return &cp, nil
	}
	return nil, nil
}

func (r *memChecklistRepo) GetByIDs(ctx context.Context, ids []string) ([]*model.Checklist, error) {
	var out []*model.Checklist
	for _, id := range ids {
		if ch, ok := r.items[id]; ok {
			cp := *ch
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memChecklistRepo) Update(ctx context.Context, checklist *model.Checklist) error {
	if _, ok := r.items[checklist.ID]; !ok {
		return fmt.Errorf("checklist %s not found", checklist.ID)
	}
	cp := *checklist
	cp.UpdatedAt = time.Now()
	r.items[checklist.ID] = &cp
	return nil
}

func (r *memChecklistRepo) Delete(ctx context.Context, id string) error {
	delete(r.items, id)
	return nil
}

func (r *memChecklistRepo) List(ctx context.Context) ([]*model.Checklist, error) {
	var out []*model.Checklist
	for _, ch := range r.items {
		cp := *ch
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memChecklistRepo) ListByShops(ctx context.Context, shops []string) ([]*model.Checklist, error) {
	set := map[string]bool{}
	for _, s := range shops {
		set[s] = true
	}
	var out []*model.Checklist
	for _, ch := range r.items {
		if set[ch.ShopID] {
			cp := *ch
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memChecklistRepo) ListForWorker(ctx context.Context, shopID, position string) ([]*model.Checklist, error) {
	var out []*model.Checklist
	for _, ch := range r.items {
		if ch.ShopID != "" && ch.ShopID != shopID {
			continue
		}
		if ch.TargetPosition != "" && ch.TargetPosition != position {
			continue
		}
		cp := *ch
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memChecklistRepo) CountByShops(ctx context.Context, shops []string) (int, error) {
	list, _ := r.ListByShops(ctx, shops)
	return len(list), nil
}

type memQuestionRepo struct {
	seq   int
	items []model.Question
}

func newMemQuestionRepo() *memQuestionRepo {
	return &memQuestionRepo{}
}

func (r *memQuestionRepo) Create(ctx context.Context, question *model.Question) (string, error) {
	r.seq++
	question.ID = fmt.Sprintf("q%d", r.seq)
	r.items = append(r.items, *question)
	return question.ID, nil
}

func (r *memQuestionRepo) GetByID(ctx context.Context, id string) (*model.Question, error) {
	for i := range r.items {
		if r.items[i].ID == id {
			cp := r.items[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memQuestionRepo) Update(ctx context.Context, question *model.Question) error {
	for i := range r.items {
		if r.items[i].ID == question.ID {
			r.items[i] = *question
			return nil
		}
	}
	return fmt.Errorf("question %s not found", question.ID)
}

func (r *memQuestionRepo) SoftDelete(ctx context.Context, id string) error {
	for i := range r.items {
		if r.items[i].ID == id {
			r.items[i].IsDeleted = true
			return nil
		}
	}
	return fmt.Errorf("question %s not found", id)
}

func (r *memQuestionRepo) ListActive(ctx context.Context, checklistID string) ([]model.Question, error) {
	var out []model.Question
	for _, q := range r.items {
		if q.ChecklistID == checklistID && !q.IsDeleted {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (r *memQuestionRepo) ListAll(ctx context.Context, checklistID string) ([]model.Question, error) {
	var out []model.Question
	for _, q := range r.items {
		if q.ChecklistID == checklistID {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (r *memQuestionRepo) CountActive(ctx context.Context, checklistID string) (int, error) {
	active, _ := r.ListActive(ctx, checklistID)
	return len(active), nil
}

func (r *memQuestionRepo) DeleteByChecklist(ctx context.Context, checklistID string) error {
	kept := r.items[:0]
	for _, q := range r.items {
		if q.ChecklistID != checklistID {
			kept = append(kept, q)
		}
	}
	r.items = kept
	return nil
}

type memReportRepo struct {
	seq   int
	items map[string]*model.Report
	// userShop maps user ids to shops for the shop-scoped aggregations
	// the real repo does with a mongo lookup.
	userShop map[string]string
}

func newMemReportRepo() *memReportRepo {
	return &memReportRepo{items: map[string]*model.Report{}, userShop: map[string]string{}}
}

func (r *memReportRepo) Create(ctx context.Context, report *model.Report) (string, error) {
	r.seq++
	report.ID = fmt.Sprintf("r%d", r.seq)
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now()
	}
	cp := *report
	r.items[report.ID] = &cp
	return report.ID, nil
}

func (r *memReportRepo) GetByID(ctx context.Context, id string) (*model.Report, error) {
	if rep, ok := r.items[id]; ok {
		cp := *rep
		return &cp, nil
	}
	return nil, nil
}

func (r *memReportRepo) SetScore(ctx context.Context, id string, percent int) error {
	rep, ok := r.items[id]
	if !ok {
		return fmt.Errorf("report %s not found", id)
	}
	rep.ScorePercent = percent
	return nil
}

func (r *memReportRepo) CountByChecklist(ctx context.Context, checklistID string) (int, error) {
	n := 0
	for _, rep := range r.items {
		if rep.ChecklistID == checklistID {
			n++
		}
	}
	return n, nil
}

func (r *memReportRepo) sorted() []*model.Report {
	var out []*model.Report
	for _, rep := range r.items {
		cp := *rep
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func clipReports(reports []*model.Report, limit int) []*model.Report {
	if limit > 0 && len(reports) > limit {
		return reports[:limit]
	}
	return reports
}

func (r *memReportRepo) ListByChecklist(ctx context.Context, checklistID string, limit int) ([]*model.Report, error) {
	var out []*model.Report
	for _, rep := range r.sorted() {
		if rep.ChecklistID == checklistID {
			out = append(out, rep)
		}
	}
	return clipReports(out, limit), nil
}

func (r *memReportRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*model.Report, error) {
	var out []*model.Report
	for _, rep := range r.sorted() {
		if rep.UserID == userID {
			out = append(out, rep)
		}
	}
	return clipReports(out, limit), nil
}

func (r *memReportRepo) ListAll(ctx context.Context) ([]*model.Report, error) {
	return r.sorted(), nil
}

func (r *memReportRepo) ChecklistIDsSince(ctx context.Context, since time.Time) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, rep := range r.sorted() {
		if rep.CreatedAt.Before(since) || seen[rep.ChecklistID] {
			continue
		}
		seen[rep.ChecklistID] = true
		out = append(out, rep.ChecklistID)
	}
	return out, nil
}

func (r *memReportRepo) CompletedChecklistIDs(ctx context.Context, userID string, since time.Time) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, rep := range r.sorted() {
		if rep.UserID != userID || rep.CreatedAt.Before(since) || seen[rep.ChecklistID] {
			continue
		}
		seen[rep.ChecklistID] = true
		out = append(out, rep.ChecklistID)
	}
	return out, nil
}

func (r *memReportRepo) ShopMonthlyStats(ctx context.Context, since time.Time) ([]model.ShopMonthlyStat, error) {
	sums := map[string]*model.ShopMonthlyStat{}
	for _, rep := range r.items {
		if rep.CreatedAt.Before(since) {
			continue
		}
		shop := r.userShop[rep.UserID]
		stat, ok := sums[shop]
		if !ok {
			stat = &model.ShopMonthlyStat{ShopID: shop}
			sums[shop] = stat
		}
		stat.AvgScore += float64(rep.ScorePercent)
		stat.ReportCount++
	}
	var out []model.ShopMonthlyStat
	for _, stat := range sums {
		stat.AvgScore /= float64(stat.ReportCount)
		out = append(out, *stat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ShopID < out[j].ShopID })
	return out, nil
}

func (r *memReportRepo) CountByShopsSince(ctx context.Context, shops []string, since time.Time) (int, error) {
	set := map[string]bool{}
	for _, s := range shops {
		set[s] = true
	}
	n := 0
	for _, rep := range r.items {
		if set[r.userShop[rep.UserID]] && !rep.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *memReportRepo) LastCreatedByShops(ctx context.Context, shops []string) (*time.Time, error) {
	set := map[string]bool{}
	for _, s := range shops {
		set[s] = true
	}
	var last *time.Time
	for _, rep := range r.items {
		if !set[r.userShop[rep.UserID]] {
			continue
		}
		if last == nil || rep.CreatedAt.After(*last) {
			t := rep.CreatedAt
			last = &t
		}
	}
	return last, nil
}

func (r *memReportRepo) AvgNonZeroScore(ctx context.Context, checklistID string) (int, error) {
	sum, n := 0, 0
	for _, rep := range r.items {
		if rep.ChecklistID == checklistID && rep.ScorePercent > 0 {
			sum += rep.ScorePercent
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return sum / n, nil
}

func (r *memReportRepo) LastCreatedByChecklist(ctx context.Context, checklistID string) (*time.Time, error) {
	var last *time.Time
	for _, rep := range r.items {
		if rep.ChecklistID != checklistID {
			continue
		}
		if last == nil || rep.CreatedAt.After(*last) {
			t := rep.CreatedAt
			last = &t
		}
	}
	return last, nil
}

type memAnswerRepo struct {
	seq   int
	items []model.Answer
}

func newMemAnswerRepo() *memAnswerRepo {
	return &memAnswerRepo{}
}

func (r *memAnswerRepo) Create(ctx context.Context, answer *model.Answer) (string, error) {
	r.seq++
	answer.ID = fmt.Sprintf("a%d", r.seq)
	if answer.AnsweredAt.IsZero() {
		// Strictly increasing so ListByReport keeps insertion order.
		answer.AnsweredAt = time.Now().Add(time.Duration(r.seq) * time.Millisecond)
	}
	r.items = append(r.items, *answer)
	return answer.ID, nil
}

func (r *memAnswerRepo) ListByReport(ctx context.Context, reportID string) ([]*model.Answer, error) {
	var out []*model.Answer
	for i := range r.items {
		if r.items[i].ReportID == reportID {
			cp := r.items[i]
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AnsweredAt.Before(out[j].AnsweredAt) })
	return out, nil
}

func (r *memAnswerRepo) SumPoints(ctx context.Context, reportID string) (int, error) {
	sum := 0
	for _, a := range r.items {
		if a.ReportID == reportID {
			sum += a.Points
		}
	}
	return sum, nil
}

type memUserRepo struct {
	seq        int
	items      map[string]*model.User
	adminShops []model.AdminShop
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{items: map[string]*model.User{}}
}

func (r *memUserRepo) Create(ctx context.Context, user *model.User) (string, error) {
	if existing, _ := r.GetByChatID(ctx, user.ChatID); existing != nil {
		return existing.ID, nil
	}
	r.seq++
	user.ID = fmt.Sprintf("u%d", r.seq)
	cp := *user
	r.items[user.ID] = &cp
	return user.ID, nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	if u, ok := r.items[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *memUserRepo) GetByChatID(ctx context.Context, chatID int64) (*model.User, error) {
	for _, u := range r.items {
		if u.ChatID == chatID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) Update(ctx context.Context, user *model.User) error {
	if _, ok := r.items[user.ID]; !ok {
		return fmt.Errorf("user %s not found", user.ID)
	}
	cp := *user
	r.items[user.ID] = &cp
	return nil
}

func (r *memUserRepo) Delete(ctx context.Context, id string) error {
	delete(r.items, id)
	return nil
}

func (r *memUserRepo) ListByRole(ctx context.Context, role model.Role) ([]*model.User, error) {
	var out []*model.User
	for _, u := range r.items {
		if u.Role == role {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memUserRepo) ListByShop(ctx context.Context, shopID string) ([]*model.User, error) {
	var out []*model.User
	for _, u := range r.items {
		if u.ShopID == shopID {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memUserRepo) DistinctPositions(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, u := range r.items {
		if u.Role == model.RoleWorker && u.Position != "" && !seen[u.Position] {
			seen[u.Position] = true
			out = append(out, u.Position)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *memUserRepo) DistinctWorkerShops(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, u := range r.items {
		if u.Role == model.RoleWorker && u.ShopID != "" && !seen[u.ShopID] {
			seen[u.ShopID] = true
			out = append(out, u.ShopID)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *memUserRepo) AttachShop(ctx context.Context, adminChatID int64, shopName string) error {
	for _, link := range r.adminShops {
		if link.AdminChatID == adminChatID && link.ShopName == shopName {
			return nil
		}
	}
	r.adminShops = append(r.adminShops, model.AdminShop{AdminChatID: adminChatID, ShopName: shopName})
	return nil
}

func (r *memUserRepo) ListAdminShops(ctx context.Context, adminChatID int64) ([]string, error) {
	var out []string
	for _, link := range r.adminShops {
		if link.AdminChatID == adminChatID {
			out = append(out, link.ShopName)
		}
	}
	return out, nil
}

func (r *memUserRepo) DetachAllShops(ctx context.Context, adminChatID int64) error {
	kept := r.adminShops[:0]
	for _, link := range r.adminShops {
		if link.AdminChatID != adminChatID {
			kept = append(kept, link)
		}
	}
	r.adminShops = kept
	return nil
}

type memSessionCache struct {
	items map[string]model.Session
}

func newMemSessionCache() *memSessionCache {
	return &memSessionCache{items: map[string]model.Session{}}
}

func (c *memSessionCache) Set(ctx context.Context, session *model.Session) error {
	cp := *session
	cp.Questions = append([]model.Question(nil), session.Questions...)
	c.items[session.WorkerID] = cp
	return nil
}

func (c *memSessionCache) Get(ctx context.Context, workerID string) (*model.Session, error) {
	if s, ok := c.items[workerID]; ok {
		cp := s
		cp.Questions = append([]model.Question(nil), s.Questions...)
		return &cp, nil
	}
	return nil, nil
}

func (c *memSessionCache) Delete(ctx context.Context, workerID string) error {
	delete(c.items, workerID)
	return nil
}

type memStatsCache struct {
	items map[string][]model.ShopMonthlyStat
}

func newMemStatsCache() *memStatsCache {
	return &memStatsCache{items: map[string][]model.ShopMonthlyStat{}}
}

func (c *memStatsCache) SetShopMonthly(ctx context.Context, month string, stats []model.ShopMonthlyStat) error {
	c.items[month] = append([]model.ShopMonthlyStat(nil), stats...)
	return nil
}

func (c *memStatsCache) GetShopMonthly(ctx context.Context, month string) ([]model.ShopMonthlyStat, error) {
	if stats, ok := c.items[month]; ok {
		return append([]model.ShopMonthlyStat(nil), stats...), nil
	}
	return nil, nil
}

func (c *memStatsCache) Invalidate(ctx context.Context, month string) error {
	delete(c.items, month)
	return nil
}

type broadcastEvent struct {
	shopID  string
	msgType string
	payload interface{}
}

type recordingBroadcaster struct {
	events []broadcastEvent
}

func (b *recordingBroadcaster) BroadcastToAdmins(shopID string, msgType string, payload interface{}) {
	b.events = append(b.events, broadcastEvent{shopID: shopID, msgType: msgType, payload: payload})
}
