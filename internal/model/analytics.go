package model

import "time"

// ShopMonthlyStat is the month-to-date aggregate for one shop
type ShopMonthlyStat struct {
	ShopID      string  `json:"shopId" bson:"_id"`
	AvgScore    float64 `json:"avgScore" bson:"avgScore"`
	ReportCount int     `json:"reportCount" bson:"reportCount"`
}

// AdminActivity summarizes what one admin's shops have been up to
type AdminActivity struct {
	Admin           *User      `json:"admin"`
	Shops           []string   `json:"shops"`
	ChecklistCount  int        `json:"checklistCount"`
	WorkerCount     int        `json:"workerCount"`
	LastActivity    *time.Time `json:"lastActivity,omitempty"`
	ReportsLastWeek int        `json:"reportsLastWeek"`
}

// WorkerActivity summarizes one worker's report history
type WorkerActivity struct {
	Worker          *User      `json:"worker"`
	TotalReports    int        `json:"totalReports"`
	AvgScore        int        `json:"avgScore"` // Average over non-zero scores only
	LastActivity    *time.Time `json:"lastActivity,omitempty"`
	ReportsLastWeek int        `json:"reportsLastWeek"`
}

// ChecklistUsage summarizes how one checklist template is being used
type ChecklistUsage struct {
	Checklist     *Checklist `json:"checklist"`
	QuestionCount int        `json:"questionCount"` // Active questions only
	ReportCount   int        `json:"reportCount"`
	AvgScore      int        `json:"avgScore"` // Average over non-zero scores only
	LastUse       *time.Time `json:"lastUse,omitempty"`
}

// ExportRow is one flattened report line for the XLSX export
type ExportRow struct {
	Date      string `json:"date"`
	Shop      string `json:"shop"`
	Employee  string `json:"employee"`
	Checklist string `json:"checklist"`
	Score     int    `json:"score"`
	Answers   string `json:"answers"`
}
