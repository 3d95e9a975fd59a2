package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"canopy/internal/cache"
	apperrors "canopy/internal/errors"
	"canopy/internal/model"
	"canopy/internal/repository"
)

// Report types.
const (
	ReportTreeHealth        = "tree-health"
	ReportTreesBySpecies    = "trees-by-species"
	ReportPlantingActivity  = "planting-activity"
	ReportUserContributions = "user-contributions"
	ReportTreeGrowth        = "tree-growth"
)

// Time frames.
const (
	TimeFrameWeek    = "week"
	TimeFrameMonth   = "month"
	TimeFrameYear    = "year"
	TimeFrameAllTime = "all-time"
)

const (
	reportCacheTTL   = 5 * time.Minute
	leaderboardLimit = 10
)

// ageBucket is one fixed, non-overlapping range of the growth report.
// maxAge -1 means unbounded.
type ageBucket struct {
	label  string
	minAge int
	maxAge int
}

var ageBuckets = []ageBucket{
	{label: "0-1 years", minAge: 0, maxAge: 1},
	{label: "2-3 years", minAge: 2, maxAge: 3},
	{label: "4-5 years", minAge: 4, maxAge: 5},
	{label: "6-10 years", minAge: 6, maxAge: 10},
	{label: "11+ years", minAge: 11, maxAge: -1},
}

// ReportPoint is one labeled value of a report series.
type ReportPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Report is a chart-ready aggregation result.
type Report struct {
	Title   string        `json:"title"`
	Data    []ReportPoint `json:"data"`
	Columns []string      `json:"columns"`
	Colors  []string      `json:"colors,omitempty"`
}

// ReportService computes grouped statistics over approved trees.
type ReportService interface {
	Generate(ctx context.Context, user *model.User, reportType, timeFrame string) (*Report, error)
	ExportCSV(report *Report, reportType string) (content []byte, filename string, err error)
}

type reportService struct {
	reportRepo repository.ReportRepository
	cache      *cache.Client
}

// NewReportService builds a ReportService with repository and cache.
func NewReportService(reportRepo repository.ReportRepository, cache *cache.Client) ReportService {
	return &reportService{
		reportRepo: reportRepo,
		cache:      cache,
	}
}

// Generate computes a report restricted to approved trees within the time
// window. Only admins and environmentalists may generate reports.
func (s *reportService) Generate(ctx context.Context, user *model.User, reportType, timeFrame string) (*Report, error) {
	if user == nil {
		return nil, apperrors.ErrUnauthenticated
	}
	if !user.CanViewReports() {
		return nil, apperrors.ErrForbidden
	}

	since, err := timeFrameStart(timeFrame)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("report:%s:%s", reportType, timeFrame)
	if data, _ := s.cache.Get(ctx, key); data != nil {
		var cached Report
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	var report *Report
	switch reportType {
	case ReportTreeHealth:
		report, err = s.treeHealth(ctx, since)
	case ReportTreesBySpecies:
		report, err = s.treesBySpecies(ctx, since)
	case ReportPlantingActivity:
		report, err = s.plantingActivity(ctx, since)
	case ReportUserContributions:
		report, err = s.userContributions(ctx, since)
	case ReportTreeGrowth:
		report, err = s.treeGrowth(ctx, since)
	default:
		return nil, apperrors.NewValidationError("type", "invalid report type")
	}
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(report); err == nil {
		_ = s.cache.Set(ctx, key, payload, reportCacheTTL)
	}
	return report, nil
}

// ExportCSV renders a report as a two-column CSV download.
func (s *reportService) ExportCSV(report *Report, reportType string) ([]byte, string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(report.Columns); err != nil {
		return nil, "", fmt.Errorf("write csv header: %w", err)
	}
	for _, point := range report.Data {
		value := strconv.FormatFloat(point.Value, 'f', -1, 64)
		if err := w.Write([]string{point.Label, value}); err != nil {
			return nil, "", fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", fmt.Errorf("flush csv: %w", err)
	}

	filename := fmt.Sprintf("%s-report-%s.csv", reportType, time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

func (s *reportService) treeHealth(ctx context.Context, since *time.Time) (*Report, error) {
	rows, err := s.reportRepo.HealthDistribution(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("health distribution: %w", err)
	}

	data := make([]ReportPoint, 0, len(rows))
	for _, row := range rows {
		data = append(data, ReportPoint{Label: formatHealth(row.Label), Value: float64(row.Count)})
	}
	return &Report{
		Title:   "Tree Health Distribution",
		Data:    data,
		Columns: []string{"Health Status", "Count"},
		Colors:  []string{"#4CAF50", "#8BC34A", "#CDDC39", "#FFC107"},
	}, nil
}

func (s *reportService) treesBySpecies(ctx context.Context, since *time.Time) (*Report, error) {
	rows, err := s.reportRepo.SpeciesDistribution(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("species distribution: %w", err)
	}

	data := make([]ReportPoint, 0, len(rows))
	for _, row := range rows {
		label := row.Label
		if label == "" {
			label = "Unknown"
		}
		data = append(data, ReportPoint{Label: label, Value: float64(row.Count)})
	}
	return &Report{
		Title:   "Trees by Species",
		Data:    data,
		Columns: []string{"Species", "Count"},
	}, nil
}

func (s *reportService) plantingActivity(ctx context.Context, since *time.Time) (*Report, error) {
	rows, err := s.reportRepo.PlantingActivity(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("planting activity: %w", err)
	}

	data := make([]ReportPoint, 0, len(rows))
	for _, row := range rows {
		data = append(data, ReportPoint{Label: formatMonth(row.Label), Value: float64(row.Count)})
	}
	return &Report{
		Title:   "Planting Activity Over Time",
		Data:    data,
		Columns: []string{"Month", "Trees Planted"},
	}, nil
}

func (s *reportService) userContributions(ctx context.Context, since *time.Time) (*Report, error) {
	rows, err := s.reportRepo.UserContributions(ctx, since, leaderboardLimit)
	if err != nil {
		return nil, fmt.Errorf("user contributions: %w", err)
	}

	data := make([]ReportPoint, 0, len(rows))
	for _, row := range rows {
		data = append(data, ReportPoint{
			Label: strings.TrimSpace(row.FirstName + " " + row.LastName),
			Value: float64(row.Count),
		})
	}
	return &Report{
		Title:   "Top Contributors",
		Data:    data,
		Columns: []string{"User", "Trees Planted"},
	}, nil
}

// treeGrowth queries each fixed age bucket independently for average height.
func (s *reportService) treeGrowth(ctx context.Context, since *time.Time) (*Report, error) {
	data := make([]ReportPoint, 0, len(ageBuckets))
	for _, bucket := range ageBuckets {
		row, err := s.reportRepo.GrowthByAge(ctx, since, bucket.minAge, bucket.maxAge)
		if err != nil {
			return nil, fmt.Errorf("growth bucket %s: %w", bucket.label, err)
		}
		avg := decimal.NewFromFloat(row.AvgHeight).Round(2).InexactFloat64()
		data = append(data, ReportPoint{Label: bucket.label, Value: avg})
	}
	return &Report{
		Title:   "Average Tree Height by Age",
		Data:    data,
		Columns: []string{"Age Range", "Avg Height (m)"},
	}, nil
}

// timeFrameStart resolves a time frame to the start of its window.
// all-time returns nil.
func timeFrameStart(timeFrame string) (*time.Time, error) {
	now := time.Now()
	var start time.Time
	switch timeFrame {
	case "", TimeFrameAllTime:
		return nil, nil
	case TimeFrameWeek:
		start = now.AddDate(0, 0, -7)
	case TimeFrameMonth:
		start = now.AddDate(0, -1, 0)
	case TimeFrameYear:
		start = now.AddDate(-1, 0, 0)
	default:
		return nil, apperrors.NewValidationError("timeFrame", "invalid time frame")
	}
	return &start, nil
}

func formatHealth(health string) string {
	if health == "" {
		return "Unknown"
	}
	return strings.ToUpper(health[:1]) + strings.ToLower(health[1:])
}

func formatMonth(raw string) string {
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return raw
	}
	return parsed.Format("Jan 2006")
}
