package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "canopy/internal/errors"
	"canopy/internal/model"
	"canopy/internal/repository"
)

// MockReportRepository is a mock implementation of ReportRepository.
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) HealthDistribution(ctx context.Context, since *time.Time) ([]repository.LabelCount, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.LabelCount), args.Error(1)
}

func (m *MockReportRepository) SpeciesDistribution(ctx context.Context, since *time.Time) ([]repository.LabelCount, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.LabelCount), args.Error(1)
}

func (m *MockReportRepository) PlantingActivity(ctx context.Context, since *time.Time) ([]repository.LabelCount, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.LabelCount), args.Error(1)
}

func (m *MockReportRepository) UserContributions(ctx context.Context, since *time.Time, limit int) ([]repository.ContributionRow, error) {
	args := m.Called(ctx, since, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.ContributionRow), args.Error(1)
}

func (m *MockReportRepository) GrowthByAge(ctx context.Context, since *time.Time, minAge, maxAge int) (repository.GrowthRow, error) {
	args := m.Called(ctx, since, minAge, maxAge)
	return args.Get(0).(repository.GrowthRow), args.Error(1)
}

func environmentalist() *model.User {
	return &model.User{ID: 2, RoleID: model.RoleIDEnvironmentalist}
}

func TestReportService_Generate_Authorization(t *testing.T) {
	svc := NewReportService(new(MockReportRepository), nil)

	_, err := svc.Generate(context.Background(), nil, ReportTreeHealth, TimeFrameAllTime)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	_, err = svc.Generate(context.Background(), &model.User{ID: 9, RoleID: model.RoleIDUser}, ReportTreeHealth, TimeFrameAllTime)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestReportService_Generate_InvalidInputs(t *testing.T) {
	svc := NewReportService(new(MockReportRepository), nil)

	var vErr *apperrors.ValidationError

	_, err := svc.Generate(context.Background(), environmentalist(), "made-up-report", TimeFrameAllTime)
	assert.ErrorAs(t, err, &vErr)

	_, err = svc.Generate(context.Background(), environmentalist(), ReportTreeHealth, "fortnight")
	assert.ErrorAs(t, err, &vErr)
}

func TestReportService_TreeHealth(t *testing.T) {
	mockRepo := new(MockReportRepository)
	mockRepo.On("HealthDistribution", mock.Anything, (*time.Time)(nil)).Return([]repository.LabelCount{
		{Label: "EXCELLENT", Count: 12},
		{Label: "POOR", Count: 3},
	}, nil)

	svc := NewReportService(mockRepo, nil)
	report, err := svc.Generate(context.Background(), environmentalist(), ReportTreeHealth, TimeFrameAllTime)

	assert.NoError(t, err)
	assert.Equal(t, "Tree Health Distribution", report.Title)
	assert.Equal(t, []ReportPoint{
		{Label: "Excellent", Value: 12},
		{Label: "Poor", Value: 3},
	}, report.Data)
}

func TestReportService_TreeGrowth_FixedBuckets(t *testing.T) {
	mockRepo := new(MockReportRepository)
	mockRepo.On("GrowthByAge", mock.Anything, (*time.Time)(nil), 0, 1).Return(repository.GrowthRow{AvgHeight: 0.5}, nil)
	mockRepo.On("GrowthByAge", mock.Anything, (*time.Time)(nil), 2, 3).Return(repository.GrowthRow{AvgHeight: 1.234}, nil)
	mockRepo.On("GrowthByAge", mock.Anything, (*time.Time)(nil), 4, 5).Return(repository.GrowthRow{AvgHeight: 2.5}, nil)
	mockRepo.On("GrowthByAge", mock.Anything, (*time.Time)(nil), 6, 10).Return(repository.GrowthRow{AvgHeight: 5}, nil)
	mockRepo.On("GrowthByAge", mock.Anything, (*time.Time)(nil), 11, -1).Return(repository.GrowthRow{AvgHeight: 0}, nil)

	svc := NewReportService(mockRepo, nil)
	report, err := svc.Generate(context.Background(), environmentalist(), ReportTreeGrowth, TimeFrameAllTime)

	assert.NoError(t, err)
	assert.Equal(t, []ReportPoint{
		{Label: "0-1 years", Value: 0.5},
		{Label: "2-3 years", Value: 1.23},
		{Label: "4-5 years", Value: 2.5},
		{Label: "6-10 years", Value: 5},
		{Label: "11+ years", Value: 0},
	}, report.Data)
	// Every bucket is queried exactly once; ranges are disjoint.
	mockRepo.AssertNumberOfCalls(t, "GrowthByAge", 5)
}

func TestReportService_UserContributions(t *testing.T) {
	mockRepo := new(MockReportRepository)
	mockRepo.On("UserContributions", mock.Anything, mock.Anything, 10).Return([]repository.ContributionRow{
		{FirstName: "Jamie", LastName: "Kapoor", Count: 31},
		{FirstName: "Alex", LastName: "", Count: 12},
	}, nil)

	svc := NewReportService(mockRepo, nil)
	report, err := svc.Generate(context.Background(), admin(), ReportUserContributions, TimeFrameYear)

	assert.NoError(t, err)
	assert.Equal(t, "Jamie Kapoor", report.Data[0].Label)
	assert.Equal(t, "Alex", report.Data[1].Label)
	mockRepo.AssertExpectations(t)
}

func TestReportService_PlantingActivity_MonthLabels(t *testing.T) {
	mockRepo := new(MockReportRepository)
	mockRepo.On("PlantingActivity", mock.Anything, mock.Anything).Return([]repository.LabelCount{
		{Label: "2026-03-01", Count: 8},
		{Label: "2026-04-01", Count: 4},
	}, nil)

	svc := NewReportService(mockRepo, nil)
	report, err := svc.Generate(context.Background(), admin(), ReportPlantingActivity, TimeFrameYear)

	assert.NoError(t, err)
	assert.Equal(t, "Mar 2026", report.Data[0].Label)
	assert.Equal(t, "Apr 2026", report.Data[1].Label)
}

func TestReportService_ExportCSV(t *testing.T) {
	svc := NewReportService(new(MockReportRepository), nil)

	report := &Report{
		Columns: []string{"Species", "Count"},
		Data: []ReportPoint{
			{Label: "Oak", Value: 12},
			{Label: "Neem, common", Value: 3.5},
		},
	}

	content, filename, err := svc.ExportCSV(report, ReportTreesBySpecies)
	assert.NoError(t, err)
	assert.Equal(t, "Species,Count\nOak,12\n\"Neem, common\",3.5\n", string(content))
	assert.Contains(t, filename, "trees-by-species-report-")
	assert.Contains(t, filename, ".csv")
}
