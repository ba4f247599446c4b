// Package admin computes the administrator's aggregate views on read.
package admin

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"healthwatch/internal/models"
)

const (
	distributionSize = 5
	regionalSize     = 10
	trendDays        = 7
	recentActivity   = 50
	trendLabelLayout = "Jan 2"
)

type StatsRepository interface {
	CountPrescriptions(ctx context.Context) (int64, error)
	CountActiveAlerts(ctx context.Context) (int64, error)
	CountUsersByRole(ctx context.Context, role string) (int64, error)
	DiagnosisCounts(ctx context.Context, limit int) ([]models.DiseaseCount, error)
	PrescriptionTimes(ctx context.Context, since time.Time) ([]time.Time, error)
	CasesByRegion(ctx context.Context) (map[string]int64, error)
	AlertsByRegion(ctx context.Context) (map[string]int64, error)
	RecentPrescriptions(ctx context.Context, limit int) ([]models.Prescription, error)
}

type Slice struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

type TrendPoint struct {
	Date  string `json:"date"`
	Cases int64  `json:"cases"`
}

type RegionSummary struct {
	Region string `json:"region"`
	Cases  int64  `json:"cases"`
	Alerts int64  `json:"alerts"`
}

type Stats struct {
	TotalPrescriptions  int64           `json:"totalPrescriptions"`
	TotalAlerts         int64           `json:"totalAlerts"`
	TotalLearners       int64           `json:"totalLearners"`
	TotalDoctors        int64           `json:"totalDoctors"`
	DiseaseDistribution []Slice         `json:"diseaseDistribution"`
	WeeklyTrend         []TrendPoint    `json:"weeklyTrend"`
	RegionalData        []RegionSummary `json:"regionalData"`
}

type Service struct {
	repo StatsRepository
	now  func() time.Time
	log  zerolog.Logger
}

func NewService(repo StatsRepository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
		log:  log.With().Str("component", "admin").Logger(),
	}
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	var (
		stats Stats
		err   error
	)
	if stats.TotalPrescriptions, err = s.repo.CountPrescriptions(ctx); err != nil {
		return nil, err
	}
	if stats.TotalAlerts, err = s.repo.CountActiveAlerts(ctx); err != nil {
		return nil, err
	}
	if stats.TotalLearners, err = s.repo.CountUsersByRole(ctx, models.RolePublic); err != nil {
		return nil, err
	}
	if stats.TotalDoctors, err = s.repo.CountUsersByRole(ctx, models.RoleDoctor); err != nil {
		return nil, err
	}
	if stats.DiseaseDistribution, err = s.distribution(ctx); err != nil {
		return nil, err
	}
	if stats.WeeklyTrend, err = s.weeklyTrend(ctx); err != nil {
		return nil, err
	}
	if stats.RegionalData, err = s.regional(ctx); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *Service) distribution(ctx context.Context) ([]Slice, error) {
	counts, err := s.repo.DiagnosisCounts(ctx, distributionSize)
	if err != nil {
		return nil, err
	}
	out := make([]Slice, 0, len(counts))
	for _, c := range counts {
		out = append(out, Slice{Name: c.Disease, Value: c.Count})
	}
	return out, nil
}

// weeklyTrend buckets prescriptions into the last seven local calendar days,
// oldest first, today included.
func (s *Service) weeklyTrend(ctx context.Context) ([]TrendPoint, error) {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	first := today.AddDate(0, 0, -(trendDays - 1))

	times, err := s.repo.PrescriptionTimes(ctx, first)
	if err != nil {
		return nil, err
	}

	out := make([]TrendPoint, trendDays)
	for i := range out {
		out[i].Date = first.AddDate(0, 0, i).Format(trendLabelLayout)
	}
	for _, t := range times {
		t = t.In(now.Location())
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, now.Location())
		for i := range out {
			if day.Equal(first.AddDate(0, 0, i)) {
				out[i].Cases++
				break
			}
		}
	}
	return out, nil
}

func (s *Service) regional(ctx context.Context) ([]RegionSummary, error) {
	cases, err := s.repo.CasesByRegion(ctx)
	if err != nil {
		return nil, err
	}
	alerts, err := s.repo.AlertsByRegion(ctx)
	if err != nil {
		return nil, err
	}

	byRegion := make(map[string]*RegionSummary)
	for region, n := range cases {
		byRegion[region] = &RegionSummary{Region: region, Cases: n}
	}
	for region, n := range alerts {
		if _, ok := byRegion[region]; !ok {
			byRegion[region] = &RegionSummary{Region: region}
		}
		byRegion[region].Alerts = n
	}

	out := make([]RegionSummary, 0, len(byRegion))
	for _, r := range byRegion {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Cases != out[j].Cases {
			return out[i].Cases > out[j].Cases
		}
		return out[i].Region < out[j].Region
	})
	if len(out) > regionalSize {
		out = out[:regionalSize]
	}
	return out, nil
}

func (s *Service) RecentActivity(ctx context.Context) ([]models.Prescription, error) {
	return s.repo.RecentPrescriptions(ctx, recentActivity)
}
