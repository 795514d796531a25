package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/volunteer-hub/internal/models"
	"github.com/volunteer-hub/internal/storage"
	"github.com/volunteer-hub/internal/types"
)

// HoursService aggregates logged hours into summaries, impact reports and
// CSV exports. All reads go through the session's store, so remote mode
// inherits its authentication requirement.
type HoursService struct {
	store storage.Store
}

// NewHoursService creates a new hours service
func NewHoursService(store storage.Store) *HoursService {
	return &HoursService{store: store}
}

// HoursSummary aggregates a set of entries over a date range.
type HoursSummary struct {
	TotalHours     float64            `json:"totalHours"`
	VerifiedHours  float64            `json:"verifiedHours"`
	PendingHours   float64            `json:"pendingHours"`
	EntriesCount   int                `json:"entriesCount"`
	Organizations  int                `json:"organizationsCount"`
	ByOrganization map[string]float64 `json:"byOrganization"`
	ByActivityType map[string]float64 `json:"byActivityType"`
	ByMonth        map[string]float64 `json:"byMonth"`
	PeopleServed   int                `json:"peopleServed"`
	PeriodStart    string             `json:"periodStart"`
	PeriodEnd      string             `json:"periodEnd"`
}

// ImpactReport is a period summary plus derived metrics.
type ImpactReport struct {
	Period           types.ReportPeriod `json:"period"`
	PeriodStart      string             `json:"periodStart"`
	PeriodEnd        string             `json:"periodEnd"`
	TotalHours       float64            `json:"totalHours"`
	VerifiedHours    float64            `json:"verifiedHours"`
	PendingHours     float64            `json:"pendingHours"`
	EntriesCount     int                `json:"entriesCount"`
	AvgHoursPerEntry float64            `json:"avgHoursPerEntry"`
	Organizations    map[string]float64 `json:"organizations"`
	Activities       map[string]float64 `json:"activities"`
	MonthlyTrend     map[string]float64 `json:"monthlyTrend"`
	PeopleServed     int                `json:"peopleServed"`
	ImpactScore      float64            `json:"impactScore"`
}

// LogHours validates and persists a new entry.
func (s *HoursService) LogHours(ctx context.Context, entry *models.HoursEntry) (*models.HoursEntry, error) {
	if entry.Organization == "" {
		return nil, types.ValidationError("organization is required", "organization")
	}
	if entry.Hours <= 0 {
		return nil, types.ValidationError("hours must be positive", "hours")
	}
	if entry.Hours > 24 {
		return nil, types.ValidationError("hours cannot exceed 24 per entry", "hours")
	}
	if _, err := time.Parse("2006-01-02", entry.Date); err != nil {
		return nil, types.ValidationError("date must be YYYY-MM-DD", "date")
	}
	return s.store.InsertHours(ctx, entry)
}

// List returns the user's entries through the optional filter.
func (s *HoursService) List(ctx context.Context, filter *models.HoursFilter) ([]*models.HoursEntry, error) {
	return s.store.ListHours(ctx, filter)
}

// Delete removes one entry by id.
func (s *HoursService) Delete(ctx context.Context, id string) error {
	return s.store.DeleteHours(ctx, id)
}

// Verify records a supervisor's decision on a logged entry.
func (s *HoursService) Verify(ctx context.Context, id string, v *models.HoursVerification) (*models.HoursEntry, error) {
	if id == "" {
		return nil, types.ValidationError("entry id is required", "id")
	}
	if strings.TrimSpace(v.VerifiedBy) == "" {
		return nil, types.ValidationError("verifiedBy is required", "verifiedBy")
	}
	return s.store.VerifyHours(ctx, id, v)
}

// Summary aggregates entries between startDate and endDate inclusive.
// Empty bounds mean unbounded.
func (s *HoursService) Summary(ctx context.Context, startDate, endDate string) (*HoursSummary, error) {
	entries, err := s.store.ListHours(ctx, &models.HoursFilter{DateFrom: startDate, DateTo: endDate})
	if err != nil {
		return nil, err
	}

	summary := &HoursSummary{
		ByOrganization: make(map[string]float64),
		ByActivityType: make(map[string]float64),
		ByMonth:        make(map[string]float64),
		PeriodStart:    startDate,
		PeriodEnd:      endDate,
	}

	for _, e := range entries {
		summary.TotalHours += e.Hours
		switch e.Status {
		case types.HoursVerified:
			summary.VerifiedHours += e.Hours
		case types.HoursPending:
			summary.PendingHours += e.Hours
		}
		summary.ByOrganization[e.Organization] += e.Hours
		summary.ByActivityType[string(e.ActivityType)] += e.Hours
		if len(e.Date) >= 7 {
			summary.ByMonth[e.Date[:7]] += e.Hours
		}
		summary.PeopleServed += e.PeopleServed
	}

	summary.EntriesCount = len(entries)
	summary.Organizations = len(summary.ByOrganization)

	// Unbounded periods report the actual extent of the data.
	if len(entries) > 0 {
		if summary.PeriodStart == "" || summary.PeriodEnd == "" {
			dates := make([]string, 0, len(entries))
			for _, e := range entries {
				dates = append(dates, e.Date)
			}
			sort.Strings(dates)
			if summary.PeriodStart == "" {
				summary.PeriodStart = dates[0]
			}
			if summary.PeriodEnd == "" {
				summary.PeriodEnd = dates[len(dates)-1]
			}
		}
	}

	return summary, nil
}

// TotalHours returns the summed hours for a named period.
func (s *HoursService) TotalHours(ctx context.Context, period types.ReportPeriod) (float64, error) {
	start, end := periodRange(period, time.Now())
	summary, err := s.Summary(ctx, start, end)
	if err != nil {
		return 0, err
	}
	return summary.TotalHours, nil
}

// Report builds the impact report for a named period.
func (s *HoursService) Report(ctx context.Context, period types.ReportPeriod) (*ImpactReport, error) {
	start, end := periodRange(period, time.Now())
	summary, err := s.Summary(ctx, start, end)
	if err != nil {
		return nil, err
	}

	avg := 0.0
	if summary.EntriesCount > 0 {
		avg = summary.TotalHours / float64(summary.EntriesCount)
	}

	return &ImpactReport{
		Period:           period,
		PeriodStart:      summary.PeriodStart,
		PeriodEnd:        summary.PeriodEnd,
		TotalHours:       summary.TotalHours,
		VerifiedHours:    summary.VerifiedHours,
		PendingHours:     summary.PendingHours,
		EntriesCount:     summary.EntriesCount,
		AvgHoursPerEntry: roundTenth(avg),
		Organizations:    summary.ByOrganization,
		Activities:       summary.ByActivityType,
		MonthlyTrend:     summary.ByMonth,
		PeopleServed:     summary.PeopleServed,
		ImpactScore:      ImpactScore(summary),
	}, nil
}

// ImpactScore scores a summary out of 100: verified hours dominate, with
// small bonuses for organization diversity and people served.
func ImpactScore(summary *HoursSummary) float64 {
	hoursScore := minFloat(100, summary.VerifiedHours/10)
	orgBonus := minFloat(20, float64(summary.Organizations)*5)
	peopleBonus := minFloat(20, float64(summary.PeopleServed)/10)
	return minFloat(100, hoursScore+orgBonus+peopleBonus)
}

// Certificate attests a volunteer's verified hours over a period. Only
// verified hours count toward the total.
type Certificate struct {
	ID                 string             `json:"id"`
	VolunteerName      string             `json:"volunteerName"`
	TotalHours         float64            `json:"totalHours"`
	Period             types.ReportPeriod `json:"period"`
	PeriodStart        string             `json:"periodStart"`
	PeriodEnd          string             `json:"periodEnd"`
	Organizations      []string           `json:"organizations"`
	Activities         []string           `json:"activities"`
	IssuedAt           time.Time          `json:"issuedAt"`
	CertificateNumber  string             `json:"certificateNumber"`
	SignatureAuthority string             `json:"signatureAuthority"`
}

// defaultSignatureAuthority signs certificates when no authority is given.
const defaultSignatureAuthority = "Volunteer Hub"

// CertificateFor assembles a certificate from the named period's entries.
func (s *HoursService) CertificateFor(ctx context.Context, period types.ReportPeriod, volunteerName, authority string) (*Certificate, error) {
	volunteerName = strings.TrimSpace(volunteerName)
	if volunteerName == "" {
		return nil, types.ValidationError("volunteer name is required", "name")
	}
	if authority == "" {
		authority = defaultSignatureAuthority
	}

	start, end := periodRange(period, time.Now())
	summary, err := s.Summary(ctx, start, end)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Certificate{
		ID:                 "cert-" + now.Format("20060102150405"),
		VolunteerName:      volunteerName,
		TotalHours:         summary.VerifiedHours,
		Period:             period,
		PeriodStart:        summary.PeriodStart,
		PeriodEnd:          summary.PeriodEnd,
		Organizations:      sortedKeys(summary.ByOrganization),
		Activities:         sortedKeys(summary.ByActivityType),
		IssuedAt:           now,
		CertificateNumber:  fmt.Sprintf("VC-%d-%05d", now.Year(), summary.EntriesCount),
		SignatureAuthority: authority,
	}, nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ExportCSV renders the user's entries between the bounds as CSV.
func (s *HoursService) ExportCSV(ctx context.Context, startDate, endDate string) (string, error) {
	entries, err := s.store.ListHours(ctx, &models.HoursFilter{DateFrom: startDate, DateTo: endDate})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Date,Organization,Hours,Activity Type,Description,Status,Supervisor\n")
	for _, e := range entries {
		b.WriteString(fmt.Sprintf("%s,%s,%g,%s,%s,%s,%s\n",
			e.Date, csvField(e.Organization), e.Hours, e.ActivityType,
			csvField(e.Description), e.Status, csvField(e.Supervisor)))
	}
	return b.String(), nil
}

// csvField quotes values that would break the row.
func csvField(v string) string {
	if strings.ContainsAny(v, ",\"\n") {
		return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
	}
	return v
}

// periodRange converts a named period into inclusive date bounds ending
// today. The all period is unbounded on both sides.
func periodRange(period types.ReportPeriod, now time.Time) (string, string) {
	var days int
	switch period {
	case types.PeriodWeek:
		days = 7
	case types.PeriodMonth:
		days = 30
	case types.PeriodQuarter:
		days = 90
	case types.PeriodYear:
		days = 365
	default:
		return "", ""
	}
	end := now.Format("2006-01-02")
	start := now.AddDate(0, 0, -days).Format("2006-01-02")
	return start, end
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func roundTenth(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
