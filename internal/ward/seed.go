package ward

import (
	"errors"
	"fmt"
	"io"

	"ward-calendar-api/internal/logs"
	"ward-calendar-api/internal/util"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type SeedWard struct {
	ID             string
	WardName       string
	MeetingDay     string
	MeetingTime    string
	Venue          string
	FrequencyWeeks int
	StartDate      string
}

var SeedWards = []SeedWard{
	{"ward-1", "Ward 1 (Central)", "Wednesday", "5:00 PM", "Akinyele Primary School Hall", 2, "2024-01-03"},
	{"ward-2", "Ward 2 (North)", "Saturday", "10:00 AM", "North Community Outreach Center", 2, "2024-01-06"},
	{"ward-3", "Ward 3 (South)", "Monday", "4:30 PM", "Unity Square Pavilion", 2, "2024-01-01"},
	{"ward-4", "Ward 4 (East)", "Thursday", "6:00 PM", "St. Jude's Community Hall", 2, "2024-01-04"},
	{"ward-5", "Ward 5 (West)", "Sunday", "2:00 PM", "Elders' Resource Center", 2, "2024-01-07"},
	{"ward-6", "Ward 6 (Akinyele)", "Wednesday", "2:00 PM", "Ojo Youth Development Hub", 2, "2026-02-04"},
	{"ward-7", "Ward 7 (Railway Line)", "Wednesday", "4:00 PM", "Station Master's Hall", 2, "2024-01-10"},
	{"ward-8", "Ward 8 (Market Square)", "Saturday", "9:00 AM", "Market Association Building", 2, "2024-01-13"},
	{"ward-9", "Ward 9 (Industrial)", "Monday", "6:00 PM", "Akinyele Factory Workers' Club", 2, "2024-01-08"},
	{"ward-10", "Ward 10 (Hilltop)", "Thursday", "5:00 PM", "Highland View Community Center", 2, "2024-01-11"},
	{"ward-11", "Ward 11 (Riverside)", "Sunday", "10:00 AM", "Riverside Garden Pavilion", 2, "2024-01-14"},
	{"ward-12", "Ward 12 (New Layout)", "Tuesday", "4:00 PM", "Estate Management Office Hall", 2, "2024-01-09"},
}

type SeedResult struct {
	Created []string
	Skipped []string
}

// LoadWards inserts every seed ward whose id is not stored yet and leaves
// existing rows untouched. Progress lines go to out.
func (s *WardService) LoadWards(out io.Writer) (*SeedResult, error) {
	result := &SeedResult{}

	for _, seed := range SeedWards {
		start, err := util.ParseDate(seed.StartDate)
		if err != nil {
			return result, fmt.Errorf("seed %s: %w", seed.ID, err)
		}

		var existing Ward
		err = s.DB.Where("id = ?", seed.ID).First(&existing).Error
		switch {
		case err == nil:
			result.Skipped = append(result.Skipped, seed.ID)
			fmt.Fprintf(out, "Ward already exists: %s\n", existing.WardName)
			continue
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return result, fmt.Errorf("lookup %s: %w", seed.ID, err)
		}

		ward := Ward{
			ID:             seed.ID,
			WardName:       seed.WardName,
			MeetingDay:     seed.MeetingDay,
			MeetingTime:    seed.MeetingTime,
			Venue:          seed.Venue,
			FrequencyWeeks: seed.FrequencyWeeks,
			StartDate:      start,
		}
		if err := s.DB.Omit("Meetings", "WardAdmin").Create(&ward).Error; err != nil {
			return result, fmt.Errorf("create %s: %w", seed.ID, err)
		}
		result.Created = append(result.Created, seed.ID)
		fmt.Fprintf(out, "Created ward: %s\n", ward.WardName)
	}

	fmt.Fprintln(out, "Ward data loaded successfully")
	return result, nil
}

// AuditEntry describes a seed run for the audit log.
func (r *SeedResult) AuditEntry() logs.SystemLog {
	return logs.SystemLog{
		Level:   logs.LevelInfo,
		Service: "wards",
		Action:  "LOAD_WARDS",
		Message: fmt.Sprintf("Seed loaded: %d created, %d already present", len(r.Created), len(r.Skipped)),
		WardIDs: pq.StringArray(r.Created),
	}
}
