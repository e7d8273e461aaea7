package ward

import (
	"time"

	"ward-calendar-api/internal/auth"

	"gorm.io/datatypes"
)

const DefaultFrequencyWeeks = 2

var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

type Ward struct {
	ID             string         `gorm:"primaryKey;size:50"`
	WardName       string         `gorm:"size:255;uniqueIndex;not null"`
	MeetingDay     string         `gorm:"size:10;not null"`
	MeetingTime    string         `gorm:"size:20;not null"`
	Venue          string         `gorm:"size:255;not null"`
	FrequencyWeeks int            `gorm:"not null"`
	StartDate      datatypes.Date `gorm:"type:date;not null"`

	// At most one ward per admin; removing the admin clears the link.
	WardAdminID *int        `gorm:"uniqueIndex"`
	WardAdmin   *auth.Admin `gorm:"foreignKey:WardAdminID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`

	Meetings []Meeting `gorm:"foreignKey:WardID;references:ID"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Ward) TableName() string {
	return "wards"
}

type Meeting struct {
	ID          uint           `gorm:"primaryKey;autoIncrement"`
	WardID      string         `gorm:"size:50;not null;uniqueIndex:idx_meeting_ward_date,priority:1"`
	Ward        *Ward          `gorm:"foreignKey:WardID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	MeetingDate datatypes.Date `gorm:"type:date;not null;uniqueIndex:idx_meeting_ward_date,priority:2;index"`
	MeetingTime string         `gorm:"size:20;not null"`
	Venue       string         `gorm:"size:255;not null"`
	Agenda      *string        `gorm:"type:text"`
	Notes       *string        `gorm:"type:text"`
	IsCancelled bool           `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Meeting) TableName() string {
	return "meetings"
}
