package ward

import (
	"io"

	"ward-calendar-api/internal/logs"
)

type WardServicePort interface {
	ListWards() ([]Ward, error)
	GetWard(id string) (*Ward, error)
	ListMeetings(wardID string) ([]Meeting, error)
	CreateWard(input WardInput) (*Ward, error)
	UpdateWard(id string, input WardInput) (*Ward, error)
	DeleteWard(id string) (int64, error)
	LoadWards(out io.Writer) (*SeedResult, error)
}

// MeetingServicePort covers the meeting writes used by the admin console.
type MeetingServicePort interface {
	AllMeetings(wardID string) ([]Meeting, error)
	GetMeeting(id uint) (*Meeting, error)
	CreateMeeting(input MeetingInput) (*Meeting, error)
	UpdateMeeting(id uint, input MeetingInput) (*Meeting, error)
	DeleteMeeting(id uint) (*Meeting, error)
}

type LogServicePort interface {
	Log(entry logs.SystemLog, payload any) error
}

var _ WardServicePort = (*WardService)(nil)
var _ MeetingServicePort = (*WardService)(nil)
var _ LogServicePort = (*logs.LogService)(nil)
