package ward

import (
	"time"

	"ward-calendar-api/internal/util"
)

type MeetingResponse struct {
	ID          uint    `json:"id"`
	MeetingDate string  `json:"meeting_date"`
	MeetingTime string  `json:"meeting_time"`
	Venue       string  `json:"venue"`
	Agenda      *string `json:"agenda"`
	Notes       *string `json:"notes"`
	IsCancelled bool    `json:"is_cancelled"`
}

// AdminMeetingResponse is the console view of a meeting, which also names
// its ward.
type AdminMeetingResponse struct {
	MeetingResponse
	Ward      string    `json:"ward"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type WardResponse struct {
	ID             string            `json:"id"`
	WardName       string            `json:"ward_name"`
	MeetingDay     string            `json:"meeting_day"`
	MeetingTime    string            `json:"meeting_time"`
	Venue          string            `json:"venue"`
	FrequencyWeeks int               `json:"frequency_weeks"`
	StartDate      string            `json:"start_date"`
	WardAdmin      *int              `json:"ward_admin"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	Meetings       []MeetingResponse `json:"meetings"`
}

func SerializeMeeting(m *Meeting) MeetingResponse {
	return MeetingResponse{
		ID:          m.ID,
		MeetingDate: util.FormatDate(m.MeetingDate),
		MeetingTime: m.MeetingTime,
		Venue:       m.Venue,
		Agenda:      m.Agenda,
		Notes:       m.Notes,
		IsCancelled: m.IsCancelled,
	}
}

func SerializeMeetings(meetings []Meeting) []MeetingResponse {
	out := make([]MeetingResponse, 0, len(meetings))
	for i := range meetings {
		out = append(out, SerializeMeeting(&meetings[i]))
	}
	return out
}

func SerializeAdminMeeting(m *Meeting) AdminMeetingResponse {
	return AdminMeetingResponse{
		MeetingResponse: SerializeMeeting(m),
		Ward:            m.WardID,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func SerializeWard(w *Ward) WardResponse {
	return WardResponse{
		ID:             w.ID,
		WardName:       w.WardName,
		MeetingDay:     w.MeetingDay,
		MeetingTime:    w.MeetingTime,
		Venue:          w.Venue,
		FrequencyWeeks: w.FrequencyWeeks,
		StartDate:      util.FormatDate(w.StartDate),
		WardAdmin:      w.WardAdminID,
		CreatedAt:      w.CreatedAt,
		UpdatedAt:      w.UpdatedAt,
		Meetings:       SerializeMeetings(w.Meetings),
	}
}

func SerializeWards(wards []Ward) []WardResponse {
	out := make([]WardResponse, 0, len(wards))
	for i := range wards {
		out = append(out, SerializeWard(&wards[i]))
	}
	return out
}
