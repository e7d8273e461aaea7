package admin

const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

type Summary struct {
	Wards           int64 `json:"wards"`
	Meetings        int64 `json:"meetings"`
	CancelledCount  int64 `json:"cancelled_meetings"`
	Admins          int64 `json:"admins"`
	WardsWithAdmins int64 `json:"wards_with_admin"`
}

type MeetingListQuery struct {
	WardID string `form:"ward_id"`
}

var wardColumns = []string{
	"id", "ward_name", "meeting_day", "meeting_time", "venue",
	"frequency_weeks", "start_date", "ward_admin", "meeting_count",
}

var meetingColumns = []string{
	"ward_id", "ward_name", "meeting_id", "meeting_date", "meeting_time",
	"venue", "agenda", "notes", "is_cancelled",
}
