package admin

import (
	"ward-calendar-api/internal/logs"
	"ward-calendar-api/internal/ward"
)

type AdminServiceAPI interface {
	Summary() (*Summary, error)
	ExportWards(format string) (contentType, filename string, out []byte, err error)
}

type LogServicePort interface {
	Log(entry logs.SystemLog, payload any) error
}

var _ AdminServiceAPI = (*AdminService)(nil)
var _ ward.MeetingServicePort = (*ward.WardService)(nil)
