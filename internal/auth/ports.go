package auth

import "ward-calendar-api/internal/logs"

type AuthServicePort interface {
	CreateAdmin(username, password string) (*Admin, error)
	GetAdmin(username string) (*Admin, error)
	GetAdminByID(id int) (*Admin, error)
	GetAllAdmins() ([]Admin, error)
	DeleteAdmin(id int) (*Admin, error)
	Authenticate(username, password string) (*Admin, error)
}

type LogServicePort interface {
	Log(entry logs.SystemLog, payload any) error
}

var _ AuthServicePort = (*AuthService)(nil)
var _ LogServicePort = (*logs.LogService)(nil)
