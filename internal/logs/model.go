package logs

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

const (
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

type SystemLog struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Level     string         `gorm:"size:20;not null" json:"level"`
	Service   string         `gorm:"size:100;not null;index" json:"service"`
	AdminID   *uint          `gorm:"index" json:"admin_id,omitempty"`
	Action    string         `gorm:"size:255;not null" json:"action"`
	Message   string         `gorm:"type:text;not null" json:"message"`
	WardIDs   pq.StringArray `gorm:"type:text[];column:ward_ids" json:"ward_ids"`
	Metadata  datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

type LogFilterInput struct {
	Service string `form:"service"`
	Action  string `form:"action"`
	AdminID *uint  `form:"admin_id"`
	Limit   int    `form:"limit"`
}

func (SystemLog) TableName() string {
	return "logs"
}
