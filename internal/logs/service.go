package logs

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	defaultLimit = 50
	maxLimit     = 100
)

type LogService struct {
	DB *gorm.DB
}

// Log stores an audit entry. Metadata that cannot be marshalled is dropped
// rather than failing the write.
func (ls *LogService) Log(entry SystemLog, metadata interface{}) error {
	var meta datatypes.JSON
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			meta = datatypes.JSON(b)
		}
	}

	newLog := SystemLog{
		Level:     entry.Level,
		Service:   entry.Service,
		AdminID:   entry.AdminID,
		Action:    entry.Action,
		Message:   entry.Message,
		WardIDs:   entry.WardIDs,
		Metadata:  meta,
		CreatedAt: time.Now(),
	}
	if newLog.Level == "" {
		newLog.Level = LevelInfo
	}

	return ls.DB.Create(&newLog).Error
}

func (ls *LogService) Recent(input LogFilterInput) ([]SystemLog, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	q := ls.DB.Model(&SystemLog{})
	if s := strings.TrimSpace(input.Service); s != "" {
		q = q.Where("service = ?", s)
	}
	if a := strings.TrimSpace(input.Action); a != "" {
		q = q.Where("action = ?", a)
	}
	if input.AdminID != nil {
		q = q.Where("admin_id = ?", *input.AdminID)
	}

	out := []SystemLog{}
	if err := q.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
