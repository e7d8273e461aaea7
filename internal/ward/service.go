package ward

import (
	"errors"
	"fmt"
	"strings"

	"ward-calendar-api/internal/auth"

	"gorm.io/gorm"
)

var (
	ErrWardNotFound    = errors.New("ward not found")
	ErrMeetingNotFound = errors.New("meeting not found")
)

const (
	msgWardNameTaken  = "ward with this ward name already exists."
	msgWardIDTaken    = "ward with this id already exists."
	msgWardAdminTaken = "ward with this ward admin already exists."
)

type WardService struct {
	DB *gorm.DB
}

func newestMeetingsFirst(db *gorm.DB) *gorm.DB {
	return db.Order("meeting_date DESC").Order("id DESC")
}

func (s *WardService) ListWards() ([]Ward, error) {
	var wards []Ward
	if err := s.DB.Preload("Meetings", newestMeetingsFirst).Order("id ASC").Find(&wards).Error; err != nil {
		return nil, err
	}
	return wards, nil
}

func (s *WardService) GetWard(id string) (*Ward, error) {
	return s.getWard(s.DB, id)
}

func (s *WardService) getWard(tx *gorm.DB, id string) (*Ward, error) {
	var ward Ward
	if err := tx.Preload("Meetings", newestMeetingsFirst).Where("id = ?", id).First(&ward).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWardNotFound
		}
		return nil, err
	}
	return &ward, nil
}

func (s *WardService) ListMeetings(wardID string) ([]Meeting, error) {
	var count int64
	if err := s.DB.Model(&Ward{}).Where("id = ?", wardID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrWardNotFound
	}

	meetings := []Meeting{}
	if err := newestMeetingsFirst(s.DB.Where("ward_id = ?", wardID)).Find(&meetings).Error; err != nil {
		return nil, err
	}
	return meetings, nil
}

func (s *WardService) CreateWard(input WardInput) (*Ward, error) {
	if input.ID == nil || input.WardName == nil || input.MeetingDay == nil ||
		input.MeetingTime == nil || input.Venue == nil || input.StartDate == nil {
		return nil, ValidationError{NonFieldErrors: {"Incomplete ward payload."}}
	}

	ward := Ward{
		ID:             *input.ID,
		WardName:       *input.WardName,
		MeetingDay:     *input.MeetingDay,
		MeetingTime:    *input.MeetingTime,
		Venue:          *input.Venue,
		FrequencyWeeks: DefaultFrequencyWeeks,
		StartDate:      *input.StartDate,
	}
	if input.FrequencyWeeks != nil {
		ward.FrequencyWeeks = *input.FrequencyWeeks
	}
	if input.WardAdminSet {
		ward.WardAdminID = input.WardAdmin
	}

	var created *Ward
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		verr := ValidationError{}

		taken, err := exists(tx, &Ward{}, "id = ?", ward.ID)
		if err != nil {
			return err
		}
		if taken {
			verr.Add("id", msgWardIDTaken)
		}
		if err := checkWardUnique(tx, "", input, verr); err != nil {
			return err
		}
		if !verr.Empty() {
			return verr
		}

		if err := tx.Omit("Meetings", "WardAdmin").Create(&ward).Error; err != nil {
			return uniqueViolationToValidation(err)
		}

		created, err = s.getWard(tx, ward.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateWard applies the fields present in input. Partial and full updates
// share this path; the decoding mode decides which fields are required.
func (s *WardService) UpdateWard(id string, input WardInput) (*Ward, error) {
	var updated *Ward
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var current Ward
		if err := tx.Where("id = ?", id).First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWardNotFound
			}
			return err
		}

		verr := ValidationError{}
		if err := checkWardUnique(tx, id, input, verr); err != nil {
			return err
		}
		if !verr.Empty() {
			return verr
		}

		changes := wardChanges(input)
		if len(changes) > 0 {
			if err := tx.Model(&current).Updates(changes).Error; err != nil {
				return uniqueViolationToValidation(err)
			}
		}

		var err error
		updated, err = s.getWard(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func wardChanges(input WardInput) map[string]interface{} {
	changes := map[string]interface{}{}
	if input.WardName != nil {
		changes["ward_name"] = *input.WardName
	}
	if input.MeetingDay != nil {
		changes["meeting_day"] = *input.MeetingDay
	}
	if input.MeetingTime != nil {
		changes["meeting_time"] = *input.MeetingTime
	}
	if input.Venue != nil {
		changes["venue"] = *input.Venue
	}
	if input.FrequencyWeeks != nil {
		changes["frequency_weeks"] = *input.FrequencyWeeks
	}
	if input.StartDate != nil {
		changes["start_date"] = *input.StartDate
	}
	if input.WardAdminSet {
		if input.WardAdmin == nil {
			changes["ward_admin_id"] = nil
		} else {
			changes["ward_admin_id"] = *input.WardAdmin
		}
	}
	return changes
}

// DeleteWard removes the ward and its meetings and returns the number of
// meetings removed.
func (s *WardService) DeleteWard(id string) (int64, error) {
	var removed int64
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var ward Ward
		if err := tx.Where("id = ?", id).First(&ward).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWardNotFound
			}
			return err
		}

		res := tx.Where("ward_id = ?", id).Delete(&Meeting{})
		if res.Error != nil {
			return fmt.Errorf("delete meetings: %w", res.Error)
		}
		removed = res.RowsAffected

		return tx.Where("id = ?", id).Delete(&Ward{}).Error
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// checkWardUnique validates name and admin uniqueness plus admin existence.
// selfID is empty on create.
func checkWardUnique(tx *gorm.DB, selfID string, input WardInput, verr ValidationError) error {
	if input.WardName != nil {
		q := tx.Model(&Ward{}).Where("ward_name = ?", *input.WardName)
		if selfID != "" {
			q = q.Where("id <> ?", selfID)
		}
		var count int64
		if err := q.Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			verr.Add("ward_name", msgWardNameTaken)
		}
	}

	if input.WardAdminSet && input.WardAdmin != nil {
		adminID := *input.WardAdmin

		found, err := exists(tx, &auth.Admin{}, "id = ?", adminID)
		if err != nil {
			return err
		}
		if !found {
			verr.Add("ward_admin", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", adminID))
			return nil
		}

		q := tx.Model(&Ward{}).Where("ward_admin_id = ?", adminID)
		if selfID != "" {
			q = q.Where("id <> ?", selfID)
		}
		var count int64
		if err := q.Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			verr.Add("ward_admin", msgWardAdminTaken)
		}
	}
	return nil
}

func exists(tx *gorm.DB, model interface{}, query string, args ...interface{}) (bool, error) {
	var count int64
	if err := tx.Model(model).Where(query, args...).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "UNIQUE constraint")
}

// uniqueViolationToValidation covers writes that raced past the pre-checks.
func uniqueViolationToValidation(err error) error {
	if !isUniqueViolation(err) {
		return err
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "ward_name"):
		return ValidationError{"ward_name": {msgWardNameTaken}}
	case strings.Contains(msg, "ward_admin"):
		return ValidationError{"ward_admin": {msgWardAdminTaken}}
	case strings.Contains(msg, "meeting_date"), strings.Contains(msg, "idx_meeting_ward_date"):
		return ValidationError{NonFieldErrors: {msgMeetingNotUnique}}
	default:
		return ValidationError{"id": {msgWardIDTaken}}
	}
}
