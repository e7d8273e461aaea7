package ward

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

const msgMeetingNotUnique = "The fields ward, meeting_date must make a unique set."

// AllMeetings lists meetings across wards, newest first, optionally limited
// to one ward.
func (s *WardService) AllMeetings(wardID string) ([]Meeting, error) {
	q := s.DB.Model(&Meeting{})
	if wardID != "" {
		q = q.Where("ward_id = ?", wardID)
	}

	meetings := []Meeting{}
	if err := newestMeetingsFirst(q).Find(&meetings).Error; err != nil {
		return nil, err
	}
	return meetings, nil
}

func (s *WardService) GetMeeting(id uint) (*Meeting, error) {
	var meeting Meeting
	if err := s.DB.Where("id = ?", id).First(&meeting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMeetingNotFound
		}
		return nil, err
	}
	return &meeting, nil
}

func (s *WardService) CreateMeeting(input MeetingInput) (*Meeting, error) {
	if input.WardID == nil || input.MeetingDate == nil || input.MeetingTime == nil || input.Venue == nil {
		return nil, ValidationError{NonFieldErrors: {"Incomplete meeting payload."}}
	}

	meeting := Meeting{
		WardID:      *input.WardID,
		MeetingDate: *input.MeetingDate,
		MeetingTime: *input.MeetingTime,
		Venue:       *input.Venue,
		Agenda:      input.Agenda,
		Notes:       input.Notes,
	}
	if input.IsCancelled != nil {
		meeting.IsCancelled = *input.IsCancelled
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := checkMeetingUnique(tx, 0, meeting.WardID, meeting); err != nil {
			return err
		}
		if err := tx.Omit("Ward").Create(&meeting).Error; err != nil {
			return uniqueViolationToValidation(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &meeting, nil
}

func (s *WardService) UpdateMeeting(id uint, input MeetingInput) (*Meeting, error) {
	var updated Meeting
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&updated).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMeetingNotFound
			}
			return err
		}

		changes := map[string]interface{}{}
		if input.WardID != nil {
			updated.WardID = *input.WardID
			changes["ward_id"] = *input.WardID
		}
		if input.MeetingDate != nil {
			updated.MeetingDate = *input.MeetingDate
			changes["meeting_date"] = *input.MeetingDate
		}
		if input.MeetingTime != nil {
			changes["meeting_time"] = *input.MeetingTime
		}
		if input.Venue != nil {
			changes["venue"] = *input.Venue
		}
		if input.IsCancelled != nil {
			changes["is_cancelled"] = *input.IsCancelled
		}
		if input.AgendaSet {
			changes["agenda"] = nullableText(input.Agenda)
		}
		if input.NotesSet {
			changes["notes"] = nullableText(input.Notes)
		}

		if err := checkMeetingUnique(tx, id, updated.WardID, updated); err != nil {
			return err
		}
		if len(changes) == 0 {
			return nil
		}
		if err := tx.Model(&Meeting{}).Where("id = ?", id).Updates(changes).Error; err != nil {
			return uniqueViolationToValidation(err)
		}
		return tx.Where("id = ?", id).First(&updated).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *WardService) DeleteMeeting(id uint) (*Meeting, error) {
	var meeting Meeting
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&meeting).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMeetingNotFound
			}
			return err
		}
		return tx.Delete(&Meeting{}, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &meeting, nil
}

// checkMeetingUnique verifies the ward exists and that no other meeting
// shares its date. selfID is zero on create.
func checkMeetingUnique(tx *gorm.DB, selfID uint, wardID string, m Meeting) error {
	found, err := exists(tx, &Ward{}, "id = ?", wardID)
	if err != nil {
		return err
	}
	if !found {
		return ValidationError{"ward": {fmt.Sprintf("Invalid pk \"%s\" - object does not exist.", wardID)}}
	}

	q := tx.Model(&Meeting{}).Where("ward_id = ? AND meeting_date = ?", wardID, m.MeetingDate)
	if selfID != 0 {
		q = q.Where("id <> ?", selfID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ValidationError{NonFieldErrors: {msgMeetingNotUnique}}
	}
	return nil
}

func nullableText(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}
