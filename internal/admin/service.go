package admin

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ward-calendar-api/internal/auth"
	"ward-calendar-api/internal/util"
	"ward-calendar-api/internal/ward"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type AdminService struct {
	DB *gorm.DB

	now func() time.Time
}

func (as *AdminService) clock() time.Time {
	if as.now != nil {
		return as.now()
	}
	return time.Now()
}

func (as *AdminService) Summary() (*Summary, error) {
	out := &Summary{}

	if err := as.DB.Model(&ward.Ward{}).Count(&out.Wards).Error; err != nil {
		return nil, err
	}
	if err := as.DB.Model(&ward.Ward{}).Where("ward_admin_id IS NOT NULL").Count(&out.WardsWithAdmins).Error; err != nil {
		return nil, err
	}
	if err := as.DB.Model(&ward.Meeting{}).Count(&out.Meetings).Error; err != nil {
		return nil, err
	}
	if err := as.DB.Model(&ward.Meeting{}).Where("is_cancelled = ?", true).Count(&out.CancelledCount).Error; err != nil {
		return nil, err
	}
	if err := as.DB.Model(&auth.Admin{}).Count(&out.Admins).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ExportWards renders every ward with its meetings. xlsx carries one sheet
// per table; csv is one row per meeting with the ward columns repeated.
func (as *AdminService) ExportWards(format string) (contentType, filename string, out []byte, err error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" || format == "excel" {
		format = FormatXLSX
	}
	if format != FormatXLSX && format != FormatCSV {
		return "", "", nil, fmt.Errorf("unsupported format %q (use xlsx or csv)", format)
	}

	wards, err := (&ward.WardService{DB: as.DB}).ListWards()
	if err != nil {
		return "", "", nil, err
	}

	ts := as.clock().Format("20060102_150405")
	if format == FormatCSV {
		b, err := buildCSV(wards)
		if err != nil {
			return "", "", nil, err
		}
		return "text/csv; charset=utf-8", fmt.Sprintf("wards_%s.csv", ts), b, nil
	}

	b, err := buildXLSX(wards)
	if err != nil {
		return "", "", nil, err
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", fmt.Sprintf("wards_%s.xlsx", ts), b, nil
}

func wardValues(w *ward.Ward) []string {
	admin := ""
	if w.WardAdminID != nil {
		admin = strconv.Itoa(*w.WardAdminID)
	}
	return []string{
		w.ID,
		w.WardName,
		w.MeetingDay,
		w.MeetingTime,
		w.Venue,
		strconv.Itoa(w.FrequencyWeeks),
		util.FormatDate(w.StartDate),
		admin,
		strconv.Itoa(len(w.Meetings)),
	}
}

func meetingValues(w *ward.Ward, m *ward.Meeting) []string {
	return []string{
		w.ID,
		w.WardName,
		strconv.FormatUint(uint64(m.ID), 10),
		util.FormatDate(m.MeetingDate),
		m.MeetingTime,
		m.Venue,
		deref(m.Agenda),
		deref(m.Notes),
		strconv.FormatBool(m.IsCancelled),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func buildCSV(wards []ward.Ward) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	header := append([]string{}, wardColumns...)
	header = append(header, meetingColumns[2:]...)
	if err := w.Write(header); err != nil {
		return nil, err
	}

	blankMeeting := make([]string, len(meetingColumns)-2)
	for i := range wards {
		wv := wardValues(&wards[i])
		if len(wards[i].Meetings) == 0 {
			if err := w.Write(append(wv, blankMeeting...)); err != nil {
				return nil, err
			}
			continue
		}
		for j := range wards[i].Meetings {
			mv := meetingValues(&wards[i], &wards[i].Meetings[j])
			rec := append(append([]string{}, wv...), mv[2:]...)
			if err := w.Write(rec); err != nil {
				return nil, err
			}
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

// ---- XLSX (cancelled meetings highlighted) ----

func buildXLSX(wards []ward.Ward) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#E2E8F0"}},
	})

	cancelledStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Strike: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#FFFF00"}},
	})

	defaultSheet := f.GetSheetName(0)

	if _, err := f.NewSheet("Wards"); err != nil {
		return nil, err
	}
	sw, err := f.NewStreamWriter("Wards")
	if err != nil {
		return nil, err
	}
	if err := sw.SetRow("A1", headerCells(wardColumns, headerStyle)); err != nil {
		return nil, err
	}
	for i := range wards {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, plainCells(wardValues(&wards[i]))); err != nil {
			return nil, err
		}
	}
	if err := sw.Flush(); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet("Meetings"); err != nil {
		return nil, err
	}
	sw, err = f.NewStreamWriter("Meetings")
	if err != nil {
		return nil, err
	}
	if err := sw.SetRow("A1", headerCells(meetingColumns, headerStyle)); err != nil {
		return nil, err
	}
	rowNum := 2
	for i := range wards {
		for j := range wards[i].Meetings {
			m := &wards[i].Meetings[j]
			values := meetingValues(&wards[i], m)

			row := plainCells(values)
			if m.IsCancelled {
				row = make([]interface{}, 0, len(values))
				for _, v := range values {
					row = append(row, excelize.Cell{Value: v, StyleID: cancelledStyle})
				}
			}

			cell, _ := excelize.CoordinatesToCellName(1, rowNum)
			if err := sw.SetRow(cell, row); err != nil {
				return nil, err
			}
			rowNum++
		}
	}
	if err := sw.Flush(); err != nil {
		return nil, err
	}

	if defaultSheet != "" && defaultSheet != "Wards" {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func headerCells(cols []string, style int) []interface{} {
	out := make([]interface{}, 0, len(cols))
	for _, c := range cols {
		out = append(out, excelize.Cell{Value: c, StyleID: style})
	}
	return out
}

func plainCells(values []string) []interface{} {
	out := make([]interface{}, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return out
}
