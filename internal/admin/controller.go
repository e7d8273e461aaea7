package admin

import (
	"fmt"
	"net/http"
	"strconv"

	"ward-calendar-api/internal/logs"
	"ward-calendar-api/internal/middlewares"
	"ward-calendar-api/internal/ward"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
)

type AdminController struct {
	AdminService AdminServiceAPI
	Meetings     ward.MeetingServicePort
	LS           LogServicePort
}

// GET /admin/
func (ac *AdminController) Index(c *gin.Context) {
	summary, err := ac.AdminService.Summary()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "success",
		"data":    summary,
	})
}

// GET /admin/wards/export?format=xlsx|csv
func (ac *AdminController) ExportWards(c *gin.Context) {
	contentType, filename, data, err := ac.AdminService.ExportWards(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, contentType, data)
}

// GET /admin/meetings?ward_id=
func (ac *AdminController) ListMeetings(c *gin.Context) {
	var q MeetingListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meetings, err := ac.Meetings.AllMeetings(q.WardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]ward.AdminMeetingResponse, 0, len(meetings))
	for i := range meetings {
		out = append(out, ward.SerializeAdminMeeting(&meetings[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "success",
		"count":   len(out),
		"data":    out,
	})
}

func (ac *AdminController) GetMeeting(c *gin.Context) {
	id, ok := meetingID(c)
	if !ok {
		return
	}

	meeting, err := ac.Meetings.GetMeeting(id)
	if err != nil {
		ward.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, ward.SerializeAdminMeeting(meeting))
}

func (ac *AdminController) CreateMeeting(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	input, err := ward.DecodeMeetingInput(body, ward.ModeCreate)
	if err != nil {
		ward.WriteError(c, err)
		return
	}

	meeting, err := ac.Meetings.CreateMeeting(*input)
	if err != nil {
		ward.WriteError(c, err)
		return
	}

	ac.audit(c, logs.LevelInfo, "CREATE_MEETING", meeting)

	c.JSON(http.StatusCreated, ward.SerializeAdminMeeting(meeting))
}

// PUT replaces, PATCH applies the fields present.
func (ac *AdminController) UpdateMeeting(c *gin.Context) {
	id, ok := meetingID(c)
	if !ok {
		return
	}

	mode := ward.ModeReplace
	if c.Request.Method == http.MethodPatch {
		mode = ward.ModePartial
	}

	if _, err := ac.Meetings.GetMeeting(id); err != nil {
		ward.WriteError(c, err)
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	input, err := ward.DecodeMeetingInput(body, mode)
	if err != nil {
		ward.WriteError(c, err)
		return
	}

	meeting, err := ac.Meetings.UpdateMeeting(id, *input)
	if err != nil {
		ward.WriteError(c, err)
		return
	}

	ac.audit(c, logs.LevelInfo, "UPDATE_MEETING", meeting)

	c.JSON(http.StatusOK, ward.SerializeAdminMeeting(meeting))
}

func (ac *AdminController) DeleteMeeting(c *gin.Context) {
	id, ok := meetingID(c)
	if !ok {
		return
	}

	meeting, err := ac.Meetings.DeleteMeeting(id)
	if err != nil {
		ward.WriteError(c, err)
		return
	}

	ac.audit(c, logs.LevelWarn, "DELETE_MEETING", meeting)

	c.Status(http.StatusNoContent)
}

func meetingID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return 0, false
	}
	return uint(id), true
}

func (ac *AdminController) audit(c *gin.Context, level, action string, m *ward.Meeting) {
	entry := logs.SystemLog{
		Level:   level,
		Service: "meetings",
		Action:  action,
		Message: fmt.Sprintf("Meeting %d on %s for %s", m.ID, ward.SerializeMeeting(m).MeetingDate, m.WardID),
		WardIDs: pq.StringArray{m.WardID},
	}
	if id, ok := middlewares.CurrentAdminID(c); ok {
		uid := uint(id)
		entry.AdminID = &uid
	}

	if err := ac.LS.Log(entry, ward.SerializeAdminMeeting(m)); err != nil {
		fmt.Printf("Failed to insert log: %v\n", err)
	}
}
