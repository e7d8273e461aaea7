package ward

import (
	"errors"
	"fmt"
	"net/http"

	"ward-calendar-api/internal/logs"
	"ward-calendar-api/internal/middlewares"
	"ward-calendar-api/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

var notFound = gin.H{"detail": "Not found."}

type WardController struct {
	WardService WardServicePort
	LS          LogServicePort
}

func (wc *WardController) ListWards(c *gin.Context) {
	wards, err := wc.WardService.ListWards()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, SerializeWards(wards))
}

func (wc *WardController) GetWard(c *gin.Context) {
	ward, err := wc.WardService.GetWard(c.Param("id"))
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, SerializeWard(ward))
}

func (wc *WardController) GetWardMeetings(c *gin.Context) {
	meetings, err := wc.WardService.ListMeetings(c.Param("id"))
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, SerializeMeetings(meetings))
}

func (wc *WardController) CreateWard(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	input, err := DecodeWardInput(body, ModeCreate)
	if err != nil {
		WriteError(c, err)
		return
	}

	ward, err := wc.WardService.CreateWard(*input)
	if err != nil {
		WriteError(c, err)
		return
	}

	wc.audit(c, logs.LevelInfo, "CREATE_WARD", fmt.Sprintf("Ward created: %s", ward.WardName), ward.ID, auditChanges(input))

	c.JSON(http.StatusCreated, SerializeWard(ward))
}

// UpdateWard serves PATCH and the update_details action.
func (wc *WardController) UpdateWard(c *gin.Context) {
	wc.update(c, ModePartial)
}

func (wc *WardController) ReplaceWard(c *gin.Context) {
	wc.update(c, ModeReplace)
}

func (wc *WardController) update(c *gin.Context, mode Mode) {
	id := c.Param("id")

	if _, err := wc.WardService.GetWard(id); err != nil {
		WriteError(c, err)
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	input, err := DecodeWardInput(body, mode)
	if err != nil {
		WriteError(c, err)
		return
	}

	ward, err := wc.WardService.UpdateWard(id, *input)
	if err != nil {
		WriteError(c, err)
		return
	}

	wc.audit(c, logs.LevelInfo, "UPDATE_WARD", fmt.Sprintf("Ward updated: %s", ward.WardName), ward.ID, auditChanges(input))

	c.JSON(http.StatusOK, SerializeWard(ward))
}

func (wc *WardController) DeleteWard(c *gin.Context) {
	id := c.Param("id")

	removed, err := wc.WardService.DeleteWard(id)
	if err != nil {
		WriteError(c, err)
		return
	}

	wc.audit(c, logs.LevelWarn, "DELETE_WARD", fmt.Sprintf("Ward deleted: %s", id), id, gin.H{"meetings_removed": removed})

	c.Status(http.StatusNoContent)
}

func (wc *WardController) audit(c *gin.Context, level, action, message, wardID string, payload any) {
	entry := logs.SystemLog{
		Level:   level,
		Service: "wards",
		Action:  action,
		Message: message,
		WardIDs: pq.StringArray{wardID},
	}
	if id, ok := middlewares.CurrentAdminID(c); ok {
		uid := uint(id)
		entry.AdminID = &uid
	}

	if err := wc.LS.Log(entry, payload); err != nil {
		fmt.Printf("Failed to insert log: %v\n", err)
	}
}

// auditChanges keeps only the fields the request carried, so an absent
// ward_admin is not recorded as a clear.
func auditChanges(input *WardInput) map[string]interface{} {
	changes := wardChanges(*input)
	if input.ID != nil {
		changes["id"] = *input.ID
	}
	if d, ok := changes["start_date"].(datatypes.Date); ok {
		changes["start_date"] = util.FormatDate(d)
	}
	return changes
}

// WriteError maps service and decoding errors onto responses.
func WriteError(c *gin.Context, err error) {
	var verr ValidationError
	var perr *ParseError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, verr)
	case errors.As(err, &perr):
		c.JSON(http.StatusBadRequest, gin.H{"detail": perr.Error()})
	case errors.Is(err, ErrWardNotFound), errors.Is(err, ErrMeetingNotFound):
		c.JSON(http.StatusNotFound, notFound)
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
