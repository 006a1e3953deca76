package controllers

import (
	"bytes"
	"fmt"
	"net/http"

	"membergate/dto"
	"membergate/middleware"
	"membergate/response"
	"membergate/services"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type CheckinController struct {
	Attendance *services.AttendanceService
}

func NewCheckinController(attendance *services.AttendanceService) CheckinController {
	return CheckinController{Attendance: attendance}
}

func (ch CheckinController) RecordCheckin(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)

	record, err := ch.Attendance.RecordCheckin(c.Request.Context(), principal)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, dto.CheckinResponse{
		ID:        record.ID,
		MemberID:  record.MemberID,
		Timestamp: record.Timestamp,
	})
}

func (ch CheckinController) ListCheckins(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)

	entries, err := ch.Attendance.ListCheckins(c.Request.Context(), principal)
	if err != nil {
		response.FromError(c, err)
		return
	}

	result := make([]dto.CheckinEntryResponse, 0, len(entries))
	for _, entry := range entries {
		result = append(result, dto.CheckinEntryResponse{
			ID:        entry.ID,
			MemberID:  entry.MemberID,
			Code:      entry.Code,
			Name:      entry.DisplayName,
			Timestamp: entry.Timestamp,
		})
	}
	response.SuccessWithTotal(c, result, len(result))
}

// ExportCheckins renders the workbook into memory first so a failure can
// still be reported as JSON.
func (ch CheckinController) ExportCheckins(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)

	var buf bytes.Buffer
	if err := ch.Attendance.ExportCheckins(c.Request.Context(), principal, &buf); err != nil {
		response.FromError(c, err)
		return
	}

	filename := fmt.Sprintf("member-checkins-%s.xlsx", ch.Attendance.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
