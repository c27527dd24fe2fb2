package handlers

import (
	"net/http"

	"bitbucket.org/sitestack/sitebooks_backend/middlewares"
	"bitbucket.org/sitestack/sitebooks_backend/models"
	"bitbucket.org/sitestack/sitebooks_backend/workflow"
	"github.com/gin-gonic/gin"
)

func RecordAttendance(c *gin.Context) {
	p, ok := middlewares.RequirePrincipal(c)
	if !ok {
		return
	}
	var input models.NewAttendance
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondInvalidInput(c, err)
		return
	}
	attendance, err := workflow.RecordAttendance(middlewares.CtxValue(c), p, input)
	if err != nil {
		RespondError(c, "AttendanceHandler.go", "RecordAttendance", err)
		return
	}
	c.JSON(http.StatusCreated, attendance)
}

func UpdateAttendance(c *gin.Context) {
	p, ok := middlewares.RequirePrincipal(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.UpdateAttendanceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondInvalidInput(c, err)
		return
	}
	attendance, err := workflow.UpdateAttendance(middlewares.CtxValue(c), p, id, input)
	if err != nil {
		RespondError(c, "AttendanceHandler.go", "UpdateAttendance", err)
		return
	}
	c.JSON(http.StatusOK, attendance)
}

func DeleteAttendance(c *gin.Context) {
	p, ok := middlewares.RequirePrincipal(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := workflow.DeleteAttendance(middlewares.CtxValue(c), p, id); err != nil {
		RespondError(c, "AttendanceHandler.go", "DeleteAttendance", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func ListAttendance(c *gin.Context) {
	p, ok := middlewares.RequirePrincipal(c)
	if !ok {
		return
	}
	var filter workflow.AttendanceFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		RespondInvalidInput(c, err)
		return
	}
	records, err := workflow.ListAttendance(middlewares.CtxValue(c), p, filter)
	if err != nil {
		RespondError(c, "AttendanceHandler.go", "ListAttendance", err)
		return
	}
	c.JSON(http.StatusOK, records)
}
