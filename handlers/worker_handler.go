package handlers

import (
	"net/http"

	"bitbucket.org/sitestack/sitebooks_backend/middlewares"
	"bitbucket.org/sitestack/sitebooks_backend/models"
	"bitbucket.org/sitestack/sitebooks_backend/workflow"
	"github.com/gin-gonic/gin"
)

func CreateWorker(c *gin.Context) {
	p, ok := middlewares.RequirePrincipal(c)
	if !ok {
		return
	}
	var input models.NewWorker
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondInvalidInput(c, err)
		return
	}
	worker, err := workflow.CreateWorker(middlewares.CtxValue(c), p, input)
	if err != nil {
		RespondError(c, "WorkerHandler.go", "CreateWorker", err)
		return
	}
	c.JSON(http.StatusCreated, worker)
}

func UpdateWorker(c *gin.Context) {
	p, ok := middlewares.RequirePrincipal(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.UpdateWorkerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondInvalidInput(c, err)
		return
	}
	worker, err := workflow.UpdateWorker(middlewares.CtxValue(c), p, id, input)
	if err != nil {
		RespondError(c, "WorkerHandler.go", "UpdateWorker", err)
		return
	}
	c.JSON(http.StatusOK, worker)
}

type reassignWorkerPayload struct {
	ProjectId *int `json:"projectId"`
}

func ReassignWorker(c *gin.Context) {
	p, ok := middlewares.RequirePrincipal(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var payload reassignWorkerPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		RespondInvalidInput(c, err)
		return
	}
	worker, err := workflow.ReassignWorker(middlewares.CtxValue(c), p, id, payload.ProjectId)
	if err != nil {
		RespondError(c, "WorkerHandler.go", "ReassignWorker", err)
		return
	}
	c.JSON(http.StatusOK, worker)
}

func ListWorkers(c *gin.Context) {
	p, ok := middlewares.RequirePrincipal(c)
	if !ok {
		return
	}
	var filter workflow.WorkerFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		RespondInvalidInput(c, err)
		return
	}
	workers, err := workflow.ListWorkers(middlewares.CtxValue(c), p, filter)
	if err != nil {
		RespondError(c, "WorkerHandler.go", "ListWorkers", err)
		return
	}
	c.JSON(http.StatusOK, workers)
}

func GetWorker(c *gin.Context) {
	p, ok := middlewares.RequirePrincipal(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	worker, err := workflow.GetWorker(middlewares.CtxValue(c), p, id)
	if err != nil {
		RespondError(c, "WorkerHandler.go", "GetWorker", err)
		return
	}
	c.JSON(http.StatusOK, worker)
}
