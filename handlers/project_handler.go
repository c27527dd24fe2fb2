package handlers

import (
	"net/http"

	"bitbucket.org/sitestack/sitebooks_backend/middlewares"
	"bitbucket.org/sitestack/sitebooks_backend/models"
	"bitbucket.org/sitestack/sitebooks_backend/workflow"
	"github.com/gin-gonic/gin"
)

func CreateProject(c *gin.Context) {
	p, ok := middlewares.RequirePrincipal(c)
	if !ok {
		return
	}
	var input models.NewProject
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondInvalidInput(c, err)
		return
	}
	project, err := workflow.CreateProject(middlewares.CtxValue(c), p, input)
	if err != nil {
		RespondError(c, "ProjectHandler.go", "CreateProject", err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func UpdateProject(c *gin.Context) {
	p, ok := middlewares.RequirePrincipal(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.UpdateProjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondInvalidInput(c, err)
		return
	}
	project, err := workflow.UpdateProject(middlewares.CtxValue(c), p, id, input)
	if err != nil {
		RespondError(c, "ProjectHandler.go", "UpdateProject", err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func DeleteProject(c *gin.Context) {
	p, ok := middlewares.RequirePrincipal(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := workflow.DeleteProject(middlewares.CtxValue(c), p, id); err != nil {
		RespondError(c, "ProjectHandler.go", "DeleteProject", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func ListProjects(c *gin.Context) {
	p, ok := middlewares.RequirePrincipal(c)
	if !ok {
		return
	}
	projects, err := workflow.ListProjects(middlewares.CtxValue(c), p)
	if err != nil {
		RespondError(c, "ProjectHandler.go", "ListProjects", err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

func GetProject(c *gin.Context) {
	p, ok := middlewares.RequirePrincipal(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	project, err := workflow.GetProject(middlewares.CtxValue(c), p, id)
	if err != nil {
		RespondError(c, "ProjectHandler.go", "GetProject", err)
		return
	}
	c.JSON(http.StatusOK, project)
}
