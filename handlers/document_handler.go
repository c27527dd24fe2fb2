package handlers

import (
	"net/http"

	"bitbucket.org/sitestack/sitebooks_backend/middlewares"
	"bitbucket.org/sitestack/sitebooks_backend/models"
	"bitbucket.org/sitestack/sitebooks_backend/workflow"
	"github.com/gin-gonic/gin"
)

func UploadDocument(c *gin.Context) {
	p, ok := middlewares.RequirePrincipal(c)
	if !ok {
		return
	}
	var input models.NewDocument
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondInvalidInput(c, err)
		return
	}
	doc, err := workflow.UploadDocument(middlewares.CtxValue(c), p, input)
	if err != nil {
		RespondError(c, "DocumentHandler.go", "UploadDocument", err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

func DeleteDocument(c *gin.Context) {
	p, ok := middlewares.RequirePrincipal(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := workflow.DeleteDocument(middlewares.CtxValue(c), p, id); err != nil {
		RespondError(c, "DocumentHandler.go", "DeleteDocument", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func ListDocuments(c *gin.Context) {
	p, ok := middlewares.RequirePrincipal(c)
	if !ok {
		return
	}
	referenceType := c.Query("reference_type")
	referenceId, ok := queryIntParam(c, "reference_id")
	if !ok {
		return
	}
	docs, err := workflow.ListDocuments(middlewares.CtxValue(c), p, referenceType, referenceId)
	if err != nil {
		RespondError(c, "DocumentHandler.go", "ListDocuments", err)
		return
	}
	c.JSON(http.StatusOK, docs)
}
