package handlers

import (
	"net/http"

	"bitbucket.org/sitestack/sitebooks_backend/config"
	"bitbucket.org/sitestack/sitebooks_backend/utils"
	"github.com/gin-gonic/gin"
)

// RespondError maps the domain error taxonomy onto HTTP. Expected kinds are
// surfaced with detail; anything else is logged and returned generically so
// storage internals never leak.
func RespondError(c *gin.Context, moduleName string, funcName string, err error) {
	kind := utils.KindOf(err)
	switch kind {
	case utils.ErrorKindNotFound:
		c.JSON(http.StatusNotFound, errorBody(err))
	case utils.ErrorKindForbidden:
		c.JSON(http.StatusForbidden, errorBody(err))
	case utils.ErrorKindInvalidInput:
		c.JSON(http.StatusBadRequest, errorBody(err))
	case utils.ErrorKindConflict:
		c.JSON(http.StatusConflict, errorBody(err))
	default:
		cid := utils.GetCorrelationIdFromContext(c.Request.Context())
		config.LogError(config.GetLogger(), moduleName, funcName, "unexpected error", gin.H{"correlation_id": cid}, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func errorBody(err error) gin.H {
	body := gin.H{"error": err.Error()}
	if meta := utils.MetaOf(err); len(meta) > 0 {
		body["detail"] = meta
	}
	return body
}

func RespondInvalidInput(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
}
