package handlers

import (
	"net/http"

	"bitbucket.org/sitestack/sitebooks_backend/middlewares"
	"bitbucket.org/sitestack/sitebooks_backend/models"
	"bitbucket.org/sitestack/sitebooks_backend/workflow"
	"github.com/gin-gonic/gin"
)

func Login(c *gin.Context) {
	var input workflow.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondInvalidInput(c, err)
		return
	}
	result, err := workflow.Login(middlewares.CtxValue(c), input)
	if err != nil {
		RespondError(c, "AuthHandler.go", "Login", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func CreateUser(c *gin.Context) {
	p, ok := middlewares.RequirePrincipal(c)
	if !ok {
		return
	}
	var input models.NewUser
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondInvalidInput(c, err)
		return
	}
	user, err := workflow.CreateUser(middlewares.CtxValue(c), p, input)
	if err != nil {
		RespondError(c, "AuthHandler.go", "CreateUser", err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func ListUsers(c *gin.Context) {
	p, ok := middlewares.RequirePrincipal(c)
	if !ok {
		return
	}
	users, err := workflow.ListUsers(middlewares.CtxValue(c), p)
	if err != nil {
		RespondError(c, "AuthHandler.go", "ListUsers", err)
		return
	}
	c.JSON(http.StatusOK, users)
}
