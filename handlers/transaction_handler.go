package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"bitbucket.org/sitestack/sitebooks_backend/middlewares"
	"bitbucket.org/sitestack/sitebooks_backend/models"
	"bitbucket.org/sitestack/sitebooks_backend/models/reports"
	"bitbucket.org/sitestack/sitebooks_backend/workflow"
	"github.com/gin-gonic/gin"
)

func CreateTransaction(c *gin.Context) {
	p, ok := middlewares.RequirePrincipal(c)
	if !ok {
		return
	}
	var input models.NewTransaction
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondInvalidInput(c, err)
		return
	}
	txn, err := workflow.CreateTransaction(middlewares.CtxValue(c), p, input)
	if err != nil {
		RespondError(c, "TransactionHandler.go", "CreateTransaction", err)
		return
	}
	c.JSON(http.StatusCreated, txn)
}

func UpdateTransaction(c *gin.Context) {
	p, ok := middlewares.RequirePrincipal(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.UpdateTransactionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondInvalidInput(c, err)
		return
	}
	txn, err := workflow.UpdateTransaction(middlewares.CtxValue(c), p, id, input)
	if err != nil {
		RespondError(c, "TransactionHandler.go", "UpdateTransaction", err)
		return
	}
	c.JSON(http.StatusOK, txn)
}

func DeleteTransaction(c *gin.Context) {
	p, ok := middlewares.RequirePrincipal(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := workflow.DeleteTransaction(middlewares.CtxValue(c), p, id); err != nil {
		RespondError(c, "TransactionHandler.go", "DeleteTransaction", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func ListTransactions(c *gin.Context) {
	p, ok := middlewares.RequirePrincipal(c)
	if !ok {
		return
	}
	var filter workflow.TransactionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		RespondInvalidInput(c, err)
		return
	}
	txns, err := workflow.ListTransactions(middlewares.CtxValue(c), p, filter)
	if err != nil {
		RespondError(c, "TransactionHandler.go", "ListTransactions", err)
		return
	}
	c.JSON(http.StatusOK, txns)
}

func GetTransaction(c *gin.Context) {
	p, ok := middlewares.RequirePrincipal(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	txn, err := workflow.GetTransaction(middlewares.CtxValue(c), p, id)
	if err != nil {
		RespondError(c, "TransactionHandler.go", "GetTransaction", err)
		return
	}
	c.JSON(http.StatusOK, txn)
}

// ProjectTransactionSummary accepts ?project_ids=1,2,3; with none given it
// covers the principal's whole scope.
func ProjectTransactionSummary(c *gin.Context) {
	p, ok := middlewares.RequirePrincipal(c)
	if !ok {
		return
	}
	var projectIds []int
	if raw := c.Query("project_ids"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil || id <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project_ids"})
				return
			}
			projectIds = append(projectIds, id)
		}
	}
	summaries, err := workflow.ProjectTransactionSummaries(middlewares.CtxValue(c), p, projectIds)
	if err != nil {
		RespondError(c, "TransactionHandler.go", "ProjectTransactionSummary", err)
		return
	}
	c.JSON(http.StatusOK, summaries)
}

func WorkerPaymentSummary(c *gin.Context) {
	p, ok := middlewares.RequirePrincipal(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	summary, err := workflow.WorkerPayments(middlewares.CtxValue(c), p, id)
	if err != nil {
		RespondError(c, "TransactionHandler.go", "WorkerPaymentSummary", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func PayWorker(c *gin.Context) {
	p, ok := middlewares.RequirePrincipal(c)
	if !ok {
		return
	}
	var input workflow.PayWorkerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondInvalidInput(c, err)
		return
	}
	txn, err := workflow.PayWorker(middlewares.CtxValue(c), p, input)
	if err != nil {
		RespondError(c, "TransactionHandler.go", "PayWorker", err)
		return
	}
	c.JSON(http.StatusCreated, txn)
}

func ExportTransactions(c *gin.Context) {
	p, ok := middlewares.RequirePrincipal(c)
	if !ok {
		return
	}
	var filter workflow.TransactionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		RespondInvalidInput(c, err)
		return
	}
	f, err := reports.BuildTransactionWorkbook(middlewares.CtxValue(c), p, filter)
	if err != nil {
		RespondError(c, "TransactionHandler.go", "ExportTransactions", err)
		return
	}
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=transactions.xlsx")
	if err := f.Write(c.Writer); err != nil {
		RespondError(c, "TransactionHandler.go", "ExportTransactions", err)
	}
}
