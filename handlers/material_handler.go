package handlers

import (
	"net/http"
	"strconv"

	"bitbucket.org/sitestack/sitebooks_backend/middlewares"
	"bitbucket.org/sitestack/sitebooks_backend/models"
	"bitbucket.org/sitestack/sitebooks_backend/workflow"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func idParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func queryIntParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil || v <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return v, true
}

func CreateMaterial(c *gin.Context) {
	p, ok := middlewares.RequirePrincipal(c)
	if !ok {
		return
	}
	var input models.NewMaterial
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondInvalidInput(c, err)
		return
	}
	material, err := workflow.CreateMaterial(middlewares.CtxValue(c), p, input)
	if err != nil {
		RespondError(c, "MaterialHandler.go", "CreateMaterial", err)
		return
	}
	c.JSON(http.StatusCreated, material)
}

type approveMaterialPayload struct {
	ApprovedQuantity decimal.NullDecimal `json:"approved_quantity"`
}

func ApproveMaterial(c *gin.Context) {
	p, ok := middlewares.RequirePrincipal(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var payload approveMaterialPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		RespondInvalidInput(c, err)
		return
	}
	material, err := workflow.ApproveMaterial(middlewares.CtxValue(c), p, id, payload.ApprovedQuantity)
	if err != nil {
		RespondError(c, "MaterialHandler.go", "ApproveMaterial", err)
		return
	}
	c.JSON(http.StatusOK, material)
}

func RejectMaterial(c *gin.Context) {
	p, ok := middlewares.RequirePrincipal(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	material, err := workflow.RejectMaterial(middlewares.CtxValue(c), p, id)
	if err != nil {
		RespondError(c, "MaterialHandler.go", "RejectMaterial", err)
		return
	}
	c.JSON(http.StatusOK, material)
}

type receiveMaterialPayload struct {
	ReceivedQuantity decimal.NullDecimal `json:"received_quantity"`
	Cost             *decimal.Decimal    `json:"cost"`
}

func ReceiveMaterial(c *gin.Context) {
	p, ok := middlewares.RequirePrincipal(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var payload receiveMaterialPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		RespondInvalidInput(c, err)
		return
	}
	result, err := workflow.ReceiveMaterial(middlewares.CtxValue(c), p, id, payload.ReceivedQuantity, payload.Cost)
	if err != nil {
		RespondError(c, "MaterialHandler.go", "ReceiveMaterial", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type consumeMaterialPayload struct {
	Quantity decimal.Decimal `json:"quantity"`
}

func ConsumeMaterial(c *gin.Context) {
	p, ok := middlewares.RequirePrincipal(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var payload consumeMaterialPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		RespondInvalidInput(c, err)
		return
	}
	material, err := workflow.ConsumeMaterial(middlewares.CtxValue(c), p, id, payload.Quantity)
	if err != nil {
		RespondError(c, "MaterialHandler.go", "ConsumeMaterial", err)
		return
	}
	c.JSON(http.StatusOK, material)
}

func UpdateMaterial(c *gin.Context) {
	p, ok := middlewares.RequirePrincipal(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.UpdateMaterialInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondInvalidInput(c, err)
		return
	}
	material, err := workflow.UpdateMaterial(middlewares.CtxValue(c), p, id, input)
	if err != nil {
		RespondError(c, "MaterialHandler.go", "UpdateMaterial", err)
		return
	}
	c.JSON(http.StatusOK, material)
}

type setMaterialStatusPayload struct {
	Status models.MaterialStatus `json:"status" binding:"required"`
}

func SetMaterialStatus(c *gin.Context) {
	p, ok := middlewares.RequirePrincipal(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var payload setMaterialStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		RespondInvalidInput(c, err)
		return
	}
	material, err := workflow.SetMaterialStatus(middlewares.CtxValue(c), p, id, payload.Status)
	if err != nil {
		RespondError(c, "MaterialHandler.go", "SetMaterialStatus", err)
		return
	}
	c.JSON(http.StatusOK, material)
}

func ListMaterials(c *gin.Context) {
	p, ok := middlewares.RequirePrincipal(c)
	if !ok {
		return
	}
	var filter workflow.MaterialFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		RespondInvalidInput(c, err)
		return
	}
	materials, err := workflow.ListMaterials(middlewares.CtxValue(c), p, filter)
	if err != nil {
		RespondError(c, "MaterialHandler.go", "ListMaterials", err)
		return
	}
	c.JSON(http.StatusOK, materials)
}

func GetMaterial(c *gin.Context) {
	p, ok := middlewares.RequirePrincipal(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	material, err := workflow.GetMaterial(middlewares.CtxValue(c), p, id)
	if err != nil {
		RespondError(c, "MaterialHandler.go", "GetMaterial", err)
		return
	}
	c.JSON(http.StatusOK, material)
}
