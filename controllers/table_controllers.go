package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/table-reservation/database"
	"github.com/yeremiapane/table-reservation/models"
	"github.com/yeremiapane/table-reservation/services"
	"github.com/yeremiapane/table-reservation/utils"
)

type TableController struct {
	Store     database.Repository
	Publisher services.Publisher
}

func NewTableController(store database.Repository, pub services.Publisher) *TableController {
	return &TableController{Store: store, Publisher: pub}
}

// GetAllTables -> GET /admin/tables
func (tc *TableController) GetAllTables(c *gin.Context) {
	tables, err := tc.Store.ListTables(c.Request.Context())
	if err != nil {
		respondServerError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// GetTableByID -> GET /admin/tables/:id
func (tc *TableController) GetTableByID(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	table, err := tc.Store.GetTable(c.Request.Context(), id)
	if err != nil {
		respondServerError(c, err)
		return
	}
	if table == nil {
		utils.RespondJSON(c, http.StatusNotFound, "Table not found", nil)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// UpdateTableStatus -> PUT /admin/tables/:id
func (tc *TableController) UpdateTableStatus(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	var body struct {
		Status models.TableStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !body.Status.Valid() {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid table status %q", body.Status))
		return
	}

	ctx := c.Request.Context()
	ok, err := tc.Store.UpdateTableStatus(ctx, id, body.Status)
	if err != nil {
		respondServerError(c, err)
		return
	}
	if !ok {
		utils.RespondJSON(c, http.StatusNotFound, "Table not found", nil)
		return
	}
	table, err := tc.Store.GetTable(ctx, id)
	if err != nil {
		respondServerError(c, err)
		return
	}

	if tc.Publisher != nil {
		tc.Publisher.Publish(services.EventTableUpdated, table)
	}
	utils.InfoLogger.Printf("Table %d status set to %s", id, body.Status)
	utils.RespondJSON(c, http.StatusOK, "Table status updated", table)
}
