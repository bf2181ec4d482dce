package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/table-reservation/database"
	"github.com/yeremiapane/table-reservation/models"
	"github.com/yeremiapane/table-reservation/utils"
)

type CustomerController struct {
	Store database.Repository
}

func NewCustomerController(store database.Repository) *CustomerController {
	return &CustomerController{Store: store}
}

// CreateCustomer -> POST /customers
func (cc *CustomerController) CreateCustomer(c *gin.Context) {
	var req struct {
		Name  string `json:"name" binding:"required"`
		Email string `json:"email" binding:"required,email"`
		Phone string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	customer := models.Customer{Name: req.Name, Email: req.Email, Phone: req.Phone}
	if err := cc.Store.CreateCustomer(c.Request.Context(), &customer); err != nil {
		respondServerError(c, err)
		return
	}

	utils.InfoLogger.Printf("Customer %d registered", customer.ID)
	utils.RespondJSON(c, http.StatusCreated, "Customer created successfully", customer)
}

// GetCustomerByID -> GET /customers/:id
func (cc *CustomerController) GetCustomerByID(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	customer, err := cc.Store.GetCustomer(c.Request.Context(), id)
	if err != nil {
		respondServerError(c, err)
		return
	}
	if customer == nil {
		utils.RespondJSON(c, http.StatusNotFound, "Customer not found", nil)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Customer detail", customer)
}
