package api

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"pawnshop-service/internal/models"
	"pawnshop-service/internal/service"
	"pawnshop-service/internal/store"
	"pawnshop-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	contracts *service.ContractService
	registry  *service.RegistryService
	reports   *service.ReportService
}

// NewHandler creates a new HTTP handler
func NewHandler(
	contracts *service.ContractService,
	registry *service.RegistryService,
	reports *service.ReportService,
) *Handler {
	return &Handler{
		contracts: contracts,
		registry:  registry,
		reports:   reports,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/customers", h.createCustomer)
		v1.GET("/customers", h.searchCustomers)
		v1.GET("/customers/:id", h.getCustomer)
		v1.PUT("/customers/:id", h.updateCustomer)
		v1.DELETE("/customers/:id", h.deleteCustomer)

		v1.POST("/products", h.createProduct)
		v1.GET("/products", h.searchProducts)
		v1.GET("/products/:id", h.getProduct)
		v1.PUT("/products/:id", h.updateProduct)
		v1.DELETE("/products/:id", h.deleteProduct)
		v1.POST("/products/:id/image", h.uploadProductImage)

		v1.POST("/contracts", h.createContract)
		v1.GET("/contracts", h.searchContracts)
		v1.GET("/contracts/expiring", h.getExpiringContracts)
		v1.GET("/contracts/forfeited", h.getForfeitedContracts)
		v1.GET("/contracts/:id", h.getContract)
		v1.GET("/contracts/:id/detail", h.getContractDetail)
		v1.PUT("/contracts/:id", h.updateContract)
		v1.DELETE("/contracts/:id", h.deleteContract)
		v1.POST("/contracts/:id/payments", h.recordPayment)
		v1.POST("/contracts/:id/renewals", h.renewContract)
		v1.POST("/contracts/:id/redeem", h.redeemContract)
		v1.POST("/contracts/:id/lost", h.markContractLost)

		v1.GET("/reports/daily", h.dailyReport)
		v1.GET("/reports/monthly", h.monthlyReport)

		v1.GET("/settings", h.listSettings)
		v1.PUT("/settings/:key", h.putSetting)

		v1.GET("/fee-rates", h.listFeeRates)
		v1.PUT("/fee-rates", h.putFeeRate)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// Customers

func (h *Handler) createCustomer(c *gin.Context) {
	var req service.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	customer, err := h.registry.CreateCustomer(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, customer)
}

func (h *Handler) searchCustomers(c *gin.Context) {
	customers, err := h.registry.SearchCustomers(c.Request.Context(), c.Query("q"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": customers})
}

func (h *Handler) getCustomer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	customer, err := h.registry.GetCustomer(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *Handler) updateCustomer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var customer models.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	customer.ID = id

	if err := h.registry.UpdateCustomer(c.Request.Context(), &customer); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *Handler) deleteCustomer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.registry.DeleteCustomer(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Products

func (h *Handler) createProduct(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	product, err := h.registry.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *Handler) searchProducts(c *gin.Context) {
	if serial := c.Query("serial"); serial != "" {
		product, err := h.registry.GetProductBySerial(c.Request.Context(), serial)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": []models.Product{*product}})
		return
	}

	products, err := h.registry.SearchProducts(c.Request.Context(), c.Query("q"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *Handler) getProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	product, err := h.registry.GetProduct(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) updateProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	product.ID = id

	if err := h.registry.UpdateProduct(c.Request.Context(), &product); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) deleteProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.registry.DeleteProduct(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) uploadProductImage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing image file", "details": err.Error()})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read image", "details": err.Error()})
		return
	}
	defer src.Close()

	path, err := h.registry.SaveProductImage(c.Request.Context(), id, filepath.Ext(file.Filename), src)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"image_path": path})
}

// Contracts

func (h *Handler) createContract(c *gin.Context) {
	var req service.CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	contract, err := h.contracts.CreateContract(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract)
}

func (h *Handler) searchContracts(c *gin.Context) {
	status := c.DefaultQuery("status", "all")
	contracts, err := h.contracts.SearchContracts(c.Request.Context(), c.Query("q"), status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contracts": contracts})
}

func (h *Handler) getContract(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	contract, err := h.contracts.GetContract(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (h *Handler) getContractDetail(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	detail, err := h.contracts.GetContractDetail(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *Handler) updateContract(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var contract models.Contract
	if err := c.ShouldBindJSON(&contract); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	contract.ID = id

	if err := h.contracts.UpdateContract(c.Request.Context(), &contract); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (h *Handler) deleteContract(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.contracts.DeleteContract(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) recordPayment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req service.RecordInterestPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	payment, err := h.contracts.RecordInterestPayment(c.Request.Context(), id, &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

func (h *Handler) renewContract(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req service.RenewContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	renewal, err := h.contracts.RenewContract(c.Request.Context(), id, &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, renewal)
}

func (h *Handler) redeemContract(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req service.RedeemContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	redemption, err := h.contracts.RedeemContract(c.Request.Context(), id, &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, redemption)
}

func (h *Handler) markContractLost(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.contracts.MarkLost(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) getExpiringContracts(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil || days < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid days parameter"})
		return
	}

	contracts, err := h.contracts.GetExpiringContracts(c.Request.Context(), days)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contracts": contracts})
}

func (h *Handler) getForfeitedContracts(c *gin.Context) {
	contracts, err := h.contracts.GetForfeitedContracts(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contracts": contracts})
}

// Reports

func (h *Handler) dailyReport(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = time.Now().Format(models.DateLayout)
	}
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	summary, err := h.reports.GetDailySummary(c.Request.Context(), date)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) monthlyReport(c *gin.Context) {
	now := time.Now()
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
		return
	}
	month, err := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))
	if err != nil || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month"})
		return
	}

	summary, err := h.reports.GetMonthlySummary(c.Request.Context(), year, month)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Settings and fee rates

func (h *Handler) listSettings(c *gin.Context) {
	settings, err := h.contracts.ListSettings(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

func (h *Handler) putSetting(c *gin.Context) {
	var body struct {
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	key := c.Param("key")
	if err := h.contracts.PutSetting(c.Request.Context(), key, body.Value); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.Setting{Key: key, Value: body.Value})
}

func (h *Handler) listFeeRates(c *gin.Context) {
	rates, err := h.contracts.ListFeeRates(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fee_rates": rates})
}

func (h *Handler) putFeeRate(c *gin.Context) {
	var body struct {
		Months      int     `json:"months" binding:"required,gt=0"`
		RatePercent float64 `json:"rate_percent" binding:"required,gte=0"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := h.contracts.PutFeeRate(c.Request.Context(), body.Months, body.RatePercent); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, body)
}

// pathID parses the :id path parameter, writing a 400 on failure
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return 0, false
	}
	return id, true
}

// writeError maps repository errors to HTTP statuses
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, store.ErrDuplicateContractNumber),
		errors.Is(err, store.ErrDuplicateCustomerCode),
		errors.Is(err, store.ErrDuplicateIDCard):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrStillReferenced),
		errors.Is(err, store.ErrHasChildren),
		errors.Is(err, store.ErrContractNotActive):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Operation failed", "details": err.Error()})
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
