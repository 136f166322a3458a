package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"camp-service/internal/gateway"
	"camp-service/internal/pricing"
	"camp-service/internal/service"
	"camp-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	registrations *service.RegistrationService
	checkout      *service.CheckoutService
	reconciler    *service.Reconciler
	admin         *service.AdminService
	gallery       *service.GalleryService
	adminToken    string
}

// NewHandler creates a new HTTP handler
func NewHandler(
	registrations *service.RegistrationService,
	checkout *service.CheckoutService,
	reconciler *service.Reconciler,
	admin *service.AdminService,
	gallery *service.GalleryService,
	adminToken string,
) *Handler {
	return &Handler{
		registrations: registrations,
		checkout:      checkout,
		reconciler:    reconciler,
		admin:         admin,
		gallery:       gallery,
		adminToken:    adminToken,
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
		v1.POST("/registrations", h.createRegistration)
		v1.POST("/checkout/sessions", h.createCheckoutSession)
		v1.GET("/checkout/sessions/:id", h.getCheckoutSession)
		v1.POST("/webhooks/payment", h.paymentWebhook)
		v1.GET("/gallery", h.listGallery)
	}

	admin := v1.Group("/admin")
	admin.Use(h.adminAuth())
	{
		admin.GET("/registrations", h.listRegistrations)
		admin.PATCH("/registrations/:id/status", h.updateRegistrationStatus)
		admin.GET("/stats", h.adminStats)
		admin.PATCH("/gallery/:id", h.updateGalleryPhoto)
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

// createRegistration handles registration submission
func (h *Handler) createRegistration(c *gin.Context) {
	var req service.CreateRegistrationRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	resp, err := h.registrations.Create(c.Request.Context(), &req)
	if err != nil {
		status := http.StatusInternalServerError
		msg := "Failed to create registration"
		if errors.Is(err, pricing.ErrUnknownPackage) ||
			errors.Is(err, service.ErrInvalidPhone) ||
			errors.Is(err, service.ErrInvalidTaxID) ||
			errors.Is(err, service.ErrInvalidBirthDate) {
			status = http.StatusBadRequest
			msg = "Invalid registration"
		}
		c.JSON(status, gin.H{
			"error":   msg,
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// createCheckoutSession handles checkout session creation
func (h *Handler) createCheckoutSession(c *gin.Context) {
	var req service.CreateSessionRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	resp, err := h.checkout.CreateSession(c.Request.Context(), &req)
	if err != nil {
		var apiErr *gateway.APIError
		switch {
		case errors.Is(err, pricing.ErrUnknownPackage):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid package",
				"details": err.Error(),
			})
		case errors.As(err, &apiErr):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   apiErr.Code,
				"details": apiErr.Message,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to create checkout session",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getCheckoutSession handles session retrieval for the confirmation page
func (h *Handler) getCheckoutSession(c *gin.Context) {
	session, err := h.checkout.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Session not found",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, session)
}

// paymentWebhook handles signed gateway events. The raw body is required
// for signature verification.
func (h *Handler) paymentWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read body"})
		return
	}

	signature := c.GetHeader(gateway.SignatureHeader)

	if err := h.reconciler.Process(c.Request.Context(), body, signature); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// listGallery handles public gallery listing
func (h *Handler) listGallery(c *gin.Context) {
	photos, source, err := h.gallery.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list gallery"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"photos": photos,
		"source": source,
	})
}

// listRegistrations handles the admin list
func (h *Handler) listRegistrations(c *gin.Context) {
	regs, source, err := h.admin.ListRegistrations(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list registrations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"registrations": regs,
		"source":        source,
	})
}

// updateRegistrationStatus handles manual admin status transitions
func (h *Handler) updateRegistrationStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	simulated, err := h.admin.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Failed to update status",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":        c.Param("id"),
		"status":    req.Status,
		"simulated": simulated,
	})
}

// adminStats handles the aggregate dashboard payload
func (h *Handler) adminStats(c *gin.Context) {
	stats, source, err := h.admin.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats":  stats,
		"source": source,
	})
}

// updateGalleryPhoto handles admin gallery edits
func (h *Handler) updateGalleryPhoto(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid photo ID"})
		return
	}

	var req struct {
		Featured  bool `json:"featured"`
		SortOrder int  `json:"sort_order"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	simulated, err := h.gallery.Update(c.Request.Context(), id, req.Featured, req.SortOrder)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Failed to update photo",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":        id,
		"simulated": simulated,
	})
}

// adminAuth guards the admin route group with a bearer token
func (h *Handler) adminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.adminToken == "" || c.GetHeader("Authorization") != "Bearer "+h.adminToken {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
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
