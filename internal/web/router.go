// Package web exposes the dashboard controller as a JSON API.
package web

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"woo-admin/internal/dashboard"
	"woo-admin/internal/store"
	"woo-admin/internal/woo"
)

var tagNameOnce sync.Once

// useJSONFieldNames makes validation errors report json names.
func useJSONFieldNames() {
	tagNameOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

type handlers struct {
	ctrl *dashboard.Controller
}

// NewRouter builds the API engine. logger receives one line per request.
func NewRouter(ctrl *dashboard.Controller, logger *log.Logger) *gin.Engine {
	useJSONFieldNames()
	if logger == nil {
		logger = log.Default()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(requestLogger(logger))
	r.Use(corsMiddleware())

	h := &handlers{ctrl: ctrl}
	r.GET("/health", h.health)

	api := r.Group("/api")
	{
		api.GET("/state", h.state)
		api.POST("/navigate", h.navigate)
		api.POST("/reload", h.reload)

		api.GET("/settings", h.getSettings)
		api.PUT("/settings", h.putSettings)
		api.DELETE("/settings", h.deleteSettings)
		api.POST("/settings/check", h.checkSettings)

		api.POST("/products", h.saveProduct)

		api.GET("/orders/:id", h.openOrder)
		api.PUT("/orders/:id/status", h.setOrderStatus)

		api.GET("/coupons", h.listCoupons)
		api.POST("/coupons", h.createCoupon)
		api.DELETE("/coupons/:id", h.deleteCoupon)

		api.GET("/dashboard", h.dashboard)
		api.POST("/ai/description", h.describeProduct)
	}
	return r
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handlers) state(c *gin.Context) {
	c.JSON(http.StatusOK, h.ctrl.Snapshot())
}

type navigateRequest struct {
	View store.ViewKind `json:"view" binding:"required"`
	ID   int64          `json:"id"`
}

func (h *handlers) navigate(c *gin.Context) {
	var req navigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}
	if err := h.ctrl.NavigateTo(req.View, req.ID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.ctrl.Snapshot())
}

func (h *handlers) reload(c *gin.Context) {
	if err := h.ctrl.Retry(c.Request.Context()); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.ctrl.Snapshot())
}

type settingsRequest struct {
	StoreURL  string `json:"url" binding:"required_unless=DemoMode true"`
	APIKey    string `json:"consumer_key"`
	APISecret string `json:"consumer_secret"`
	DemoMode  bool   `json:"demo_mode"`
}

func (r settingsRequest) record() store.StoreSettings {
	return store.StoreSettings{
		StoreURL:  strings.TrimSpace(r.StoreURL),
		APIKey:    strings.TrimSpace(r.APIKey),
		APISecret: strings.TrimSpace(r.APISecret),
		DemoMode:  r.DemoMode,
	}
}

func (h *handlers) getSettings(c *gin.Context) {
	st := h.ctrl.Snapshot()
	if st.Settings == nil {
		fail(c, dashboard.ErrNotConfigured)
		return
	}
	c.JSON(http.StatusOK, st.Settings)
}

// putSettings applies the record. A failed reload is not a failed save: the
// settings are kept and the state carries the load error. Any other failure
// means nothing was applied.
func (h *handlers) putSettings(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}
	if err := h.ctrl.ApplySettings(c.Request.Context(), req.record()); err != nil {
		var reloadErr *dashboard.ReloadError
		if !errors.As(err, &reloadErr) {
			fail(c, err)
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusOK, h.ctrl.Snapshot())
		return
	}
	c.JSON(http.StatusOK, h.ctrl.Snapshot())
}

func (h *handlers) deleteSettings(c *gin.Context) {
	if err := h.ctrl.Logout(c.Request.Context()); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) checkSettings(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}
	ok := h.ctrl.CheckConnection(c.Request.Context(), req.record())
	c.JSON(http.StatusOK, gin.H{"ok": ok})
}

// saveProduct creates a product, or updates the one named by "id" changing
// only the fields present in the body.
func (h *handlers) saveProduct(c *gin.Context) {
	var p store.ProductPatch
	if err := c.ShouldBindJSON(&p); err != nil {
		fail(c, err)
		return
	}
	saved, err := h.ctrl.SaveProduct(c.Request.Context(), p)
	if err != nil {
		fail(c, err)
		return
	}
	status := http.StatusOK
	if p.ID == 0 {
		status = http.StatusCreated
	}
	c.JSON(status, saved)
}

func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id must be a positive integer", woo.ErrInvalid)
	}
	return id, nil
}

// openOrder loads one order. Like opening it in the dashboard, it moves the
// operator to the order's detail screen; GET /api/state reflects that.
func (h *handlers) openOrder(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}
	o, err := h.ctrl.OpenOrder(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

type statusRequest struct {
	Status store.OrderStatus `json:"status" binding:"required"`
}

func (h *handlers) setOrderStatus(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}
	o, err := h.ctrl.SetOrderStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// listCoupons loads the coupons. The collection belongs to the coupons
// screen, so the operator is moved there first and a pending load for the
// previous screen is abandoned.
func (h *handlers) listCoupons(c *gin.Context) {
	h.ctrl.Navigate(dashboard.Coupons{})
	if err := h.ctrl.LoadCoupons(c.Request.Context()); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.ctrl.Snapshot().Coupons)
}

func (h *handlers) createCoupon(c *gin.Context) {
	var cp store.Coupon
	if err := c.ShouldBindJSON(&cp); err != nil {
		fail(c, err)
		return
	}
	created, err := h.ctrl.CreateCoupon(c.Request.Context(), cp)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *handlers) deleteCoupon(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.ctrl.DeleteCoupon(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.ctrl.Summary(c.Request.Context()))
}

type descriptionRequest struct {
	Name     string `json:"name" binding:"required"`
	Keywords string `json:"keywords"`
}

func (h *handlers) describeProduct(c *gin.Context) {
	var req descriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}
	text := h.ctrl.DescribeProduct(c.Request.Context(), req.Name, req.Keywords)
	c.JSON(http.StatusOK, gin.H{"description": text})
}
