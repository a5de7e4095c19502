package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"user_manager/internal/model"
	"user_manager/internal/service"

	"github.com/gin-gonic/gin"
)

// RecordHandler serves CRUD routes for record collections
type RecordHandler struct {
	service service.RecordService
	log     *slog.Logger
}

// NewRecordHandler creates a new RecordHandler
func NewRecordHandler(s service.RecordService, log *slog.Logger) *RecordHandler {
	return &RecordHandler{service: s, log: log}
}

// RegisterRecordRoutes mounts /<collection> and /<collection>/:id, guarded by mws.
func (h *RecordHandler) RegisterRecordRoutes(rg gin.IRouter, collection string, mws ...gin.HandlerFunc) {
	group := rg.Group("/"+collection, mws...)
	group.GET("", h.List(collection))
	group.POST("", h.Create(collection))
	group.GET("/:id", h.Get(collection))
	group.PUT("/:id", h.Update(collection))
	group.PATCH("/:id", h.Update(collection))
	group.DELETE("/:id", h.Delete(collection))
}

func (h *RecordHandler) List(collection string) gin.HandlerFunc {
	return func(c *gin.Context) {
		recs, err := h.service.List(c.Request.Context(), collection, queryFilters(c))
		if err != nil {
			h.fail(c, err, "Failed to retrieve records")
			return
		}
		c.JSON(http.StatusOK, recs)
	}
}

func (h *RecordHandler) Get(collection string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		rec, err := h.service.Get(c.Request.Context(), collection, id)
		if err != nil {
			h.fail(c, err, "Failed to retrieve record")
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}

func (h *RecordHandler) Create(collection string) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, ok := bindRecord(c)
		if !ok {
			return
		}
		rec, err := h.service.Create(c.Request.Context(), collection, body)
		if err != nil {
			h.fail(c, err, "Failed to create record")
			return
		}
		c.JSON(http.StatusCreated, rec)
	}
}

func (h *RecordHandler) Update(collection string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		patch, ok := bindRecord(c)
		if !ok {
			return
		}
		rec, err := h.service.Update(c.Request.Context(), collection, id, patch)
		if err != nil {
			h.fail(c, err, "Failed to update record")
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}

func (h *RecordHandler) Delete(collection string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		if err := h.service.Delete(c.Request.Context(), collection, id); err != nil {
			h.fail(c, err, "Failed to delete record")
			return
		}
		c.JSON(http.StatusOK, gin.H{})
	}
}

func (h *RecordHandler) fail(c *gin.Context, err error, msg string) {
	if errors.Is(err, service.ErrRecordNotFound) || errors.Is(err, service.ErrUnknownCollection) {
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrRecordNotFound.Error()})
		return
	}
	h.log.Error(msg, "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid record ID"})
		return 0, false
	}
	return id, true
}

func bindRecord(c *gin.Context) (model.Record, bool) {
	var body model.Record
	if err := c.ShouldBindJSON(&body); err != nil || body == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request body must be a JSON object"})
		return nil, false
	}
	return body, true
}

// queryFilters turns ?field=value pairs into equality filters. Keys starting
// with "_" are reserved for paging and sorting and are not filters.
func queryFilters(c *gin.Context) map[string]string {
	filters := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if strings.HasPrefix(key, "_") || len(values) == 0 {
			continue
		}
		filters[key] = values[0]
	}
	return filters
}
