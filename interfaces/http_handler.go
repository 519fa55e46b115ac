package interfaces

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"jd-generator/domain"
)

// JobDescriptionStore is the persistence gateway the handlers depend on.
type JobDescriptionStore interface {
	Create(ctx context.Context, title string, content domain.JobDescriptionContent, expiresAt *time.Time) (*domain.JobDescription, error)
	Get(ctx context.Context, id uint) (*domain.JobDescription, error)
	List(ctx context.Context, offset, limit int) ([]domain.JobDescriptionSummary, error)
	Update(ctx context.Context, id uint, req domain.UpdateRequest) (*domain.JobDescription, error)
	Delete(ctx context.Context, id uint) (bool, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type HTTPHandler struct {
	Store           JobDescriptionStore
	Generator       domain.Generator
	Events          domain.EventPublisher
	DB              Pinger
	Logger          *zap.Logger
	GenerateTimeout time.Duration
}

// Generate calls the model and returns the content without persisting it.
func (h *HTTPHandler) Generate(c *gin.Context) {
	var req domain.GenerateRequest
	if !h.bind(c, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.GenerateTimeout)
	defer cancel()

	content, err := h.Generator.Generate(ctx, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, content)
}

func (h *HTTPHandler) Create(c *gin.Context) {
	var req domain.CreateRequest
	if !h.bind(c, &req) {
		return
	}

	jd, err := h.Store.Create(c.Request.Context(), req.JobTitle, *req.JDContent, req.ExpiresAt.TimePtr())
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.publish(c, domain.EventCreated, jd)

	c.JSON(http.StatusCreated, domain.CreateResponse{
		JobID:   jd.ID,
		Message: "JD created successfully",
	})
}

func (h *HTTPHandler) List(c *gin.Context) {
	var q domain.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.respondError(c, domain.NewValidationError("query", err.Error()))
		return
	}
	if err := domain.Validate(&q); err != nil {
		h.respondError(c, err)
		return
	}

	items, err := h.Store.List(c.Request.Context(), q.Offset, q.Limit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *HTTPHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.respondError(c, domain.ErrNotFound)
		return
	}

	jd, err := h.Store.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if jd == nil {
		h.respondError(c, domain.ErrNotFound)
		return
	}

	h.respondRecord(c, jd)
}

func (h *HTTPHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.respondError(c, domain.ErrNotFound)
		return
	}

	var req domain.UpdateRequest
	if !h.bind(c, &req) {
		return
	}

	jd, err := h.Store.Update(c.Request.Context(), id, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if jd == nil {
		h.respondError(c, domain.ErrNotFound)
		return
	}
	h.publish(c, domain.EventUpdated, jd)

	h.respondRecord(c, jd)
}

func (h *HTTPHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.respondError(c, domain.ErrNotFound)
		return
	}

	deleted, err := h.Store.Delete(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !deleted {
		h.respondError(c, domain.ErrNotFound)
		return
	}
	h.publish(c, domain.EventDeleted, &domain.JobDescription{ID: id})

	c.JSON(http.StatusOK, gin.H{"message": "Job Description deleted successfully"})
}

// Health is a liveness check and never touches storage.
func (h *HTTPHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (h *HTTPHandler) Ready(c *gin.Context) {
	if err := h.DB.Ping(c.Request.Context()); err != nil {
		h.Logger.Warn("readiness check failed", zap.Error(err))
		writeError(c, http.StatusServiceUnavailable, "database unavailable", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// bind decodes and validates a JSON body, writing a 422 on failure.
func (h *HTTPHandler) bind(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.respondError(c, domain.DecodeError(err))
		return false
	}
	if err := domain.Validate(obj); err != nil {
		h.respondError(c, err)
		return false
	}
	return true
}

func (h *HTTPHandler) respondRecord(c *gin.Context, jd *domain.JobDescription) {
	resp, err := domain.NewJobDescriptionResponse(jd)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// publish emits a lifecycle event after the mutation committed. Failures
// are logged only.
func (h *HTTPHandler) publish(c *gin.Context, typ domain.EventType, jd *domain.JobDescription) {
	evt := domain.JobDescriptionEvent{
		Type:       typ,
		JobID:      jd.ID,
		JobTitle:   jd.JobTitle,
		Status:     jd.Status,
		OccurredAt: time.Now().UTC(),
		RequestID:  RequestIDFrom(c),
	}
	if err := h.Events.Publish(c.Request.Context(), evt); err != nil {
		h.Logger.Warn("failed to publish event",
			zap.String("type", string(typ)), zap.Uint("job_id", jd.ID), zap.Error(err))
	}
}

// parseID accepts positive integers only; anything else is treated as an
// unknown record.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
