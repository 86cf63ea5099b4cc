package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/Yy2z/crypto-hunter/common/id"
	"github.com/Yy2z/crypto-hunter/internal/export"
	"github.com/Yy2z/crypto-hunter/internal/http/dto"
	"github.com/Yy2z/crypto-hunter/internal/hunt"
	"github.com/Yy2z/crypto-hunter/internal/model"
	"github.com/Yy2z/crypto-hunter/internal/queue"
	"github.com/Yy2z/crypto-hunter/internal/store"
)

// HuntStore is the persistence surface the handler needs. Satisfied by
// store.HuntStore.
type HuntStore interface {
	Create(ctx context.Context, hunt *model.Hunt) error
	Finish(ctx context.Context, id int64, status model.HuntStatus, report *model.Report, errMsg *string) error
	GetByID(ctx context.Context, id int64) (*model.Hunt, error)
	ListRecent(ctx context.Context, limit int32) ([]model.Hunt, error)
}

// HuntRunner runs the pipeline synchronously. Satisfied by hunt.Service.
type HuntRunner interface {
	Run(ctx context.Context, req model.HuntRequest) (*model.Report, error)
}

type HuntHandler struct {
	hunts    HuntStore
	producer queue.Producer
	service  HuntRunner
}

func NewHuntHandler(hunts HuntStore, producer queue.Producer, service HuntRunner) *HuntHandler {
	return &HuntHandler{
		hunts:    hunts,
		producer: producer,
		service:  service,
	}
}

// Create registers a hunt and enqueues it for the worker.
func (h *HuntHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	req, ok := bindHuntRequest(c)
	if !ok {
		return
	}

	run := &model.Hunt{
		ID:          id.New(),
		Project:     req.Project,
		Category:    req.Category,
		WebsiteClue: req.WebsiteClue,
		TwitterClue: req.TwitterClue,
		Status:      model.HuntStatusPending,
	}
	if err := h.hunts.Create(ctx, run); err != nil {
		slog.ErrorContext(ctx, "failed to create hunt", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create hunt"})
		return
	}

	msg := queue.HuntMessage{HuntID: run.ID}
	if spanCtx := trace.SpanContextFromContext(ctx); spanCtx.IsValid() {
		traceID := spanCtx.TraceID().String()
		msg.TraceID = &traceID
	}
	if err := h.producer.Enqueue(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "failed to enqueue hunt", "error", err, "hunt_id", run.ID)
		errMsg := fmt.Sprintf("enqueue: %s", err)
		_ = h.hunts.Finish(ctx, run.ID, model.HuntStatusFailed, nil, &errMsg)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to enqueue hunt"})
		return
	}

	c.JSON(http.StatusAccepted, dto.CreateHuntResponse{
		HuntID: run.ID,
		Status: run.Status,
	})
}

// Run executes the pipeline synchronously and returns the report in the
// response. The run is still persisted so it shows up in history.
func (h *HuntHandler) Run(c *gin.Context) {
	ctx := c.Request.Context()

	req, ok := bindHuntRequest(c)
	if !ok {
		return
	}

	run := &model.Hunt{
		ID:          id.New(),
		Project:     req.Project,
		Category:    req.Category,
		WebsiteClue: req.WebsiteClue,
		TwitterClue: req.TwitterClue,
		Status:      model.HuntStatusRunning,
	}
	if err := h.hunts.Create(ctx, run); err != nil {
		slog.ErrorContext(ctx, "failed to create hunt", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create hunt"})
		return
	}

	report, runErr := h.service.Run(ctx, model.HuntRequest{
		Project:     req.Project,
		Category:    req.Category,
		WebsiteClue: req.WebsiteClue,
		TwitterClue: req.TwitterClue,
	})

	switch {
	case runErr == nil:
		run.Status = model.HuntStatusCompleted
		run.Report = report
		if err := h.hunts.Finish(ctx, run.ID, run.Status, report, nil); err != nil {
			slog.ErrorContext(ctx, "failed to finish hunt", "error", err, "hunt_id", run.ID)
		}
		c.JSON(http.StatusOK, dto.ToHuntResponse(run))

	case errors.Is(runErr, hunt.ErrNoEvidence):
		run.Status = model.HuntStatusNoEvidence
		if err := h.hunts.Finish(ctx, run.ID, run.Status, nil, nil); err != nil {
			slog.ErrorContext(ctx, "failed to finish hunt", "error", err, "hunt_id", run.ID)
		}
		c.JSON(http.StatusOK, dto.ToHuntResponse(run))

	case errors.Is(runErr, hunt.ErrMissingProject), errors.Is(runErr, hunt.ErrInvalidCategory):
		// Bind validation should have caught these; the created row must
		// still reach a terminal status.
		errMsg := runErr.Error()
		if err := h.hunts.Finish(ctx, run.ID, model.HuntStatusFailed, nil, &errMsg); err != nil {
			slog.ErrorContext(ctx, "failed to finish hunt", "error", err, "hunt_id", run.ID)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": runErr.Error()})

	default:
		slog.ErrorContext(ctx, "hunt run failed", "error", runErr, "hunt_id", run.ID)
		errMsg := runErr.Error()
		run.Status = model.HuntStatusFailed
		run.Error = &errMsg
		if err := h.hunts.Finish(ctx, run.ID, run.Status, nil, &errMsg); err != nil {
			slog.ErrorContext(ctx, "failed to finish hunt", "error", err, "hunt_id", run.ID)
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "hunt failed"})
	}
}

func (h *HuntHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	huntID, ok := parseHuntID(c)
	if !ok {
		return
	}

	run, err := h.hunts.GetByID(ctx, huntID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "hunt not found"})
			return
		}
		slog.ErrorContext(ctx, "failed to load hunt", "error", err, "hunt_id", huntID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load hunt"})
		return
	}

	c.JSON(http.StatusOK, dto.ToHuntResponse(run))
}

func (h *HuntHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	hunts, err := h.hunts.ListRecent(ctx, 50)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list hunts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list hunts"})
		return
	}

	resp := dto.ListHuntsResponse{Hunts: make([]dto.HuntResponse, 0, len(hunts))}
	for i := range hunts {
		resp.Hunts = append(resp.Hunts, dto.ToHuntResponse(&hunts[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// Export serves the report as a CSV download. Only completed hunts have one.
func (h *HuntHandler) Export(c *gin.Context) {
	ctx := c.Request.Context()

	huntID, ok := parseHuntID(c)
	if !ok {
		return
	}

	run, err := h.hunts.GetByID(ctx, huntID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "hunt not found"})
			return
		}
		slog.ErrorContext(ctx, "failed to load hunt", "error", err, "hunt_id", huntID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load hunt"})
		return
	}

	if run.Report == nil {
		c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("hunt is %s, no report to export", run.Status)})
		return
	}

	data, err := export.CSV(run.Report)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render csv", "error", err, "hunt_id", huntID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render csv"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(run.Project)))
	c.Data(http.StatusOK, "text/csv", data)
}

func bindHuntRequest(c *gin.Context) (dto.CreateHuntRequest, bool) {
	var req dto.CreateHuntRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(c.Request.Context(), "invalid hunt request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return req, false
	}
	// gin's required binding accepts whitespace-only strings; reject those
	// here so no hunt row is ever created for an unrunnable request.
	if strings.TrimSpace(req.Project) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "project name is required"})
		return req, false
	}
	if req.Category != "" && !req.Category.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown category %q", req.Category)})
		return req, false
	}
	return req, true
}

func parseHuntID(c *gin.Context) (int64, bool) {
	huntID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hunt id"})
		return 0, false
	}
	return huntID, true
}
