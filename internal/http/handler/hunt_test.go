package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Yy2z/crypto-hunter/internal/http/handler"
	"github.com/Yy2z/crypto-hunter/internal/hunt"
	"github.com/Yy2z/crypto-hunter/internal/model"
	"github.com/Yy2z/crypto-hunter/internal/queue"
	"github.com/Yy2z/crypto-hunter/internal/store"
)

var _ = Describe("HuntHandler", func() {
	var (
		router   *gin.Engine
		hunts    *mockHuntStore
		producer *mockProducer
		runner   *mockRunner
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		hunts = &mockHuntStore{}
		producer = &mockProducer{}
		runner = &mockRunner{}
		h := handler.NewHuntHandler(hunts, producer, runner)
		router.POST("/hunts", h.Create)
		router.POST("/hunts/run", h.Run)
		router.GET("/hunts/:id", h.Get)
		router.GET("/hunts/:id/export", h.Export)
	})

	postJSON := func(path string, payload any) *httptest.ResponseRecorder {
		body, _ := json.Marshal(payload)
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	Describe("Create", func() {
		It("persists the hunt and enqueues it", func() {
			w := postJSON("/hunts", map[string]string{
				"project":      "Weex",
				"category":     "Exchange",
				"website_clue": "weex.com",
			})

			Expect(w.Code).To(Equal(http.StatusAccepted))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["status"]).To(Equal("pending"))
			Expect(producer.enqueued).To(HaveLen(1))
		})

		It("returns 400 when project is missing", func() {
			w := postJSON("/hunts", map[string]string{"category": "VC"})

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(producer.enqueued).To(BeEmpty())
		})

		It("returns 400 for a whitespace-only project without creating a row", func() {
			w := postJSON("/hunts", map[string]string{"project": "   "})

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(hunts.created).To(BeEmpty())
			Expect(producer.enqueued).To(BeEmpty())
		})

		It("returns 400 on unknown category", func() {
			w := postJSON("/hunts", map[string]string{
				"project":  "Weex",
				"category": "DAO",
			})

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("marks the hunt failed when enqueue fails", func() {
			producer.enqueueFn = func(_ context.Context, _ queue.HuntMessage) error {
				return errors.New("redis down")
			}

			w := postJSON("/hunts", map[string]string{"project": "Weex"})

			Expect(w.Code).To(Equal(http.StatusInternalServerError))
			Expect(hunts.finished).To(Equal([]model.HuntStatus{model.HuntStatusFailed}))
		})
	})

	Describe("Run", func() {
		It("returns the report with status completed", func() {
			runner.runFn = func(_ context.Context, req model.HuntRequest) (*model.Report, error) {
				return &model.Report{
					Project:       req.Project,
					Category:      req.Category,
					Team:          []model.TeamMember{{Name: "Stephen Chen", Role: "Founder"}},
					Contacts:      []model.Contact{},
					EvidenceCount: 4,
				}, nil
			}

			w := postJSON("/hunts/run", map[string]string{
				"project":  "Weex",
				"category": "Exchange",
			})

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["status"]).To(Equal("completed"))
			report := resp["report"].(map[string]any)
			Expect(report["evidence_count"]).To(BeEquivalentTo(4))
			Expect(hunts.finished).To(Equal([]model.HuntStatus{model.HuntStatusCompleted}))
		})

		It("returns 200 with status no_evidence when nothing survives filtering", func() {
			runner.runFn = func(_ context.Context, _ model.HuntRequest) (*model.Report, error) {
				return nil, hunt.ErrNoEvidence
			}

			w := postJSON("/hunts/run", map[string]string{"project": "Ghost"})

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["status"]).To(Equal("no_evidence"))
			Expect(resp["report"]).To(BeNil())
			Expect(hunts.finished).To(Equal([]model.HuntStatus{model.HuntStatusNoEvidence}))
		})

		It("returns 502 when the pipeline fails", func() {
			runner.runFn = func(_ context.Context, _ model.HuntRequest) (*model.Report, error) {
				return nil, errors.New("extraction analysis: upstream 502")
			}

			w := postJSON("/hunts/run", map[string]string{"project": "Weex"})

			Expect(w.Code).To(Equal(http.StatusBadGateway))
			Expect(hunts.finished).To(Equal([]model.HuntStatus{model.HuntStatusFailed}))
		})

		It("rejects a whitespace-only project before persisting anything", func() {
			w := postJSON("/hunts/run", map[string]string{"project": "   "})

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(hunts.created).To(BeEmpty())
			Expect(hunts.finished).To(BeEmpty())
			Expect(runner.callCount).To(Equal(0))
		})

		It("finishes the row as failed when the pipeline rejects the input", func() {
			runner.runFn = func(_ context.Context, _ model.HuntRequest) (*model.Report, error) {
				return nil, hunt.ErrInvalidCategory
			}

			w := postJSON("/hunts/run", map[string]string{"project": "Weex"})

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(hunts.finished).To(Equal([]model.HuntStatus{model.HuntStatusFailed}))
		})

		It("returns 400 on invalid request body", func() {
			req := httptest.NewRequest(http.MethodPost, "/hunts/run", bytes.NewBufferString(`{`))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(runner.callCount).To(Equal(0))
		})
	})

	Describe("Get", func() {
		It("returns the hunt", func() {
			hunts.getByIDFn = func(_ context.Context, id int64) (*model.Hunt, error) {
				return &model.Hunt{
					ID:        id,
					Project:   "Weex",
					Category:  model.CategoryExchange,
					Status:    model.HuntStatusPending,
					CreatedAt: time.Now(),
				}, nil
			}

			req := httptest.NewRequest(http.MethodGet, "/hunts/42", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["hunt_id"]).To(BeEquivalentTo(42))
		})

		It("returns 404 for an unknown hunt", func() {
			req := httptest.NewRequest(http.MethodGet, "/hunts/999", nil)
			w := httptest.NewRecorder()
			hunts.getByIDFn = func(_ context.Context, _ int64) (*model.Hunt, error) {
				return nil, store.ErrNotFound
			}
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("returns 400 for a malformed id", func() {
			req := httptest.NewRequest(http.MethodGet, "/hunts/abc", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("Export", func() {
		It("serves the report as a CSV attachment", func() {
			hunts.getByIDFn = func(_ context.Context, id int64) (*model.Hunt, error) {
				return &model.Hunt{
					ID:      id,
					Project: "Weex",
					Status:  model.HuntStatusCompleted,
					Report: &model.Report{
						Project: "Weex",
						Team:    []model.TeamMember{{Name: "Stephen Chen", Role: "Founder"}},
					},
				}, nil
			}

			req := httptest.NewRequest(http.MethodGet, "/hunts/42/export", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("Content-Type")).To(HavePrefix("text/csv"))
			Expect(w.Header().Get("Content-Disposition")).To(ContainSubstring("Weex_hunter_report.csv"))
			Expect(w.Body.String()).To(ContainSubstring("Person,Stephen Chen,Founder"))
		})

		It("returns 409 when the hunt has no report yet", func() {
			hunts.getByIDFn = func(_ context.Context, id int64) (*model.Hunt, error) {
				return &model.Hunt{ID: id, Project: "Weex", Status: model.HuntStatusRunning}, nil
			}

			req := httptest.NewRequest(http.MethodGet, "/hunts/42/export", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusConflict))
		})
	})
})
