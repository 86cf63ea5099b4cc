package hunt_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/Yy2z/crypto-hunter/common/llm"
	"github.com/Yy2z/crypto-hunter/core/config"
	"github.com/Yy2z/crypto-hunter/internal/analyzer"
	"github.com/Yy2z/crypto-hunter/internal/hunt"
	"github.com/Yy2z/crypto-hunter/internal/model"
	"github.com/Yy2z/crypto-hunter/internal/search"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type mockSearchClient struct {
	searchFn func(ctx context.Context, query string, maxResults int) ([]model.EvidenceItem, error)
	queries  []string
}

func (m *mockSearchClient) Search(ctx context.Context, query string, maxResults int) ([]model.EvidenceItem, error) {
	m.queries = append(m.queries, query)
	if m.searchFn != nil {
		return m.searchFn(ctx, query, maxResults)
	}
	return nil, nil
}

type mockLLMClient struct {
	chatFn    func(ctx context.Context, req llm.Request, result any) (*llm.Response, error)
	callCount int
}

func (m *mockLLMClient) Chat(ctx context.Context, req llm.Request, result any) (*llm.Response, error) {
	m.callCount++
	if m.chatFn != nil {
		return m.chatFn(ctx, req, result)
	}
	return nil, errors.New("mock not configured")
}

func (m *mockLLMClient) Model() string { return "test-model" }

func emptyExtraction(result any) {
	data, _ := json.Marshal(map[string]any{"team": []any{}, "contacts": []any{}})
	_ = json.Unmarshal(data, result)
}

var _ = Describe("Service", func() {
	var (
		svc        *hunt.Service
		searchMock *mockSearchClient
		llmMock    *mockLLMClient
		ctx        context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		searchMock = &mockSearchClient{}
		llmMock = &mockLLMClient{}
		svc = hunt.NewService(
			search.NewExecutor(searchMock),
			analyzer.New(llmMock),
			config.HuntConfig{PerQueryLimit: 5},
		)
	})

	It("runs the full pipeline with swapped clues", func() {
		searchMock.searchFn = func(_ context.Context, _ string, _ int) ([]model.EvidenceItem, error) {
			return []model.EvidenceItem{
				{URL: "https://linkedin.com/in/stephen-chen", Title: "Stephen Chen", Content: "Founder @Weex_Official crypto"},
			}, nil
		}
		llmMock.chatFn = func(_ context.Context, req llm.Request, result any) (*llm.Response, error) {
			emptyExtraction(result)
			return &llm.Response{}, nil
		}

		// Twitter link in the website field and vice versa.
		report, err := svc.Run(ctx, model.HuntRequest{
			Project:     "Weex",
			Category:    model.CategoryExchange,
			WebsiteClue: "https://x.com/Weex_Official",
			TwitterClue: "weex.com",
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(report.Fingerprints).To(Equal(model.Fingerprints{Handle: "weex_official", Domain: "weex.com"}))
		Expect(report.Project).To(Equal("Weex"))
		Expect(report.Category).To(Equal(model.CategoryExchange))
		Expect(report.EvidenceCount).To(Equal(1))

		// Full waterfall: both fingerprints present means 6 queries, with
		// the handle-anchored tier first.
		Expect(searchMock.queries).To(HaveLen(6))
		Expect(searchMock.queries[0]).To(ContainSubstring("weex_official"))
	})

	It("falls back to generic mode when both clues are empty", func() {
		searchMock.searchFn = func(_ context.Context, _ string, _ int) ([]model.EvidenceItem, error) {
			return []model.EvidenceItem{
				{URL: "https://monad.xyz/team", Title: "Monad team", Content: "layer 1 blockchain"},
			}, nil
		}
		llmMock.chatFn = func(_ context.Context, req llm.Request, result any) (*llm.Response, error) {
			emptyExtraction(result)
			return &llm.Response{}, nil
		}

		report, err := svc.Run(ctx, model.HuntRequest{Project: "Monad", Category: model.CategoryProject})

		Expect(err).NotTo(HaveOccurred())
		Expect(report.Fingerprints.Empty()).To(BeTrue())
		Expect(searchMock.queries).To(HaveLen(3))
	})

	It("short-circuits with ErrNoEvidence before invoking the analyzer", func() {
		searchMock.searchFn = func(_ context.Context, _ string, _ int) ([]model.EvidenceItem, error) {
			return nil, nil
		}

		report, err := svc.Run(ctx, model.HuntRequest{Project: "Ghost", Category: model.CategoryProject})

		Expect(err).To(MatchError(hunt.ErrNoEvidence))
		Expect(report).To(BeNil())
		Expect(llmMock.callCount).To(Equal(0))
	})

	It("treats a batch that is denylisted away as no evidence", func() {
		searchMock.searchFn = func(_ context.Context, _ string, _ int) ([]model.EvidenceItem, error) {
			return []model.EvidenceItem{
				{URL: "https://fogodechao.com", Title: "Fogo de Chao", Content: "steakhouse"},
			}, nil
		}

		_, err := svc.Run(ctx, model.HuntRequest{Project: "Fogo", Category: model.CategoryProject})

		Expect(err).To(MatchError(hunt.ErrNoEvidence))
		Expect(llmMock.callCount).To(Equal(0))
	})

	It("surfaces analyzer failure distinctly from the empty state", func() {
		searchMock.searchFn = func(_ context.Context, _ string, _ int) ([]model.EvidenceItem, error) {
			return []model.EvidenceItem{
				{URL: "https://weex.com/about", Title: "Weex", Content: "crypto exchange"},
			}, nil
		}
		llmMock.chatFn = func(_ context.Context, _ llm.Request, _ any) (*llm.Response, error) {
			return nil, errors.New("upstream 502")
		}

		_, err := svc.Run(ctx, model.HuntRequest{Project: "Weex", Category: model.CategoryExchange})

		Expect(err).To(HaveOccurred())
		Expect(errors.Is(err, hunt.ErrNoEvidence)).To(BeFalse())
		Expect(err.Error()).To(ContainSubstring("upstream 502"))
	})

	It("rejects a blank project before any work", func() {
		_, err := svc.Run(ctx, model.HuntRequest{Project: "   "})

		Expect(err).To(MatchError(hunt.ErrMissingProject))
		Expect(searchMock.queries).To(BeEmpty())
	})

	It("rejects an unknown category", func() {
		_, err := svc.Run(ctx, model.HuntRequest{Project: "Weex", Category: "DAO"})

		Expect(err).To(MatchError(hunt.ErrInvalidCategory))
		Expect(searchMock.queries).To(BeEmpty())
	})

	It("defaults an empty category to Project", func() {
		searchMock.searchFn = func(_ context.Context, query string, _ int) ([]model.EvidenceItem, error) {
			// Default role clause, not the VC one.
			if strings.Contains(query, "Partner OR Investor") {
				return nil, errors.New("unexpected VC roles")
			}
			return []model.EvidenceItem{
				{URL: "https://weex.com", Title: "Weex", Content: "crypto"},
			}, nil
		}
		llmMock.chatFn = func(_ context.Context, req llm.Request, result any) (*llm.Response, error) {
			emptyExtraction(result)
			return &llm.Response{}, nil
		}

		report, err := svc.Run(ctx, model.HuntRequest{Project: "Weex"})

		Expect(err).NotTo(HaveOccurred())
		Expect(report.Category).To(Equal(model.CategoryProject))
	})
})
