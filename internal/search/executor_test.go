package search_test

import (
	"context"
	"errors"

	"github.com/Yy2z/crypto-hunter/internal/model"
	"github.com/Yy2z/crypto-hunter/internal/search"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// mockSearchClient implements search.Client for testing.
type mockSearchClient struct {
	searchFn  func(ctx context.Context, query string, maxResults int) ([]model.EvidenceItem, error)
	callCount int
	queries   []string
}

func (m *mockSearchClient) Search(ctx context.Context, query string, maxResults int) ([]model.EvidenceItem, error) {
	m.callCount++
	m.queries = append(m.queries, query)
	if m.searchFn != nil {
		return m.searchFn(ctx, query, maxResults)
	}
	return nil, errors.New("mock not configured")
}

func item(url, title, content string) model.EvidenceItem {
	return model.EvidenceItem{URL: url, Title: title, Content: content}
}

var _ = Describe("Executor", func() {
	var (
		executor *search.Executor
		client   *mockSearchClient
		ctx      context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		client = &mockSearchClient{}
		executor = search.NewExecutor(client)
	})

	It("issues every query sequentially in planner order", func() {
		client.searchFn = func(_ context.Context, _ string, _ int) ([]model.EvidenceItem, error) {
			return nil, nil
		}

		executor.Run(ctx, []string{"q1", "q2", "q3"}, 5)

		Expect(client.queries).To(Equal([]string{"q1", "q2", "q3"}))
	})

	It("deduplicates URLs on first sight across queries", func() {
		client.searchFn = func(_ context.Context, query string, _ int) ([]model.EvidenceItem, error) {
			switch query {
			case "q1":
				return []model.EvidenceItem{
					item("https://linkedin.com/in/alice", "Alice from q1", "crypto founder"),
				}, nil
			default:
				return []model.EvidenceItem{
					item("https://linkedin.com/in/alice", "Alice from q2", "crypto founder"),
					item("https://linkedin.com/in/bob", "Bob", "head of bd"),
				}, nil
			}
		}

		got := executor.Run(ctx, []string{"q1", "q2"}, 5)

		Expect(got).To(HaveLen(2))
		Expect(got[0].URL).To(Equal("https://linkedin.com/in/alice"))
		// First occurrence wins: the q1 variant is kept.
		Expect(got[0].Title).To(Equal("Alice from q1"))
		Expect(got[1].URL).To(Equal("https://linkedin.com/in/bob"))
	})

	It("drops results matching the denylist regardless of which query returned them", func() {
		client.searchFn = func(_ context.Context, _ string, _ int) ([]model.EvidenceItem, error) {
			return []model.EvidenceItem{
				item("https://fogodechao.com", "Fogo de Chao", "Brazilian steakhouse near you"),
				item("https://fogo.io/team", "Fogo", "Layer 1 blockchain team"),
				item("https://yelp.com/fogo", "Fogo", "View the MENU and order online"),
			}, nil
		}

		got := executor.Run(ctx, []string{"q1", "q2"}, 5)

		Expect(got).To(HaveLen(1))
		Expect(got[0].URL).To(Equal("https://fogo.io/team"))
	})

	It("matches denylist terms case-insensitively in title and content", func() {
		client.searchFn = func(_ context.Context, _ string, _ int) ([]model.EvidenceItem, error) {
			return []model.EvidenceItem{
				item("https://a.example", "Best STEAKhouse", ""),
				item("https://b.example", "", "family Restaurant since 1952"),
			}, nil
		}

		got := executor.Run(ctx, []string{"q"}, 5)

		Expect(got).To(BeEmpty())
	})

	It("skips a failing query and continues the batch", func() {
		client.searchFn = func(_ context.Context, query string, _ int) ([]model.EvidenceItem, error) {
			if query == "q1" {
				return nil, errors.New("rate limited")
			}
			return []model.EvidenceItem{
				item("https://linkedin.com/in/carol", "Carol", "cmo at weex crypto exchange"),
			}, nil
		}

		got := executor.Run(ctx, []string{"q1", "q2"}, 5)

		Expect(client.callCount).To(Equal(2))
		Expect(got).To(HaveLen(1))
		Expect(got[0].URL).To(Equal("https://linkedin.com/in/carol"))
	})

	It("returns an empty list when every query fails", func() {
		client.searchFn = func(_ context.Context, _ string, _ int) ([]model.EvidenceItem, error) {
			return nil, errors.New("provider down")
		}

		got := executor.Run(ctx, []string{"q1", "q2", "q3"}, 5)

		Expect(got).To(BeEmpty())
		Expect(client.callCount).To(Equal(3))
	})
})

var _ = Describe("Denylisted", func() {
	It("flags combined title+content matches", func() {
		Expect(search.Denylisted("Fogo de Chao", "")).To(BeTrue())
		Expect(search.Denylisted("", "see our menu")).To(BeTrue())
		Expect(search.Denylisted("Fogo Chain", "layer 1 blockchain")).To(BeFalse())
	})
})
