package content

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"affiliatebot/internal/model"
)

func newTestGenerator(t *testing.T, handler http.HandlerFunc) *Generator {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = ts.URL + "/v1"
	return NewGeneratorWithClient(openai.NewClientWithConfig(cfg))
}

func completionHandler(text string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"choices":[{"message":{"role":"assistant","content":%q}}]}`, text)
	}
}

func TestProductDescription(t *testing.T) {
	g := newTestGenerator(t, completionHandler("  A great speaker at a great price.  "))

	p := model.Product{ID: "B0TEST", Platform: "amazon", Title: "Echo Dot", Price: 49.99}
	got := g.ProductDescription(context.Background(), p)

	if got != "A great speaker at a great price." {
		t.Errorf("unexpected description %q", got)
	}
}

func TestProductDescriptionFallsBackToDescription(t *testing.T) {
	g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"quota exceeded"}}`, http.StatusTooManyRequests)
	})

	p := model.Product{
		ID:          "B0TEST",
		Platform:    "amazon",
		Title:       "Echo Dot",
		Description: "Smart speaker with Alexa.",
	}
	if got := g.ProductDescription(context.Background(), p); got != "Smart speaker with Alexa." {
		t.Errorf("expected fallback to description, got %q", got)
	}
}

func TestProductDescriptionFallsBackToTitle(t *testing.T) {
	g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	})

	p := model.Product{ID: "B0TEST", Platform: "amazon", Title: "Echo Dot"}
	if got := g.ProductDescription(context.Background(), p); got != "Echo Dot" {
		t.Errorf("expected fallback to title, got %q", got)
	}
}

func TestSocialPost(t *testing.T) {
	g := newTestGenerator(t, completionHandler("Echo Dot now 20% off! #deals"))

	p := model.Product{
		ID:                 "B0TEST",
		Platform:           "amazon",
		Title:              "Echo Dot",
		Price:              49.99,
		DiscountPercentage: model.Float(20),
	}
	if got := g.SocialPost(context.Background(), p, "twitter"); got != "Echo Dot now 20% off! #deals" {
		t.Errorf("unexpected post %q", got)
	}
}

func TestSocialPostUnknownSurfaceFallsBackToTwitter(t *testing.T) {
	var prompt string
	g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		var req openai.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil && len(req.Messages) == 2 {
			prompt = req.Messages[1].Content
		}
		completionHandler("ok")(w, r)
	})

	p := model.Product{ID: "B0TEST", Platform: "amazon", Title: "Echo Dot"}
	g.SocialPost(context.Background(), p, "myspace")

	if prompt == "" {
		t.Fatal("request prompt not captured")
	}
	if want := "Character limit: 280"; !strings.Contains(prompt, want) {
		t.Errorf("expected twitter limit in prompt, got %q", prompt)
	}
}
