package gemini

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

type fakeModels struct {
	mu        sync.Mutex
	responses []fakeResponse
	calls     []string
}

type fakeResponse struct {
	resp *genai.GenerateContentResponse
	err  error
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, model)
	if len(contents) != 1 || len(contents[0].Parts) != 1 {
		return nil, errors.New("unexpected contents")
	}
	if len(f.responses) == 0 {
		return nil, errors.New("unexpected call")
	}
	next := f.responses[0]
	f.responses = f.responses[1:]
	return next.resp, next.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}
}

func noWait(t *testing.T) {
	t.Helper()
	original := waitFor
	waitFor = func(context.Context, time.Duration) error { return nil }
	t.Cleanup(func() { waitFor = original })
}

func TestGeneratorJoinsParts(t *testing.T) {
	models := &fakeModels{responses: []fakeResponse{{resp: textResponse(" first ", "", "second")}}}
	g := &Generator{models: models, model: "gemini-test", maxRetries: 1, logger: zap.NewNop()}

	out, err := g.GenerateContent(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "first\nsecond" {
		t.Fatalf("unexpected output: %q", out)
	}
	if len(models.calls) != 1 || models.calls[0] != "gemini-test" {
		t.Fatalf("unexpected calls: %v", models.calls)
	}
}

func TestGeneratorRetriesOnTemporaryError(t *testing.T) {
	noWait(t)

	tempErr := genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}
	models := &fakeModels{responses: []fakeResponse{{err: tempErr}, {resp: textResponse("retry ok")}}}
	g := &Generator{models: models, model: "gemini-test", maxRetries: 2, logger: zap.NewNop()}

	out, err := g.GenerateContent(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out != "retry ok" {
		t.Fatalf("unexpected output: %q", out)
	}
	if len(models.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(models.calls))
	}
}

func TestGeneratorSingleAttemptByDefault(t *testing.T) {
	noWait(t)

	tempErr := genai.APIError{Code: http.StatusServiceUnavailable, Status: "UNAVAILABLE"}
	models := &fakeModels{responses: []fakeResponse{{err: tempErr}, {resp: textResponse("never")}}}
	g := &Generator{models: models, model: "gemini-test", logger: zap.NewNop()}

	if _, err := g.GenerateContent(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error")
	}
	if len(models.calls) != 1 {
		t.Fatalf("expected single call, got %d", len(models.calls))
	}
}

func TestGeneratorDoesNotRetryQuotaErrors(t *testing.T) {
	noWait(t)

	quotaErr := genai.APIError{Code: http.StatusTooManyRequests, Status: "RESOURCE_EXHAUSTED"}
	models := &fakeModels{responses: []fakeResponse{{err: quotaErr}}}
	g := &Generator{models: models, model: "gemini-test", maxRetries: 3, logger: zap.NewNop()}

	if _, err := g.GenerateContent(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error")
	}
	if len(models.calls) != 1 {
		t.Fatalf("expected single call, got %d", len(models.calls))
	}
}

func TestGeneratorRejectsEmptyInputAndOutput(t *testing.T) {
	models := &fakeModels{responses: []fakeResponse{{resp: textResponse("   ")}}}
	g := &Generator{models: models, model: "gemini-test", logger: zap.NewNop()}

	if _, err := g.GenerateContent(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty prompt")
	}
	if _, err := g.GenerateContent(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error for empty response")
	}

	var nilGen *Generator
	if _, err := nilGen.GenerateContent(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error for nil generator")
	}
}
