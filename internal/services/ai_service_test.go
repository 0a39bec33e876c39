package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	openai "github.com/sashabaranov/go-openai"

	"github.com/jobboardhq/jobboard-backend/internal/config"
)

const sampleResumeText = `Jane Doe, Senior Backend Engineer.
Eight years building Go and PostgreSQL services at Acme Corp.
Led migration to Kubernetes, owns CI/CD pipelines, mentors juniors.`

// newStubAIService returns an AIService pointed at an in-process
// chat-completions endpoint that always answers with content, plus a counter
// of how many model calls were actually made.
func newStubAIService(t *testing.T, content string) (*AIService, *atomic.Int32) {
	t.Helper()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		resp := openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Errorf("encoding stub response: %v", err)
		}
	}))
	t.Cleanup(srv.Close)

	svc := NewAIService(&config.Config{
		AIAPIKey:  "test-key",
		AIBaseURL: srv.URL,
		AIModel:   "gpt-4o-mini",
		AITimeout: 5 * time.Second,
	})
	svc.extractText = func([]byte) (string, error) { return sampleResumeText, nil }
	return svc, &calls
}

func TestExtractProfileRejectsNonPDF(t *testing.T) {
	svc, calls := newStubAIService(t, "{}")

	result := svc.ExtractProfile(context.Background(), []byte("hello"), "text/plain")
	if result.Error != "Only PDF supported for now" {
		t.Errorf("unexpected error: %q", result.Error)
	}
	if got := calls.Load(); got != 0 {
		t.Errorf("model was called %d times for a rejected upload", got)
	}
}

func TestExtractProfileUnreadablePDF(t *testing.T) {
	svc, calls := newStubAIService(t, "{}")
	svc.extractText = func([]byte) (string, error) { return "", errors.New("bad xref table") }

	result := svc.ExtractProfile(context.Background(), []byte("%PDF-"), "application/pdf")
	if !strings.HasPrefix(result.Error, "could not read PDF") {
		t.Errorf("unexpected error: %q", result.Error)
	}
	if calls.Load() != 0 {
		t.Error("model should not be called when the PDF cannot be decoded")
	}
}

func TestExtractProfileScannedPDF(t *testing.T) {
	svc, calls := newStubAIService(t, "{}")
	svc.extractText = func([]byte) (string, error) { return "   \n ", nil }

	result := svc.ExtractProfile(context.Background(), []byte("%PDF-"), "application/pdf")
	if result.Error != "could not extract readable text from PDF" {
		t.Errorf("unexpected error: %q", result.Error)
	}
	if calls.Load() != 0 {
		t.Error("model should not be called for image-only PDFs")
	}
}

func TestExtractProfileMissingKey(t *testing.T) {
	svc := NewAIService(&config.Config{AIModel: "gpt-4o-mini", AITimeout: time.Second})
	svc.extractText = func([]byte) (string, error) { return sampleResumeText, nil }

	result := svc.ExtractProfile(context.Background(), []byte("%PDF-"), "application/pdf")
	if result.Error != "AI API key not configured" {
		t.Errorf("unexpected error: %q", result.Error)
	}
	if result.Skills == nil || result.Experience == nil {
		t.Error("error results must still carry empty slices, not nil")
	}
}

func TestExtractProfileParsesFencedResponse(t *testing.T) {
	content := "```json\n" + `{
		"skills": ["Go", "PostgreSQL", "Kubernetes"],
		"experience": [
			{"title": "Senior Backend Engineer", "company": "Acme Corp", "duration": "8 years", "description": "Go services"}
		]
	}` + "\n```"
	svc, calls := newStubAIService(t, content)

	result := svc.ExtractProfile(context.Background(), []byte("%PDF-"), "application/pdf")
	if result.Error != "" {
		t.Fatalf("unexpected error: %q", result.Error)
	}
	if calls.Load() != 1 {
		t.Errorf("expected exactly one model call, got %d", calls.Load())
	}
	if len(result.Skills) != 3 || result.Skills[0] != "Go" {
		t.Errorf("unexpected skills: %v", result.Skills)
	}
	if len(result.Experience) != 1 {
		t.Fatalf("unexpected experience: %v", result.Experience)
	}
	if result.Experience[0].Role != "Senior Backend Engineer" || result.Experience[0].Title != "" {
		t.Errorf("title alias was not folded into role: %+v", result.Experience[0])
	}
	if result.RawText != sampleResumeText {
		t.Error("raw resume text should be carried on the result")
	}
}

func TestExtractProfileGarbageResponse(t *testing.T) {
	svc, _ := newStubAIService(t, "I could not find anything useful in that document, sorry!")

	result := svc.ExtractProfile(context.Background(), []byte("%PDF-"), "application/pdf")
	if result.Error != "no JSON object in AI response" {
		t.Errorf("unexpected error: %q", result.Error)
	}
}

func TestScoreMatchEmptyInputShortCircuits(t *testing.T) {
	svc, calls := newStubAIService(t, "{}")

	for _, tc := range []struct{ resume, job string }{
		{"", "a job description"},
		{"a resume", ""},
		{"  \n ", "a job description"},
	} {
		result := svc.ScoreMatch(context.Background(), tc.resume, tc.job)
		if result.Error != "" {
			t.Errorf("empty input is not an error, got %q", result.Error)
		}
		if result.MatchPercentage != 0 || result.Reason != "Resume or Job Description missing" {
			t.Errorf("unexpected short-circuit result: %+v", result)
		}
		if result.MissingSkills == nil {
			t.Error("missingSkills must be an empty slice, not nil")
		}
	}
	if calls.Load() != 0 {
		t.Errorf("model was called %d times for empty input", calls.Load())
	}
}

func TestScoreMatchClampsPercentage(t *testing.T) {
	cases := []struct {
		content string
		want    int
	}{
		{`{"matchPercentage": 150, "missingSkills": ["Rust"], "reason": "over"}`, 100},
		{`{"matchPercentage": -20, "missingSkills": [], "reason": "under"}`, 0},
		{`{"matchPercentage": 85, "missingSkills": null, "reason": "normal"}`, 85},
	}

	for _, tc := range cases {
		svc, _ := newStubAIService(t, tc.content)
		result := svc.ScoreMatch(context.Background(), "resume", "job description")
		if result.Error != "" {
			t.Fatalf("unexpected error: %q", result.Error)
		}
		if result.MatchPercentage != tc.want {
			t.Errorf("content %s: percentage = %d, want %d", tc.content, result.MatchPercentage, tc.want)
		}
		if result.MissingSkills == nil {
			t.Error("missingSkills must never be nil in a clean result")
		}
	}
}

func TestScoreMatchExtractsFromChatter(t *testing.T) {
	content := `Sure! Based on the comparison: {"matchPercentage": 72, "missingSkills": ["Terraform"], "reason": "Solid {core} overlap"} — hope that helps.`
	svc, _ := newStubAIService(t, content)

	result := svc.ScoreMatch(context.Background(), "resume", "job description")
	if result.Error != "" {
		t.Fatalf("unexpected error: %q", result.Error)
	}
	if result.MatchPercentage != 72 || len(result.MissingSkills) != 1 {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestJSONObject(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"plain object", `{"a": 1}`, `{"a": 1}`, true},
		{"fenced", "```json\n{\"a\": 1}\n```", `{"a": 1}`, true},
		{"leading chatter", `Here you go: {"a": {"b": 2}} done`, `{"a": {"b": 2}}`, true},
		{"braces inside strings", `{"reason": "uses {placeholders} and \"quotes\""}`, `{"reason": "uses {placeholders} and \"quotes\""}`, true},
		{"no object", "nothing here", "", false},
		{"unbalanced", `{"a": 1`, "", false},
		{"invalid inner", `prefix {not json} suffix`, "", false},
	}

	for _, tc := range cases {
		got, ok := jsonObject(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("%s: jsonObject(%q) = (%q, %v), want (%q, %v)", tc.name, tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdef", 4); got != "abcd" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("ab", 4); got != "ab" {
		t.Errorf("short input must pass through, got %q", got)
	}
}

func TestTruncateKeepsRunesIntact(t *testing.T) {
	// "héllo": é is two bytes (0x68 0xC3 0xA9 ...), so cutting at byte 2
	// would land mid-rune.
	if got := truncate("héllo", 2); got != "h" {
		t.Errorf("truncate = %q, want %q", got, "h")
	}

	s := strings.Repeat("ü", 100)
	for _, max := range []int{1, 7, 50, 99, 150} {
		got := truncate(s, max)
		if len(got) > max {
			t.Errorf("max %d: len = %d", max, len(got))
		}
		if !utf8.ValidString(got) {
			t.Errorf("max %d: truncation produced invalid UTF-8: %q", max, got)
		}
	}
}

func TestPromptsCarryTruncatedInput(t *testing.T) {
	long := strings.Repeat("x", maxMatchChars+100)
	prompt := matchPrompt(truncate(long, maxMatchChars), "job")
	if strings.Contains(prompt, strings.Repeat("x", maxMatchChars+1)) {
		t.Error("resume text was not truncated before prompting")
	}
	if !strings.Contains(prompt, "JOB DESCRIPTION:") {
		t.Error("match prompt is missing the job description section")
	}
}
