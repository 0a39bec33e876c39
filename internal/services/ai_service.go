package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	openai "github.com/sashabaranov/go-openai"

	"github.com/jobboardhq/jobboard-backend/internal/config"
	"github.com/jobboardhq/jobboard-backend/internal/models"
)

const (
	// Input truncation bounds keep prompts inside model context limits.
	maxResumeChars = 15000
	maxMatchChars  = 8000

	// Below this many extracted characters the PDF is treated as
	// image-only (scanned) and never sent to the model.
	minResumeChars = 50
)

// ExtractResult is the outcome of resume parsing. Error is set instead of a
// Go error being returned: callers must check it before trusting the rest.
type ExtractResult struct {
	Skills     []string                 `json:"skills"`
	Experience []models.ExperienceEntry `json:"experience"`
	RawText    string                   `json:"rawText,omitempty"`
	Error      string                   `json:"error,omitempty"`
}

// MatchResult is the outcome of scoring a resume against a job description.
// Same error-as-data contract as ExtractResult.
type MatchResult struct {
	MatchPercentage int      `json:"matchPercentage"`
	MissingSkills   []string `json:"missingSkills"`
	Reason          string   `json:"reason"`
	Error           string   `json:"error,omitempty"`
}

// AIService wraps one OpenAI-compatible chat-completions endpoint. It is the
// only place this system talks to a generative model, and it is treated as an
// untrusted dependency throughout: every failure mode degrades to a result
// carrying an Error field.
type AIService struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	hasKey  bool

	// swappable so tests can bypass real PDF decoding
	extractText func(data []byte) (string, error)
}

func NewAIService(cfg *config.Config) *AIService {
	clientCfg := openai.DefaultConfig(cfg.AIAPIKey)
	if cfg.AIBaseURL != "" {
		clientCfg.BaseURL = cfg.AIBaseURL
	}

	return &AIService{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.AIModel,
		timeout:     cfg.AITimeout,
		hasKey:      cfg.AIAPIKey != "",
		extractText: pdfText,
	}
}

// ExtractProfile pulls structured skills and experience out of an uploaded
// resume. Only PDF input is supported.
func (s *AIService) ExtractProfile(ctx context.Context, data []byte, mimeType string) ExtractResult {
	empty := ExtractResult{Skills: []string{}, Experience: []models.ExperienceEntry{}}

	if mimeType != "application/pdf" {
		empty.Error = "Only PDF supported for now"
		return empty
	}

	text, err := s.extractText(data)
	if err != nil {
		empty.Error = "could not read PDF: " + err.Error()
		return empty
	}
	if len(strings.TrimSpace(text)) < minResumeChars {
		empty.Error = "could not extract readable text from PDF"
		return empty
	}

	if !s.hasKey {
		empty.Error = "AI API key not configured"
		return empty
	}

	raw, err := s.complete(ctx, extractionPrompt(truncate(text, maxResumeChars)))
	if err != nil {
		empty.Error = "AI request failed: " + err.Error()
		return empty
	}

	obj, ok := jsonObject(raw)
	if !ok {
		empty.Error = "no JSON object in AI response"
		return empty
	}

	var payload struct {
		Skills     []string                 `json:"skills"`
		Experience []models.ExperienceEntry `json:"experience"`
	}
	if err := json.Unmarshal([]byte(obj), &payload); err != nil {
		empty.Error = "malformed AI response: " + err.Error()
		return empty
	}

	result := ExtractResult{
		Skills:     payload.Skills,
		Experience: models.NormalizeExperience(payload.Experience),
		RawText:    text,
	}
	if result.Skills == nil {
		result.Skills = []string{}
	}
	return result
}

// ScoreMatch estimates resume-to-job fit. Empty input short-circuits to a
// zero score without calling the model; that is a valid result, not an error.
func (s *AIService) ScoreMatch(ctx context.Context, resumeText, jobDescription string) MatchResult {
	if strings.TrimSpace(resumeText) == "" || strings.TrimSpace(jobDescription) == "" {
		return MatchResult{MatchPercentage: 0, MissingSkills: []string{}, Reason: "Resume or Job Description missing"}
	}

	if !s.hasKey {
		return MatchResult{MissingSkills: []string{}, Error: "AI API key not configured"}
	}

	prompt := matchPrompt(truncate(resumeText, maxMatchChars), truncate(jobDescription, maxMatchChars))
	raw, err := s.complete(ctx, prompt)
	if err != nil {
		return MatchResult{MissingSkills: []string{}, Error: "AI request failed: " + err.Error()}
	}

	obj, ok := jsonObject(raw)
	if !ok {
		return MatchResult{MissingSkills: []string{}, Error: "no JSON object in AI response"}
	}

	var result MatchResult
	if err := json.Unmarshal([]byte(obj), &result); err != nil {
		return MatchResult{MissingSkills: []string{}, Error: "malformed AI response: " + err.Error()}
	}

	if result.MatchPercentage < 0 {
		result.MatchPercentage = 0
	}
	if result.MatchPercentage > 100 {
		result.MatchPercentage = 100
	}
	if result.MissingSkills == nil {
		result.MissingSkills = []string{}
	}
	return result
}

func (s *AIService) complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("model returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func extractionPrompt(text string) string {
	return `Extract technical skills and professional experience from the following resume text.
Return ONLY a valid JSON object with this exact structure:
{
    "skills": ["skill1", "skill2"],
    "experience": [
        { "role": "Job Title", "company": "Company Name", "duration": "Duration", "description": "Brief summary" }
    ]
}
Do not include any markdown formatting or code fences. Just the raw JSON string.

RESUME TEXT:
` + text
}

func matchPrompt(resumeText, jobDescription string) string {
	return `Compare the following Resume and Job Description.
Calculate a match percentage (0-100), identify missing skills, and provide a brief reasoning.
Return ONLY a valid JSON object with this exact structure:
{
    "matchPercentage": 85,
    "missingSkills": ["skill1", "skill2"],
    "reason": "Brief explanation of why this score was given"
}
Do not include any markdown formatting or code fences. Just the raw JSON string.

RESUME:
` + resumeText + `

JOB DESCRIPTION:
` + jobDescription
}

// jsonObject pulls a JSON object out of conversational model output. Markdown
// fences are stripped first; if the remainder is not itself a valid object,
// the first balanced {...} span is tried (tracking strings and escapes, so
// braces inside string values do not end the scan early).
func jsonObject(s string) (string, bool) {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "{") && json.Valid([]byte(s)) {
		return s, true
	}

	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				candidate := s[start : i+1]
				if json.Valid([]byte(candidate)) {
					return candidate, true
				}
				return "", false
			}
		}
	}
	return "", false
}

// truncate cuts s to at most max bytes, backing up so a multi-byte rune is
// never split.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func pdfText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}
