package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/saeid-a/HealthMatchBack/internal/models"
)

type GeneratedPlanItem struct {
	ItemType    string  `json:"item_type"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	TargetKcal  *int    `json:"target_kcal"`
	TargetMin   *int    `json:"target_min"`
}

type GeneratedPlanDay struct {
	DayIndex int                 `json:"day_index"`
	Note     *string             `json:"note"`
	Items    []GeneratedPlanItem `json:"items"`
}

type GeneratedPlan struct {
	Title string             `json:"title"`
	Note  *string            `json:"note"`
	Days  []GeneratedPlanDay `json:"days"`
}

// PlanGenerator produces a week of schedule content for a user. The output is
// untrusted: AiPlanService inserts it through the normal validated write path
// and skips whatever does not fit.
type PlanGenerator interface {
	GeneratePlan(
		ctx context.Context,
		profile *models.UserProfile,
		goal string,
		specialRequests string,
		weekStart time.Time,
	) (*GeneratedPlan, error)
}

const planSystemPrompt = `You are a fitness and diet coach. Reply with a single JSON object:
{"title": string, "note": string or null, "days": [{"day_index": 0-6, "note": string or null,
"items": [{"item_type": "workout"|"diet"|"note", "title": string, "description": string or null,
"target_kcal": integer or null, "target_min": integer or null}]}]}.
Workout items carry target_min only, diet items target_kcal only, note items neither.`

type OpenAIPlanGenerator struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewOpenAIPlanGenerator(baseURL, apiKey, model string) *OpenAIPlanGenerator {
	return &OpenAIPlanGenerator{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (g *OpenAIPlanGenerator) GeneratePlan(
	ctx context.Context,
	profile *models.UserProfile,
	goal string,
	specialRequests string,
	weekStart time.Time,
) (*GeneratedPlan, error) {
	userInfo := map[string]any{
		"week_start": weekStart.Format("2006-01-02"),
	}
	if profile != nil {
		if profile.Age != nil {
			userInfo["age"] = *profile.Age
		}
		if profile.Gender != nil {
			userInfo["gender"] = *profile.Gender
		}
		if profile.HeightCM != nil {
			userInfo["height_cm"] = *profile.HeightCM
		}
		if profile.WeightKG != nil {
			userInfo["weight_kg"] = *profile.WeightKG
		}
		if profile.ActivityLevel != nil {
			userInfo["activity_level"] = *profile.ActivityLevel
		}
	}
	if goal = strings.TrimSpace(goal); goal != "" {
		userInfo["goal"] = goal
	}
	if specialRequests = strings.TrimSpace(specialRequests); specialRequests != "" {
		userInfo["special_requests"] = specialRequests
	}

	userPayload, err := json.Marshal(userInfo)
	if err != nil {
		return nil, fmt.Errorf("marshal user info: %w", err)
	}

	reqBody := chatCompletionRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: planSystemPrompt},
			{Role: "user", Content: "Create a 7-day plan for this user: " + string(userPayload)},
		},
	}
	reqBody.ResponseFormat.Type = "json_object"

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		g.baseURL+"/v1/chat/completions",
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generate plan: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		responseBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("generate plan: status %d: %s", resp.StatusCode, strings.TrimSpace(string(responseBody)))
	}

	var completion chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return nil, fmt.Errorf("decode completion response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("completion response has no choices")
	}

	var plan GeneratedPlan
	if err := json.Unmarshal([]byte(completion.Choices[0].Message.Content), &plan); err != nil {
		return nil, fmt.Errorf("parse generated plan: %w", err)
	}
	return &plan, nil
}
