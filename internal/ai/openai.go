package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// OpenAIClient talks to an OpenAI-compatible chat-completions endpoint. The
// priority classifier sends the photo inline as a base64 image part; the other
// capabilities are plain text prompts.
type OpenAIClient struct {
	BaseURL     string
	APIKey      string
	TextModel   string
	VisionModel string
	Timeout     time.Duration
	HTTPClient  *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

func (c *OpenAIClient) Summarize(ctx context.Context, description, categoryName string) (string, error) {
	prompt := fmt.Sprintf(`You are an assistant for a housing-services ticketing system.

Problem category: %s
Problem description from the citizen: %s

Your task:
1. Analyze the problem description.
2. Produce a structured description for AI photo analysis.
3. List the key visual indicators to look for in the photo.

Answer briefly and concretely: list 3-5 key indicators of the problem.`, categoryName, description)

	return c.chat(ctx, c.TextModel, []chatMessage{
		{Role: "system", Content: "You are an expert in analyzing housing and utilities problems."},
		{Role: "user", Content: prompt},
	}, 300, 0.3)
}

func (c *OpenAIClient) ClassifyPriority(ctx context.Context, photo []byte, structuredDescription, categoryName string) (string, error) {
	prompt := fmt.Sprintf(`You are an expert in assessing housing and utilities problems.

Category: %s
Problem description: %s

Look at the photo and classify the PRIORITY of the problem as exactly one word:

low - cosmetic defects or minor inconvenience, can wait
medium - needs attention within a week
high - safety, health or property risk, needs immediate action

Consider the extent of the damage, the danger to people, the impact on living
comfort and the consequences of leaving it unfixed.

Answer with ONLY one word: low, medium or high. No explanations.`, categoryName, structuredDescription)

	encoded := base64.StdEncoding.EncodeToString(photo)
	raw, err := c.chat(ctx, c.VisionModel, []chatMessage{
		{Role: "user", Content: []contentPart{
			{Type: "text", Text: prompt},
			{Type: "image_url", ImageURL: &imageURL{URL: "data:image/jpeg;base64," + encoded}},
		}},
	}, 10, 0.1)
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(raw)), nil
}

func (c *OpenAIClient) SelectAssignee(ctx context.Context, description, categoryName, priority string, candidates []Candidate) (int64, error) {
	var sb strings.Builder
	for _, cand := range candidates {
		fmt.Fprintf(&sb, "- ID: %d, Name: %s, Specialty: %s, Rating: %.1f/5.0, Active tickets: %d\n",
			cand.ID, cand.Name, cand.Specialty, cand.Rating, cand.ActiveTickets)
	}

	prompt := fmt.Sprintf(`You are an automatic work-assignment system for housing services.

TICKET:
Category: %s
Priority: %s
Description: %s

AVAILABLE EMPLOYEES:
%s
Choose ONE most suitable employee, considering:
1. The specialty must match the problem category.
2. Employee rating (higher is better).
3. Current workload (fewer active tickets is better).
4. For high-priority problems prefer employees with a high rating.

Answer with ONLY the chosen employee's ID (a single number). No explanations.`,
		categoryName, priority, description, sb.String())

	raw, err := c.chat(ctx, c.TextModel, []chatMessage{
		{Role: "system", Content: "You are a task-assignment system. Answer with a number only."},
		{Role: "user", Content: prompt},
	}, 10, 0.2)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable employee id %q", strings.TrimSpace(raw))
	}
	return id, nil
}

func (c *OpenAIClient) Recommend(ctx context.Context, description, categoryName, priority string) (string, error) {
	prompt := fmt.Sprintf(`You are a friendly assistant of a housing-services ticketing system.

The citizen filed a ticket:
Category: %s
Priority: %s
Description: %s

Write a short friendly message (2-3 sentences) telling the citizen the ticket
was accepted and when to expect a resolution given its priority. Do not mention
the priority label itself.`, categoryName, priority, description)

	return c.chat(ctx, c.TextModel, []chatMessage{
		{Role: "user", Content: prompt},
	}, 150, 0.5)
}

func (c *OpenAIClient) chat(ctx context.Context, model string, messages []chatMessage, maxTokens int, temperature float64) (string, error) {
	payload := struct {
		Model       string        `json:"model"`
		Messages    []chatMessage `json:"messages"`
		MaxTokens   int           `json:"max_tokens,omitempty"`
		Temperature float64       `json:"temperature,omitempty"`
	}{
		Model:       model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}
	b, _ := json.Marshal(payload)

	url := strings.TrimRight(c.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	client := c.HTTPClient
	if client == nil {
		timeout := c.Timeout
		if timeout <= 0 {
			timeout = 8 * time.Second
		}
		if deadline, ok := ctx.Deadline(); ok {
			if remaining := time.Until(deadline); remaining > 0 && remaining < timeout {
				timeout = remaining
			}
		}
		client = &http.Client{Timeout: timeout}
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("inference http error: %s", resp.Status)
	}

	var res struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", err
	}
	if len(res.Choices) == 0 {
		return "", fmt.Errorf("empty inference response")
	}
	return res.Choices[0].Message.Content, nil
}
