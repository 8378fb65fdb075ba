package advisor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/ivolkov/founderdesk/internal/domain"
)

const (
	// DefaultModelName is the default Gemini model used for generation.
	DefaultModelName = "gemini-2.5-flash"
)

// Message is one turn of an advisory conversation, passed to the model as
// context when generating expense estimates.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Advisor generates budget estimates and revenue stream suggestions with
// Gemini. The zero value is not usable; construct it with New.
type Advisor struct {
	model string
	log   zerolog.Logger
}

func New(model string, log zerolog.Logger) *Advisor {
	if model == "" {
		model = DefaultModelName
	}
	return &Advisor{model: model, log: log}
}

// generate sends the given content parts to the model and returns the raw
// text of the response. Credentials come from the environment, same as every
// other Google client in this repo.
func (a *Advisor) generate(ctx context.Context, parts []*genai.Part) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return "", fmt.Errorf("advisor: create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: parts,
		},
	}

	resp, err := client.Models.GenerateContent(ctx, a.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("advisor: generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return "", fmt.Errorf("advisor: empty response from model")
	}
	return rawText, nil
}

// GenerateEstimates asks the model for an initial set of expense estimates
// for the given session's business and parses the Markdown answer into
// budget items. The items are not persisted; the caller feeds them through a
// reconciliation pass.
func (a *Advisor) GenerateEstimates(ctx context.Context, session *domain.ChatSession, history []Message) ([]*domain.BudgetItem, error) {
	prompt := buildEstimatesPrompt(session, history)

	raw, err := a.generate(ctx, []*genai.Part{{Text: prompt}})
	if err != nil {
		return nil, err
	}

	items := ParseEstimates(raw)
	a.log.Info().
		Str("session_id", session.ID).
		Int("items", len(items)).
		Msg("generated expense estimates")

	if len(items) == 0 {
		return nil, fmt.Errorf("advisor: no estimates parsed from model output")
	}
	return items, nil
}

// GenerateEstimatesFromPlan extracts expense estimates from an uploaded
// business plan document (PDF or plain text) instead of conversation history.
func (a *Advisor) GenerateEstimatesFromPlan(ctx context.Context, docBytes []byte, mimeType string) ([]*domain.BudgetItem, error) {
	parts := []*genai.Part{
		{Text: buildPlanExtractionPrompt()},
		{
			InlineData: &genai.Blob{
				MIMEType: mimeType,
				Data:     docBytes,
			},
		},
	}

	raw, err := a.generate(ctx, parts)
	if err != nil {
		return nil, err
	}

	items := ParseEstimates(raw)
	if len(items) == 0 {
		return nil, fmt.Errorf("advisor: no estimates parsed from plan document")
	}
	return items, nil
}

// revenueStreamPayload mirrors the JSON object the model is instructed to
// return for each suggested revenue stream.
type revenueStreamPayload struct {
	Name            string  `json:"name"`
	EstimatedPrice  float64 `json:"estimated_price"`
	EstimatedVolume int64   `json:"estimated_volume"`
}

// GenerateRevenueStreams asks the model for revenue stream suggestions for a
// business type. The model must answer with a strict JSON array; Markdown
// fences are stripped if it ignores that instruction.
func (a *Advisor) GenerateRevenueStreams(ctx context.Context, businessType string) ([]*domain.RevenueStreamCandidate, error) {
	if businessType == "" {
		businessType = "Startup"
	}
	prompt := buildRevenueStreamsPrompt(businessType)

	raw, err := a.generate(ctx, []*genai.Part{{Text: prompt}})
	if err != nil {
		return nil, err
	}

	clean := cleanModelJSON(raw)

	var payload []revenueStreamPayload
	if err := json.Unmarshal([]byte(clean), &payload); err != nil {
		return nil, fmt.Errorf("advisor: unmarshal revenue streams: %w\nraw response: %s", err, raw)
	}

	candidates := make([]*domain.RevenueStreamCandidate, 0, len(payload))
	for _, p := range payload {
		if p.Name == "" {
			continue
		}
		candidates = append(candidates, candidateFromPayload(p))
	}

	a.log.Info().
		Str("business_type", businessType).
		Int("streams", len(candidates)).
		Msg("generated revenue streams")

	if len(candidates) == 0 {
		return nil, fmt.Errorf("advisor: no revenue streams parsed from model output")
	}
	return candidates, nil
}
