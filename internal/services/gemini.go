package services

import (
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/desertthunder/prima/internal/shared"
	"github.com/desertthunder/prima/internal/studio"
	"google.golang.org/genai"
)

// DefaultModel is used when the configuration names none.
const DefaultModel = "gemini-2.5-flash"

var promptTemplate = template.Must(template.New("feedback").Parse(`Ты — ведущий аналитик и коуч вебкам-студии PRIMA. Твоя задача — проанализировать смену оператора и дать конструктивный фидбек.

ДАННЫЕ СМЕНЫ:
- Оператор: {{.OperatorName}}
- Длительность: {{.DurationHours}} ч.
- Общий доход: {{.TotalTokens}} токенов.
- Детализация по площадкам: {{.PlatformSummary}}

ЗАДАЧА:
Сформируй отчет на русском языке, содержащий следующие пункты (используй эмодзи):
1. 📊 **Эффективность**: Рассчитай средний заработок в час. Оцени, насколько это соответствует норме (цель: >500 тк/час).
2. 🔎 **Анализ площадок**: Выдели лучшую площадку и ту, которая просела.
3. 💡 **Стратегия роста**: Дай 1 конкретный совет, как поднять доход на отстающей площадке (например, обновить тему комнаты, использовать игрушку, проверить битрейт).

Будь краток, профессионален и мотивируй оператора на рост. Максимум 4-5 предложений.`))

// BuildPrompt renders the coaching prompt for req.
func BuildPrompt(req studio.FeedbackRequest) string {
	var sb strings.Builder
	if err := promptTemplate.Execute(&sb, req); err != nil {
		// The template only reads plain fields of req.
		panic(err)
	}
	return sb.String()
}

// generator is the slice of the genai client the summarizer calls.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiSummarizer produces shift feedback with Google's generative language API.
type GeminiSummarizer struct {
	models generator
	model  string
}

// NewGeminiSummarizer creates a summarizer for apiKey.
//
// An empty key yields a summarizer whose every call reports [shared.ErrMissingCredentials].
func NewGeminiSummarizer(ctx context.Context, apiKey, model string) (*GeminiSummarizer, error) {
	if model == "" {
		model = DefaultModel
	}
	if apiKey == "" {
		return &GeminiSummarizer{model: model}, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create genai client: %v", shared.ErrServiceUnavailable, err)
	}

	return &GeminiSummarizer{models: client.Models, model: model}, nil
}

// Model returns the model name requests are sent to.
func (g *GeminiSummarizer) Model() string { return g.model }

// Summarize implements [studio.Summarizer].
func (g *GeminiSummarizer) Summarize(ctx context.Context, req studio.FeedbackRequest) (string, error) {
	if g.models == nil {
		return "", shared.ErrMissingCredentials
	}

	contents := []*genai.Content{
		genai.NewContentFromText(BuildPrompt(req), genai.RoleUser),
	}

	resp, err := g.models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("%w: generate content: %v", shared.ErrAPIRequest, err)
	}
	if resp == nil {
		return "", nil
	}
	return resp.Text(), nil
}
