package prompts

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"kidsflow/internal/catalog"
	"kidsflow/internal/domain"
)

var ErrNoSuggestions = errors.New("no suggestions in llm output")

// BuildSuggestionPrompt pide al LLM sugerencias de preguntas acordes a la
// edad y a las features habilitadas del niño.
func BuildSuggestionPrompt(age *int, features []string) string {
	var b strings.Builder
	b.WriteString("Generate 4 short example questions a child could ask a helpful AI assistant.\n")
	if age != nil {
		if g, ok := catalog.ClassifyAge(*age); ok {
			fmt.Fprintf(&b, "The child is %d years old (%s, %s).\n", *age, g.Label, g.CognitiveLevel)
			b.WriteString("Match vocabulary and topics to this developmental stage.\n")
		}
	}
	allowed := make([]string, 0, len(features))
	for _, id := range features {
		if f, ok := catalog.FeatureByID(id); ok {
			allowed = append(allowed, f.Name+": "+f.Description)
		}
	}
	if len(allowed) > 0 {
		b.WriteString("Questions must fit only these enabled areas:\n- ")
		b.WriteString(strings.Join(allowed, "\n- "))
		b.WriteString("\n")
	} else {
		b.WriteString("Keep questions general, curious and safe for children.\n")
	}
	b.WriteString(`Respond ONLY with a JSON array: [{"title": ["<first line>", "<second line>"], "content": "<full question>"}]`)
	return b.String()
}

type rawSuggestion struct {
	Title   any    `json:"title"`
	Content string `json:"content"`
}

// ParseSuggestions extrae el arreglo JSON de la respuesta del LLM y normaliza
// cada item: un title que no sea un par de strings pasa a ["Suggestion", ""].
func ParseSuggestions(raw string) ([]domain.PromptSuggestion, error) {
	cleaned := cleanLLMJSONResponse(raw)
	block := extractFirstJSON(cleaned, '[', ']')
	if block == "" {
		return nil, ErrNoSuggestions
	}
	var items []rawSuggestion
	if err := json.Unmarshal([]byte(block), &items); err != nil {
		return nil, fmt.Errorf("unmarshal suggestions: %w", err)
	}
	out := make([]domain.PromptSuggestion, 0, len(items))
	for _, item := range items {
		out = append(out, domain.PromptSuggestion{
			Title:   normalizeTitle(item.Title),
			Content: item.Content,
		})
	}
	return out, nil
}

func normalizeTitle(v any) [2]string {
	fallback := [2]string{"Suggestion", ""}
	parts, ok := v.([]any)
	if !ok {
		return fallback
	}
	var title [2]string
	for i := 0; i < len(parts) && i < 2; i++ {
		s, ok := parts[i].(string)
		if !ok {
			return fallback
		}
		title[i] = s
	}
	return title
}
