// Package adapters provides implementations for external service integrations.
package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"github.com/ledgerline/backend/internal/application/adapter"
	"github.com/ledgerline/backend/internal/domain/entity"
)

// GeminiService implements the CategorySuggestionService using Google Gemini.
// It maps bank-provided category labels onto the user's known categories; the
// candidate set comes from the user's learned mappings.
type GeminiService struct {
	apiKey            string
	modelName         string
	mappingRepository adapter.CategoryMappingRepository
}

// NewGeminiService creates a new Gemini service instance.
func NewGeminiService(apiKey string, mappingRepository adapter.CategoryMappingRepository) *GeminiService {
	return &GeminiService{
		apiKey:            apiKey,
		modelName:         "gemini-2.5-flash-lite",
		mappingRepository: mappingRepository,
	}
}

// IsAvailable checks if the Gemini service is available and properly configured.
func (s *GeminiService) IsAvailable() bool {
	return s.apiKey != ""
}

// Suggest proposes a category for the given bank category label.
// Returns nil without error when no confident suggestion exists.
func (s *GeminiService) Suggest(ctx context.Context, userID uuid.UUID, bankCategory string) (*adapter.CategorySuggestion, error) {
	if !s.IsAvailable() {
		return nil, fmt.Errorf("gemini service is not configured")
	}

	// The model can only pick categories the user already has; without any
	// learned mappings there is nothing to pick from.
	mappings, err := s.mappingRepository.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load category mappings: %w", err)
	}
	candidates := distinctCategories(mappings)
	if len(candidates) == 0 {
		return nil, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(s.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(s.modelName)
	model.SetTemperature(0.1)
	model.ResponseMIMEType = "application/json"

	prompt := s.buildPrompt(bankCategory, candidates)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	suggestion, err := s.parseResponse(resp, candidates)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return suggestion, nil
}

// categoryCandidate is one known category offered to the model.
type categoryCandidate struct {
	ID   uuid.UUID
	Name string
}

// distinctCategories collapses a user's mappings into the set of categories
// they point at.
func distinctCategories(mappings []*entity.CategoryMapping) []categoryCandidate {
	seen := make(map[uuid.UUID]struct{}, len(mappings))
	candidates := make([]categoryCandidate, 0, len(mappings))
	for _, mapping := range mappings {
		if _, ok := seen[mapping.CategoryID]; ok {
			continue
		}
		seen[mapping.CategoryID] = struct{}{}
		candidates = append(candidates, categoryCandidate{
			ID:   mapping.CategoryID,
			Name: mapping.CategoryName,
		})
	}
	return candidates
}

// buildPrompt creates the prompt for Gemini.
func (s *GeminiService) buildPrompt(bankCategory string, candidates []categoryCandidate) string {
	var sb strings.Builder

	sb.WriteString(`You classify bank statement categories. Given a category label supplied by a bank and the user's existing categories, pick the existing category that best represents the bank label.

RULES:
- Pick ONLY from the existing categories listed below.
- Confidence expresses how certain the match is, from 0.0 to 1.0.
- If no existing category is a reasonable fit, respond with null.

EXISTING CATEGORIES:
`)

	for _, candidate := range candidates {
		sb.WriteString(fmt.Sprintf("- ID: %s, Name: %s\n", candidate.ID, candidate.Name))
	}

	sb.WriteString(fmt.Sprintf(`
BANK CATEGORY LABEL: %q

Respond with a single JSON object:
{
  "category_id": "uuid of the chosen category",
  "confidence": 0.0-1.0
}
or the literal null when nothing fits.

RESPONSE FORMAT: return only the JSON, no additional text.
`, bankCategory))

	return sb.String()
}

// geminiCategoryPick represents the raw response from Gemini.
type geminiCategoryPick struct {
	CategoryID string  `json:"category_id"`
	Confidence float64 `json:"confidence"`
}

// parseResponse parses the Gemini response into a CategorySuggestion.
func (s *GeminiService) parseResponse(resp *genai.GenerateContentResponse, candidates []categoryCandidate) (*adapter.CategorySuggestion, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from gemini")
	}

	var textContent string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			textContent = string(text)
			break
		}
	}
	if textContent == "" {
		return nil, fmt.Errorf("no text content in response")
	}

	// Clean the response (remove markdown code blocks if present)
	textContent = strings.TrimPrefix(textContent, "```json")
	textContent = strings.TrimPrefix(textContent, "```")
	textContent = strings.TrimSuffix(textContent, "```")
	textContent = strings.TrimSpace(textContent)

	if textContent == "null" {
		return nil, nil
	}

	var pick geminiCategoryPick
	if err := json.Unmarshal([]byte(textContent), &pick); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w, content: %s", err, textContent)
	}

	categoryID, err := uuid.Parse(pick.CategoryID)
	if err != nil {
		return nil, nil
	}

	// The model must pick from the offered set; anything else is discarded.
	for _, candidate := range candidates {
		if candidate.ID == categoryID {
			return &adapter.CategorySuggestion{
				CategoryID:   candidate.ID,
				CategoryName: candidate.Name,
				Confidence:   clampConfidence(pick.Confidence),
			}, nil
		}
	}
	return nil, nil
}

func clampConfidence(confidence float64) float64 {
	if confidence < 0 {
		return 0
	}
	if confidence > 1 {
		return 1
	}
	return confidence
}

// Ensure the implementation satisfies the interface.
var _ adapter.CategorySuggestionService = (*GeminiService)(nil)
