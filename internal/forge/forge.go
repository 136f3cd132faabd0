// Package forge is the AI advisory service: stateless prompt-in,
// structured-JSON-out calls against a generative model. Each
// operation builds one prompt, requests strict JSON, and parses the
// reply; there is no retry, timeout policy, or caching: a failure is
// surfaced to the caller as a single error.
package forge

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pandora-network/ideanet/internal/models"
	"go.uber.org/zap"
)

// Request is one generation call. ImageData, when set, is inlined as
// a multipart image block alongside the prompt.
type Request struct {
	Model     string
	System    string
	Prompt    string
	ImageData []byte
	ImageMIME string
}

// Generator abstracts the model provider. The production
// implementation is the Anthropic client; tests substitute a stub.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

const forgeSystem = "You are The Forge, the business incubation module of the Pandora idea network. " +
	"You always answer with a single JSON document and nothing else."

// Service exposes the four advisory operations.
type Service struct {
	gen        Generator
	forgeModel string
	draftModel string
	logger     *zap.Logger
}

// NewService wires a generator with the two model tiers: forgeModel
// for the deep business analysis, draftModel for the lighter calls.
func NewService(gen Generator, forgeModel, draftModel string, logger *zap.Logger) *Service {
	return &Service{
		gen:        gen,
		forgeModel: forgeModel,
		draftModel: draftModel,
		logger:     logger,
	}
}

func languageDirective(lang string) string {
	switch lang {
	case "pt":
		return "IMPORTANT: Provide all text fields specifically in Portuguese (pt-BR)."
	case "es":
		return "IMPORTANT: Provide all text fields specifically in Spanish."
	default:
		return "IMPORTANT: Provide all text fields in English."
	}
}

// decodeJSON parses a model reply into v, tolerating a markdown code
// fence around the document.
func decodeJSON(raw string, v any) error {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx >= 0 {
			s = s[idx+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), v); err != nil {
		return fmt.Errorf("parse model response: %w", err)
	}
	return nil
}

// AnalyzeBusiness runs the full startup-viability analysis of an
// idea.
func (s *Service) AnalyzeBusiness(ctx context.Context, idea *models.Idea, lang string) (*models.BusinessAnalysis, error) {
	prompt := fmt.Sprintf(`Analyze the following %s for startup viability.

Title: %s
Description: %s

%s

Respond with a JSON object with exactly these keys:
- "viability_score", "market_size_score", "complexity_score", "veracity_score": integers 0-100 (veracity = scientific plausibility)
- "swot": object with "strengths", "weaknesses", "opportunities", "threats" (arrays of strings)
- "canvas": object with "value_proposition", "customer_segments", "revenue_streams", "cost_structure" (strings)
- "competitors": array of real-world competitors
- "suggested_team": array of roles needed
- "summary": a short encouraging summary
- "mermaid_diagram": Mermaid.js flowchart syntax describing the logic or process of this idea`,
		strings.ToLower(string(idea.Type)), idea.Title, idea.Description, languageDirective(lang))

	raw, err := s.gen.Generate(ctx, Request{
		Model:  s.forgeModel,
		System: forgeSystem,
		Prompt: prompt,
	})
	if err != nil {
		return nil, fmt.Errorf("business analysis: %w", err)
	}

	var analysis models.BusinessAnalysis
	if err := decodeJSON(raw, &analysis); err != nil {
		return nil, fmt.Errorf("business analysis: %w", err)
	}
	return &analysis, nil
}

// DraftRefinement is the structured output of RefineDraft.
type DraftRefinement struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// RefineDraft turns raw user input into a publishable title,
// description and tag set.
func (s *Service) RefineDraft(ctx context.Context, rawInput string, ideaType models.IdeaType, lang string) (*DraftRefinement, error) {
	prompt := fmt.Sprintf(`Refine the following raw idea input into a professional, structured node for the idea network.
Input: %q
Type: %s

%s

Respond with a JSON object with exactly these keys:
- "title": catchy but descriptive title
- "description": clear, well-written text explaining the concept
- "tags": array of 4-5 technical/business tags`,
		rawInput, ideaType, languageDirective(lang))

	raw, err := s.gen.Generate(ctx, Request{
		Model:  s.draftModel,
		System: forgeSystem,
		Prompt: prompt,
	})
	if err != nil {
		return nil, fmt.Errorf("refine draft: %w", err)
	}

	var refinement DraftRefinement
	if err := decodeJSON(raw, &refinement); err != nil {
		return nil, fmt.Errorf("refine draft: %w", err)
	}
	return &refinement, nil
}

// ImageAnalysis is the structured output of AnalyzeImage.
type ImageAnalysis struct {
	Title                  string   `json:"title"`
	Description            string   `json:"description"`
	TechnicalInsights      []string `json:"technical_insights"`
	ImprovementSuggestions []string `json:"improvement_suggestions"`
}

// AnalyzeImage inspects a prototype drawing or photo and suggests
// design improvements.
func (s *Service) AnalyzeImage(ctx context.Context, imageData []byte, imageMIME, lang string) (*ImageAnalysis, error) {
	prompt := fmt.Sprintf(`Analyze this prototype/drawing/concept image for a new invention or problem.
Explain what you see technically and suggest how to improve the design.
%s
Respond with a JSON object with exactly these keys: "title", "description", "technical_insights" (array), "improvement_suggestions" (array).`,
		languageDirective(lang))

	raw, err := s.gen.Generate(ctx, Request{
		Model:     s.draftModel,
		System:    forgeSystem,
		Prompt:    prompt,
		ImageData: imageData,
		ImageMIME: imageMIME,
	})
	if err != nil {
		return nil, fmt.Errorf("image analysis: %w", err)
	}

	var analysis ImageAnalysis
	if err := decodeJSON(raw, &analysis); err != nil {
		return nil, fmt.Errorf("image analysis: %w", err)
	}
	return &analysis, nil
}

// BrainstormConnections proposes three related directions: technical
// approaches for a PROBLEM, addressable problems for a SOLUTION.
func (s *Service) BrainstormConnections(ctx context.Context, idea *models.Idea, lang string) ([]string, error) {
	prompt := fmt.Sprintf(`I have an idea on the network: %q.
Generate 3 proactive connections.
If it's a PROBLEM, suggest 3 technical approaches to solve it.
If it's a SOLUTION, suggest 3 real-world massive problems it could address.
The idea is a %s.
%s
Respond with a JSON array of strings.`,
		idea.Title, idea.Type, languageDirective(lang))

	raw, err := s.gen.Generate(ctx, Request{
		Model:  s.draftModel,
		System: forgeSystem,
		Prompt: prompt,
	})
	if err != nil {
		return nil, fmt.Errorf("brainstorm connections: %w", err)
	}

	var connections []string
	if err := decodeJSON(raw, &connections); err != nil {
		return nil, fmt.Errorf("brainstorm connections: %w", err)
	}
	return connections, nil
}
