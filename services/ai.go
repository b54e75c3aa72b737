package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

type GeneratedImage struct {
	Data     []byte
	MIMEType string
}

type PromoSuggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImagePrompt string `json:"imagePrompt"`
}

// AIService backs the admin AI helper. Failures are returned to the admin
// as-is and never block other work.
type AIService interface {
	EditImage(ctx context.Context, image []byte, mimeType, instruction string) (GeneratedImage, error)
	SuggestPromo(ctx context.Context, stats Stats) (PromoSuggestion, error)
	GeneratePromoImage(ctx context.Context, imagePrompt string) (GeneratedImage, error)
}

type GeminiService struct {
	client     *genai.Client
	textModel  string
	imageModel string
}

func NewGeminiService(ctx context.Context, apiKey, textModel, imageModel string) (*GeminiService, error) {
	if apiKey == "" {
		return nil, ErrAIDisabled
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiService{client: client, textModel: textModel, imageModel: imageModel}, nil
}

func (g *GeminiService) EditImage(ctx context.Context, image []byte, mimeType, instruction string) (GeneratedImage, error) {
	if mimeType == "" {
		mimeType = "image/png"
	}
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(image, mimeType),
			genai.NewPartFromText(instruction),
		}, genai.RoleUser),
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.imageModel, contents, nil)
	if err != nil {
		return GeneratedImage{}, err
	}
	return firstImage(resp)
}

func promoPrompt(stats Stats) (string, error) {
	raw, err := json.Marshal(stats)
	if err != nil {
		return "", err
	}
	return strings.Join([]string{
		"You are a restaurant marketing expert.",
		"Here are the sales stats: " + string(raw) + ".",
		"Based on this data, suggest a promotional offer to boost sales.",
		"1. Identify if sales are low (needs urgency) or high (needs upsell).",
		"2. Create a catchy Title (max 40 chars).",
		"3. Create a short, persuasive Description (max 100 chars).",
		"4. Write a visual image prompt to generate a banner for this food offer (be descriptive, appetizing, high resolution, 4k).",
		"Return JSON.",
	}, "\n"), nil
}

func (g *GeminiService) SuggestPromo(ctx context.Context, stats Stats) (PromoSuggestion, error) {
	prompt, err := promoPrompt(stats)
	if err != nil {
		return PromoSuggestion{}, err
	}
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"title":       {Type: genai.TypeString},
				"description": {Type: genai.TypeString},
				"imagePrompt": {Type: genai.TypeString},
			},
			Required: []string{"title", "description", "imagePrompt"},
		},
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.textModel, genai.Text(prompt), cfg)
	if err != nil {
		return PromoSuggestion{}, err
	}
	return ParsePromoSuggestion(resp.Text())
}

// ParsePromoSuggestion decodes the model's JSON and enforces the length
// limits the prompt asks for.
func ParsePromoSuggestion(text string) (PromoSuggestion, error) {
	var s PromoSuggestion
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &s); err != nil {
		return PromoSuggestion{}, fmt.Errorf("decode promo suggestion: %w", err)
	}
	s.Title = truncateRunes(strings.TrimSpace(s.Title), 40)
	s.Description = truncateRunes(strings.TrimSpace(s.Description), 100)
	if s.Title == "" || s.ImagePrompt == "" {
		return PromoSuggestion{}, fmt.Errorf("incomplete promo suggestion")
	}
	return s, nil
}

func BannerPrompt(imagePrompt string) string {
	return "Professional food photography, appetizing banner, " + imagePrompt +
		", warm lighting, 4k resolution, no text, wide 16:9 aspect ratio"
}

func (g *GeminiService) GeneratePromoImage(ctx context.Context, imagePrompt string) (GeneratedImage, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.imageModel, genai.Text(BannerPrompt(imagePrompt)), nil)
	if err != nil {
		return GeneratedImage{}, err
	}
	return firstImage(resp)
}

func firstImage(resp *genai.GenerateContentResponse) (GeneratedImage, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return GeneratedImage{}, ErrNoImageReturned
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return GeneratedImage{Data: part.InlineData.Data, MIMEType: part.InlineData.MIMEType}, nil
		}
	}
	return GeneratedImage{}, ErrNoImageReturned
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
