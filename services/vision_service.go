package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/sync/errgroup"
)

// ParsedStandardEntry is one cut time extracted from a standards sheet.
type ParsedStandardEntry struct {
	Event    string  `json:"event"` // e.g. "100 Free SCY"
	Gender   string  `json:"gender"`
	AgeGroup *string `json:"age_group,omitempty"`
	CutLevel string  `json:"cut_level"`
	Time     string  `json:"time"` // e.g. "1:05.09"
}

// ParsedStandardSheet is the structured form of one sheet image.
type ParsedStandardSheet struct {
	StandardName    string                `json:"standard_name"`
	SanctioningBody string                `json:"sanctioning_body"`
	EffectiveYear   int                   `json:"effective_year"`
	Entries         []ParsedStandardEntry `json:"entries"`
}

const visionExtractionPrompt = `You are reading a photographed or scanned swimming time-standards sheet.
Extract every cut time on the sheet and answer with ONLY a JSON object of this shape:
{"standard_name": "...", "sanctioning_body": "...", "effective_year": 2025,
 "entries": [{"event": "100 Free SCY", "gender": "F", "age_group": "11-12",
              "cut_level": "Cut Time", "time": "1:05.09"}]}
Event strings are "<distance> <stroke> <course>" with course SCY, SCM, or LCM.
Use null for age_group when the sheet gives no age group. Times keep their
printed form (SS.cc or M:SS.cc). Do not invent entries that are not printed.`

// VisionService extracts structured time standards from sheet images via
// the OpenAI vision API.
type VisionService interface {
	ParseSheet(ctx context.Context, image []byte, contentType string) (*ParsedStandardSheet, error)
	// ParseSheets fans out over several images concurrently; results keep
	// input order. Any single failure fails the whole call.
	ParseSheets(ctx context.Context, images [][]byte, contentType string) ([]*ParsedStandardSheet, error)
}

type visionService struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

func NewVisionService(apiKey string, logger *slog.Logger) VisionService {
	return &visionService{
		client: openai.NewClient(apiKey),
		model:  openai.GPT4o,
		logger: logger,
	}
}

func (s *visionService) ParseSheet(ctx context.Context, image []byte, contentType string) (*ParsedStandardSheet, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(image))

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: visionExtractionPrompt},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: dataURL},
					},
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("vision request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("vision response had no choices")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	// Models sometimes wrap the JSON in a markdown fence despite the prompt.
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var sheet ParsedStandardSheet
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &sheet); err != nil {
		return nil, fmt.Errorf("failed to decode vision response: %w", err)
	}

	s.logger.InfoContext(ctx, "parsed standards sheet",
		slog.String("standard", sheet.StandardName),
		slog.Int("entries", len(sheet.Entries)))
	return &sheet, nil
}

func (s *visionService) ParseSheets(ctx context.Context, images [][]byte, contentType string) ([]*ParsedStandardSheet, error) {
	sheets := make([]*ParsedStandardSheet, len(images))
	g, ctx := errgroup.WithContext(ctx)

	for i, image := range images {
		i, image := i, image
		g.Go(func() error {
			sheet, err := s.ParseSheet(ctx, image, contentType)
			if err != nil {
				return fmt.Errorf("sheet %d: %w", i+1, err)
			}
			sheets[i] = sheet
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sheets, nil
}
