// Package ai generates diary entries from aggregated message text using a
// chat completion model behind an eino chain.
package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/martijnpeper/dagboek-bot/backend/internal/model/persona"
)

const diaryPrompt = `Ik ben {persona} en dit zijn mijn WhatsApp-berichten met {partner} van vandaag:

{messages}

Schrijf een dagboekverslag over mijn dag vanuit mijn perspectief.`

// Service runs the diary generation chain for one persona at a time.
type Service struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewService compiles the prompt template and chat model into a chain.
func NewService(ctx context.Context, chatModel model.ChatModel) (*Service, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.UserMessage(diaryPrompt),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile diary chain: %w", err)
	}

	return &Service{chain: runnable}, nil
}

// GenerateEntry builds the persona prompt from the message bodies, invokes
// the model once and returns the trimmed completion text.
func (s *Service) GenerateEntry(ctx context.Context, p persona.Persona, bodies []string) (string, error) {
	input := map[string]any{
		"persona":  p.Name,
		"partner":  p.Partner,
		"messages": strings.Join(bodies, "\n"),
	}

	response, err := s.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to run diary chain: %w", err)
	}
	if response == nil {
		return "", fmt.Errorf("model returned no completion")
	}

	text := strings.TrimSpace(response.Content)
	if text == "" {
		return "", fmt.Errorf("model returned an empty completion")
	}

	log.Printf("[ai] generated entry for persona=%s length=%d", p.ID, len(text))
	return text, nil
}
