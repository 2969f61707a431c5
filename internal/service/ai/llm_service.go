// Package ai generates free-chat replies through a language model when
// no deterministic strategy claimed the input. The rest of the service
// treats it as optional; any failure here surfaces as an error the
// caller converts into a canned fallback.
package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/brianference/daisydog-sub000/internal/config"
	chatmodel "github.com/brianference/daisydog-sub000/internal/model/chat"
)

// ErrLowQuality marks a model reply that failed the output checks.
var ErrLowQuality = fmt.Errorf("model reply failed quality checks")

// Service wraps the compiled prompt-to-model chain.
type Service struct {
	cfg   config.AIConfig
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewService builds and compiles the chat chain. Returns an error when
// credentials are missing; callers should treat that as "run without
// free chat", not as fatal.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{
		cfg:   cfg,
		chain: runnable,
	}, nil
}

// Generate produces a reply to userMessage in Daisy's voice. The call
// is bounded by the configured timeout.
func (s *Service) Generate(ctx context.Context, sess *chatmodel.Session, userMessage string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	input := map[string]any{
		"system":  BuildSystemPrompt(sess),
		"history": buildHistoryMessages(sess.Messages),
		"query":   userMessage,
	}

	response, err := s.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to run AI chain: %w", err)
	}

	reply := strings.TrimSpace(response.Content)
	if !acceptableReply(reply) {
		return "", ErrLowQuality
	}

	log.Printf("[ai] generated reply, length=%d", len(reply))
	return reply, nil
}

func buildHistoryMessages(messages []chatmodel.Message) []*schema.Message {
	const historyLimit = 10

	if len(messages) == 0 {
		return nil
	}

	startIdx := 0
	if len(messages) > historyLimit {
		startIdx = len(messages) - historyLimit
	}

	history := make([]*schema.Message, 0, len(messages)-startIdx)
	for _, msg := range messages[startIdx:] {
		switch msg.Sender {
		case chatmodel.SenderUser:
			history = append(history, schema.UserMessage(msg.Text))
		case chatmodel.SenderDaisy:
			history = append(history, schema.AssistantMessage(msg.Text, nil))
		}
	}

	return history
}

// acceptableReply rejects empty, overlong, or off-register output so a
// bad generation degrades to the canned fallback instead of reaching a
// child.
func acceptableReply(reply string) bool {
	if reply == "" || len(reply) > 600 {
		return false
	}
	lowered := strings.ToLower(reply)
	for _, banned := range []string{"as an ai", "language model", "i cannot assist"} {
		if strings.Contains(lowered, banned) {
			return false
		}
	}
	return true
}
