// Package generate produces grounded responses from retrieved context using
// a chat completion model.
package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/docrag/internal/config"
)

// Sentinel errors for generation operations.
var (
	// ErrInvalidConfig indicates invalid generator configuration.
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrEmptyResponse indicates the model returned no choices.
	ErrEmptyResponse = errors.New("model returned empty response")
)

// Kind selects a generator flavor.
type Kind string

const (
	// KindQuestionAnswer answers questions grounded in retrieved context
	// and prior conversation turns.
	KindQuestionAnswer Kind = "question_answer"

	// KindSummary summarizes a topic from retrieved context.
	KindSummary Kind = "summary"
)

// Turn is a single exchange entry in the chat history.
type Turn struct {
	Role    string
	Content string
}

// ChatModel is the completion surface the generators call. Satisfied by
// langchaingo's openai.LLM.
type ChatModel interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

// NewChatModel builds the OpenAI-backed chat model from the application
// configuration.
func NewChatModel(cfg *config.Config) (ChatModel, error) {
	if cfg.Embedding.APIKey.Value() == "" {
		return nil, fmt.Errorf("%w: API key not set", ErrInvalidConfig)
	}
	model := cfg.Generation.Model
	if model == "" {
		return nil, fmt.Errorf("%w: generation model not set", ErrInvalidConfig)
	}

	llm, err := openai.New(
		openai.WithModel(model),
		openai.WithToken(cfg.Embedding.APIKey.Value()),
	)
	if err != nil {
		return nil, fmt.Errorf("creating chat model: %w", err)
	}
	return llm, nil
}

// QuestionAnswerGenerator answers a question using retrieved context chunks
// and the running chat history.
type QuestionAnswerGenerator struct {
	model  ChatModel
	logger *zap.Logger
}

// NewQuestionAnswerGenerator creates a QA generator over the given model.
func NewQuestionAnswerGenerator(model ChatModel, logger *zap.Logger) *QuestionAnswerGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuestionAnswerGenerator{model: model, logger: logger}
}

// Kind returns KindQuestionAnswer.
func (g *QuestionAnswerGenerator) Kind() Kind { return KindQuestionAnswer }

// Generate answers the question. Context chunks and history are folded into
// the system prompt; the question itself is sent as the user message.
func (g *QuestionAnswerGenerator) Generate(ctx context.Context, question string, chunks []string, history []Turn) (string, error) {
	contextBlock := strings.Join(chunks, "\n\n")

	historyLines := make([]string, len(history))
	for i, turn := range history {
		historyLines[i] = fmt.Sprintf("%s: %s", turn.Role, turn.Content)
	}

	prompt := fmt.Sprintf(`You are an assistant for question-answering tasks. Use the following pieces of retrieved context and the chat history to answer the question. If you don't know the answer, say that you don't know. Use three sentences maximum and keep the answer concise.
Context:
%s
Chat History:
%s
Question:
%s`, contextBlock, strings.Join(historyLines, "\n"), question)

	answer, err := complete(ctx, g.model, prompt, question)
	if err != nil {
		g.logger.Error("qa generation failed", zap.Error(err))
		return "", fmt.Errorf("generating answer: %w", err)
	}

	g.logger.Debug("generated answer",
		zap.Int("context_chunks", len(chunks)),
		zap.Int("history_turns", len(history)),
	)
	return answer, nil
}

// SummaryGenerator summarizes a topic from retrieved context chunks.
type SummaryGenerator struct {
	model  ChatModel
	logger *zap.Logger
}

// NewSummaryGenerator creates a summary generator over the given model.
func NewSummaryGenerator(model ChatModel, logger *zap.Logger) *SummaryGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SummaryGenerator{model: model, logger: logger}
}

// Kind returns KindSummary.
func (g *SummaryGenerator) Kind() Kind { return KindSummary }

// Generate summarizes the topic from the retrieved chunks.
func (g *SummaryGenerator) Generate(ctx context.Context, topic string, chunks []string) (string, error) {
	prompt := fmt.Sprintf(`You are an assistant for summarization of topics. Provide a concise summary of the following text in three sentences or less.
Context:
%s
Topic:
%s`, strings.Join(chunks, "\n\n"), topic)

	summary, err := complete(ctx, g.model, prompt, "Please summarize the topic.")
	if err != nil {
		g.logger.Error("summary generation failed", zap.Error(err))
		return "", fmt.Errorf("generating summary: %w", err)
	}

	g.logger.Debug("generated summary", zap.Int("context_chunks", len(chunks)))
	return summary, nil
}

// complete runs a system/user message pair through the model and returns the
// first choice's text.
func complete(ctx context.Context, model ChatModel, systemPrompt, userMessage string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, userMessage),
	}

	resp, err := model.GenerateContent(ctx, messages)
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Content, nil
}
