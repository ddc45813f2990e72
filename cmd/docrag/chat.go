package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/docrag/internal/generate"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive question answering over the ingested corpus",
	Long: `Start an interactive chat session. Each question retrieves the most
relevant chunks from the vector store and answers grounded in them, carrying
the conversation history across turns.

Type "exit" to leave the session; the full chat history is printed on exit.`,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := newApp(configPath)
	if err != nil {
		return err
	}
	defer a.close()

	model, err := a.newChatModel()
	if err != nil {
		return err
	}
	qa := generate.NewQuestionAnswerGenerator(model, a.logger)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render("Chat Mode"))
	fmt.Fprintln(out, dimStyle.Render(`Ask a question, or type "exit" to quit.`))

	var history []generate.Turn
	scanner := bufio.NewScanner(cmd.InOrStdin())

	for {
		fmt.Fprint(out, promptStyle.Render("You: "))
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if strings.EqualFold(question, "exit") {
			printChatHistory(out, history)
			break
		}

		spin := startSpinner(out, "Thinking...")
		answer, err := answerQuestion(ctx, a, qa, question, history)
		spin.Stop()
		if err != nil {
			// One failed turn should not end the session.
			fmt.Fprintln(out, errStyle.Render(fmt.Sprintf("Error: %v", err)))
			a.logger.Error("chat turn failed", zap.Error(err))
			continue
		}

		history = append(history, generate.Turn{Role: "You", Content: question})
		history = append(history, generate.Turn{Role: "AI", Content: answer})
		fmt.Fprintln(out, answerStyle.Render("AI: "+answer))
	}

	return scanner.Err()
}

func answerQuestion(ctx context.Context, a *app, qa *generate.QuestionAnswerGenerator, question string, history []generate.Turn) (string, error) {
	chunks, err := a.retriever.Retrieve(ctx, question, a.cfg.Retrieval.TopK)
	if err != nil {
		return "", fmt.Errorf("retrieving context: %w", err)
	}
	return qa.Generate(ctx, question, chunks, history)
}

func printChatHistory(out io.Writer, history []generate.Turn) {
	if len(history) == 0 {
		return
	}
	fmt.Fprintln(out, titleStyle.Render("Chat History"))
	for _, turn := range history {
		style := userStyle
		if turn.Role == "AI" {
			style = answerStyle
		}
		fmt.Fprintln(out, style.Render(fmt.Sprintf("%s: %s", turn.Role, turn.Content)))
	}
}
