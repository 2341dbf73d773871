package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram rejects longer messages.
const maxMessageLength = 4096

type TelegramBot struct {
	bot     *tgbotapi.BotAPI
	handler *Handler
	chatID  int64
}

func NewTelegramBot(token string, chatID int64, reporter Reporter) (*TelegramBot, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connecting to telegram: %w", err)
	}

	return &TelegramBot{
		bot:     bot,
		handler: NewHandler(reporter),
		chatID:  chatID,
	}, nil
}

func (t *TelegramBot) Start(ctx context.Context) error {
	slog.Info("Authorized on account", "username", t.bot.Self.UserName)
	if _, err := t.bot.Request(tgbotapi.NewSetMyCommands(botCommands()...)); err != nil {
		slog.Warn("Failed to register command menu", "error", err)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := t.bot.GetUpdatesChan(u)
	defer t.bot.StopReceivingUpdates()

	for {
		select {
		case update := <-updates:
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}

			slog.Info("Handling command", "command", update.Message.Command(), "chat", update.Message.Chat.ID)
			msg := t.handler.HandleCommand(ctx, update)
			if err := t.send(msg); err != nil {
				slog.Error("Error sending message", "chat", msg.ChatID, "error", err)
			}
		case <-ctx.Done():
			return nil
		}
	}
}

// SendMessage posts Markdown text to the league chat.
func (t *TelegramBot) SendMessage(text string) error {
	if t.chatID == 0 {
		return fmt.Errorf("chat ID not set")
	}

	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = "Markdown"
	if err := t.send(msg); err != nil {
		slog.Error("Error sending message", "chat", t.chatID, "error", err)
		return err
	}
	return nil
}

func (t *TelegramBot) send(msg tgbotapi.MessageConfig) error {
	for _, chunk := range splitMessage(msg.Text, maxMessageLength) {
		part := msg
		part.Text = chunk
		if _, err := t.bot.Send(part); err != nil {
			return err
		}
	}
	return nil
}

// splitMessage cuts text into chunks of at most limit runes, breaking at
// newlines. A single line longer than limit is cut mid-line.
func splitMessage(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var (
		chunks []string
		sb     strings.Builder
		size   int
	)
	flush := func() {
		if chunk := strings.TrimRight(sb.String(), "\n"); chunk != "" {
			chunks = append(chunks, chunk)
		}
		sb.Reset()
		size = 0
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		runes := []rune(line)
		for len(runes) > limit {
			flush()
			chunks = append(chunks, string(runes[:limit]))
			runes = runes[limit:]
		}
		if size+len(runes) > limit {
			flush()
		}
		sb.WriteString(string(runes))
		size += len(runes)
	}
	flush()
	return chunks
}
