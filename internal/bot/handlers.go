package bot

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/omarshaarawi/leaguelegacy/internal/service"
)

const commandTimeout = 2 * time.Minute

type command struct {
	name        string
	args        string
	description string
}

var commands = []command{
	{"legacy", "[sort] [asc|desc]", "All-time legacy table (sort: legacy, wins, winpct, points, titles, avgrank, playoffrate)"},
	{"luck", "", "Luck quadrants"},
	{"scheduleluck", "", "Actual vs all-play record"},
	{"streaks", "", "Longest and current streaks"},
	{"consistency", "", "Most consistent scorers"},
	{"highs", "", "Weekly high score counts"},
	{"games", "", "Closest games and biggest blowouts"},
	{"records", "", "League record book"},
	{"rivals", "<manager>", "Head-to-head records, nemesis and pigeon"},
	{"compare", "<manager> vs <manager>", "Side-by-side comparison"},
	{"draft", "<year>", "Draft recap for a season"},
	{"import", "", "Re-import league history from ESPN"},
}

func helpText() string {
	var sb strings.Builder
	sb.WriteString("Available commands:")
	for _, c := range commands {
		sb.WriteString("\n/" + c.name)
		if c.args != "" {
			sb.WriteString(" " + c.args)
		}
		sb.WriteString(" - " + c.description)
	}
	return sb.String()
}

// botCommands is the command menu shown by Telegram clients.
func botCommands() []tgbotapi.BotCommand {
	out := make([]tgbotapi.BotCommand, 0, len(commands))
	for _, c := range commands {
		out = append(out, tgbotapi.BotCommand{Command: c.name, Description: c.description})
	}
	return out
}

var versusSeparator = regexp.MustCompile(`(?i)\s+vs\.?\s+`)

// Reporter renders league statistics as chat messages.
type Reporter interface {
	LegacyMessage(ctx context.Context, sortArg, dirArg string) (string, error)
	LuckMessage(ctx context.Context) (string, error)
	ScheduleLuckMessage(ctx context.Context) (string, error)
	StreaksMessage(ctx context.Context) (string, error)
	ConsistencyMessage(ctx context.Context) (string, error)
	WeeklyHighsMessage(ctx context.Context) (string, error)
	GamesMessage(ctx context.Context) (string, error)
	RecordsMessage(ctx context.Context) (string, error)
	RivalsMessage(ctx context.Context, managerRef string) (string, error)
	CompareMessage(ctx context.Context, refA, refB string) (string, error)
	DraftMessage(ctx context.Context, year int) (string, error)
	ImportMessage(ctx context.Context) (string, error)
}

type Handler struct {
	reporter Reporter
}

func NewHandler(reporter Reporter) *Handler {
	return &Handler{reporter: reporter}
}

func (h *Handler) HandleCommand(ctx context.Context, update tgbotapi.Update) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(update.Message.Chat.ID, "")
	command := strings.ToLower(update.Message.Command())
	args := strings.TrimSpace(update.Message.CommandArguments())
	msg.ParseMode = "Markdown"

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	switch command {
	case "start":
		msg.Text = "Welcome to League Legacy! Use /help to see available commands."
	case "help":
		msg.Text = helpText()
		msg.ParseMode = ""
	case "legacy":
		h.handleLegacy(ctx, &msg, args)
	case "luck":
		h.reply(&msg, "building luck quadrants", func() (string, error) { return h.reporter.LuckMessage(ctx) })
	case "scheduleluck":
		h.reply(&msg, "building schedule luck", func() (string, error) { return h.reporter.ScheduleLuckMessage(ctx) })
	case "streaks":
		h.reply(&msg, "building streaks", func() (string, error) { return h.reporter.StreaksMessage(ctx) })
	case "consistency":
		h.reply(&msg, "building consistency", func() (string, error) { return h.reporter.ConsistencyMessage(ctx) })
	case "highs":
		h.reply(&msg, "building weekly highs", func() (string, error) { return h.reporter.WeeklyHighsMessage(ctx) })
	case "games":
		h.reply(&msg, "building game margins", func() (string, error) { return h.reporter.GamesMessage(ctx) })
	case "records":
		h.reply(&msg, "building record book", func() (string, error) { return h.reporter.RecordsMessage(ctx) })
	case "rivals":
		h.handleRivals(ctx, &msg, args)
	case "compare":
		h.handleCompare(ctx, &msg, args)
	case "draft":
		h.handleDraft(ctx, &msg, args)
	case "import":
		h.reply(&msg, "importing league history", func() (string, error) { return h.reporter.ImportMessage(ctx) })
	default:
		msg.Text = "Unknown command. Use /help to see available commands."
	}

	return msg
}

// reply fills msg from fn. Errors go out as plain text since they may carry
// unescaped names.
func (h *Handler) reply(msg *tgbotapi.MessageConfig, action string, fn func() (string, error)) {
	text, err := fn()
	if err != nil {
		msg.ParseMode = ""
		if errors.Is(err, service.ErrManagerNotFound) {
			msg.Text = fmt.Sprintf("Couldn't find that manager: %v", err)
			return
		}
		msg.Text = fmt.Sprintf("Error %s: %v", action, err)
		return
	}
	msg.Text = text
}

func (h *Handler) handleLegacy(ctx context.Context, msg *tgbotapi.MessageConfig, args string) {
	fields := strings.Fields(args)
	var sortArg, dirArg string
	if len(fields) > 0 {
		sortArg = fields[0]
	}
	if len(fields) > 1 {
		dirArg = fields[1]
	}
	h.reply(msg, "building legacy table", func() (string, error) {
		return h.reporter.LegacyMessage(ctx, sortArg, dirArg)
	})
}

func (h *Handler) handleRivals(ctx context.Context, msg *tgbotapi.MessageConfig, args string) {
	if args == "" {
		msg.Text = "Please provide a manager name. Usage: /rivals <manager>"
		return
	}
	h.reply(msg, "building rivalries", func() (string, error) {
		return h.reporter.RivalsMessage(ctx, args)
	})
}

func (h *Handler) handleCompare(ctx context.Context, msg *tgbotapi.MessageConfig, args string) {
	parts := versusSeparator.Split(args, 2)
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		msg.Text = "Please provide two managers. Usage: /compare <manager> vs <manager>"
		return
	}
	h.reply(msg, "comparing managers", func() (string, error) {
		return h.reporter.CompareMessage(ctx, parts[0], parts[1])
	})
}

func (h *Handler) handleDraft(ctx context.Context, msg *tgbotapi.MessageConfig, args string) {
	year, err := strconv.Atoi(args)
	if err != nil {
		msg.Text = "Please provide a season year. Usage: /draft <year>"
		return
	}
	h.reply(msg, "building draft recap", func() (string, error) {
		return h.reporter.DraftMessage(ctx, year)
	})
}
