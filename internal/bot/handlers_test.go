package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/omarshaarawi/leaguelegacy/internal/service"
)

type fakeReporter struct {
	calls []string
	err   error
}

func (f *fakeReporter) record(format string, args ...any) (string, error) {
	call := fmt.Sprintf(format, args...)
	f.calls = append(f.calls, call)
	if f.err != nil {
		return "", f.err
	}
	return "*" + call + "*", nil
}

func (f *fakeReporter) LegacyMessage(_ context.Context, sortArg, dirArg string) (string, error) {
	return f.record("legacy %s %s", sortArg, dirArg)
}
func (f *fakeReporter) LuckMessage(context.Context) (string, error) {
	return f.record("luck")
}
func (f *fakeReporter) ScheduleLuckMessage(context.Context) (string, error) {
	return f.record("scheduleluck")
}
func (f *fakeReporter) StreaksMessage(context.Context) (string, error) {
	return f.record("streaks")
}
func (f *fakeReporter) ConsistencyMessage(context.Context) (string, error) {
	return f.record("consistency")
}
func (f *fakeReporter) WeeklyHighsMessage(context.Context) (string, error) {
	return f.record("highs")
}
func (f *fakeReporter) GamesMessage(context.Context) (string, error) {
	return f.record("games")
}
func (f *fakeReporter) RecordsMessage(context.Context) (string, error) {
	return f.record("records")
}
func (f *fakeReporter) RivalsMessage(_ context.Context, ref string) (string, error) {
	return f.record("rivals %s", ref)
}
func (f *fakeReporter) CompareMessage(_ context.Context, a, b string) (string, error) {
	return f.record("compare %s|%s", a, b)
}
func (f *fakeReporter) DraftMessage(_ context.Context, year int) (string, error) {
	return f.record("draft %d", year)
}
func (f *fakeReporter) ImportMessage(context.Context) (string, error) {
	return f.record("import")
}

func commandUpdate(text string) tgbotapi.Update {
	cmdLen := len(text)
	if i := strings.Index(text, " "); i >= 0 {
		cmdLen = i
	}
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			Text:     text,
			Chat:     &tgbotapi.Chat{ID: 99},
			Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: cmdLen}},
		},
	}
}

func TestHandleCommand(t *testing.T) {
	tests := []struct {
		text     string
		wantCall string
	}{
		{"/legacy", "legacy  "},
		{"/legacy wins asc", "legacy wins asc"},
		{"/luck", "luck"},
		{"/scheduleluck", "scheduleluck"},
		{"/streaks", "streaks"},
		{"/consistency", "consistency"},
		{"/highs", "highs"},
		{"/games", "games"},
		{"/records", "records"},
		{"/rivals Ann Lee", "rivals Ann Lee"},
		{"/compare Ann Lee vs. Bob", "compare Ann Lee|Bob"},
		{"/compare ann VS bob stone", "compare ann|bob stone"},
		{"/draft 2021", "draft 2021"},
		{"/import", "import"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			rep := &fakeReporter{}
			msg := NewHandler(rep).HandleCommand(context.Background(), commandUpdate(tt.text))

			if len(rep.calls) != 1 || rep.calls[0] != tt.wantCall {
				t.Fatalf("want call %q, got %v", tt.wantCall, rep.calls)
			}
			if msg.ChatID != 99 {
				t.Errorf("chat id: want 99, got %d", msg.ChatID)
			}
			if msg.Text != "*"+tt.wantCall+"*" || msg.ParseMode != "Markdown" {
				t.Errorf("got text %q mode %q", msg.Text, msg.ParseMode)
			}
		})
	}
}

func TestHandleCommand_Usage(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"/rivals", "Usage: /rivals"},
		{"/compare Ann", "Usage: /compare"},
		{"/draft last year", "Usage: /draft"},
		{"/whohas Kelce", "Unknown command"},
		{"/help", "/legacy"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			rep := &fakeReporter{}
			msg := NewHandler(rep).HandleCommand(context.Background(), commandUpdate(tt.text))
			if !strings.Contains(msg.Text, tt.want) {
				t.Errorf("want %q in %q", tt.want, msg.Text)
			}
			if len(rep.calls) != 0 {
				t.Errorf("reporter should not be called, got %v", rep.calls)
			}
		})
	}
}

func TestHandleCommand_Errors(t *testing.T) {
	rep := &fakeReporter{err: fmt.Errorf("%w: %q", service.ErrManagerNotFound, "zed")}
	msg := NewHandler(rep).HandleCommand(context.Background(), commandUpdate("/rivals zed"))
	if !strings.HasPrefix(msg.Text, "Couldn't find that manager") {
		t.Errorf("got %q", msg.Text)
	}
	if msg.ParseMode != "" {
		t.Errorf("errors should be plain text, got mode %q", msg.ParseMode)
	}

	rep = &fakeReporter{err: errors.New("espn_down")}
	msg = NewHandler(rep).HandleCommand(context.Background(), commandUpdate("/luck"))
	if msg.Text != "Error building luck quadrants: espn_down" {
		t.Errorf("got %q", msg.Text)
	}
}
