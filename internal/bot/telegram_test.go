package bot

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitMessage(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  []string
	}{
		{"fits", "one\ntwo", 10, []string{"one\ntwo"}},
		{"breaks at newlines", "aaaa\nbbbb\ncccc", 10, []string{"aaaa\nbbbb", "cccc"}},
		{"long line is cut", "abcdefghij\nxy", 4, []string{"abcd", "efgh", "ij", "xy"}},
		{"counts runes", "🏆🏆🏆\n🥇🥇", 4, []string{"🏆🏆🏆", "🥇🥇"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitMessage(tt.text, tt.limit)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("want %q, got %q", tt.want, got)
			}
		})
	}
}

func TestSplitMessage_RespectsLimit(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 400; i++ {
		sb.WriteString("12. *Some Manager* - 123.4 | Record: 50-40-1\n")
	}

	chunks := splitMessage(sb.String(), maxMessageLength)
	if len(chunks) < 2 {
		t.Fatalf("want several chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if n := utf8.RuneCountInString(c); n > maxMessageLength {
			t.Errorf("chunk %d has %d runes", i, n)
		}
	}
}

func TestHelpTextListsEveryCommand(t *testing.T) {
	help := helpText()
	for _, c := range botCommands() {
		if !strings.Contains(help, "/"+c.Command) {
			t.Errorf("help is missing /%s", c.Command)
		}
	}
}
