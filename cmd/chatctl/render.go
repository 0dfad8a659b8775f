package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"local-chat-go/internal/client"
	"local-chat-go/internal/model"
)

var (
	userStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")) // bright green
	aiStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")) // magenta
	metaStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))             // grey
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1).Border(lipgloss.RoundedBorder())
)

func renderMessage(m model.ChatMessage) string {
	label := userStyle.Render("you")
	if m.Sender == model.SenderAI {
		name := "ai"
		if m.Model != nil && *m.Model != "" {
			name = *m.Model
		}
		label = aiStyle.Render(name)
	}
	ts := metaStyle.Render(m.Timestamp.Local().Format("15:04:05"))
	return fmt.Sprintf("%s %s\n%s\n", label, ts, m.Content)
}

func renderMessages(msgs []model.ChatMessage) string {
	if len(msgs) == 0 {
		return metaStyle.Render("(no messages yet)") + "\n"
	}
	var b strings.Builder
	for _, m := range msgs {
		b.WriteString(renderMessage(m))
		b.WriteString("\n")
	}
	return b.String()
}

func renderModels(mode model.Mode, list *model.ModelList, selected string) string {
	var b strings.Builder
	status := okStyle.Render("connected")
	if !list.Connected {
		status = errorStyle.Render("disconnected")
		if list.Error != "" {
			status += metaStyle.Render(" (" + list.Error + ")")
		}
	}
	fmt.Fprintf(&b, "%s: %s\n", mode, status)
	for _, m := range list.Models {
		marker := "  "
		if m == selected {
			marker = "* "
		}
		b.WriteString(marker + m + "\n")
	}
	return b.String()
}

func renderHeader(v client.View) string {
	name := v.Model
	if name == "" {
		name = "(none)"
	}
	conn := okStyle.Render("●")
	if !v.Connected {
		conn = errorStyle.Render("●")
	}
	return headerStyle.Render(fmt.Sprintf("%s %s / %s  font: %s", conn, v.Mode, name, v.Font))
}

func renderSettings(s *model.ChatSettings) string {
	return fmt.Sprintf("mode:      %s\nmodel:     %s\nconnected: %t\nfont:      %s\n",
		s.SelectedMode, s.SelectedModel, s.IsConnected, s.SelectedFont)
}
