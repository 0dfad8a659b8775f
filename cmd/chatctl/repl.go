package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"local-chat-go/internal/client"
	"local-chat-go/internal/model"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive chat session",
	Long: `Start an interactive chat session.

Lines are sent as messages. Commands:
  /mode <ollama|lmstudio>   switch backend
  /model <name>             select a model
  /models                   refresh and list models
  /font <name>              change font
  /history                  reprint the conversation
  /quit                     exit`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := newSession(cmd.Context())
		if err != nil {
			return err
		}
		return runREPL(cmd.Context(), ctrl, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runREPL(ctx context.Context, ctrl *client.Controller, in io.Reader, out io.Writer) error {
	printed := 0
	ctrl.Subscribe(func(v client.View) {
		if v.Typing {
			fmt.Fprintln(out, metaStyle.Render("..."))
			return
		}
		// 只打印新增的消息
		for _, m := range v.Messages[min(printed, len(v.Messages)):] {
			fmt.Fprint(out, renderMessage(m))
		}
		printed = len(v.Messages)
	})

	if err := ctrl.RefreshMessages(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, renderHeader(ctrl.View()))

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := scanner.Text()
		if strings.HasPrefix(line, "/") {
			quit, err := handleCommand(ctx, ctrl, line, out)
			if err != nil {
				fmt.Fprintln(out, errorStyle.Render(err.Error()))
			}
			if quit {
				return nil
			}
			continue
		}

		sent, err := ctrl.Send(ctx, line)
		switch {
		case err != nil:
			fmt.Fprintln(out, errorStyle.Render(err.Error()))
		case !sent && strings.TrimSpace(line) != "":
			fmt.Fprintln(out, errorStyle.Render("no model selected, use /models and /model <name>"))
		}
	}
}

func handleCommand(ctx context.Context, ctrl *client.Controller, line string, out io.Writer) (bool, error) {
	name, arg, _ := strings.Cut(strings.TrimPrefix(line, "/"), " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "quit", "exit":
		return true, nil
	case "mode":
		mode, err := model.ParseMode(arg)
		if err != nil {
			return false, err
		}
		if err := ctrl.ChangeMode(ctx, mode); err != nil {
			return false, err
		}
	case "model":
		if arg == "" {
			return false, fmt.Errorf("usage: /model <name>")
		}
		if err := ctrl.ChangeModel(ctx, arg); err != nil {
			return false, err
		}
	case "models":
		if err := ctrl.RefreshModels(ctx); err != nil {
			return false, err
		}
		v := ctrl.View()
		fmt.Fprint(out, renderModels(v.Mode, &model.ModelList{Models: v.Models, Connected: v.Connected}, v.Model))
		return false, nil
	case "font":
		if err := ctrl.ChangeFont(ctx, arg); err != nil {
			return false, err
		}
	case "history":
		fmt.Fprint(out, renderMessages(ctrl.View().Messages))
		return false, nil
	default:
		return false, fmt.Errorf("unknown command /%s", name)
	}
	fmt.Fprintln(out, renderHeader(ctrl.View()))
	return false, nil
}
