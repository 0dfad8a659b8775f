package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"local-chat-go/internal/client"
	"local-chat-go/internal/model"
)

var (
	sendMode  string
	sendModel string

	settingsMode  string
	settingsModel string
	settingsFont  string
)

var sendCmd = &cobra.Command{
	Use:   "send <message>",
	Short: "Send one message and print the reply",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ctrl, err := newSession(ctx)
		if err != nil {
			return err
		}
		if sendMode != "" {
			mode, err := model.ParseMode(sendMode)
			if err != nil {
				return err
			}
			if mode != ctrl.View().Mode {
				if err := ctrl.ChangeMode(ctx, mode); err != nil {
					return err
				}
			}
		}
		if sendModel != "" && sendModel != ctrl.View().Model {
			if err := ctrl.ChangeModel(ctx, sendModel); err != nil {
				return err
			}
		}

		sent, err := ctrl.Send(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		if !sent {
			return fmt.Errorf("nothing sent: message is empty or no model is available")
		}
		msgs := ctrl.View().Messages
		if len(msgs) > 0 {
			fmt.Fprint(cmd.OutOrStdout(), renderMessage(msgs[len(msgs)-1]))
		}
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print the conversation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		msgs, err := newAPI().Messages(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), renderMessages(msgs))
		return nil
	},
}

var modelsCmd = &cobra.Command{
	Use:       "models [ollama|lmstudio]",
	Short:     "List models of a backend",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(model.ModeOllama), string(model.ModeLMStudio)},
	RunE: func(cmd *cobra.Command, args []string) error {
		modes := model.Modes
		if len(args) == 1 {
			mode, err := model.ParseMode(args[0])
			if err != nil {
				return err
			}
			modes = []model.Mode{mode}
		}
		api := newAPI()
		for _, mode := range modes {
			list, err := api.Models(cmd.Context(), mode)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderModels(mode, list, ""))
		}
		return nil
	},
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the saved settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		api := newAPI()

		var patch model.SettingsPatch
		if cmd.Flags().Changed("mode") {
			mode, err := model.ParseMode(settingsMode)
			if err != nil {
				return err
			}
			patch.SelectedMode = &mode
		}
		if cmd.Flags().Changed("model") {
			patch.SelectedModel = &settingsModel
		}
		if cmd.Flags().Changed("font") {
			if !client.IsKnownFont(settingsFont) {
				return fmt.Errorf("%w: %q (see 'chatctl fonts')", client.ErrUnknownFont, settingsFont)
			}
			patch.SelectedFont = &settingsFont
		}

		var (
			s   *model.ChatSettings
			err error
		)
		if patch.IsEmpty() {
			s, err = api.Settings(ctx)
		} else {
			s, err = api.UpdateSettings(ctx, patch)
		}
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), renderSettings(s))
		return nil
	},
}

var fontsCmd = &cobra.Command{
	Use:   "fonts",
	Short: "List the available fonts",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, f := range client.Fonts {
			fmt.Fprintln(cmd.OutOrStdout(), f)
		}
	},
}

func init() {
	sendCmd.Flags().StringVarP(&sendMode, "mode", "m", "", "Backend to use (ollama, lmstudio)")
	sendCmd.Flags().StringVar(&sendModel, "model", "", "Model to use")

	settingsCmd.Flags().StringVar(&settingsMode, "mode", "", "Set the selected backend")
	settingsCmd.Flags().StringVar(&settingsModel, "model", "", "Set the selected model (empty clears it)")
	settingsCmd.Flags().StringVar(&settingsFont, "font", "", "Set the font")

	rootCmd.AddCommand(sendCmd, historyCmd, modelsCmd, settingsCmd, fontsCmd)
}
