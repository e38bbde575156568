package main

import (
	"context"
	"os"

	"github.com/aretw0/kitchen"
	"github.com/aretw0/kitchen/internal/cli"
	"github.com/aretw0/kitchen/internal/presentation/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the helper from the terminal",
	Long: `Starts an interactive conversation, standing in for the voice platform.
Typed lines are classified into intents; ":temp" moves a simulated probe.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, _, err := buildRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		user, _ := cmd.Flags().GetString("user")
		styled := term.IsTerminal(int(os.Stdout.Fd()))
		if styled {
			tui.PrintBanner(os.Stdout, kitchen.Version)
		}

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		return cli.Chat(sigCtx, rt, cli.ChatOptions{
			UserID: user,
			In:     os.Stdin,
			Out:    os.Stdout,
			Render: tui.NewRenderer(styled),
		})
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringP("user", "u", "local", "User id for the conversation")
}
