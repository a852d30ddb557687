package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

const configTemplate = `version: "1"

modules:
  channel.telegram:
    token: %q

  tracking.tgtrack:
    enabled: %v
    api_key: %q

  gateway.http:
    bind: 127.0.0.1:8080
`

func configInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Interactively create a configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := "unifyhubbot.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists, remove it first", path)
			}

			var (
				botToken        string
				trackingEnabled bool
				trackingKey     string
			)

			form := huh.NewForm(
				huh.NewGroup(
					huh.NewInput().
						Title("Telegram bot token").
						Description("From @BotFather").
						EchoMode(huh.EchoModePassword).
						Value(&botToken).
						Validate(func(s string) error {
							if s == "" {
								return fmt.Errorf("token is required")
							}
							return nil
						}),
					huh.NewConfirm().
						Title("Enable TGTrack attribution?").
						Value(&trackingEnabled),
					huh.NewInput().
						Title("TGTrack API key").
						Description("Leave empty if tracking is disabled").
						Value(&trackingKey),
				),
			)
			if err := form.Run(); err != nil {
				return err
			}
			if trackingEnabled && trackingKey == "" {
				return fmt.Errorf("a TGTrack API key is required when tracking is enabled")
			}

			if dir := filepath.Dir(path); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return err
				}
			}
			content := fmt.Sprintf(configTemplate, botToken, trackingEnabled, trackingKey)
			if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
				return err
			}

			fmt.Printf("Wrote %s\n", path)
			fmt.Println("Start the bot with: unifyhubbot start -c " + path)
			return nil
		},
	}
	return cmd
}
