package main

import (
	"fmt"
	"log/slog"

	"github.com/kardianos/service"
	"github.com/kbrejes/unifyhubbot/pkg/app"
	"github.com/spf13/cobra"
)

// program adapts the application loop to the system service manager.
type program struct {
	configPath string
	errCh      chan error
}

// Start implements service.Interface. The service manager expects it
// to return promptly, so the run loop goes to a goroutine.
func (p *program) Start(service.Service) error {
	p.errCh = make(chan error, 1)
	go func() {
		p.errCh <- app.Run(app.RunParams{
			ConfigPath: p.configPath,
			Version:    version,
			Commit:     commit,
			Date:       date,
			LogLevel:   slog.LevelInfo,
		})
	}()
	return nil
}

// Stop implements service.Interface. app.Run exits on SIGTERM, which
// the service manager sends before calling Stop.
func (p *program) Stop(service.Service) error {
	return nil
}

func serviceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service [install|uninstall|start|stop|status]",
		Short: "Manage the bot as a system service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")

			svcConfig := &service.Config{
				Name:        "unifyhubbot",
				DisplayName: "UnifyHub support bot",
				Description: "Telegram support bot with TGTrack subscription attribution",
				Arguments:   []string{"start"},
			}
			if cfgPath != "" {
				svcConfig.Arguments = append(svcConfig.Arguments, "-c", cfgPath)
			}

			svc, err := service.New(&program{configPath: cfgPath}, svcConfig)
			if err != nil {
				return err
			}

			action := args[0]
			if action == "status" {
				status, err := svc.Status()
				if err != nil {
					return err
				}
				switch status {
				case service.StatusRunning:
					fmt.Println("running")
				case service.StatusStopped:
					fmt.Println("stopped")
				default:
					fmt.Println("unknown")
				}
				return nil
			}

			if err := service.Control(svc, action); err != nil {
				return fmt.Errorf("service %s: %w", action, err)
			}
			fmt.Printf("service %s: done\n", action)
			return nil
		},
	}
	cmd.Flags().StringP("config", "c", "", "Path to configuration file")
	return cmd
}
