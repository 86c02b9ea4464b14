//go:build whisper

package control

import (
	"fmt"
	"strings"

	"cindyd/internal/config"

	"github.com/gordonklaus/portaudio"
	"github.com/spf13/cobra"
)

// NewMicCmd lists and selects input devices.
func NewMicCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mic",
		Short: "Manage the input device",
	}
	cmd.AddCommand(newMicListCmd(cfgPath), newMicSetCmd(cfgPath))
	return cmd
}

func newMicListCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available input devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			if err := portaudio.Initialize(); err != nil {
				return fmt.Errorf("portaudio: %w", err)
			}
			defer portaudio.Terminate()
			devices, err := portaudio.Devices()
			if err != nil {
				return err
			}
			def := portaudio.DefaultInputDevice()
			for _, d := range devices {
				if d.MaxInputChannels == 0 {
					continue
				}
				mark := " "
				if cfg.Audio.DeviceName != "" && strings.Contains(strings.ToLower(d.Name), strings.ToLower(cfg.Audio.DeviceName)) {
					mark = "*"
				} else if cfg.Audio.DeviceName == "" && def != nil && d.Name == def.Name {
					mark = "*"
				}
				fmt.Printf("%s %s (%d ch, %.0f Hz)\n", mark, d.Name, d.MaxInputChannels, d.DefaultSampleRate)
			}
			return nil
		},
	}
}

func newMicSetCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "set <name>",
		Short: "Select an input device by name substring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			name := args[0]
			if err := portaudio.Initialize(); err != nil {
				return fmt.Errorf("portaudio: %w", err)
			}
			defer portaudio.Terminate()
			devices, err := portaudio.Devices()
			if err != nil {
				return err
			}
			found := ""
			for _, d := range devices {
				if d.MaxInputChannels > 0 && strings.Contains(strings.ToLower(d.Name), strings.ToLower(name)) {
					found = d.Name
					break
				}
			}
			if found == "" {
				return fmt.Errorf("no input device matching %q", name)
			}
			cfg.Audio.DeviceName = found
			if err := config.Save(cfg, cfg.Paths.ConfigPath); err != nil {
				return err
			}
			fmt.Printf("input device set to %q (restart the daemon to apply)\n", found)
			return nil
		},
	}
}
