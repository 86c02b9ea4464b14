// cindyd listens to the microphone, transcribes speech locally, and runs a
// hook command when a wake phrase is heard.
package main

import (
	"fmt"
	"os"

	"cindyd/internal/control"
	"cindyd/internal/daemon"
	"cindyd/internal/doctor"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	var cfgPath string

	root := &cobra.Command{
		Use:           "cindyd",
		Short:         "Local wake-word voice daemon",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "config file path (default: platform config dir)")

	root.AddCommand(
		daemon.NewStartCmd(&cfgPath),
		daemon.NewStopCmd(&cfgPath),
		daemon.NewRestartCmd(&cfgPath),
		daemon.NewServeCmd(&cfgPath),
		control.NewStatusCmd(&cfgPath),
		control.NewStatsCmd(&cfgPath),
		control.NewHealthCmd(&cfgPath),
		control.NewTailLogCmd(&cfgPath),
		control.NewTestHookCmd(&cfgPath),
		control.NewTranscribeCmd(&cfgPath),
		control.NewMicCmd(&cfgPath),
		control.NewModelsCmd(&cfgPath),
		doctor.NewDoctorCmd(&cfgPath),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
