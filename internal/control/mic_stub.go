//go:build !whisper

package control

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewMicCmd lists and selects input devices.
func NewMicCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mic",
		Short: "Manage the input device",
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmt.Errorf("device management requires a build with '-tags whisper'")
		},
	}
	return cmd
}
