//go:build !whisper

package capture

import (
	"fmt"

	"cindyd/internal/config"

	"github.com/sirupsen/logrus"
)

// New in plain builds refuses to construct a source; build with
// '-tags whisper' for PortAudio capture.
func New(cfg *config.Config, logger *logrus.Logger) (Source, error) {
	return nil, fmt.Errorf("microphone capture requires a build with '-tags whisper'")
}
