//go:build !whisper

package asr

import (
	"fmt"

	"cindyd/internal/config"

	"github.com/sirupsen/logrus"
)

// NewEngine in plain builds refuses to construct an engine; build with
// '-tags whisper' to get local transcription.
func NewEngine(cfg *config.Config, logger *logrus.Logger) (Engine, error) {
	return nil, fmt.Errorf("transcription requires a build with '-tags whisper'")
}
