package control

import (
	"fmt"
	"os"
	"time"

	"cindyd/internal/asr"
	"cindyd/internal/audio"
	"cindyd/internal/config"
	"cindyd/internal/decode"
	"cindyd/internal/logging"
	"cindyd/internal/match"

	"github.com/spf13/cobra"
)

// NewTranscribeCmd transcribes a WAV file through the same decode, gate,
// and wake-match path the live pipeline uses.
func NewTranscribeCmd(cfgPath *string) *cobra.Command {
	var noGate bool
	cmd := &cobra.Command{
		Use:   "transcribe <file.wav>",
		Short: "Transcribe a WAV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			dec := decode.New(cfg.Audio.SampleRate, cfg.Decode.MinBytes, cfg.Decode.MinDurationSec)
			pcm, err := dec.Decode(data)
			if err != nil {
				return fmt.Errorf("decode %s: %w", args[0], err)
			}
			if !noGate {
				if rms := audio.RMS(pcm.Samples); rms < cfg.Gate.RMSThreshold {
					return fmt.Errorf("audio below activity threshold (rms %.5f < %.5f); use --no-gate to force", rms, cfg.Gate.RMSThreshold)
				}
			}

			logger := logging.NewTestLogger()
			engine, err := asr.NewEngine(cfg, logger)
			if err != nil {
				return err
			}
			defer engine.Close()

			disp := asr.NewDispatcher(engine, time.Duration(cfg.ASR.TimeoutSec*float64(time.Second)))
			text, err := disp.Dispatch(cmd.Context(), pcm)
			if err != nil {
				return err
			}
			if text == "" {
				fmt.Println("(no speech recognized)")
				return nil
			}
			fmt.Println(text)

			if cfg.Wake.Enabled {
				m := match.NewMatcher(cfg.Wake.Words, cfg.Wake.Similarity)
				if phrase, ok := m.Match(text); ok {
					fmt.Printf("wake phrase matched: %q\n", phrase)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&noGate, "no-gate", false, "skip the activity gate")
	return cmd
}
