// Package doctor runs environment checks the daemon depends on.
package doctor

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"cindyd/internal/config"

	"github.com/spf13/cobra"
)

// Result is one check outcome.
type Result struct {
	Name string
	OK   bool
	Note string
}

// Run performs all checks against cfg.
func Run(cfg *config.Config) []Result {
	var results []Result

	results = append(results, checkDir("state dir", cfg.Paths.StateDir))
	results = append(results, checkDir("log dir", filepath.Dir(cfg.Paths.LogPath)))

	if cfg.ASR.ModelPath == "" {
		results = append(results, Result{"model", false, "no model configured; run 'cindyd models download base.en'"})
	} else if info, err := os.Stat(cfg.ASR.ModelPath); err != nil {
		results = append(results, Result{"model", false, fmt.Sprintf("%s: %v", cfg.ASR.ModelPath, err)})
	} else {
		results = append(results, Result{"model", true, fmt.Sprintf("%s (%.0f MB)", cfg.ASR.ModelPath, float64(info.Size())/1e6)})
	}

	if cfg.Hook.Command == "" {
		results = append(results, Result{"hook", true, "no hook configured (wake matches will only be logged)"})
	} else if path, err := exec.LookPath(cfg.Hook.Command); err != nil {
		results = append(results, Result{"hook", false, fmt.Sprintf("%s not found in PATH", cfg.Hook.Command)})
	} else {
		results = append(results, Result{"hook", true, path})
	}

	if len(cfg.Wake.Words) == 0 && cfg.Wake.Enabled {
		results = append(results, Result{"wake words", false, "wake enabled but no words configured"})
	} else {
		results = append(results, Result{"wake words", true, fmt.Sprintf("%v (threshold %.2f)", cfg.Wake.Words, cfg.Wake.Similarity)})
	}

	return results
}

func checkDir(name, dir string) Result {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{name, false, err.Error()}
	}
	probe := filepath.Join(dir, ".doctor")
	if err := os.WriteFile(probe, nil, 0o644); err != nil {
		return Result{name, false, fmt.Sprintf("not writable: %v", err)}
	}
	_ = os.Remove(probe)
	return Result{name, true, dir}
}

// NewDoctorCmd prints check results and exits nonzero on failure.
func NewDoctorCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			failed := 0
			for _, r := range Run(cfg) {
				mark := "ok  "
				if !r.OK {
					mark = "FAIL"
					failed++
				}
				fmt.Printf("[%s] %-10s %s\n", mark, r.Name, r.Note)
			}
			if failed > 0 {
				return fmt.Errorf("%d check(s) failed", failed)
			}
			return nil
		},
	}
}
