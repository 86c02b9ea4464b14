package control

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"cindyd/internal/config"

	"github.com/spf13/cobra"
)

const modelBaseURL = "https://huggingface.co/ggerganov/whisper.cpp/resolve/main"

// knownModels maps short names to ggml model files, smallest first.
var knownModels = []struct {
	Name string
	File string
	Size string
}{
	{"tiny.en", "ggml-tiny.en.bin", "75 MB"},
	{"tiny", "ggml-tiny.bin", "75 MB"},
	{"base.en", "ggml-base.en.bin", "142 MB"},
	{"base", "ggml-base.bin", "142 MB"},
	{"small.en", "ggml-small.en.bin", "466 MB"},
	{"small", "ggml-small.bin", "466 MB"},
	{"medium.en", "ggml-medium.en.bin", "1.5 GB"},
	{"medium", "ggml-medium.bin", "1.5 GB"},
	{"medium-q5_1", "ggml-medium-q5_1.bin", "539 MB"},
	{"large-v3-turbo", "ggml-large-v3-turbo.bin", "1.6 GB"},
}

func modelsDir(cfg *config.Config) string {
	return filepath.Join(cfg.Paths.StateDir, "models")
}

// NewModelsCmd manages whisper model files.
func NewModelsCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "Manage speech models",
	}
	cmd.AddCommand(newModelsListCmd(cfgPath), newModelsDownloadCmd(cfgPath), newModelsSetCmd(cfgPath))
	return cmd
}

func newModelsListCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List known models and their local state",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			dir := modelsDir(cfg)
			for _, m := range knownModels {
				path := filepath.Join(dir, m.File)
				state := "not downloaded"
				if _, err := os.Stat(path); err == nil {
					state = "downloaded"
				}
				mark := " "
				if cfg.ASR.ModelPath == path {
					mark = "*"
				}
				fmt.Printf("%s %-16s %-8s %s\n", mark, m.Name, m.Size, state)
			}
			return nil
		},
	}
}

func newModelsDownloadCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "download <name>",
		Short: "Download a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			file := modelFile(args[0])
			if file == "" {
				return fmt.Errorf("unknown model %q (see 'cindyd models list')", args[0])
			}
			dir := modelsDir(cfg)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
			dst := filepath.Join(dir, file)
			if _, err := os.Stat(dst); err == nil {
				fmt.Printf("%s already downloaded\n", args[0])
				return nil
			}
			url := fmt.Sprintf("%s/%s", modelBaseURL, file)
			fmt.Printf("downloading %s ...\n", url)
			if err := fetch(cmd.Context(), url, dst); err != nil {
				return err
			}
			fmt.Printf("saved %s\n", dst)
			return nil
		},
	}
}

func newModelsSetCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "set <name>",
		Short: "Select the active model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			file := modelFile(args[0])
			if file == "" {
				return fmt.Errorf("unknown model %q (see 'cindyd models list')", args[0])
			}
			path := filepath.Join(modelsDir(cfg), file)
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("model not downloaded; run 'cindyd models download %s' first", args[0])
			}
			cfg.ASR.ModelPath = path
			if err := config.Save(cfg, cfg.Paths.ConfigPath); err != nil {
				return err
			}
			fmt.Printf("model set to %s (restart the daemon to apply)\n", args[0])
			return nil
		},
	}
}

func modelFile(name string) string {
	for _, m := range knownModels {
		if m.Name == name {
			return m.File
		}
	}
	return ""
}

// fetch downloads url to dst atomically via a temp file.
func fetch(ctx context.Context, url, dst string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed: %s", resp.Status)
	}
	tmp := dst + ".partial"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dst)
}
