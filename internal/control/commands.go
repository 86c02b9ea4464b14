package control

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"cindyd/internal/config"
	"cindyd/internal/hook"
	"cindyd/internal/logging"

	"github.com/spf13/cobra"
)

func dial(cfg *config.Config) (net.Conn, error) {
	conn, err := net.DialTimeout("unix", cfg.Paths.SocketPath, 2*time.Second)
	if err != nil {
		return nil, fmt.Errorf("daemon not reachable at %s (is it running?): %w", cfg.Paths.SocketPath, err)
	}
	return conn, nil
}

func roundTrip(cfg *config.Config, op string, out any) error {
	conn, err := dial(cfg)
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := conn.SetDeadline(time.Now().Add(5 * time.Second)); err != nil {
		return err
	}
	if err := json.NewEncoder(conn).Encode(Request{Op: op}); err != nil {
		return err
	}
	sc := bufio.NewScanner(conn)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	if !sc.Scan() {
		return fmt.Errorf("no response from daemon")
	}
	return json.Unmarshal(sc.Bytes(), out)
}

// NewStatusCmd shows daemon status and recent transcripts.
func NewStatusCmd(cfgPath *string) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			var st Status
			if err := roundTrip(cfg, "status", &st); err != nil {
				if asJSON {
					return json.NewEncoder(os.Stdout).Encode(Status{})
				}
				fmt.Println("cindyd: not running")
				return nil
			}
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(st)
			}
			state := "idle"
			if st.Listening {
				state = "listening"
			}
			fmt.Printf("cindyd: running (%s), uptime %s\n", state, time.Duration(st.UptimeSec*float64(time.Second)).Round(time.Second))
			if len(st.Transcripts) > 0 {
				fmt.Println("recent transcripts:")
				for _, tr := range st.Transcripts {
					fmt.Printf("  %s  %s\n", tr.Timestamp.Format("15:04:05"), tr.Text)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "machine-readable output")
	return cmd
}

// NewStatsCmd prints pipeline counters.
func NewStatsCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show pipeline counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			var st Stats
			if err := roundTrip(cfg, "stats", &st); err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(st)
		},
	}
}

// NewHealthCmd exits nonzero when the daemon is unreachable.
func NewHealthCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check daemon health (exit code reflects result)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			var resp SimpleResponse
			if err := roundTrip(cfg, "health", &resp); err != nil {
				return err
			}
			if !resp.OK {
				return fmt.Errorf("unhealthy: %s", resp.Message)
			}
			fmt.Println("ok")
			return nil
		},
	}
}

// NewTailLogCmd follows the daemon log file.
func NewTailLogCmd(cfgPath *string) *cobra.Command {
	var lines int
	cmd := &cobra.Command{
		Use:   "tail-log",
		Short: "Follow the daemon log",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			f, err := os.Open(cfg.Paths.LogPath)
			if err != nil {
				return err
			}
			defer f.Close()
			tail, err := readTail(f, lines)
			if err != nil {
				return err
			}
			for _, l := range tail {
				fmt.Println(l)
			}
			// follow
			r := bufio.NewReader(f)
			for {
				line, err := r.ReadString('\n')
				if len(line) > 0 {
					fmt.Print(line)
				}
				if err != nil {
					time.Sleep(250 * time.Millisecond)
				}
			}
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "number of trailing lines to print first")
	return cmd
}

// readTail returns the last n lines of f and leaves the offset at EOF.
func readTail(f *os.File, n int) ([]string, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	// Read at most 256 KiB from the end; enough for any sane tail.
	const window = 256 * 1024
	off := info.Size() - window
	if off < 0 {
		off = 0
	}
	buf := make([]byte, info.Size()-off)
	if _, err := f.ReadAt(buf, off); err != nil && len(buf) > 0 {
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		return nil, err
	}
	lines := strings.Split(strings.TrimRight(string(buf), "\n"), "\n")
	if off > 0 && len(lines) > 0 {
		lines = lines[1:] // first line may be partial
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines, nil
}

// NewTestHookCmd runs the configured hook once with a sample payload.
func NewTestHookCmd(cfgPath *string) *cobra.Command {
	var text string
	cmd := &cobra.Command{
		Use:   "test-hook",
		Short: "Run the configured hook once",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			if cfg.Hook.Command == "" {
				return fmt.Errorf("no hook command configured (set [hook] command in %s)", cfg.Paths.ConfigPath)
			}
			logger := logging.NewTestLogger()
			runner := hook.NewRunner(cfg, logger)
			job := hook.Job{Text: text, Timestamp: time.Now()}
			if err := runner.Run(cmd.Context(), job); err != nil {
				return err
			}
			fmt.Println("hook ran successfully")
			return nil
		},
	}
	cmd.Flags().StringVar(&text, "text", "test message from cindyd", "payload text to send")
	return cmd
}
