// Package main provides the CLI entrypoint for calcdeck.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/calcdeck/internal/calc"
	"github.com/verte-zerg/calcdeck/internal/config"
	"github.com/verte-zerg/calcdeck/internal/logging"
	"github.com/verte-zerg/calcdeck/internal/store"
	"github.com/verte-zerg/calcdeck/internal/tui"
)

const (
	defaultVariant = string(calc.Basic)
	defaultAddr    = ":8080"
	defaultLevel   = "info"
)

var version = "dev"

var (
	calcVariant string
	logLevel    string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "calcdeck",
		Short:         "Terminal calculators and formula tools",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runCalculatorCmd,
	}

	rootCmd.Flags().StringVar(&calcVariant, "variant", defaultVariant, "starting calculator (basic or scientific)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaultLevel, "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newEvalCmd())
	rootCmd.AddCommand(newToolsCmd())
	rootCmd.AddCommand(newToolCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMCPCmd())

	return rootCmd
}

func runCalculatorCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "variant", &calcVariant, fileCfg.Calculator.Variant)
	variant, err := calc.ParseVariant(calcVariant)
	if err != nil {
		return err
	}

	logger, err := fileLogger(fileCfg)
	if err != nil {
		return err
	}
	defer logging.Sync(logger)

	var recorder tui.Recorder
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		logger.Warn("tape disabled", zap.String("path", config.DefaultDBPath()), zap.Error(err))
	} else {
		defer closeStore(st, logger)
		recorder = st
	}

	model := tui.NewModel(variant, recorder, logger)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := ensureConfigFile(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// ensureConfigFile writes the commented template when path does not exist.
func ensureConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(config.DefaultTemplate), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

func loadFileConfig(cmd *cobra.Command) (config.FileConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	return fileCfg, nil
}

// fileLogger logs to the configured file so the terminal stays free for the
// UI or the MCP protocol.
func fileLogger(fileCfg config.FileConfig) (*zap.Logger, error) {
	path := config.DefaultLogPath()
	if fileCfg.Log.File != nil && strings.TrimSpace(*fileCfg.Log.File) != "" {
		path = expandHome(strings.TrimSpace(*fileCfg.Log.File))
	}
	logger, err := logging.New(logging.Options{Level: logLevel, File: path})
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}
	return logger, nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func closeStore(st *store.Store, logger *zap.Logger) {
	if cerr := st.Close(); cerr != nil {
		logger.Warn("failed to close db", zap.Error(cerr))
	}
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
