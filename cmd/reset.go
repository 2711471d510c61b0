package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"workhours/config"
	"workhours/storage"
)

var (
	resetPromptInput  io.Reader = os.Stdin
	resetPromptOutput io.Writer = os.Stdout
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the complete store file",
	Long: `Destructive cleanup command.

This command deletes the configured store file (SQLite database or JSON file) with all
recorded intervals. Before deletion, an interactive security prompt requires typing exactly "Y".`,
	Example: `
  # Delete the store (requires interactive confirmation)
  workhours reset
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}
		if cfg.Store.Backend == storage.BackendMemory {
			return fmt.Errorf("store backend %q keeps nothing to reset", cfg.Store.Backend)
		}
		path, err := config.ExpandPath(cfg.Store.Path)
		if err != nil {
			return err
		}

		question := fmt.Sprintf("Delete store file %q with all recorded intervals?", path)
		confirmed, err := confirm(bufio.NewReader(resetPromptInput), resetPromptOutput, question)
		if err != nil {
			return err
		}
		if !confirmed {
			return fmt.Errorf("reset aborted: confirmation was not 'Y'")
		}

		if err := removeStoreFile(path); err != nil {
			return err
		}
		fmt.Printf("Deleted store file: %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func removeStoreFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("store file not found: %s", path)
		}
		return fmt.Errorf("stat store file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("store path is a directory: %s", path)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete store file: %w", err)
	}
	return nil
}
