package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/daryltucker/forest-bench/internal/assets"
	"github.com/daryltucker/forest-bench/internal/output"
)

var functionsTarget string

var functionsCmd = &cobra.Command{
	Use:   "functions",
	Short: "Manage jq functions for querying the JSON Lines output",
}

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the forest-bench jq functions to ~/.config/vecq/functions/",
	RunE: func(cmd *cobra.Command, args []string) error {
		targetDir := functionsTarget
		if targetDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("failed to get user home directory: %w", err)
			}
			targetDir = filepath.Join(home, ".config", "vecq", "functions")
		}

		output.Logger.Info("Installing jq functions...", "target", targetDir)
		count, err := installFunctions(assets.Functions, targetDir)
		if err != nil {
			return err
		}
		output.Logger.Info("Installation Complete", "total_files", count)
		return nil
	},
}

// installFunctions copies every file under functions/ in fsys into dir.
// A file that cannot be written is logged and skipped.
func installFunctions(fsys fs.FS, dir string) (int, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create target directory %s: %w", dir, err)
	}

	entries, err := fs.ReadDir(fsys, "functions")
	if err != nil {
		return 0, fmt.Errorf("failed to read embedded functions: %w", err)
	}

	count := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		content, err := fs.ReadFile(fsys, "functions/"+entry.Name())
		if err != nil {
			output.Logger.Error("Failed to read embedded file", "file", entry.Name(), "error", err)
			continue
		}

		targetPath := filepath.Join(dir, entry.Name())
		if err := os.WriteFile(targetPath, content, 0644); err != nil {
			output.Logger.Error("Failed to write to target", "path", targetPath, "error", err)
			continue
		}

		output.Logger.Info("Installed function", "name", entry.Name())
		count++
	}
	return count, nil
}

func init() {
	installCmd.Flags().StringVar(&functionsTarget, "target", "", "Install directory (default ~/.config/vecq/functions)")
	functionsCmd.AddCommand(installCmd)
	rootCmd.AddCommand(functionsCmd)
}
