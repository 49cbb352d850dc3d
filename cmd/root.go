package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the mailsift application
var rootCmd = &cobra.Command{
	Use:   "mailsift",
	Short: "Extracts attachment text from Gmail messages into records",
	Long: `mailsift runs a Gmail search query, picks one attachment per matching
message via a content-type allow-list, converts the attachment to plain
text, and writes one record per message to a JSONL file or a SQLite
database.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "mailsift version %s\n" .Version}}`)

	// If no subcommand is provided, run the extraction by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "run")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newTokenCmd())
	rootCmd.AddCommand(newVersionCmd())
}
