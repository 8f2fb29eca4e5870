package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/riggerhq/rigger/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is the application version, set via ldflags at build time:
// -ldflags "-X github.com/riggerhq/rigger/cmd.version=1.0.0". Defaults to
// "dev" for local development builds.
var version = "dev"

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "rigger",
	Short: "Rigger - AI task orchestration pipeline",
	Long: `Rigger turns a product requirements document into a decomposed,
enriched, and verified task graph: ingest a PRD, generate an initial task
set, and run each task through enhancement, decomposition, and
comprehension-test verification, persisting progress at every step.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			_ = cmd.Help()
			os.Exit(0)
		}
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetCommand(cmd.CommandPath())
		if root, err := projectRoot(); err == nil {
			logger.SetBasePath(filepath.Join(root, ".rigger"))
		}
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called once by main.main().
func Execute() {
	defer logger.HandlePanic()

	rootCmd.SuggestionsMinimumDistance = 2
	logger.SetVersion(version)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().Bool("verbose", false, "Enable verbose output")
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().Bool("quiet", false, "Minimal output")
	rootCmd.PersistentFlags().Bool("preview", false, "Dry run (no changes)")
	rootCmd.PersistentFlags().String("project-root", "", "Project root directory (defaults to the current directory)")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("preview", rootCmd.PersistentFlags().Lookup("preview"))
	_ = viper.BindPFlag("project-root", rootCmd.PersistentFlags().Lookup("project-root"))

	rootCmd.SetHelpTemplate(`{{if .Long}}
{{.Long}}
{{else}}
  {{.Short}}
{{end}}
  Usage: {{.UseLine}}
{{if .HasAvailableSubCommands}}
  Commands:
{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}    {{rpad .Name .NamePadding }} {{.Short}}
{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}
  Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

  Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}
`)
}

// initConfig wires environment variables into viper (RIGGER_VERBOSE,
// RIGGER_JSON, ...), letting flags still take precedence via BindPFlag.
func initConfig() {
	viper.SetEnvPrefix("rigger")
	viper.AutomaticEnv()
}

// GetVersion returns the application version.
func GetVersion() string {
	return version
}

// projectRoot resolves the project root: the --project-root flag if set,
// otherwise the current working directory.
func projectRoot() (string, error) {
	if root := viper.GetString("project-root"); root != "" {
		return filepath.Abs(root)
	}
	return os.Getwd()
}
