// Package main provides the ppprint command-line tool.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/isjuao/ppprint/internal/feature"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Configuration keys.
const (
	keyStorePath     = "store.path"
	keyImportWorkers = "import.workers"
	keyMinLength     = "extract.minlength"
)

const configFileName = ".ppprint.yaml"

// app holds state shared by all commands.
type app struct {
	cfgFile string
	verbose bool
	logger  *zap.Logger
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	a := &app{logger: zap.NewNop()}
	root := newRootCmd(a)
	root.SetArgs(args)

	err := root.Execute()
	a.logger.Sync()
	if err != nil {
		printError(err)
		return ExitError
	}
	return ExitSuccess
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "ppprint",
		Short: "ppprint - proteome prediction extraction",
		Long: `Extract protein-based and region-based feature tables from PredictProtein
results (TMSEG topology, ProNA binding, MetaDisorder, ReProf structure).`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(a.cfgFile); err != nil {
				return err
			}
			logger, err := newLogger(a.verbose)
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
	}
	root.SetVersionTemplate(fmt.Sprintf("ppprint version %s (%s) built %s\n", version, commit, date))

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log progress and diagnostics")
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "Config file (default ~/"+configFileName+")")

	root.AddCommand(newImportCmd(a))
	root.AddCommand(newExtractCmd(a))
	root.AddCommand(newMergeCmd(a))
	root.AddCommand(newBatchesCmd(a))
	root.AddCommand(newDiagnosticsCmd(a))
	root.AddCommand(newConfigCmd())

	return root
}

// initConfig reads the config file and the PPPRINT_* environment.
// A missing default config file is not an error.
func initConfig(cfgFile string) error {
	viper.SetEnvPrefix("PPPRINT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		viper.SetConfigFile(filepath.Join(home, configFileName))
		if _, err := os.Stat(viper.ConfigFileUsed()); err != nil {
			return nil
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		return errors.Wrap(err, "read config")
	}
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	var config zap.Config
	if verbose {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		config.Encoding = "console"
	}
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		return nil, errors.Wrap(err, "create logger")
	}
	return logger, nil
}

// featureSettings returns the default feature table with configured
// minimum lengths applied.
func featureSettings() (feature.Table, error) {
	overrides := make(map[string]int)
	for _, k := range feature.Kinds {
		key := keyMinLength + "." + k.String()
		if viper.IsSet(key) {
			overrides[k.String()] = viper.GetInt(key)
		}
	}
	table, err := feature.DefaultTable().WithMinLengths(overrides)
	if err != nil {
		return nil, errors.WithHint(err, "check the "+keyMinLength+".* settings in "+configFileName)
	}
	return table, nil
}

func printError(err error) {
	pterm.Error.Println(err.Error())
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
	}
}
