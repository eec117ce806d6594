// voxedit is a command line front end for the voxel selection and editing
// engine: it loads raw volume dumps, runs region growing and scripted
// edits, and exports selection masks, ROI volumes and overlay slices.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"voxedit/pkg/config"
)

const (
	configBaseName = "voxedit"
	configFileName = configBaseName + ".yaml"

	envPrefix = "VOXEDIT"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".voxedit.log"
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var (
	configPathFlag string
	logFileFlag    string
	verboseFlag    bool

	// cfg holds the engine defaults loaded from the YAML config file;
	// command flags override individual values.
	cfg = config.DefaultConfig()
)

var rootCmd = &cobra.Command{
	Use:   "voxedit",
	Short: "Voxel selection and editing on 3D volumes",
	Long: `Voxedit edits voxel selections over 3D scalar volumes: brush and
coordinate selection, intensity region growing ("magic wand"), value fills,
and grouped undo/redo. Volumes are headerless raw little-endian dumps whose
dimensions, element type and voxel spacing are given on the command line.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		configureLogger(logFileFlag, verboseFlag)

		loaded, err := config.LoadConfig(configPathFlag)
		if err != nil {
			return fmt.Errorf("loading config %s: %w", configPathFlag, err)
		}
		cfg = loaded
		slog.Debug("configuration loaded", "path", configPathFlag)
		return nil
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, int(slog.LevelInfo))
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Warning: reading %s: %v\n", configFileName, err)
		}
	}

	rootCmd.PersistentFlags().StringVar(&configPathFlag, "config", configFileName, "path to the YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&logFileFlag, "log-file", viper.GetString(logFilenameKey), "log file path")
	bindFlagToConfig(rootCmd.PersistentFlags().Lookup("log-file"), logFilenameKey)
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// configureLogger routes slog through a size-rotated log file so repeated
// batch runs do not grow an unbounded log.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}
	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	logLevel := slog.Level(viper.GetInt(logLevelKey))
	if verbose {
		logLevel = slog.LevelDebug
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// Execute runs the root command; it is called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
