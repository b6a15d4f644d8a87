// Package cli implements the vctctl command line tool.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"vctbuilder/internal/integrity/fetcher"
	"vctbuilder/internal/platform/config"
)

// Config keys. Each can be set in the config file or as VCTCTL_<KEY> with
// dots replaced by underscores.
const (
	keyFormat            = "format"
	keyVerbose           = "verbose"
	keyHashTimeout       = "hash.timeout"
	keyHashMaxBytes      = "hash.max_bytes"
	keyHashUserAgent     = "hash.user_agent"
	keyVerifyConcurrency = "verify.concurrency"
)

type app struct {
	cfgFile string
	v       *viper.Viper
	client  fetcher.HTTPDoer // nil uses a default http.Client
}

// NewRootCommand builds the vctctl command tree with its own configuration.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&app{})
}

func newRootCommand(a *app) *cobra.Command {
	a.v = viper.New()
	a.v.SetDefault(keyFormat, formatJSON)
	a.v.SetDefault(keyHashTimeout, config.HashTimeout)
	a.v.SetDefault(keyHashMaxBytes, int64(20<<20))
	a.v.SetDefault(keyHashUserAgent, "vctctl/1.0")
	a.v.SetDefault(keyVerifyConcurrency, 4)

	root := &cobra.Command{
		Use:   "vctctl",
		Short: "Inspect and prepare SD-JWT VC type metadata documents",
		Long: `vctctl works on VC type metadata (VCT) documents outside the editor.

It migrates legacy fields, produces the publishable form, reports
validation issues and checks integrity hashes of referenced resources.

Configuration hierarchy (highest to lowest priority):
  1. CLI flags
  2. Environment variables (VCTCTL_*)
  3. Config file (~/.vctctl/config.yaml)
  4. Defaults`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.initConfig(cmd); err != nil {
				return err
			}
			_, err := parseFormat(a.v.GetString(keyFormat))
			return err
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: $HOME/.vctctl/config.yaml)")
	flags.StringP(keyFormat, "o", formatJSON, "output format (json, yaml)")
	flags.BoolP(keyVerbose, "v", false, "verbose output")
	_ = a.v.BindPFlag(keyFormat, flags.Lookup(keyFormat))
	_ = a.v.BindPFlag(keyVerbose, flags.Lookup(keyVerbose))

	root.AddCommand(
		a.normalizeCmd(),
		a.canonicalizeCmd(),
		a.validateCmd(),
		a.hashCmd(),
		a.verifyCmd(),
		a.localesCmd(),
		a.configCmd(),
		versionCmd(),
	)
	return root
}

func (a *app) initConfig(cmd *cobra.Command) error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		a.v.AddConfigPath(filepath.Join(home, ".vctctl"))
		a.v.SetConfigType("yaml")
		a.v.SetConfigName("config")
	}

	a.v.SetEnvPrefix("VCTCTL")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
		return nil
	}
	if a.verbose() {
		fmt.Fprintf(cmd.ErrOrStderr(), "Using config file: %s\n", a.v.ConfigFileUsed())
	}
	return nil
}

func (a *app) verbose() bool {
	return a.v.GetBool(keyVerbose)
}

func (a *app) format() string {
	f, _ := parseFormat(a.v.GetString(keyFormat))
	return f
}

func (a *app) hashTimeout() time.Duration {
	if d := a.v.GetDuration(keyHashTimeout); d > 0 {
		return d
	}
	return config.HashTimeout
}
