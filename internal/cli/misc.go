package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vctbuilder/internal/platform/health"
	"vctbuilder/internal/vct/locale"
)

func (a *app) localesCmd() *cobra.Command {
	var exclude []string
	cmd := &cobra.Command{
		Use:   "locales",
		Short: "List the locales offered by the editor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			locales := locale.All()
			if len(exclude) > 0 {
				locales = locale.Available(exclude)
			}
			return render(cmd.OutOrStdout(), a.format(), locales)
		},
	}
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "locale codes to leave out, e.g. en-US,fr-CA")
	return cmd
}

type configView struct {
	File   string         `json:"file,omitempty"`
	Values map[string]any `json:"values"`
}

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage vctctl configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			view := configView{File: a.v.ConfigFileUsed(), Values: map[string]any{}}
			for _, key := range a.v.AllKeys() {
				value := a.v.Get(key)
				if d, ok := value.(fmt.Stringer); ok {
					value = d.String()
				}
				view.Values[strings.ToLower(key)] = value
			}
			return render(cmd.OutOrStdout(), a.format(), view)
		},
	})
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "vctctl %s\n", health.Version)
		},
	}
}
