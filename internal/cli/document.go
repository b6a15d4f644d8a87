package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vctbuilder/internal/vct/canonical"
	vct "vctbuilder/internal/vct/models"
	"vctbuilder/internal/vct/normalize"
)

// ErrInvalidDocument is returned by validate when the document has errors.
var ErrInvalidDocument = errors.New("document has validation errors")

func (a *app) load(cmd *cobra.Command, name string) (normalize.Result, error) {
	data, err := readInput(cmd.InOrStdin(), name)
	if err != nil {
		return normalize.Result{}, err
	}
	res, err := normalize.NormalizeJSON(data)
	if err != nil {
		return normalize.Result{}, fmt.Errorf("invalid VCT JSON in %s: %w", name, err)
	}
	if a.verbose() && len(res.Applied) > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "Applied rules: %s\n", strings.Join(res.Applied, ", "))
	}
	return res, nil
}

func (a *app) normalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <file>",
		Short: "Migrate legacy fields and print the working document",
		Long: `Normalize reads a VCT document (or stdin for "-"), applies the legacy
migration rules and prints the full working document, including empty
fields the editor keeps.

Example:
  vctctl normalize legacy.json
  cat legacy.json | vctctl normalize - -o yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.load(cmd, args[0])
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), a.format(), res.VCT)
		},
	}
}

func (a *app) canonicalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "canonicalize <file>",
		Aliases: []string{"canon"},
		Short:   "Print the publishable form of a document",
		Long: `Canonicalize normalizes the document and prints it with empty values,
placeholder claims and keyless fields stripped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.load(cmd, args[0])
			if err != nil {
				return err
			}
			data, err := canonical.MarshalIndent(res.VCT)
			if err != nil {
				return fmt.Errorf("canonicalize: %w", err)
			}
			return renderJSON(cmd.OutOrStdout(), a.format(), data)
		},
	}
}

type validateOutput struct {
	Valid  bool        `json:"valid"`
	Issues []vct.Issue `json:"issues"`
}

func (a *app) validateCmd() *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Report validation issues",
		Long: `Validate prints every issue found in the normalized document. The exit
status is non-zero when an error-level issue is present, or any issue at
all with --strict.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.load(cmd, args[0])
			if err != nil {
				return err
			}
			issues := vct.Validate(res.VCT)
			if issues == nil {
				issues = []vct.Issue{}
			}
			failed := vct.HasErrors(issues) || (strict && len(issues) > 0)
			out := validateOutput{Valid: !failed, Issues: issues}
			if err := render(cmd.OutOrStdout(), a.format(), out); err != nil {
				return err
			}
			if failed {
				return ErrInvalidDocument
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as errors")
	return cmd
}
