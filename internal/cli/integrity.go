package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"vctbuilder/internal/integrity/fetcher"
	"vctbuilder/internal/integrity/service"
)

// ErrVerificationFailed is returned by verify when a reference mismatched or
// could not be fetched.
var ErrVerificationFailed = errors.New("integrity verification failed")

func (a *app) integrityService() *service.Service {
	f := fetcher.New(fetcher.Config{
		Timeout:   a.hashTimeout(),
		MaxBytes:  a.v.GetInt64(keyHashMaxBytes),
		UserAgent: a.v.GetString(keyHashUserAgent),
		Client:    a.client,
	})
	return service.New(f, service.WithVerifyConcurrency(a.v.GetInt(keyVerifyConcurrency)))
}

func (a *app) hashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash <url>",
		Short: "Fetch a resource and print its integrity value",
		Long: `Hash downloads the resource and prints its SHA-256 Subresource Integrity
value, size and content type.

Example:
  vctctl hash https://example.com/logo.png
  VCTCTL_HASH_TIMEOUT=30s vctctl hash https://example.com/schema.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), a.hashTimeout())
			defer cancel()

			res, err := a.integrityService().Hash(ctx, args[0])
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), a.format(), res)
		},
	}
}

func (a *app) verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <file>",
		Short: "Check declared integrity values against the referenced resources",
		Long: `Verify fetches every URI of the document that has an integrity field
(extends, schema, logos, background images, SVG templates) and compares
the declared value with the computed one. References without a declared
value are reported as unpinned and do not fail the run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.load(cmd, args[0])
			if err != nil {
				return err
			}
			report, err := a.integrityService().VerifyDocument(cmd.Context(), res.VCT)
			if err != nil {
				return err
			}
			if err := render(cmd.OutOrStdout(), a.format(), report); err != nil {
				return err
			}
			if !report.Valid {
				return ErrVerificationFailed
			}
			return nil
		},
	}
}
