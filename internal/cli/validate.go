package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atelier-labs/atelier/internal/fixture"
	"github.com/atelier-labs/atelier/internal/printer"
	"github.com/atelier-labs/atelier/internal/services"
	"github.com/atelier-labs/atelier/internal/store"
	"github.com/atelier-labs/atelier/internal/testutil"
)

// NewValidateCommand creates the validate command. It loads a CUE fixture
// directory, then applies it to a scratch repository so dangling email
// references and duplicate keys fail here instead of at demo time.
func NewValidateCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <fixtures-dir>",
		Short: "Validate a CUE fixture directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := &Formatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
			dir := args[0]

			ds, err := fixture.Load(dir)
			if err != nil {
				if f.JSON() {
					_ = f.EmitError(err.Error())
					return NewExitError(ExitFailure, "fixture validation failed")
				}
				return wrapValidateError(dir, err)
			}

			repo := store.NewRepository(
				store.WithClock(testutil.NewClock()),
				store.WithIDSource(testutil.NewSeqIDs("validate")),
			)
			svc := services.New(repo, services.WithLogger(opts.Logger))
			if err := ds.Apply(cmd.Context(), svc); err != nil {
				if f.JSON() {
					_ = f.EmitError(err.Error())
					return NewExitError(ExitFailure, "fixture validation failed")
				}
				return wrapValidateError(dir, err)
			}

			summary := map[string]int{
				"users":   len(ds.Users),
				"options": len(ds.Options),
				"posts":   len(ds.Posts),
			}
			if f.JSON() {
				return f.Emit(summary)
			}
			printer.Success("%s is valid\n", dir)
			printer.Detail("%d users, %d options, %d posts\n",
				summary["users"], summary["options"], summary["posts"])
			return nil
		},
	}
	return cmd
}

func wrapValidateError(dir string, err error) error {
	return printer.Error(
		fmt.Sprintf("Fixture validation failed for %s", dir),
		err.Error(),
		[]string{
			"Check the CUE files against the embedded schema (roles, emails, references)",
			"Run with --verbose for the full load trace",
		},
	)
}
