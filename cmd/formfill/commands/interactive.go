package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formfill/pkg/tui"
)

func interactiveCmd(st *state) *cobra.Command {
	var manual bool
	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Prompt for a CNPJ and CEP and fill the form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filler, err := st.filler()
			if err != nil {
				return err
			}
			session, err := tui.NewSession(filler,
				tui.WithOutput(cmd.ErrOrStderr()),
				tui.WithManualCompletion(manual),
			)
			if err != nil {
				return err
			}
			values, err := session.Run(cmd.Context())
			if errors.Is(err, tui.ErrAborted) {
				return nil
			}
			if err != nil {
				return err
			}
			return tui.WriteValues(cmd.OutOrStdout(), st.format, values)
		},
	}
	cmd.Flags().BoolVar(&manual, "manual", false, "offer to type fields the lookups left empty")
	return cmd
}
