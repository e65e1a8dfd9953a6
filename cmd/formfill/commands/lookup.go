package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formfill/pkg/fill"
	"github.com/goliatone/go-formfill/pkg/tui"
)

func lookupCmd(st *state, field, short string) *cobra.Command {
	return &cobra.Command{
		Use:   field + " <value>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filler, err := st.filler()
			if err != nil {
				return err
			}
			session, err := tui.NewSession(filler, tui.WithOutput(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}

			res, values := session.Fill(cmd.Context(), field, args[0])
			if err := tui.WriteValues(cmd.OutOrStdout(), st.format, values); err != nil {
				return err
			}
			if res.Outcome != fill.OutcomeFilled {
				return fmt.Errorf("%s lookup %s", field, res.Outcome)
			}
			return nil
		},
	}
}
