package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formfill/pkg/mask"
)

func formatCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "format cep|cnpj <value>",
		Short:     "Print the masked form of a CEP or CNPJ",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{string(mask.KindCEP), string(mask.KindCNPJ)},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := mask.ParseKind(args[0])
			if !ok {
				return fmt.Errorf("unknown kind %q (want cep or cnpj)", args[0])
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), kind.Format(args[1]))
			return err
		},
	}
}
