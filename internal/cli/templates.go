package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"broadcaster/internal/domain"
)

func newTemplatesCommand(e *env) *cobra.Command {
	var approved, refresh, purge bool

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List WhatsApp message templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			catalog := e.services.Catalog

			if purge {
				n, err := catalog.Purge(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(e.out, "purged %d cached template lists\n", n)
				return nil
			}

			var (
				list []domain.MessageTemplate
				err  error
			)
			switch {
			case refresh:
				list, err = catalog.Refresh(ctx)
			default:
				list, err = catalog.List(ctx)
			}
			if err != nil {
				return err
			}

			if approved {
				filtered := list[:0:0]
				for _, t := range list {
					if t.IsApproved() {
						filtered = append(filtered, t)
					}
				}
				list = filtered
			}

			return printTemplates(e.out, list)
		},
	}

	cmd.Flags().BoolVar(&approved, "approved", false, "only show approved templates")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the template cache")
	cmd.Flags().BoolVar(&purge, "purge-cache", false, "drop cached templates for every user and exit")
	return cmd
}
