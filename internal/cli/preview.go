package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"broadcaster/internal/service"
)

func newPreviewCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "preview <template> [variable...]",
		Short: "Render a template with positional variables",
		Long: `Render a template body as recipients will see it. Variables fill {{1}},
{{2}}, ... in order; missing ones show as [Variable N].`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tpl, _, err := e.services.Catalog.Select(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			form := service.NewForm()
			form.SelectTemplate(tpl)
			for i, v := range args[1:] {
				if err := form.SetVariable(i, v); err != nil {
					return err
				}
			}

			if !tpl.IsApproved() {
				fmt.Fprintf(e.out, "warning: template %q is %s and cannot be sent\n\n", tpl.Name, tpl.Status)
			}
			printPreview(e.out, tpl, form.Template.Variables)
			return nil
		},
	}
}
