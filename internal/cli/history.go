package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"broadcaster/internal/domain"
)

func newHistoryCommand(e *env) *cobra.Command {
	var (
		watch    bool
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past broadcasts",
		Long: `List past broadcasts, newest first. With --watch the list is refreshed at a
fixed interval until interrupted; the first failed refresh stops watching.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			history := e.services.History

			if !watch {
				entries, err := history.List(cmd.Context())
				if err != nil {
					return err
				}
				return printHistory(e.out, entries)
			}

			if interval <= 0 {
				interval = e.app.Config().History.PollInterval
			}

			return history.Watch(cmd.Context(), interval, func(entries []domain.BroadcastHistoryEntry) {
				fmt.Fprintf(e.out, "-- %s\n", time.Now().Format(time.TimeOnly))
				if err := printHistory(e.out, entries); err != nil {
					e.logger.Warn("failed to print history", "error", err)
				}
				if n := inProgress(entries); n > 0 {
					fmt.Fprintf(e.out, "%d broadcast(s) still in progress\n", n)
				}
			})
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep refreshing")
	cmd.Flags().DurationVar(&interval, "interval", 0, "refresh interval (default from HISTORY_POLL_INTERVAL)")
	return cmd
}

func inProgress(entries []domain.BroadcastHistoryEntry) int {
	n := 0
	for i := range entries {
		if !entries[i].IsFinal() {
			n++
		}
	}
	return n
}
