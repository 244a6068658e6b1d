package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"broadcaster/internal/domain"
	"broadcaster/internal/recipients"
)

func newRecipientsCommand(e *env) *cobra.Command {
	var numbers, csvPath string
	var countOnly bool

	cmd := &cobra.Command{
		Use:   "recipients",
		Short: "Show the merged recipient list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			upload, err := readCSV(csvPath)
			if err != nil {
				return err
			}

			list := recipients.Resolve(numbers, upload)
			if !countOnly {
				for _, r := range list {
					fmt.Fprintln(e.out, r)
				}
			}
			fmt.Fprintf(e.out, "%d recipients\n", len(list))
			return nil
		},
	}

	cmd.Flags().StringVarP(&numbers, "numbers", "n", "", "comma-separated phone numbers")
	cmd.Flags().StringVar(&csvPath, "csv", "", "CSV file with phone numbers in the first column")
	cmd.Flags().BoolVar(&countOnly, "count", false, "only print the count")
	return cmd
}

func readCSV(path string) (*domain.CSVUpload, error) {
	if path == "" {
		return nil, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return &domain.CSVUpload{FileName: filepath.Base(path), Content: content}, nil
}
