package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"broadcaster/internal/config"
	"broadcaster/internal/domain"
	"broadcaster/internal/service"
)

type sendFlags struct {
	file      string
	name      string
	mode      string
	numbers   string
	csv       string
	message   string
	mediaURL  string
	mediaType string
	mediaFile string
	template  string
	variables []string
}

func newSendCommand(e *env) *cobra.Command {
	var f sendFlags

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Submit a broadcast",
		Long: `Submit a broadcast, either described in a YAML draft file (-f) or with flags.

  broadcaster send -f blackfriday.yaml
  broadcaster send -n 5511999999999 --csv contacts.csv -m "50% off today"
  broadcaster send --mode template -t order_update --var Sam --var A-1001 -n 5511999999999`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc := e.services

			var (
				res *service.Result
				err error
			)
			if f.file != "" {
				res, err = sendDraftFile(cmd, svc.Catalog, svc.Composer, f.file)
			} else {
				var form *service.Form
				form, err = f.form(cmd, svc.Catalog, svc.Composer)
				if err != nil {
					return err
				}
				res, err = svc.Composer.SubmitForm(ctx, form)
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(e.out, res.Message)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.file, "file", "f", "", "YAML draft file")
	flags.StringVar(&f.name, "name", "", "broadcast name")
	flags.StringVar(&f.mode, "mode", string(domain.ModeDirect), "send mode: direct or template")
	flags.StringVarP(&f.numbers, "numbers", "n", "", "comma-separated phone numbers")
	flags.StringVar(&f.csv, "csv", "", "CSV file with phone numbers in the first column")
	flags.StringVarP(&f.message, "message", "m", "", "direct message text")
	flags.StringVar(&f.mediaURL, "media-url", "", "direct message media URL")
	flags.StringVar(&f.mediaType, "media-type", "image", "media type: image, video, audio or document")
	flags.StringVar(&f.mediaFile, "media-file", "", "direct message media file to upload")
	flags.StringVarP(&f.template, "template", "t", "", "template name or ID")
	flags.StringArrayVar(&f.variables, "var", nil, "template variable, repeat in {{n}} order")
	cmd.MarkFlagsMutuallyExclusive("file", "numbers")
	cmd.MarkFlagsMutuallyExclusive("media-url", "media-file")

	return cmd
}

func sendDraftFile(cmd *cobra.Command, catalog *service.Catalog, composer *service.Composer, path string) (*service.Result, error) {
	draft, err := config.LoadDraftFile(path)
	if err != nil {
		return nil, err
	}

	if err := composer.Validate(draft); err != nil {
		return nil, err
	}

	if tpl, ok := draft.Payload.(domain.TemplatePayload); ok {
		prepared, err := catalog.Prepare(cmd.Context(), tpl)
		if err != nil {
			return nil, err
		}
		draft.Payload = prepared
	}

	return composer.Submit(cmd.Context(), draft)
}

// form fills a compose form from flags. Recipients are checked before the
// catalog is consulted.
func (f *sendFlags) form(cmd *cobra.Command, catalog *service.Catalog, composer *service.Composer) (*service.Form, error) {
	mode, ok := domain.ParseSendMode(f.mode)
	if !ok {
		return nil, &domain.ValidationError{Field: "mode", Message: domain.MsgUnknownSendMode}
	}
	if err := f.checkMode(mode); err != nil {
		return nil, err
	}

	upload, err := readCSV(f.csv)
	if err != nil {
		return nil, err
	}

	if mode == domain.ModeTemplate {
		err := composer.Validate(&domain.BroadcastDraft{
			ManualNumbers: f.numbers,
			CSV:           upload,
			Payload:       domain.TemplatePayload{TemplateName: f.template},
		})
		if err != nil {
			return nil, err
		}
	}

	form := service.NewForm()
	form.Name = f.name
	form.ManualNumbers = f.numbers
	form.CSV = upload
	form.SetMode(mode)

	switch mode {
	case domain.ModeDirect:
		form.Direct.Message = f.message
		media, err := f.media()
		if err != nil {
			return nil, err
		}
		form.Direct.Media = media
	case domain.ModeTemplate:
		if f.template == "" {
			break
		}
		tpl, _, err := catalog.Select(cmd.Context(), f.template)
		if err != nil {
			return nil, err
		}
		form.SelectTemplate(tpl)
		for i, v := range f.variables {
			if err := form.SetVariable(i, v); err != nil {
				return nil, &domain.ValidationError{Field: "variables", Message: domain.MsgTooManyVariables}
			}
		}
	}

	return form, nil
}

// checkMode rejects flags that belong to the other send mode, matching
// the rules applied to draft files.
func (f *sendFlags) checkMode(mode domain.SendMode) error {
	switch mode {
	case domain.ModeDirect:
		if f.template != "" || len(f.variables) > 0 {
			return &domain.ValidationError{Field: "template", Message: "template and variables are only valid in template mode"}
		}
	case domain.ModeTemplate:
		if f.message != "" || f.mediaURL != "" || f.mediaFile != "" {
			return &domain.ValidationError{Field: "message", Message: "message and media are only valid in direct mode"}
		}
	}
	return nil
}

func (f *sendFlags) media() (*domain.Media, error) {
	switch {
	case f.mediaURL != "":
		return &domain.Media{URL: f.mediaURL, Type: f.mediaType}, nil
	case f.mediaFile != "":
		content, err := os.ReadFile(f.mediaFile)
		if err != nil {
			return nil, fmt.Errorf("read media: %w", err)
		}
		return &domain.Media{
			Type:     f.mediaType,
			FileName: filepath.Base(f.mediaFile),
			Content:  content,
		}, nil
	default:
		return nil, nil
	}
}
