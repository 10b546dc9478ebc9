package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/inodb/vareff/internal/ensembl"
)

func newFetchCmd() *cobra.Command {
	var (
		post        string
		contentType string
	)

	cmd := &cobra.Command{
		Use:   "fetch <path>...",
		Short: "Fetch raw Ensembl REST responses",
		Long: `Fetch one or more paths relative to the configured base URL. Paths are
appended verbatim, so quote and pre-encode query strings. All paths are
requested concurrently and printed in argument order.`,
		Example: `  vareff fetch 'lookup/symbol/homo_sapiens/BRAF?'
  vareff fetch --content-type text/x-fasta 'sequence/id/ENSG00000157764?type=genomic'
  vareff fetch --post '{"symbols":["BRAF","BRCA2"]}' lookup/symbol/homo_sapiens`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := loadSettings()
			if contentType == "" {
				contentType = s.ContentType
			}

			logger, err := newLogger(s.Verbose)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer logger.Sync()

			c := newClient(s, logger)
			ctx := cmd.Context()

			futures := make([]*ensembl.Future[*ensembl.Body], len(args))
			for i, path := range args {
				if cmd.Flags().Changed("post") {
					futures[i] = c.PostAsync(ctx, path, post, contentType)
				} else {
					futures[i] = c.FetchAsync(ctx, path, contentType)
				}
			}

			for _, f := range futures {
				body, err := f.Await(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(os.Stdout, body.Text)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&post, "post", "", "POST this payload instead of issuing a GET")
	cmd.Flags().StringVar(&contentType, "content-type", "", "Content type (default: ensembl.content_type)")

	return cmd
}
