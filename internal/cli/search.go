package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"bistro-pos/internal/catalog"
	"bistro-pos/internal/domain"
	"bistro-pos/internal/repository"

	"github.com/spf13/cobra"
)

// runSearch feeds each input line to a LiveSearch and prints every result
// it publishes. After EOF it waits for the last pending result.
func runSearch(ctx context.Context, in io.Reader, out io.Writer, items []domain.CatalogItem, category string, window time.Duration) error {
	search := catalog.NewLiveSearch(items, window)
	defer search.Close()
	if category != "" {
		search.SetCategory(category)
	}

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- strings.TrimSpace(scanner.Text()):
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	var drained <-chan time.Time
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				lines = nil
				drained = time.After(2*window + 100*time.Millisecond)
				continue
			}
			search.SetQuery(line)
		case result := <-search.Results():
			fmt.Fprint(out, renderItems(result.Query, result.Items))
			if lines == nil {
				return <-scanErr
			}
		case <-drained:
			return <-scanErr
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func newSearchCmd(e *env) *cobra.Command {
	var (
		category string
		static   bool
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Live-search the catalog, one query per input line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items := catalog.SampleMenu()
			if !static && e.cfg.Catalog.Source != "static" {
				db, err := e.openDB()
				if err != nil {
					return err
				}
				defer db.Close()

				items, err = catalog.NewStoreProvider(repository.NewCatalogRepository(db), nil, e.logger).
					Items(cmd.Context())
				if err != nil {
					return err
				}
			}

			fmt.Fprintln(cmd.ErrOrStderr(), dimStyle.Render(fmt.Sprintf("%d items loaded, type to search", len(items))))
			return runSearch(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), items, category, e.cfg.Catalog.SearchDebounce)
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "restrict results to one category")
	cmd.Flags().BoolVar(&static, "static", false, "search the built-in sample menu")

	return cmd
}
