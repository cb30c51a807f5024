package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"bistro-pos/internal/catalog"
	"bistro-pos/internal/repository"
	"bistro-pos/internal/service"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// menuFile is the YAML layout accepted by posctl seed
type menuFile struct {
	Items []menuEntry `yaml:"items"`
}

type menuEntry struct {
	Name       string `yaml:"name"`
	Price      string `yaml:"price"`
	Category   string `yaml:"category"`
	ImageURL   string `yaml:"image_url"`
	Spicy      bool   `yaml:"spicy"`
	Vegetarian bool   `yaml:"vegetarian"`
}

// parseMenu reads a YAML menu. Prices are parsed as exact decimals.
func parseMenu(r io.Reader) ([]service.CatalogItemInput, error) {
	var file menuFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("parsing menu: %w", err)
	}
	if len(file.Items) == 0 {
		return nil, fmt.Errorf("parsing menu: no items")
	}

	inputs := make([]service.CatalogItemInput, 0, len(file.Items))
	for i, entry := range file.Items {
		price, err := decimal.NewFromString(strings.TrimSpace(entry.Price))
		if err != nil {
			return nil, fmt.Errorf("item %d (%s): invalid price %q", i+1, entry.Name, entry.Price)
		}
		inputs = append(inputs, service.CatalogItemInput{
			Name:         entry.Name,
			Price:        price,
			Category:     entry.Category,
			ImageURL:     entry.ImageURL,
			IsSpicy:      entry.Spicy,
			IsVegetarian: entry.Vegetarian,
		})
	}
	return inputs, nil
}

func sampleInputs() []service.CatalogItemInput {
	menu := catalog.SampleMenu()
	inputs := make([]service.CatalogItemInput, 0, len(menu))
	for _, item := range menu {
		inputs = append(inputs, service.CatalogItemInput{
			Name:         item.Name,
			Price:        item.Price,
			Category:     item.Category,
			ImageURL:     item.ImageURL,
			IsSpicy:      item.IsSpicy,
			IsVegetarian: item.IsVegetarian,
		})
	}
	return inputs
}

// seedCatalog creates every input, stopping at the first failure
func seedCatalog(ctx context.Context, svc service.CatalogService, inputs []service.CatalogItemInput) (int, error) {
	for i, in := range inputs {
		if _, err := svc.Create(ctx, in); err != nil {
			return i, fmt.Errorf("creating %q: %w", in.Name, err)
		}
	}
	return len(inputs), nil
}

func newSeedCmd(e *env) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load menu items into the catalog",
		Long:  "Load menu items from a YAML file, or the built-in sample menu when --file is not given.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs := sampleInputs()
			if file != "" {
				f, err := os.Open(file)
				if err != nil {
					return fmt.Errorf("opening menu: %w", err)
				}
				defer f.Close()

				if inputs, err = parseMenu(f); err != nil {
					return err
				}
			}

			db, err := e.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			repo := repository.NewCatalogRepository(db)
			provider := catalog.NewStoreProvider(repo, e.catalogCache(cmd.Context()), e.logger)
			svc := service.NewCatalogService(repo, provider, e.logger)

			n, err := seedCatalog(cmd.Context(), svc, inputs)
			fmt.Fprintln(cmd.OutOrStdout(), titleStyle.Render(fmt.Sprintf("%d of %d menu items created", n, len(inputs))))
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML menu to load")

	return cmd
}

// catalogCache returns the API's Redis catalog cache so a seed is visible
// immediately, or nil when Redis is unreachable
func (e *env) catalogCache(ctx context.Context) catalog.Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     e.cfg.Redis.Addr(),
		Password: e.cfg.Redis.Password,
		DB:       e.cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		e.logger.Debug("Redis unreachable, catalog cache left alone")
		rdb.Close()
		return nil
	}
	return catalog.NewRedisCache(rdb, e.cfg.Redis.CatalogCacheTTL)
}
