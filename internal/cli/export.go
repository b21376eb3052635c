package cli

import (
	"context"
	"errors"
	"fmt"

	"l10n-scanner/internal/config"
	"l10n-scanner/internal/graph"
	"l10n-scanner/internal/localization"
	"l10n-scanner/internal/store"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// openStore connects to PostgreSQL and makes sure the tables exist. The
// returned func closes the pool.
func openStore(ctx context.Context, cfg *config.Config) (*store.TranslationStore, func(), error) {
	if cfg.DatabaseURL == "" {
		return nil, nil, errors.New("database_url is not configured")
	}
	pool, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	log.Info().Msg("Connected to PostgreSQL")

	st := store.NewTranslationStore(pool)
	if err := st.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return st, pool.Close, nil
}

// openGraph connects to Neo4j and checks the connection.
func openGraph(ctx context.Context, cfg *config.Config) (neo4j.DriverWithContext, error) {
	if cfg.Neo4jURI == "" {
		return nil, errors.New("neo4j_uri is not configured")
	}
	driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""))
	if err != nil {
		return nil, fmt.Errorf("connect Neo4j: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("verify Neo4j connectivity: %w", err)
	}
	log.Info().Msg("Connected to Neo4j")
	return driver, nil
}

func sourceAliases(lc *localization.Context) map[string]string {
	aliases := make(map[string]string, len(lc.Sources))
	for _, src := range lc.Sources {
		aliases[src.ID()] = src.Alias()
	}
	return aliases
}

func exportDBCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "export-db",
		Short: "Mirror strings and translations of all locales into PostgreSQL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()

			lc, err := load()
			if err != nil {
				return err
			}
			coll, err := lc.Scanner.Collection()
			if err != nil {
				return err
			}

			st, closeStore, err := openStore(ctx, lc.Config)
			if err != nil {
				return err
			}
			defer closeStore()

			rows, err := st.UpsertStrings(ctx, coll)
			if err != nil {
				return err
			}

			translations := 0
			for _, locale := range lc.Translator.Locales() {
				if err := lc.Translator.SetTargetLocale(locale); err != nil {
					return err
				}
				n, err := st.UpsertTranslations(ctx, locale, lc.Translator.Strings())
				if err != nil {
					return err
				}
				translations += n
			}

			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render(
				fmt.Sprintf("Exported %d occurrences and %d translations", rows, translations)))
			return nil
		},
	}
}

func exportGraphCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "export-graph",
		Short: "Write the occurrence graph of the last scan to Neo4j",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()

			lc, err := load()
			if err != nil {
				return err
			}
			coll, err := lc.Scanner.Collection()
			if err != nil {
				return err
			}

			driver, err := openGraph(ctx, lc.Config)
			if err != nil {
				return err
			}
			defer driver.Close(ctx)

			builder := graph.NewGraphBuilder(driver)
			if err := builder.EnsureSchema(ctx); err != nil {
				return err
			}
			n, err := builder.UpsertCollection(ctx, coll, sourceAliases(lc))
			if err != nil {
				return err
			}

			shared, err := graph.NewGraphQuerier(driver).SharedStrings(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render(
				fmt.Sprintf("Exported %d occurrences, %d strings used in several files", n, len(shared))))
			return nil
		},
	}
}

func whereCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "where <hash>",
		Short: "List the files a string occurs in, read from the Neo4j graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()

			lc, err := load()
			if err != nil {
				return err
			}
			driver, err := openGraph(ctx, lc.Config)
			if err != nil {
				return err
			}
			defer driver.Close(ctx)

			files, err := graph.NewGraphQuerier(driver).FilesForHash(ctx, args[0])
			if err != nil {
				return err
			}
			printFiles(cmd.OutOrStdout(), files, sourceAliases(lc))
			return nil
		},
	}
}
