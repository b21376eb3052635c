package cli

import (
	"fmt"
	"io"
	"strings"

	"l10n-scanner/internal/collection"
	"l10n-scanner/internal/localization"
	"l10n-scanner/internal/parser"
	"l10n-scanner/internal/textutil"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func scanCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Scan all sources and write the snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()

			lc, err := load()
			if err != nil {
				return err
			}
			if err := lc.Scanner.Scan(ctx); err != nil {
				return err
			}
			return printStatus(cmd.OutOrStdout(), lc)
		},
	}
}

func statusCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the state of the last scan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lc, err := load()
			if err != nil {
				return err
			}
			return printStatus(cmd.OutOrStdout(), lc)
		},
	}
}

func printStatus(w io.Writer, lc *localization.Context) error {
	if !lc.Scanner.IsScanAvailable() {
		fmt.Fprintln(w, warnStyle.Render("No scan available. Run `l10n-scanner scan` first."))
		return nil
	}
	coll, err := lc.Scanner.Collection()
	if err != nil {
		return err
	}

	fmt.Fprintln(w, titleStyle.Render("Scan"))
	printField(w, "Snapshot", lc.Scanner.StorageFile())
	printField(w, "Scanned at", lc.Scanner.LastScan().Local().Format("2006-01-02 15:04:05"))
	printField(w, "Duration", lc.Scanner.Duration().String())
	printField(w, "Strings", fmt.Sprint(coll.CountHashes()))
	printField(w, "Warnings", fmt.Sprint(coll.CountWarnings()))
	for _, src := range lc.Sources {
		printField(w, src.Label(), fmt.Sprintf("%d strings", len(coll.HashesBySourceID(src.ID()))))
	}
	return nil
}

func warningsCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "warnings",
		Short: "List calls that could not be extracted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lc, err := load()
			if err != nil {
				return err
			}
			warnings, err := lc.Scanner.Warnings()
			if err != nil {
				return err
			}
			printWarnings(cmd.OutOrStdout(), warnings)
			return nil
		},
	}
}

func stringsCmd(load loader) *cobra.Command {
	var sourceAlias, language, search string
	var showFiles bool

	cmd := &cobra.Command{
		Use:   "strings",
		Short: "List scanned strings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lc, err := load()
			if err != nil {
				return err
			}
			coll, err := lc.Scanner.Collection()
			if err != nil {
				return err
			}

			hashes := coll.Hashes()
			if search != "" {
				hashes = coll.Search(search)
			}
			if sourceAlias != "" {
				src, err := lc.Source(sourceAlias)
				if err != nil {
					return err
				}
				hashes = keep(hashes, func(h *collection.StringHash) bool { return h.HasSourceID(src.ID()) })
			}
			if language != "" {
				id, err := lc.Registry.LanguageByID(language)
				if err != nil {
					return err
				}
				hashes = keep(hashes, func(h *collection.StringHash) bool { return h.HasLanguageType(id) })
			}

			w := cmd.OutOrStdout()
			for _, h := range hashes {
				fmt.Fprintf(w, "%s  %s  %s\n",
					dimStyle.Render(h.Hash()),
					countStyle.Render(fmt.Sprintf("%3dx", h.CountStrings())),
					textutil.Truncate(h.Text(), 80))
				if showFiles {
					for _, f := range h.Files() {
						fmt.Fprintf(w, "    %s\n", dimStyle.Render(f))
					}
				}
			}
			fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("%d strings", len(hashes))))
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceAlias, "source", "", "Only strings of this source alias")
	cmd.Flags().StringVar(&language, "language", "", "Only strings used by this language (PHP, JavaScript, php, js)")
	cmd.Flags().StringVar(&search, "search", "", "Only strings containing this text")
	cmd.Flags().BoolVar(&showFiles, "files", false, "List the files of each string")
	return cmd
}

func keep(hashes []*collection.StringHash, fn func(*collection.StringHash) bool) []*collection.StringHash {
	var out []*collection.StringHash
	for _, h := range hashes {
		if fn(h) {
			out = append(out, h)
		}
	}
	return out
}

func languagesCmd(fs afero.Fs) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List supported languages and their translation functions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := parser.NewRegistry(fs)
			names, err := registry.FunctionNames()
			if err != nil {
				return err
			}
			for _, id := range registry.LanguageIDs() {
				printField(cmd.OutOrStdout(), id, strings.Join(names[id], ", "))
			}
			return nil
		},
	}
}

func parseCmd(fs afero.Fs) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file>",
		Short: "Extract the strings of a single file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := parser.NewRegistry(fs).ParseFile(args[0])
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

func parseCodeCmd(fs afero.Fs) *cobra.Command {
	return &cobra.Command{
		Use:   "parse-code <language> <code>",
		Short: "Extract the strings of a code snippet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := parser.NewRegistry(fs).ParseCode(args[0], args[1])
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), result)
			return nil
		},
	}
}
