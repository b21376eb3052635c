package cli

import (
	"context"
	"fmt"

	"l10n-scanner/internal/textutil"
	"l10n-scanner/internal/translator"

	"github.com/spf13/cobra"
)

// translationLookup finds a translation outside the locale files.
type translationLookup interface {
	Get(ctx context.Context, locale, hash string) (string, bool)
}

// fillFromLookup copies the translation of text from lookup into tr when the
// locale files have none. It reports whether a translation was copied.
func fillFromLookup(ctx context.Context, tr *translator.Translator, lookup translationLookup, text string) (bool, error) {
	hash := textutil.Hash(text)
	if tr.IsTranslated(hash) {
		return false, nil
	}
	v, ok := lookup.Get(ctx, tr.Locale(), hash)
	if !ok || v == "" {
		return false, nil
	}
	if err := tr.SetTranslation(hash, v); err != nil {
		return false, err
	}
	return true, nil
}

func translateCmd(load loader) *cobra.Command {
	var locale string
	var useDB bool

	cmd := &cobra.Command{
		Use:   "translate <text> [args...]",
		Short: "Translate a text into a locale",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lc, err := load()
			if err != nil {
				return err
			}
			if err := lc.Translator.SetTargetLocale(locale); err != nil {
				return err
			}

			if useDB {
				ctx, cancel := setupContext()
				defer cancel()

				st, closeStore, err := openStore(ctx, lc.Config)
				if err != nil {
					return err
				}
				defer closeStore()

				if err := st.Preload(ctx, locale); err != nil {
					return err
				}
				if _, err := fillFromLookup(ctx, lc.Translator, st, args[0]); err != nil {
					return err
				}
			}

			values := make([]any, 0, len(args)-1)
			for _, a := range args[1:] {
				values = append(values, a)
			}
			out, err := lc.Translator.Translate(args[0], values...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&locale, "locale", "", "Target locale")
	cmd.Flags().BoolVar(&useDB, "db", false, "Fall back to translations exported to PostgreSQL")
	_ = cmd.MarkFlagRequired("locale")
	return cmd
}

func setTranslationCmd(load loader) *cobra.Command {
	var locale, hash, text string

	cmd := &cobra.Command{
		Use:   "set-translation",
		Short: "Store the translation of a string and save the locale files",
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
			if _, err := coll.Hash(hash); err != nil {
				return err
			}
			if err := lc.Translator.SetTargetLocale(locale); err != nil {
				return err
			}
			if err := lc.Translator.SetTranslation(hash, text); err != nil {
				return err
			}
			return lc.SaveTranslations()
		},
	}

	cmd.Flags().StringVar(&locale, "locale", "", "Target locale")
	cmd.Flags().StringVar(&hash, "hash", "", "Hash of the original string")
	cmd.Flags().StringVar(&text, "text", "", "Translated text")
	_ = cmd.MarkFlagRequired("locale")
	_ = cmd.MarkFlagRequired("hash")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func clearTranslationCmd(load loader) *cobra.Command {
	var locale, hash string

	cmd := &cobra.Command{
		Use:   "clear-translation",
		Short: "Remove the translation of a string and save the locale files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lc, err := load()
			if err != nil {
				return err
			}
			if err := lc.Translator.SetTargetLocale(locale); err != nil {
				return err
			}
			if err := lc.Translator.ClearTranslation(hash); err != nil {
				return err
			}
			return lc.SaveTranslations()
		},
	}

	cmd.Flags().StringVar(&locale, "locale", "", "Target locale")
	cmd.Flags().StringVar(&hash, "hash", "", "Hash of the original string")
	_ = cmd.MarkFlagRequired("locale")
	_ = cmd.MarkFlagRequired("hash")
	return cmd
}
