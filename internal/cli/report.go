package cli

import (
	"fmt"
	"io"

	"l10n-scanner/internal/graph"
	"l10n-scanner/internal/parser"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle = lipgloss.NewStyle().Width(14).Foreground(lipgloss.Color("8"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	countStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render(label), value)
}

func printWarnings(w io.Writer, warnings []parser.Warning) {
	if len(warnings) == 0 {
		fmt.Fprintln(w, okStyle.Render("No warnings"))
		return
	}
	for _, wn := range warnings {
		fmt.Fprintf(w, "%s %s %s\n",
			warnStyle.Render(fmt.Sprintf("%s:%d", wn.File, wn.Line)),
			dimStyle.Render("["+wn.LanguageID+"]"),
			wn.Message)
	}
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("%d warnings", len(warnings))))
}

func printResult(w io.Writer, result *parser.ParseResult) {
	for _, t := range result.Texts {
		fmt.Fprintf(w, "%s %s %q", dimStyle.Render(fmt.Sprintf("%4d", t.Line)), dimStyle.Render(t.Hash()), t.Text)
		if t.Explanation != "" {
			fmt.Fprintf(w, " %s", dimStyle.Render("("+t.Explanation+")"))
		}
		fmt.Fprintln(w)
	}
	printWarnings(w, result.Warnings)
}

// printFiles lists graph occurrences as alias:path:line. Unknown source ids
// are printed as they are.
func printFiles(w io.Writer, files []graph.FileResult, aliases map[string]string) {
	for _, f := range files {
		source := f.SourceID
		if alias, ok := aliases[f.SourceID]; ok {
			source = alias
		}
		fmt.Fprintf(w, "%s %s\n", dimStyle.Render(source), fmt.Sprintf("%s:%d", f.Path, f.Line))
	}
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("%d files", len(files))))
}
