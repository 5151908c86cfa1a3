package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dgallion1/xapidoc/internal/apitree"
	"github.com/dgallion1/xapidoc/internal/classify"
	"github.com/dgallion1/xapidoc/internal/extract"
	"github.com/dgallion1/xapidoc/internal/layout"
	"github.com/dgallion1/xapidoc/internal/parser"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	// dimStyle for muted metadata text
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")).
			Padding(0, 1)

	errorBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("196")).
			Padding(0, 1)
)

// styleColors tints each character style in the styles listing.
var styleColors = map[classify.Style]lipgloss.Color{
	classify.Body:           "250",
	classify.FamilyHeading:  "33",
	classify.NameHeading:    "39",
	classify.ProductName:    "37",
	classify.UsageHeading:   "141",
	classify.UsageExample:   "177",
	classify.ParameterName:  "214",
	classify.ValueSpace:     "42",
	classify.ValueSpaceTerm: "82",
}

// FormatSummary renders the per-section outcome of an extraction.
func FormatSummary(w io.Writer, doc *layout.Document, rep extract.Report, issues []extract.Issue) {
	var lines []string
	title := doc.Title
	if title == "" {
		title = "untitled document"
	}
	lines = append(lines, fmt.Sprintf("%s  %s %d  %s %d",
		titleStyle.Render(title),
		dimStyle.Render("Pages:"), len(doc.Pages),
		dimStyle.Render("Words:"), doc.WordCount()))

	for _, s := range rep.Sections {
		status := successStyle.Render("OK")
		if s.Error != "" {
			status = errorStyle.Render("ERROR")
		}
		lines = append(lines, fmt.Sprintf("%-13s %s %d..%d  %s %5d  %s %4d  %s %6.1fms  %s",
			s.Kind,
			dimStyle.Render("pages"), s.FirstPage, s.LastPage,
			dimStyle.Render("words"), s.Words,
			dimStyle.Render("entities"), s.Entities,
			dimStyle.Render("took"), float64(s.Duration.Microseconds())/1000,
			status))
	}

	errs, warns := 0, 0
	for _, is := range issues {
		if is.Severity == extract.SeverityError {
			errs++
		} else {
			warns++
		}
	}
	issueLine := successStyle.Render("no issues")
	if errs+warns > 0 {
		issueLine = fmt.Sprintf("%s  %s",
			errorStyle.Render(fmt.Sprintf("%d errors", errs)),
			warnStyle.Render(fmt.Sprintf("%d warnings", warns)))
	}
	lines = append(lines, issueLine)
	fmt.Fprintln(w, boxStyle.Render(strings.Join(lines, "\n")))

	for _, is := range issues {
		style := warnStyle
		if is.Severity == extract.SeverityError {
			style = errorStyle
		}
		fmt.Fprintln(w, style.Render(is.String()))
	}
}

// FormatParseError renders the location of a parse failure.
func FormatParseError(w io.Writer, err error) {
	var ute *parser.UnexpectedTokenError
	if !errors.As(err, &ute) {
		fmt.Fprintln(w, errorBoxStyle.Render(errorStyle.Render("extraction failed")+"\n"+err.Error()))
		return
	}
	lines := []string{
		errorStyle.Render("unexpected token"),
		fmt.Sprintf("%s %q", dimStyle.Render("Word: "), ute.Word),
		fmt.Sprintf("%s %d", dimStyle.Render("Page: "), ute.Page),
		fmt.Sprintf("%s %s", dimStyle.Render("State:"), ute.State),
		fmt.Sprintf("%s %s", dimStyle.Render("Style:"), ute.Style),
	}
	if ute.Font != "" {
		lines = append(lines, fmt.Sprintf("%s %s %.1fpt", dimStyle.Render("Font: "), ute.Font, ute.Size))
	}
	if ute.Reason != "" {
		lines = append(lines, fmt.Sprintf("%s %s", dimStyle.Render("Why:  "), ute.Reason))
	}
	fmt.Fprintln(w, errorBoxStyle.Render(strings.Join(lines, "\n")))
}

// FormatColourWarning notes a document whose glyphs carry no colour. Rules
// that match on colour, such as product names and usage headings, never fire
// for it.
func FormatColourWarning(w io.Writer, doc *layout.Document) {
	if !doc.MissingColour() {
		return
	}
	fmt.Fprintln(w, warnStyle.Render("Warning: no glyph colour in this document; product names and usage headings will not be recognised."))
	fmt.Fprintln(w, dimStyle.Render("PDF text layers carry no fill colour. Use a word dump (.json) for colour-accurate input."))
}

// FormatPageHeader renders the geometry of a page.
func FormatPageHeader(w io.Writer, p *layout.Page, cols layout.ColumnLayout) {
	fmt.Fprintln(w, boxStyle.Render(fmt.Sprintf("%s %d  %s %.0fx%.0f  %s %.1f  %s %d",
		titleStyle.Render("Page"), p.Number,
		dimStyle.Render("size"), p.Width, p.Height,
		dimStyle.Render("column split"), cols.Threshold(p.Width),
		dimStyle.Render("words"), len(p.Words))))
}

// FormatStyledWord renders one line of the styles listing.
func FormatStyledWord(w io.Writer, word layout.Word, style classify.Style, left bool) {
	col := "R"
	if left {
		col = "L"
	}
	typo := ""
	if g, ok := word.FirstRealGlyph(); ok {
		typo = fmt.Sprintf("%s %.1fpt #%02x%02x%02x", g.Font, g.Size, g.Color[0], g.Color[1], g.Color[2])
	}
	name := lipgloss.NewStyle().Foreground(styleColors[style]).Render(fmt.Sprintf("%-26s", style))
	fmt.Fprintf(w, "%s %6.1f %6.1f  %s %s  %s\n",
		col, word.X(), word.Baseline(), name, word.Text, dimStyle.Render(typo))
}

// FormatBookmarks renders the outline of a document.
func FormatBookmarks(w io.Writer, bms layout.Bookmarks) {
	if len(bms) == 0 {
		fmt.Fprintln(w, warnStyle.Render("no bookmarks"))
		return
	}
	var lines []string
	for _, b := range bms {
		lines = append(lines, fmt.Sprintf("%4d  %s", b.Page, b.Title))
	}
	fmt.Fprintln(w, boxStyle.Render(titleStyle.Render("Bookmarks")+"\n"+strings.Join(lines, "\n")))
}

// FormatSection renders the resolved page range of one chapter.
func FormatSection(w io.Writer, kind apitree.Kind, pages []layout.Page, err error) {
	if err != nil {
		fmt.Fprintf(w, "%-13s %s\n", kind, errorStyle.Render(err.Error()))
		return
	}
	words := 0
	for _, p := range pages {
		words += len(p.Words)
	}
	first, last := 0, 0
	if len(pages) > 0 {
		first, last = pages[0].Number, pages[len(pages)-1].Number
	}
	fmt.Fprintf(w, "%-13s %s %d..%d  %s %d\n", kind,
		dimStyle.Render("pages"), first, last,
		dimStyle.Render("words"), words)
}
