package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dgallion1/xapidoc/internal/apitree"
)

const (
	sheetParameters = "Parameters"
	sheetIssues     = "Issues"
)

// XLSX writes one sheet per kind, a sheet of every parameter and a sheet
// of validation issues.
func XLSX(w io.Writer, in Input) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"007A87"}},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	sheets := []struct {
		name string
		rows [][]any
	}{
		{sectionTitles[apitree.KindConfiguration], entityRows(in.API, apitree.KindConfiguration)},
		{sectionTitles[apitree.KindCommand], entityRows(in.API, apitree.KindCommand)},
		{sectionTitles[apitree.KindStatus], entityRows(in.API, apitree.KindStatus)},
		{sheetParameters, parameterRows(in.API)},
		{sheetIssues, issueRows(in)},
	}
	for i, sh := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sh.name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sh.name); err != nil {
			return fmt.Errorf("create sheet %s: %w", sh.name, err)
		}
		if err := writeSheet(f, sh.name, sh.rows, header); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, rows [][]any, headerStyle int) error {
	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, r+1, err)
		}
	}
	if len(rows) > 0 {
		if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
			return fmt.Errorf("style %s header: %w", sheet, err)
		}
		last, err := excelize.ColumnNumberToName(len(rows[0]))
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, "A", last, 24); err != nil {
			return fmt.Errorf("size %s columns: %w", sheet, err)
		}
	}
	return nil
}

func entityRows(api *apitree.API, kind apitree.Kind) [][]any {
	head := []any{"Path", "Applies to", "Roles", "Parameters", "Description"}
	if kind == apitree.KindStatus {
		head = append(head, "Returns")
	}
	rows := [][]any{head}
	for _, e := range entitiesOf(api, kind) {
		m := e.Meta()
		names := make([]string, 0)
		for _, p := range parametersOf(e) {
			names = append(names, p.Common().Name)
		}
		row := []any{m.Name(), productsText(m.Products), rolesText(m.Roles), strings.Join(names, ", "), m.Description}
		if s, ok := e.(*apitree.Status); ok {
			row = append(row, returnsText(s.ValueSpace))
		}
		rows = append(rows, row)
	}
	return rows
}

func parameterRows(api *apitree.API) [][]any {
	rows := [][]any{{"Entity", "Kind", "Parameter", "Type", "Value space", "Default", "Required", "Positional", "Applies to"}}
	for _, e := range api.Entities() {
		for _, p := range parametersOf(e) {
			c := p.Common()
			positional := false
			if ip, ok := p.(*apitree.IntegerParameter); ok {
				positional = ip.Positional
			}
			rows = append(rows, []any{
				e.Meta().Name(), string(e.Kind()), c.Name, string(c.Type), spaceText(p),
				c.Default, c.Required, positional, productsText(c.Products),
			})
		}
	}
	return rows
}

func issueRows(in Input) [][]any {
	rows := [][]any{{"Severity", "Kind", "Entity", "Parameter", "Message"}}
	for _, i := range in.Issues {
		rows = append(rows, []any{string(i.Severity), string(i.Kind), i.Entity, i.Parameter, i.Message})
	}
	return rows
}
