package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fumiama/go-docx"
	"github.com/xuri/excelize/v2"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dgallion1/xapidoc/internal/apitree"
	"github.com/dgallion1/xapidoc/internal/extract"
)

func sampleInput() Input {
	vis := apitree.NewEnumParameter("Visibility")
	vis.Values = apitree.NewEnumSet("Always", "IfSignal", "Never")
	vis.Values.Find("never").Description = "Never shown."
	vis.Default = "Always"
	n := apitree.NewIntegerParameter("n")
	n.Positional, n.PathIndex, n.Required = true, 4, true
	n.AddRange(1, 5)
	cfg := apitree.NewConfiguration()
	cfg.Path = []string{"xConfiguration", "Video", "Input", "Connector", "[n]", "Visibility"}
	cfg.Products = []apitree.Product{"Codec Pro", "Room Kit"}
	cfg.Roles = []apitree.Role{"ADMIN"}
	cfg.Description = "Define the visibility.\nSecond paragraph."
	cfg.Parameters = []apitree.Parameter{n, vis}

	id := apitree.NewStringParameter("Id")
	id.SetLength(0, 128)
	cmd := apitree.NewCommand()
	cmd.Path = []string{"xCommand", "Bookings", "Put"}
	cmd.Parameters = []apitree.Parameter{id}

	vlan := apitree.NewIntegerValueSpace("Off/1..4094")
	vlan.Sentinel = "Off"
	vlan.AddRange(1, 4094)
	st := apitree.NewStatus()
	st.Path = []string{"xStatus", "Network", "VLAN", "Voice", "VlanId"}
	st.ValueSpace = vlan

	api := &apitree.API{Title: "Room Kit API Reference"}
	api.Add(cfg)
	api.Add(cmd)
	api.Add(st)
	return Input{
		API: api,
		Issues: []extract.Issue{{
			Severity: extract.SeverityWarning, Kind: apitree.KindCommand,
			Entity: "xCommand Bookings Put", Parameter: "Id", Message: "default longer than 128 characters",
		}},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"md", FormatMarkdown},
		{"markdown", FormatMarkdown},
		{".XLSX", FormatXLSX},
		{"docx", FormatDOCX},
		{"json", FormatJSON},
		{"html", FormatHTML},
	}
	for _, tc := range tests {
		got, err := ParseFormat(tc.in)
		if err != nil || got != tc.want {
			t.Errorf("ParseFormat(%q): expected %s, got %s (%v)", tc.in, tc.want, got, err)
		}
	}
	if _, err := ParseFormat("pdf"); err == nil {
		t.Error("expected error for pdf")
	}
	for _, f := range Formats {
		if f.ContentType() == "application/octet-stream" {
			t.Errorf("expected a content type for %s", f)
		}
	}
}

func TestMarkdown(t *testing.T) {
	md := string(Markdown(sampleInput()))
	for _, want := range []string{
		"# Room Kit API Reference",
		"| Configurations | 1 |",
		"## Statuses",
		"### xConfiguration Video Input Connector [n] Visibility",
		"Applies to: Codec Pro, Room Kit",
		"Requires user role: ADMIN",
		"Define the visibility.\n\nSecond paragraph.",
		"| n (index) | 1..5 |  | yes |",
		"| Visibility | Always/IfSignal/Never | Always |  |",
		"- `Never`: Never shown.",
		"| Id | String (0..128) |  |  |",
		"Applies to: All products",
		"Returns: `Off/1..4094`",
		"- **warning** xCommand Bookings Put Id: default longer than 128 characters",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("expected markdown to contain %q\n%s", want, md)
		}
	}
}

func TestMarkdown_EscapesCells(t *testing.T) {
	in := sampleInput()
	in.API.Configurations[0].Parameters[1].Common().Default = "a|b"
	if md := string(Markdown(in)); !strings.Contains(md, `a\|b`) {
		t.Errorf("expected escaped pipe, got\n%s", md)
	}
}

func TestHTML_TableOfContents(t *testing.T) {
	var buf bytes.Buffer
	if err := HTML(&buf, sampleInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	doc, err := html.Parse(&buf)
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if title := findElement(doc, atom.Title); title == nil || textContent(title) != "Room Kit API Reference" {
		t.Error("expected document title")
	}
	nav := findElement(doc, atom.Nav)
	if nav == nil {
		t.Fatal("expected a table of contents")
	}

	ids := make(map[string]bool)
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.DataAtom == atom.H2 || n.DataAtom == atom.H3) {
			ids[attr(n, "id")] = true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(doc)

	links := 0
	var check func(*html.Node)
	check = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.A {
			links++
			if href := attr(n, "href"); !ids[strings.TrimPrefix(href, "#")] {
				t.Errorf("link %q has no matching heading", href)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			check(c)
		}
	}
	check(nav)
	// Configurations, Commands, Statuses, Issues and three entities.
	if links != 7 {
		t.Errorf("expected 7 links, got %d", links)
	}
	if findElement(doc, atom.Table) == nil {
		t.Error("expected tables rendered")
	}
}

func TestDOCX(t *testing.T) {
	var buf bytes.Buffer
	if err := DOCX(&buf, sampleInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d, err := docx.Parse(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("parse docx: %v", err)
	}

	var texts, headings []string
	for _, item := range d.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		var sb strings.Builder
		for _, child := range para.Children {
			if run, ok := child.(*docx.Run); ok {
				for _, rc := range run.Children {
					if txt, ok := rc.(*docx.Text); ok {
						sb.WriteString(txt.Text)
					}
				}
			}
		}
		texts = append(texts, sb.String())
		if para.Properties != nil && para.Properties.Style != nil && strings.HasPrefix(para.Properties.Style.Val, "Heading") {
			headings = append(headings, sb.String())
		}
	}

	all := strings.Join(texts, "\n")
	for _, want := range []string{"Statuses: 1", "Applies to: Codec Pro, Room Kit", "Visibility: Always/IfSignal/Never default Always", "Returns: Off/1..4094"} {
		if !strings.Contains(all, want) {
			t.Errorf("expected paragraph %q in\n%s", want, all)
		}
	}
	if len(headings) != 8 || headings[0] != "Room Kit API Reference" {
		t.Errorf("expected 8 headings starting with the title, got %v", headings)
	}
}

func TestXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := XLSX(&buf, sampleInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer f.Close()

	want := []string{"Configurations", "Commands", "Statuses", "Parameters", "Issues"}
	if got := f.GetSheetList(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("expected sheets %v, got %v", want, got)
	}

	rows, err := f.GetRows("Statuses")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[0][5] != "Returns" || rows[1][0] != "xStatus Network VLAN Voice VlanId" || rows[1][5] != "Off/1..4094" {
		t.Errorf("unexpected status rows %v", rows)
	}

	params, err := f.GetRows("Parameters")
	if err != nil {
		t.Fatal(err)
	}
	if len(params) != 4 {
		t.Fatalf("expected header and 3 parameters, got %d rows", len(params))
	}
	if params[1][2] != "n" || params[1][7] != "TRUE" {
		t.Errorf("expected positional n first, got %v", params[1])
	}

	issues, _ := f.GetRows("Issues")
	if len(issues) != 2 || issues[1][4] != "default longer than 128 characters" {
		t.Errorf("unexpected issue rows %v", issues)
	}
}

func TestRender_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, FormatJSON, sampleInput()); err != nil {
		t.Fatal(err)
	}
	var api apitree.API
	if err := json.Unmarshal(buf.Bytes(), &api); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if api.Len() != 3 {
		t.Errorf("expected 3 entities, got %d", api.Len())
	}
	if err := Render(&buf, Format("pdf"), sampleInput()); err == nil {
		t.Error("expected unknown format error")
	}
}
