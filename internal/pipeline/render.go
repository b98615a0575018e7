package pipeline

import (
	"encoding/csv"
	"fmt"
	"html/template"
	"os"
	"time"

	wkhtmltopdf "github.com/SebastiaanKlippert/go-wkhtmltopdf"

	"go-track-report/pkg/utils"
)

// ------------------- Report Renderer -------------------

// PDFConverter turns a staged HTML file into a PDF. Implemented by
// WKHTMLConverter; tests substitute fakes so the wkhtmltopdf binary is not
// required.
type PDFConverter interface {
	Convert(htmlPath, pdfPath string) error
}

// WKHTMLConverter delegates conversion to the wkhtmltopdf renderer.
type WKHTMLConverter struct{}

// Convert renders htmlPath to pdfPath. Page layout is whatever wkhtmltopdf
// produces; the template's print CSS carries the only pagination hint.
func (WKHTMLConverter) Convert(htmlPath, pdfPath string) error {
	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return fmt.Errorf("failed to initialize PDF renderer: %w", err)
	}

	page := wkhtmltopdf.NewPage(htmlPath)
	page.EnableLocalFileAccess.Set(true)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return fmt.Errorf("PDF conversion failed: %w", err)
	}
	if err := pdfg.WriteFile(pdfPath); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

// Renderer builds the report HTML and converts it to PDF.
type Renderer struct {
	staging   *utils.StagingManager
	converter PDFConverter
}

// NewRenderer creates a renderer staging files under sm.
func NewRenderer(sm *utils.StagingManager, conv PDFConverter) *Renderer {
	return &Renderer{staging: sm, converter: conv}
}

type reportCell struct {
	Text string
	L    bool // all but the rightmost column carry the bordered "l" class
}

type reportRowView struct {
	Cells []reportCell
	Even  bool
}

type reportPage struct {
	Heading   string
	ImagePath string
	Header    []reportCell
	Rows      []reportRowView
}

var reportTemplate = template.Must(template.New("report").Parse(`<html><head><style>
html, body {
  padding: 0;
  margin: 35px 18px;
  background-color: #FFFFFF;
  font-family: Calibri;
}
h1 { font-weight: bold; font-size: 22pt; }
div#data {
  text-align: center;
  width: 100%;
  margin: 0 auto;
  border: 1px solid #777777;
  padding: 0;
}
@media print {
  #tdata {
    page-break-before: always;
  }
}
table#tdata {
  width: 98%;
  margin: 0;
  border-collapse: collapse;
}
tr#head {
  background-color: #EFEFEF;
  border-bottom: 1px solid #777777;
}
tr.even {
  background-color: #F9F9F9;
}
th.l, td.l {
  border-right: 1px solid #AAAAAA;
}
th {
  text-align: center;
  font-weight: bold;
  font-size: 8pt;
  padding: 4px;
}
td { text-align: left; font-size: 7pt; padding: 4px; }
</style></head>
<body>
<h1>{{.Heading}}</h1>
<div style="text-align: center; width: 100%;">
<img src="{{.ImagePath}}" width="620" height="620" />
</div><br />
<div id="data"><table id="tdata" style="width: 100%;">
<tr id="head">{{range .Header}}{{if .L}}<th class="l">{{.Text}}</th>{{else}}<th>{{.Text}}</th>{{end}}{{end}}</tr>
{{range .Rows}}<tr{{if .Even}} class="even"{{end}}>{{range .Cells}}{{if .L}}<td class="l">{{.Text}}</td>{{else}}<td>{{.Text}}</td>{{end}}{{end}}</tr>
{{end}}</table></div>
</body></html>
`))

// Render builds the HTML report for date from the CSV and map image, then
// converts it to PDF. The intermediate HTML and the map image are removed
// once the PDF exists; the CSV stays, the distributor still needs it.
func (r *Renderer) Render(date time.Time, csvPath, imagePath string) (string, error) {
	page, err := buildReportPage(date, csvPath, imagePath)
	if err != nil {
		return "", err
	}

	htmlPath := r.staging.TempPath("html")
	pdfPath := r.staging.TempPath("pdf")

	f, err := os.Create(htmlPath)
	if err != nil {
		return "", fmt.Errorf("failed to create HTML file: %w", err)
	}
	if err := reportTemplate.Execute(f, page); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to render HTML: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write HTML file: %w", err)
	}

	if err := r.converter.Convert(htmlPath, pdfPath); err != nil {
		return "", err
	}

	// Clean up intermediates now that the PDF exists.
	if err := os.Remove(imagePath); err != nil {
		return "", fmt.Errorf("failed to remove map image: %w", err)
	}
	if err := os.Remove(htmlPath); err != nil {
		return "", fmt.Errorf("failed to remove HTML file: %w", err)
	}

	return pdfPath, nil
}

// buildReportPage reads the CSV back row by row: the first row becomes the
// header cells, later rows the body, with every other body row (the
// second, fourth, ...) marked even for zebra striping.
func buildReportPage(date time.Time, csvPath, imagePath string) (*reportPage, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV for rendering: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV for rendering: %w", err)
	}

	page := &reportPage{
		Heading: fmt.Sprintf("%s %s, %s, %s",
			date.Format("Jan"), date.Format("02"), date.Format("Monday"), date.Format("2006")),
		ImagePath: imagePath,
	}

	for count, record := range records {
		cells := make([]reportCell, len(record))
		for i, text := range record {
			cells[i] = reportCell{Text: text, L: i < len(record)-1}
		}
		if count == 0 {
			page.Header = cells
			continue
		}
		page.Rows = append(page.Rows, reportRowView{
			Cells: cells,
			Even:  count%2 == 0,
		})
	}

	return page, nil
}
