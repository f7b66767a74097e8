// Package pdftab wraps the PDF table-extraction engine behind the interface
// the grid pipeline consumes: give it a path, a page and a sensitivity, get
// back raw cell grids. The current engine is built on unipdf's geometric
// table detector.
package pdftab

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/unidoc/unipdf/v3/extractor"
	pdf "github.com/unidoc/unipdf/v3/model"
	"github.com/unidoc/unipdf/v3/pdfutil"
	"golang.org/x/text/unicode/norm"

	appLog "ttextract/internal/log"
	"ttextract/internal/model"
)

// FlavorLattice selects ruled-line table extraction. It is the only flavor
// the engine supports; the institutional timetables are fully ruled.
const FlavorLattice = "lattice"

// Request describes one extraction call.
type Request struct {
	// Flavor is the extraction mode. Must be FlavorLattice.
	Flavor string
	// Sensitivity is the line-detection strictness parameter. Higher values
	// are stricter about what counts as a table.
	Sensitivity int
	// CopyText lists the axes ("v", "h") along which single-cell holes
	// inside a spanning cell are repaired from their neighbors.
	CopyText []string
	// Pages is a page-spec string: "all", "N", "N-M" or a comma list.
	Pages string
}

// Engine extracts raw cell grids from PDF pages.
type Engine struct{}

// NewEngine returns a table-extraction engine.
func NewEngine() *Engine {
	return &Engine{}
}

// ResolvePages resolves a page-spec string against the given PDF into an
// ordered list of 1-based page numbers.
func (e *Engine) ResolvePages(pdfPath string, spec string) ([]int, error) {
	f, err := os.Open(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("pdftab: open %q: %w", pdfPath, err)
	}
	defer f.Close()

	reader, err := pdf.NewPdfReaderLazy(f)
	if err != nil {
		return nil, fmt.Errorf("pdftab: read %q: %w", pdfPath, err)
	}
	numPages, err := reader.GetNumPages()
	if err != nil {
		return nil, fmt.Errorf("pdftab: page count of %q: %w", pdfPath, err)
	}

	return ResolvePageSpec(spec, numPages)
}

// ExtractTables extracts every table on the requested pages. One RawGrid is
// returned per detected table, in page order then detection order.
func (e *Engine) ExtractTables(pdfPath string, req Request) ([]model.RawGrid, error) {
	if req.Flavor != FlavorLattice {
		return nil, fmt.Errorf("pdftab: unsupported flavor %q", req.Flavor)
	}

	f, err := os.Open(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("pdftab: open %q: %w", pdfPath, err)
	}
	defer f.Close()

	reader, err := pdf.NewPdfReaderLazy(f)
	if err != nil {
		return nil, fmt.Errorf("pdftab: read %q: %w", pdfPath, err)
	}
	numPages, err := reader.GetNumPages()
	if err != nil {
		return nil, fmt.Errorf("pdftab: page count of %q: %w", pdfPath, err)
	}

	pages, err := ResolvePageSpec(req.Pages, numPages)
	if err != nil {
		return nil, err
	}

	minRows, minCols := shapeThresholds(req.Sensitivity)

	var grids []model.RawGrid
	for _, pageNum := range pages {
		tables, err := extractPageTables(reader, pageNum)
		if err != nil {
			return nil, fmt.Errorf("pdftab: page %d of %q: %w", pageNum, pdfPath, err)
		}
		for _, cells := range tables {
			if len(cells) < minRows || len(cells) > 0 && len(cells[0]) < minCols {
				appLog.Debug("pdftab: dropped table below shape threshold",
					"page", pageNum, "rows", len(cells), "sensitivity", req.Sensitivity)
				continue
			}
			for _, axis := range req.CopyText {
				cells = copyText(cells, axis)
			}
			grids = append(grids, model.RawGrid{
				Page:        pageNum,
				Sensitivity: req.Sensitivity,
				Cells:       cells,
			})
		}
	}
	return grids, nil
}

// extractPageTables extracts the tables of one (1-based) page as cell
// matrices.
func extractPageTables(reader *pdf.PdfReader, pageNum int) ([][][]string, error) {
	page, err := reader.GetPage(pageNum)
	if err != nil {
		return nil, err
	}
	if err := pdfutil.NormalizePage(page); err != nil {
		return nil, err
	}

	ex, err := extractor.New(page)
	if err != nil {
		return nil, err
	}
	pageText, _, _, err := ex.ExtractPageText()
	if err != nil {
		return nil, err
	}

	tables := pageText.Tables()
	out := make([][][]string, 0, len(tables))
	for _, table := range tables {
		out = append(out, asCellMatrix(table))
	}
	return out, nil
}

// asCellMatrix converts an extractor table into a rectangular string matrix
// with normalized cell text.
func asCellMatrix(table extractor.TextTable) [][]string {
	cells := make([][]string, table.H)
	for y, row := range table.Cells {
		cells[y] = make([]string, table.W)
		for x, cell := range row {
			cells[y][x] = normalizeCell(cell.Text)
		}
	}
	return cells
}

// copyText repairs split spanning cells along the given axis ("v": columns,
// "h": rows). The geometric detector exposes no span information, so the only
// hole it is safe to refill is a single empty cell whose two neighbors carry
// identical non-empty text: that is a spanning cell the detector punched a
// hole into. Longer empty runs and gaps bounded by two different values are
// genuinely free slots and must stay empty, or a free period would inherit
// the preceding event and stretch its time span over the gap.
func copyText(cells [][]string, axis string) [][]string {
	switch axis {
	case "v":
		for y := 1; y < len(cells)-1; y++ {
			for x := range cells[y] {
				if cells[y][x] != "" || x >= len(cells[y-1]) || x >= len(cells[y+1]) {
					continue
				}
				if above := cells[y-1][x]; above != "" && above == cells[y+1][x] {
					cells[y][x] = above
				}
			}
		}
	case "h":
		for y := range cells {
			row := cells[y]
			for x := 1; x < len(row)-1; x++ {
				if row[x] == "" && row[x-1] != "" && row[x-1] == row[x+1] {
					row[x] = row[x-1]
				}
			}
		}
	}
	return cells
}

// shapeThresholds maps the sensitivity knob onto minimum table dimensions.
// The geometric detector has no ruled-line scale parameter, so strictness is
// approximated by rejecting small fragments at higher sensitivities.
func shapeThresholds(sensitivity int) (minRows, minCols int) {
	switch {
	case sensitivity >= 80:
		return 3, 3
	case sensitivity >= 50:
		return 2, 2
	default:
		return 1, 1
	}
}

var reSpaceRun = regexp.MustCompile(`[ \t]+`)

// normalizeCell NFKC-normalizes cell text and tidies whitespace. Newlines are
// preserved: downstream description collapsing is the flattener's job, and
// multi-line cells are meaningful until then.
func normalizeCell(text string) string {
	text = norm.NFKC.String(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = reSpaceRun.ReplaceAllString(text, " ")
	return strings.Trim(text, " \t\n\v")
}

// ErrEmptyPageSpec is returned for a blank page-spec string.
var ErrEmptyPageSpec = errors.New("pdftab: empty page spec")
