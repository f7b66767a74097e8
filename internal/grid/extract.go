package grid

import (
	"fmt"
	"sort"
	"strconv"

	appLog "ttextract/internal/log"
	"ttextract/internal/model"
	"ttextract/internal/pdftab"
)

// DefaultSensitivities is the fixed candidate list tried per page, in order.
// It is not an escalating search; 60 simply recovers most pages, with the
// other values catching the stragglers.
var DefaultSensitivities = []int{60, 40, 80, 100}

// Extractor is the table-extraction collaborator consumed by the controller.
// *pdftab.Engine satisfies it; tests provide stubs.
type Extractor interface {
	ExtractTables(pdfPath string, req pdftab.Request) ([]model.RawGrid, error)
	ResolvePages(pdfPath string, spec string) ([]int, error)
}

// Attempt identifies one (page, sensitivity) extraction attempt.
type Attempt struct {
	Page        int
	Sensitivity int
}

// RunResult is the outcome of extracting a whole document.
type RunResult struct {
	// Grids holds the successfully normalized week grids, ascending by week.
	Grids []model.WeekGrid
	// Failed maps every failed attempt to the raw grid it produced (absent
	// when the engine returned no calendar table at all).
	Failed map[Attempt]model.RawGrid
	// FailedPages lists pages abandoned after exhausting all sensitivities
	// or failing normalization.
	FailedPages []int
}

// Controller drives the extraction engine across a page range, retrying each
// page at a sequence of sensitivities until the validator accepts a result.
type Controller struct {
	extractor     Extractor
	sensitivities []int
}

// NewController returns a controller using DefaultSensitivities.
func NewController(ex Extractor) *Controller {
	return &Controller{extractor: ex, sensitivities: DefaultSensitivities}
}

// ExtractAll processes every page selected by the page spec, excluding pages
// below startPage or listed in ignorePages. Failure of one page never aborts
// the run; failed attempts are reported through the RunResult.
func (c *Controller) ExtractAll(pdfPath string, pages string, startPage int, ignorePages []int) (RunResult, error) {
	result := RunResult{Failed: make(map[Attempt]model.RawGrid)}

	pageNums, err := c.extractor.ResolvePages(pdfPath, pages)
	if err != nil {
		return result, fmt.Errorf("grid: resolve pages: %w", err)
	}

	ignored := make(map[int]bool, len(ignorePages))
	for _, p := range ignorePages {
		ignored[p] = true
	}

	selected := pageNums[:0]
	for _, p := range pageNums {
		if p < startPage || ignored[p] {
			continue
		}
		selected = append(selected, p)
	}
	appLog.Info("grid: processing pages", "pdf", pdfPath, "pages", fmt.Sprint(selected))

	for _, page := range selected {
		week, ok := c.extractPage(pdfPath, page, &result)
		if !ok {
			result.FailedPages = append(result.FailedPages, page)
			continue
		}
		result.Grids = append(result.Grids, week)
	}

	sortGridsByWeek(result.Grids)
	return result, nil
}

// extractPage tries each sensitivity for one page until the validator
// accepts a grid, then normalizes it. A normalization failure abandons the
// page without trying the remaining sensitivities.
func (c *Controller) extractPage(pdfPath string, page int, result *RunResult) (model.WeekGrid, bool) {
	for _, sensitivity := range c.sensitivities {
		appLog.Info("grid: extracting page", "page", page, "sensitivity", sensitivity)

		raw, err := c.calendarGrid(pdfPath, page, sensitivity)
		if err != nil {
			appLog.Warn("grid: extraction attempt failed",
				"page", page, "sensitivity", sensitivity, "reason", err)
			continue
		}

		verdict := Validate(raw)
		if !verdict.Valid {
			appLog.Warn("grid: no valid calendar table",
				"page", page, "sensitivity", sensitivity, "reason", verdict.Reason)
			result.Failed[Attempt{Page: page, Sensitivity: sensitivity}] = raw
			continue
		}

		week, err := Normalize(raw, verdict.HeaderRow)
		if err != nil {
			appLog.Error("grid: normalization failed, abandoning page", err,
				"page", page, "sensitivity", sensitivity)
			result.Failed[Attempt{Page: page, Sensitivity: sensitivity}] = raw
			return model.WeekGrid{}, false
		}

		appLog.Info("grid: page extracted", "page", page, "sensitivity", sensitivity, "week", week.Week)
		return week, true
	}

	appLog.Warn("grid: no sensitivity produced a valid calendar table", "page", page)
	return model.WeekGrid{}, false
}

// calendarGrid extracts the page's tables and picks the first that is not
// the "Key" legend.
func (c *Controller) calendarGrid(pdfPath string, page, sensitivity int) (model.RawGrid, error) {
	req := pdftab.Request{
		Flavor:      pdftab.FlavorLattice,
		Sensitivity: sensitivity,
		CopyText:    []string{"v", "h"},
		Pages:       strconv.Itoa(page),
	}
	grids, err := c.extractor.ExtractTables(pdfPath, req)
	if err != nil {
		return model.RawGrid{}, err
	}
	for _, g := range grids {
		if IsKeyTable(g) {
			appLog.Debug("grid: ignoring Key legend table", "page", page)
			continue
		}
		return g, nil
	}
	return model.RawGrid{}, fmt.Errorf("no calendar table found on page %d", page)
}

func sortGridsByWeek(grids []model.WeekGrid) {
	sort.SliceStable(grids, func(i, j int) bool { return grids[i].Week < grids[j].Week })
}
