package pdftab

import (
	"fmt"
	"strconv"
	"strings"
)

// ResolvePageSpec resolves a page-spec string into an ordered list of
// 1-based page numbers, clamped to the document's page count.
//
// Accepted forms: "all", "N", "N-M", and comma lists mixing the two
// (e.g. "1,4-6,9"). Whitespace around items is ignored.
func ResolvePageSpec(spec string, numPages int) ([]int, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, ErrEmptyPageSpec
	}
	if numPages < 1 {
		return nil, fmt.Errorf("pdftab: document has no pages")
	}

	if strings.EqualFold(spec, "all") {
		pages := make([]int, numPages)
		for i := range pages {
			pages[i] = i + 1
		}
		return pages, nil
	}

	var pages []int
	seen := make(map[int]bool)
	for _, item := range strings.Split(spec, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		lo, hi, err := parsePageItem(item)
		if err != nil {
			return nil, err
		}
		for p := lo; p <= hi; p++ {
			if p < 1 || p > numPages || seen[p] {
				continue
			}
			seen[p] = true
			pages = append(pages, p)
		}
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("pdftab: page spec %q selects no pages (document has %d)", spec, numPages)
	}
	return pages, nil
}

func parsePageItem(item string) (lo, hi int, err error) {
	if before, after, ok := strings.Cut(item, "-"); ok {
		start, err1 := strconv.Atoi(strings.TrimSpace(before))
		end, err2 := strconv.Atoi(strings.TrimSpace(after))
		if err1 != nil || err2 != nil || start > end {
			return 0, 0, fmt.Errorf("pdftab: bad page range %q", item)
		}
		return start, end, nil
	}
	n, err := strconv.Atoi(item)
	if err != nil {
		return 0, 0, fmt.Errorf("pdftab: bad page number %q", item)
	}
	return n, n, nil
}
