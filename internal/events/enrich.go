package events

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"ttextract/internal/model"
)

// PipelineConfig carries the lookup tables and rules the enrichment passes
// consume. All indicator tables are ordered lists because matching
// precedence is part of their meaning.
type PipelineConfig struct {
	// DropRowIndicators are case-insensitive substrings marking
	// administrative rows (non-teaching weeks, public holidays).
	DropRowIndicators []string `yaml:"drop_row_indicators"`

	// Locations maps canonical locations to their surface forms.
	Locations []IndicatorSet `yaml:"locations"`
	// Subjects maps canonical subjects to names and abbreviations.
	Subjects []IndicatorSet `yaml:"subjects"`
	// Presenters maps full presenter names to aliases and initials.
	Presenters []IndicatorSet `yaml:"presenters"`
	// SessionTypes maps session types to detection keywords; order is
	// significant ("Clinical Skills" before "Clinical").
	SessionTypes []IndicatorSet `yaml:"session_types"`
	// TypeLocations maps session types to the locations that imply them.
	TypeLocations []IndicatorSet `yaml:"type_locations"`

	// MandatorySessionTypes force the mandatory flag by type.
	MandatorySessionTypes []string `yaml:"mandatory_session_types"`
	// MandatoryIndicators force the mandatory flag by description content.
	MandatoryIndicators []string `yaml:"mandatory_indicators"`
	// NoSubjectSessionTypes are types whose events carry no subject.
	NoSubjectSessionTypes []string `yaml:"no_subject_session_types"`
	// NoPresenterIndicators mark venue/group sessions run by various staff.
	NoPresenterIndicators []string `yaml:"no_presenter_indicators"`

	// IncludeGroups selects which student groups to keep: "all", a comma
	// list, or mixed ranges ("1,3-5").
	IncludeGroups string `yaml:"include_groups"`
}

// FoundValues reports every value the inference passes resolved, for
// eyeballing new presenters/locations the tables don't know yet.
type FoundValues struct {
	Subjects   []string
	Presenters []string
	Locations  []string
}

// Pipeline applies the ordered enrichment passes to a flat event list.
type Pipeline struct {
	cfg PipelineConfig

	foundSubjects   map[string]bool
	foundPresenters map[string]bool
	foundLocations  map[string]bool
}

// NewPipeline creates an enrichment pipeline with the given tables.
func NewPipeline(cfg PipelineConfig) *Pipeline {
	if strings.TrimSpace(cfg.IncludeGroups) == "" {
		cfg.IncludeGroups = "all"
	}
	return &Pipeline{
		cfg:             cfg,
		foundSubjects:   make(map[string]bool),
		foundPresenters: make(map[string]bool),
		foundLocations:  make(map[string]bool),
	}
}

// Run applies every pass in its fixed order. Later passes depend on fields
// set by earlier ones; all passes tolerate blank fields. Running the
// pipeline on its own output yields the same result.
func (p *Pipeline) Run(events []model.Event) ([]model.Event, FoundValues) {
	events = p.dropAdministrativeRows(events)
	events = dedupe(events)
	for i := range events {
		p.fillLocation(&events[i])
	}
	for i := range events {
		p.setSessionType(&events[i])
	}
	for i := range events {
		p.setSubject(&events[i])
	}
	for i := range events {
		p.setPresenter(&events[i])
	}
	for i := range events {
		p.extractGroups(&events[i])
	}
	events = p.filterGroups(events)
	for i := range events {
		setTopic(&events[i])
	}
	for i := range events {
		p.setMandatory(&events[i])
	}
	for i := range events {
		setDuration(&events[i])
	}
	return events, p.found()
}

func (p *Pipeline) found() FoundValues {
	return FoundValues{
		Subjects:   sortedKeys(p.foundSubjects),
		Presenters: sortedKeys(p.foundPresenters),
		Locations:  sortedKeys(p.foundLocations),
	}
}

// Pass 1: remove non-teaching weeks, public holidays and similar
// administrative rows.
func (p *Pipeline) dropAdministrativeRows(events []model.Event) []model.Event {
	kept := events[:0]
	for _, ev := range events {
		if containsAnyFold(ev.Description, p.cfg.DropRowIndicators) {
			continue
		}
		kept = append(kept, ev)
	}
	return kept
}

// Pass 2: remove exact duplicates, which appear when the extractor splits a
// day column and copy-text repeats the cell.
func dedupe(events []model.Event) []model.Event {
	seen := make(map[string]bool, len(events))
	kept := events[:0]
	for _, ev := range events {
		key := fmt.Sprintf("%d|%s|%s|%s|%s|%s|%s|%s|%s",
			ev.Week, ev.Day, ev.Date, ev.Description,
			ev.StartTime, ev.EndTime, ev.Location, ev.SessionType, ev.Subject)
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, ev)
	}
	return kept
}

var reBracketed = regexp.MustCompile(`\[([^\]]+)\]`)

// Pass 3: fill a blank location from the location-indicator table, falling
// back to the first [...]-bracketed substring as a literal location.
func (p *Pipeline) fillLocation(ev *model.Event) {
	if strings.TrimSpace(ev.Location) != "" {
		return
	}
	location, ok := standardizeFromIndicator(p.cfg.Locations, ev.Description)
	if !ok {
		if m := reBracketed.FindStringSubmatch(ev.Description); m != nil {
			location = strings.TrimSpace(m[1])
		}
	}
	ev.Location = location
	if location != "" {
		p.foundLocations[location] = true
	}
}

// Pass 4: infer the session type from the description keywords, else from
// the resolved location.
func (p *Pipeline) setSessionType(ev *model.Event) {
	if sessionType, ok := findIndicator(p.cfg.SessionTypes, ev.Description); ok {
		ev.SessionType = sessionType
		return
	}
	if strings.TrimSpace(ev.Location) == "" {
		return
	}
	if sessionType, ok := standardizeFromIndicator(p.cfg.TypeLocations, ev.Location); ok {
		ev.SessionType = sessionType
	}
}

// Pass 5: standardize or infer the subject; certain session types (bare
// assessments) never carry one.
func (p *Pipeline) setSubject(ev *model.Event) {
	if containsFold(p.cfg.NoSubjectSessionTypes, ev.SessionType) {
		ev.Subject = ""
		return
	}

	subject := strings.TrimSpace(ev.Subject)
	if subject != "" {
		if canonical, ok := standardizeFromIndicator(p.cfg.Subjects, subject); ok {
			subject = canonical
		}
	} else if label, ok := findIndicator(p.cfg.Subjects, ev.Description); ok {
		subject = label
	} else if fields := strings.Fields(ev.Description); len(fields) > 0 {
		// Last resort: the first word of the description.
		subject = fields[0]
	}

	ev.Subject = subject
	if subject != "" {
		p.foundSubjects[subject] = true
	}
}

var reParenthesized = regexp.MustCompile(`\(([^)]+)\)`)

// Pass 6: extract the presenter from the first parenthesized token (else the
// first bracketed one) and standardize it through the alias table. Venue and
// group markers in the no-presenter rules mean multiple staff run the
// session.
func (p *Pipeline) setPresenter(ev *model.Event) {
	if containsAny(ev.Description, p.cfg.NoPresenterIndicators) {
		ev.Presenter = "Various"
		return
	}

	var extracted string
	if m := reParenthesized.FindStringSubmatch(ev.Description); m != nil {
		extracted = strings.TrimSpace(m[1])
	} else if m := reBracketed.FindStringSubmatch(ev.Description); m != nil {
		extracted = strings.TrimSpace(m[1])
	}
	if extracted != "" {
		p.foundPresenters[extracted] = true
	}

	if fullName, ok := standardizeFromIndicator(p.cfg.Presenters, extracted); ok {
		ev.Presenter = fullName
		return
	}
	ev.Presenter = extracted
}

var reGroups = regexp.MustCompile(`(?i)\bGroups?\s*(\d+(\s*-\s*\d+)?)\b`)

// Pass 7: record the group-range token for non-lecture sessions and expand
// it into individual group identifiers.
func (p *Pipeline) extractGroups(ev *model.Event) {
	ev.Groups = ""
	ev.GroupsList = nil
	if strings.EqualFold(ev.SessionType, "Lecture") {
		return
	}
	m := reGroups.FindStringSubmatch(ev.Description)
	if m == nil {
		return
	}
	token := strings.ReplaceAll(m[1], " ", "")
	ev.Groups = token
	ev.GroupsList = expandGroupRange(token)
}

// expandGroupRange expands "3-5" to ["3","4","5"]; a single number expands
// to itself.
func expandGroupRange(token string) []string {
	if token == "" {
		return nil
	}
	before, after, ok := strings.Cut(token, "-")
	if !ok {
		return []string{token}
	}
	start, err1 := strconv.Atoi(before)
	end, err2 := strconv.Atoi(after)
	if err1 != nil || err2 != nil || start > end {
		return []string{token}
	}
	groups := make([]string, 0, end-start+1)
	for g := start; g <= end; g++ {
		groups = append(groups, strconv.Itoa(g))
	}
	return groups
}

// Pass 8: drop events restricted to groups outside the include set. Events
// with no group restriction are always kept.
func (p *Pipeline) filterGroups(events []model.Event) []model.Event {
	selector := strings.TrimSpace(p.cfg.IncludeGroups)
	if selector == "" || strings.EqualFold(selector, "all") {
		return events
	}

	include := make(map[string]bool)
	for _, item := range strings.Split(selector, ",") {
		for _, g := range expandGroupRange(strings.TrimSpace(item)) {
			include[g] = true
		}
	}

	kept := events[:0]
	for _, ev := range events {
		if len(ev.GroupsList) == 0 || anyInSet(ev.GroupsList, include) {
			kept = append(kept, ev)
		}
	}
	return kept
}

var (
	reTopicHead    = regexp.MustCompile(`^[^(\[]*`)
	reLeadingPunct = regexp.MustCompile(`^[-:\s]+`)
)

// Pass 9: the topic is the description truncated at the first "(" or "[",
// with the leading subject name and any leading dash/colon stripped.
func setTopic(ev *model.Event) {
	topic := strings.TrimSpace(reTopicHead.FindString(ev.Description))
	if ev.Subject != "" && strings.HasPrefix(strings.ToLower(topic), strings.ToLower(ev.Subject)) {
		topic = strings.TrimSpace(topic[len(ev.Subject):])
	}
	ev.Topic = reLeadingPunct.ReplaceAllString(topic, "")
}

// Pass 10: mandatory if the session type is in the mandatory set or the
// description carries a mandatory-attendance marker.
func (p *Pipeline) setMandatory(ev *model.Event) {
	ev.IsMandatory = containsString(p.cfg.MandatorySessionTypes, ev.SessionType) ||
		containsAny(ev.Description, p.cfg.MandatoryIndicators)
}

// Pass 11: event length in hours. Untimed online events default to one
// hour; anything else without a full time span has no length.
func setDuration(ev *model.Event) {
	ev.EventLength = nil
	if ev.StartTime == "" && ev.EndTime == "" {
		if strings.EqualFold(ev.Location, "Online") {
			hours := 1.0
			ev.EventLength = &hours
		}
		return
	}

	start, err1 := time.Parse("15:04", ev.StartTime)
	end, err2 := time.Parse("15:04", ev.EndTime)
	if err1 != nil || err2 != nil {
		return
	}
	hours := end.Sub(start).Hours()
	ev.EventLength = &hours
}

func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func containsAnyFold(s string, substrings []string) bool {
	lower := strings.ToLower(s)
	for _, sub := range substrings {
		if sub != "" && strings.Contains(lower, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}

func containsString(items []string, v string) bool {
	for _, item := range items {
		if item == v {
			return true
		}
	}
	return false
}

func containsFold(items []string, v string) bool {
	for _, item := range items {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}

func anyInSet(items []string, set map[string]bool) bool {
	for _, item := range items {
		if set[item] {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
