package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"ttextract/internal/events"
)

// Config is the top-level run configuration.
type Config struct {
	// InputPDF is the timetable PDF to process.
	InputPDF string `yaml:"input_pdf"`

	// Pages is the page-spec string: "all", "N", "N-M" or a comma list.
	Pages string `yaml:"pages"`

	// StartPage excludes pages before it (cover pages, legends).
	StartPage int `yaml:"start_page"`

	// IgnorePages excludes specific pages regardless of the page spec.
	IgnorePages []int `yaml:"ignore_pages"`

	// OutputDir is where the CSV/ICS outputs are written.
	OutputDir string `yaml:"output_dir"`

	// Enrichment carries the metadata inference tables and rules.
	Enrichment events.PipelineConfig `yaml:"enrichment"`
}

// DefaultConfig returns an in-memory default configuration, including the
// hand-maintained indicator tables for the current cohort's timetable.
func DefaultConfig() *Config {
	return &Config{
		Pages:     "all",
		StartPage: 1,
		OutputDir: "output",
		Enrichment: events.PipelineConfig{
			DropRowIndicators: []string{
				"NON-TEACHING WEEK",
				"Public Holiday",
				"PUBLIC-HOLIDAY",
			},
			Locations: []events.IndicatorSet{
				{Label: "Path Museum", Patterns: []string{"Path Museum", "Pathology Museum", "PathMuseum"}},
				{Label: "Dissecting location", Patterns: []string{"Dissecting location"}},
				{Label: "QE2MDLIB", Patterns: []string{"Med Lib e-learning", "MDLib eLearning", "QE2MDLIB"}},
				{Label: "Ross", Patterns: []string{"Ross LT", "Ross"}},
				{Label: "FJC", Patterns: []string{"FJC LT", "FJC", "FJC Lecture Theatre", "FJ Clark", "FJ Clark LT"}},
				{Label: "McCusker", Patterns: []string{"McCusker LT"}},
			},
			Subjects: []events.IndicatorSet{
				{Label: "Aboriginal Health", Patterns: []string{"Aboriginal Health", "Aboriginal Healt"}},
				{Label: "Assignment", Patterns: []string{"Assignment"}},
				{Label: "Anatomy", Patterns: []string{"Anatomy", "ANAT"}},
				{Label: "Biochemistry", Patterns: []string{"Biochemistry", "Biochem"}},
				{Label: "Behavioural Science", Patterns: []string{"Behavioural Science", "Behav Sci"}},
				{Label: "Chemical Pathology", Patterns: []string{"Chemical Pathology", "Chem Path"}},
				{Label: "Clinical Skills", Patterns: []string{"Clinical Skills"}},
				{Label: "Clinical", Patterns: []string{"Clinical"}},
				{Label: "Genetics", Patterns: []string{"Genetics"}},
				{Label: "Immunology", Patterns: []string{"Immunology"}},
				{Label: "Pharmacology", Patterns: []string{"Pharmacology", "Pharm"}},
				{Label: "Physiology", Patterns: []string{"Physiology", "Physiol"}},
				{Label: "Population Health", Patterns: []string{"Population Health", "Pop Health", "Popn Health"}},
				{Label: "Research Skills", Patterns: []string{"Research Skills"}},
				{Label: "Self directed revision", Patterns: []string{"Self directed revision", "Self-directed revision"}},
			},
			Presenters: []events.IndicatorSet{
				{Label: "Angus Cook", Patterns: []string{"Angus Cook", "AC"}},
				{Label: "Barbara Nattabi", Patterns: []string{"Barbara Nattabi", "BN"}},
				{Label: "David Preen", Patterns: []string{"David Preen", "DP"}},
				{Label: "Fiona Pixely", Patterns: []string{"Fiona Pixely", "FP"}},
				{Label: "Helen Wilcox", Patterns: []string{"Helen Wilcox", "HW"}},
				{Label: "Jo Chua", Patterns: []string{"Jo Chua", "JC"}},
				{Label: "Julie Saunders", Patterns: []string{"Julie Saunders", "JS"}},
				{Label: "Liz Quail", Patterns: []string{"Liz Quail", "LQ"}},
				{Label: "Marcus Dabner", Patterns: []string{"Marcus Dabner", "MD"}},
				{Label: "Nicole Swarbrick", Patterns: []string{"Nicole Swarbrick", "NS"}},
				{Label: "Patricia Martinez", Patterns: []string{"Patricia Martinez", "PM"}},
				{Label: "Paul McGurgan", Patterns: []string{"Paul McGurgan", "PM"}},
				{Label: "Peter Tan", Patterns: []string{"Peter Tan", "PT"}},
				{Label: "Rob White", Patterns: []string{"Rob White", "RW"}},
				{Label: "Shao Tneh", Patterns: []string{"Shao Tneh", "ST"}},
				{Label: "Thomas Wilson", Patterns: []string{"TW", "Thomas Wilson", "Tom Wilson"}},
				{Label: "Tina Carter", Patterns: []string{"Tina Carter", "TC"}},
				{Label: "Zaza Lyons", Patterns: []string{"Zaza Lyons", "ZL"}},
			},
			SessionTypes: []events.IndicatorSet{
				{Label: "Clinical Skills", Patterns: []string{"Clinical Skills", "Clin Skills"}},
				{Label: "SGL", Patterns: []string{"SGL", "Small Group Learning"}},
				{Label: "Lab", Patterns: []string{"Lab Group", "ANHB G05", "PHSL G11"}},
				{Label: "Assessment", Patterns: []string{"Assessment", "^OSCE", "^Exam ", "IN SEMESTER TEST"}},
				{Label: "TBL", Patterns: []string{"TBL"}},
				{Label: "Workshop", Patterns: []string{"Workshop"}},
				{Label: "Deadline", Patterns: []string{"Assignment due"}},
			},
			TypeLocations: []events.IndicatorSet{
				{Label: "Lab", Patterns: []string{"Physiology Lab", "AHBL G05", "ANHB G05", "PHSL G11"}},
				{Label: "Workshop", Patterns: []string{"Med Lib e-learning"}},
				{Label: "SGL", Patterns: []string{"Pathology Museum"}},
				{Label: "Clinical Skills", Patterns: []string{"N Block"}},
				{Label: "Lecture", Patterns: []string{"FJC LT", "FJC", "FJC Lecture Theatre", "FJ Clark", "FJ Clark LT", "Ross LT", "Ross", "McCusker LT"}},
			},
			MandatorySessionTypes: []string{
				"Assessment",
				"Lab",
				"Workshop",
				"TBL",
				"SGL",
				"Clinical Skills",
			},
			MandatoryIndicators: []string{
				"RECORDED ATTENDANCE",
				"Mandatory Attendance",
			},
			NoSubjectSessionTypes: []string{
				"Assessment",
			},
			NoPresenterIndicators: []string{
				"(Path Museum)",
				"(Pathology Museum)",
				"[ANHB G05]",
				"Groups 1-10",
				"Groups 11-20",
			},
			IncludeGroups: "all",
		},
	}
}

// Normalize fills in missing/zero values with defaults so partially-filled
// configs still behave correctly.
func (c *Config) Normalize() {
	if c.Pages == "" {
		c.Pages = "all"
	}
	if c.StartPage <= 0 {
		c.StartPage = 1
	}
	if c.OutputDir == "" {
		c.OutputDir = "output"
	}
	if strings.TrimSpace(c.Enrichment.IncludeGroups) == "" {
		c.Enrichment.IncludeGroups = "all"
	}
}

// Load loads configuration from the given YAML path.
//
// If the file does not exist, a default config is written there (parent
// directory created as needed) and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the configuration to path atomically (temp file + rename,
// 0600 perms).
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".ttextract-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save delegates to the package-level Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}

// TimetableInfo is the metadata encoded in an institutional timetable
// filename, e.g. "2025 IMED3112 Timetable STUDENTS v1.pdf".
type TimetableInfo struct {
	Year    string
	Unit    string
	Version string
}

var reVersionToken = regexp.MustCompile(`^[vV]\d`)

// ParseTimetableFilename recovers year/unit/version from a timetable path.
// Fields the filename does not carry come back empty.
func ParseTimetableFilename(path string) TimetableInfo {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	parts := strings.Fields(stem)

	var info TimetableInfo
	if len(parts) > 0 {
		info.Year = parts[0]
	}
	if len(parts) > 1 {
		info.Unit = parts[1]
	}
	if len(parts) > 2 && reVersionToken.MatchString(parts[len(parts)-1]) {
		info.Version = parts[len(parts)-1]
	}
	return info
}
