package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"ttextract/internal/config"
	"ttextract/internal/events"
	"ttextract/internal/export"
	"ttextract/internal/grid"
	appLog "ttextract/internal/log"
	"ttextract/internal/model"
	"ttextract/internal/pdftab"
)

// flagConfig holds CLI flag values; non-empty values override the config
// file.
type flagConfig struct {
	configPath  string
	pdfPath     string
	pages       string
	startPage   int
	ignorePages string
	groups      string
	outDir      string
	writeCSV    bool
	writeImport bool
	writeICS    bool
	verbose     bool
}

func main() {
	flags := parseFlags()
	if flags.verbose {
		appLog.SetLevel(appLog.LevelDebug)
	}

	appLog.Info("ttextract starting", "config", flags.configPath)

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	applyOverrides(conf, flags)

	if conf.InputPDF == "" {
		appLog.Error("no input PDF", fmt.Errorf("set -pdf or input_pdf in %s", flags.configPath))
		os.Exit(2)
	}

	appLog.Info("effective config",
		"pdf", conf.InputPDF,
		"pages", conf.Pages,
		"start_page", conf.StartPage,
		"ignore_pages", fmt.Sprint(conf.IgnorePages),
		"include_groups", conf.Enrichment.IncludeGroups,
		"output_dir", conf.OutputDir,
	)

	controller := grid.NewController(pdftab.NewEngine())
	run, err := controller.ExtractAll(conf.InputPDF, conf.Pages, conf.StartPage, conf.IgnorePages)
	if err != nil {
		appLog.Error("extraction run failed", err, "pdf", conf.InputPDF)
		os.Exit(1)
	}
	if len(run.FailedPages) > 0 {
		appLog.Warn("some pages could not be extracted", "pages", fmt.Sprint(run.FailedPages))
	}
	if len(run.Grids) == 0 {
		appLog.Error("no week grids recovered", fmt.Errorf("all pages failed"), "pdf", conf.InputPDF)
		os.Exit(1)
	}

	var all []model.Event
	for _, week := range run.Grids {
		all = append(all, events.Flatten(week)...)
	}

	pipeline := events.NewPipeline(conf.Enrichment)
	enriched, found := pipeline.Run(all)

	appLog.Info("events enriched",
		"weeks", len(run.Grids),
		"events", len(enriched),
		"subjects_seen", len(found.Subjects),
		"presenters_seen", len(found.Presenters),
		"locations_seen", len(found.Locations),
	)
	appLog.Debug("found subjects", "values", strings.Join(found.Subjects, "; "))
	appLog.Debug("found presenters", "values", strings.Join(found.Presenters, "; "))
	appLog.Debug("found locations", "values", strings.Join(found.Locations, "; "))

	if err := writeOutputs(conf, flags, enriched); err != nil {
		appLog.Error("failed to write outputs", err)
		os.Exit(1)
	}

	appLog.Info("ttextract done")
}

func applyOverrides(conf *config.Config, flags flagConfig) {
	if flags.pdfPath != "" {
		conf.InputPDF = flags.pdfPath
	}
	if flags.pages != "" {
		conf.Pages = flags.pages
	}
	if flags.startPage > 0 {
		conf.StartPage = flags.startPage
	}
	if flags.ignorePages != "" {
		conf.IgnorePages = parseIntList(flags.ignorePages)
	}
	if flags.groups != "" {
		conf.Enrichment.IncludeGroups = flags.groups
	}
	if flags.outDir != "" {
		conf.OutputDir = flags.outDir
	}
	conf.Normalize()
}

func writeOutputs(conf *config.Config, flags flagConfig, enriched []model.Event) error {
	info := config.ParseTimetableFilename(conf.InputPDF)
	stem := "timetable"
	if info.Unit != "" {
		stem = info.Unit
		if info.Version != "" {
			stem += "_" + info.Version
		}
	}

	if flags.writeCSV {
		path := filepath.Join(conf.OutputDir, stem+"_events.csv")
		if err := export.WriteEventsCSVFile(path, enriched); err != nil {
			return err
		}
		appLog.Info("wrote event table", "path", path)
	}
	if flags.writeImport {
		path := filepath.Join(conf.OutputDir, stem+"_importable_calendar.csv")
		if err := export.WriteImportableCSVFile(path, enriched); err != nil {
			return err
		}
		appLog.Info("wrote importable calendar", "path", path)
	}
	if flags.writeICS {
		path := filepath.Join(conf.OutputDir, stem+".ics")
		if err := export.WriteICSFile(path, enriched, time.Local); err != nil {
			return err
		}
		appLog.Info("wrote ics calendar", "path", path)
	}
	return nil
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "ttextract.yaml", "Path to config file (created with defaults if missing)")
	flag.StringVar(&cfg.pdfPath, "pdf", "", "Timetable PDF to process (overrides config)")
	flag.StringVar(&cfg.pages, "pages", "", `Page spec: "all", "N", "N-M" or comma list (overrides config)`)
	flag.IntVar(&cfg.startPage, "start-page", 0, "Skip pages before this page number (overrides config)")
	flag.StringVar(&cfg.ignorePages, "ignore-pages", "", "Comma list of page numbers to skip (overrides config)")
	flag.StringVar(&cfg.groups, "groups", "", `Student groups to keep: "all", comma list or ranges like "1,3-5" (overrides config)`)
	flag.StringVar(&cfg.outDir, "out", "", "Output directory (overrides config)")
	flag.BoolVar(&cfg.writeCSV, "csv", true, "Write the flat event-table CSV")
	flag.BoolVar(&cfg.writeImport, "importable", true, "Write the calendar-importable CSV")
	flag.BoolVar(&cfg.writeICS, "ics", false, "Write an .ics calendar file")
	flag.BoolVar(&cfg.verbose, "v", false, "Verbose (debug) logging")

	flag.Parse()
	return cfg
}

func parseIntList(s string) []int {
	var out []int
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if n, err := strconv.Atoi(item); err == nil {
			out = append(out, n)
		}
	}
	return out
}
