// a2po converts Android string resources to gettext catalogs and back.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/minios-linux/a2po/android"
	"github.com/minios-linux/a2po/config"
	"github.com/minios-linux/a2po/convert"
	"github.com/minios-linux/a2po/i18n"
	"github.com/minios-linux/a2po/merge"
	"github.com/minios-linux/a2po/plurals"
	"github.com/minios-linux/a2po/pofile"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

func logInfo(format string, args ...any) {
	if global.quiet {
		return
	}
	fmt.Fprintf(os.Stderr, colorBlue+"[INFO]"+colorReset+" "+format+"\n", args...)
}

func logVerbose(format string, args ...any) {
	if !global.verbose || global.quiet {
		return
	}
	fmt.Fprintf(os.Stderr, "       "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	if global.quiet {
		return
	}
	fmt.Fprintf(os.Stderr, colorGreen+"[OK]"+colorReset+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorYellow+"[WARN]"+colorReset+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"[ERROR]"+colorReset+" "+format+"\n", args...)
}

// warnSink routes conversion warnings to the log, prefixed with the file
// they concern.
func warnSink(file string) android.WarnFunc {
	return func(msg string, sev android.Severity) {
		if sev == android.SeverityError {
			logError("%s: %s", file, msg)
			return
		}
		logWarning("%s: %s", file, msg)
	}
}

// ---------------------------------------------------------------------------
// Global flags
// ---------------------------------------------------------------------------

type globalOptions struct {
	root       string
	configFile string
	android    string
	gettext    string
	verbose    bool
	quiet      bool
}

var global globalOptions

// globalFlags are shared by every command.
func globalFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("global", pflag.ContinueOnError)
	fs.StringVar(&global.root, "root", "", "Project root directory (default: search upward for "+config.A2poFileName+" or "+config.ManifestFileName+")")
	fs.StringVarP(&global.configFile, "config", "c", "", "Configuration file (default: <root>/"+config.A2poFileName+")")
	fs.StringVar(&global.android, "android", "", "Android resource directory (default: <root>/res)")
	fs.StringVar(&global.gettext, "gettext", "", "Directory containing the .po files (default: <root>/locale)")
	fs.BoolVarP(&global.verbose, "verbose", "v", false, "Print details for every file")
	fs.BoolVarP(&global.quiet, "quiet", "q", false, "Only print warnings and errors")
	return fs
}

// loadProject resolves the project from the global flags.
func loadProject() (*config.Project, error) {
	root, cfgPath := global.root, global.configFile
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		found, cfg, err := config.FindProject(wd)
		switch {
		case err == nil:
			root = found
			if cfgPath == "" {
				cfgPath = cfg
			}
		case errors.Is(err, config.ErrNoProject) && (cfgPath != "" || global.android != ""):
			root = wd
		default:
			return nil, err
		}
	}

	var af *config.A2poFile
	var err error
	if cfgPath != "" {
		af, err = config.ReadA2poFile(cfgPath)
	} else if af, err = config.LoadA2poFile(root); af != nil {
		cfgPath = filepath.Join(root, config.A2poFileName)
	}
	if err != nil {
		return nil, err
	}
	if af == nil {
		af = config.DefaultA2poFile()
	}
	envOverrides, err := config.LoadEnv()
	if err != nil {
		return nil, err
	}
	envOverrides.Apply(af)

	proj, err := config.Detect(root, af)
	if err != nil {
		return nil, err
	}
	proj.ConfigFile = cfgPath
	if global.android != "" {
		if proj.ResDir, err = filepath.Abs(global.android); err != nil {
			return nil, err
		}
	}
	if global.gettext != "" {
		if proj.GettextDir, err = filepath.Abs(global.gettext); err != nil {
			return nil, err
		}
	}

	if info, err := os.Stat(proj.ResDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf(i18n.T("Android resource directory %s does not exist"), proj.ResDir)
	}
	return proj, nil
}

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "a2po",
		Short: i18n.T("Convert Android string resources to gettext catalogs and back"),
		Long: i18n.T(`a2po converts Android strings.xml resources to gettext .pot/.po catalogs
and back, so translators can work with gettext tools while the app keeps
using its XML resources.

Commands:
  init        Create .po files for new languages
  export      Update the template and the .po files from the XML resources
  import      Write the translated XML resources from the .po files
  status      Show project paths and translation statistics

Project settings are read from .a2po.yaml in the project root.`),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().AddFlagSet(globalFlags())

	root.AddCommand(
		newInitCmd(),
		newExportCmd(),
		newImportCmd(),
		newStatusCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	i18n.Init("")
	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// version (display version information)
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: i18n.T("Show version information"),
		Long:  i18n.T("Display version, commit hash, and build date."),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("a2po version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}

	return cmd
}

// ---------------------------------------------------------------------------
// status (read-only: project info + translation stats)
// ---------------------------------------------------------------------------

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: i18n.T("Show project paths and translation statistics"),
		Long: i18n.T(`Show the resolved project paths and per-language translation progress.
Does not modify any files.`),
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := loadProject()
			if err != nil {
				return err
			}
			runStatus(proj)
			return nil
		},
	}

	return cmd
}

func runStatus(proj *config.Project) {
	fmt.Fprintf(os.Stderr, "\n%s%s%s\n", colorBlue, i18n.T("Project"), colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))

	fmt.Fprintf(os.Stderr, "  Name:       %s\n", proj.Name)
	fmt.Fprintf(os.Stderr, "  Version:    %s\n", proj.Version)
	fmt.Fprintf(os.Stderr, "  Root:       %s\n", proj.Root)
	if proj.ConfigFile != "" {
		fmt.Fprintf(os.Stderr, "  Config:     %s\n", proj.ConfigFile)
	}
	fmt.Fprintf(os.Stderr, "  Resources:  %s\n", proj.ResDir)
	fmt.Fprintf(os.Stderr, "  Gettext:    %s\n", proj.GettextDir)
	fmt.Fprintf(os.Stderr, "  Groups:     %s\n", strings.Join(proj.Groups, ", "))

	langs := proj.ResolveLanguages()
	if len(langs) > 0 {
		fmt.Fprintf(os.Stderr, "  Languages:  %s\n", strings.Join(langs, ", "))
	} else {
		fmt.Fprintf(os.Stderr, "  Languages:  %s\n", i18n.T("none detected"))
	}
	fmt.Fprintln(os.Stderr)

	for _, group := range proj.Groups {
		showStatsTable(proj, group, langs)
	}

	if orphans := orphanCatalogs(proj, langs); len(orphans) > 0 {
		logWarning(i18n.T("Catalogs without a values directory: %s (run 'a2po init %s')"),
			strings.Join(orphans, ", "), strings.Join(orphans, " "))
	}
}

func showStatsTable(proj *config.Project, group string, langs []string) {
	potPath := proj.TemplatePath(group)
	potTotal := 0
	if pot, err := parseCatalog(potPath); err == nil {
		potTotal = len(pot.Active())
	} else {
		logInfo(i18n.T("No template %s. Run 'a2po export' to create it."), potPath)
		return
	}

	title := i18n.T("Translation Statistics")
	if proj.MultiGroup() {
		title += " (" + group + ")"
	}
	fmt.Fprintf(os.Stderr, "%s%s%s\n", colorBlue, title, colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
	fmt.Fprintf(os.Stderr, "\n%-10s %-12s %-10s %-10s %-8s\n", "Lang", "Translated", "Fuzzy", "Untrans.", "Percent")
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 52))

	for _, lang := range langs {
		catalog, err := parseCatalog(proj.POPath(lang, group))
		if err != nil {
			fmt.Fprintf(os.Stderr, "%-10s %-12s %-10s %-10s %-8s\n", lang, "missing", "-", "-", "-")
			continue
		}

		_, translated, fuzzy, untranslated := catalog.Stats()
		percent := 0
		if potTotal > 0 {
			percent = translated * 100 / potTotal
		}
		fmt.Fprintf(os.Stderr, "%-10s %-12d %-10d %-10d %d%%\n", lang, translated, fuzzy, untranslated, percent)
		listPending(catalog)
	}

	fmt.Fprintln(os.Stderr, strings.Repeat("─", 52))
	fmt.Fprintf(os.Stderr, "%s %d\n\n", i18n.T("Total strings:"), potTotal)
}

// listPending prints the fuzzy and untranslated messages of a catalog in
// verbose mode.
func listPending(catalog *pofile.File) {
	if !global.verbose {
		return
	}
	for _, e := range catalog.FuzzyEntries() {
		logVerbose("fuzzy         %s", e.MsgCtxt)
	}
	for _, e := range catalog.UntranslatedEntries() {
		logVerbose("untranslated  %s", e.MsgCtxt)
	}
}

// orphanCatalogs lists languages with a catalog but no resource directory.
func orphanCatalogs(proj *config.Project, langs []string) []string {
	known := make(map[string]bool, len(langs))
	for _, l := range langs {
		known[l] = true
	}
	var out []string
	for _, l := range proj.CatalogLanguages() {
		if !known[l] {
			out = append(out, l)
		}
	}
	return out
}

// fileExists returns true if the file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// ---------------------------------------------------------------------------
// Shared conversion helpers
// ---------------------------------------------------------------------------

// headerInfo fills the project part of new catalog headers.
func headerInfo(proj *config.Project) pofile.HeaderInfo {
	return pofile.HeaderInfo{
		Project:   proj.Name,
		Version:   proj.Version,
		Generator: "a2po " + version,
	}
}

// ignoreFunc returns the resource filter of the project, nil when nothing
// is ignored.
func ignoreFunc(proj *config.Project) func(string) bool {
	if proj.Ignore.Empty() {
		return nil
	}
	return proj.Ignore.Match
}

func parseCatalog(path string) (*pofile.File, error) {
	return pofile.ParseFile(path)
}

// ruleFor returns the plural rule of lang. Unknown codes get the two-form
// default so the catalog can still be written.
func ruleFor(lang string) *plurals.Rule {
	r, err := plurals.ForLang(lang)
	if err != nil {
		logWarning(i18n.T("No plural rules for %q (%v); using %s"), lang, err, plurals.Default().PluralForms())
		r = plurals.Default()
		r.Lang = lang
	}
	return r
}

// readSource reads the default-language resource file of a group.
func readSource(proj *config.Project, group string) (*android.Tree, error) {
	path := proj.XMLPath("", group)
	tree, err := android.ReadFile(path, warnSink(path))
	if err != nil {
		return nil, fmt.Errorf(i18n.T("reading source resources: %w"), err)
	}
	return tree, nil
}

// readTranslation reads the resource file of lang, or returns nil when the
// language has none yet.
func readTranslation(proj *config.Project, lang, group string) (*android.Tree, error) {
	path := proj.XMLPath(lang, group)
	if !fileExists(path) {
		return nil, nil
	}
	return android.ReadFile(path, warnSink(path))
}

// catalogFromXML builds the catalog of lang from the source resources and
// whatever translation already exists in values-<lang>, then writes it.
func catalogFromXML(proj *config.Project, source *android.Tree, lang, group string) error {
	translated, err := readTranslation(proj, lang, group)
	if err != nil {
		return err
	}

	xmlPath := proj.XMLPath(lang, group)
	rule := ruleFor(lang)
	logVerbose(i18n.T("Plural rule for %s"), rule)
	catalog, unmatched := convert.Export(source, convert.ExportOptions{
		Translated: translated,
		Rule:       rule,
		Filter:     ignoreFunc(proj),
		Header:     headerInfo(proj),
		Warn:       warnSink(xmlPath),
	})
	for _, name := range unmatched {
		logWarning(i18n.T("%s: %q is not in the source resources; ignoring"), xmlPath, name)
	}

	poPath := proj.POPath(lang, group)
	if err := catalog.WriteFile(poPath); err != nil {
		return fmt.Errorf("writing %s: %w", poPath, err)
	}
	logVerbose("%s -> %s", xmlPath, poPath)
	return nil
}

// selectLanguages returns args when given, else the project languages.
func selectLanguages(proj *config.Project, args []string) []string {
	if len(args) > 0 {
		return args
	}
	return proj.ResolveLanguages()
}

// ---------------------------------------------------------------------------
// init (create catalogs for new languages)
// ---------------------------------------------------------------------------

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [lang...]",
		Short: i18n.T("Create .po files for new languages"),
		Long: i18n.T(`Create a .po file for every language that does not have one yet,
filled with the translations found in res/values-<lang>.

Languages given on the command line that have no values directory get an
empty resource file, so later runs pick them up.

Existing .po files are never touched.`),
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := loadProject()
			if err != nil {
				return err
			}
			return runInit(proj, args)
		},
	}

	return cmd
}

func runInit(proj *config.Project, args []string) error {
	if proj.ConfigFile == "" {
		if err := writeDefaultConfig(proj); err != nil {
			return err
		}
	}

	langs := selectLanguages(proj, args)
	if len(langs) == 0 {
		logWarning(i18n.T("No languages found. Pass language codes, e.g. 'a2po init de fr'."))
		return nil
	}

	created := 0
	for _, group := range proj.Groups {
		source, err := readSource(proj, group)
		if err != nil {
			return err
		}

		for _, lang := range langs {
			xmlPath := proj.XMLPath(lang, group)
			if !fileExists(xmlPath) {
				if err := android.WriteFile(xmlPath, android.NewTree(), nil); err != nil {
					return fmt.Errorf("writing %s: %w", xmlPath, err)
				}
				logVerbose(i18n.T("Created empty %s"), xmlPath)
			}

			poPath := proj.POPath(lang, group)
			if fileExists(poPath) {
				logInfo(i18n.T("Skipping %s, it already exists"), poPath)
				continue
			}
			if err := catalogFromXML(proj, source, lang, group); err != nil {
				return err
			}
			created++
		}
	}

	logSuccess(i18n.N("Created %d catalog", "Created %d catalogs", created), created)
	return nil
}

// writeDefaultConfig saves the resolved paths of a project that has no
// config file yet, so later runs do not depend on flags.
func writeDefaultConfig(proj *config.Project) error {
	af := config.DefaultA2poFile()
	if rel, err := filepath.Rel(proj.Root, proj.ResDir); err == nil {
		af.Android = filepath.ToSlash(rel)
	}
	if rel, err := filepath.Rel(proj.Root, proj.GettextDir); err == nil {
		af.Gettext = filepath.ToSlash(rel)
	}
	af.Languages = proj.Languages
	if err := af.Save(proj.Root); err != nil {
		return fmt.Errorf("writing %s: %w", config.A2poFileName, err)
	}
	proj.ConfigFile = filepath.Join(proj.Root, config.A2poFileName)
	logInfo(i18n.T("Wrote %s"), proj.ConfigFile)
	return nil
}

// ---------------------------------------------------------------------------
// export (XML -> .pot/.po)
// ---------------------------------------------------------------------------

type exportOptions struct {
	initial   bool
	overwrite bool
}

func newExportCmd() *cobra.Command {
	var opts exportOptions

	cmd := &cobra.Command{
		Use:   "export [lang...]",
		Short: i18n.T("Update the template and the .po files from the XML resources"),
		Long: i18n.T(`Rebuild the .pot template from res/values and merge it into the .po file
of every language, keeping existing translations.

A language without a .po file is skipped unless --initial is given, which
creates it from res/values-<lang>. --overwrite recreates every .po file
from the XML resources, discarding translations that only exist in gettext.`),
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := loadProject()
			if err != nil {
				return err
			}
			return runExport(proj, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.initial, "initial", false, "Create missing .po files from the translated XML resources")
	cmd.Flags().BoolVar(&opts.overwrite, "overwrite", false, "Recreate all .po files from the XML resources")
	cmd.MarkFlagsMutuallyExclusive("initial", "overwrite")

	return cmd
}

func runExport(proj *config.Project, args []string, opts exportOptions) error {
	langs := selectLanguages(proj, args)

	for _, group := range proj.Groups {
		source, err := readSource(proj, group)
		if err != nil {
			return err
		}

		template, _ := convert.Export(source, convert.ExportOptions{
			Filter: ignoreFunc(proj),
			Header: headerInfo(proj),
			Warn:   warnSink(proj.XMLPath("", group)),
		})
		potPath := proj.TemplatePath(group)
		if err := template.WriteFile(potPath); err != nil {
			return fmt.Errorf("writing %s: %w", potPath, err)
		}
		logSuccess(i18n.T("Wrote %s (%d messages)"), potPath, len(template.Active()))

		for _, lang := range langs {
			if err := exportLanguage(proj, source, template, lang, group, opts); err != nil {
				return err
			}
		}
	}
	return nil
}

func exportLanguage(proj *config.Project, source *android.Tree, template *pofile.File, lang, group string, opts exportOptions) error {
	poPath := proj.POPath(lang, group)
	exists := fileExists(poPath)

	switch {
	case opts.overwrite || (!exists && opts.initial):
		return catalogFromXML(proj, source, lang, group)
	case !exists:
		logWarning(i18n.T("Skipping %s, .po file doesn't exist. Use --initial."), poPath)
		return nil
	}

	catalog, err := parseCatalog(poPath)
	if err != nil {
		return err
	}

	var pfErr *convert.PluralFormsError
	if err := convert.CheckPluralForms(catalog, ruleFor(lang)); errors.As(err, &pfErr) {
		logWarning(i18n.T("%s: %v; recreating the catalog from the XML resources"), poPath, err)
		return catalogFromXML(proj, source, lang, group)
	}

	merged := merge.Merge(catalog, template)
	if err := merged.WriteFile(poPath); err != nil {
		return fmt.Errorf("writing %s: %w", poPath, err)
	}
	_, translated, fuzzy, untranslated := merged.Stats()
	logVerbose(i18n.T("%s: %d translated, %d fuzzy, %d untranslated"), poPath, translated, fuzzy, untranslated)
	return nil
}

// ---------------------------------------------------------------------------
// import (.po -> XML)
// ---------------------------------------------------------------------------

type importOptions struct {
	withUntranslated bool
}

func newImportCmd() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import [lang...]",
		Short: i18n.T("Write the translated XML resources from the .po files"),
		Long: i18n.T(`Write res/values-<lang> for every language that has a .po file.
Fuzzy and untranslated messages are left out, so Android falls back to the
default resources, unless --with-untranslated is given.`),
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := loadProject()
			if err != nil {
				return err
			}
			return runImport(proj, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.withUntranslated, "with-untranslated", false, "Write untranslated strings using the source text")

	return cmd
}

func runImport(proj *config.Project, args []string, opts importOptions) error {
	langs := selectLanguages(proj, args)
	if len(args) == 0 && len(proj.Languages) == 0 {
		langs = mergeLanguages(langs, proj.CatalogLanguages())
	}

	written := 0
	for _, group := range proj.Groups {
		for _, lang := range langs {
			poPath := proj.POPath(lang, group)
			if !fileExists(poPath) {
				logWarning(i18n.T("Skipping %s, .po file doesn't exist."), poPath)
				continue
			}
			catalog, err := parseCatalog(poPath)
			if err != nil {
				return err
			}

			rule := ruleFor(lang)
			if err := convert.CheckPluralForms(catalog, rule); err != nil {
				logWarning("%s: %v", poPath, err)
			}

			xmlPath := proj.XMLPath(lang, group)
			tree, err := convert.Import(catalog, convert.ImportOptions{
				Rule:             rule,
				WithUntranslated: opts.withUntranslated,
				Filter:           func(e *pofile.Entry) bool { return proj.Ignore.MatchContext(e.MsgCtxt) },
				Warn:             warnSink(poPath),
			})
			var noCtx *convert.NoContextError
			if errors.As(err, &noCtx) {
				logError(i18n.T("%s: %v; is this file really managed by a2po? Skipping."), poPath, err)
				continue
			} else if err != nil {
				return err
			}

			if err := android.WriteFile(xmlPath, tree, warnSink(xmlPath)); err != nil {
				return fmt.Errorf("writing %s: %w", xmlPath, err)
			}
			logVerbose("%s -> %s", poPath, xmlPath)
			written++
		}
	}

	logSuccess(i18n.N("Wrote %d resource file", "Wrote %d resource files", written), written)
	return nil
}

// mergeLanguages appends the entries of extra missing from langs.
func mergeLanguages(langs, extra []string) []string {
	out := slices.Clone(langs)
	for _, l := range extra {
		if !slices.Contains(out, l) {
			out = append(out, l)
		}
	}
	return out
}
