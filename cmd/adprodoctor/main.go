// adprodoctor checks Productivity Suite .adpro project archives for the task
// corruption left behind by bad undo operations, and optionally repairs it
// into a new archive.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/plctools/adprodoctor/internal/archive"
	"github.com/plctools/adprodoctor/internal/check"
	"github.com/plctools/adprodoctor/internal/config"
	"github.com/plctools/adprodoctor/internal/project"
	"github.com/plctools/adprodoctor/internal/repair"
	"github.com/plctools/adprodoctor/internal/report"
)

var (
	fixOutput  string
	configPath string
	maxPasses  int
	verbose    bool
	noColor    bool
)

var rootCmd = &cobra.Command{
	Use:   "adprodoctor <project.adpro>",
	Short: "Check and repair Productivity Suite project archives",
	Long: `Check a Productivity Suite .adpro archive for task corruption.

A project stores every task three times: as a Task Management List node, as
a <tasks> entry in program.prj, and as a .rll ladder file. Certain undo
operations let the three drift apart. This tool reports every disagreement
and, with --fix, writes a repaired copy of the archive.

Defects checked:
  - Missing Task Manager Entry  (zombie task: program exists, outline doesn't)
  - Missing Task Definition     (outline node with no <tasks> entry)
  - Missing Task Program        (registered task whose .rll is gone; report only)
  - Duplicated Node Entries     (outline lists a name twice)
  - Duplicated Task Entries     (registry lists a name twice)
  - Duplicated Pgm Entries      (two .rll files declare the same task)

The exit status is a bitmask: 1 duplicated nodes, 2 duplicated tasks,
4 duplicated pgms, 8 missing manager entries, 16 missing definitions,
32 missing programs. 0 means the archive is consistent.

Repair keeps the first occurrence of every duplicated name, renames the rest
(name_1, name_2, ...), and synthesizes missing outline and registry entries.
Ladder logic is never modified and the input archive is never touched; the
repaired project is written to the --fix path as a new archive.

Examples:
  adprodoctor project.adpro                      # check only
  adprodoctor project.adpro --fix repaired.adpro # repair into a new archive
  adprodoctor project.adpro -v                   # show the raw task views`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(run(args[0]))
	},
}

func init() {
	rootCmd.Flags().StringVar(&fixOutput, "fix", "", "repair and write a new archive to this path")
	rootCmd.Flags().StringVar(&configPath, "config", "", "YAML config file")
	rootCmd.Flags().IntVar(&maxPasses, "max-passes", 0, "override the repair pass cap")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show the parsed task views and debug detail")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

func run(archivePath string) int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return report.ExitParse
	}
	if noColor || !cfg.Color {
		color.NoColor = true
	}

	adapter := &archive.Adapter{
		DescriptorName: cfg.Descriptor,
		TaskPrefix:     cfg.TaskPrefix,
		TaskSuffix:     cfg.TaskSuffix,
	}

	proj, err := adapter.Open(archivePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return report.ExitParse
	}

	ix := project.BuildIndex(proj)
	if verbose {
		dumpIndex(ix)
	}

	defects := check.Detect(ix)
	report.Render(os.Stdout, defects)

	if fixOutput == "" {
		return report.ExitCode(defects)
	}

	planner := &repair.Planner{MaxPasses: cfg.MaxPasses}
	result, err := planner.Run(proj)
	if err != nil {
		if errors.Is(err, repair.ErrNonConvergence) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			fmt.Fprintf(os.Stderr, "Original archive left untouched.\n")
			return report.ExitNonConvergence
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return report.ExitParse
	}

	report.RenderFixLog(os.Stdout, result)

	if err := adapter.Write(fixOutput, proj); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return report.ExitParse
	}

	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("\n%s Wrote repaired archive: %s\n", green("✓"), fixOutput)

	// Unrepairable defects still count against the exit status so an
	// operator knows the output archive is not fully consistent.
	return report.ExitCode(result.Remaining)
}

func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if maxPasses > 0 {
		cfg.MaxPasses = maxPasses
	}
	return cfg, nil
}

// dumpIndex prints the three raw task views, mirroring the original
// checker's debug logging.
func dumpIndex(ix *project.Index) {
	cyan := color.New(color.FgCyan).SprintFunc()
	dump := func(label string, names []string) {
		fmt.Fprintf(os.Stderr, "%s %s (%d):\n", cyan("▶"), label, len(names))
		for _, name := range names {
			fmt.Fprintf(os.Stderr, "  %s\n", name)
		}
	}
	dump("Task Management List", ix.ManagementNames)
	dump("Task definitions", ix.RegistryNames)
	dump("Task programs", ix.ProgramNames)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
