// Package report renders defect lists and repair logs for the terminal and
// maps them to the process exit status.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/plctools/adprodoctor/internal/check"
	"github.com/plctools/adprodoctor/internal/repair"
)

// Exit codes outside the defect bitmask. The defect bits themselves come
// from check.Kind.ExitFlag.
const (
	// ExitClean means no defects were found.
	ExitClean = 0

	// ExitParse means the archive or descriptor could not be parsed into
	// the three task views. Matches the original checker's abort status.
	ExitParse = 255

	// ExitNonConvergence means the repair loop hit its pass cap.
	ExitNonConvergence = 254
)

// ExitCode folds the defects into the bitmask exit status: one bit per
// defect kind present, 0 when clean.
func ExitCode(defects []check.Defect) int {
	code := ExitClean
	for _, d := range defects {
		code |= d.Kind.ExitFlag()
	}
	return code
}

// Render writes the grouped defect report: a header per kind present, one
// name (or name : paths tuple) per line, a blank line after each group.
// Defects arrive already grouped and ordered by the detector.
func Render(w io.Writer, defects []check.Defect) {
	header := color.New(color.FgYellow).SprintfFunc()

	var current check.Kind
	open := false
	for _, d := range defects {
		if !open || d.Kind != current {
			if open {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "%s\n", header("%s:", d.Kind))
			current = d.Kind
			open = true
		}
		fmt.Fprintln(w, defectLine(d))
	}
	if open {
		fmt.Fprintln(w)
	}
}

func defectLine(d check.Defect) string {
	if len(d.Paths) == 0 {
		return d.Name
	}
	quoted := make([]string, len(d.Paths))
	for i, p := range d.Paths {
		quoted[i] = fmt.Sprintf("'%s'", p)
	}
	return fmt.Sprintf("%s : %s", d.Name, strings.Join(quoted, ", "))
}

// RenderFixLog writes the "Attempting to fix" section: one line per edit in
// application order, with refusals called out for unrepairable defects.
func RenderFixLog(w io.Writer, result *repair.Result) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	fmt.Fprintf(w, "%s Attempting to fix\n", cyan("→"))
	for _, e := range result.Edits {
		glyph := green("✓")
		if !e.Applied {
			glyph = red("✗")
		}
		fmt.Fprintf(w, "  %s %s\n", glyph, e.Summary())
	}
}
