package repair

import (
	"errors"
	"fmt"
	"strings"

	"github.com/plctools/adprodoctor/internal/check"
	"github.com/plctools/adprodoctor/internal/project"
)

// ErrNonConvergence means the fixpoint loop hit its pass cap with repairable
// defects still present. The caller must abort the repair and leave the
// original archive untouched.
var ErrNonConvergence = errors.New("repair did not converge")

// DefaultMaxPasses bounds the fixpoint loop. Each pass strictly reduces
// either the duplicate count or the missing count, so real archives converge
// within a handful of passes; the cap only exists to make non-convergence a
// reportable state instead of a hang.
const DefaultMaxPasses = 100

// Edit is one applied (or refused) corrective action, in application order.
type Edit struct {
	Kind    check.Kind
	Name    string
	NewName string // for renames
	Path    string // ladder file path, for program renames
	Applied bool
}

// Summary renders the edit log line for this edit.
func (e Edit) Summary() string {
	switch {
	case !e.Applied:
		return fmt.Sprintf("could not fix: %s '%s'", strings.ToLower(e.Kind.String()), e.Name)
	case e.NewName != "":
		if e.Path != "" {
			return fmt.Sprintf("renamed pgm '%s' to '%s' in %s", e.Name, e.NewName, e.Path)
		}
		return fmt.Sprintf("renamed '%s' to '%s' (%s)", e.Name, e.NewName, e.Kind)
	case e.Kind == check.MissingManagementEntry:
		return fmt.Sprintf("synthesized task manager entry for '%s'", e.Name)
	case e.Kind == check.MissingRegistryEntry:
		return fmt.Sprintf("synthesized task definition for '%s'", e.Name)
	}
	return fmt.Sprintf("fixed %s '%s'", strings.ToLower(e.Kind.String()), e.Name)
}

// Result is the outcome of a converged repair run.
type Result struct {
	// Edits is the ordered log of every applied edit plus a refusal entry
	// per unrepairable defect.
	Edits []Edit

	// Remaining holds the defects still present at fixpoint. Only
	// unrepairable kinds can appear here.
	Remaining []check.Defect

	// Passes counts detection passes, including the final clean one.
	Passes int
}

// Planner drives detection and editing to a fixpoint.
type Planner struct {
	// MaxPasses caps the fixpoint loop; zero means DefaultMaxPasses.
	MaxPasses int
}

// Run repairs the project in place. Each pass rebuilds the index from
// scratch, detects, and applies the edit for the first repairable defect in
// fixed kind order. Fixing one defect can surface another of a different
// kind on the next pass (renaming a duplicate leaves the new name without
// matching entries elsewhere); that cascade is expected and converges
// because every edit strictly shrinks the class it addresses.
func (p *Planner) Run(proj *project.Project) (*Result, error) {
	maxPasses := p.MaxPasses
	if maxPasses <= 0 {
		maxPasses = DefaultMaxPasses
	}

	alloc := NewAllocator(project.BuildIndex(proj).AllNames())
	result := &Result{}

	for pass := 1; ; pass++ {
		result.Passes = pass

		ix := project.BuildIndex(proj)
		defects := check.Detect(ix)

		target, found := firstRepairable(defects)
		if !found {
			// Fixpoint: only unrepairable defects, if any, remain.
			result.Remaining = defects
			for _, d := range defects {
				result.Edits = append(result.Edits, Edit{Kind: d.Kind, Name: d.Name, Applied: false})
			}
			return result, nil
		}

		if pass > maxPasses {
			return nil, fmt.Errorf("%w after %d passes, still defective: %s",
				ErrNonConvergence, maxPasses, defectNames(defects))
		}

		result.Edits = append(result.Edits, p.apply(proj, ix, alloc, target)...)
	}
}

// apply performs the corrective edit for one defect and returns the log
// entries. The caller rebuilds the index before the next detection.
func (p *Planner) apply(proj *project.Project, ix *project.Index, alloc *Allocator, d check.Defect) []Edit {
	var edits []Edit
	switch d.Kind {
	case check.MissingManagementEntry:
		project.AddOutlineEntry(proj.Descriptor, d.Name)
		edits = append(edits, Edit{Kind: d.Kind, Name: d.Name, Applied: true})

	case check.MissingRegistryEntry:
		fileName := ""
		if files, ok := ix.Programs[d.Name]; ok {
			fileName = files[0].Path
		}
		project.AddRegistryEntry(proj.Descriptor, d.Name, fileName)
		edits = append(edits, Edit{Kind: d.Kind, Name: d.Name, Applied: true})

	case check.DuplicateManagementEntry:
		// First-seen occurrence keeps the name; later copies are renamed.
		for _, e := range ix.Management[d.Name][1:] {
			newName := alloc.Reserve(d.Name)
			e.Rename(newName)
			edits = append(edits, Edit{Kind: d.Kind, Name: d.Name, NewName: newName, Applied: true})
		}

	case check.DuplicateRegistryEntry:
		for _, e := range ix.Registry[d.Name][1:] {
			newName := alloc.Reserve(d.Name)
			e.Rename(newName)
			edits = append(edits, Edit{Kind: d.Kind, Name: d.Name, NewName: newName, Applied: true})
		}

	case check.DuplicateProgramFile:
		for _, f := range ix.Programs[d.Name][1:] {
			newName := alloc.Reserve(d.Name)
			f.SetDeclaredName(newName)
			edits = append(edits, Edit{Kind: d.Kind, Name: d.Name, NewName: newName, Path: f.Path, Applied: true})
		}
	}
	return edits
}

func firstRepairable(defects []check.Defect) (check.Defect, bool) {
	for _, d := range defects {
		if d.Kind.Repairable() {
			return d, true
		}
	}
	return check.Defect{}, false
}

func defectNames(defects []check.Defect) string {
	var parts []string
	for _, d := range defects {
		if d.Kind.Repairable() {
			parts = append(parts, fmt.Sprintf("%s '%s'", d.Kind, d.Name))
		}
	}
	return strings.Join(parts, ", ")
}
