// Package check classifies disagreements between the three task views into a
// closed taxonomy of defects. Detection is pure: the same index always yields
// the same defect sequence, in the same order.
package check

// Kind identifies one defect class. The declaration order is the fixed
// report and repair order: missing entries first, then duplicates.
type Kind int

const (
	// MissingManagementEntry: a task known to the registry or a program file
	// has no Task Management List node ("zombie task").
	MissingManagementEntry Kind = iota

	// MissingRegistryEntry: an outline task has no <tasks> registry entry.
	MissingRegistryEntry

	// MissingProgramFile: a registered task has no ladder file declaring it.
	// Not repairable; the ladder logic is gone.
	MissingProgramFile

	// DuplicateManagementEntry: the outline lists a name more than once.
	DuplicateManagementEntry

	// DuplicateRegistryEntry: the registry lists a name more than once.
	DuplicateRegistryEntry

	// DuplicateProgramFile: more than one ladder file declares a name, even
	// under different paths.
	DuplicateProgramFile
)

// Kinds lists every defect kind in fixed order. Detection, reporting, and
// repair all iterate this slice so the three stay in lockstep.
var Kinds = []Kind{
	MissingManagementEntry,
	MissingRegistryEntry,
	MissingProgramFile,
	DuplicateManagementEntry,
	DuplicateRegistryEntry,
	DuplicateProgramFile,
}

// String returns the report header for this kind. Headers match the
// original checker's output so existing tooling keyed on them keeps working.
func (k Kind) String() string {
	switch k {
	case MissingManagementEntry:
		return "Missing Task Manager Entry"
	case MissingRegistryEntry:
		return "Missing Task Definition"
	case MissingProgramFile:
		return "Missing Task Program"
	case DuplicateManagementEntry:
		return "Duplicated Node Entries"
	case DuplicateRegistryEntry:
		return "Duplicated Task Entries"
	case DuplicateProgramFile:
		return "Duplicated Pgm Entries"
	}
	return "Unknown Defect"
}

// Repairable reports whether the planner can fix this kind of defect.
// MissingProgramFile means the ladder file itself is gone; nothing can be
// synthesized, so it is report-only.
func (k Kind) Repairable() bool {
	return k != MissingProgramFile
}

// ExitFlag returns the kind's bit in the process exit status bitmask. The
// values match the original checker's exit codes.
func (k Kind) ExitFlag() int {
	switch k {
	case DuplicateManagementEntry:
		return 1
	case DuplicateRegistryEntry:
		return 2
	case DuplicateProgramFile:
		return 4
	case MissingManagementEntry:
		return 8
	case MissingRegistryEntry:
		return 16
	case MissingProgramFile:
		return 32
	}
	return 0
}

// Defect is one detected disagreement: the kind, the offending task name,
// and enough context to render a report line and, for repairable kinds, to
// locate what to edit.
type Defect struct {
	Kind Kind
	Name string

	// Paths are the ladder file paths involved, when the defect concerns
	// program files: all colliding paths for DuplicateProgramFile, the
	// registry's expected file for MissingProgramFile (when declared).
	Paths []string
}
