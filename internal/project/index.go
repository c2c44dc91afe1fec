package project

// Index is the derived, name-keyed view of a project used by defect
// detection. Each mapping preserves multiplicity (duplicates show up as list
// length > 1) and first-seen order, so detection and repair naming are
// reproducible across runs on identical input.
//
// The index is always rebuilt from scratch after a repair edit, never
// patched incrementally, so the detector only ever sees ground truth.
type Index struct {
	Management map[string][]*ManagementEntry
	Registry   map[string][]*RegistryEntry
	Programs   map[string][]*ProgramFile

	// First-seen key order per mapping.
	ManagementNames []string
	RegistryNames   []string
	ProgramNames    []string
}

// BuildIndex derives the three mappings from the project's current state.
// Pure transformation: no I/O, no mutation of the project.
func BuildIndex(p *Project) *Index {
	ix := &Index{
		Management: make(map[string][]*ManagementEntry),
		Registry:   make(map[string][]*RegistryEntry),
		Programs:   make(map[string][]*ProgramFile),
	}

	for _, e := range OutlineEntries(p.Descriptor) {
		if _, seen := ix.Management[e.Name]; !seen {
			ix.ManagementNames = append(ix.ManagementNames, e.Name)
		}
		ix.Management[e.Name] = append(ix.Management[e.Name], e)
	}

	for _, e := range RegistryEntries(p.Descriptor) {
		if _, seen := ix.Registry[e.Name]; !seen {
			ix.RegistryNames = append(ix.RegistryNames, e.Name)
		}
		ix.Registry[e.Name] = append(ix.Registry[e.Name], e)
	}

	for _, f := range p.Files {
		if _, seen := ix.Programs[f.DeclaredName]; !seen {
			ix.ProgramNames = append(ix.ProgramNames, f.DeclaredName)
		}
		ix.Programs[f.DeclaredName] = append(ix.Programs[f.DeclaredName], f)
	}

	return ix
}

// AllNames returns the union of names across the three mappings, first-seen
// order, management then registry then programs. This is the occupied set
// the name allocator seeds from.
func (ix *Index) AllNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, group := range [][]string{ix.ManagementNames, ix.RegistryNames, ix.ProgramNames} {
		for _, name := range group {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}
