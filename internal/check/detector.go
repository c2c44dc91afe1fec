package check

import "github.com/plctools/adprodoctor/internal/project"

// Detect compares the three mappings of an index and returns every defect,
// grouped by kind in fixed order, first-seen order within a kind. Pure and
// deterministic: re-running on the same index yields identical output, which
// the repair fixpoint loop depends on.
func Detect(ix *project.Index) []Defect {
	var defects []Defect
	for _, kind := range Kinds {
		defects = append(defects, detectKind(ix, kind)...)
	}
	return defects
}

func detectKind(ix *project.Index, kind Kind) []Defect {
	var out []Defect
	switch kind {
	case MissingManagementEntry:
		// Union order keeps registry-only and program-only names stable.
		for _, name := range ix.AllNames() {
			if _, ok := ix.Management[name]; ok {
				continue
			}
			_, inRegistry := ix.Registry[name]
			_, inPrograms := ix.Programs[name]
			if inRegistry || inPrograms {
				out = append(out, Defect{Kind: kind, Name: name})
			}
		}

	case MissingRegistryEntry:
		for _, name := range ix.ManagementNames {
			if _, ok := ix.Registry[name]; !ok {
				out = append(out, Defect{Kind: kind, Name: name})
			}
		}

	case MissingProgramFile:
		for _, name := range ix.RegistryNames {
			if _, ok := ix.Programs[name]; ok {
				continue
			}
			d := Defect{Kind: kind, Name: name}
			if fn := ix.Registry[name][0].FileName; fn != "" {
				d.Paths = []string{fn}
			}
			out = append(out, d)
		}

	case DuplicateManagementEntry:
		for _, name := range ix.ManagementNames {
			if len(ix.Management[name]) > 1 {
				out = append(out, Defect{Kind: kind, Name: name})
			}
		}

	case DuplicateRegistryEntry:
		for _, name := range ix.RegistryNames {
			if len(ix.Registry[name]) > 1 {
				out = append(out, Defect{Kind: kind, Name: name})
			}
		}

	case DuplicateProgramFile:
		for _, name := range ix.ProgramNames {
			files := ix.Programs[name]
			if len(files) <= 1 {
				continue
			}
			d := Defect{Kind: kind, Name: name}
			for _, f := range files {
				d.Paths = append(d.Paths, f.Path)
			}
			out = append(out, d)
		}
	}
	return out
}
