// Package project models the three redundant views of a Productivity Suite
// project's tasks: the Task Management List outline embedded in program.prj,
// the <tasks> registry in the same descriptor, and the per-task .rll ladder
// program files. It owns no I/O; the archive adapter hands it parsed bytes.
package project

import (
	"errors"
	"fmt"

	"github.com/beevik/etree"
)

// ErrParse marks structural parse failures: the descriptor or a task file
// cannot be turned into one of the three task views. Callers treat these as
// fatal and abort before any defect detection runs.
var ErrParse = errors.New("structural parse error")

// ManagementEntry is one task node in the Task Management List outline.
// Entries are transient views over the descriptor document; they are
// re-derived after every edit rather than kept alive across mutations.
type ManagementEntry struct {
	// Name is the task name shown in the outline.
	Name string

	// NodeID is the outline node's identity, when the descriptor carries one.
	// Synthesized nodes are given a fresh id.
	NodeID string

	el *etree.Element // the <paths> element
}

// Rename changes the outline node's task name in the descriptor document.
func (e *ManagementEntry) Rename(name string) {
	if node := e.el.SelectElement("nodeName"); node != nil {
		node.SetText(name)
	}
	e.Name = name
}

// RegistryEntry is one <tasks> element in the project descriptor.
type RegistryEntry struct {
	// Name is the registered task name (<taskName>).
	Name string

	// FileName is the ladder file the registry expects, when declared.
	FileName string

	el *etree.Element // the <tasks> element
}

// Rename changes the registry entry's task name in the descriptor document.
func (e *RegistryEntry) Rename(name string) {
	if tn := e.el.SelectElement("taskName"); tn != nil {
		tn.SetText(name)
	}
	e.Name = name
}

// ProgramFile is one ladder program (.rll) file from the archive's task
// folder. The ladder rung content is never modified; repair may rewrite only
// the <pgmName> header, and the original bytes are emitted verbatim when it
// hasn't been.
type ProgramFile struct {
	// Path is the file's path inside the archive, e.g. "task/T12.rll".
	Path string

	// DeclaredName is the task name from the file's <pgmName> header.
	DeclaredName string

	doc     *etree.Document
	raw     []byte
	renamed bool
}

// SetDeclaredName rewrites the file's <pgmName> header. The rest of the
// document is left untouched.
func (f *ProgramFile) SetDeclaredName(name string) {
	if pgm := f.doc.FindElement("//pgmName"); pgm != nil {
		pgm.SetText(name)
	}
	f.DeclaredName = name
	f.renamed = true
}

// Payload returns the bytes to write for this file on repack: the original
// bytes when the header was never touched, otherwise the reserialized
// document.
func (f *ProgramFile) Payload() ([]byte, error) {
	if !f.renamed {
		return f.raw, nil
	}
	data, err := f.doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("serializing %s: %w", f.Path, err)
	}
	return data, nil
}

// Renamed reports whether repair rewrote this file's declared name.
func (f *ProgramFile) Renamed() bool {
	return f.renamed
}

// Project is the in-memory form of one archive: the parsed descriptor
// document plus the task files, in archive order. It is owned exclusively by
// a single check-or-repair run.
type Project struct {
	// Descriptor is the parsed program.prj document. Repair edits mutate it
	// in place; the adapter serializes it on repack.
	Descriptor *etree.Document

	// Files are the ladder program files, in the order they appear in the
	// archive listing.
	Files []*ProgramFile

	// Extras are archive members that are neither the descriptor nor task
	// files. They are copied through verbatim on repack.
	Extras []ExtraFile
}

// ExtraFile is an opaque archive member carried through a repair untouched.
type ExtraFile struct {
	Name string
	Data []byte
}
