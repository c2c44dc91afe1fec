package project

import (
	"fmt"

	"github.com/beevik/etree"
	"github.com/google/uuid"
)

// ParseDescriptor parses the program.prj payload into a mutable document.
func ParseDescriptor(data []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parsing descriptor: %v: %w", err, ErrParse)
	}
	return doc, nil
}

// OutlineEntries returns the Task Management List entries: every <paths>
// node with <folder>false</folder>, in document order. Folder nodes group
// tasks and are not tasks themselves.
func OutlineEntries(doc *etree.Document) []*ManagementEntry {
	var entries []*ManagementEntry
	for _, el := range doc.FindElements("//paths") {
		folder := el.SelectElement("folder")
		if folder == nil || folder.Text() != "false" {
			continue
		}
		node := el.SelectElement("nodeName")
		if node == nil {
			continue
		}
		entry := &ManagementEntry{Name: node.Text(), el: el}
		if id := el.SelectElement("id"); id != nil {
			entry.NodeID = id.Text()
		}
		entries = append(entries, entry)
	}
	return entries
}

// RegistryEntries returns the <tasks> registry entries in document order.
// Elements without a <taskName> are skipped; the descriptor nests other
// bookkeeping under the same parent.
func RegistryEntries(doc *etree.Document) []*RegistryEntry {
	var entries []*RegistryEntry
	for _, el := range doc.FindElements("//tasks") {
		tn := el.SelectElement("taskName")
		if tn == nil {
			continue
		}
		entry := &RegistryEntry{Name: tn.Text(), el: el}
		if fn := el.SelectElement("fileName"); fn != nil {
			entry.FileName = fn.Text()
		}
		entries = append(entries, entry)
	}
	return entries
}

// AddOutlineEntry synthesizes a new Task Management List node for name and
// appends it beside the existing outline nodes. The new node gets a fresh
// id so the suite can address it.
func AddOutlineEntry(doc *etree.Document, name string) *ManagementEntry {
	parent := elementParent(doc, "//paths")
	el := parent.CreateElement("paths")
	id := uuid.NewString()
	el.CreateElement("id").SetText(id)
	el.CreateElement("folder").SetText("false")
	el.CreateElement("nodeName").SetText(name)
	return &ManagementEntry{Name: name, NodeID: id, el: el}
}

// AddRegistryEntry synthesizes a new <tasks> element for name. fileName is
// recorded when the caller could infer one from the other views.
func AddRegistryEntry(doc *etree.Document, name, fileName string) *RegistryEntry {
	parent := elementParent(doc, "//tasks")
	el := parent.CreateElement("tasks")
	el.CreateElement("taskName").SetText(name)
	if fileName != "" {
		el.CreateElement("fileName").SetText(fileName)
	}
	return &RegistryEntry{Name: name, FileName: fileName, el: el}
}

// elementParent finds where synthesized siblings of path should live. When
// the descriptor has no such elements yet, new ones go under the root.
func elementParent(doc *etree.Document, path string) *etree.Element {
	if existing := doc.FindElement(path); existing != nil {
		if p := existing.Parent(); p != nil {
			return p
		}
	}
	return doc.Root()
}
