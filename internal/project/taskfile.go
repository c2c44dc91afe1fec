package project

import (
	"fmt"

	"github.com/beevik/etree"
)

// ParseProgramFile parses one .rll payload. Every ladder file must declare
// its task in a <pgmName> header; a file without one is unaddressable by the
// suite, so the whole run aborts rather than guessing.
func ParseProgramFile(path string, data []byte) (*ProgramFile, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parsing task file %s: %v: %w", path, err, ErrParse)
	}
	pgm := doc.FindElement("//pgmName")
	if pgm == nil {
		return nil, fmt.Errorf("task file %s has no <pgmName>: %w", path, ErrParse)
	}
	return &ProgramFile{
		Path:         path,
		DeclaredName: pgm.Text(),
		doc:          doc,
		raw:          data,
	}, nil
}
