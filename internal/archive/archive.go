// Package archive reads and writes .adpro project containers. An archive is
// a ZIP holding the program.prj descriptor, a task folder of .rll ladder
// files, and whatever else the suite packed alongside them.
//
// The adapter is the only component that performs I/O. It hands the engine a
// parsed in-memory project and, after a repair, writes a brand new archive;
// the input archive is never modified in place.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/plctools/adprodoctor/internal/project"
)

// Adapter locates the descriptor and task files inside an archive. Zero
// values fall back to the suite's defaults.
type Adapter struct {
	// DescriptorName is the project descriptor member, default "program.prj".
	DescriptorName string

	// TaskPrefix selects task file members by path prefix, default "task".
	TaskPrefix string

	// TaskSuffix selects task file members by extension, default ".rll".
	TaskSuffix string
}

func (a *Adapter) descriptorName() string {
	if a.DescriptorName != "" {
		return a.DescriptorName
	}
	return "program.prj"
}

func (a *Adapter) isTaskFile(name string) bool {
	prefix := a.TaskPrefix
	if prefix == "" {
		prefix = "task"
	}
	suffix := a.TaskSuffix
	if suffix == "" {
		suffix = ".rll"
	}
	return strings.HasPrefix(name, prefix) && strings.HasSuffix(name, suffix)
}

// Open reads the archive at path into an in-memory project. Any failure to
// parse the container, the descriptor, or a task file is a structural parse
// error and aborts the run before detection.
func (a *Adapter) Open(path string) (*project.Project, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %v: %w", path, err, project.ErrParse)
	}
	defer r.Close()

	proj := &project.Project{}
	sawDescriptor := false

	for _, f := range r.File {
		if strings.HasSuffix(f.Name, "/") {
			continue // directory entries carry no payload
		}
		data, err := readMember(f)
		if err != nil {
			return nil, fmt.Errorf("reading %s from %s: %v: %w", f.Name, path, err, project.ErrParse)
		}

		switch {
		case f.Name == a.descriptorName():
			doc, err := project.ParseDescriptor(data)
			if err != nil {
				return nil, err
			}
			proj.Descriptor = doc
			sawDescriptor = true

		case a.isTaskFile(f.Name):
			pf, err := project.ParseProgramFile(f.Name, data)
			if err != nil {
				return nil, err
			}
			proj.Files = append(proj.Files, pf)

		default:
			proj.Extras = append(proj.Extras, project.ExtraFile{Name: f.Name, Data: data})
		}
	}

	if !sawDescriptor {
		return nil, fmt.Errorf("archive %s has no %s: %w", path, a.descriptorName(), project.ErrParse)
	}
	return proj, nil
}

func readMember(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Write produces a new archive at path from the (possibly repaired) project.
// The archive is written to a unique temp file in the destination directory
// and renamed into place, so a failed write never leaves a partial archive.
func (a *Adapter) Write(path string, proj *project.Project) error {
	data, err := a.build(proj)
	if err != nil {
		return err
	}

	tmpPath := filepath.Join(filepath.Dir(path), fmt.Sprintf(".%s.%s", filepath.Base(path), uuid.NewString()))
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("writing archive: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("committing archive: %w", err)
	}
	return nil
}

func (a *Adapter) build(proj *project.Project) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	descriptor, err := proj.Descriptor.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("serializing descriptor: %w", err)
	}
	if err := writeMember(zw, a.descriptorName(), descriptor); err != nil {
		return nil, err
	}

	for _, pf := range proj.Files {
		payload, err := pf.Payload()
		if err != nil {
			return nil, err
		}
		if err := writeMember(zw, pf.Path, payload); err != nil {
			return nil, err
		}
	}

	for _, extra := range proj.Extras {
		if err := writeMember(zw, extra.Name, extra.Data); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalizing archive: %w", err)
	}
	return buf.Bytes(), nil
}

func writeMember(zw *zip.Writer, name string, data []byte) error {
	f, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("adding %s: %w", name, err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}
