package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDescriptor = `<project>
  <taskManagement>
    <paths><id>n1</id><folder>false</folder><nodeName>Alpha</nodeName></paths>
    <paths><folder>true</folder><nodeName>Motion</nodeName></paths>
    <paths><id>n2</id><folder>false</folder><nodeName>Beta</nodeName></paths>
    <paths><id>n3</id><folder>false</folder><nodeName>Alpha</nodeName></paths>
  </taskManagement>
  <taskRegistry>
    <tasks><taskName>Alpha</taskName><fileName>task/T1.rll</fileName></tasks>
    <tasks><taskName>Beta</taskName></tasks>
  </taskRegistry>
</project>`

func testProgramFile(t *testing.T, path, name string) *ProgramFile {
	t.Helper()
	data := []byte(`<taskProgram><pgmName>` + name + `</pgmName><rungs><rung>1</rung></rungs></taskProgram>`)
	pf, err := ParseProgramFile(path, data)
	require.NoError(t, err)
	return pf
}

func TestOutlineEntries_SkipsFolders(t *testing.T) {
	doc, err := ParseDescriptor([]byte(testDescriptor))
	require.NoError(t, err)

	entries := OutlineEntries(doc)
	require.Len(t, entries, 3)
	assert.Equal(t, "Alpha", entries[0].Name)
	assert.Equal(t, "n1", entries[0].NodeID)
	assert.Equal(t, "Beta", entries[1].Name)
	assert.Equal(t, "Alpha", entries[2].Name)
}

func TestRegistryEntries(t *testing.T) {
	doc, err := ParseDescriptor([]byte(testDescriptor))
	require.NoError(t, err)

	entries := RegistryEntries(doc)
	require.Len(t, entries, 2)
	assert.Equal(t, "Alpha", entries[0].Name)
	assert.Equal(t, "task/T1.rll", entries[0].FileName)
	assert.Equal(t, "Beta", entries[1].Name)
	assert.Empty(t, entries[1].FileName)
}

func TestParseDescriptor_Invalid(t *testing.T) {
	_, err := ParseDescriptor([]byte("<project><unclosed"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
}

func TestParseProgramFile_MissingPgmName(t *testing.T) {
	_, err := ParseProgramFile("task/T9.rll", []byte(`<taskProgram><rungs/></taskProgram>`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
	assert.Contains(t, err.Error(), "task/T9.rll")
}

func TestBuildIndex_PreservesMultiplicityAndOrder(t *testing.T) {
	doc, err := ParseDescriptor([]byte(testDescriptor))
	require.NoError(t, err)

	proj := &Project{
		Descriptor: doc,
		Files: []*ProgramFile{
			testProgramFile(t, "task/T1.rll", "Alpha"),
			testProgramFile(t, "task/T2.rll", "Beta"),
			testProgramFile(t, "task/T3.rll", "Alpha"),
		},
	}

	ix := BuildIndex(proj)

	assert.Equal(t, []string{"Alpha", "Beta"}, ix.ManagementNames)
	assert.Len(t, ix.Management["Alpha"], 2)
	assert.Len(t, ix.Management["Beta"], 1)

	assert.Equal(t, []string{"Alpha", "Beta"}, ix.RegistryNames)

	assert.Equal(t, []string{"Alpha", "Beta"}, ix.ProgramNames)
	require.Len(t, ix.Programs["Alpha"], 2)
	assert.Equal(t, "task/T1.rll", ix.Programs["Alpha"][0].Path)
	assert.Equal(t, "task/T3.rll", ix.Programs["Alpha"][1].Path)
}

func TestIndex_AllNames(t *testing.T) {
	doc, err := ParseDescriptor([]byte(testDescriptor))
	require.NoError(t, err)

	proj := &Project{
		Descriptor: doc,
		Files:      []*ProgramFile{testProgramFile(t, "task/T7.rll", "Gamma")},
	}

	ix := BuildIndex(proj)
	assert.Equal(t, []string{"Alpha", "Beta", "Gamma"}, ix.AllNames())
}

func TestManagementEntry_Rename(t *testing.T) {
	doc, err := ParseDescriptor([]byte(testDescriptor))
	require.NoError(t, err)

	entries := OutlineEntries(doc)
	entries[2].Rename("Alpha_1")

	// The rename must be visible in a fresh parse of the document.
	reread := OutlineEntries(doc)
	assert.Equal(t, "Alpha_1", reread[2].Name)
	assert.Equal(t, "Alpha", reread[0].Name)
}

func TestRegistryEntry_Rename(t *testing.T) {
	doc, err := ParseDescriptor([]byte(testDescriptor))
	require.NoError(t, err)

	RegistryEntries(doc)[1].Rename("Beta_1")
	assert.Equal(t, "Beta_1", RegistryEntries(doc)[1].Name)
}

func TestProgramFile_SetDeclaredName(t *testing.T) {
	pf := testProgramFile(t, "task/T1.rll", "Alpha")
	require.False(t, pf.Renamed())

	pf.SetDeclaredName("Alpha_1")
	assert.True(t, pf.Renamed())
	assert.Equal(t, "Alpha_1", pf.DeclaredName)

	payload, err := pf.Payload()
	require.NoError(t, err)
	assert.Contains(t, string(payload), "<pgmName>Alpha_1</pgmName>")
	// Ladder content is untouched.
	assert.Contains(t, string(payload), "<rung>1</rung>")
}

func TestProgramFile_PayloadVerbatimWhenUntouched(t *testing.T) {
	raw := []byte(`<taskProgram><pgmName>Alpha</pgmName><rungs/></taskProgram>`)
	pf, err := ParseProgramFile("task/T1.rll", raw)
	require.NoError(t, err)

	payload, err := pf.Payload()
	require.NoError(t, err)
	assert.Equal(t, raw, payload)
}

func TestAddOutlineEntry(t *testing.T) {
	doc, err := ParseDescriptor([]byte(testDescriptor))
	require.NoError(t, err)

	entry := AddOutlineEntry(doc, "Gamma")
	assert.Equal(t, "Gamma", entry.Name)
	assert.NotEmpty(t, entry.NodeID)

	entries := OutlineEntries(doc)
	require.Len(t, entries, 4)
	assert.Equal(t, "Gamma", entries[3].Name)
}

func TestAddRegistryEntry(t *testing.T) {
	doc, err := ParseDescriptor([]byte(testDescriptor))
	require.NoError(t, err)

	AddRegistryEntry(doc, "Gamma", "task/T7.rll")

	entries := RegistryEntries(doc)
	require.Len(t, entries, 3)
	assert.Equal(t, "Gamma", entries[2].Name)
	assert.Equal(t, "task/T7.rll", entries[2].FileName)
}
