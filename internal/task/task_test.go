package task

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sokinpui/iconfix/internal/rewrite"
	"github.com/sokinpui/iconfix/model"
)

const (
	iconBlock  = "type iconProps = {\n  fill?: string;\n};"
	iconImport = "import type { iconProps } from './iconProps';"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func renameNames(plan *model.Plan) map[string]string {
	out := make(map[string]string, len(plan.Renames))
	for _, r := range plan.Renames {
		out[filepath.Base(r.OldPath)] = filepath.Base(r.NewPath)
	}
	return out
}

func TestStripPrefixPlan(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"18px_arrow.tsx": "",
		"18px_check.tsx": "",
		"close.tsx":      "",
	})
	require.NoError(t, os.Mkdir(filepath.Join(dir, "18px_assets"), 0755))

	plan, err := StripPrefix{Prefix: "18px_"}.Plan(dir)
	require.NoError(t, err)

	assert.Equal(t, NameStripPrefix, plan.Task)
	assert.Empty(t, plan.Changes)
	assert.Equal(t, map[string]string{
		"18px_arrow.tsx": "arrow.tsx",
		"18px_check.tsx": "check.tsx",
		"18px_assets":    "assets",
	}, renameNames(plan))
}

func TestStripPrefixMissingDir(t *testing.T) {
	_, err := StripPrefix{Prefix: "18px_"}.Plan(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestTypeImportLiteral(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"Arrow.tsx":     "import React from 'react';\n" + iconBlock + "\nfunction Arrow() {}\n",
		"Check.tsx":     "function Check() {}\n",
		"iconProps.tsx": iconBlock + "\n",
		"notes.md":      iconBlock,
	})

	plan, err := TypeImport{
		Block:    iconBlock,
		Import:   iconImport,
		Reserved: "iconProps.tsx",
		Ext:      ".tsx",
	}.Plan(dir)
	require.NoError(t, err)

	require.Len(t, plan.Changes, 1)
	change := plan.Changes[0]
	assert.Equal(t, "Arrow.tsx", filepath.Base(change.Path))
	assert.Equal(t, "import React from 'react';\n"+iconImport+"\n\nfunction Arrow() {}\n", change.Content)
	assert.Contains(t, change.Original, iconBlock)
}

func TestTypeImportPattern(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"Arrow.tsx": "type iconProps={\n  title?: string;\n}\nfunction Arrow() {}\n",
	})

	plan, err := TypeImport{
		Pattern:  regexp.MustCompile(rewrite.DefaultBlockPattern),
		Import:   iconImport,
		Reserved: "iconProps.tsx",
		Ext:      ".tsx",
	}.Plan(dir)
	require.NoError(t, err)
	require.Len(t, plan.Changes, 1)
	assert.Equal(t, iconImport+"\n\nfunction Arrow() {}\n", plan.Changes[0].Content)
}

func TestTypeImportRequiresInput(t *testing.T) {
	_, err := TypeImport{Import: iconImport}.Plan(t.TempDir())
	assert.Error(t, err)

	_, err = TypeImport{Block: iconBlock}.Plan(t.TempDir())
	assert.Error(t, err)
}

func TestStripSizePlan(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"12px_arrow.tsx": "export default function I12px_Arrow() {}\n",
		"check.tsx":      "const size = '18px_';\n",
		"plain.tsx":      "nothing here\n",
	})

	plan, err := StripSize{Substrings: []string{"12px_", "18px_"}, Ext: ".tsx"}.Plan(dir)
	require.NoError(t, err)

	contents := make(map[string]string)
	for _, c := range plan.Changes {
		contents[filepath.Base(c.Path)] = c.Content
	}
	assert.Equal(t, map[string]string{
		"12px_arrow.tsx": "export default function IArrow() {}\n",
		"check.tsx":      "const size = '';\n",
	}, contents)
	assert.Equal(t, map[string]string{"12px_arrow.tsx": "arrow.tsx"}, renameNames(plan))
}

func TestExportListAppends(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"index.ts":             "export { default as old } from './old';",
		"arrow-left-I12px.tsx": "function I12px_ArrowLeft() {}",
		"check-I12px.tsx":      "function I12px_Check() {}",
		"close.tsx":            "function Close() {}",
	})

	plan, err := ExportList{Index: "index.ts", Marker: "I12px", Ext: ".tsx"}.Plan(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"export { default as arrowLeftI12px } from './arrow-left-I12px';",
		"export { default as checkI12px } from './check-I12px';",
	}, plan.Output)
	require.Len(t, plan.Changes, 1)
	assert.False(t, plan.Changes[0].Create)
	assert.Equal(t,
		"export { default as old } from './old';\n"+
			"export { default as arrowLeftI12px } from './arrow-left-I12px';\n"+
			"export { default as checkI12px } from './check-I12px';\n",
		plan.Changes[0].Content)
}

func TestExportListDuplicatesUnlessSkipped(t *testing.T) {
	dir := t.TempDir()
	line := "export { default as checkI12px } from './check-I12px';"
	writeFiles(t, dir, map[string]string{
		"index.ts":        line + "\n",
		"check-I12px.tsx": "I12px",
	})

	plan, err := ExportList{Index: "index.ts", Marker: "I12px", Ext: ".tsx"}.Plan(dir)
	require.NoError(t, err)
	require.Len(t, plan.Changes, 1)
	assert.Equal(t, line+"\n"+line+"\n", plan.Changes[0].Content)

	plan, err = ExportList{Index: "index.ts", Marker: "I12px", Ext: ".tsx", SkipExisting: true}.Plan(dir)
	require.NoError(t, err)
	assert.True(t, plan.Empty())
}

func TestExportListCreatesIndex(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"check-I12px.tsx": "I12px"})

	plan, err := ExportList{Index: "index.ts", Marker: "I12px", Ext: ".tsx"}.Plan(dir)
	require.NoError(t, err)
	require.Len(t, plan.Changes, 1)
	assert.True(t, plan.Changes[0].Create)
	assert.Equal(t, "export { default as checkI12px } from './check-I12px';\n", plan.Changes[0].Content)
}

func TestExportListMatchModes(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"arrow-I12px.tsx": "function Arrow() {}",
		"check.tsx":       "function I12px_Check() {}",
	})

	plan, err := ExportList{Index: "index.ts", Marker: "I12px", Ext: ".tsx"}.Plan(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"export { default as check } from './check';"}, plan.Output)

	plan, err = ExportList{Index: "index.ts", Marker: "I12px", Ext: ".tsx", Match: MatchName}.Plan(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"export { default as arrowI12px } from './arrow-I12px';"}, plan.Output)

	_, err = ExportList{Index: "index.ts", Marker: "I12px", Ext: ".tsx", Match: "path"}.Plan(dir)
	assert.Error(t, err)
}

func TestPrefixIdentifiersPlan(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"I18px_Arrow.tsx":                 "function Arrow() {}\nexport default Arrow;\n",
		"nested/I18px_Check.tsx":          "function I18px_Check() {}\nexport default I18px_Check;\n",
		"nested/Close.tsx":                "function Close() {}\n",
		"node_modules/I18px_Vendored.tsx": "function Vendored() {}\n",
	})

	plan, err := PrefixIdentifiers{Prefix: "I18px_", Skip: []string{"node_modules"}}.Plan(dir)
	require.NoError(t, err)

	require.Len(t, plan.Changes, 1)
	assert.Equal(t, "I18px_Arrow.tsx", filepath.Base(plan.Changes[0].Path))
	assert.Equal(t, "function I18px_Arrow() {}\nexport default I18px_Arrow;\n", plan.Changes[0].Content)
}

func TestSizeSuffixPlan(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"I12Px_Arrow.tsx": "",
		"I18Px_Check.tsx": "",
		"Close-I12px.tsx": "",
	})

	plan, err := SizeSuffix{Ext: ".tsx"}.Plan(dir)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"I12Px_Arrow.tsx": "Arrow-I12px.tsx",
		"I18Px_Check.tsx": "Check-I18px.tsx",
	}, renameNames(plan))
}
