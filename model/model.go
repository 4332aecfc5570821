package model

// FileChange represents a single planned change to a file's content.
type FileChange struct {
	Path     string
	Content  string
	Original string
	// Create is set when the file does not exist yet.
	Create bool
}

// FileRename represents a single planned rename.
type FileRename struct {
	OldPath string
	NewPath string
}

// Plan is everything a task wants to do to the tree, computed before any
// file is touched.
type Plan struct {
	Task    string
	Changes []FileChange
	Renames []FileRename
	// Output holds lines a task wants echoed, such as generated exports.
	Output []string
	// Failed lists paths that could not be read while planning.
	Failed []string
}

// Empty reports whether the plan has nothing to apply.
func (p *Plan) Empty() bool {
	return p == nil || (len(p.Changes) == 0 && len(p.Renames) == 0)
}

// Summary holds the results of an operation for display.
type Summary struct {
	Task     string
	Created  []string
	Modified []string
	Renamed  []string
	Failed   []string
	// Output holds generated lines, echoed after the lists.
	Output  []string
	Message string
}

// Count returns the number of files touched successfully.
func (s Summary) Count() int {
	return len(s.Created) + len(s.Modified) + len(s.Renamed)
}
