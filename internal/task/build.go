package task

import (
	"fmt"
	"regexp"

	"github.com/sokinpui/iconfix/internal/config"
	"github.com/sokinpui/iconfix/internal/fs"
)

// Names lists every task in the order they are usually run during the icon
// refactor.
var Names = []string{
	NameStripPrefix,
	NameSizeSuffix,
	NameStripSize,
	NameTypeImport,
	NamePrefixIdentifiers,
	NameExportList,
}

// FromConfig builds the named planner from its config section.
func FromConfig(name string, cfg *config.Config) (Planner, error) {
	switch name {
	case NameStripPrefix:
		return StripPrefix{Prefix: cfg.StripPrefix.Prefix}, nil

	case NameTypeImport:
		c := cfg.TypeImport
		t := TypeImport{
			Import:   c.Import,
			Reserved: c.Reserved,
			Ext:      fs.NormalizeExt(c.Ext),
		}
		if c.Regex {
			re, err := regexp.Compile(c.Pattern)
			if err != nil {
				return nil, fmt.Errorf("%s: invalid pattern: %w", name, err)
			}
			t.Pattern = re
		} else {
			t.Block = c.Block
		}
		return t, nil

	case NameStripSize:
		return StripSize{
			Substrings: cfg.StripSize.Substrings,
			Ext:        fs.NormalizeExt(cfg.StripSize.Ext),
		}, nil

	case NameExportList:
		c := cfg.ExportList
		return ExportList{
			Index:        c.Index,
			Marker:       c.Marker,
			Ext:          fs.NormalizeExt(c.Ext),
			SkipExisting: c.SkipExisting,
			Match:        c.Match,
		}, nil

	case NamePrefixIdentifiers:
		return PrefixIdentifiers{
			Prefix: cfg.PrefixIdentifiers.Prefix,
			Skip:   cfg.PrefixIdentifiers.Skip,
		}, nil

	case NameSizeSuffix:
		return SizeSuffix{Ext: fs.NormalizeExt(cfg.SizeSuffix.Ext)}, nil
	}
	return nil, fmt.Errorf("unknown task %q", name)
}
