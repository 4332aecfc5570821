package cli

import (
	"github.com/spf13/cobra"

	"github.com/sokinpui/iconfix/iconfix"
	"github.com/sokinpui/iconfix/internal/recipe"
	"github.com/sokinpui/iconfix/internal/source"
	"github.com/sokinpui/iconfix/internal/task"
	"github.com/sokinpui/iconfix/model"
)

// taskCommand runs the planner built from the current config for name.
func (r *runner) taskCommand(name string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		p, err := task.FromConfig(name, r.cfg)
		if err != nil {
			return err
		}
		return r.execute(func(app *iconfix.App) (model.Summary, error) {
			return app.Run(p)
		})
	}
}

func newStripPrefixCommand(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   task.NameStripPrefix,
		Short: "Strip a literal prefix from entry names in a directory",
		Args:  cobra.NoArgs,
		RunE:  r.taskCommand(task.NameStripPrefix),
	}
	cmd.Flags().StringP("prefix", "p", "18px_", "Prefix to strip.")
	r.bind(cmd.Flags(), "strip_prefix.prefix", "prefix")
	return cmd
}

func newTypeImportCommand(r *runner) *cobra.Command {
	var blockFile string
	var fromClipboard bool

	cmd := &cobra.Command{
		Use:   task.NameTypeImport,
		Short: "Replace the inlined iconProps type with an import",
		Long: `Removes the inlined props type from every component and inserts an import
of the shared type after the last existing import.

The type is matched literally (from --block-file, --block-from-clipboard or
the configured block) or, with --regex, by pattern. The default pattern is
non-greedy and stops at the first closing brace, so nested object types
are not matched whole.`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if r.cfg.TypeImport.Regex {
				return nil
			}
			block, err := source.New(blockFile, fromClipboard, r.cfg.TypeImport.Block).GetContent()
			if err != nil {
				return err
			}
			r.cfg.TypeImport.Block = block
			return nil
		},
		RunE: r.taskCommand(task.NameTypeImport),
	}

	f := cmd.Flags()
	f.Bool("regex", false, "Match the type block with --pattern instead of a literal block.")
	f.String("pattern", "", "Regular expression for the type block (with --regex).")
	f.String("import", "", "Import line inserted after the last import.")
	f.String("reserved", "", "File name that is never rewritten.")
	f.String("ext", "", "Extension of the files to rewrite.")
	f.StringVar(&blockFile, "block-file", "", "Read the literal block from a file, or '-' for stdin.")
	f.BoolVar(&fromClipboard, "block-from-clipboard", false, "Read the literal block from the clipboard.")
	cmd.MarkFlagsMutuallyExclusive("block-file", "block-from-clipboard")
	cmd.MarkFlagsMutuallyExclusive("regex", "block-file")
	cmd.MarkFlagsMutuallyExclusive("regex", "block-from-clipboard")

	r.bind(f, "type_import.regex", "regex")
	r.bind(f, "type_import.pattern", "pattern")
	r.bind(f, "type_import.import", "import")
	r.bind(f, "type_import.reserved", "reserved")
	r.bind(f, "type_import.ext", "ext")
	return cmd
}

func newStripSizeCommand(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   task.NameStripSize,
		Short: "Remove size markers from file names and content",
		Args:  cobra.NoArgs,
		RunE:  r.taskCommand(task.NameStripSize),
	}
	cmd.Flags().StringSliceP("substring", "s", nil, "Substring to remove (repeatable, default 12px_ and 18px_).")
	cmd.Flags().String("ext", "", "Extension of the files to process.")
	r.bind(cmd.Flags(), "strip_size.substrings", "substring")
	r.bind(cmd.Flags(), "strip_size.ext", "ext")
	return cmd
}

func newExportListCommand(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   task.NameExportList,
		Short: "Append default re-exports of marked components to the index file",
		Args:  cobra.NoArgs,
		RunE:  r.taskCommand(task.NameExportList),
	}
	f := cmd.Flags()
	f.String("index", "", "Index file, relative to --dir.")
	f.StringP("marker", "m", "", "Text a component must contain to be exported.")
	f.String("match", "", "Where to look for the marker: content or name.")
	f.String("ext", "", "Extension of the component files.")
	f.Bool("skip-existing", false, "Skip export lines already present in the index.")
	f.BoolVar(&r.clipboard, "clipboard", false, "Also copy the generated lines to the clipboard.")
	r.bind(f, "export_list.index", "index")
	r.bind(f, "export_list.marker", "marker")
	r.bind(f, "export_list.ext", "ext")
	r.bind(f, "export_list.skip_existing", "skip-existing")
	r.bind(f, "export_list.match", "match")
	return cmd
}

func newPrefixIdentifiersCommand(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   task.NamePrefixIdentifiers,
		Short: "Prefix function names and default exports in matching files",
		Long: `Walks --dir recursively. In every file whose name starts with the prefix,
function declarations and default exports gain the prefix unless they
already have it. "export default function" and "export default class" are
renamed through their declaration only.`,
		Args: cobra.NoArgs,
		RunE: r.taskCommand(task.NamePrefixIdentifiers),
	}
	cmd.Flags().StringP("prefix", "p", "", "Prefix for file names and identifiers.")
	cmd.Flags().StringSlice("skip", nil, "Directory names not descended into.")
	r.bind(cmd.Flags(), "prefix_identifiers.prefix", "prefix")
	r.bind(cmd.Flags(), "prefix_identifiers.skip", "skip")
	return cmd
}

func newSizeSuffixCommand(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   task.NameSizeSuffix,
		Short: "Rename I12Px_Name files to Name-I12px",
		Args:  cobra.NoArgs,
		RunE:  r.taskCommand(task.NameSizeSuffix),
	}
	cmd.Flags().String("ext", "", "Extension of the files to rename.")
	r.bind(cmd.Flags(), "size_suffix.ext", "ext")
	return cmd
}

func newUndoCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Undo the last recorded run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.execute(func(app *iconfix.App) (model.Summary, error) {
				return app.Undo()
			})
		},
	}
}

func newRedoCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "redo",
		Short: "Redo the last undone run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.execute(func(app *iconfix.App) (model.Summary, error) {
				return app.Redo()
			})
		},
	}
}

func newRecipeCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "recipe <file.yaml>",
		Short: "Run the steps listed in a YAML recipe, in order",
		Example: `  # refactor.yaml
  steps:
    - task: strip-prefix
      prefix: 18px_
    - task: size-suffix
    - task: export-list
      marker: I12px`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := recipe.Load(args[0])
			if err != nil {
				return err
			}
			return r.execute(func(app *iconfix.App) (model.Summary, error) {
				return app.RunRecipe(rec, r.cfg)
			})
		},
	}
}
