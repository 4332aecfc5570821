// Package cli wires the iconfix subcommands to configuration, the App and
// the terminal output.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/sokinpui/iconfix/iconfix"
	"github.com/sokinpui/iconfix/internal/config"
	"github.com/sokinpui/iconfix/internal/logging"
	"github.com/sokinpui/iconfix/internal/tui"
	"github.com/sokinpui/iconfix/internal/ui"
	"github.com/sokinpui/iconfix/model"
)

// Options holds the flag values shared by every subcommand.
type Options struct {
	ConfigFile  string
	Dir         string
	DryRun      bool
	NoAnimation bool
	Nvim        bool
	NvimAddr    string
	NoHistory   bool
	Verbose     bool
}

// runner carries what a subcommand needs once the root command has loaded
// configuration.
type runner struct {
	v    *viper.Viper
	opts Options
	cfg  *config.Config
	log  *zap.Logger

	clipboard bool
}

// AddSharedFlags registers the flags every subcommand accepts.
func AddSharedFlags(fs *pflag.FlagSet, o *Options) {
	fs.StringVarP(&o.ConfigFile, "config", "c", "", "Config file (default .iconfix.yaml in the working directory).")
	fs.StringVarP(&o.Dir, "dir", "d", ".", "Directory to work on.")
	fs.BoolVarP(&o.DryRun, "dry-run", "n", false, "Print the planned changes as diffs without writing anything.")
	fs.BoolVar(&o.NoAnimation, "no-animation", false, "Disable loading spinner and progress updates.")
	fs.BoolVar(&o.Nvim, "nvim", false, "Write through Neovim buffers so open editors stay in sync.")
	fs.StringVar(&o.NvimAddr, "nvim-addr", "", "Neovim server address (default $NVIM_LISTEN_ADDRESS).")
	fs.BoolVar(&o.NoHistory, "no-history", false, "Do not record the run; it cannot be undone.")
	fs.BoolVarP(&o.Verbose, "verbose", "v", false, "Log diagnostics to stderr.")
}

// NewRootCommand builds the iconfix command tree.
func NewRootCommand() *cobra.Command {
	r := &runner{v: config.New()}

	root := &cobra.Command{
		Use:   "iconfix",
		Short: "Batch rename icon components and rewrite their imports and exports",
		Long: `iconfix bundles the steps of an icon library refactor: renaming files,
replacing inlined prop types with an import, generating index exports and
prefixing component identifiers.

Every run is recorded and can be reversed with 'iconfix undo'.`,
		Example: `  iconfix strip-prefix --prefix 18px_ -d src/icons
  iconfix type-import --block-file block.txt
  iconfix export-list --dry-run
  iconfix undo`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return r.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if r.log != nil {
				_ = r.log.Sync()
			}
		},
	}

	AddSharedFlags(root.PersistentFlags(), &r.opts)
	r.bind(root.PersistentFlags(), "dir", "dir")
	r.bind(root.PersistentFlags(), "no_animation", "no-animation")
	r.bind(root.PersistentFlags(), "nvim", "nvim")

	root.AddCommand(
		newStripPrefixCommand(r),
		newTypeImportCommand(r),
		newStripSizeCommand(r),
		newExportListCommand(r),
		newPrefixIdentifiersCommand(r),
		newSizeSuffixCommand(r),
		newUndoCommand(r),
		newRedoCommand(r),
		newRecipeCommand(r),
	)
	return root
}

// Execute runs the command tree against os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}

// bind makes a flag override the viper key when it is set on the command line.
func (r *runner) bind(fs *pflag.FlagSet, key, flag string) {
	if err := r.v.BindPFlag(key, fs.Lookup(flag)); err != nil {
		panic(fmt.Sprintf("binding flag %q: %v", flag, err))
	}
}

func (r *runner) setup() error {
	log, err := logging.New(r.opts.Verbose)
	if err != nil {
		return err
	}
	r.log = log

	cfg, err := config.Load(r.v, r.opts.ConfigFile)
	if err != nil {
		return err
	}
	r.cfg = cfg
	if file := r.v.ConfigFileUsed(); file != "" && r.opts.Verbose {
		ui.Info("Using config %s", file)
	}
	r.log.Debug("configuration loaded", zap.String("file", r.v.ConfigFileUsed()), zap.String("dir", cfg.Dir))
	return nil
}

func (r *runner) newApp() (*iconfix.App, error) {
	app, err := iconfix.New(&iconfix.Config{
		Dir:       r.cfg.Dir,
		DryRun:    r.opts.DryRun,
		Nvim:      r.cfg.Nvim,
		NvimAddr:  r.opts.NvimAddr,
		Clipboard: r.clipboard,
		NoHistory: r.opts.NoHistory,
	}, r.log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize application: %w", err)
	}
	app.SetPreviewOutput(ui.Out)
	return app, nil
}

// execute runs fn behind the spinner when attached to a terminal, and with a
// plain progress bar and colored summary otherwise.
func (r *runner) execute(fn func(app *iconfix.App) (model.Summary, error)) error {
	app, err := r.newApp()
	if err != nil {
		return err
	}
	if r.opts.DryRun {
		ui.Header("Planned changes in %s", r.cfg.Dir)
	}
	if r.opts.NoHistory && !r.opts.DryRun {
		ui.Warning("History is off; this run cannot be undone.")
	}

	run := func(progress iconfix.ProgressUpdate) (model.Summary, error) {
		app.SetProgressCallback(progress)
		return fn(app)
	}

	if r.animated() {
		_, err := tui.Run(run)
		return err
	}

	var progress iconfix.ProgressUpdate
	var bar *ui.ProgressBar
	if !r.cfg.NoAnimation && isTerminal(os.Stderr) {
		bar = ui.NewProgressBar(0, "Processing")
		bar.Start()
		progress = bar.Set
	}
	summary, err := run(progress)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		var detailed *iconfix.DetailedError
		if errors.As(err, &detailed) {
			ui.Error("--- Stack Trace ---\n%s", detailed.Stack)
		}
		return err
	}
	ui.PrintSummary(summary)
	if len(summary.Failed) == 0 && summary.Count() > 0 {
		ui.Success("Done.")
	}
	return nil
}

func (r *runner) animated() bool {
	return !r.cfg.NoAnimation && !r.opts.DryRun && isTerminal(os.Stdout)
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
