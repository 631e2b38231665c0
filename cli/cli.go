package cli

import (
	"context"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/ardnew/calc/cli/cmd"
	"github.com/ardnew/calc/pkg"
)

// CLI is the top-level command-line interface for calc.
type CLI struct {
	Log     logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof   pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`
	Options cmd.Options `embed:"" group:"calc"`

	Source []string `help:"Evaluate each line of the given file(s), or '-' for stdin." name:"source" short:"s" type:"existingfile"`

	Eval    cmd.Eval    `cmd:"" default:"withargs" help:"Evaluate expressions"`
	Tree    cmd.Tree    `cmd:""                    help:"Print the expression tree of an expression"`
	Tokens  cmd.Tokens  `cmd:""                    help:"Print the tokens of an expression"`
	Repl    cmd.Repl    `cmd:""                    help:"Start the interactive evaluator"`
	Init    cmd.Init    `cmd:""                    help:"Initialize configuration file"`
	Version cmd.Version `cmd:""                    help:"Print version information"`
}

// Run executes the calc CLI with the given context and arguments.
// The exit function is called with the appropriate exit code when kong
// terminates early, e.g. after printing help.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags so that the logger is configured before kong
	// reports anything, regardless of flag position.
	cli.Log.scan(args)

	parser, err := newParser(&cli, configDir(), cacheDir(), kong.Exit(exit))
	if err != nil {
		return err
	}

	return execute(ctx, parser, &cli, args)
}

// newParser builds the kong parser for cli. Configuration files are read
// from confDir: config.yaml takes precedence over config.json, and flags
// given on the command line take precedence over both.
func newParser(
	cli *CLI,
	confDir, cache string,
	opts ...kong.Option,
) (*kong.Kong, error) {
	vars := kong.Vars{
		cmd.ConfigIdentifier: filepath.Join(confDir, configYAML),
		cmd.CacheIdentifier:  cache,
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars(cache)).
		CloneWith(cli.Options.Vars())

	return kong.New(cli, append([]kong.Option{
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.ExplicitGroups([]kong.Group{
			optionsGroup(), cli.Log.group(), cli.Pprof.group(),
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(resolveJSON, filepath.Join(confDir, configJSON)),
		kong.Configuration(resolve, filepath.Join(confDir, configYAML)),
		vars,
	}, opts...)...)
}

// execute parses args and runs the selected command.
func execute(
	ctx context.Context,
	parser *kong.Kong,
	cli *CLI,
	args []string,
) error {
	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSourceFiles(ctx, cli.Source)

	// Apply the logger flags again now that config files have been resolved.
	cli.Log.start(ctx)

	// No-op unless built with tag pprof and a mode is selected.
	defer cli.Pprof.start(ctx)()

	ktx.BindTo(ctx, (*context.Context)(nil))

	return ktx.Run(&cli.Options)
}

func optionsGroup() kong.Group {
	return kong.Group{
		Key:   "calc",
		Title: "Evaluation options",
	}
}
