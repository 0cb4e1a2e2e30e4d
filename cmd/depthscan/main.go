// Command depthscan inspects depth buffer dumps and runs height scans
// against a synthetic scene.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/banshee-data/depthkit/internal/fsutil"
	"github.com/banshee-data/depthkit/internal/monitoring"
	"github.com/banshee-data/depthkit/internal/security"
	"github.com/banshee-data/depthkit/internal/version"
)

// errUsage marks errors that should be followed by the usage text.
var errUsage = errors.New("usage")

type command struct {
	name  string
	brief string
	run   func(c *cli, args []string) error
}

var commands = []command{
	{"synth", "Render the synthetic box scene to depth and confidence dumps", (*cli).synth},
	{"sample", "Sample a dump at a normalized coordinate or a viewport tap", (*cli).sample},
	{"extract", "Export every sample of a dump as little-endian float32", (*cli).extract},
	{"confidence", "Remap a confidence dump to an 8-bit intensity plane", (*cli).confidence},
	{"stats", "Print summary statistics of a dump as JSON", (*cli).stats},
	{"heatmap", "Render a dump as a PNG heat map", (*cli).heatmap},
	{"histogram", "Render a dump's value distribution as an HTML page", (*cli).histogram},
	{"transform", "Print the screen transform stages for an orientation", (*cli).transform},
	{"overlay", "Transform and crop a dump to a viewport and render it as PNG", (*cli).overlay},
	{"measure", "Measure the height of the synthetic box", (*cli).measure},
	{"history", "List logged measurements or samples", (*cli).history},
}

// cli carries the streams and file access shared by every subcommand.
type cli struct {
	out    io.Writer
	errOut io.Writer
	fs     fsutil.FileSystem
	// checkOutput vets every path a command is about to write.
	checkOutput func(path string) error
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// run executes the command line against the real filesystem. Outputs must
// land under the working directory or the temp directory.
func run(args []string, stdout, stderr io.Writer) error {
	c := &cli{
		out:    stdout,
		errOut: stderr,
		fs:     fsutil.OSFileSystem{},
		checkOutput: func(path string) error {
			return security.ValidateOutputPath(path)
		},
	}
	return c.run(args)
}

// run parses global flags and dispatches to a subcommand.
func (c *cli) run(args []string) error {
	stdout, stderr := c.out, c.errOut

	fs := flag.NewFlagSet("depthscan", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { c.usage() }
	verbose := fs.Bool("v", false, "Enable verbose diagnostics")
	showVersion := fs.Bool("version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if *showVersion {
		fmt.Fprintln(stdout, version.String("depthscan"))
		return nil
	}
	monitoring.SetVerbose(*verbose)

	if fs.NArg() < 1 {
		c.usage()
		return errUsage
	}
	name, rest := fs.Arg(0), fs.Args()[1:]
	if name == "version" {
		fmt.Fprintln(stdout, version.String("depthscan"))
		return nil
	}
	if name == "help" {
		c.usage()
		return nil
	}
	for _, cmd := range commands {
		if cmd.name != name {
			continue
		}
		err := cmd.run(c, rest)
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(stderr, "depthscan %s: %v\n", name, err)
		}
		return err
	}
	fmt.Fprintf(stderr, "Unknown command: %s\n\n", name)
	c.usage()
	return errUsage
}

func (c *cli) usage() {
	fmt.Fprintln(c.errOut, "depthscan - depth buffer inspection and height scanning")
	fmt.Fprintln(c.errOut)
	fmt.Fprintln(c.errOut, "Usage: depthscan [-v] [-version] <command> [options]")
	fmt.Fprintln(c.errOut)
	fmt.Fprintln(c.errOut, "Commands:")
	for _, cmd := range commands {
		fmt.Fprintf(c.errOut, "  %-11s %s\n", cmd.name, cmd.brief)
	}
	fmt.Fprintf(c.errOut, "  %-11s %s\n", "version", "Show depthscan version")
	fmt.Fprintf(c.errOut, "  %-11s %s\n", "help", "Show this help message")
	fmt.Fprintln(c.errOut)
	fmt.Fprintln(c.errOut, "Run 'depthscan <command> -h' for command options.")
}

// newFlagSet returns a subcommand flag set that reports errors instead of
// exiting.
func (c *cli) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	return fs
}

// required fails with errUsage when any of the named string flags is empty.
func required(fs *flag.FlagSet, names ...string) error {
	for _, n := range names {
		if f := fs.Lookup(n); f == nil || f.Value.String() == "" {
			return fmt.Errorf("%w: -%s is required", errUsage, n)
		}
	}
	return nil
}
