package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/differannotate/annotation"
	"v.io/x/lib/cmdline"
)

// config holds the flags shared by all subcommands.
type config struct {
	control     string
	cname       string
	treat       string
	names       string
	reference   string
	out         string
	temd        bool
	keepChrom   bool
	parallelism int
	p           float64
	venn        string
}

func registerFlags(cmd *cmdline.Command, c *config) {
	cmd.Flags.StringVar(&c.control, "control", "", "Control GFF3 path (required)")
	cmd.Flags.StringVar(&c.cname, "cname", "control", "Name of the control source")
	cmd.Flags.StringVar(&c.treat, "treat", "", "Comma-separated list of treatment GFF3 paths (required)")
	cmd.Flags.StringVar(&c.names, "names", "", "Comma-separated list of treatment names, one per -treat path. Defaults to the paths")
	cmd.Flags.StringVar(&c.reference, "reference", "", `Reference FASTA path.  Used only if <reference>.fai exists,
in which case the index lengths bound every chromosome`)
	cmd.Flags.StringVar(&c.out, "out", "", "Output TSV path.  Defaults to stdout")
	cmd.Flags.BoolVar(&c.temd, "temd", false, "Also report transposable elements by order and superfamily")
	cmd.Flags.BoolVar(&c.keepChrom, "keep-chrom", false, "Keep chromosome, contig and supercontig records")
	cmd.Flags.IntVar(&c.parallelism, "parallelism", annotation.DefaultOpts.Parallelism, "Number of reference readers; 0 = runtime.NumCPU()")
}

// treatments returns the (path, name) pairs of the treatment sources.
func (c *config) treatments() (paths, names []string, err error) {
	if c.control == "" || c.treat == "" {
		return nil, nil, fmt.Errorf("-control and -treat are required")
	}
	paths = strings.Split(c.treat, ",")
	if c.names == "" {
		return paths, paths, nil
	}
	names = strings.Split(c.names, ",")
	if len(names) != len(paths) {
		return nil, nil, fmt.Errorf("-names has %d entries, but -treat has %d", len(names), len(paths))
	}
	return paths, names, nil
}

func (c *config) opts() annotation.Opts {
	opts := annotation.DefaultOpts
	opts.ReferencePath = c.reference
	opts.Parallelism = c.parallelism
	if !c.keepChrom {
		opts.ExcludeTypes = annotation.ChromosomeTypes
	}
	return opts
}

func newCmdBases() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "bases",
		Short: "Compare annotations base by base",
		Long: `
For every shared chromosome, feature type (and with -temd, transposable element
order and superfamily) and strand mode, bases reports the TP, FP, TN and FN
base counts of each treatment against the control, with sensitivity,
specificity and precision.`,
	}
	c := config{}
	registerFlags(cmd, &c)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 0 {
			return fmt.Errorf("bases takes no positional arguments, but got %v", argv)
		}
		return runBases(vcontext.Background(), &c)
	})
	return cmd
}

func newCmdIntervals() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "intervals",
		Short: "Compare annotations feature by feature",
		Long: `
Features of a treatment agree with features of the control when they
reciprocally overlap by at least -p percent.  For the same keys as 'bases',
intervals reports the TP, FP and FN feature counts of each treatment, with
sensitivity and precision.  With one or two treatments, -venn writes the
Venn region counts of the control and treatments.`,
	}
	c := config{}
	registerFlags(cmd, &c)
	cmd.Flags.Float64Var(&c.p, "p", 90, "Minimum reciprocal overlap percentage, in [1,100]")
	cmd.Flags.StringVar(&c.venn, "venn", "", "Output TSV path of the Venn region counts.  Not written by default")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 0 {
			return fmt.Errorf("intervals takes no positional arguments, but got %v", argv)
		}
		return runIntervals(vcontext.Background(), &c)
	})
	return cmd
}

func newCmdComposition() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "composition",
		Short: "Summarize feature lengths and base composition",
		Long: `
For the same keys as 'bases', composition reports the number of distinct
features of every source, including the control, with their mean length and
mean A, T, G and C fractions.  It requires -reference and its .fai index.`,
	}
	c := config{}
	registerFlags(cmd, &c)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 0 {
			return fmt.Errorf("composition takes no positional arguments, but got %v", argv)
		}
		return runComposition(vcontext.Background(), &c)
	})
	return cmd
}

func newCmdIndex() *cmdline.Command {
	return &cmdline.Command{
		Name:     "index",
		Short:    "Index a reference FASTA file",
		ArgsName: "fasta",
		Long: `
index writes <fasta>.fai, which -reference requires, and prints the name and
length of each sequence.`,
		Runner: cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
			if len(argv) != 1 {
				return env.UsageErrorf("index takes one FASTA path, but got %v", argv)
			}
			return runIndex(vcontext.Background(), argv[0], env.Stdout)
		}),
	}
}

// Run is the entry point of bio-differannotate.
func Run() {
	shutdown := grail.Init()
	cmdline.HideGlobalFlagsExcept()
	env := cmdline.EnvFromOS()
	err := cmdline.ParseAndRun(
		&cmdline.Command{
			Name:     "bio-differannotate",
			Short:    "Compare genome annotations against a control",
			LookPath: false,
			Children: []*cmdline.Command{
				newCmdBases(),
				newCmdIntervals(),
				newCmdComposition(),
				newCmdIndex(),
			},
		}, env, os.Args[1:])
	shutdown()
	os.Exit(cmdline.ExitCode(err, env.Stderr))
}
