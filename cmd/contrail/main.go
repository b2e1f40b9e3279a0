package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bepzi/contrail/config"
	"github.com/bepzi/contrail/format"
	"github.com/bepzi/contrail/modules"
	"github.com/bepzi/contrail/runner"
	"golang.org/x/term"
)

var (
	fExitCode = flag.Int("e", 255, "The exit code of the last-executed command.")
	fConfig   = flag.String("c", "", "The configuration file. Defaults to ~/.config/contrail/config.toml.")
	fZsh      = flag.Bool("z", false, "Render zsh prompt escapes instead of bash ones.")
	fGenerate = flag.Bool("g", false, "Generate a commented default configuration file at the path given by -c, then exit.")
	fReport   = flag.Bool("report", false, "Instead of a prompt, run every command-backed module and print a composite report.")
	fTimeout  = flag.Duration("timeout", 0, "Bound the whole render. Modules still running at the deadline are dropped from the prompt, or marked in the report. Overrides the config file.")
	fVersion  = flag.Bool("version", false, "Display the version and exit.")
)

// Long-form aliases share storage with their short flags.
func init() {
	flag.IntVar(fExitCode, "exit-code", 255, "Same as -e.")
	flag.StringVar(fConfig, "config", "", "Same as -c.")
	flag.BoolVar(fZsh, "zsh", false, "Same as -z.")
	flag.BoolVar(fGenerate, "generate-config", false, "Same as -g.")
}

func main() {
	flag.Parse()

	if *fVersion {
		fmt.Println(versionText())
		os.Exit(0)
	}

	if *fGenerate {
		path, err := config.Generate(*fConfig)
		if err != nil {
			fatal(err)
		}
		fmt.Println("wrote", path)
		os.Exit(0)
	}

	cfg, err := config.Load(*fConfig)
	if err != nil {
		fatal(err)
	}
	if *fZsh {
		cfg.Global.Shell = "zsh"
	}

	timeout := cfg.Timeout()
	if *fTimeout > 0 {
		timeout = *fTimeout
	}

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGHUP, syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	if *fReport {
		err = report(ctx, cfg, timeout)
	} else {
		err = prompt(ctx, cfg, timeout)
	}
	if err != nil {
		fatal(err)
	}
}

func prompt(ctx context.Context, cfg config.Config, timeout time.Duration) error {
	ms, err := modules.FromConfig(cfg, *fExitCode)
	if err != nil {
		return err
	}

	results, err := runner.Run(ctx, modules.Producers(ms), timeout)
	if err != nil {
		return err
	}

	segments, err := modules.Segments(ms, results)
	if err != nil {
		return err
	}

	fmt.Print(format.Prompt(segments, format.ParseShell(cfg.Global.Shell)))
	return nil
}

func report(ctx context.Context, cfg config.Config, timeout time.Duration) error {
	results, err := runner.Run(ctx, modules.Commands(cfg), timeout)
	if err != nil {
		return err
	}

	width, colored := 0, false
	if fd := int(os.Stdout.Fd()); term.IsTerminal(fd) {
		colored = true
		if w, _, err := term.GetSize(fd); err == nil {
			width = w
		}
	}

	fmt.Print(format.Report(results, width, colored))
	return nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "contrail:", err)
	os.Exit(1)
}
