package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"

	"aspgrounder/internal/config"
	"aspgrounder/internal/debugmode"
	aerrors "aspgrounder/internal/errors"
	"aspgrounder/internal/ground"
	"aspgrounder/internal/parser"
	"aspgrounder/repl"
)

func main() {
	configPath := flag.String("config", "", "path to groundcli.toml (default: ./groundcli.toml if present)")
	debug := flag.Bool("debug", false, "enable debug mode (extra invariant checks, verbose logging)")
	timeout := flag.Int("timeout", 0, "grounding deadline in seconds (0 = none)")
	maxRules := flag.Int("max-rules", 0, "abort once the ground program exceeds this many statements (0 = unlimited)")
	interactive := flag.Bool("repl", false, "start an interactive read-ground-print loop")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		color.Red("Failed to load config: %s", err)
		os.Exit(1)
	}
	if *debug || cfg.Debug {
		debugmode.SetEnabled(true)
	}
	if cfg.NoColor {
		color.NoColor = true
	}
	if *timeout == 0 {
		*timeout = cfg.TimeoutSeconds
	}
	if *maxRules == 0 {
		*maxRules = cfg.MaxGroundRules
	}

	if *interactive || flag.NArg() == 0 {
		if flag.NArg() == 0 && !*interactive {
			fmt.Println("Usage: groundcli [flags] <file.lp>  (or -repl)")
		}
		repl.Start(os.Stdin, os.Stdout)
		return
	}

	path := flag.Arg(0)
	source, err := os.ReadFile(path)
	if err != nil {
		color.Red("Failed to read file: %s", err)
		os.Exit(1)
	}

	program, err := parser.ParseProgram(path, string(source))
	if err != nil {
		report(string(source), err)
		os.Exit(1)
	}

	ctx := context.Background()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(*timeout)*time.Second)
		defer cancel()
	}

	groundProgram, err := ground.Ground(ctx, program, ground.Options{MaxGroundRules: *maxRules})
	if err != nil {
		report(string(source), err)
		os.Exit(1)
	}

	fmt.Println(groundProgram.String())
	color.Green("✅ Successfully grounded %s (%d statements)", path, groundProgram.Len())
}

// report renders a grounder error caret-style against its source when it
// carries a position, falling back to the plain message otherwise.
func report(src string, err error) {
	if ge, ok := err.(*aerrors.Error); ok {
		reporter := aerrors.NewReporter(src)
		reporter.NoColor = color.NoColor
		fmt.Fprint(os.Stderr, reporter.Report(ge))
		return
	}
	color.Red("%s", err)
}
