package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/richinsley/glcontext/conformance"
	"github.com/richinsley/glcontext/graphics"
	"github.com/richinsley/glcontext/options"
	"github.com/richinsley/glcontext/platform"
)

// runHarness runs the conformance scenario against the platform backend
// and reports whether it passed.
func runHarness(main *graphics.Thread, opts *options.HarnessOptions) bool {
	suite := conformance.Suite{
		Configure: func(caps graphics.Capabilities) conformance.Config {
			// Validated in main.
			cfg, _ := opts.Configure(caps)
			return cfg
		},
	}
	if platform.NeedsMainThread {
		suite.Owner = main
	}

	reports := suite.Run(platform.Backend())
	for _, r := range reports {
		r.Print(os.Stdout)
	}
	return !conformance.Failed(reports)
}

func init() {
	runtime.LockOSThread()
}

func main() {
	opts := options.Register(flag.CommandLine)
	flag.Parse()

	if *opts.Help {
		fmt.Println("GL context conformance harness")
		fmt.Printf("Backend: %s\n", platform.Name)
		flag.PrintDefaults()
		return
	}

	level := slog.LevelInfo
	if *opts.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	graphics.SetLogger(logger)

	// Check the configuration before any window appears.
	if _, err := opts.Configure(graphics.Capabilities{Profiles: []graphics.Profile{graphics.ProfileCore, graphics.ProfileCompat, graphics.ProfileES}}); err != nil {
		slog.Error("Invalid harness configuration", "err", err)
		os.Exit(2)
	}

	ok := true
	graphics.Main(func(main *graphics.Thread) {
		ok = runHarness(main, opts)
	})
	if !ok {
		os.Exit(1)
	}
}
