// Command wasm2spvc is the Wasm-to-SPIR-V translator CLI.
//
// Usage:
//
//	wasm2spvc -c config.json [options] <input.wasm>
//
// Examples:
//
//	wasm2spvc -c saxpy.json kernel.wasm            # Translate to stdout
//	wasm2spvc -c saxpy.json -o kernel.spv kernel.wasm
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/debug"

	wasm2spirv "github.com/gogpu/wasm2spirv"
)

var (
	configPath  = flag.String("c", "", "compilation configuration JSON file (required)")
	output      = flag.String("o", "", "output file (default: stdout)")
	versionFlag = flag.Bool("version", false, "print version")
)

// version returns the module version from build info.
func version() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			return info.Main.Version
		}
	}
	return "dev"
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if *versionFlag {
		fmt.Printf("wasm2spvc version %s\n", version())
		return
	}

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		usage()
		os.Exit(1)
	}
	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -c <config.json> is required")
		usage()
		os.Exit(1)
	}

	inputPath := args[0]

	wasmBytes, err := os.ReadFile(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		os.Exit(1)
	}
	configBytes, err := os.ReadFile(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading config: %v\n", err)
		os.Exit(1)
	}

	spirvBytes, err := wasm2spirv.CompileJSON(wasmBytes, configBytes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Translation error: %v\n", err)
		os.Exit(1)
	}

	if *output != "" {
		if err := os.WriteFile(*output, spirvBytes, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Successfully translated %s to %s (%d bytes)\n", inputPath, *output, len(spirvBytes))
	} else {
		if _, err := os.Stdout.Write(spirvBytes); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			os.Exit(1)
		}
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: wasm2spvc -c config.json [options] <input.wasm>\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  wasm2spvc -c cfg.json kernel.wasm               Translate to stdout\n")
	fmt.Fprintf(os.Stderr, "  wasm2spvc -c cfg.json -o kernel.spv kernel.wasm Translate to file\n")
}
