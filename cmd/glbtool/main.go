// glbtool is a CLI utility for inspecting, validating and packing binary glTF files.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/Faultbox/glbkit/internal/logger"
	"github.com/Faultbox/glbkit/pkg/glb"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	if err := logger.Init(logLevel(), ""); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	var code int
	switch command {
	case "inspect", "info":
		code = cmdInspect(args)
	case "validate", "check":
		code = cmdValidate(args)
	case "pack":
		code = cmdPack(args)
	case "config":
		code = cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		code = 1
	}

	logger.Sync()
	os.Exit(code)
}

func printUsage() {
	fmt.Println(`glbtool - binary glTF utility

Usage:
  glbtool <command> [options]

Commands:
  inspect [-skip LIST] <file.glb>         Show primitives, vertex layout and textures
  validate [-skip LIST] <file.glb>...     Decode files and report every failure
  pack <in.gltf> <out.glb>                Convert glTF with external buffers to GLB
  config init [-force] [path]             Write the default glbview configuration
  config show [path]                      Print the effective configuration

Set GLBTOOL_LOG=debug for verbose output.

Examples:
  glbtool inspect models/crate.glb
  glbtool validate -skip TANGENT,COLOR_0 models/*.glb
  glbtool pack scene.gltf scene.glb
  glbtool config init ./glbkit.yaml`)
}

func logLevel() string {
	if lvl := os.Getenv("GLBTOOL_LOG"); lvl != "" {
		return lvl
	}
	return "warn"
}

// decodeFlags registers the flags shared by commands that decode.
func decodeFlags(fs *flag.FlagSet) *string {
	return fs.String("skip", "TANGENT", "Comma-separated vertex attributes to drop")
}

func decodeOptions(path, skip string) glb.Options {
	opts := glb.DefaultOptions(glb.BasePath(path))
	var names []string
	for _, s := range strings.Split(skip, ",") {
		if s = strings.TrimSpace(s); s != "" {
			names = append(names, s)
		}
	}
	opts.Skip = glb.NewSkipSet(names...)
	return opts
}
