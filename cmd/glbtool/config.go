package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/Faultbox/glbkit/internal/config"
)

func cmdConfig(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: glbtool config <init|show> [options]")
		return 1
	}

	var err error
	switch args[0] {
	case "init":
		fs := flag.NewFlagSet("config init", flag.ExitOnError)
		force := fs.Bool("force", false, "Overwrite an existing file")
		fs.Parse(args[1:])
		err = configInit(os.Stdout, fs.Arg(0), *force)
	case "show":
		err = configShow(os.Stdout, firstArg(args[1:]))
	default:
		err = fmt.Errorf("unknown config command: %s", args[0])
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// configInit writes the default configuration to path, or to the user's
// config directory when path is empty.
func configInit(w io.Writer, path string, force bool) error {
	cfg := config.Default()
	var err error
	if path == "" {
		path = config.DefaultPath()
		err = cfg.Save(force)
	} else {
		err = cfg.SaveTo(path, force)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Wrote: %s\n", path)
	return nil
}

// configShow prints the effective configuration read from path, or from the
// file glbview would pick up when path is empty.
func configShow(w io.Writer, path string) error {
	if path == "" {
		path = config.FindFile()
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return err
	}

	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	if path == "" {
		fmt.Fprintln(w, "# no config file found, showing defaults")
	} else {
		fmt.Fprintf(w, "# %s\n", path)
	}
	_, err = w.Write(data)
	return err
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
