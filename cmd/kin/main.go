package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func main() {
	if err := runCLI(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCLI(args []string) error {
	if len(args) < 2 {
		return usageError()
	}
	switch args[1] {
	case "eval":
		return evalCommand(args[2:])
	case "repl":
		return runREPL()
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		return usageError()
	}
}

// evalCommand runs type-definition commands from a script file (one
// command per line, # comments) or from a -c string with
// semicolon-separated commands.
func evalCommand(args []string) error {
	fs := flag.NewFlagSet("eval", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	command := fs.String("c", "", "evaluate a command string instead of a script file")
	quiet := fs.Bool("quiet", false, "suppress per-command output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var lines []string
	if *command != "" {
		lines = strings.Split(*command, ";")
	} else {
		remaining := fs.Args()
		if len(remaining) == 0 {
			return errors.New("kin eval: script path or -c required")
		}
		input, err := os.ReadFile(remaining[0])
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		lines = strings.Split(string(input), "\n")
	}

	sess := newSession()
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out, err := sess.exec(line)
		if err != nil {
			return fmt.Errorf("line %d: %w", i+1, err)
		}
		if out != "" && !*quiet {
			fmt.Println(out)
		}
	}
	return nil
}

func usageError() error {
	printUsage()
	return errors.New("invalid command")
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s <command>\n", prog)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  repl")
	fmt.Fprintln(os.Stderr, "    start the interactive type workbench")
	fmt.Fprintln(os.Stderr, "  eval [flags] <script>")
	fmt.Fprintln(os.Stderr, "    run type-definition commands from a file")
	fmt.Fprintln(os.Stderr, "  eval -c \"<cmd>; <cmd>; ...\"")
	fmt.Fprintln(os.Stderr, "    run semicolon-separated commands directly")
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}
