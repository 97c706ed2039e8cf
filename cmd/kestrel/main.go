package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	flag "github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/kestreldb/kestrel/gateway"
	"github.com/kestreldb/kestrel/registry"
)

func main() {
	var (
		path        = flag.StringP("path", "p", "", "Database file (empty for an in-memory database)")
		script      = flag.StringP("script", "s", "", "SQL script to run")
		scriptFile  = flag.StringP("file", "f", "", "Read the SQL script from a file")
		params      = flag.String("params", "{}", "Query parameters as a JSON object")
		readOnly    = flag.Bool("read-only", false, "Refuse statements that modify the database")
		interactive = flag.BoolP("interactive", "i", false, "Interactive shell")
	)
	flag.Parse()

	if err := run(*path, *script, *scriptFile, *params, *readOnly, *interactive); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(path, script, scriptFile, params string, readOnly, interactive bool) error {
	g := gateway.New()
	h, err := g.Open(path)
	if err != nil {
		return err
	}
	defer g.Close(h)

	if interactive {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("interactive mode requires a terminal")
		}
		return runInteractive(g, h, path, readOnly)
	}

	script, err = resolveScript(script, scriptFile)
	if err != nil {
		return err
	}
	if strings.TrimSpace(script) == "" {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return runInteractive(g, h, path, readOnly)
		}
		return fmt.Errorf("no script given (use -s, -f, or pipe one on stdin)")
	}

	out := execute(g, h, script, params, readOnly)
	fmt.Println(indentJSON(out.Payload))
	if out.Errored {
		os.Exit(1)
	}
	return nil
}

func resolveScript(script, scriptFile string) (string, error) {
	if script != "" {
		return script, nil
	}
	if scriptFile != "" {
		data, err := os.ReadFile(scriptFile)
		if err != nil {
			return "", fmt.Errorf("read script: %w", err)
		}
		return string(data), nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	return "", nil
}

func execute(g *gateway.Gateway, h registry.Handle, script, params string, readOnly bool) gateway.Outcome {
	ctx := context.Background()
	if readOnly {
		return g.RunReadOnly(ctx, h, script, params)
	}
	return g.Run(ctx, h, script, params)
}

func indentJSON(s string) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(s), "", "  "); err != nil {
		return s
	}
	return buf.String()
}
