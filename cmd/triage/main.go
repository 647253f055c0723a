package main

import (
	"context"
	"os"
	"os/signal"
	"strings"

	"triage-cli/internal/cli"
)

func isBufferPath(s string) bool {
	s = strings.TrimSpace(s)
	return len(s) > len(".json") && strings.HasSuffix(strings.ToLower(s), ".json")
}

func rewriteBufferFileArgs(argv []string) []string {
	// Convenience: `triage <file.json>` works like `triage --buffer <file.json>`.
	//
	// Cobra treats the first non-flag token as a subcommand, so we rewrite argv before parsing.
	// Persistent flags may come first (e.g. `triage --server ... work.json`), so we look for the
	// first positional token, not just argv[1].
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--config":   true,
		"--server":   true,
		"--strategy": true,
		"--buffer":   true,
		"--log-file": true,
		"--format":   true,
	}
	boolFlags := map[string]bool{
		"--pretty": true,
		"--debug":  true,
	}

	rewrite := func(i int) []string {
		out := make([]string, 0, len(argv)+1)
		out = append(out, argv[:i]...)
		out = append(out, "--buffer")
		out = append(out, argv[i:]...)
		return out
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			// The "--" is dropped: cobra would read a --buffer after it as a positional.
			if i+1 < len(argv) && isBufferPath(argv[i+1]) {
				out := make([]string, 0, len(argv))
				out = append(out, argv[:i]...)
				out = append(out, "--buffer", argv[i+1])
				return append(out, argv[i+2:]...)
			}
			return argv
		}

		if strings.HasPrefix(a, "-") {
			if strings.Contains(a, "=") || boolFlags[a] {
				continue
			}
			if valueFlags[a] {
				i++ // skip value if present
			}
			continue
		}

		// First positional token.
		if isBufferPath(a) {
			return rewrite(i)
		}
		return argv
	}

	return argv
}

func main() {
	os.Args = rewriteBufferFileArgs(os.Args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.Execute(ctx, cli.NewRootCmd()); err != nil {
		stop()
		os.Exit(1)
	}
}
