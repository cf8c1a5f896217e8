// Package flagx lets several independent parsers share os.Args: each one
// keeps only the flags it owns and ignores the rest.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// Filter returns the subset of args that belongs to the named flags.
// Names are given without dashes; both "-name" and "--name" spellings match,
// in either "-name value" or "-name=value" form. A following token that
// starts with "-" is never consumed as a value.
func Filter(args []string, names ...string) []string {
	owned := make(map[string]struct{}, len(names))
	for _, n := range names {
		owned[strings.TrimLeft(n, "-")] = struct{}{}
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		name, _, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if _, ok := owned[name]; !ok {
			continue
		}

		out = append(out, arg)
		if hasValue {
			continue
		}
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, args[i+1])
			i++
		}
	}
	return out
}

// ConfigPath extracts the JSON config file path given via -c or -config.
// It returns "" when neither flag is present.
func ConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("config-file", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(Filter(args, "c", "config"))

	return path
}
