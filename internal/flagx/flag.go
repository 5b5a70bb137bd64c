package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs returns the arguments of args that belong to allowedFlags,
// together with their values, in their original order.
//
// Both "-flag value" and "-flag=value" forms are kept. A following argument
// that does not start with "-" is taken as the flag's value, except for
// flags listed in switches: those are boolean and never consume a value,
// so "-c leftover -s prod" keeps "-s prod" parseable.
//
// The result is never nil.
func FilterArgs(args []string, allowedFlags []string, switches ...string) []string {
	allowed := make(map[string]bool, len(allowedFlags)+len(switches))
	for _, f := range allowedFlags {
		allowed[f] = false
	}
	for _, f := range switches {
		allowed[f] = true
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name, _, _ := strings.Cut(arg, "=")
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		isSwitch, ok := allowed[arg]
		if !ok {
			continue
		}
		filtered = append(filtered, arg)

		if !isSwitch && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// Variants returns each flag name in both its "-name" and "--name" form,
// the two spellings the flag package accepts.
func Variants(names ...string) []string {
	out := make([]string, 0, 2*len(names))
	for _, n := range names {
		out = append(out, "-"+n, "--"+n)
	}
	return out
}

// JsonConfigFlags inspects command-line arguments and extracts the config
// file path provided via the -config flag.
//
// Only this flag is parsed; other arguments are ignored. This allows the
// application to safely parse its own flags without interfering with flags
// defined by other packages. The short -c form is not accepted because -c
// selects the create-user action.
//
// If -config is not present, an empty string is returned.
func JsonConfigFlags() string {
	var config string

	args := FilterArgs(os.Args[1:], []string{"-config", "--config"})

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&config, "config", "", "Path to config file")
	_ = fs.Parse(args)

	return config
}
