// Command psl is the CLI surface spec.md section 6 describes: it takes a
// host string and an optional --policy flag, writes the registrable domain
// to stdout, and exits 0 on success, 1 on resolution failure, 2 on invalid
// input. It is grounded on the teacher's examples/demo.go entry point and
// print.go's colorized result printer, rebuilt on cobra (the teacher's
// go.mod lists cobra but its own code never imports it) instead of bare
// flag parsing.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/go-psl/psl"
	"github.com/go-psl/psl/internal/cache"
	"github.com/go-psl/psl/internal/fetch"
)

const (
	exitOK           = 0
	exitUnresolvable = 1
	exitInvalid      = 2

	defaultCacheTTL = 72 * time.Hour
	defaultCacheDir = ".psl-cache"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var policyFlag string

	root := &cobra.Command{
		Use:           "psl <host>",
		Short:         "Resolve a host to its registrable domain against the Public Suffix List",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.Flags().StringVar(&policyFlag, "policy", "cookie", "match policy: cookie|icann|private")

	exitCode := exitOK
	root.RunE = func(cmd *cobra.Command, hostArgs []string) error {
		code, err := resolveAndPrint(cmd, hostArgs[0], policyFlag)
		exitCode = code
		return err
	}

	if err := root.Execute(); err != nil {
		fmt.Fprintln(stderr, err)
		if exitCode == exitOK {
			exitCode = exitInvalid
		}
	}
	return exitCode
}

// ruleSetLoader is how resolveAndPrint obtains a RuleSet. It defaults to
// loadRuleSet's network-plus-cache path; tests override it with an
// in-memory RuleSet so run() can be driven without a network dependency,
// the same seam the teacher gets from taking afero.Fs as a parameter
// instead of calling the os package directly.
var ruleSetLoader = loadRuleSet

func resolveAndPrint(cmd *cobra.Command, hostArg, policyFlag string) (int, error) {
	policy, err := psl.ParsePolicy(policyFlag)
	if err != nil {
		return exitInvalid, err
	}

	rules, err := ruleSetLoader()
	if err != nil {
		return exitInvalid, err
	}

	host, err := psl.NewHost(&hostArg, psl.NontransitionalToASCII, psl.NontransitionalToUnicode)
	if err != nil {
		return exitInvalid, err
	}

	resolved, err := rules.Resolve(host, policy)
	if err != nil {
		if errors.Is(err, psl.ErrInvalidDomain) || errors.Is(err, psl.ErrInvalidLabel) {
			return exitInvalid, err
		}
		return exitUnresolvable, err
	}

	printResult(cmd.OutOrStdout(), hostArg, resolved)
	return exitOK, nil
}

// loadRuleSet fetches the Public Suffix List through the fetch/cache
// collaborators named in spec.md section 6: a cache hit skips the network
// round trip entirely, a miss fetches fresh text and populates the cache
// for next time.
func loadRuleSet() (*psl.RuleSet, error) {
	fs := afero.NewOsFs()
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = os.TempDir()
	}
	c := cache.New(fs, cacheDir+string(os.PathSeparator)+defaultCacheDir, defaultCacheTTL)

	client := fetch.New()
	const cacheKey = "public_suffix_list.dat"

	if snap, ok := c.Fetch(cacheKey); ok {
		return psl.FromSnapshot(*snap), nil
	}

	text, err := client.Get()
	if err != nil {
		return nil, err
	}
	rules, err := psl.FromText(text)
	if err != nil {
		return nil, err
	}
	c.Store(cacheKey, rules.ToSnapshot())
	return rules, nil
}

// printResult writes the registrable domain to w, per spec.md section 6's
// CLI contract, plus the suffix/sub-domain breakdown the teacher's
// print.go showed for every extracted field, colorized the same way.
func printResult(w io.Writer, host string, r psl.ResolvedDomain) {
	labelColor := color.New(color.FgHiYellow, color.Bold)
	valueColor := color.New(color.FgHiWhite)

	registrable := ""
	if content := r.Registrable().Content(); content != nil {
		registrable = *content
	}
	fmt.Fprintln(w, registrable)

	labelColor.Fprint(w, "           suffix: ")
	if content := r.Suffix().Content(); content != nil {
		valueColor.Fprintf(w, "%s (%s)\n", *content, r.Suffix().Section())
	} else {
		valueColor.Fprintln(w, "")
	}

	labelColor.Fprint(w, "       sub-domain: ")
	if content := r.SubDomain().Content(); content != nil {
		valueColor.Fprintln(w, *content)
	} else {
		valueColor.Fprintln(w, "")
	}
}
