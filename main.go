// Command geomkit evaluates geometry programs written in a small Lisp and
// reports query results, WKT and GeoJSON renderings, and STL meshes.
package main

import (
	goflag "flag"
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// newRootCmd builds the command tree. Each call returns fresh commands so
// tests can execute them independently.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "geomkit",
		Short: "geomkit: computational geometry toolkit",
		Long: `
geomkit evaluates programs that build points, segments, planes and triangle
surfaces, and answers orientation, intersection and classification queries
about them.
`,
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", "",
		"Configuration file. Takes precedence over default values, but is "+
			"overridden to values set with environment variables and flags.")

	root.AddCommand(newEvalCmd(), newVersionCmd())
	return root
}

func main() {
	// glog registers its flags on the standard flag set; cobra picks them
	// up from pflag.CommandLine.
	flag.CommandLine.AddGoFlagSet(goflag.CommandLine)
	_ = goflag.CommandLine.Parse(nil)
	defer glog.Flush()

	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		glog.Flush()
		os.Exit(1)
	}
}
