// species.go species command code
package species

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tphakala/nestwatch-go/internal/species"
)

// Command creates the species subcommand which lists the supported species
// codes and their names.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "species",
		Short: "List supported species codes",
		Run: func(cmd *cobra.Command, args []string) {
			for _, code := range species.Codes() {
				sp, _ := species.Lookup(code)
				fmt.Printf("%s  %-24s %s\n", sp.Code, sp.ScientificName, sp.CommonName)
			}
		},
	}
}
