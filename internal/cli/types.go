package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
	"github.com/spf13/cobra"

	"github.com/roach88/memtrans/internal/cell"
	"github.com/roach88/memtrans/internal/display"
	"github.com/roach88/memtrans/internal/num"
)

// TypeInfo describes one representation.
type TypeInfo struct {
	Index   int    `json:"index"`
	Name    string `json:"name"`
	Size    int    `json:"size"`
	Min     string `json:"min"`
	Max     string `json:"max"`
	Default string `json:"default"`
}

// TypesTable is every representation in index order.
type TypesTable []TypeInfo

const typesRow = "%-3v  %-13s  %4v  %-24s  %-24s  %s\n"

func (t TypesTable) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, typesRow, "IDX", "NAME", "SIZE", "MIN", "MAX", "DEFAULT")
	for _, info := range t {
		fmt.Fprintf(&b, typesRow, info.Index, info.Name, info.Size, info.Min, info.Max, info.Default)
	}
	return b.String()
}

// NewTypesCommand creates the types command.
func NewTypesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the cell representations",
		Long: `List the 13 representations with their index, size in bytes, legal
range and the value each cell holds at startup.

The index is what "type <n>" accepts in the console.

Examples:
  memtrans types
  memtrans types --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return newFormatter(cmd, rootOpts).Success(BuildTypesTable())
		},
	}
}

// BuildTypesTable describes every representation.
func BuildTypesTable() TypesTable {
	table := make(TypesTable, 0, cell.Count)
	for _, r := range cell.All() {
		lim := cell.Limits(r)
		table = append(table, TypeInfo{
			Index:   int(r),
			Name:    r.String(),
			Size:    r.Size(),
			Min:     limitText(r, lim.Min),
			Max:     limitText(r, lim.Max),
			Default: display.FormatValue(r, cell.DefaultValue(r)),
		})
	}
	return table
}

// limitText prints real bounds in shortest exponent form; six fixed
// decimals of 1e308 are unreadable.
func limitText(r cell.Representation, v *apd.Decimal) string {
	switch r {
	case cell.Float:
		return strconv.FormatFloat(num.ToFloat64(v), 'g', -1, 32)
	case cell.Double:
		return strconv.FormatFloat(num.ToFloat64(v), 'g', -1, 64)
	}
	return display.FormatValue(r, v)
}
