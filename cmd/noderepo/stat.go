package main

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var statCmd = &cobra.Command{
	Use:   "stat <path>",
	Short: "Show a node's type and property values",
	Long: `Stat resolves the node at the given path and prints its node type,
type flags, and every property defined for it with its current value.

Example:
  noderepo stat /etc/hosts`,
	Args: cobra.ExactArgs(1),
	RunE: runStat,
}

func runStat(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	node := repo.Node(args[0])
	nodeType, err := node.Type(ctx)
	if err != nil {
		return fmt.Errorf("stat %s: %w", node.Path(), err)
	}

	fmt.Printf("path: %s\n", node.Path())
	fmt.Printf("name: %s\n", node.Name())
	fmt.Printf("type: %s%s\n", nodeType.Name(), typeFlags(nodeType.Abstract(), nodeType.Mutable(), nodeType.Ordered()))

	properties, err := node.Properties(ctx)
	if err != nil {
		return err
	}

	for _, property := range properties {
		value, err := property.Value(ctx)
		if err != nil {
			fmt.Printf("  %-12s (unreadable: %v)\n", property.Name(), err)
			continue
		}
		fmt.Printf("  %-12s %s\n", property.Name(), formatValue(value))
	}

	return nil
}

func typeFlags(abstract, mutable, ordered bool) string {
	flags := ""
	if abstract {
		flags += " abstract"
	}
	if mutable {
		flags += " mutable"
	}
	if ordered {
		flags += " ordered"
	}
	return flags
}

func formatValue(value any) string {
	switch v := value.(type) {
	case time.Time:
		return fmt.Sprintf("%s (%s)", v.Format(time.RFC3339), humanize.Time(v))
	case string:
		if len(v) > 64 {
			return fmt.Sprintf("%q... (%s)", v[:64], humanize.IBytes(uint64(len(v))))
		}
		return fmt.Sprintf("%q", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
