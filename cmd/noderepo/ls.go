package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/fernwick/noderepo/pkg/noderepo"
)

var lsLong bool

var lsCmd = &cobra.Command{
	Use:   "ls [path]",
	Short: "List the children of a node",
	Long: `List the child nodes of the node at the given path (the root when
omitted), with their node type names. With -l, sizes and modification
times are shown in human-readable form.

Example:
  noderepo ls /
  noderepo --root /var/log ls -l /nginx`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLs,
}

func init() {
	lsCmd.Flags().BoolVarP(&lsLong, "long", "l", false, "show size and modification time")
}

func runLs(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	path := "/"
	if len(args) == 1 {
		path = args[0]
	}

	node := repo.Node(path)
	children, err := node.Nodes(ctx)
	if err != nil {
		return fmt.Errorf("list %s: %w", node.Path(), err)
	}

	for _, child := range children {
		childType, err := child.Type(ctx)
		if err != nil {
			// The backing store may have changed between listing and typing.
			if errors.Is(err, noderepo.ErrNotFound) {
				slog.Warn("child vanished during listing", "path", child.Path())
				continue
			}
			return err
		}

		if !lsLong {
			fmt.Printf("%-14s %s\n", childType.Name(), child.Name())
			continue
		}
		fmt.Printf("%-14s %10s  %-14s %s\n", childType.Name(), childSize(ctx, child), childMtime(ctx, child), child.Name())
	}

	return nil
}

func childSize(ctx context.Context, node *noderepo.Node) string {
	value, err := node.Property("fs:size").Value(ctx)
	if err != nil {
		return "-"
	}
	size, ok := value.(int64)
	if !ok || size < 0 {
		return "-"
	}
	return humanize.IBytes(uint64(size))
}

func childMtime(ctx context.Context, node *noderepo.Node) string {
	value, err := node.Property("fs:mtime").Value(ctx)
	if err != nil {
		return "-"
	}
	mtime, ok := value.(time.Time)
	if !ok {
		return "-"
	}
	return humanize.Time(mtime)
}
