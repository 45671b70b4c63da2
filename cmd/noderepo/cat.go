package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/fernwick/noderepo/pkg/noderepo"
)

var catCmd = &cobra.Command{
	Use:   "cat <propertyPath>",
	Short: "Stream a property to stdout",
	Long: `Cat opens a read handle over the property at the given path
(<nodePath>/<ns:localName>) and copies it to stdout.

Example:
  noderepo cat /etc/hostname/fs:content`,
	Args: cobra.ExactArgs(1),
	RunE: runCat,
}

func runCat(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	parent, name := noderepo.SplitPath(args[0])
	property := repo.Node(parent).Property(name)

	handle, err := property.Handle(ctx, noderepo.ModeRead)
	if err != nil {
		return fmt.Errorf("cat %s: %w", property.Path(), err)
	}
	defer handle.Close()

	if _, err := io.Copy(os.Stdout, handle); err != nil {
		return fmt.Errorf("cat %s: %w", property.Path(), err)
	}
	return nil
}
