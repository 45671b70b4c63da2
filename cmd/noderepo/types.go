package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var typesCmd = &cobra.Command{
	Use:   "types <typeName>...",
	Short: "Describe node or property types",
	Long: `Types resolves each named type against the engine's registry and
prints its definition. For node types this includes the supertypes and the
inheritance-resolved (effective) child and property maps.

Example:
  noderepo types fs:file fs:directory
  noderepo types fs:content`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTypes,
}

func runTypes(cmd *cobra.Command, args []string) error {
	for _, name := range args {
		if nodeType, ok := repo.NodeTypeNamed(name); ok {
			fmt.Printf("node type %s%s\n", nodeType.Name(), typeFlags(nodeType.Abstract(), nodeType.Mutable(), nodeType.Ordered()))
			if supers := nodeType.Supertypes(); len(supers) > 0 {
				fmt.Printf("  supertypes: %s\n", strings.Join(supers, ", "))
			}

			properties, err := nodeType.EffectiveChildProperties()
			if err != nil {
				return err
			}
			for _, propName := range sortedKeys(properties) {
				fmt.Printf("  property %-12s -> %s\n", propName, properties[propName])
			}

			children, err := nodeType.EffectiveChildNodes()
			if err != nil {
				return err
			}
			for _, childName := range sortedChildKeys(children) {
				fmt.Printf("  child    %-12s -> %s\n", childName, strings.Join(children[childName], ", "))
			}
			continue
		}

		if propertyType, ok := repo.PropertyTypeNamed(name); ok {
			fmt.Printf("property type %s\n", propertyType.Name())
			fmt.Printf("  value type:   %s (%s)\n", propertyType.ValueType().Name(), propertyType.ValueType().Kind())
			fmt.Printf("  updatable:    %v\n", propertyType.Updatable())
			fmt.Printf("  removable:    %v\n", propertyType.Removable())
			fmt.Printf("  auto-created: %v\n", propertyType.AutoCreated())
			continue
		}

		return fmt.Errorf("unknown type %q", name)
	}

	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func sortedChildKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
