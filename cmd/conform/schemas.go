package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/aretw0/conform/internal/presentation/graph"
	"github.com/aretw0/conform/pkg/schema"
	"github.com/aretw0/conform/pkg/schemadoc"
	"github.com/spf13/cobra"
)

var schemasCmd = &cobra.Command{
	Use:   "schemas",
	Short: "Manage stored schemas",
}

var schemasListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored schema names",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, closeStore, err := openRegistry(cmd.Context())
		defer closeStore()
		if err != nil {
			return err
		}
		names, err := reg.Names(cmd.Context())
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

var schemasShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a stored schema document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, closeStore, err := openRegistry(cmd.Context())
		defer closeStore()
		if err != nil {
			return err
		}

		describe, _ := cmd.Flags().GetBool("describe")
		mermaid, _ := cmd.Flags().GetBool("mermaid")
		if describe || mermaid {
			s, err := reg.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if mermaid {
				fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(args[0], s, nil))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), schema.Describe(s))
			return nil
		}

		doc, err := reg.Document(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(doc)
		return err
	},
}

var schemasPutCmd = &cobra.Command{
	Use:   "put <name> <file>",
	Short: "Store a schema document under a name",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("failed to read schema document: %w", err)
		}
		reg, closeStore, err := openRegistry(cmd.Context())
		defer closeStore()
		if err != nil {
			return err
		}
		if _, err := reg.Put(cmd.Context(), args[0], doc); err != nil {
			return err
		}
		logger.Info("Schema stored", "schema", args[0])
		return nil
	},
}

var schemasDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a stored schema",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, closeStore, err := openRegistry(cmd.Context())
		defer closeStore()
		if err != nil {
			return err
		}
		if err := reg.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		logger.Info("Schema deleted", "schema", args[0])
		return nil
	},
}

var schemasImportCmd = &cobra.Command{
	Use:   "import-openapi <file>",
	Short: "Store the component schemas of an OpenAPI 3 document",
	Long: `Converts every schema under components.schemas of an OpenAPI 3 document and
stores it under its component name, optionally prefixed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prefix, _ := cmd.Flags().GetString("prefix")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read openapi document: %w", err)
		}
		converted, err := schemadoc.FromOpenAPI(data)
		if err != nil {
			return err
		}

		names := make([]string, 0, len(converted))
		for name := range converted {
			names = append(names, name)
		}
		sort.Strings(names)

		if dryRun {
			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "%s%s: %s\n", prefix, name, schema.Describe(converted[name]))
			}
			return nil
		}

		reg, closeStore, err := openRegistry(cmd.Context())
		defer closeStore()
		if err != nil {
			return err
		}
		for _, name := range names {
			if err := reg.PutSchema(cmd.Context(), prefix+name, converted[name]); err != nil {
				return fmt.Errorf("failed to store %s: %w", prefix+name, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), prefix+name)
		}
		logger.Info("OpenAPI schemas imported", "count", len(names), "source", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemasCmd)
	schemasCmd.AddCommand(schemasListCmd, schemasShowCmd, schemasPutCmd, schemasDeleteCmd, schemasImportCmd)

	schemasShowCmd.Flags().Bool("describe", false, "Print the one-line description instead of the document")
	schemasShowCmd.Flags().Bool("mermaid", false, "Print the schema tree as a Mermaid flowchart")
	schemasImportCmd.Flags().String("prefix", "", "Prefix added to every imported schema name")
	schemasImportCmd.Flags().Bool("dry-run", false, "Print the converted schemas without storing them")
}
