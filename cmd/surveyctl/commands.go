package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"survey-app/internal/geocache"
	"survey-app/internal/models"
	"survey-app/internal/repository"
	"survey-app/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

func projectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List and create survey projects",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			names, err := e.registry.List(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list projects: %w", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PROJECT\tRECORDS")
			for _, name := range names {
				records, err := e.store.Load(context.Background(), name)
				if err != nil {
					fmt.Fprintf(w, "%s\t%s\n", name, "corrupt")
					continue
				}
				fmt.Fprintf(w, "%s\t%d\n", name, len(records))
			}
			return w.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "create [name]",
		Short: "Create an empty project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			name, err := e.registry.Create(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to create project: %w", err)
			}
			fmt.Printf("✓ Created project %s\n", name)
			fmt.Printf("  File: %s\n", e.store.Path(name))
			return nil
		},
	})

	return cmd
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import a CSV table into a project",
		Long: `Validate a CSV table and, with --mode, merge it into or replace a project.
Without --mode only the validation runs and nothing is written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			project, _ := cmd.Flags().GetString("project")
			mode, _ := cmd.Flags().GetString("mode")

			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			if _, err := e.useProject(ctx, project); err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open file: %w", err)
			}
			defer f.Close()

			svc := service.NewTransferService(e.sess, e.store)
			var result service.ImportResult
			switch mode {
			case "":
				preview, err := svc.Preview(ctx, f)
				if err != nil {
					return err
				}
				fmt.Printf("%d records are valid for import into %s\n", preview.Count, preview.Project)
				fmt.Println("Re-run with --mode merge or --mode replace to write them.")
				return nil
			case "merge":
				result, err = svc.Merge(ctx, f)
			case "replace":
				result, err = svc.Replace(ctx, f)
			default:
				return fmt.Errorf("unknown mode %q (use merge or replace)", mode)
			}
			if err != nil {
				return err
			}

			fmt.Printf("✓ %s: imported %d records into %s (%d total)\n",
				result.Mode, result.Imported, result.Project, result.Total)
			return nil
		},
	}
	cmd.Flags().StringP("project", "p", "", "target project (default from config)")
	cmd.Flags().StringP("mode", "m", "", "merge or replace; empty only validates")
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a project as CSV with a byte order mark",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			project, _ := cmd.Flags().GetString("project")
			out, _ := cmd.Flags().GetString("out")

			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			if _, err := e.useProject(ctx, project); err != nil {
				return err
			}

			export, err := service.NewTransferService(e.sess, e.store).Export(ctx)
			if err != nil {
				return err
			}
			if out == "" {
				out = export.Filename
			}
			if out == "-" {
				_, err = os.Stdout.Write(export.Data)
				return err
			}
			if err := os.WriteFile(out, export.Data, 0o644); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}
			fmt.Printf("✓ Exported to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringP("project", "p", "", "project to export (default from config)")
	cmd.Flags().StringP("out", "o", "", "output file, - for stdout (default <project>_export.csv)")
	return cmd
}

func overlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "overlay",
		Short: "Manage the cached road overlay",
	}

	download := &cobra.Command{
		Use:   "download",
		Short: "Download roads for a bounding box",
		RunE: func(cmd *cobra.Command, args []string) error {
			var b models.Bounds
			b.South, _ = cmd.Flags().GetFloat64("south")
			b.West, _ = cmd.Flags().GetFloat64("west")
			b.North, _ = cmd.Flags().GetFloat64("north")
			b.East, _ = cmd.Flags().GetFloat64("east")

			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			result, err := e.cache.Download(context.Background(), b)
			if err != nil {
				return err
			}
			if result.Status == geocache.StatusNotFound {
				fmt.Println("No roads found in the bounding box; existing overlay kept.")
				return nil
			}
			fmt.Printf("✓ Saved %d road features to %s\n", result.Features, e.cache.Path())
			return nil
		},
	}
	for _, name := range []string{"south", "west", "north", "east"} {
		download.Flags().Float64(name, 0, name+" edge in decimal degrees")
		_ = download.MarkFlagRequired(name)
	}

	remove := &cobra.Command{
		Use:   "delete",
		Short: "Delete the cached overlay",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			if err := e.cache.Delete(context.Background()); err != nil {
				return err
			}
			fmt.Println("✓ Overlay deleted")
			return nil
		},
	}

	cmd.AddCommand(download, remove)
	return cmd
}

func publishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish a project into PostGIS",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			project, _ := cmd.Flags().GetString("project")

			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			if e.cfg.DBSource == "" {
				return fmt.Errorf("db_source is not configured")
			}
			if _, err := e.useProject(ctx, project); err != nil {
				return err
			}

			conn, err := pgxpool.New(ctx, e.cfg.DBSource)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer conn.Close()

			repo := repository.NewPostgresRepository(conn)
			if err := repo.EnsureSchema(ctx); err != nil {
				return err
			}

			result, err := service.NewPublishService(e.sess, e.store, repo).Publish(ctx)
			if err != nil {
				return err
			}

			count, err := repo.CountPublished(ctx, result.Project)
			if err != nil {
				return fmt.Errorf("failed to verify publication: %w", err)
			}
			if count != result.Published {
				return fmt.Errorf("record count mismatch: expected %d, got %d", result.Published, count)
			}

			fmt.Printf("✓ Published %d records of %s (%d without coordinates skipped)\n",
				result.Published, result.Project, result.Skipped)
			return nil
		},
	}
	cmd.Flags().StringP("project", "p", "", "project to publish (default from config)")
	return cmd
}
