package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/miyatoshi624/gote/client"
	"github.com/miyatoshi624/gote/state"
)

const defaultLatest = 10

func newSessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Sign in and show the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			ctx, cancel := context.WithTimeout(cmd.Context(), callTimeout)
			defer cancel()

			auth := state.NewAuth(c)
			defer auth.Close()
			if _, err := unwrap(c.SignIn(ctx, password)); err != nil {
				return err
			}
			uid, _ := auth.Current()
			expiry, err := unwrap(c.SessionExpiry())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "User:    %s\n", uid)
			fmt.Fprintf(out, "Expires: %s\n", expiry.Format(time.DateTime+" MST"))
			fmt.Fprintf(out, "Valid:   %t\n", c.IsSessionValid())
			return nil
		},
	}
}

// --------------------------------------------------------------------
// categories
// --------------------------------------------------------------------

func newCategoriesCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "categories", Short: "Manage categories"}
	cmd.AddCommand(newCategoriesListCmd(), newCategoriesAddCmd(), newCategoriesUpdateCmd(), newCategoriesDeleteCmd())
	return cmd
}

// withCategories signs in, loads the category cache and prints it after fn.
func withCategories(cmd *cobra.Command, fn func(ctx context.Context, cache *state.Categories) client.Result[bool]) error {
	return withSession(cmd, func(ctx context.Context, c *client.Client) error {
		cache := state.NewCategories(c)
		if _, err := unwrap(fn(ctx, cache)); err != nil {
			return err
		}
		items, _ := cache.Snapshot()
		printCategories(cmd.OutOrStdout(), items)
		return nil
	})
}

func newCategoriesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCategories(cmd, func(ctx context.Context, cache *state.Categories) client.Result[bool] {
				return cache.Load(ctx)
			})
		},
	}
}

func newCategoriesAddCmd() *cobra.Command {
	var name, description string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a category",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCategories(cmd, func(ctx context.Context, cache *state.Categories) client.Result[bool] {
				return cache.Add(ctx, client.Category{Name: name, Description: description})
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Category name (required)")
	cmd.Flags().StringVar(&description, "description", "", "Description (optional)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newCategoriesUpdateCmd() *cobra.Command {
	var id, name, description string
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Rename a category",
		RunE: func(cmd *cobra.Command, args []string) error {
			catID, err := uuid.Parse(id)
			if err != nil {
				return fmt.Errorf("--id: %w", err)
			}
			return withCategories(cmd, func(ctx context.Context, cache *state.Categories) client.Result[bool] {
				return cache.Update(ctx, client.Category{ID: catID, Name: name, Description: description})
			})
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Category ID (required)")
	cmd.Flags().StringVar(&name, "name", "", "Category name (required)")
	cmd.Flags().StringVar(&description, "description", "", "Description (optional)")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newCategoriesDeleteCmd() *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a category; its memos are kept",
		RunE: func(cmd *cobra.Command, args []string) error {
			catID, err := uuid.Parse(id)
			if err != nil {
				return fmt.Errorf("--id: %w", err)
			}
			return withCategories(cmd, func(ctx context.Context, cache *state.Categories) client.Result[bool] {
				return cache.Delete(ctx, catID)
			})
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Category ID (required)")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func printCategories(w io.Writer, items []client.Category) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tREFERENCED\tDESCRIPTION")
	for _, c := range items {
		fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", c.ID, c.Name, c.IsReferenced, c.Description)
	}
	_ = tw.Flush()
}

// --------------------------------------------------------------------
// memos
// --------------------------------------------------------------------

func newMemosCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "memos", Short: "Manage memos"}
	cmd.AddCommand(
		newMemosListCmd(), newMemosLatestCmd(), newMemosGetCmd(),
		newMemosAddCmd(), newMemosUpdateCmd(), newMemosDeleteCmd(),
	)
	return cmd
}

func newMemosListCmd() *cobra.Command {
	var categoryID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the memos of a category, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			catID, err := uuid.Parse(categoryID)
			if err != nil {
				return fmt.Errorf("--category-id: %w", err)
			}
			return withSession(cmd, func(ctx context.Context, c *client.Client) error {
				memos, err := unwrap(c.GetMemos(ctx, catID))
				if err != nil {
					return err
				}
				printMemos(cmd.OutOrStdout(), memos, c.Location())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&categoryID, "category-id", "", "Category ID (required)")
	_ = cmd.MarkFlagRequired("category-id")
	return cmd
}

func newMemosLatestCmd() *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "latest",
		Short: "List the most recently updated memos",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, c *client.Client) error {
				memos, err := unwrap(c.GetLatestMemos(ctx, count))
				if err != nil {
					return err
				}
				printMemos(cmd.OutOrStdout(), memos, c.Location())
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&count, "count", defaultLatest, "Number of memos")
	return cmd
}

func newMemosGetCmd() *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Print one memo as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			memoID, err := uuid.Parse(id)
			if err != nil {
				return fmt.Errorf("--id: %w", err)
			}
			return withSession(cmd, func(ctx context.Context, c *client.Client) error {
				memo, err := unwrap(c.GetMemo(ctx, memoID))
				if err != nil {
					return err
				}
				if memo == nil {
					return fmt.Errorf("memo %s not found", memoID)
				}
				return printJSON(cmd.OutOrStdout(), memo)
			})
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Memo ID (required)")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newMemosAddCmd() *cobra.Command {
	var categoryID, title, content string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a memo",
		RunE: func(cmd *cobra.Command, args []string) error {
			catID, err := uuid.Parse(categoryID)
			if err != nil {
				return fmt.Errorf("--category-id: %w", err)
			}
			return withSession(cmd, func(ctx context.Context, c *client.Client) error {
				memo, err := unwrap(c.CreateMemo(ctx, client.Memo{CategoryID: catID, Title: title, Content: content}))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Memo created: %s - %s\n", memo.ID, memo.Title)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&categoryID, "category-id", "", "Category ID (required)")
	cmd.Flags().StringVar(&title, "title", "", "Title")
	cmd.Flags().StringVar(&content, "content", "", "Content")
	_ = cmd.MarkFlagRequired("category-id")
	return cmd
}

func newMemosUpdateCmd() *cobra.Command {
	var id, categoryID, title, content string
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Rewrite a memo",
		RunE: func(cmd *cobra.Command, args []string) error {
			memoID, err := uuid.Parse(id)
			if err != nil {
				return fmt.Errorf("--id: %w", err)
			}
			catID, err := uuid.Parse(categoryID)
			if err != nil {
				return fmt.Errorf("--category-id: %w", err)
			}
			return withSession(cmd, func(ctx context.Context, c *client.Client) error {
				memo, err := unwrap(c.UpdateMemo(ctx, client.Memo{ID: memoID, CategoryID: catID, Title: title, Content: content}))
				if err != nil {
					return err
				}
				if memo == nil {
					return fmt.Errorf("memo %s not found", memoID)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Memo updated: %s - %s\n", memo.ID, memo.Title)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Memo ID (required)")
	cmd.Flags().StringVar(&categoryID, "category-id", "", "Category ID (required)")
	cmd.Flags().StringVar(&title, "title", "", "Title")
	cmd.Flags().StringVar(&content, "content", "", "Content")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("category-id")
	return cmd
}

func newMemosDeleteCmd() *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a memo",
		RunE: func(cmd *cobra.Command, args []string) error {
			memoID, err := uuid.Parse(id)
			if err != nil {
				return fmt.Errorf("--id: %w", err)
			}
			return withSession(cmd, func(ctx context.Context, c *client.Client) error {
				if _, err := unwrap(c.DeleteMemo(ctx, memoID)); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Memo deleted: %s\n", memoID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Memo ID (required)")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func printMemos(w io.Writer, memos []client.Memo, loc *time.Location) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCATEGORY\tUPDATED\tTITLE")
	for _, m := range memos {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.ID, m.CategoryID, m.UpdatedAt.In(loc).Format(time.DateTime), m.Title)
	}
	_ = tw.Flush()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
