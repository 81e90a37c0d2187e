package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/f3rmion/gematria/internal/config"
	"github.com/f3rmion/gematria/internal/store"
)

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage tags for saved calculations",
	Long: `Create, list, update and delete tags, and attach them to saved calculations.

Deleting a tag removes it from every calculation but keeps the calculations.

Examples:
  gem tag create psalms --color "#4ecdc4"
  gem tag add 1a2b3c4d psalms
  gem history list --tag psalms`,
}

var tagCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a tag",
	Args:  cobra.ExactArgs(1),
	RunE:  runTagCreate,
}

var tagListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tags",
	Args:    cobra.NoArgs,
	RunE:    runTagList,
}

var tagUpdateCmd = &cobra.Command{
	Use:   "update <id|name>",
	Short: "Rename or recolor a tag",
	Args:  cobra.ExactArgs(1),
	RunE:  runTagUpdate,
}

var tagDeleteCmd = &cobra.Command{
	Use:     "delete <id|name>",
	Aliases: []string{"rm"},
	Short:   "Delete a tag",
	Args:    cobra.ExactArgs(1),
	RunE:    runTagDelete,
}

var tagAddCmd = &cobra.Command{
	Use:   "add <calculation-id> <tag>...",
	Short: "Tag a saved calculation",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runTagAdd,
}

var tagRemoveCmd = &cobra.Command{
	Use:   "remove <calculation-id> <tag>...",
	Short: "Remove tags from a saved calculation",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runTagRemove,
}

var (
	tagColor       string
	tagDescription string
	tagName        string
)

func init() {
	rootCmd.AddCommand(tagCmd)
	tagCmd.AddCommand(tagCreateCmd, tagListCmd, tagUpdateCmd, tagDeleteCmd, tagAddCmd, tagRemoveCmd)

	tagCreateCmd.Flags().StringVarP(&tagColor, "color", "c", store.DefaultTagColor, "color as #RRGGBB")
	tagCreateCmd.Flags().StringVarP(&tagDescription, "description", "d", "", "description")

	tagUpdateCmd.Flags().StringVar(&tagName, "name", "", "new name")
	tagUpdateCmd.Flags().StringVarP(&tagColor, "color", "c", "", "new color as #RRGGBB")
	tagUpdateCmd.Flags().StringVarP(&tagDescription, "description", "d", "", "new description")
}

func runTagCreate(cmd *cobra.Command, args []string) error {
	return withStore(func(ctx context.Context, cfg *config.Config, st *store.Store) error {
		t := &store.Tag{Name: args[0], Color: tagColor, Description: tagDescription}
		if err := st.CreateTag(ctx, t); err != nil {
			return err
		}
		fmt.Fprintf(stdout(cmd), "Created tag %s (%s)\n", t.Name, t.ID)
		return nil
	})
}

func runTagList(cmd *cobra.Command, args []string) error {
	return withStore(func(ctx context.Context, cfg *config.Config, st *store.Store) error {
		tags, err := st.ListTags(ctx)
		if err != nil {
			return err
		}
		w := stdout(cmd)
		if len(tags) == 0 {
			fmt.Fprintln(w, "No tags.")
			return nil
		}
		for _, t := range tags {
			fmt.Fprintf(w, "%s  %-20s %s  %s\n", shortID(t.ID), t.Name, t.Color, t.Description)
		}
		return nil
	})
}

func runTagUpdate(cmd *cobra.Command, args []string) error {
	return withStore(func(ctx context.Context, cfg *config.Config, st *store.Store) error {
		t, err := st.ResolveTag(ctx, args[0])
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("name") {
			t.Name = tagName
		}
		if cmd.Flags().Changed("color") {
			t.Color = tagColor
		}
		if cmd.Flags().Changed("description") {
			t.Description = tagDescription
		}
		return st.UpdateTag(ctx, t)
	})
}

func runTagDelete(cmd *cobra.Command, args []string) error {
	return withStore(func(ctx context.Context, cfg *config.Config, st *store.Store) error {
		t, err := st.ResolveTag(ctx, args[0])
		if err != nil {
			return err
		}
		if err := st.DeleteTag(ctx, t.ID); err != nil {
			return err
		}
		fmt.Fprintf(stdout(cmd), "Deleted tag %s\n", t.Name)
		return nil
	})
}

func runTagAdd(cmd *cobra.Command, args []string) error {
	return withStore(func(ctx context.Context, cfg *config.Config, st *store.Store) error {
		ids, err := resolveTags(ctx, st, args[1:])
		if err != nil {
			return err
		}
		for _, id := range ids {
			if err := st.AddTag(ctx, args[0], id); err != nil {
				return err
			}
		}
		return nil
	})
}

func runTagRemove(cmd *cobra.Command, args []string) error {
	return withStore(func(ctx context.Context, cfg *config.Config, st *store.Store) error {
		for _, name := range args[1:] {
			t, err := st.ResolveTag(ctx, name)
			if err != nil {
				return err
			}
			if err := st.RemoveTag(ctx, args[0], t.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
