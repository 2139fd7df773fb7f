package cli

import (
	"errors"
	"fmt"

	"github.com/greenpulse/pulse-client/internal/app"
	apperrors "github.com/greenpulse/pulse-client/internal/errors"
	"github.com/greenpulse/pulse-client/rewards"
	"github.com/greenpulse/pulse-client/trees"
	"github.com/greenpulse/pulse-client/users"
	"github.com/spf13/cobra"
)

func newRewardsCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rewards",
		Short: "Browse the rewards catalog",
	}

	var filter, category string
	list := &cobra.Command{
		Use:   "list",
		Short: "List rewards",
		Args:  cobra.NoArgs,
		RunE: o.withApp(func(cmd *cobra.Command, _ []string, a *app.App) error {
			var (
				list []rewards.Reward
				err  error
			)
			switch {
			case category != "":
				list, err = a.Rewards.ByCategory(cmd.Context(), category)
			case filter == "active":
				list, err = a.Rewards.Active(cmd.Context())
			case filter == "available":
				list, err = a.Rewards.Available(cmd.Context())
			case filter == "all":
				list, err = a.Rewards.List(cmd.Context())
			default:
				return fmt.Errorf("unknown filter %q, use all, active or available", filter)
			}
			if err != nil {
				return err
			}
			return o.print(cmd, list)
		}),
	}
	list.Flags().StringVar(&filter, "filter", "all", "all, active or available")
	list.Flags().StringVar(&category, "category", "", "only rewards in this category")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one reward",
		Args:  cobra.ExactArgs(1),
		RunE: o.withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
			reward, err := a.Rewards.ByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return o.print(cmd, reward)
		}),
	}

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show catalog statistics",
		Args:  cobra.NoArgs,
		RunE: o.withApp(func(cmd *cobra.Command, _ []string, a *app.App) error {
			stats, err := a.Rewards.Statistics(cmd.Context())
			if err != nil {
				return err
			}
			return o.print(cmd, stats)
		}),
	}

	cmd.AddCommand(list, show, stats)
	return cmd
}

func newTreesCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trees",
		Short: "List and plant trees",
	}

	var (
		userID string
		mine   bool
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List trees",
		Args:  cobra.NoArgs,
		RunE: o.withApp(func(cmd *cobra.Command, _ []string, a *app.App) error {
			if mine {
				user := a.Auth.CurrentUser()
				if user == nil {
					return apperrors.ErrNotAuthenticated
				}
				userID = string(user.ID)
			}

			var (
				list []trees.Tree
				err  error
			)
			if userID != "" {
				list, err = a.Trees.ByUser(cmd.Context(), users.ID(userID))
			} else {
				list, err = a.Trees.List(cmd.Context())
			}
			if err != nil {
				return err
			}
			return o.print(cmd, list)
		}),
	}
	list.Flags().StringVar(&userID, "user", "", "only trees of this user id")
	list.Flags().BoolVar(&mine, "mine", false, "only trees of the logged in user")
	list.MarkFlagsMutuallyExclusive("user", "mine")

	var planting trees.Planting
	plant := &cobra.Command{
		Use:   "plant",
		Short: "Plant a tree as the logged in user",
		Args:  cobra.NoArgs,
		RunE: o.withApp(func(cmd *cobra.Command, _ []string, a *app.App) error {
			if !a.Auth.IsAuthenticated() {
				return errors.New("log in before planting")
			}
			tree, err := a.Trees.Create(cmd.Context(), planting)
			if err != nil {
				return err
			}
			return o.print(cmd, tree)
		}),
	}
	plant.Flags().StringVar(&planting.Species, "species", "", "tree species")
	plant.Flags().Float64Var(&planting.Latitude, "lat", 0, "latitude")
	plant.Flags().Float64Var(&planting.Longitude, "lon", 0, "longitude")

	cmd.AddCommand(list, plant)
	return cmd
}
