package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"menu-bot/internal/app"
	"menu-bot/internal/config"
	"menu-bot/internal/planner"
)

func main() {
	_ = godotenv.Load()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withApp builds the application for a subcommand run and tears it
// down afterwards.
func withApp(fn func(ctx context.Context, a *app.App) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		logger, err := zap.NewProduction()
		if err != nil {
			return err
		}
		defer logger.Sync()

		cfg, err := config.NewFromEnv()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		a, err := app.New(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		return fn(ctx, a)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "menu-bot",
		Short:         "Family meal planning from the command line",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(planCmd(), regenerateCmd(), groceryCmd(), summaryCmd(),
		ingestCmd(), approveCmd(), recipesCmd(), feedbackCmd())
	return root
}

func planCmd() *cobra.Command {
	var weekStart string
	var days int
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate a weekly dinner plan",
		RunE: withApp(func(ctx context.Context, a *app.App) error {
			var start time.Time
			if weekStart != "" {
				parsed, err := time.Parse("2006-01-02", weekStart)
				if err != nil {
					return fmt.Errorf("invalid --week-start %q: %w", weekStart, err)
				}
				start = parsed
			}
			plan, err := a.GenerateWeeklyPlan(ctx, start, days)
			if err != nil {
				return err
			}
			fmt.Print(planner.FormatPlan(plan))
			fmt.Printf("\nPlan %s is pending approval.\n", plan.ID)
			return nil
		}),
	}
	cmd.Flags().StringVar(&weekStart, "week-start", "", "week start date (YYYY-MM-DD), defaults to next Monday")
	cmd.Flags().IntVar(&days, "days", 7, "number of dinners to plan")
	return cmd
}

func regenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "regenerate <plan-id> <day>",
		Short: "Swap one day's meal for a fresh pick",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				plan, err := a.RegenerateDay(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Print(planner.FormatPlan(plan))
				return nil
			})(cmd, nil)
		},
	}
}

func groceryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grocery <plan-id>",
		Short: "Build the store-routed grocery list for a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				list, err := a.GenerateGroceryList(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Print(a.Optimizer.FormatAsText(list))
				return nil
			})(cmd, nil)
		},
	}
}

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary <plan-id>",
		Short: "Show plan statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				plan, err := a.Plans.Get(ctx, args[0])
				if err != nil {
					return err
				}
				if plan == nil {
					return fmt.Errorf("meal plan %s not found", args[0])
				}
				s, err := a.PlanSummary(ctx, plan)
				if err != nil {
					return err
				}
				fmt.Printf("Week of %s: %d meals\n", plan.WeekStart, s.TotalMeals)
				fmt.Printf("Avg prep %.0f min, avg cook %.0f min\n", s.AvgPrepTimeMin, s.AvgCookTimeMin)
				fmt.Printf("Kid-friendly %d, healthy %d, quick %d\n", s.KidFriendly, s.Healthy, s.QuickMeals)
				return nil
			})(cmd, nil)
		},
	}
}

func ingestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <url>",
		Short: "Scrape a recipe page and add it to the collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				rec, err := a.IngestRecipeFromURL(ctx, args[0], "cli")
				if err != nil {
					return err
				}
				fmt.Printf("Saved %q (%s) with %d ingredients, pending approval.\n",
					rec.Name, rec.ID, len(rec.Ingredients))
				return nil
			})(cmd, nil)
		},
	}
}

func approveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "approve <recipe-id>",
		Short: "Approve a recipe into the planning pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				// The CLI runs on the household machine, so it acts
				// with parent authority.
				return a.Recipes.Approve(ctx, args[0], "cli")
			})(cmd, nil)
		},
	}
}

func recipesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recipes",
		Short: "List all recipes and their approval state",
		RunE: withApp(func(ctx context.Context, a *app.App) error {
			recipes, err := a.Recipes.GetAll(ctx)
			if err != nil {
				return err
			}
			for _, r := range recipes {
				state := "pending"
				if r.Approved {
					state = "approved"
				}
				fmt.Printf("%s  %-9s %s\n", r.ID, state, r.Name)
			}
			fmt.Printf("\n%d recipes total\n", len(recipes))
			return nil
		}),
	}
}

func feedbackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "feedback",
		Short: "List completed weeks still waiting on ratings",
		RunE: withApp(func(ctx context.Context, a *app.App) error {
			plans, err := a.PlansAwaitingFeedback(ctx)
			if err != nil {
				return err
			}
			if len(plans) == 0 {
				fmt.Println("All caught up.")
				return nil
			}
			for _, p := range plans {
				fmt.Printf("%s  week of %s (%d meals)\n", p.ID, p.WeekStart, len(p.Meals))
			}
			return nil
		}),
	}
}
