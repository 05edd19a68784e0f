package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chiptrainer/prizepicks-ev-finder/internal/models"
	"github.com/chiptrainer/prizepicks-ev-finder/pkg/ev"
)

func checkCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "check <over_odds> <under_odds>",
		Short: "No-vig check of one prop's over/under odds",
		Long: `Removes the vig from a two-sided quote and prints the fair
probabilities, the favored side, and the qualifying slip types.

Example:
  ppev check -112 -118
  ppev check +110 -140`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			over, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("odds must be integers (e.g., -112, +110): %q", args[0])
			}
			under, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("odds must be integers (e.g., -112, +110): %q", args[1])
			}

			cfg, _, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			fair, err := ev.RemoveVig(over, under)
			if err != nil {
				return err
			}
			evaluation, err := ev.Evaluate(fair)
			if err != nil {
				return err
			}
			slips := ev.NewRecommender(cfg.Slips.ToSlipTable()).Recommend(evaluation.FavoredProb)

			printCheck(over, under, fair, evaluation, slips)
			return nil
		},
	}
}

func printCheck(over, under int, fair models.FairProbability, evaluation ev.Evaluation, slips models.SlipRecommendation) {
	rule := strings.Repeat("=", 50)

	fmt.Println()
	fmt.Println(rule)
	fmt.Println("🎯 NO-VIG CALCULATOR")
	fmt.Println(rule)

	fmt.Println("\nInput Odds:")
	fmt.Printf("  Over:  %+d\n", over)
	fmt.Printf("  Under: %+d\n", under)
	fmt.Printf("  Vig:   %.1f%%\n", fair.Vig*100)

	fmt.Println("\n📊 Fair Probabilities (no vig):")
	fmt.Printf("  Over:  %.1f%%\n", fair.Over*100)
	fmt.Printf("  Under: %.1f%%\n", fair.Under*100)

	fmt.Printf("\n⭐ Favored: %s (%.1f%%) → EV: %+.1f%%\n",
		strings.ToUpper(string(evaluation.FavoredSide)), evaluation.FavoredProb*100, evaluation.EVPercent)

	fmt.Println("\n✅ Recommended Slip Types:")
	if slips.Empty() {
		fmt.Println("   ❌ Below all thresholds - SKIP this prop")
	}
	for _, slip := range slips {
		marker := "✓"
		if slip.Discouraged {
			marker = "⚠"
		}
		fmt.Printf("   %s %s (min %.1f%%, pays %sx)\n",
			marker, slip.Name, slip.BreakEven*100, slip.Payout.String())
	}

	fmt.Println()
	fmt.Println(rule)
}
