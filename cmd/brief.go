package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Yogesh-Venkat/daily-news-brief-generator/internal/news"
)

var (
	flagBriefTopic string
	flagBriefDate  string
	flagRefresh    bool
)

var briefCmd = &cobra.Command{
	Use:   "brief",
	Short: "Generate the personalized news brief",
	Long: `Generate one brief per subscribed topic for a calendar date.

Repeat requests within the cache window are served from the personalized
cache; --refresh bypasses both cache tiers and refetches.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		userID, err := a.requireUser(ctx)
		if err != nil {
			return err
		}

		var filter news.Topic
		if flagBriefTopic != "" {
			filter, err = news.ParseTopic(flagBriefTopic)
			if err != nil {
				return err
			}
		}

		result, err := a.briefs.GetBrief(ctx, userID, filter, flagBriefDate, flagRefresh)
		if err != nil {
			return err
		}

		for i, b := range result.Briefs {
			if i > 0 {
				fmt.Println()
			}
			printBrief(b)
		}
		for _, f := range result.Failed {
			fmt.Printf("\n%s: unavailable (%v)\n", f.Topic, f.Err)
		}
		return nil
	},
}

func init() {
	briefCmd.Flags().StringVar(&flagBriefTopic, "topic", "", "limit the brief to one subscribed topic")
	briefCmd.Flags().StringVar(&flagBriefDate, "date", "", "calendar date (YYYY-MM-DD, default today)")
	briefCmd.Flags().BoolVar(&flagRefresh, "refresh", false, "bypass caches and refetch")
}

func printBrief(b news.Brief) {
	marker := ""
	if b.Cached {
		marker = " (cached)"
	}
	fmt.Printf("== %s — %s%s ==\n\n", b.Topic, b.Date, marker)
	fmt.Println(b.ConsolidatedSummary)

	if len(b.Articles) == 0 {
		return
	}
	fmt.Println()
	for _, a := range b.Articles {
		fmt.Printf("- %s (%s)\n", a.Title, a.Source)
		if a.Summary != "" {
			fmt.Printf("  %s\n", a.Summary)
		}
		if a.URL != "" {
			fmt.Printf("  %s\n", a.URL)
		}
	}
}
