package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Yogesh-Venkat/daily-news-brief-generator/internal/news"
)

var (
	flagSetTopics string
	flagSetMode   string
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Show or change subscribed topics",
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

		p, err := a.prefs.Get(ctx, userID)
		if err != nil {
			return err
		}

		if flagSetTopics == "" && flagSetMode == "" {
			fmt.Printf("Subscribed: %s\n", joinTopics(p.Topics))
			fmt.Printf("Reading mode: %s\n", p.ReadingMode)
			fmt.Printf("Available: %s\n", joinTopics(news.AllTopics()))
			return nil
		}

		if flagSetTopics != "" {
			topics, err := parseTopics(flagSetTopics)
			if err != nil {
				return err
			}
			p.Topics = topics
		}
		if flagSetMode != "" {
			mode, err := news.ParseReadingMode(flagSetMode)
			if err != nil {
				return err
			}
			p.ReadingMode = mode
		}

		// Preference changes drop the personalized cache so the next brief
		// is re-derived rather than served stale.
		if err := a.briefs.UpdatePreferences(ctx, p); err != nil {
			return err
		}
		fmt.Printf("Subscribed: %s (mode: %s)\n", joinTopics(p.Topics), p.ReadingMode)
		return nil
	},
}

func init() {
	topicsCmd.Flags().StringVar(&flagSetTopics, "set", "", "comma-separated topics to subscribe to")
	topicsCmd.Flags().StringVar(&flagSetMode, "mode", "", "reading mode: short or detailed")
}
