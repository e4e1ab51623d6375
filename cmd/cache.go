package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the news cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show shared news-cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		st, err := a.cache.NewsStats(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Entries: %d\n", st.TotalEntries)
		fmt.Printf("Non-empty: %d\n", st.NonEmptyEntries)
		fmt.Printf("Live: %d\n", st.LiveEntries)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear your personalized brief cache",
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

		n, err := a.briefs.ClearCache(ctx, userID)
		if err != nil {
			return err
		}
		fmt.Printf("Cleared %d cache entries.\n", n)
		return nil
	},
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove expired entries from both cache tiers",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		n, err := a.cache.PruneExpired(cmd.Context())
		if err != nil {
			return err
		}
		if n == 0 {
			fmt.Println("Nothing to prune.")
		} else {
			fmt.Printf("Pruned %d expired entries.\n", n)
		}
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cachePruneCmd)
}
