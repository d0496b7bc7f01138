package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
)

var seasonScope string

func init() {
	leaderboardCmd.Flags().StringVar(&seasonScope, "season", "current", "all, current or a season id")
	shareCmd.Flags().StringVar(&seasonScope, "season", "current", "all, current or a season id")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(shareCmd)
	rootCmd.AddCommand(seasonsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(closeSeasonCmd)
	rootCmd.AddCommand(autoValidateCmd)
	rootCmd.AddCommand(countersCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/health", nil)
	},
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show the public app settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/settings", nil)
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the ranked leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/leaderboard", url.Values{"season": {seasonScope}})
	},
}

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Print the leaderboard as shareable text",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/leaderboard/share", url.Values{"season": {seasonScope}})
	},
}

var seasonsCmd = &cobra.Command{
	Use:   "seasons",
	Short: "List seasons, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/seasons", nil)
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the top players of every season",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/seasons/history", nil)
	},
}

var closeSeasonCmd = &cobra.Command{
	Use:   "close-season [season-id]",
	Short: "Close a season and post its summary (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/seasons/"+url.PathEscape(args[0])+"/close", nil)
	},
}

var autoValidateCmd = &cobra.Command{
	Use:   "auto-validate",
	Short: "Validate pending matches older than the configured window",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/auto-validate", nil)
	},
}

var countersCmd = &cobra.Command{
	Use:   "counters",
	Short: "Get the persisted event counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/counters", nil)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/metrics", nil)
	},
}

func performRequest(method, endpoint string, query url.Values) error {
	if query == nil {
		query = url.Values{}
	}
	if dryRun {
		query.Set("dry_run", "true")
	}
	target := host + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	fmt.Printf("Making %s request to %s\n", method, target)

	req, err := http.NewRequest(method, target, strings.NewReader(""))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
