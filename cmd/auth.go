package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Yogesh-Venkat/daily-news-brief-generator/internal/news"
	"github.com/Yogesh-Venkat/daily-news-brief-generator/internal/prefs"
)

var (
	flagEmail    string
	flagPassword string
	flagName     string
	flagTopics   string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and start a session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		user, token, err := a.sessions.Register(ctx, flagEmail, flagPassword, flagName)
		if err != nil {
			return err
		}

		if flagTopics != "" {
			topics, err := parseTopics(flagTopics)
			if err != nil {
				return err
			}
			p := prefs.Default(user.ID)
			p.Topics = topics
			if err := a.prefs.Set(ctx, p); err != nil {
				return err
			}
		}

		if err := saveToken(token); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}
		fmt.Printf("Registered %s. You are logged in.\n", user.Email)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store a session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		user, token, err := a.sessions.Login(cmd.Context(), flagEmail, flagPassword)
		if err != nil {
			return err
		}
		if err := saveToken(token); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}
		fmt.Printf("Logged in as %s.\n", user.Email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Revoke the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if token, err := loadToken(); err == nil {
			if err := a.sessions.Logout(cmd.Context(), token); err != nil {
				return err
			}
		}
		clearToken()
		fmt.Println("Logged out.")
		return nil
	},
}

var meCmd = &cobra.Command{
	Use:   "me",
	Short: "Show the logged-in user and preferences",
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

		user, err := a.sessions.GetUser(ctx, userID)
		if err != nil {
			return err
		}
		p, err := a.prefs.Get(ctx, userID)
		if err != nil {
			return err
		}

		fmt.Printf("Email: %s\n", user.Email)
		if user.Name != "" {
			fmt.Printf("Name: %s\n", user.Name)
		}
		fmt.Printf("Topics: %s\n", joinTopics(p.Topics))
		fmt.Printf("Reading mode: %s\n", p.ReadingMode)
		fmt.Printf("Language: %s\n", p.Language)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{registerCmd, loginCmd} {
		c.Flags().StringVar(&flagEmail, "email", "", "account email")
		c.Flags().StringVar(&flagPassword, "password", "", "account password")
		c.MarkFlagRequired("email")
		c.MarkFlagRequired("password")
	}
	registerCmd.Flags().StringVar(&flagName, "name", "", "display name")
	registerCmd.Flags().StringVar(&flagTopics, "topics", "", "comma-separated topics to subscribe to")
}

func parseTopics(s string) ([]news.Topic, error) {
	var topics []news.Topic
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		t, err := news.ParseTopic(part)
		if err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}
	return topics, nil
}

func joinTopics(topics []news.Topic) string {
	names := make([]string, len(topics))
	for i, t := range topics {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
