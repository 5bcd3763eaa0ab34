package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/tracklet/tracklet/pkg/config"
	"github.com/tracklet/tracklet/pkg/types"
)

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Probe the server and verify credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		profileName, _ := cmd.Flags().GetString("profile")

		eng, err := newEngine(profileName)
		if err != nil {
			return err
		}
		defer eng.close()

		if err := eng.session.Connect(context.Background()); err != nil {
			return err
		}

		user := eng.gateway.User()
		version := eng.gateway.Version()
		fmt.Printf("✓ Connected to %s\n", version.Version)
		fmt.Printf("  User: %s\n", user.Username)
		fmt.Printf("  Customers: %d, Projects: %d, Activities: %d\n",
			len(eng.cache.Customers()), len(eng.cache.Projects()), len(eng.cache.Activities()))
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the persisted session state",
	RunE: func(cmd *cobra.Command, args []string) error {
		profileName, _ := cmd.Flags().GetString("profile")

		eng, err := newEngine(profileName)
		if err != nil {
			return err
		}
		defer eng.close()

		state := eng.session.State()
		fmt.Printf("Profile:   %s\n", state.ProfileName)
		fmt.Printf("Connected: %v\n", state.Connected)
		fmt.Printf("Timer:     %s\n", eng.timer.Status())
		if state.CurrentEntry != nil {
			fmt.Printf("Entry:     %d (%s)\n", state.CurrentEntry.ID, state.CurrentEntry.Description)
		}
		if state.CurrentTask != nil {
			fmt.Printf("Task:      %d (%s)\n", state.CurrentTask.ID, state.CurrentTask.Title)
		}
		return nil
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh all cached collections from the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		profileName, _ := cmd.Flags().GetString("profile")

		eng, err := newEngine(profileName)
		if err != nil {
			return err
		}
		defer eng.close()

		ctx := context.Background()
		if err := eng.session.Connect(ctx); err != nil {
			return err
		}
		if err := eng.sync.RefreshAll(ctx); err != nil {
			return err
		}
		fmt.Println("✓ Cache refreshed")
		return nil
	},
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Show the customer/project/activity catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		profileName, _ := cmd.Flags().GetString("profile")
		customerID, _ := cmd.Flags().GetInt64("customer")

		eng, err := newEngine(profileName)
		if err != nil {
			return err
		}
		defer eng.close()

		if err := eng.session.Connect(context.Background()); err != nil {
			return err
		}

		for _, c := range eng.cache.Customers() {
			if customerID != 0 && c.ID != customerID {
				continue
			}
			fmt.Printf("%d  %s\n", c.ID, c.Name)
			for _, p := range eng.cache.FilterProjectsByCustomer(c.ID) {
				fmt.Printf("  %d  %s\n", p.ID, p.Name)
				for _, a := range eng.cache.FilterActivitiesByProject(p.ID) {
					fmt.Printf("    %d  %s\n", a.ID, a.Name)
				}
			}
		}
		return nil
	},
}

var entriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "List recent time entries, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		profileName, _ := cmd.Flags().GetString("profile")

		eng, err := newEngine(profileName)
		if err != nil {
			return err
		}
		defer eng.close()

		if err := eng.session.Connect(context.Background()); err != nil {
			return err
		}

		for _, e := range eng.cache.TimeEntries() {
			end := "open"
			if e.End != nil {
				end = e.End.Format("15:04")
			}
			fmt.Printf("%6d  %s - %-5s  %6ds  %s\n",
				e.ID, e.Begin.Format("2006-01-02 15:04"), end, e.Duration, e.Description)
		}
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show aggregate tracked totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		profileName, _ := cmd.Flags().GetString("profile")

		eng, err := newEngine(profileName)
		if err != nil {
			return err
		}
		defer eng.close()

		history, err := eng.session.History()
		if err != nil {
			return err
		}

		days := make([]string, 0, len(history.Days))
		for day := range history.Days {
			days = append(days, day)
		}
		sort.Strings(days)
		for _, day := range days {
			fmt.Printf("%s  %6ds\n", day, history.Days[day])
		}
		fmt.Printf("Total tracked: %ds\n", history.TotalTracked)
		return nil
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage connection profiles",
}

var profileAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a connection profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		baseURL, _ := cmd.Flags().GetString("url")
		token, _ := cmd.Flags().GetString("token")
		username, _ := cmd.Flags().GetString("username")
		secret, _ := cmd.Flags().GetString("secret")

		path := configPath
		if path == "" {
			var err error
			path, err = config.DefaultPath()
			if err != nil {
				return err
			}
		}

		cfg, err := config.Load(path)
		if err != nil {
			cfg = &config.File{Settings: config.DefaultSettings()}
		}

		profile := types.Profile{
			Name:    args[0],
			BaseURL: baseURL,
		}
		if token != "" {
			profile.AuthType = types.AuthTypeToken
			profile.Token = token
		} else {
			profile.AuthType = types.AuthTypeLegacy
			profile.Username = username
			profile.Secret = secret
		}

		if err := config.ValidateProfile(&profile); err != nil {
			return err
		}

		cfg.Profiles = append(cfg.Profiles, profile)
		if cfg.Settings.ActiveProfile == "" {
			cfg.Settings.ActiveProfile = profile.Name
		}
		if err := config.Save(path, cfg); err != nil {
			return err
		}
		fmt.Printf("✓ Profile %s saved to %s\n", profile.Name, path)
		return nil
	},
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			var err error
			path, err = config.DefaultPath()
			if err != nil {
				return err
			}
		}

		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		for _, p := range cfg.Profiles {
			active := " "
			if p.Name == cfg.Settings.ActiveProfile {
				active = "*"
			}
			fmt.Printf("%s %-16s %-8s %s\n", active, p.Name, p.AuthType, p.BaseURL)
		}
		return nil
	},
}

func init() {
	connectCmd.Flags().String("profile", "", "connection profile name")
	statusCmd.Flags().String("profile", "", "connection profile name")
	refreshCmd.Flags().String("profile", "", "connection profile name")
	catalogCmd.Flags().String("profile", "", "connection profile name")
	catalogCmd.Flags().Int64("customer", 0, "limit to one customer")
	entriesCmd.Flags().String("profile", "", "connection profile name")
	historyCmd.Flags().String("profile", "", "connection profile name")

	profileAddCmd.Flags().String("url", "", "server base URL")
	profileAddCmd.Flags().String("token", "", "API token (token auth)")
	profileAddCmd.Flags().String("username", "", "username (legacy auth)")
	profileAddCmd.Flags().String("secret", "", "API secret (legacy auth)")

	profileCmd.AddCommand(profileAddCmd)
	profileCmd.AddCommand(profileListCmd)
}
