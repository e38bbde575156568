package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage stored user sessions",
	Long:  `List, inspect, and remove the per-user sessions held by the configured store.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all stored sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, _, err := buildRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		users, err := rt.Store.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("error listing sessions: %w", err)
		}
		if len(users) == 0 {
			fmt.Println("No stored sessions found.")
			return nil
		}

		fmt.Println("Stored Sessions:")
		for _, u := range users {
			fmt.Println("- " + u)
		}
		return nil
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <user-id>",
	Short: "Inspect the session of a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, _, err := buildRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		s, err := rt.Store.Load(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("error loading session '%s': %w", args[0], err)
		}

		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <user-id>...",
	Short: "Remove one or more sessions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, _, err := buildRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		var errs []error
		for _, user := range args {
			if err := rt.Store.Delete(cmd.Context(), user); err != nil {
				errs = append(errs, fmt.Errorf("error removing '%s': %w", user, err))
				continue
			}
			fmt.Printf("Removed session '%s'\n", user)
		}
		return errors.Join(errs...)
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)
}
