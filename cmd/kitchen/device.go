package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/aretw0/kitchen/internal/cli"
	"github.com/spf13/cobra"
)

var deviceCmd = &cobra.Command{
	Use:   "device",
	Short: "Inspect and drive users' thermometers",
}

var deviceShowCmd = &cobra.Command{
	Use:   "show <user-id>",
	Short: "Print the reported state of a user's thermometer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, _, err := buildRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		device, err := rt.Registry.Resolve(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("no thermometer for '%s': %w", args[0], err)
		}
		reported, err := rt.Shadow.GetReported(cmd.Context(), device)
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(map[string]any{
			"device_id": device,
			"reported":  reported,
		}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

var deviceTempCmd = &cobra.Command{
	Use:   "temp <user-id> <celsius>",
	Short: "Move the probe of a simulated thermometer",
	Long:  `Only simulated shadows (memory, redis) accept this; a real device reports its own reading.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		celsius, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid temperature %q", args[1])
		}

		rt, _, err := buildRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		device, err := cli.SetTemperature(cmd.Context(), rt, args[0], celsius)
		if err != nil {
			return err
		}
		fmt.Printf("%s now reads %.1f°C\n", device, celsius)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deviceCmd)
	deviceCmd.AddCommand(deviceShowCmd)
	deviceCmd.AddCommand(deviceTempCmd)
}
