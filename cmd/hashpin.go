package cmd

import (
	"errors"
	"fmt"

	"donlouis-backend/utils"

	"github.com/spf13/cobra"
)

var hashPinCmd = &cobra.Command{
	Use:   "hash-pin <pin>",
	Short: "Print the bcrypt hash of a 4-digit admin PIN",
	Long:  `Prints the value to put in ADMIN_PIN_HASH. The PIN itself is never stored.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !utils.ValidatePin(args[0]) {
			return errors.New("PIN must be exactly 4 digits")
		}
		hash, err := utils.HashPin(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

var genSecretCmd = &cobra.Command{
	Use:   "gen-secret",
	Short: "Print a random value suitable for JWT_SECRET",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), utils.GenerateJWTSecret())
	},
}
