package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/user/helpline/internal/config"
)

func init() {
	rootCmd.AddCommand(setupCmd)
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		scanner := bufio.NewScanner(os.Stdin)

		fmt.Println("Helpline Setup Wizard")
		fmt.Println("Press Enter to accept the default value shown in brackets.")
		fmt.Println()

		cfg.API.URL = prompt(scanner, "Ticket API URL", cfg.API.URL)
		cfg.API.Key = prompt(scanner, "Ticket API key", cfg.API.Key)
		cfg.API.AuthScheme = prompt(scanner, "Auth scheme (service-key/bearer)", cfg.API.AuthScheme)

		mockStr := prompt(scanner, "Mock mode (true/false)", fmt.Sprintf("%t", cfg.API.Mock))
		cfg.API.Mock = mockStr == "true"

		cfg.Store.Driver = prompt(scanner, "Session store driver (file/redis)", cfg.Store.Driver)
		if cfg.Store.Driver == "redis" {
			cfg.Store.RedisAddr = prompt(scanner, "Redis address", cfg.Store.RedisAddr)
		}

		if err := config.Save(cfgPath, cfg); err != nil {
			return fmt.Errorf("save config: %w", err)
		}

		fmt.Println()
		fmt.Println("Configuration saved to", cfgPath)
		return nil
	},
}

// prompt displays a labeled prompt with a default value and reads user input.
// If the user enters nothing, the default is returned.
func prompt(scanner *bufio.Scanner, label, defaultVal string) string {
	if defaultVal != "" {
		fmt.Printf("%s [%s]: ", label, defaultVal)
	} else {
		fmt.Printf("%s: ", label)
	}
	if scanner.Scan() {
		input := strings.TrimSpace(scanner.Text())
		if input != "" {
			return input
		}
	}
	return defaultVal
}
