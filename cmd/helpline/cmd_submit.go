package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/user/helpline/internal/compile"
	"github.com/user/helpline/internal/runtime"
)

func init() {
	rootCmd.AddCommand(submitCmd)
}

var submitCmd = &cobra.Command{
	Use:   "submit <request.json>",
	Short: "Submit a help request from a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		setupLogging(cfg)

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read request file: %w", err)
		}

		store, closeStore, err := newStore(cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		rt := runtime.New(store, newDispatcher(cfg), compile.New(), cfg.API.RawPayload)
		fmt.Println(rt.ProcessReport(context.Background(), json.RawMessage(data)))
		return nil
	},
}
