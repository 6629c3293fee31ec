package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aninka/chatd/internal/config"
)

// --- ask ---

var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Send a chat message to the running server",
	Long: `Send a single chat message to the running server and print the reply.

Examples:
  chatd ask "ada baju warna merah?"
  chatd ask --token "1|abc..." "status pesanan saya order id AB1234"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		message := strings.Join(args, " ")
		token, _ := cmd.Flags().GetString("token")

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		client.token = token

		req := map[string]any{
			"messages": []map[string]string{
				{"role": "user", "content": message},
			},
		}

		resp, err := client.post(cmd.Context(), "/api/chat", req)
		if err != nil {
			return err
		}

		var reply struct {
			Provider string `json:"provider"`
			Message  string `json:"message"`
			Products []struct {
				Name  string  `json:"name"`
				Price float64 `json:"price"`
			} `json:"products"`
			OrderInfo *struct {
				OrderNumber string `json:"orderNumber"`
				Status      string `json:"status"`
			} `json:"orderInfo"`
			TrackingInfo *struct {
				TrackingNumber string `json:"trackingNumber"`
				Status         string `json:"status"`
			} `json:"trackingInfo"`
		}
		if err := decodeJSON(resp, &reply); err != nil {
			return err
		}

		fmt.Println(reply.Message)

		printStatus("Provider", "%s", reply.Provider)
		if len(reply.Products) > 0 {
			names := make([]string, len(reply.Products))
			for i, p := range reply.Products {
				names[i] = p.Name
			}
			printStatus("Products", "%s", strings.Join(names, ", "))
		}
		if reply.OrderInfo != nil {
			printStatus("Order", "#%s (%s)", reply.OrderInfo.OrderNumber, reply.OrderInfo.Status)
		}
		if reply.TrackingInfo != nil {
			printStatus("Tracking", "%s (%s)", reply.TrackingInfo.TrackingNumber, reply.TrackingInfo.Status)
		}
		return nil
	},
}

func init() {
	askCmd.Flags().String("token", "", "storefront API token to send as bearer auth")
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		keys := config.ShowAll(cfg)
		for _, k := range keys {
			fmt.Printf("  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
