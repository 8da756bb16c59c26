// Cogmind CLI: talk to the running daemon and inspect its mental state.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/quantumlife/cogmind/internal/config"
	"github.com/quantumlife/cogmind/internal/mind"
)

var (
	configPath string
	serverURL  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cog",
		Short: "Cogmind - a mind that keeps thinking between conversations",
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: ~/.cogmind/config.json)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Daemon address (default: from config)")

	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(chatCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(thoughtsCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// =============================================================================
// Commands
// =============================================================================

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the data directory and default configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if err := cfg.Save(configPath); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			fmt.Printf("Config written to %s\n", cfg.DataDir)

			fmt.Print("Anthropic API key (leave empty to use the local model only): ")
			key, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Println()
			if err != nil {
				return fmt.Errorf("failed to read key: %w", err)
			}
			if len(key) > 0 {
				if err := cfg.SaveAPIKey(strings.TrimSpace(string(key))); err != nil {
					return fmt.Errorf("failed to store key: %w", err)
				}
				fmt.Println("API key stored.")
			}

			fmt.Println("\nStart the daemon with: cogmindd")
			return nil
		},
	}
}

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Talk with the mind (Ctrl-D to leave)",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()
			if err := client.ping(); err != nil {
				return fmt.Errorf("daemon not reachable at %s (is cogmindd running?)", client.base)
			}

			fmt.Println("Connected. The mind has been thinking while you were away.")
			var summary struct {
				Summary string `json:"summary"`
			}
			if err := client.get("/api/v1/summary", &summary); err == nil && summary.Summary != "" {
				fmt.Printf("  %s\n\n", summary.Summary)
			}

			reader := bufio.NewReader(os.Stdin)
			for {
				fmt.Print("you> ")
				line, err := reader.ReadString('\n')
				if err != nil {
					fmt.Println()
					return nil
				}
				text := strings.TrimSpace(line)
				if text == "" {
					continue
				}
				if text == "/quit" || text == "/exit" {
					return nil
				}

				var result mind.TurnResult
				if err := client.post("/api/v1/turn", map[string]string{"text": text}, &result); err != nil {
					fmt.Fprintf(os.Stderr, "turn failed: %v\n", err)
					continue
				}

				fmt.Printf("mind> feeling %s. %s\n", strings.ToLower(result.Emotion), result.Mood)
				for _, mod := range result.Modifiers {
					fmt.Printf("      (%s)\n", mod)
				}
			}
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the daemon's mental and operational state",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()

			var health struct {
				Status        string  `json:"status"`
				UptimeSeconds float64 `json:"uptime_seconds"`
				FailureCount  int     `json:"failure_count"`
				LastFailure   string  `json:"last_failure"`
				StreamClients int     `json:"stream_clients"`
			}
			if err := client.get("/api/v1/health", &health); err != nil {
				fmt.Printf("Daemon:  not running (%v)\n", err)
				return nil
			}

			uptime := time.Duration(health.UptimeSeconds) * time.Second
			fmt.Printf("Daemon:  %s, up %s\n", health.Status, uptime.Round(time.Second))
			if health.FailureCount > 0 {
				fmt.Printf("Errors:  %d recent failures (last: %s)\n", health.FailureCount, health.LastFailure)
			}
			fmt.Printf("Stream:  %d subscriber(s)\n", health.StreamClients)

			var summary struct {
				Summary string `json:"summary"`
			}
			if err := client.get("/api/v1/summary", &summary); err == nil {
				fmt.Printf("\n%s\n", summary.Summary)
			}

			var state struct {
				MentalActivityLevel   float64 `json:"mental_activity_level"`
				IntrospectionTendency float64 `json:"introspection_tendency"`
			}
			if err := client.get("/api/v1/state", &state); err == nil {
				fmt.Printf("\nActivity:      %.2f\n", state.MentalActivityLevel)
				fmt.Printf("Introspection: %.2f\n", state.IntrospectionTendency)
			}
			return nil
		},
	}
}

func thoughtsCmd() *cobra.Command {
	var n int
	var relevant bool
	var archive bool

	cmd := &cobra.Command{
		Use:   "thoughts",
		Short: "Show what the mind has been thinking",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()

			path := fmt.Sprintf("/api/v1/thoughts?n=%d", n)
			if relevant {
				path = fmt.Sprintf("/api/v1/thoughts/relevant?n=%d", n)
			}
			if archive {
				path = fmt.Sprintf("/api/v1/thoughts/archive?n=%d", n)
			}

			var thoughts []struct {
				Kind      string    `json:"kind"`
				Text      string    `json:"text"`
				Intensity float64   `json:"intensity"`
				Timestamp time.Time `json:"timestamp"`
			}
			if err := client.get(path, &thoughts); err != nil {
				return err
			}

			if len(thoughts) == 0 {
				fmt.Println("No thoughts recorded yet.")
				return nil
			}
			for _, th := range thoughts {
				fmt.Printf("[%s] (%s, %.2f) %s\n",
					th.Timestamp.Local().Format("15:04:05"), th.Kind, th.Intensity, th.Text)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&n, "count", "n", 10, "Number of thoughts to show")
	cmd.Flags().BoolVar(&relevant, "relevant", false, "Rank by current relevance instead of recency")
	cmd.Flags().BoolVar(&archive, "archive", false, "Read from the durable archive instead of working memory")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("cogmind v0.1.0")
		},
	}
}

// =============================================================================
// HTTP client
// =============================================================================

type apiClient struct {
	base string
	http *http.Client
}

func newClient() *apiClient {
	base := serverURL
	if base == "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			cfg = config.Default()
		}
		base = fmt.Sprintf("http://%s:%d", cfg.Server.Host, cfg.Server.Port)
	}
	return &apiClient{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *apiClient) ping() error {
	return c.get("/api/v1/health", &struct{}{})
}

func (c *apiClient) get(path string, out interface{}) error {
	resp, err := c.http.Get(c.base + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

func (c *apiClient) post(path string, body, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	resp, err := c.http.Post(c.base+path, "application/json", bytes.NewReader(data))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

func decodeResponse(resp *http.Response, out interface{}) error {
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		data, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s", apiErr.Error)
		}
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
