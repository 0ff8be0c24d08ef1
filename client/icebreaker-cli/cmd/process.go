package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var processCmd = &cobra.Command{
	Use:   "process [name]",
	Short: "Generate a summary, interests and ice breakers for a person",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := &http.Client{Timeout: 5 * time.Minute}
		return process(client, serverURL, args[0], cmd.OutOrStdout())
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the service is up",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := &http.Client{Timeout: 10 * time.Second}
		return health(client, serverURL, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(healthCmd)
}

func process(client *http.Client, server, name string, out io.Writer) error {
	form := url.Values{"name": {name}}
	resp, err := client.PostForm(strings.TrimRight(server, "/")+"/process", form)
	if err != nil {
		return fmt.Errorf("error calling service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var failure struct {
			Error string `json:"error"`
			Stage string `json:"stage"`
		}
		if json.Unmarshal(body, &failure) == nil && failure.Error != "" {
			if failure.Stage != "" {
				return fmt.Errorf("service failed at %s (status %d): %s", failure.Stage, resp.StatusCode, failure.Error)
			}
			return fmt.Errorf("service failed (status %d): %s", resp.StatusCode, failure.Error)
		}
		return fmt.Errorf("service failed, status code: %d", resp.StatusCode)
	}

	// Pretty print the JSON output
	var prettyJSON bytes.Buffer
	if err := json.Indent(&prettyJSON, body, "", "  "); err != nil {
		return fmt.Errorf("error formatting JSON: %w", err)
	}
	_, err = fmt.Fprintln(out, prettyJSON.String())
	return err
}

func health(client *http.Client, server string, out io.Writer) error {
	resp, err := client.Get(strings.TrimRight(server, "/") + "/healthz")
	if err != nil {
		return fmt.Errorf("error calling service: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service unhealthy, status code: %d", resp.StatusCode)
	}
	_, err = fmt.Fprintln(out, "ok")
	return err
}
