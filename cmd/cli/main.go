// One-shot conversion client for a running fxbridge server.
package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/fatih/color"
)

type convertData struct {
	Quantity string `json:"quantity"`
	Currency string `json:"ccy"`
}

type response struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type problemDetails struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

func main() {
	argsLen := len(os.Args)
	if argsLen < 3 {
		fmt.Println("Usage: cli <from> <to> [quantity]")
		fmt.Println("Example: cli eur gbp 100")
		os.Exit(2)
	}

	quantity := "1"
	if argsLen >= 4 {
		quantity = os.Args[3]
	}

	baseURL := os.Getenv("FXBRIDGE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	from := strings.ToUpper(os.Args[1])
	to := strings.ToUpper(os.Args[2])

	query := url.Values{}
	query.Set("from", from)
	query.Set("to", to)
	query.Set("quantity", quantity)

	resp, err := http.Get(baseURL + "/convert?" + query.Encode())
	if err != nil {
		color.Red("request failed: %v", err)
		os.Exit(1)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		var problem problemDetails
		if err := json.NewDecoder(resp.Body).Decode(&problem); err != nil {
			color.Red("server returned status %d", resp.StatusCode)
			os.Exit(1)
		}
		color.Red("%s: %s", problem.Title, problem.Detail)
		os.Exit(1)
	}

	var envelope response
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		color.Red("failed to decode response: %v", err)
		os.Exit(1)
	}
	var data convertData
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		color.Red("failed to decode response data: %v", err)
		os.Exit(1)
	}

	fmt.Printf("amount: %s %s\n", quantity, from)
	color.Green("  %s %s\n", data.Quantity, data.Currency)
}
