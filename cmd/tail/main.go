package main

import (
	"bufio"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	env "github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
)

// Operator tool: tails the first N events of a user's stream and renders them
// as a table. Handy for checking trigger wiring without a browser.
type Config struct {
	ServerURL string `env:"NOTIFY_SERVER_URL,required=true"`
	Token     string `env:"NOTIFY_TOKEN,required=true"`
	Limit     int    `env:"NOTIFY_TAIL_LIMIT"`
}

func main() {
	// 1. Load config
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		log.Fatalf("Config error: %v", err)
	}
	if config.Limit <= 0 {
		config.Limit = 20
	}

	// 2. Open the stream
	url := strings.TrimSuffix(config.ServerURL, "/") + "/events"
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		log.Fatalf("Bad server URL: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+config.Token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("Server answered %s", resp.Status)
	}

	color.Green.Printf("Connected to %s, waiting for %d events...\n", url, config.Limit)

	// 3. Collect events until the limit, then render
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"#", "Event", "Payload"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var eventName string
	count := 0
	for scanner.Scan() && count < config.Limit {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, ":"):
			// keep-alive comment
		case strings.HasPrefix(line, "event:"):
			eventName = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			count++
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			table.Append([]string{fmt.Sprint(count), eventName, data})
		}
	}
	if err := scanner.Err(); err != nil {
		color.Red.Printf("Stream ended: %v\n", err)
	}
	table.Render()
}
