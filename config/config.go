package config

import (
	"fmt"
	"strings"
	"time"
)

// DefaultURL is the catalogue page scraped when no address is given.
const DefaultURL = "https://books.toscrape.com/catalogue/category/books_1/index.html"

// Config holds pipeline and CLI configuration.
type Config struct {
	URL                string
	Timeout            time.Duration
	MaxRetries         int
	RetryBackoff       time.Duration
	RetryBackoffMax    time.Duration
	UserAgent          string
	MaxBodySize        int
	RespectRobotsTxt   bool
	Engine             string // css or xpath
	SentimentCacheSize int
	OutputFile         string
	OutputFormat       string // csv, json, or dual
	Filter             string
	MetricsAddr        string
	Summary            bool
	Verbose            bool
}

// DefaultConfig returns defaults for a single interactive scrape.
func DefaultConfig() *Config {
	return &Config{
		URL:                DefaultURL,
		Timeout:            30 * time.Second,
		MaxRetries:         0,
		RetryBackoff:       200 * time.Millisecond,
		RetryBackoffMax:    2 * time.Second,
		UserAgent:          "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.0.0 Safari/537.36",
		MaxBodySize:        10 * 1024 * 1024,
		RespectRobotsTxt:   false,
		Engine:             "css",
		SentimentCacheSize: 4096,
		OutputFile:         "",
		OutputFormat:       "csv",
		Filter:             "",
		MetricsAddr:        "",
		Summary:            false,
		Verbose:            false,
	}
}

// Validate ensures all configuration values are coherent.
// The address itself is only checked for emptiness; malformed addresses fail when fetched.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.URL) == "" {
		return fmt.Errorf("url cannot be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	if c.RetryBackoff < 0 {
		return fmt.Errorf("retry backoff cannot be negative")
	}
	if c.RetryBackoffMax < 0 {
		return fmt.Errorf("retry backoff max cannot be negative")
	}
	if c.RetryBackoffMax > 0 && c.RetryBackoff > c.RetryBackoffMax {
		return fmt.Errorf("retry backoff (%s) cannot exceed retry backoff max (%s)", c.RetryBackoff, c.RetryBackoffMax)
	}
	if c.MaxBodySize < 0 {
		return fmt.Errorf("max body size cannot be negative")
	}
	if c.Engine != "css" && c.Engine != "xpath" {
		return fmt.Errorf("engine must be css or xpath")
	}
	if c.SentimentCacheSize <= 0 {
		return fmt.Errorf("sentiment cache size must be positive")
	}
	if c.OutputFormat != "csv" && c.OutputFormat != "json" && c.OutputFormat != "dual" {
		return fmt.Errorf("output format must be csv, json, or dual")
	}
	if c.OutputFormat == "dual" && c.OutputFile == "" {
		return fmt.Errorf("dual output requires an output file")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}

	return nil
}
