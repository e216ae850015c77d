package es

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/agro_shop/internal/logging"
)

type Config struct {
	URL      string
	Username string
	Password string
	Index    string
}

// Client is a product index backed by Elasticsearch.
type Client struct {
	es    *elasticsearch.Client
	index string
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	l := logging.FromContext(ctx).With("component", "es")
	if cfg.URL == "" {
		return nil, fmt.Errorf("es: url is empty")
	}
	if cfg.Index == "" {
		cfg.Index = "products"
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("es: create client: %w", err)
	}

	res, err := client.Info(client.Info.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("es: info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, responseError("info", res.Status(), res.Body)
	}

	l.Info("es_connected", "url", cfg.URL, "index", cfg.Index)
	return &Client{es: client, index: cfg.Index}, nil
}

func (c *Client) Index() string { return c.index }

func responseError(op, status string, body io.Reader) error {
	b, _ := io.ReadAll(io.LimitReader(body, 4<<10))
	return fmt.Errorf("es: %s failed: %s: %s", op, status, strings.TrimSpace(string(b)))
}
