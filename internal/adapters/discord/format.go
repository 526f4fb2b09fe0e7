package discord

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bnema/selfcord/internal/adapters/discord/rest"
)

// JSONFormat renders v as indented JSON for display.
func JSONFormat(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return "", fmt.Errorf("format json: %w", err)
	}
	return string(data), nil
}

// DownloadFile fetches an absolute URL such as an attachment or CDN image.
func (c *Client) DownloadFile(ctx context.Context, url string) ([]byte, error) {
	data, err := c.do(ctx, rest.Request{Path: url})
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", url, err)
	}
	return data, nil
}
