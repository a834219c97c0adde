// Package sheets talks to the remote record store: a spreadsheet webhook that
// serves collections of string records keyed by sheet name.
package sheets

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

type Client struct {
	client *resty.Client
}

type sheetResponse struct {
	Status string              `json:"status"`
	Data   []map[string]string `json:"data"`
}

func NewClient(webhookURL string) *Client {
	return &Client{
		client: resty.New().SetBaseURL(webhookURL).SetTimeout(10 * time.Second),
	}
}

// Rows fetches the full collection stored under the given sheet. A transport
// failure or a non-success status is a real error, distinct from an empty sheet,
// so callers can tell "no records" from "store unreachable".
func (c *Client) Rows(ctx context.Context, sheet string) ([]map[string]string, error) {
	var body sheetResponse
	res, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("sheet", sheet).
		SetResult(&body).
		Get("")
	if err != nil {
		return nil, fmt.Errorf("error fetching sheet %s: %w", sheet, err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("sheet %s fetch returned status %d", sheet, res.StatusCode())
	}
	if body.Status != "success" {
		return nil, fmt.Errorf("sheet %s fetch returned status %q", sheet, body.Status)
	}
	return body.Data, nil
}

// Append adds one record to the sheet. Values are plain strings; the webhook
// chokes on nulls, so absent fields must be sent as "".
func (c *Client) Append(ctx context.Context, sheet string, record map[string]string) error {
	var body sheetResponse
	res, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("sheet", sheet).
		SetHeader("Content-Type", "application/json").
		SetBody(record).
		SetResult(&body).
		Post("")
	if err != nil {
		return fmt.Errorf("error appending to sheet %s: %w", sheet, err)
	}
	if res.IsError() {
		return fmt.Errorf("sheet %s append returned status %d", sheet, res.StatusCode())
	}
	if body.Status != "success" {
		return fmt.Errorf("sheet %s append returned status %q", sheet, body.Status)
	}
	return nil
}
