package coflnet

import (
	"context"
	"fmt"
	"net/url"
)

const (
	endpointActiveBIN = "active_bin"
	endpointSoldWeek  = "sold_week"
	endpointSoldMonth = "sold_month"

	// historyPageSize acota la consulta del último mes.
	historyPageSize = 1000
)

// FetchActiveBIN devuelve los BIN activos de un tag.
func (c *Client) FetchActiveBIN(ctx context.Context, tag string) ([]activeAuction, error) {
	var resp []activeAuction
	u := fmt.Sprintf("%s/%s/active/bin", c.baseURL, url.PathEscape(tag))
	if err := c.get(ctx, endpointActiveBIN, u, &resp); err != nil {
		return nil, fmt.Errorf("coflnet.FetchActiveBIN %s: %w", tag, err)
	}
	return resp, nil
}

// FetchRecentSales devuelve las ventas de la última semana aprox. de un tag.
func (c *Client) FetchRecentSales(ctx context.Context, tag string) ([]soldAuction, error) {
	var resp []soldAuction
	u := fmt.Sprintf("%s/%s/sold", c.baseURL, url.PathEscape(tag))
	if err := c.get(ctx, endpointSoldWeek, u, &resp); err != nil {
		return nil, fmt.Errorf("coflnet.FetchRecentSales %s: %w", tag, err)
	}
	return resp, nil
}

// FetchHistoricalSales devuelve la última página (máx historyPageSize) de ventas,
// que cubre aprox. el último mes.
func (c *Client) FetchHistoricalSales(ctx context.Context, tag string) ([]soldAuction, error) {
	var resp []soldAuction
	u := fmt.Sprintf("%s/%s/sold?page=last&count=%d", c.baseURL, url.PathEscape(tag), historyPageSize)
	if err := c.get(ctx, endpointSoldMonth, u, &resp); err != nil {
		return nil, fmt.Errorf("coflnet.FetchHistoricalSales %s: %w", tag, err)
	}
	return resp, nil
}
