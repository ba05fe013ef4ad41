package carenote

import "context"

// GetStatistics fetches the aggregate usage snapshot. There is nothing to
// normalize: absent fields simply decode to zero.
func (c *Client) GetStatistics(ctx context.Context) (*Statistics, error) {
	var stats Statistics
	if err := c.getJSON(ctx, "get_statistics", "/api/statistics", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
