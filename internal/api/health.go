package api

import (
	"context"

	"user_manager/internal/model"
)

// Health asks the record store whether it is up.
func (c *Client) Health(ctx context.Context) (model.HealthStatus, error) {
	var status model.HealthStatus
	if err := c.call(ctx, "health", "Record store is unreachable", "GET", "/api/health", nil, nil, &status); err != nil {
		return model.HealthStatus{}, err
	}
	return status, nil
}
