package mgmt

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// ListParams select one page of an application listing.
type ListParams struct {
	// Query filters applications by name on the service side. Empty
	// means no filter.
	Query string
	// Page is the 1-based page number.
	Page int
	// Size is the page size.
	Size int
}

// GetApplication fetches a single application by identifier. An unknown
// identifier fails with ErrNotFound.
func (c *Client) GetApplication(ctx context.Context, id string) (Application, error) {
	if id == "" {
		return Application{}, fmt.Errorf("application id is required")
	}
	var app Application
	if err := c.get(ctx, "/applications/"+url.PathEscape(id), &app); err != nil {
		return Application{}, fmt.Errorf("get application %s: %w", id, err)
	}
	return app, nil
}

// ListApplications fetches one page of applications in the service's
// natural listing order.
func (c *Client) ListApplications(ctx context.Context, params ListParams) (ApplicationPage, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	query := url.Values{}
	query.Set("page", strconv.Itoa(params.Page))
	if params.Size > 0 {
		query.Set("size", strconv.Itoa(params.Size))
	}
	if params.Query != "" {
		query.Set("query", params.Query)
	}
	var page ApplicationPage
	if err := c.get(ctx, "/applications?"+query.Encode(), &page); err != nil {
		return ApplicationPage{}, fmt.Errorf("list applications page %d: %w", params.Page, err)
	}
	return page, nil
}

// UpdateApplication replaces an application's definition and returns the
// stored result.
func (c *Client) UpdateApplication(ctx context.Context, id string, app Application) (Application, error) {
	if id == "" {
		return Application{}, fmt.Errorf("application id is required")
	}
	var updated Application
	if err := c.putJSON(ctx, "/applications/"+url.PathEscape(id), app, &updated); err != nil {
		return Application{}, fmt.Errorf("update application %s: %w", id, err)
	}
	return updated, nil
}

// ListSubscriptions fetches every subscription held by an application.
func (c *Client) ListSubscriptions(ctx context.Context, id string) ([]Subscription, error) {
	if id == "" {
		return nil, fmt.Errorf("application id is required")
	}
	var subscriptions []Subscription
	if err := c.get(ctx, "/applications/"+url.PathEscape(id)+"/subscriptions", &subscriptions); err != nil {
		return nil, fmt.Errorf("list subscriptions for %s: %w", id, err)
	}
	return subscriptions, nil
}
