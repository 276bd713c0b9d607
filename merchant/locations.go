package merchant

import (
	"context"
	"net/url"

	"github.com/revolut-cli/revolut-cli/api"
)

type LocationType string

const LocationOnline LocationType = "online"

func (t *LocationType) UnmarshalJSON(data []byte) error {
	v, err := api.DecodeEnum(data)
	*t = LocationType(v)
	return err
}

type LocationDetails struct {
	Domain string `json:"domain"`
}

type LocationRequest struct {
	Name    string          `json:"name"`
	Type    LocationType    `json:"type"`
	Details LocationDetails `json:"details"`
}

type Location struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Type    LocationType    `json:"type"`
	Details LocationDetails `json:"details"`
}

func locationPath(id string) string { return "/locations/" + url.PathEscape(id) }

func (c *Client) CreateLocation(ctx context.Context, req LocationRequest) (*Location, error) {
	return request[Location](ctx, c, api.Post(api.JSON(req)), c.unversioned("/locations"))
}

func (c *Client) ListLocations(ctx context.Context) ([]Location, error) {
	return api.Request[[]Location](ctx, c, api.Get(), c.unversioned("/locations"))
}

func (c *Client) GetLocation(ctx context.Context, locationID string) (*Location, error) {
	return request[Location](ctx, c, api.Get(), c.unversioned(locationPath(locationID)))
}

func (c *Client) UpdateLocation(ctx context.Context, locationID string, req LocationRequest) (*Location, error) {
	return request[Location](ctx, c, api.Patch(api.JSON(req)), c.unversioned(locationPath(locationID)))
}

func (c *Client) DeleteLocation(ctx context.Context, locationID string) error {
	return c.Do(ctx, api.Delete(), c.unversioned(locationPath(locationID)), nil)
}
