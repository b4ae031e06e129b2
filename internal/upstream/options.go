package upstream

import (
	"context"
	"net/url"

	"github.com/parandev-inditech/Somata-UI-sub000/internal/types"
)

// AllSignals fetches the full signal registry.
func (g *Gateway) AllSignals(ctx context.Context) ([]types.Signal, error) {
	var signals []types.Signal
	if err := g.getJSON(ctx, "/signals/all", nil, &signals); err != nil {
		return nil, err
	}
	return signals, nil
}

// OptionFilter narrows the corridor option list by higher-level selections.
// Empty fields are sent as empty query parameters, matching the API contract.
type OptionFilter struct {
	ZoneGroup string
	Zone      string
	Agency    string
	County    string
	City      string
}

// ZoneGroups fetches the region option list.
func (g *Gateway) ZoneGroups(ctx context.Context) ([]string, error) {
	return g.options(ctx, "/signals/zonegroups")
}

// Zones fetches the district option list.
func (g *Gateway) Zones(ctx context.Context) ([]string, error) {
	return g.options(ctx, "/signals/zones")
}

// ZonesByZoneGroup fetches districts belonging to one region.
func (g *Gateway) ZonesByZoneGroup(ctx context.Context, zoneGroup string) ([]string, error) {
	return g.options(ctx, "/signals/zonesbyzonegroup/"+url.PathEscape(zoneGroup))
}

// Agencies fetches the agency option list.
func (g *Gateway) Agencies(ctx context.Context) ([]string, error) {
	return g.options(ctx, "/signals/agencies")
}

// Counties fetches the county option list.
func (g *Gateway) Counties(ctx context.Context) ([]string, error) {
	return g.options(ctx, "/signals/counties")
}

// Cities fetches the city option list.
func (g *Gateway) Cities(ctx context.Context) ([]string, error) {
	return g.options(ctx, "/signals/cities")
}

// Corridors fetches the unfiltered corridor option list.
func (g *Gateway) Corridors(ctx context.Context) ([]string, error) {
	return g.options(ctx, "/signals/corridors")
}

// CorridorsByFilter fetches corridors narrowed by the given selections.
func (g *Gateway) CorridorsByFilter(ctx context.Context, filter OptionFilter) ([]string, error) {
	q := url.Values{}
	q.Set("zoneGroup", filter.ZoneGroup)
	q.Set("zone", filter.Zone)
	q.Set("agency", filter.Agency)
	q.Set("county", filter.County)
	q.Set("city", filter.City)
	var opts []string
	if err := g.getJSON(ctx, "/signals/corridorsbyfilter", q, &opts); err != nil {
		return nil, err
	}
	return opts, nil
}

// Subcorridors fetches the unfiltered subcorridor option list.
func (g *Gateway) Subcorridors(ctx context.Context) ([]string, error) {
	return g.options(ctx, "/signals/subcorridors")
}

// SubcorridorsByCorridor fetches subcorridors belonging to one corridor.
func (g *Gateway) SubcorridorsByCorridor(ctx context.Context, corridor string) ([]string, error) {
	return g.options(ctx, "/signals/subcorridorsbycorridor/"+url.PathEscape(corridor))
}

// Priorities fetches the priority option list.
func (g *Gateway) Priorities(ctx context.Context) ([]string, error) {
	return g.options(ctx, "/signals/priorities")
}

// Classifications fetches the classification option list.
func (g *Gateway) Classifications(ctx context.Context) ([]string, error) {
	return g.options(ctx, "/signals/classifications")
}

func (g *Gateway) options(ctx context.Context, path string) ([]string, error) {
	var opts []string
	if err := g.getJSON(ctx, path, nil, &opts); err != nil {
		return nil, err
	}
	return opts, nil
}
