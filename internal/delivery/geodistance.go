package delivery

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/angelmondragon/ordering-backend/pkg/db/models"
	"github.com/angelmondragon/ordering-backend/pkg/maps"
	"github.com/shopspring/decimal"
)

const (
	earthRadiusMeters = 6371008.8

	// average urban courier speed used when no route duration is available
	fallbackSpeedMetersPerMinute = 400
)

var errBranchLocation = errors.New("branch location not configured")

// RouteComputer measures the driving route between two points.
type RouteComputer interface {
	ComputeRoute(ctx context.Context, origin, destination maps.LatLng) (*maps.Route, error)
}

// DistanceQuoter prices deliveries by distance from the branch. Coverage is the
// branch delivery radius measured in a straight line; the tariff applies to the
// driving distance when a route computer is configured.
type DistanceQuoter struct {
	routes RouteComputer
}

// NewDistanceQuoter builds a quoter. A nil route computer prices by straight-line distance.
func NewDistanceQuoter(routes RouteComputer) *DistanceQuoter {
	return &DistanceQuoter{routes: routes}
}

// QuoteByCoordinates implements GeoQuoter.
func (q *DistanceQuoter) QuoteByCoordinates(ctx context.Context, branch *models.Branch, point Point) (GeoQuote, error) {
	if branch == nil || !branch.HasLocation() {
		return GeoQuote{}, errBranchLocation
	}
	origin := Point{Lat: *branch.Lat, Lng: *branch.Lng}

	straight := haversineMeters(origin, point)
	if branch.DeliveryRadiusMeters > 0 && straight > float64(branch.DeliveryRadiusMeters) {
		return GeoQuote{Available: false}, nil
	}

	meters := straight
	travelMinutes := int(math.Ceil(straight / fallbackSpeedMetersPerMinute))
	if q != nil && q.routes != nil {
		route, err := q.routes.ComputeRoute(ctx,
			maps.LatLng{Latitude: origin.Lat, Longitude: origin.Lng},
			maps.LatLng{Latitude: point.Lat, Longitude: point.Lng},
		)
		if errors.Is(err, maps.ErrNoRoute) {
			return GeoQuote{Available: false}, nil
		}
		if err != nil {
			return GeoQuote{}, fmt.Errorf("compute route: %w", err)
		}
		meters = float64(route.DistanceMeters)
		if route.Duration > 0 {
			travelMinutes = int(math.Ceil(route.Duration.Minutes()))
		}
	}

	return GeoQuote{
		Available:     true,
		CostCents:     tariffCents(branch, meters),
		TravelMinutes: travelMinutes,
	}, nil
}

// tariffCents is base fee + km × per-km tariff, rounded half away from zero to cents.
func tariffCents(branch *models.Branch, meters float64) int64 {
	km := decimal.NewFromFloat(meters).Div(decimal.NewFromInt(1000))
	distanceCents := km.Mul(branch.DeliveryFeePerKm).Mul(decimal.NewFromInt(100)).Round(0)
	return branch.DeliveryBaseFee + distanceCents.IntPart()
}

func haversineMeters(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}
