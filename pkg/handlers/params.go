package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/lodgic-inc/hotels-engine/pkg/models"
)

// queryParams holds the filters shared by the KPI endpoints.
type queryParams struct {
	hotel       models.Hotel
	granularity models.TimeGranularity
	maxLeadTime int
}

// parseQueryParams reads hotel, granularity and max_lead_time from the
// request. All are optional: no hotel means both hotels, no granularity
// means daily, no max_lead_time means the configured bound.
func parseQueryParams(r *http.Request) (queryParams, error) {
	var p queryParams

	if slug := r.URL.Query().Get("hotel"); slug != "" {
		hotel, err := models.ParseHotelSlug(slug)
		if err != nil {
			return p, err
		}
		p.hotel = hotel
	}

	granularity, err := models.ParseTimeGranularity(r.URL.Query().Get("granularity"))
	if err != nil {
		return p, err
	}
	p.granularity = granularity

	if raw := r.URL.Query().Get("max_lead_time"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return p, fmt.Errorf("invalid max_lead_time %q", raw)
		}
		p.maxLeadTime = n
	}

	return p, nil
}
