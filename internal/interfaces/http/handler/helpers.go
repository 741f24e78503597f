package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/haylacafe/backend/internal/domain/catalog"
	"github.com/haylacafe/backend/internal/domain/shared"
)

// parseLocationsQuery reads the repeated "locations" query parameter. An
// absent parameter means no location constraint.
func parseLocationsQuery(c *gin.Context) ([]catalog.Location, error) {
	raw := c.QueryArray("locations")
	if len(raw) == 0 {
		return nil, nil
	}

	out := make([]catalog.Location, 0, len(raw))
	for _, s := range raw {
		loc := catalog.Location(s)
		if !loc.IsValid() {
			return nil, shared.NewValidationError("unknown location code: %s", s)
		}
		out = append(out, loc)
	}
	return out, nil
}
