package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lumvida/lumvida-backend/internal/geocoding"
	"github.com/lumvida/lumvida-backend/internal/http/handlers/common"
	"github.com/lumvida/lumvida-backend/internal/models"
)

// GeocodeHandler exposes reverse geocoding for the map view.
type GeocodeHandler struct {
	cache *geocoding.Cache
}

func NewGeocodeHandler(cache *geocoding.Cache) *GeocodeHandler {
	return &GeocodeHandler{cache: cache}
}

// Lookup handles GET /api/geocode?lat=&lng=&direccion=.
func (h *GeocodeHandler) Lookup(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, "lat must be a number")
		return
	}
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, "lng must be a number")
		return
	}

	loc := models.Location{Latitud: lat, Longitud: lng}
	if !loc.Valid() {
		common.RespondError(c, http.StatusBadRequest, "coordinates out of range")
		return
	}

	result := h.cache.Resolve(c.Request.Context(), lat, lng, c.Query("direccion"))
	common.RespondJSON(c, http.StatusOK, result)
}
