package handlers

import (
	"net/http"
	"strconv"

	"github.com/jhansigoday/bookbridge/logger"
	"github.com/jhansigoday/bookbridge/utils"
)

type GeocodeHandler struct {
	Geocoder *utils.ReverseGeocoder
}

func NewGeocodeHandler(g *utils.ReverseGeocoder) *GeocodeHandler {
	return &GeocodeHandler{Geocoder: g}
}

// Reverse resolves lat/lon query parameters to an address string. When both
// upstream services fail the caller is told to enter the location manually.
func (h *GeocodeHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if latErr != nil || lonErr != nil {
		utils.JSONError(w, "lat and lon query parameters are required", http.StatusBadRequest)
		return
	}

	address, err := h.Geocoder.Lookup(r.Context(), lat, lon)
	if err != nil {
		logger.Log.WithError(err).Warn("reverse geocode failed")
		utils.JSONError(w, "Could not resolve your location, please enter it manually", http.StatusBadGateway)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"address": address})
}
