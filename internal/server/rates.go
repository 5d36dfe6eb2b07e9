package server

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// @Summary      Resolve Rates
// @Description  Resolve the effective rate table for a location and pass type
// @Tags         rates
// @Produce      json
// @Param        location_id  query  string  true  "Location ID"
// @Param        pass_type    query  string  true  "Pass Type"
// @Success      200  {object}  ratesdomain.RateTable
// @Router       /rates [get]
func (s *Server) GetRates(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("location_id"))
	if raw == "" {
		AbortWithError(c, newValidationError("location_id", "required", "location_id is required"))
		return
	}
	locationID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		AbortWithError(c, newValidationError("location_id", "invalid_id", "location_id must be an integer"))
		return
	}

	passType := strings.TrimSpace(c.Query("pass_type"))
	if passType == "" {
		AbortWithError(c, newValidationError("pass_type", "required", "pass_type is required"))
		return
	}

	rates, err := s.ratesSvc.Resolve(c.Request.Context(), locationID, passType)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, rates)
}
