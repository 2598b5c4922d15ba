package routes

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"food-donation-server/utils"
)

// session key for the per-browser location filter
const sessionLocationKey = "location_filter"

// SetLocationFilterRequest carries the free-text city/location string
type SetLocationFilterRequest struct {
	Location string `json:"location" binding:"required"`
}

// RegisterLocationRoutes registers the location filter and lookup routes
func RegisterLocationRoutes(router *gin.RouterGroup) {
	router.GET("/location/filter", getLocationFilter)
	router.POST("/location/filter", setLocationFilter)
	router.DELETE("/location/filter", clearLocationFilter)
	router.GET("/location/ip", lookupIPLocation)
	router.GET("/location/reverse-geocode", reverseGeocode)
}

// sessionLocation reads the session-scoped location filter, if any
func sessionLocation(c *gin.Context) string {
	session := sessions.Default(c)
	if value, ok := session.Get(sessionLocationKey).(string); ok {
		return value
	}
	return ""
}

// clearSessionLocation drops the filter; also called on logout
func clearSessionLocation(c *gin.Context) {
	session := sessions.Default(c)
	session.Delete(sessionLocationKey)
	if err := session.Save(); err != nil {
		log.Printf("⚠️ Failed to save session: %v", err)
	}
}

// getLocationFilter returns the active session filter
func getLocationFilter(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"location": sessionLocation(c)},
	})
}

// setLocationFilter stores a location string in the browser session; it
// applies to donation listings until cleared or replaced.
func setLocationFilter(c *gin.Context) {
	var req SetLocationFilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	location := strings.TrimSpace(req.Location)
	if location == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Empty location",
			"message": "Location must not be blank",
		})
		return
	}

	session := sessions.Default(c)
	session.Set(sessionLocationKey, location)
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Session save failed",
			"message": "Failed to store the location filter",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Location filter set",
		"data":    gin.H{"location": location},
	})
}

// clearLocationFilter removes the session filter
func clearLocationFilter(c *gin.Context) {
	clearSessionLocation(c)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Location filter cleared",
	})
}

// lookupIPLocation resolves the caller's (or a given) IP to a rough
// location via ipstack. Lookup failures come back as a payload, not a 5xx.
func lookupIPLocation(c *gin.Context) {
	ip := c.Query("ip")

	location, err := utils.GetIPStackLocation(ip)
	if err != nil {
		log.Printf("⚠️ IP location lookup failed: %v", err)
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": "Could not determine location from IP",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    location,
	})
}

// reverseGeocode resolves coordinates to address parts via Nominatim
func reverseGeocode(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid coordinates",
			"message": "Provide numeric lat and lng query parameters",
		})
		return
	}

	if !utils.IsLocationValid(lat, lng) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid coordinates",
			"message": "Latitude must be within ±90 and longitude within ±180",
		})
		return
	}

	result, err := utils.ReverseGeocode(lat, lng)
	if err != nil {
		log.Printf("⚠️ Reverse geocoding failed: %v", err)
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": "Could not resolve an address for those coordinates",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}
