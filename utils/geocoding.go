package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"food-donation-server/config"
)

// Short fixed timeout for all outbound lookups; failures degrade to an
// error result instead of propagating.
var geoClient = &http.Client{Timeout: 5 * time.Second}

// ReverseGeocodeResult holds address parts resolved from coordinates.
type ReverseGeocodeResult struct {
	City        string `json:"city"`
	State       string `json:"state"`
	Country     string `json:"country"`
	Postcode    string `json:"postcode"`
	FullAddress string `json:"full_address"`
}

// ReverseGeocode resolves coordinates to address information using
// OpenStreetMap Nominatim. This is a free service, but for production use,
// consider using Google Maps API or similar.
func ReverseGeocode(latitude, longitude float64) (*ReverseGeocodeResult, error) {
	apiURL := fmt.Sprintf("https://nominatim.openstreetmap.org/reverse?format=json&lat=%f&lon=%f", latitude, longitude)

	resp, err := geoClient.Get(apiURL)
	if err != nil {
		return nil, fmt.Errorf("failed to make reverse geocoding request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reverse geocoding service returned status: %d", resp.StatusCode)
	}

	var payload struct {
		DisplayName string `json:"display_name"`
		Address     struct {
			City     string `json:"city"`
			Town     string `json:"town"`
			Village  string `json:"village"`
			State    string `json:"state"`
			Country  string `json:"country"`
			Postcode string `json:"postcode"`
		} `json:"address"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode reverse geocoding response: %w", err)
	}

	city := payload.Address.City
	if city == "" {
		city = payload.Address.Town
	}
	if city == "" {
		city = payload.Address.Village
	}

	return &ReverseGeocodeResult{
		City:        city,
		State:       payload.Address.State,
		Country:     payload.Address.Country,
		Postcode:    payload.Address.Postcode,
		FullAddress: payload.DisplayName,
	}, nil
}

// IPLocation holds location data resolved from an IP address.
type IPLocation struct {
	IP        string   `json:"ip"`
	City      string   `json:"city"`
	Region    string   `json:"region"`
	Country   string   `json:"country"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Zip       string   `json:"zip"`
	Timezone  string   `json:"timezone"`
}

// GetIPStackLocation looks up an IP's location via the ipstack API.
// An empty ip lets ipstack auto-detect the caller.
func GetIPStackLocation(ipAddress string) (*IPLocation, error) {
	apiKey := config.AppConfig.External.IPStackAPIKey
	if apiKey == "" {
		return nil, fmt.Errorf("ipstack API key not configured")
	}

	if strings.TrimSpace(ipAddress) == "" {
		ipAddress = "check" // ipstack auto-detects
	}

	apiURL := fmt.Sprintf("http://api.ipstack.com/%s?access_key=%s", ipAddress, apiKey)

	resp, err := geoClient.Get(apiURL)
	if err != nil {
		return nil, fmt.Errorf("failed to make ipstack request: %w", err)
	}
	defer resp.Body.Close()

	var payload struct {
		IP          string   `json:"ip"`
		City        string   `json:"city"`
		RegionName  string   `json:"region_name"`
		CountryName string   `json:"country_name"`
		Latitude    *float64 `json:"latitude"`
		Longitude   *float64 `json:"longitude"`
		Zip         string   `json:"zip"`
		TimeZone    struct {
			ID string `json:"id"`
		} `json:"time_zone"`
		Error *struct {
			Info string `json:"info"`
		} `json:"error"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode ipstack response: %w", err)
	}

	if payload.Error != nil {
		return nil, fmt.Errorf("ipstack error: %s", payload.Error.Info)
	}

	return &IPLocation{
		IP:        payload.IP,
		City:      payload.City,
		Region:    payload.RegionName,
		Country:   payload.CountryName,
		Latitude:  payload.Latitude,
		Longitude: payload.Longitude,
		Zip:       payload.Zip,
		Timezone:  payload.TimeZone.ID,
	}, nil
}
