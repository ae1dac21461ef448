package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	maxTitleLen       = 100
	maxDescriptionLen = 1000
)

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// MaxYear is the newest accepted model year at the time of the call.
func MaxYear() int { return time.Now().Year() + 1 }

// Validate checks every field rule and returns all violations, independent of
// the persistence call. A nil return means the listing is storable.
func (l *Listing) Validate() *ValidationError {
	var fields []FieldError
	add := func(field, msg string) {
		fields = append(fields, FieldError{Field: field, Message: msg})
	}

	if strings.TrimSpace(l.Title) == "" {
		add("title", "title is required")
	} else if len(l.Title) > maxTitleLen {
		add("title", fmt.Sprintf("title must be at most %d characters", maxTitleLen))
	}

	if strings.TrimSpace(l.Description) == "" {
		add("description", "description is required")
	} else if len(l.Description) > maxDescriptionLen {
		add("description", fmt.Sprintf("description must be at most %d characters", maxDescriptionLen))
	}

	if !contains(Brands, l.Brand) {
		add("brand", "unknown brand")
	}
	if strings.TrimSpace(l.Model) == "" {
		add("model", "model is required")
	}

	if l.Year < MinYear || l.Year > MaxYear() {
		add("year", fmt.Sprintf("year must be between %d and %d", MinYear, MaxYear()))
	}
	if l.Mileage < 0 {
		add("mileage", "mileage cannot be negative")
	}
	if l.Price < 0 {
		add("price", "price cannot be negative")
	}
	if !contains(Currencies, l.Currency) {
		add("currency", "unknown currency")
	}
	if !contains(Conditions, l.Condition) {
		add("condition", "unknown condition")
	}
	if !contains(Transmissions, l.Transmission) {
		add("transmission", "unknown transmission")
	}
	if !contains(FuelTypes, l.FuelType) {
		add("fuelType", "unknown fuel type")
	}
	if strings.TrimSpace(l.EngineSize) == "" {
		add("engineSize", "engine size is required")
	}
	if strings.TrimSpace(l.Color) == "" {
		add("color", "color is required")
	}

	if strings.TrimSpace(l.Location.City) == "" {
		add("city", "city is required")
	}
	if strings.TrimSpace(l.Location.District) == "" {
		add("district", "district is required")
	}
	if strings.TrimSpace(l.Location.Country) == "" {
		add("country", "country is required")
	}

	if l.SellerID == "" {
		add("seller", "seller is required")
	}
	if !l.Status.IsValid() {
		add("status", "unknown status")
	}

	if fields == nil {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// NormalizeFeatures trims entries and drops blanks, preserving order. Form
// submissions may carry a single value or a list; both arrive here as a slice.
func NormalizeFeatures(raw []string) []string {
	features := make([]string, 0, len(raw))
	for _, f := range raw {
		f = strings.TrimSpace(f)
		if f != "" {
			features = append(features, f)
		}
	}
	return features
}
