package booking

import "time"

// AdditionalDriver is an extra driver registered on a booking.
type AdditionalDriver struct {
	Name          string    `json:"name"`
	LicenseNumber string    `json:"license_number"`
	LicenseExpiry time.Time `json:"license_expiry"`
}

// AdditionalService is a priced add-on (chauffeur, child seat, delivery...).
type AdditionalService struct {
	Name      string `json:"name"`
	PriceFils int64  `json:"price_fils"`
}
