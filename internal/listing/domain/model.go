package domain

import "time"

type Status string

const (
	StatusAvailable Status = "available"
	StatusReserved  Status = "reserved"
	StatusSold      Status = "sold"
	StatusHidden    Status = "hidden"
)

var validStatuses = map[Status]bool{
	StatusAvailable: true,
	StatusReserved:  true,
	StatusSold:      true,
	StatusHidden:    true,
}

func (s Status) IsValid() bool { return validStatuses[s] }

// Brands is the closed set of accepted car makes.
var Brands = []string{
	"toyota", "honda", "nissan", "hyundai", "kia",
	"mercedes", "bmw", "audi", "volkswagen", "ford",
	"chevrolet", "mazda", "mitsubishi", "suzuki", "other",
}

var Currencies = []string{"SAR", "AED", "KWD", "USD", "EUR"}

var Conditions = []string{"new", "excellent", "very_good", "good", "fair"}

var Transmissions = []string{"automatic", "manual", "cvt"}

var FuelTypes = []string{"petrol", "diesel", "hybrid", "electric"}

// MinYear is the oldest accepted model year. The upper bound is the current
// year plus one (next year's models are sold ahead of time).
const MinYear = 1990

// Image is one uploaded photo: the public URL plus the identifier the
// backing store assigned (local filename or object key).
type Image struct {
	URL       string
	StorageID string
}

type Location struct {
	City     string
	District string
	Country  string
}

// Listing is a car-for-sale record. SellerID references the owning user;
// every mutation must come from that user.
type Listing struct {
	ID           string
	Title        string
	Description  string
	Brand        string
	Model        string
	Year         int
	Mileage      int
	Price        float64
	Currency     string
	Condition    string
	Transmission string
	FuelType     string
	EngineSize   string
	Color        string
	Location     Location
	Images       []Image
	Features     []string
	SellerID     string
	Status       Status
	Views        int64
	Featured     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HomeStats is the aggregate shown on the homepage.
type HomeStats struct {
	TotalCars   int64 `json:"total_cars"`
	TotalBrands int   `json:"total_brands"`
}

// HomePage is the homepage payload: the newest available listings, the
// featured ones and the aggregate counts.
type HomePage struct {
	Latest   []*Listing `json:"latest"`
	Featured []*Listing `json:"featured"`
	Stats    HomeStats  `json:"stats"`
}
