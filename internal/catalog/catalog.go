// Package catalog holds the fixed list of henna services and their prices.
package catalog

type ServiceType string

const (
	Simple ServiceType = "simple"
	Moyen  ServiceType = "moyen"
	Charge ServiceType = "charge"
	Mariee ServiceType = "mariee"
)

// Types lists every service type in display order.
var Types = []ServiceType{Simple, Moyen, Charge, Mariee}

func (t ServiceType) Valid() bool {
	switch t {
	case Simple, Moyen, Charge, Mariee:
		return true
	}
	return false
}

type Service struct {
	Name     string `json:"name"`
	Price    int    `json:"price"`
	Duration string `json:"duration"`
	Note     string `json:"note,omitempty"`
}

// Catalog maps a service type to its description.
type Catalog map[ServiceType]Service

func Default() Catalog {
	return Catalog{
		Simple: {Name: "Henné Simple", Price: 5, Duration: "30min"},
		Moyen:  {Name: "Henné Moyen", Price: 8, Duration: "45min-1h", Note: "par main"},
		Charge: {Name: "Henné Chargé", Price: 12, Duration: "1h-1h30", Note: "par main"},
		Mariee: {Name: "Henné Mariée", Price: 20, Duration: "1h30-2h", Note: "par main"},
	}
}

func (c Catalog) Lookup(t ServiceType) (Service, bool) {
	s, ok := c[t]
	return s, ok
}
