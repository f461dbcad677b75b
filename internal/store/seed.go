package store

import (
	"time"

	"pharmapulse/backend/internal/domain"
)

func DefaultVendors() []domain.Vendor {
	return []domain.Vendor{
		{ID: "v1", Name: "MediCorp Global", Contact: "555-0101", Email: "orders@medicorp.com", Rating: 4.8, DeliveryDays: 2},
		{ID: "v2", Name: "HealthPlus Distrib", Contact: "555-0102", Email: "supply@healthplus.com", Rating: 4.2, DeliveryDays: 1},
		{ID: "v3", Name: "BioChem Supplies", Contact: "555-0103", Email: "sales@biochem.com", Rating: 3.9, DeliveryDays: 4},
	}
}

func DefaultMedicines() []domain.Medicine {
	return []domain.Medicine{
		{ID: "m1", Name: "Paracetamol 500mg", Category: "Analgesic", Stock: 150, Threshold: 50, CostPrice: domain.Money(0.5), SellingPrice: domain.Money(2.0), ExpiryDate: domain.NewDate(2025, time.December, 31), Manufacturer: "GSK", VendorID: "v1"},
		{ID: "m2", Name: "Amoxicillin 250mg", Category: "Antibiotic", Stock: 20, Threshold: 30, CostPrice: domain.Money(3.0), SellingPrice: domain.Money(8.5), ExpiryDate: domain.NewDate(2024, time.June, 15), Manufacturer: "Pfizer", VendorID: "v2"},
		{ID: "m3", Name: "Ibuprofen 400mg", Category: "Pain Relief", Stock: 85, Threshold: 40, CostPrice: domain.Money(1.2), SellingPrice: domain.Money(4.0), ExpiryDate: domain.NewDate(2025, time.August, 20), Manufacturer: "Abbott", VendorID: "v1"},
		{ID: "m4", Name: "Cetirizine 10mg", Category: "Antihistamine", Stock: 10, Threshold: 25, CostPrice: domain.Money(0.8), SellingPrice: domain.Money(3.5), ExpiryDate: domain.NewDate(2024, time.November, 1), Manufacturer: "Cipla", VendorID: "v3"},
		{ID: "m5", Name: "Metformin 500mg", Category: "Diabetes", Stock: 200, Threshold: 60, CostPrice: domain.Money(1.5), SellingPrice: domain.Money(5.0), ExpiryDate: domain.NewDate(2026, time.January, 10), Manufacturer: "Sun Pharma", VendorID: "v2"},
	}
}

func DefaultSettings() domain.AppSettings {
	return domain.AppSettings{
		Currency:    "USD",
		Locale:      "en-US",
		CountryName: "United States",
	}
}
