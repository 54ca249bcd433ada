package main

import (
	"time"

	"github.com/goride/admin-api/internal/core/domain"
)

// defaultRides is the catalogue written by migrate --seed.
func defaultRides(now time.Time) []domain.Ride {
	return []domain.Ride{
		{RideType: "Bike", VehicleName: "Scooter", Capacity: 1, BaseFare: 20, PerKmFare: 6, Description: "Quick solo rides through traffic", CreatedAt: now},
		{RideType: "Auto", VehicleName: "Auto Rickshaw", Capacity: 3, BaseFare: 30, PerKmFare: 10, Description: "Open three-wheeler for short trips", CreatedAt: now},
		{RideType: "Mini", VehicleName: "Hatchback", Capacity: 4, BaseFare: 50, PerKmFare: 12, Description: "Compact cars at everyday fares", CreatedAt: now},
		{RideType: "Sedan", VehicleName: "Sedan", Capacity: 4, BaseFare: 80, PerKmFare: 15, Description: "Comfortable sedans with extra boot space", CreatedAt: now},
		{RideType: "SUV", VehicleName: "SUV", Capacity: 6, BaseFare: 120, PerKmFare: 18, Description: "Spacious rides for groups", CreatedAt: now},
		{RideType: "SUV", VehicleName: "Premium SUV", Capacity: 6, BaseFare: 180, PerKmFare: 24, Description: "Top-rated drivers in premium SUVs", CreatedAt: now},
	}
}
