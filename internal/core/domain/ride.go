package domain

import "time"

// Ride is one bookable option in the ride_details catalogue.
type Ride struct {
	ID          int64     `json:"ride_id" bson:"ride_id"`
	RideType    string    `json:"ride_type" bson:"ride_type"`
	VehicleName string    `json:"vehicle_name" bson:"vehicle_name"`
	Capacity    int       `json:"capacity" bson:"capacity"`
	BaseFare    float64   `json:"base_fare" bson:"base_fare"`
	PerKmFare   float64   `json:"per_km_fare" bson:"per_km_fare"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}
