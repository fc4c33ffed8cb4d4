// internal/model/customer.go
package model

import (
    "fmt"
    "time"
)

type Customer struct {
    ID        int    `db:"id" json:"id"`
    ShopID    int    `db:"shop_id" json:"shop_id"`
    Phone     string `db:"phone" json:"phone"`
    FirstName string `db:"first_name" json:"first_name"`
    LastName  string `db:"last_name" json:"last_name"`
}

type Vehicle struct {
    ID         int    `db:"id" json:"id"`
    CustomerID int    `db:"customer_id" json:"customer_id"`
    Year       int    `db:"year" json:"year"`
    Make       string `db:"make" json:"make"`
    Model      string `db:"model" json:"model"`
    Mileage    int    `db:"mileage" json:"mileage"` // last recorded odometer reading
}

// Descriptor is the human-readable form used in message bodies, e.g. "2019 Toyota Corolla".
func (v Vehicle) Descriptor() string {
    if v.Year == 0 {
        return fmt.Sprintf("%s %s", v.Make, v.Model)
    }
    return fmt.Sprintf("%d %s %s", v.Year, v.Make, v.Model)
}

type ServiceRecord struct {
    ID             int        `db:"id" json:"id"`
    VehicleID      int        `db:"vehicle_id" json:"vehicle_id"`
    ServiceType    string     `db:"service_type" json:"service_type"` // e.g. oil change
    ServicedAt     time.Time  `db:"serviced_at" json:"serviced_at"`
    NextDueDate    *time.Time `db:"next_due_date" json:"next_due_date,omitempty"`
    NextDueMileage *int       `db:"next_due_mileage" json:"next_due_mileage,omitempty"`
}

// ServiceCandidate is one (customer, vehicle, latest service record) row the
// evaluator classifies. Immutable snapshot; never written back.
type ServiceCandidate struct {
    Customer Customer
    Vehicle  Vehicle
    Service  ServiceRecord
}

// DueEvent is a candidate that classified as due, tagged with its reminder category.
type DueEvent struct {
    Customer Customer
    Vehicle  Vehicle
    Service  ServiceRecord
    Category string
}
