package repository

import (
	"database/sql"

	"github.com/torqueworks/garage-reminders/internal/model"
)

// CustomerRepositoryInterface defines methods used by the reminder services
type CustomerRepositoryInterface interface {
	GetByID(id int) (*model.Customer, error)
	GetVehicle(id int) (*model.Vehicle, error)
	ListServiceCandidates(shopID int) ([]model.ServiceCandidate, error)
}

// CustomerRepository is the concrete implementation
type CustomerRepository struct {
	DB *sql.DB
}

// GetByID fetches a customer by ID
func (r *CustomerRepository) GetByID(id int) (*model.Customer, error) {
	query := `
        SELECT id, shop_id, phone, first_name, last_name
        FROM customers
        WHERE id = $1
    `
	row := r.DB.QueryRow(query, id)

	var c model.Customer
	if err := row.Scan(&c.ID, &c.ShopID, &c.Phone, &c.FirstName, &c.LastName); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // not found
		}
		return nil, err
	}
	return &c, nil
}

// GetVehicle fetches a vehicle by ID
func (r *CustomerRepository) GetVehicle(id int) (*model.Vehicle, error) {
	query := `
        SELECT id, customer_id, year, make, model, mileage
        FROM vehicles
        WHERE id = $1
    `
	row := r.DB.QueryRow(query, id)

	var v model.Vehicle
	if err := row.Scan(&v.ID, &v.CustomerID, &v.Year, &v.Make, &v.Model, &v.Mileage); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

// ListServiceCandidates fetches every customer of the shop together with their
// vehicles and the latest service record per vehicle. Vehicles with no service
// history are not candidates and are excluded by the join.
func (r *CustomerRepository) ListServiceCandidates(shopID int) ([]model.ServiceCandidate, error) {
	query := `
        SELECT c.id, c.shop_id, c.phone, c.first_name, c.last_name,
               v.id, v.customer_id, v.year, v.make, v.model, v.mileage,
               s.id, s.vehicle_id, s.service_type, s.serviced_at, s.next_due_date, s.next_due_mileage
        FROM customers c
        JOIN vehicles v ON v.customer_id = c.id
        JOIN LATERAL (
            SELECT id, vehicle_id, service_type, serviced_at, next_due_date, next_due_mileage
            FROM service_records
            WHERE vehicle_id = v.id
            ORDER BY serviced_at DESC
            LIMIT 1
        ) s ON true
        WHERE c.shop_id = $1
        ORDER BY c.id, v.id
    `
	rows, err := r.DB.Query(query, shopID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	candidates := []model.ServiceCandidate{}
	for rows.Next() {
		var sc model.ServiceCandidate
		if err := rows.Scan(
			&sc.Customer.ID, &sc.Customer.ShopID, &sc.Customer.Phone, &sc.Customer.FirstName, &sc.Customer.LastName,
			&sc.Vehicle.ID, &sc.Vehicle.CustomerID, &sc.Vehicle.Year, &sc.Vehicle.Make, &sc.Vehicle.Model, &sc.Vehicle.Mileage,
			&sc.Service.ID, &sc.Service.VehicleID, &sc.Service.ServiceType, &sc.Service.ServicedAt, &sc.Service.NextDueDate, &sc.Service.NextDueMileage,
		); err != nil {
			return nil, err
		}
		candidates = append(candidates, sc)
	}
	return candidates, rows.Err()
}

var _ CustomerRepositoryInterface = (*CustomerRepository)(nil)
