// internal/errors/errors.go
package appErrors

import (
    "errors"
    "fmt"
)

// ErrShopNotFound is a sentinel error
type ErrShopNotFound struct {
    ShopID int
}

func (e *ErrShopNotFound) Error() string {
    return fmt.Sprintf("shop with ID %d not found", e.ShopID)
}

// Helper constructor
func NewShopNotFound(id int) error {
    return &ErrShopNotFound{ShopID: id}
}

type ErrTemplateNotFound struct {
    TemplateID int
}

func (e *ErrTemplateNotFound) Error() string {
    return fmt.Sprintf("template with ID %d not found", e.TemplateID)
}

func NewTemplateNotFound(id int) error {
    return &ErrTemplateNotFound{TemplateID: id}
}

// ErrDuplicateReminder is returned when the unique queued-reminder constraint
// rejects an insert, i.e. another evaluation run already queued this due event.
type ErrDuplicateReminder struct {
    CustomerID      int
    ServiceRecordID int
}

func (e *ErrDuplicateReminder) Error() string {
    return fmt.Sprintf("reminder already queued for customer %d, service record %d", e.CustomerID, e.ServiceRecordID)
}

func NewDuplicateReminder(customerID, serviceRecordID int) error {
    return &ErrDuplicateReminder{CustomerID: customerID, ServiceRecordID: serviceRecordID}
}

func IsDuplicateReminder(err error) bool {
    var dup *ErrDuplicateReminder
    return errors.As(err, &dup)
}
