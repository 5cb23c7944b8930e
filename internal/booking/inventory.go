package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

func (r Room) validate() error {
	inputErr := newInputError()

	if r.Number <= 0 {
		inputErr.addError("number", "room number must be positive")
	}

	if r.Price.IsNegative() {
		inputErr.addError("price", "price must not be negative")
	}

	switch r.Kind {
	case RoomKindSingle:
		if r.Single == nil {
			inputErr.addError("single", "provide single room features")
		}
	case RoomKindDouble:
		if r.Double == nil {
			inputErr.addError("double", "provide double room features")
		} else if r.Double.NumberOfBeds < 0 {
			inputErr.addError("double.numberOfBeds", "number of beds must not be negative")
		}
	case RoomKindSuite:
		if r.Suite == nil {
			inputErr.addError("suite", "provide suite features")
		} else {
			if r.Suite.NumberOfRooms < 0 {
				inputErr.addError("suite.numberOfRooms", "number of rooms must not be negative")
			}

			if r.Suite.LivingAreaSize < 0 {
				inputErr.addError("suite.livingAreaSize", "living area size must not be negative")
			}
		}
	default:
		inputErr.addError("kind", "kind must be one of single, double, suite")
	}

	// A room carries the features of its own kind only.
	if r.Single != nil && r.Kind != RoomKindSingle {
		inputErr.addError("single", "single room features on a "+string(r.Kind)+" room")
	}

	if r.Double != nil && r.Kind != RoomKindDouble {
		inputErr.addError("double", "double room features on a "+string(r.Kind)+" room")
	}

	if r.Suite != nil && r.Kind != RoomKindSuite {
		inputErr.addError("suite", "suite features on a "+string(r.Kind)+" room")
	}

	if inputErr.fieldsCount() > 0 {
		return inputErr
	}

	return nil
}

func (c Customer) validate() error {
	inputErr := newInputError()

	if c.ID < 0 {
		inputErr.addError("id", "customer id must not be negative")
	}

	if strings.TrimSpace(c.Name) == "" {
		inputErr.addError("name", "provide customer name")
	}

	if inputErr.fieldsCount() > 0 {
		return inputErr
	}

	return nil
}

// AddRoom registers a new room. A new room has no bookings and is therefore
// always stored as available.
func (m *Manager) AddRoom(ctx context.Context, room Room) (Room, error) {
	if err := room.validate(); err != nil {
		return Room{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	_, err := m.storage.GetRoom(ctx, room.Number)
	if err == nil {
		return Room{}, fmt.Errorf("room %d: %w", room.Number, ErrDuplicateKey)
	}

	if !errors.Is(err, ErrRecordNotFound) {
		return Room{}, fmt.Errorf("get room %d from storage: %w", room.Number, err)
	}

	room.Available = true

	err = m.inTransaction(ctx, "add room", func(ctx context.Context) error {
		return m.storage.SaveRoom(ctx, room)
	})
	if err != nil {
		return Room{}, fmt.Errorf("save room %d: %w", room.Number, err)
	}

	m.l.LogInfo("Room %d (%s) added", room.Number, room.DisplayName())

	return room, nil
}

func (m *Manager) RemoveRoom(ctx context.Context, number int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.getRoom(ctx, number); err != nil {
		return err
	}

	_, busy, err := m.firstActive(ctx, func(b Booking) bool {
		return b.RoomNumber == number
	})
	if err != nil {
		return err
	}

	if busy {
		return fmt.Errorf("room %d: %w", number, ErrResourceBusy)
	}

	err = m.inTransaction(ctx, "remove room", func(ctx context.Context) error {
		return m.storage.DeleteRoom(ctx, number)
	})
	if err != nil {
		return fmt.Errorf("delete room %d: %w", number, err)
	}

	m.l.LogInfo("Room %d removed", number)

	return nil
}

// AddCustomer registers a customer. A zero ID asks the manager to assign the
// next sequential one.
func (m *Manager) AddCustomer(ctx context.Context, customer Customer) (Customer, error) {
	if err := customer.validate(); err != nil {
		return Customer{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if customer.ID == 0 {
		id, err := m.customerIDs.GetID(ctx)
		if err != nil {
			return Customer{}, fmt.Errorf("%w: %w", ErrNextID, err)
		}

		customer.ID = id
	}

	_, err := m.storage.GetCustomer(ctx, customer.ID)
	if err == nil {
		return Customer{}, fmt.Errorf("customer %d: %w", customer.ID, ErrDuplicateKey)
	}

	if !errors.Is(err, ErrRecordNotFound) {
		return Customer{}, fmt.Errorf("get customer %d from storage: %w", customer.ID, err)
	}

	err = m.inTransaction(ctx, "add customer", func(ctx context.Context) error {
		return m.storage.SaveCustomer(ctx, customer)
	})
	if err != nil {
		return Customer{}, fmt.Errorf("save customer %d: %w", customer.ID, err)
	}

	m.customerIDs.Observe(customer.ID)

	m.l.LogInfo("Customer %d (%s) added", customer.ID, customer.Name)

	return customer, nil
}

func (m *Manager) RemoveCustomer(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.getCustomer(ctx, id); err != nil {
		return err
	}

	_, busy, err := m.firstActive(ctx, func(b Booking) bool {
		return b.CustomerID == id
	})
	if err != nil {
		return err
	}

	if busy {
		return fmt.Errorf("customer %d: %w", id, ErrResourceBusy)
	}

	err = m.inTransaction(ctx, "remove customer", func(ctx context.Context) error {
		return m.storage.DeleteCustomer(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("delete customer %d: %w", id, err)
	}

	m.l.LogInfo("Customer %d removed", id)

	return nil
}
