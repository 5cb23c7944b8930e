package booking

import (
	"time"

	"github.com/shopspring/decimal"
)

type RoomKind string

const (
	RoomKindSingle RoomKind = "single"
	RoomKindDouble RoomKind = "double"
	RoomKindSuite  RoomKind = "suite"
)

type SingleFeatures struct {
	BedSize    string `json:"bed_size"`
	HasBalcony bool   `json:"has_balcony"`
}

type DoubleFeatures struct {
	BedSize      string `json:"bed_size"`
	HasMiniBar   bool   `json:"has_mini_bar"`
	NumberOfBeds int    `json:"number_of_beds"`
}

type SuiteFeatures struct {
	LivingAreaSize float64 `json:"living_area_size"`
	HasJacuzzi     bool    `json:"has_jacuzzi"`
	NumberOfRooms  int     `json:"number_of_rooms"`
}

// Room is a tagged variant: exactly one of Single, Double or Suite is set,
// matching Kind.
type Room struct {
	Number    int             `json:"number"`
	Kind      RoomKind        `json:"kind"`
	Price     decimal.Decimal `json:"price"`
	Available bool            `json:"available"`
	Single    *SingleFeatures `json:"single,omitempty"`
	Double    *DoubleFeatures `json:"double,omitempty"`
	Suite     *SuiteFeatures  `json:"suite,omitempty"`
}

func NewSingleRoom(number int, price decimal.Decimal, f SingleFeatures) Room {
	//nolint:exhaustruct
	return Room{Number: number, Kind: RoomKindSingle, Price: price, Available: true, Single: &f}
}

func NewDoubleRoom(number int, price decimal.Decimal, f DoubleFeatures) Room {
	//nolint:exhaustruct
	return Room{Number: number, Kind: RoomKindDouble, Price: price, Available: true, Double: &f}
}

func NewSuite(number int, price decimal.Decimal, f SuiteFeatures) Room {
	//nolint:exhaustruct
	return Room{Number: number, Kind: RoomKindSuite, Price: price, Available: true, Suite: &f}
}

// BedSize reports the bed size of single and double rooms. Suites have none.
func (r Room) BedSize() (string, bool) {
	switch {
	case r.Kind == RoomKindSingle && r.Single != nil:
		return r.Single.BedSize, true
	case r.Kind == RoomKindDouble && r.Double != nil:
		return r.Double.BedSize, true
	default:
		return "", false
	}
}

func (r Room) DisplayName() string {
	switch r.Kind {
	case RoomKindSingle:
		return "SingleRoom"
	case RoomKindDouble:
		return "DoubleRoom"
	case RoomKindSuite:
		return "Suite"
	default:
		return string(r.Kind)
	}
}

type Customer struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Status string

const (
	StatusActive Status = "active"
	StatusClosed Status = "closed"
)

// Booking references its customer and room by identifier. TotalPrice stays
// zero until the booking is checked out.
type Booking struct {
	ID         int             `json:"id"`
	CustomerID int             `json:"customer_id"`
	RoomNumber int             `json:"room_number"`
	CheckIn    time.Time       `json:"check_in"`
	CheckOut   time.Time       `json:"check_out"`
	Status     Status          `json:"status"`
	TotalPrice decimal.Decimal `json:"total_price"`
	CreatedAt  time.Time       `json:"created_at"`
	ClosedAt   *time.Time      `json:"closed_at,omitempty"`
}

func (b Booking) IsActive() bool {
	return b.Status == StatusActive
}

// Overlaps reports whether the half-open ranges [b.CheckIn, b.CheckOut) and
// [from, to) intersect. Touching endpoints do not overlap.
func (b Booking) Overlaps(from, to time.Time) bool {
	return from.Before(b.CheckOut) && to.After(b.CheckIn)
}

type BookInput struct {
	CustomerID int       `json:"customer_id"`
	RoomNumber int       `json:"room_number"`
	CheckIn    time.Time `json:"check_in"`
	CheckOut   time.Time `json:"check_out"`
}
