package web

import (
	"context"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/avstrong/hotel/internal/booking"
	"github.com/avstrong/hotel/internal/logger"
)

type hotel interface {
	AddRoom(ctx context.Context, room booking.Room) (booking.Room, error)
	RemoveRoom(ctx context.Context, number int) error
	GetRoom(ctx context.Context, number int) (booking.Room, error)
	ListRooms(ctx context.Context) ([]booking.Room, error)
	ListAvailableRooms(ctx context.Context) ([]booking.Room, error)
	ListAvailableRoomsByBedSize(ctx context.Context, bedSize string) ([]booking.Room, error)

	AddCustomer(ctx context.Context, customer booking.Customer) (booking.Customer, error)
	RemoveCustomer(ctx context.Context, id int) error
	ListCustomers(ctx context.Context) ([]booking.Customer, error)

	CreateBooking(ctx context.Context, input booking.BookInput) (booking.Booking, error)
	CheckoutBooking(ctx context.Context, customerID int) (booking.Booking, error)
	CheckoutBookingByID(ctx context.Context, bookingID int) (booking.Booking, error)
	ListAllBookings(ctx context.Context) ([]booking.Booking, error)
	ListActiveBookings(ctx context.Context) ([]booking.Booking, error)
	ListClosedBookings(ctx context.Context) ([]booking.Booking, error)
}

type Server struct {
	srv    *http.Server
	router *http.ServeMux
	l      *logger.Logger
	conf   Conf
	hotel  hotel
}

type Conf struct {
	L                 *logger.Logger
	ServerLogger      *log.Logger
	Host              string
	Port              string
	ReadHeaderTimeout time.Duration
	LivenessEndpoint  string
}

func New(ctx context.Context, conf Conf, h hotel) (*Server, error) {
	mux := http.NewServeMux()

	//nolint:exhaustruct
	srv := &http.Server{
		Addr:              net.JoinHostPort(conf.Host, conf.Port),
		ReadHeaderTimeout: conf.ReadHeaderTimeout,
		ErrorLog:          conf.ServerLogger,
		Handler:           mux,
		BaseContext: func(listener net.Listener) context.Context {
			return ctx
		},
	}

	server := &Server{
		srv:    srv,
		router: mux,
		l:      conf.L,
		conf:   conf,
		hotel:  h,
	}

	server.addRoutes(mux)

	return server, nil
}

func (s *Server) Srv() *http.Server {
	return s.srv
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
