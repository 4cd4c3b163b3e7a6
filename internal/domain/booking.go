package domain

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus статус бронирования
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCanceled  BookingStatus = "canceled"
)

// Actor сторона, выполняющая переход статуса
type Actor string

const (
	ActorShop     Actor = "shop"
	ActorCustomer Actor = "customer"
)

// Booking бронирование слота на конкретную дату
type Booking struct {
	ID            uuid.UUID
	ShopID        uuid.UUID
	SlotID        uuid.UUID
	ServiceID     uuid.UUID
	CustomerID    uuid.UUID
	BookingDate   time.Time
	Status        BookingStatus
	PaymentStatus string
	// Seq порядок вставки, по нему сортируются списки бронирований
	Seq       int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive бронирование занимает слот
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsTerminal из статуса нет переходов
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCompleted || b.Status == StatusCanceled
}

// ParticipantID возвращает идентификатор стороны
func (b *Booking) ParticipantID(actor Actor) uuid.UUID {
	if actor == ActorShop {
		return b.ShopID
	}
	return b.CustomerID
}

// Counterparty возвращает идентификатор второй стороны
func (b *Booking) Counterparty(actor Actor) uuid.UUID {
	if actor == ActorShop {
		return b.CustomerID
	}
	return b.ShopID
}

// IsParticipant вызывающий - магазин или клиент бронирования
func (b *Booking) IsParticipant(id uuid.UUID) bool {
	return id == b.ShopID || id == b.CustomerID
}

type transition struct {
	from BookingStatus
	to   BookingStatus
}

// allowedTransitions кто может выполнить переход
var allowedTransitions = map[transition][]Actor{
	{StatusPending, StatusConfirmed}:   {ActorShop},
	{StatusPending, StatusCanceled}:    {ActorShop, ActorCustomer},
	{StatusConfirmed, StatusCanceled}:  {ActorShop, ActorCustomer},
	{StatusConfirmed, StatusCompleted}: {ActorShop},
}

// CanTransition проверяет, допустим ли переход from -> to для стороны actor
func CanTransition(from, to BookingStatus, actor Actor) bool {
	actors, ok := allowedTransitions[transition{from, to}]
	if !ok {
		return false
	}
	for _, a := range actors {
		if a == actor {
			return true
		}
	}
	return false
}

// ParseBookingStatus проверяет строку статуса
func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCanceled:
		return BookingStatus(s), true
	}
	return "", false
}

// ParseActor проверяет строку стороны
func ParseActor(s string) (Actor, bool) {
	switch Actor(s) {
	case ActorShop, ActorCustomer:
		return Actor(s), true
	}
	return "", false
}

// BookingsFilter фильтр списка бронирований
// Должен быть указан ShopID или CustomerID
type BookingsFilter struct {
	ShopID     *uuid.UUID
	CustomerID *uuid.UUID
	Status     *BookingStatus
	From       *time.Time // дата бронирования >= From
	To         *time.Time // дата бронирования <= To
}

// ActiveBookingsFilter поиск активных бронирований, ссылающихся на слот или услугу,
// начиная с даты FromDate
type ActiveBookingsFilter struct {
	SlotID    *uuid.UUID
	ServiceID *uuid.UUID
	FromDate  time.Time
}
