package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrSlotTaken возвращается, когда на слот и дату уже есть активное бронирование
	// (нарушение уникального индекса uq_bookings_slot_date_active)
	ErrSlotTaken = errors.New("booking.repository: slot already taken for this date")

	// ErrStatusChanged возвращается, когда статус бронирования изменился конкурентно
	ErrStatusChanged = errors.New("booking.repository: booking status changed concurrently")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")

	// ErrInvalidFilter возвращается, когда фильтр не содержит ни магазина, ни клиента
	ErrInvalidFilter = errors.New("booking.repository: filter requires shop or customer")
)
