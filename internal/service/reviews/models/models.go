package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ShopBookingService/internal/domain"
)

// CreateReviewRequest отзыв по завершённому бронированию
type CreateReviewRequest struct {
	BookingID uuid.UUID `json:"bookingId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
}

// UpdateReviewRequest новая оценка и текст отзыва
type UpdateReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// ReviewResponse ответ с данными отзыва
type ReviewResponse struct {
	ID         uuid.UUID `json:"id"`
	ShopID     uuid.UUID `json:"shopId"`
	BookingID  uuid.UUID `json:"bookingId"`
	CustomerID uuid.UUID `json:"customerId"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ReviewListResponse отзывы магазина и средняя оценка
// AverageRating равен 0, если отзывов нет
type ReviewListResponse struct {
	Reviews       []ReviewResponse `json:"reviews"`
	Count         int              `json:"count"`
	AverageRating float64          `json:"averageRating"`
}

// FromDomainReview конвертирует domain модель в DTO
func FromDomainReview(r *domain.Review) *ReviewResponse {
	return &ReviewResponse{
		ID:         r.ID,
		ShopID:     r.ShopID,
		BookingID:  r.BookingID,
		CustomerID: r.CustomerID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// FromDomainReviewList конвертирует список отзывов и считает среднюю оценку
func FromDomainReviewList(list []*domain.Review) *ReviewListResponse {
	result := make([]ReviewResponse, 0, len(list))
	total := 0
	for _, r := range list {
		result = append(result, *FromDomainReview(r))
		total += r.Rating
	}

	resp := &ReviewListResponse{Reviews: result, Count: len(result)}
	if len(result) > 0 {
		resp.AverageRating = float64(total) / float64(len(result))
	}
	return resp
}
