package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ShopBookingService/internal/domain"
	reviewRepo "github.com/m04kA/SMC-ShopBookingService/internal/infra/storage/review"
)

// ReviewRepository отзывы в памяти, один отзыв на бронирование
type ReviewRepository struct {
	s *Store
}

func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	err := r.s.write(ctx, func(onRollback func(func())) error {
		if _, ok := r.s.reviewsByBooking[review.BookingID]; ok {
			return reviewRepo.ErrReviewExists
		}
		now := r.s.now()
		review.CreatedAt = now
		review.UpdatedAt = now
		stored := *review
		r.s.reviews[review.ID] = &stored
		r.s.reviewsByBooking[review.BookingID] = review.ID
		onRollback(func() {
			delete(r.s.reviews, review.ID)
			delete(r.s.reviewsByBooking, review.BookingID)
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	var result *domain.Review
	err := r.s.read(ctx, func() error {
		review, ok := r.s.reviews[id]
		if !ok {
			return reviewRepo.ErrReviewNotFound
		}
		cp := *review
		result = &cp
		return nil
	})
	return result, err
}

func (r *ReviewRepository) ListByShop(ctx context.Context, shopID uuid.UUID) ([]*domain.Review, error) {
	result := make([]*domain.Review, 0)
	err := r.s.read(ctx, func() error {
		for _, review := range r.s.reviews {
			if review.ShopID == shopID {
				cp := *review
				result = append(result, &cp)
			}
		}
		return nil
	})
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID.String() < result[j].ID.String()
	})
	return result, err
}

func (r *ReviewRepository) Update(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	var result *domain.Review
	err := r.s.write(ctx, func(onRollback func(func())) error {
		stored, ok := r.s.reviews[review.ID]
		if !ok {
			return reviewRepo.ErrReviewNotFound
		}
		prev := *stored
		stored.Rating = review.Rating
		stored.Comment = review.Comment
		stored.UpdatedAt = r.s.now()
		onRollback(func() { *stored = prev })
		cp := *stored
		result = &cp
		return nil
	})
	return result, err
}

func (r *ReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.s.write(ctx, func(onRollback func(func())) error {
		stored, ok := r.s.reviews[id]
		if !ok {
			return reviewRepo.ErrReviewNotFound
		}
		delete(r.s.reviews, id)
		delete(r.s.reviewsByBooking, stored.BookingID)
		onRollback(func() {
			r.s.reviews[id] = stored
			r.s.reviewsByBooking[stored.BookingID] = id
		})
		return nil
	})
}
