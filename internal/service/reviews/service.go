package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ShopBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ShopBookingService/internal/infra/storage/booking"
	reviewRepo "github.com/m04kA/SMC-ShopBookingService/internal/infra/storage/review"
	shopRepo "github.com/m04kA/SMC-ShopBookingService/internal/infra/storage/shop"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/reviews/models"
)

// Service отзывы клиентов о магазинах
// Оставить отзыв может только клиент завершённого бронирования,
// менять и удалять только автор
type Service struct {
	reviewRepo  ReviewRepository
	shopRepo    ShopRepository
	bookingRepo BookingRepository
	notifier    Notifier
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый экземпляр сервиса отзывов
func NewService(
	reviewRepo ReviewRepository,
	shopRepo ShopRepository,
	bookingRepo BookingRepository,
	notifier Notifier,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		reviewRepo:  reviewRepo,
		shopRepo:    shopRepo,
		bookingRepo: bookingRepo,
		notifier:    notifier,
		txManager:   txManager,
		logger:      logger,
	}
}

// Create сохраняет отзыв по бронированию и уведомляет магазин
func (s *Service) Create(ctx context.Context, callerID uuid.UUID, req *models.CreateReviewRequest) (*models.ReviewResponse, error) {
	s.logger.Info("Create: booking=%s, caller=%s, rating=%d", req.BookingID, callerID, req.Rating)

	if req.BookingID == uuid.Nil {
		s.logger.Warn("Create: missing bookingId")
		return nil, fmt.Errorf("%w: bookingId is required", ErrInvalidInput)
	}

	comment, err := validateReview(req.Rating, req.Comment)
	if err != nil {
		s.logger.Warn("Create: validation failed for booking=%s: %v", req.BookingID, err)
		return nil, err
	}

	var created *domain.Review
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: Create - get booking: %v", ErrInternal, err)
		}

		if booking.CustomerID != callerID {
			return ErrAccessDenied
		}
		if booking.Status != domain.StatusCompleted {
			return fmt.Errorf("%w: status %s", ErrBookingNotCompleted, booking.Status)
		}

		created, err = s.reviewRepo.Create(txCtx, &domain.Review{
			ID:         uuid.New(),
			ShopID:     booking.ShopID,
			BookingID:  booking.ID,
			CustomerID: booking.CustomerID,
			Rating:     req.Rating,
			Comment:    comment,
		})
		if err != nil {
			if errors.Is(err, reviewRepo.ErrReviewExists) {
				return ErrAlreadyReviewed
			}
			return fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
		}

		message := fmt.Sprintf("Новый отзыв: %d из %d", created.Rating, domain.MaxReviewRating)
		if _, err := s.notifier.Emit(txCtx, booking.ShopID, domain.NotificationReviewReceived, message,
			domain.NotificationLinks{BookingID: &booking.ID}); err != nil {
			return fmt.Errorf("%w: Create - emit notification: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		s.logFailure("Create", req.BookingID, err)
		return nil, err
	}

	s.logger.Info("Create: review id=%s created for shop=%s", created.ID, created.ShopID)
	return models.FromDomainReview(created), nil
}

// ListByShop возвращает отзывы магазина и среднюю оценку из одного снимка
func (s *Service) ListByShop(ctx context.Context, shopID uuid.UUID) (*models.ReviewListResponse, error) {
	var list []*domain.Review

	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		if _, err := s.shopRepo.GetByID(txCtx, shopID); err != nil {
			if errors.Is(err, shopRepo.ErrShopNotFound) {
				return ErrShopNotFound
			}
			return fmt.Errorf("%w: ListByShop - get shop: %v", ErrInternal, err)
		}

		var err error
		list, err = s.reviewRepo.ListByShop(txCtx, shopID)
		if err != nil {
			return fmt.Errorf("%w: ListByShop - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		s.logFailure("ListByShop", shopID, err)
		return nil, err
	}

	return models.FromDomainReviewList(list), nil
}

// Update меняет оценку и текст отзыва автора
func (s *Service) Update(ctx context.Context, callerID, reviewID uuid.UUID, req *models.UpdateReviewRequest) (*models.ReviewResponse, error) {
	s.logger.Info("Update: review=%s, caller=%s", reviewID, callerID)

	comment, err := validateReview(req.Rating, req.Comment)
	if err != nil {
		s.logger.Warn("Update: validation failed for review=%s: %v", reviewID, err)
		return nil, err
	}

	var updated *domain.Review
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		review, err := s.getOwnReview(txCtx, callerID, reviewID)
		if err != nil {
			return err
		}

		review.Rating = req.Rating
		review.Comment = comment

		updated, err = s.reviewRepo.Update(txCtx, review)
		if err != nil {
			if errors.Is(err, reviewRepo.ErrReviewNotFound) {
				return ErrReviewNotFound
			}
			return fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		s.logFailure("Update", reviewID, err)
		return nil, err
	}

	s.logger.Info("Update: review id=%s updated", reviewID)
	return models.FromDomainReview(updated), nil
}

// Delete удаляет отзыв автора
func (s *Service) Delete(ctx context.Context, callerID, reviewID uuid.UUID) error {
	s.logger.Info("Delete: review=%s, caller=%s", reviewID, callerID)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		if _, err := s.getOwnReview(txCtx, callerID, reviewID); err != nil {
			return err
		}

		if err := s.reviewRepo.Delete(txCtx, reviewID); err != nil {
			if errors.Is(err, reviewRepo.ErrReviewNotFound) {
				return ErrReviewNotFound
			}
			return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		s.logFailure("Delete", reviewID, err)
		return err
	}

	s.logger.Info("Delete: review id=%s deleted", reviewID)
	return nil
}

func (s *Service) getOwnReview(ctx context.Context, callerID, reviewID uuid.UUID) (*domain.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, reviewRepo.ErrReviewNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("%w: get review: %v", ErrInternal, err)
	}
	if review.CustomerID != callerID {
		return nil, ErrAccessDenied
	}
	return review, nil
}

func (s *Service) logFailure(op string, id uuid.UUID, err error) {
	if errors.Is(err, ErrInternal) {
		s.logger.Error("%s: failed for id=%s: %v", op, id, err)
		return
	}
	s.logger.Warn("%s: rejected for id=%s: %v", op, id, err)
}

func validateReview(rating int, comment string) (string, error) {
	if rating < domain.MinReviewRating || rating > domain.MaxReviewRating {
		return "", fmt.Errorf("%w: rating must be between %d and %d",
			ErrInvalidInput, domain.MinReviewRating, domain.MaxReviewRating)
	}
	comment = strings.TrimSpace(comment)
	if len([]rune(comment)) > domain.MaxReviewCommentLength {
		return "", fmt.Errorf("%w: comment is too long", ErrInvalidInput)
	}
	return comment, nil
}
