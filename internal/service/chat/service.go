package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ShopBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ShopBookingService/internal/infra/storage/booking"
	chatRepo "github.com/m04kA/SMC-ShopBookingService/internal/infra/storage/chat"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/chat/models"
)

// Разрешение времени сообщений совпадает с timestamptz в postgres
const messageClockResolution = time.Microsecond

const msgPreviewLength = 100

// Service чаты между магазином и клиентом, одна комната на бронирование
type Service struct {
	chatRepo         ChatRepository
	bookingRepo      BookingRepository
	notifier         Notifier
	txManager        TransactionManager
	locker           KeyLocker
	metrics          Metrics
	timeProvider     TimeProvider
	maxMessageLength int
	logger           Logger
}

// NewService создает новый экземпляр сервиса чатов
func NewService(
	chatRepo ChatRepository,
	bookingRepo BookingRepository,
	notifier Notifier,
	txManager TransactionManager,
	locker KeyLocker,
	metrics Metrics,
	maxMessageLength int,
	logger Logger,
) *Service {
	if maxMessageLength <= 0 {
		maxMessageLength = domain.MaxMessageLength
	}
	return &Service{
		chatRepo:         chatRepo,
		bookingRepo:      bookingRepo,
		notifier:         notifier,
		txManager:        txManager,
		locker:           locker,
		metrics:          metrics,
		timeProvider:     &RealTimeProvider{},
		maxMessageLength: maxMessageLength,
		logger:           logger,
	}
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// OpenRoom возвращает комнату бронирования, создавая её при первом обращении
// created = false, если комната уже существовала
func (s *Service) OpenRoom(ctx context.Context, callerID uuid.UUID, req *models.OpenRoomRequest) (room *models.RoomResponse, created bool, err error) {
	s.logger.Info("OpenRoom: booking=%s, caller=%s", req.BookingID, callerID)

	if req.BookingID == uuid.Nil {
		return nil, false, fmt.Errorf("%w: bookingId is required", ErrInvalidInput)
	}

	booking, err := s.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("OpenRoom: booking id=%s not found", req.BookingID)
			return nil, false, ErrBookingNotFound
		}
		s.logger.Error("OpenRoom: failed to get booking id=%s: %v", req.BookingID, err)
		return nil, false, fmt.Errorf("%w: OpenRoom - get booking: %v", ErrInternal, err)
	}

	if !booking.IsParticipant(callerID) {
		s.logger.Warn("OpenRoom: caller=%s is not a participant of booking id=%s", callerID, req.BookingID)
		return nil, false, ErrAccessDenied
	}

	if booking.ShopID != req.ShopID || booking.CustomerID != req.CustomerID {
		s.logger.Warn("OpenRoom: participants do not match booking id=%s", req.BookingID)
		return nil, false, ErrParticipantsMismatch
	}

	unlock := s.locker.Lock("chat-booking:" + req.BookingID.String())
	defer unlock()

	existing, err := s.chatRepo.GetRoomByBookingID(ctx, req.BookingID)
	if err == nil {
		return models.FromDomainRoom(existing), false, nil
	}
	if !errors.Is(err, chatRepo.ErrRoomNotFound) {
		s.logger.Error("OpenRoom: failed to get room for booking id=%s: %v", req.BookingID, err)
		return nil, false, fmt.Errorf("%w: OpenRoom - get room: %v", ErrInternal, err)
	}

	newRoom, err := s.chatRepo.CreateRoom(ctx, &domain.ChatRoom{
		ID:         uuid.New(),
		BookingID:  booking.ID,
		ShopID:     booking.ShopID,
		CustomerID: booking.CustomerID,
	})
	if err != nil {
		// комнату успел создать другой экземпляр сервиса
		if errors.Is(err, chatRepo.ErrRoomExists) {
			existing, getErr := s.chatRepo.GetRoomByBookingID(ctx, req.BookingID)
			if getErr != nil {
				s.logger.Error("OpenRoom: failed to re-read room for booking id=%s: %v", req.BookingID, getErr)
				return nil, false, fmt.Errorf("%w: OpenRoom - re-read room: %v", ErrInternal, getErr)
			}
			return models.FromDomainRoom(existing), false, nil
		}
		s.logger.Error("OpenRoom: failed to create room for booking id=%s: %v", req.BookingID, err)
		return nil, false, fmt.Errorf("%w: OpenRoom - create room: %v", ErrInternal, err)
	}

	s.logger.Info("OpenRoom: room id=%s created for booking id=%s", newRoom.ID, req.BookingID)
	return models.FromDomainRoom(newRoom), true, nil
}

// PostMessage добавляет сообщение в комнату и уведомляет собеседника
// Время сообщения назначается под блокировкой комнаты и строго возрастает
func (s *Service) PostMessage(ctx context.Context, roomID, senderID uuid.UUID, req *models.PostMessageRequest) (*models.MessageResponse, error) {
	s.logger.Info("PostMessage: room=%s, sender=%s", roomID, senderID)

	if strings.TrimSpace(req.Content) == "" {
		s.logger.Warn("PostMessage: empty content in room=%s", roomID)
		return nil, fmt.Errorf("%w: content is empty", ErrInvalidContent)
	}
	if utf8.RuneCountInString(req.Content) > s.maxMessageLength {
		s.logger.Warn("PostMessage: content too long in room=%s", roomID)
		return nil, fmt.Errorf("%w: content exceeds %d characters", ErrInvalidContent, s.maxMessageLength)
	}

	unlock := s.locker.Lock("room:" + roomID.String())
	defer unlock()

	var msg *domain.Message
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		room, err := s.chatRepo.LockRoom(txCtx, roomID)
		if err != nil {
			if errors.Is(err, chatRepo.ErrRoomNotFound) {
				return ErrRoomNotFound
			}
			return fmt.Errorf("%w: PostMessage - lock room: %v", ErrInternal, err)
		}

		if !room.IsParticipant(senderID) {
			return ErrAccessDenied
		}

		last, err := s.chatRepo.LastMessageAt(txCtx, roomID)
		if err != nil {
			return fmt.Errorf("%w: PostMessage - last message time: %v", ErrInternal, err)
		}

		msg, err = s.chatRepo.CreateMessage(txCtx, &domain.Message{
			ID:        uuid.New(),
			RoomID:    roomID,
			SenderID:  senderID,
			Content:   req.Content,
			CreatedAt: nextMessageTime(s.timeProvider.Now(), last),
		})
		if err != nil {
			return fmt.Errorf("%w: PostMessage - create message: %v", ErrInternal, err)
		}

		if _, err := s.notifier.Emit(txCtx, room.Other(senderID), domain.NotificationMessageReceived,
			"Новое сообщение: "+preview(req.Content),
			domain.NotificationLinks{BookingID: &room.BookingID, ChatRoomID: &room.ID}); err != nil {
			return fmt.Errorf("%w: PostMessage - emit notification: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInternal) {
			s.logger.Error("PostMessage: failed in room=%s: %v", roomID, err)
		} else {
			s.logger.Warn("PostMessage: rejected in room=%s: %v", roomID, err)
		}
		return nil, err
	}

	s.metrics.IncChatMessagePosted()
	s.logger.Info("PostMessage: message id=%s posted in room=%s", msg.ID, roomID)

	resp := models.FromDomainMessage(msg, false)
	return &resp, nil
}

// ListMessages сообщения комнаты, созданные строго позже since (если задан)
// Сообщения, флаги прочтения и счётчик непрочитанных читаются из одного снимка
func (s *Service) ListMessages(ctx context.Context, roomID, callerID uuid.UUID, since *time.Time) (*models.MessageListResponse, error) {
	var result *models.MessageListResponse

	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		room, err := s.chatRepo.GetRoomByID(txCtx, roomID)
		if err != nil {
			if errors.Is(err, chatRepo.ErrRoomNotFound) {
				return ErrRoomNotFound
			}
			return fmt.Errorf("%w: ListMessages - get room: %v", ErrInternal, err)
		}

		if !room.IsParticipant(callerID) {
			return ErrAccessDenied
		}

		messages, err := s.chatRepo.ListMessages(txCtx, roomID, since)
		if err != nil {
			return fmt.Errorf("%w: ListMessages - list messages: %v", ErrInternal, err)
		}

		cursors := make(map[uuid.UUID]*time.Time, 2)
		for _, participant := range []uuid.UUID{room.ShopID, room.CustomerID} {
			cursor, err := s.chatRepo.GetReadCursor(txCtx, roomID, participant)
			if err != nil {
				return fmt.Errorf("%w: ListMessages - read cursor: %v", ErrInternal, err)
			}
			cursors[participant] = cursor
		}

		unread, err := s.chatRepo.CountUnread(txCtx, roomID, callerID, cursors[callerID])
		if err != nil {
			return fmt.Errorf("%w: ListMessages - count unread: %v", ErrInternal, err)
		}

		items := make([]models.MessageResponse, 0, len(messages))
		for _, msg := range messages {
			recipientCursor := cursors[room.Other(msg.SenderID)]
			isRead := recipientCursor != nil && !msg.CreatedAt.After(*recipientCursor)
			items = append(items, models.FromDomainMessage(msg, isRead))
		}

		result = &models.MessageListResponse{Messages: items, UnreadCount: unread}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInternal) {
			s.logger.Error("ListMessages: failed for room=%s: %v", roomID, err)
		} else {
			s.logger.Warn("ListMessages: rejected for room=%s, caller=%s: %v", roomID, callerID, err)
		}
		return nil, err
	}

	return result, nil
}

// MarkRead помечает прочитанными все текущие сообщения комнаты для вызывающего
func (s *Service) MarkRead(ctx context.Context, roomID, callerID uuid.UUID) (*models.MarkReadResponse, error) {
	var readUntil *time.Time

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		room, err := s.chatRepo.GetRoomByID(txCtx, roomID)
		if err != nil {
			if errors.Is(err, chatRepo.ErrRoomNotFound) {
				return ErrRoomNotFound
			}
			return fmt.Errorf("%w: MarkRead - get room: %v", ErrInternal, err)
		}

		if !room.IsParticipant(callerID) {
			return ErrAccessDenied
		}

		last, err := s.chatRepo.LastMessageAt(txCtx, roomID)
		if err != nil {
			return fmt.Errorf("%w: MarkRead - last message time: %v", ErrInternal, err)
		}
		if last == nil {
			return nil
		}

		if err := s.chatRepo.SaveReadCursor(txCtx, roomID, callerID, *last); err != nil {
			return fmt.Errorf("%w: MarkRead - save cursor: %v", ErrInternal, err)
		}
		readUntil = last
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInternal) {
			s.logger.Error("MarkRead: failed for room=%s: %v", roomID, err)
		} else {
			s.logger.Warn("MarkRead: rejected for room=%s, caller=%s: %v", roomID, callerID, err)
		}
		return nil, err
	}

	s.logger.Info("MarkRead: room=%s read by %s", roomID, callerID)
	return &models.MarkReadResponse{RoomID: roomID, ReadUntil: readUntil}, nil
}

// nextMessageTime возвращает время нового сообщения, строго большее последнего
func nextMessageTime(now time.Time, last *time.Time) time.Time {
	t := now.UTC().Truncate(messageClockResolution)
	if last != nil && !t.After(*last) {
		t = last.UTC().Add(messageClockResolution)
	}
	return t
}

func preview(content string) string {
	if utf8.RuneCountInString(content) <= msgPreviewLength {
		return content
	}
	return string([]rune(content)[:msgPreviewLength]) + "..."
}
