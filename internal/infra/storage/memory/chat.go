package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ShopBookingService/internal/domain"
	chatRepo "github.com/m04kA/SMC-ShopBookingService/internal/infra/storage/chat"
)

// ChatRepository комнаты, сообщения и курсоры прочтения в памяти
type ChatRepository struct {
	s *Store
}

func (r *ChatRepository) CreateRoom(ctx context.Context, room *domain.ChatRoom) (*domain.ChatRoom, error) {
	err := r.s.write(ctx, func(onRollback func(func())) error {
		if _, exists := r.s.roomsByBooking[room.BookingID]; exists {
			return chatRepo.ErrRoomExists
		}
		room.CreatedAt = r.s.now()
		stored := *room
		r.s.rooms[room.ID] = &stored
		r.s.roomsByBooking[room.BookingID] = room.ID
		onRollback(func() {
			delete(r.s.rooms, stored.ID)
			delete(r.s.roomsByBooking, stored.BookingID)
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

func (r *ChatRepository) GetRoomByID(ctx context.Context, id uuid.UUID) (*domain.ChatRoom, error) {
	var result *domain.ChatRoom
	err := r.s.read(ctx, func() error {
		room, ok := r.s.rooms[id]
		if !ok {
			return chatRepo.ErrRoomNotFound
		}
		cp := *room
		result = &cp
		return nil
	})
	return result, err
}

func (r *ChatRepository) LockRoom(ctx context.Context, id uuid.UUID) (*domain.ChatRoom, error) {
	return r.GetRoomByID(ctx, id)
}

func (r *ChatRepository) GetRoomByBookingID(ctx context.Context, bookingID uuid.UUID) (*domain.ChatRoom, error) {
	var result *domain.ChatRoom
	err := r.s.read(ctx, func() error {
		id, ok := r.s.roomsByBooking[bookingID]
		if !ok {
			return chatRepo.ErrRoomNotFound
		}
		cp := *r.s.rooms[id]
		result = &cp
		return nil
	})
	return result, err
}

func (r *ChatRepository) LastMessageAt(ctx context.Context, roomID uuid.UUID) (*time.Time, error) {
	var result *time.Time
	err := r.s.read(ctx, func() error {
		msgs := r.s.messages[roomID]
		if len(msgs) > 0 {
			last := msgs[len(msgs)-1].CreatedAt
			result = &last
		}
		return nil
	})
	return result, err
}

// CreateMessage сообщения хранятся в порядке вставки, CreatedAt возрастает вместе с ним
func (r *ChatRepository) CreateMessage(ctx context.Context, msg *domain.Message) (*domain.Message, error) {
	err := r.s.write(ctx, func(onRollback func(func())) error {
		r.s.messageSeq++
		msg.Seq = r.s.messageSeq
		stored := *msg
		r.s.messages[msg.RoomID] = append(r.s.messages[msg.RoomID], &stored)
		onRollback(func() {
			list := r.s.messages[stored.RoomID]
			r.s.messages[stored.RoomID] = list[:len(list)-1]
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

func (r *ChatRepository) ListMessages(ctx context.Context, roomID uuid.UUID, since *time.Time) ([]*domain.Message, error) {
	result := make([]*domain.Message, 0)
	err := r.s.read(ctx, func() error {
		for _, msg := range r.s.messages[roomID] {
			if since != nil && !msg.CreatedAt.After(*since) {
				continue
			}
			cp := *msg
			result = append(result, &cp)
		}
		return nil
	})
	return result, err
}

func (r *ChatRepository) GetReadCursor(ctx context.Context, roomID, participantID uuid.UUID) (*time.Time, error) {
	var result *time.Time
	err := r.s.read(ctx, func() error {
		if at, ok := r.s.cursors[cursorKey{roomID, participantID}]; ok {
			result = &at
		}
		return nil
	})
	return result, err
}

func (r *ChatRepository) SaveReadCursor(ctx context.Context, roomID, participantID uuid.UUID, readUntil time.Time) error {
	return r.s.write(ctx, func(onRollback func(func())) error {
		key := cursorKey{roomID, participantID}
		prev, had := r.s.cursors[key]
		if had && !readUntil.After(prev) {
			return nil
		}
		r.s.cursors[key] = readUntil
		onRollback(func() {
			if had {
				r.s.cursors[key] = prev
			} else {
				delete(r.s.cursors, key)
			}
		})
		return nil
	})
}

func (r *ChatRepository) CountUnread(ctx context.Context, roomID, readerID uuid.UUID, after *time.Time) (int, error) {
	var count int
	err := r.s.read(ctx, func() error {
		for _, msg := range r.s.messages[roomID] {
			if msg.SenderID == readerID {
				continue
			}
			if after != nil && !msg.CreatedAt.After(*after) {
				continue
			}
			count++
		}
		return nil
	})
	return count, err
}
