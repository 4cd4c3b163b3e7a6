package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ShopBookingService/internal/domain"
)

// ShopRequest данные профиля магазина при создании и обновлении
type ShopRequest struct {
	Name          string  `json:"name"`
	Address       string  `json:"address"`
	ContactNumber string  `json:"contactNumber"`
	Description   *string `json:"description,omitempty"`
}

// ShopResponse ответ с данными магазина
type ShopResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Address       string    `json:"address"`
	ContactNumber string    `json:"contactNumber"`
	Description   *string   `json:"description,omitempty"`
	WorkModeOn    bool      `json:"workModeOn"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// WorkModeResponse новое состояние режима работы
type WorkModeResponse struct {
	ShopID     uuid.UUID `json:"shopId"`
	WorkModeOn bool      `json:"workModeOn"`
}

// FromDomainShop конвертирует domain модель в DTO
func FromDomainShop(shop *domain.Shop) *ShopResponse {
	return &ShopResponse{
		ID:            shop.ID,
		Name:          shop.Name,
		Address:       shop.Address,
		ContactNumber: shop.ContactNumber,
		Description:   shop.Description,
		WorkModeOn:    shop.WorkModeOn,
		CreatedAt:     shop.CreatedAt,
		UpdatedAt:     shop.UpdatedAt,
	}
}
