package manage_addons

import "github.com/m04kA/SMC-HubBookingService/internal/service/catalog"

// AddonRequest HTTP request model для создания и изменения
// maxQuantity дневной запас, 0 делает услугу недоступной
type AddonRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Price       float64 `json:"price" validate:"gte=0"`
	MaxQuantity int     `json:"maxQuantity" validate:"gte=0"`
}

// ToServiceInput конвертирует HTTP request в модель сервиса
func (r *AddonRequest) ToServiceInput() catalog.AddonInput {
	return catalog.AddonInput{
		Name:        r.Name,
		Price:       r.Price,
		MaxQuantity: r.MaxQuantity,
	}
}
