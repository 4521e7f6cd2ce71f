package types

import "github.com/Apurer/repairshop-api/internal/domains/serviceorders/domain"

// ServiceOrderDocument pairs an order with the ticket rendered for it.
type ServiceOrderDocument struct {
	Order *domain.ServiceOrder
	PDF   []byte
}
