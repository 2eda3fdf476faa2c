package handler

import (
	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

// --- Request → Service input ---

func toProfileUpdate(req updateProfileRequest) ports.ProfileUpdate {
	return ports.ProfileUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}
}

func toCreateOrderInput(req createOrderRequest, userID string) ports.CreateOrderInput {
	items := make([]domain.OrderItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = domain.OrderItem{ProductID: it.ProductID, Quantity: it.Quantity}
	}
	return ports.CreateOrderInput{
		UserID: userID,
		Items:  items,
		ShippingAddress: domain.ShippingAddress{
			Address:    req.ShippingAddress.Address,
			City:       req.ShippingAddress.City,
			PostalCode: req.ShippingAddress.PostalCode,
			Country:    req.ShippingAddress.Country,
		},
		PaymentMethod: req.PaymentMethod,
		TotalAmount:   req.TotalAmount,
	}
}

// --- Service result → HTTP response ---

func toAuthResponse(r *ports.AuthResult) authResponse {
	return authResponse{Token: r.Token, User: r.User}
}

func toAvatarResponse(r *ports.AvatarResult) avatarResponse {
	return avatarResponse{ImageURL: r.ImageURL, Token: r.Token, User: r.User}
}
