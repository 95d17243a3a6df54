package handlers

import (
	"github.com/vibe-commerce/api/internal/services"
)

type ratingPayload struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

type productPayload struct {
	ID          int           `json:"id"`
	Title       string        `json:"title"`
	Price       float64       `json:"price"`
	Description string        `json:"description,omitempty"`
	Category    string        `json:"category"`
	Image       string        `json:"image"`
	Rating      ratingPayload `json:"rating"`
	Stock       int           `json:"stock"`
	OnSale      bool          `json:"on_sale"`
	OldPrice    float64       `json:"old_price,omitempty"`
}

func buildProductPayload(p services.Product) productPayload {
	return productPayload{
		ID:          p.ID,
		Title:       p.Title,
		Price:       p.Price,
		Description: p.Description,
		Category:    p.Category,
		Image:       p.Image,
		Rating:      ratingPayload{Rate: p.Rating.Rate, Count: p.Rating.Count},
		Stock:       p.Stock,
		OnSale:      p.OnSale,
		OldPrice:    p.OldPrice,
	}
}

func buildProductPayloads(products []services.Product) []productPayload {
	out := make([]productPayload, 0, len(products))
	for _, p := range products {
		out = append(out, buildProductPayload(p))
	}
	return out
}

type cartItemPayload struct {
	ProductID int     `json:"product_id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
	Stock     int     `json:"stock"`
}

type couponPayload struct {
	Code    string  `json:"code"`
	Rate    float64 `json:"rate"`
	Applied bool    `json:"applied"`
}

type totalsPayload struct {
	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}

type cartResponse struct {
	Items  []cartItemPayload `json:"items"`
	Coupon *couponPayload    `json:"coupon,omitempty"`
	Totals totalsPayload     `json:"totals"`
}

func buildCartResponse(view services.CartView) cartResponse {
	items := make([]cartItemPayload, 0, len(view.Cart.Items))
	for _, item := range view.Cart.Items {
		items = append(items, cartItemPayload{
			ProductID: item.ProductID,
			Title:     item.Title,
			Price:     item.Price,
			Image:     item.Image,
			Quantity:  item.Quantity,
			Stock:     item.Stock,
		})
	}
	resp := cartResponse{
		Items: items,
		Totals: totalsPayload{
			Subtotal: view.Totals.Subtotal,
			Discount: view.Totals.Discount,
			Total:    view.Totals.Total,
		},
	}
	if view.Cart.Coupon.Code != "" || view.Cart.Coupon.Applied {
		resp.Coupon = &couponPayload{
			Code:    view.Cart.Coupon.Code,
			Rate:    view.Cart.Coupon.Rate,
			Applied: view.Cart.Coupon.Applied,
		}
	}
	return resp
}

type customerPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type receiptPayload struct {
	ReceiptID    string            `json:"receipt_id"`
	TrackingID   string            `json:"tracking_id"`
	Items        []cartItemPayload `json:"items"`
	Subtotal     float64           `json:"subtotal"`
	DiscountRate float64           `json:"discount_rate"`
	Total        float64           `json:"total"`
	Customer     customerPayload   `json:"customer"`
	Status       string            `json:"status"`
	PlacedAt     string            `json:"placed_at"`
	UpdatedAt    string            `json:"updated_at"`
}

func buildReceiptPayload(receipt services.Receipt) receiptPayload {
	items := make([]cartItemPayload, 0, len(receipt.Items))
	for _, item := range receipt.Items {
		items = append(items, cartItemPayload{
			ProductID: item.ProductID,
			Title:     item.Title,
			Price:     item.Price,
			Image:     item.Image,
			Quantity:  item.Quantity,
			Stock:     item.Stock,
		})
	}
	return receiptPayload{
		ReceiptID:    receipt.ReceiptID,
		TrackingID:   receipt.TrackingID,
		Items:        items,
		Subtotal:     receipt.Subtotal,
		DiscountRate: receipt.DiscountRate,
		Total:        receipt.Total,
		Customer:     customerPayload{Name: receipt.Customer.Name, Email: receipt.Customer.Email},
		Status:       string(receipt.Status),
		PlacedAt:     formatTime(receipt.PlacedAt),
		UpdatedAt:    formatTime(receipt.UpdatedAt),
	}
}

func buildReceiptPayloads(receipts []services.Receipt) []receiptPayload {
	out := make([]receiptPayload, 0, len(receipts))
	for _, r := range receipts {
		out = append(out, buildReceiptPayload(r))
	}
	return out
}

type chatMessagePayload struct {
	ID      string   `json:"id"`
	Sender  string   `json:"sender"`
	Text    string   `json:"text"`
	Options []string `json:"options,omitempty"`
	SentAt  string   `json:"sent_at"`
}

type chatResponse struct {
	Phase    string               `json:"phase"`
	Messages []chatMessagePayload `json:"messages"`
}

func buildChatResponse(state services.ChatState) chatResponse {
	messages := make([]chatMessagePayload, 0, len(state.Messages))
	for _, m := range state.Messages {
		messages = append(messages, chatMessagePayload{
			ID:      m.ID,
			Sender:  string(m.Sender),
			Text:    m.Text,
			Options: m.Options,
			SentAt:  formatTime(m.SentAt),
		})
	}
	return chatResponse{Phase: string(state.Phase), Messages: messages}
}

type walletPayload struct {
	Balance   float64 `json:"balance"`
	UpdatedAt string  `json:"updated_at,omitempty"`
}

func buildWalletPayload(wallet services.Wallet) walletPayload {
	payload := walletPayload{Balance: wallet.Balance}
	if !wallet.UpdatedAt.IsZero() {
		payload.UpdatedAt = formatTime(wallet.UpdatedAt)
	}
	return payload
}

type profilePayload struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

func buildProfilePayload(profile services.Profile) profilePayload {
	payload := profilePayload{Name: profile.Name, Email: profile.Email}
	if !profile.UpdatedAt.IsZero() {
		payload.UpdatedAt = formatTime(profile.UpdatedAt)
	}
	return payload
}
