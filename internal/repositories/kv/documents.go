package kv

import (
	"time"

	domain "github.com/vibe-commerce/api/internal/domain"
)

// Document structs decouple the stored JSON from the domain types so the
// storage schema can evolve independently.

type ratingDocument struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

type productDocument struct {
	ID          int            `json:"id"`
	Title       string         `json:"title"`
	Price       float64        `json:"price"`
	Description string         `json:"description,omitempty"`
	Category    string         `json:"category,omitempty"`
	Image       string         `json:"image,omitempty"`
	Rating      ratingDocument `json:"rating"`
	Stock       int            `json:"stock"`
	OnSale      bool           `json:"on_sale,omitempty"`
	OldPrice    float64        `json:"old_price,omitempty"`
}

type cartItemDocument struct {
	ProductID int     `json:"product_id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Image     string  `json:"image,omitempty"`
	Quantity  int     `json:"quantity"`
	Stock     int     `json:"stock"`
}

type couponDocument struct {
	Code    string  `json:"code,omitempty"`
	Rate    float64 `json:"rate,omitempty"`
	Applied bool    `json:"applied"`
}

type cartDocument struct {
	Items     []cartItemDocument `json:"items"`
	Coupon    couponDocument     `json:"coupon"`
	UpdatedAt time.Time          `json:"updated_at"`
}

type walletDocument struct {
	Balance   float64   `json:"balance"`
	UpdatedAt time.Time `json:"updated_at"`
}

type customerDocument struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type receiptDocument struct {
	ReceiptID    string             `json:"receipt_id"`
	TrackingID   string             `json:"tracking_id"`
	Items        []cartItemDocument `json:"items"`
	Subtotal     float64            `json:"subtotal"`
	DiscountRate float64            `json:"discount_rate,omitempty"`
	Total        float64            `json:"total"`
	Customer     customerDocument   `json:"customer"`
	Status       string             `json:"status"`
	PlacedAt     time.Time          `json:"placed_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

type ordersDocument struct {
	Receipts []receiptDocument `json:"receipts"`
}

type profileDocument struct {
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

type chatMessageDocument struct {
	ID      string    `json:"id"`
	Sender  string    `json:"sender"`
	Text    string    `json:"text"`
	Options []string  `json:"options,omitempty"`
	SentAt  time.Time `json:"sent_at"`
}

type chatDocument struct {
	Phase       string                `json:"phase"`
	QuestionIdx int                   `json:"question_idx"`
	Messages    []chatMessageDocument `json:"messages"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

type productListDocument struct {
	Products []productDocument `json:"products"`
}

func encodeProduct(p domain.Product) productDocument {
	return productDocument{
		ID:          p.ID,
		Title:       p.Title,
		Price:       p.Price,
		Description: p.Description,
		Category:    p.Category,
		Image:       p.Image,
		Rating:      ratingDocument{Rate: p.Rating.Rate, Count: p.Rating.Count},
		Stock:       p.Stock,
		OnSale:      p.OnSale,
		OldPrice:    p.OldPrice,
	}
}

func decodeProduct(doc productDocument) domain.Product {
	return domain.Product{
		ID:          doc.ID,
		Title:       doc.Title,
		Price:       doc.Price,
		Description: doc.Description,
		Category:    doc.Category,
		Image:       doc.Image,
		Rating:      domain.Rating{Rate: doc.Rating.Rate, Count: doc.Rating.Count},
		Stock:       doc.Stock,
		OnSale:      doc.OnSale,
		OldPrice:    doc.OldPrice,
	}
}

func encodeProducts(products []domain.Product) productListDocument {
	doc := productListDocument{Products: make([]productDocument, 0, len(products))}
	for _, p := range products {
		doc.Products = append(doc.Products, encodeProduct(p))
	}
	return doc
}

func decodeProducts(doc productListDocument) []domain.Product {
	out := make([]domain.Product, 0, len(doc.Products))
	for _, p := range doc.Products {
		out = append(out, decodeProduct(p))
	}
	return out
}

func encodeCartItems(items []domain.CartItem) []cartItemDocument {
	out := make([]cartItemDocument, 0, len(items))
	for _, item := range items {
		out = append(out, cartItemDocument{
			ProductID: item.ProductID,
			Title:     item.Title,
			Price:     item.Price,
			Image:     item.Image,
			Quantity:  item.Quantity,
			Stock:     item.Stock,
		})
	}
	return out
}

func decodeCartItems(items []cartItemDocument) []domain.CartItem {
	out := make([]domain.CartItem, 0, len(items))
	for _, item := range items {
		out = append(out, domain.CartItem{
			ProductID: item.ProductID,
			Title:     item.Title,
			Price:     item.Price,
			Image:     item.Image,
			Quantity:  item.Quantity,
			Stock:     item.Stock,
		})
	}
	return out
}

func encodeCart(cart domain.Cart) cartDocument {
	return cartDocument{
		Items: encodeCartItems(cart.Items),
		Coupon: couponDocument{
			Code:    cart.Coupon.Code,
			Rate:    cart.Coupon.Rate,
			Applied: cart.Coupon.Applied,
		},
		UpdatedAt: cart.UpdatedAt.UTC(),
	}
}

func decodeCart(sessionID string, doc cartDocument) domain.Cart {
	return domain.Cart{
		SessionID: sessionID,
		Items:     decodeCartItems(doc.Items),
		Coupon: domain.CouponState{
			Code:    doc.Coupon.Code,
			Rate:    doc.Coupon.Rate,
			Applied: doc.Coupon.Applied,
		},
		UpdatedAt: doc.UpdatedAt,
	}
}

func encodeReceipt(receipt domain.Receipt) receiptDocument {
	return receiptDocument{
		ReceiptID:    receipt.ReceiptID,
		TrackingID:   receipt.TrackingID,
		Items:        encodeCartItems(receipt.Items),
		Subtotal:     receipt.Subtotal,
		DiscountRate: receipt.DiscountRate,
		Total:        receipt.Total,
		Customer:     customerDocument{Name: receipt.Customer.Name, Email: receipt.Customer.Email},
		Status:       string(receipt.Status),
		PlacedAt:     receipt.PlacedAt.UTC(),
		UpdatedAt:    receipt.UpdatedAt.UTC(),
	}
}

func decodeReceipt(sessionID string, doc receiptDocument) domain.Receipt {
	return domain.Receipt{
		ReceiptID:    doc.ReceiptID,
		TrackingID:   doc.TrackingID,
		SessionID:    sessionID,
		Items:        decodeCartItems(doc.Items),
		Subtotal:     doc.Subtotal,
		DiscountRate: doc.DiscountRate,
		Total:        doc.Total,
		Customer:     domain.Customer{Name: doc.Customer.Name, Email: doc.Customer.Email},
		Status:       domain.OrderStatus(doc.Status),
		PlacedAt:     doc.PlacedAt,
		UpdatedAt:    doc.UpdatedAt,
	}
}

func encodeChatState(state domain.ChatState) chatDocument {
	doc := chatDocument{
		Phase:       string(state.Phase),
		QuestionIdx: state.QuestionIdx,
		Messages:    make([]chatMessageDocument, 0, len(state.Messages)),
		UpdatedAt:   state.UpdatedAt.UTC(),
	}
	for _, msg := range state.Messages {
		doc.Messages = append(doc.Messages, chatMessageDocument{
			ID:      msg.ID,
			Sender:  string(msg.Sender),
			Text:    msg.Text,
			Options: append([]string(nil), msg.Options...),
			SentAt:  msg.SentAt.UTC(),
		})
	}
	return doc
}

func decodeChatState(sessionID string, doc chatDocument) domain.ChatState {
	state := domain.ChatState{
		SessionID:   sessionID,
		Phase:       domain.ChatPhase(doc.Phase),
		QuestionIdx: doc.QuestionIdx,
		Messages:    make([]domain.ChatMessage, 0, len(doc.Messages)),
		UpdatedAt:   doc.UpdatedAt,
	}
	for _, msg := range doc.Messages {
		state.Messages = append(state.Messages, domain.ChatMessage{
			ID:      msg.ID,
			Sender:  domain.MessageSender(msg.Sender),
			Text:    msg.Text,
			Options: append([]string(nil), msg.Options...),
			SentAt:  msg.SentAt,
		})
	}
	return state
}
