package models

import "github.com/google/uuid"

// Product is a catalog entry joined with its stock count. The entry itself
// lives in the products table; Count comes from the stocks table item sharing
// the same id.
type Product struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Count       int       `json:"count"`
}

// Stock is the per-product quantity row, one-to-one with a Product.
type Stock struct {
	ProductID uuid.UUID `json:"product_id"`
	Count     int       `json:"count"`
}

// ImportNotification is the per-batch summary published once the batch
// processor has attempted every record in a batch.
type ImportNotification struct {
	Message  string                `json:"message"`
	Products []NotificationProduct `json:"products"`
}

type NotificationProduct struct {
	Title string  `json:"title"`
	Price float64 `json:"price"`
	Count int     `json:"count"`
}
