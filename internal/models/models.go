package models

import (
	"time"
)

type Role string

const RoleAdmin Role = "ADMIN"

type Fulfillment string

const (
	FulfillmentPickup   Fulfillment = "PICKUP"
	FulfillmentDelivery Fulfillment = "DELIVERY"
)

type Item struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	PriceCents  int       `json:"priceCents"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PublicItem is the catalog view of an Item; availability and timestamps stay private.
type PublicItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	PriceCents  int     `json:"priceCents"`
}

func (i Item) Public() PublicItem {
	return PublicItem{
		ID:          i.ID,
		Name:        i.Name,
		Description: i.Description,
		PriceCents:  i.PriceCents,
	}
}

// ItemPatch holds the fields of a partial update; nil means unchanged.
type ItemPatch struct {
	Name        *string
	Description *string
	PriceCents  *int
	IsActive    *bool
}

type Booking struct {
	ID           string      `json:"id"`
	ItemID       string      `json:"itemId"`
	Qty          int         `json:"qty"`
	CustomerName string      `json:"customerName"`
	Phone        string      `json:"phone"`
	Fulfillment  Fulfillment `json:"fulfillment"`
	Note         *string     `json:"note"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// BookingRef is a booking joined with the item it refers to, for the admin listing.
type BookingRef struct {
	ID           string      `json:"id"`
	Qty          int         `json:"qty"`
	CustomerName string      `json:"customerName"`
	Phone        string      `json:"phone"`
	Fulfillment  Fulfillment `json:"fulfillment"`
	Note         *string     `json:"note"`
	CreatedAt    time.Time   `json:"createdAt"`
	Item         ItemRef     `json:"item"`
}

type ItemRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"` // bcrypt hash
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}
