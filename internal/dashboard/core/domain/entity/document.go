package entity

// UserDocument is one user as returned by the backend, with nested
// key→document maps. Any of the maps may be absent.
type UserDocument struct {
	Key         string                         `json:"key"`
	Name        Text                           `json:"name"`
	Email       Text                           `json:"email"`
	Phone       Text                           `json:"phone"`
	Orders      map[string]CustomOrderDocument `json:"orders,omitempty"`
	StoreOrders map[string]StoreOrderDocument  `json:"storeOrders,omitempty"`
	Cart        map[string]CartItemDocument    `json:"cart,omitempty"`
}

type CustomOrderDocument struct {
	OrderID        Text           `json:"orderId,omitempty"`
	CreatedAt      Text           `json:"createdAt,omitempty"`
	UpdatedAt      Text           `json:"updatedAt,omitempty"`
	Status         Text           `json:"status,omitempty"`
	Phone          Text           `json:"phone,omitempty"`
	TotalPrice     Amount         `json:"totalPrice"`
	DeliveryCharge Amount         `json:"deliveryCharge"`
	DiscountAmount Amount         `json:"discountAmount"`
	Files          []FileDocument `json:"files,omitempty"`
}

type FileDocument struct {
	FileName      Text   `json:"fileName,omitempty"`
	Quantity      Count  `json:"quantity,omitempty"`
	Price         Amount `json:"price"`
	TotalPrice    Amount `json:"totalPrice"`
	PrintSettings Fields `json:"printSettings,omitempty"`
}

type StoreOrderDocument struct {
	OrderID           Text                  `json:"orderId,omitempty"`
	CreatedAt         Text                  `json:"createdAt,omitempty"`
	UpdatedAt         Text                  `json:"updatedAt,omitempty"`
	Status            Text                  `json:"status,omitempty"`
	Phone             Text                  `json:"phone,omitempty"`
	TotalPrice        Amount                `json:"totalPrice"`
	DeliveryCharge    Amount                `json:"deliveryCharge"`
	CustomizationCost Amount                `json:"customizationCost"`
	Savings           Amount                `json:"savings"`
	Items             []ProductItemDocument `json:"items,omitempty"`
}

type ProductItemDocument struct {
	ModelName     Text   `json:"modelName,omitempty"`
	Quantity      Count  `json:"quantity,omitempty"`
	Price         Amount `json:"price"`
	TotalPrice    Amount `json:"totalPrice"`
	Off           Amount `json:"off"`
	Customization Fields `json:"customization,omitempty"`
}

type CartItemDocument struct {
	ProductID     Text   `json:"productId,omitempty"`
	ModelName     Text   `json:"modelName,omitempty"`
	Image         Text   `json:"image,omitempty"`
	Price         Amount `json:"price"`
	OriginalPrice Amount `json:"originalPrice"`
	Off           Amount `json:"off"`
	Quantity      Count  `json:"quantity,omitempty"`
	AddedAt       Text   `json:"addedAt,omitempty"`
}

// Cart is one user's cart as returned by FetchCartByPhone.
type Cart struct {
	UserKey string                      `json:"userKey"`
	Phone   string                      `json:"phone"`
	Items   map[string]CartItemDocument `json:"items"`
}

// StatusUpdate is what the backend returns after persisting a status change.
type StatusUpdate struct {
	OrderID   string `json:"orderId"`
	Status    Status `json:"status"`
	UpdatedAt string `json:"updatedAt"`
}
