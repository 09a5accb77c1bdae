package models

// Product is a row of the products table.
type Product struct {
	ID          int     `gorm:"primaryKey;autoIncrement:false"`
	Name        string  `gorm:"type:varchar(255);not null"`
	Price       float64 `gorm:"not null"`
	Description string  `gorm:"type:text"`
	Quantity    int     `gorm:"not null;default:0"`
}

// TableName returns the table name for Product.
func (Product) TableName() string {
	return "products"
}

// ProductPayload is the shape accepted on create/update and returned in responses.
type ProductPayload struct {
	ID          int     `json:"id"`
	Name        string  `json:"name" validate:"notblank,noadmin"`
	Price       float64 `json:"price" validate:"gte=0"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity" validate:"gte=0"`
}

// ProductRequest is the decoded create/update body. Every field is required;
// pointers tell an absent or null field apart from a zero value.
type ProductRequest struct {
	ID          *int     `json:"id" validate:"required"`
	Name        *string  `json:"name" validate:"required,notblank,noadmin"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Description *string  `json:"description" validate:"required"`
	Quantity    *int     `json:"quantity" validate:"required,gte=0"`
}

// ToPayload dereferences a validated request. It must only be called once
// validation has confirmed every field is present.
func (r ProductRequest) ToPayload() ProductPayload {
	return ProductPayload{
		ID:          *r.ID,
		Name:        *r.Name,
		Price:       *r.Price,
		Description: *r.Description,
		Quantity:    *r.Quantity,
	}
}

// NewProductPayload builds the response shape from a stored row.
func NewProductPayload(p Product) ProductPayload {
	return ProductPayload{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		Quantity:    p.Quantity,
	}
}

// NewProductPayloads maps a list of rows, never returning nil.
func NewProductPayloads(products []Product) []ProductPayload {
	payloads := make([]ProductPayload, 0, len(products))
	for _, p := range products {
		payloads = append(payloads, NewProductPayload(p))
	}
	return payloads
}

// ToProduct converts a validated payload into a row.
func (p ProductPayload) ToProduct() Product {
	return Product{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		Quantity:    p.Quantity,
	}
}

// DefaultSeedProducts is the catalog inserted into an empty table at startup.
func DefaultSeedProducts() []ProductPayload {
	return []ProductPayload{
		{ID: 1, Name: "mobile", Price: 4, Description: "budget phone", Quantity: 4},
		{ID: 2, Name: "mobile", Price: 3, Description: "budget phone", Quantity: 4},
		{ID: 5, Name: "laptop", Price: 10, Description: "budget laptop", Quantity: 2},
	}
}
