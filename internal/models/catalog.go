package models

// Category represents the category of a catalog item
type Category string

const (
	// CategoryFrame is the single top-level item of an order (the bun).
	CategoryFrame Category = "bun"
	// CategoryFillingSolid covers solid fillings (patties, cutlets, vegetables).
	CategoryFillingSolid Category = "main"
	// CategoryFillingSauce covers sauces.
	CategoryFillingSauce Category = "sauce"
)

// Valid reports whether the category belongs to the closed set.
func (c Category) Valid() bool {
	switch c {
	case CategoryFrame, CategoryFillingSolid, CategoryFillingSauce:
		return true
	}
	return false
}

// IsFilling reports whether items of this category go into the filling list.
func (c Category) IsFilling() bool {
	return c == CategoryFillingSolid || c == CategoryFillingSauce
}

// CatalogItem represents a selectable item fetched from the catalog source.
// Values are immutable once loaded and are copied wherever they are placed.
type CatalogItem struct {
	ID            string   `json:"_id" gorm:"primary_key"`
	Name          string   `json:"name"`
	Category      Category `json:"type"`
	Proteins      int      `json:"proteins"`
	Fat           int      `json:"fat"`
	Carbohydrates int      `json:"carbohydrates"`
	Calories      int      `json:"calories"`
	Price         int      `json:"price"`
	Image         string   `json:"image"`
	ImageMobile   string   `json:"image_mobile"`
	ImageLarge    string   `json:"image_large"`
}

// TableName pins the gorm table name.
func (CatalogItem) TableName() string {
	return "catalog_items"
}

// Catalog returns the item itself. It lets catalog items and builder entries
// be handed to the builder through the same interface.
func (i CatalogItem) Catalog() CatalogItem {
	return i
}

// Images returns the non-empty image references of the item.
func (i CatalogItem) Images() []string {
	images := make([]string, 0, 3)
	for _, ref := range []string{i.Image, i.ImageMobile, i.ImageLarge} {
		if ref != "" {
			images = append(images, ref)
		}
	}
	return images
}
