package database

import (
	"fmt"

	"github.com/jinzhu/gorm"

	"orderbuilder/internal/models"
)

const imageBase = "https://assets.orderbuilder.local/images/"

func image(name string) (string, string, string) {
	return imageBase + name + ".png", imageBase + name + "-mobile.png", imageBase + name + "-large.png"
}

func item(id, name string, category models.Category, proteins, fat, carbs, calories, price int) models.CatalogItem {
	img, mobile, large := image(id)
	return models.CatalogItem{
		ID:            id,
		Name:          name,
		Category:      category,
		Proteins:      proteins,
		Fat:           fat,
		Carbohydrates: carbs,
		Calories:      calories,
		Price:         price,
		Image:         img,
		ImageMobile:   mobile,
		ImageLarge:    large,
	}
}

// DefaultCatalog returns the catalog installed into an empty database.
func DefaultCatalog() []models.CatalogItem {
	return []models.CatalogItem{
		item("crater-bun", "Crater bun", models.CategoryFrame, 80, 24, 53, 420, 1255),
		item("fluorescent-bun", "Fluorescent bun", models.CategoryFrame, 44, 26, 85, 643, 988),
		item("meteorite-patty", "Meteorite patty", models.CategoryFillingSolid, 800, 800, 300, 2674, 3000),
		item("martian-fillet", "Martian fillet", models.CategoryFillingSolid, 433, 244, 33, 420, 424),
		item("protostomia-meat", "Protostomia meat", models.CategoryFillingSolid, 433, 244, 33, 420, 1337),
		item("saturn-rings", "Saturn rings", models.CategoryFillingSolid, 808, 689, 609, 986, 762),
		item("mineral-salad", "Mineral salad", models.CategoryFillingSolid, 1, 2, 3, 6, 400),
		item("spicy-x-sauce", "Spicy-X sauce", models.CategoryFillingSauce, 30, 20, 40, 30, 90),
		item("space-sauce", "Space sauce", models.CategoryFillingSauce, 50, 22, 11, 14, 80),
		item("traditional-sauce", "Traditional sauce", models.CategoryFillingSauce, 42, 24, 42, 99, 15),
	}
}

// SeedCatalog inserts items when the catalog table is empty. It reports how
// many rows were written.
func SeedCatalog(db *gorm.DB, items []models.CatalogItem) (int, error) {
	var count int
	if err := db.Model(&models.CatalogItem{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count catalog: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	tx := db.Begin()
	for i := range items {
		if err := tx.Create(&items[i]).Error; err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("seed %s: %w", items[i].ID, err)
		}
	}
	if err := tx.Commit().Error; err != nil {
		return 0, fmt.Errorf("commit seed: %w", err)
	}
	return len(items), nil
}
