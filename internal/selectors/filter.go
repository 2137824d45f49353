package selectors

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"orderbuilder/internal/models"
)

// FilterCatalog returns the loaded catalog items for which expression holds.
// The expression sees id, name, category, price, proteins, fat,
// carbohydrates and calories, e.g. `category == "sauce" && price < 500`.
func FilterCatalog(s AppState, expression string) ([]models.CatalogItem, error) {
	program, err := compile(expression, catalogEnv(models.CatalogItem{}))
	if err != nil {
		return nil, err
	}

	out := []models.CatalogItem{}
	for _, item := range s.Catalog.Items {
		ok, err := match(program, expression, catalogEnv(item))
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, item)
		}
	}
	return out, nil
}

// FilterOrders returns the loaded feed orders for which expression holds.
// The expression sees id, name, status, number, ingredients and createdAt,
// e.g. `status == "done" && "bun-01" in ingredients`.
func FilterOrders(s AppState, expression string) ([]models.FeedOrder, error) {
	program, err := compile(expression, orderEnv(models.FeedOrder{}))
	if err != nil {
		return nil, err
	}

	out := []models.FeedOrder{}
	for _, order := range Orders(s) {
		ok, err := match(program, expression, orderEnv(order))
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, order)
		}
	}
	return out, nil
}

func compile(expression string, sample map[string]any) (*vm.Program, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, fmt.Errorf("filter expression must not be empty")
	}
	program, err := expr.Compile(expression, expr.Env(sample), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile filter %q: %w", expression, err)
	}
	return program, nil
}

func match(program *vm.Program, expression string, env map[string]any) (bool, error) {
	result, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("evaluate filter %q: %w", expression, err)
	}
	ok, _ := result.(bool)
	return ok, nil
}

func catalogEnv(item models.CatalogItem) map[string]any {
	return map[string]any{
		"id":            item.ID,
		"name":          item.Name,
		"category":      string(item.Category),
		"price":         item.Price,
		"proteins":      item.Proteins,
		"fat":           item.Fat,
		"carbohydrates": item.Carbohydrates,
		"calories":      item.Calories,
	}
}

func orderEnv(order models.FeedOrder) map[string]any {
	ingredients := order.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}
	return map[string]any{
		"id":          order.ID,
		"name":        order.Name,
		"status":      string(order.Status),
		"number":      order.Number,
		"ingredients": ingredients,
		"createdAt":   order.CreatedAt,
	}
}
