package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/foodgram/backend/internal/metrics"
	"github.com/google/uuid"
)

const shoppingListTitle = "Shopping list"

// ShoppingListService renders a user's aggregated cart as a text document
type ShoppingListService struct {
	query   *QueryEngine
	metrics metrics.Recorder
}

func NewShoppingListService(query *QueryEngine, recorder metrics.Recorder) *ShoppingListService {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &ShoppingListService{query: query, metrics: recorder}
}

// Export returns the shopping list document of the user's cart
func (s *ShoppingListService) Export(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	items, err := s.query.AggregateShoppingList(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordShoppingListExport(len(items))
	return RenderShoppingList(items), nil
}

// RenderShoppingList formats items as a title line, a blank line and one
// "- name: amount unit" line per item.
func RenderShoppingList(items []ShoppingListItem) []byte {
	var buf bytes.Buffer
	buf.WriteString(shoppingListTitle)
	buf.WriteString("\n\n")
	for _, item := range items {
		fmt.Fprintf(&buf, "- %s: %d %s\n", item.Name, item.Amount, item.Unit)
	}
	return buf.Bytes()
}
