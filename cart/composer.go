package cart

import (
	"context"
	"fmt"

	"foodgram/db"
	"foodgram/models"
	"foodgram/shopping"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Composer is the MongoDB-backed recipe composition source for the
// aggregation engine: it flattens one recipe's embedded line items
// into resolved (name, unit, amount) triples.
type Composer struct{}

func (Composer) LineItemsOf(ctx context.Context, recipeID string) ([]shopping.LineItem, error) {
	oid, err := primitive.ObjectIDFromHex(recipeID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", recipeID, shopping.ErrNotFound)
	}

	var recipe models.Recipe
	err = db.RecipeCollection.FindOne(ctx, bson.M{"_id": oid}).Decode(&recipe)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("%s: %w", recipeID, shopping.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(recipe.Ingredients))
	for _, item := range recipe.Ingredients {
		ids = append(ids, item.IngredientID)
	}

	byID := make(map[primitive.ObjectID]models.Ingredient, len(ids))
	if len(ids) > 0 {
		cursor, err := db.IngredientCollection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
		if err != nil {
			return nil, err
		}
		var catalog []models.Ingredient
		if err := cursor.All(ctx, &catalog); err != nil {
			return nil, err
		}
		for _, ing := range catalog {
			byID[ing.ID] = ing
		}
	}

	items := make([]shopping.LineItem, 0, len(recipe.Ingredients))
	for _, item := range recipe.Ingredients {
		ing, ok := byID[item.IngredientID]
		if !ok {
			// A line item pointing at a deleted catalog entry is a
			// data-integrity bug, not a dangling cart reference.
			return nil, fmt.Errorf("ingredient %s of recipe %s missing: %w",
				item.IngredientID.Hex(), recipeID, shopping.ErrInvalidRecipeState)
		}
		items = append(items, shopping.LineItem{
			Name:   ing.Name,
			Unit:   ing.MeasurementUnit,
			Amount: item.Amount,
		})
	}

	return items, nil
}
