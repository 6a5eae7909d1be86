package recipes

import (
	"context"

	"foodgram/db"
	"foodgram/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type authorView struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

type ingredientView struct {
	ID              primitive.ObjectID `json:"id"`
	Name            string             `json:"name"`
	MeasurementUnit string             `json:"measurement_unit"`
	Amount          int                `json:"amount"`
}

type recipeView struct {
	ID               primitive.ObjectID `json:"id"`
	Tags             []models.Tag       `json:"tags"`
	Author           authorView         `json:"author"`
	Ingredients      []ingredientView   `json:"ingredients"`
	IsFavorited      bool               `json:"is_favorited"`
	IsInShoppingCart bool               `json:"is_in_shopping_cart"`
	Name             string             `json:"name"`
	Image            string             `json:"image"`
	Text             string             `json:"text"`
	CookingTime      int                `json:"cooking_time"`
}

// buildView expands a stored recipe into the API shape: tags and
// ingredient names resolved, favorite/cart flags computed for the
// requesting user (false when anonymous).
func buildView(ctx context.Context, recipe models.Recipe, userID string) (recipeView, error) {
	view := recipeView{
		ID:          recipe.ID,
		Tags:        []models.Tag{},
		Ingredients: []ingredientView{},
		Name:        recipe.Name,
		Image:       recipe.Image,
		Text:        recipe.Text,
		CookingTime: recipe.CookingTime,
	}

	if len(recipe.TagIDs) > 0 {
		cursor, err := db.TagCollection.Find(ctx, bson.M{"_id": bson.M{"$in": recipe.TagIDs}})
		if err != nil {
			return view, err
		}
		if err := cursor.All(ctx, &view.Tags); err != nil {
			return view, err
		}
	}

	items, err := resolveLineItems(ctx, recipe)
	if err != nil {
		return view, err
	}
	view.Ingredients = items

	var author models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"userid": recipe.AuthorID}).Decode(&author); err == nil {
		view.Author = authorView{
			ID:        author.UserID,
			Email:     author.Email,
			Username:  author.Username,
			FirstName: author.FirstName,
			LastName:  author.LastName,
		}
	}

	if userID != "" {
		if n, err := db.SubscriptionsCollection.CountDocuments(ctx,
			bson.M{"userId": userID, "authorId": recipe.AuthorID}); err == nil && n > 0 {
			view.Author.IsSubscribed = true
		}
		if n, err := db.FavoritesCollection.CountDocuments(ctx,
			bson.M{"userId": userID, "recipeId": recipe.ID}); err == nil && n > 0 {
			view.IsFavorited = true
		}
		if n, err := db.CartCollection.CountDocuments(ctx,
			bson.M{"userId": userID, "recipeId": recipe.ID}); err == nil && n > 0 {
			view.IsInShoppingCart = true
		}
	}

	return view, nil
}

// resolveLineItems joins the embedded line items against the
// ingredient catalog.
func resolveLineItems(ctx context.Context, recipe models.Recipe) ([]ingredientView, error) {
	if len(recipe.Ingredients) == 0 {
		return []ingredientView{}, nil
	}

	ids := make([]primitive.ObjectID, 0, len(recipe.Ingredients))
	for _, item := range recipe.Ingredients {
		ids = append(ids, item.IngredientID)
	}

	cursor, err := db.IngredientCollection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var catalog []models.Ingredient
	if err := cursor.All(ctx, &catalog); err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]models.Ingredient, len(catalog))
	for _, ing := range catalog {
		byID[ing.ID] = ing
	}

	views := make([]ingredientView, 0, len(recipe.Ingredients))
	for _, item := range recipe.Ingredients {
		ing := byID[item.IngredientID]
		views = append(views, ingredientView{
			ID:              item.IngredientID,
			Name:            ing.Name,
			MeasurementUnit: ing.MeasurementUnit,
			Amount:          item.Amount,
		})
	}
	return views, nil
}
