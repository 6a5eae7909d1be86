package cart

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"foodgram/db"
	"foodgram/models"
	"foodgram/shopping"
	"foodgram/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AddToCart creates the (user, recipe) membership entry. A second add
// of the same recipe is rejected, matching the uniqueness invariant.
func AddToCart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromContext(r.Context())
	recipeID, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid recipe ID")
		return
	}

	ctx := context.TODO()
	var recipe models.Recipe
	if err := db.RecipeCollection.FindOne(ctx, bson.M{"_id": recipeID}).Decode(&recipe); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Recipe not found")
		return
	}

	count, err := db.CartCollection.CountDocuments(ctx, bson.M{"userId": userID, "recipeId": recipeID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to check cart")
		return
	}
	if count > 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Recipe is already in the shopping cart")
		return
	}

	entry := models.CartEntry{UserID: userID, RecipeID: recipeID}
	if _, err := db.CartCollection.InsertOne(ctx, entry); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to add to cart")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, models.RecipeCard{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.Image,
		CookingTime: recipe.CookingTime,
	})
}

func RemoveFromCart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromContext(r.Context())
	recipeID, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid recipe ID")
		return
	}

	result, err := db.CartCollection.DeleteOne(context.TODO(), bson.M{"userId": userID, "recipeId": recipeID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to remove from cart")
		return
	}
	if result.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Recipe is not in the shopping cart")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetCart lists the short cards of every recipe in the user's cart.
func GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromContext(r.Context())
	ctx := context.TODO()

	recipeIDs, err := cartRecipeIDs(ctx, userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch cart")
		return
	}

	cards := []models.RecipeCard{}
	if len(recipeIDs) > 0 {
		cursor, err := db.RecipeCollection.Find(ctx, bson.M{"_id": bson.M{"$in": recipeIDs}})
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch recipes")
			return
		}
		if err := cursor.All(ctx, &cards); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode recipes")
			return
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, cards)
}

// DownloadShoppingCart aggregates the user's cart into a consolidated
// list and streams it back as a PDF attachment. The aggregation is
// all-or-nothing: a dangling cart entry fails the whole request.
func DownloadShoppingCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromContext(r.Context())
	ctx := r.Context()

	recipeIDs, err := cartRecipeIDs(ctx, userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch cart")
		return
	}

	hexIDs := make([]string, 0, len(recipeIDs))
	for _, id := range recipeIDs {
		hexIDs = append(hexIDs, id.Hex())
	}

	list, err := shopping.Aggregate(ctx, Composer{}, hexIDs)
	if err != nil {
		switch {
		case errors.Is(err, shopping.ErrDanglingReference):
			utils.RespondWithError(w, http.StatusConflict, "Shopping cart references a deleted recipe")
		case errors.Is(err, shopping.ErrInvalidRecipeState):
			utils.RespondWithError(w, http.StatusInternalServerError, "Recipe data is inconsistent")
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to aggregate shopping list")
		}
		return
	}

	renderer := shopping.Renderer{FontPath: os.Getenv("SHOPPING_FONT")}
	document, err := renderer.Render(list, shopping.DefaultTitle)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to render shopping list")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", shopping.Filename))
	w.WriteHeader(http.StatusOK)
	w.Write(document)
}

func cartRecipeIDs(ctx context.Context, userID string) ([]primitive.ObjectID, error) {
	cursor, err := db.CartCollection.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	var entries []models.CartEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.RecipeID)
	}
	return ids, nil
}
