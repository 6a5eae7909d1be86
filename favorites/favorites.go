package favorites

import (
	"context"
	"net/http"

	"foodgram/db"
	"foodgram/models"
	"foodgram/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AddFavorite mirrors the cart membership rules on an independent set.
func AddFavorite(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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

	count, err := db.FavoritesCollection.CountDocuments(ctx, bson.M{"userId": userID, "recipeId": recipeID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to check favorites")
		return
	}
	if count > 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Recipe is already in favorites")
		return
	}

	entry := models.FavoriteEntry{UserID: userID, RecipeID: recipeID}
	if _, err := db.FavoritesCollection.InsertOne(ctx, entry); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to add favorite")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, models.RecipeCard{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.Image,
		CookingTime: recipe.CookingTime,
	})
}

func RemoveFavorite(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromContext(r.Context())
	recipeID, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid recipe ID")
		return
	}

	result, err := db.FavoritesCollection.DeleteOne(context.TODO(), bson.M{"userId": userID, "recipeId": recipeID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to remove favorite")
		return
	}
	if result.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Recipe is not in favorites")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
