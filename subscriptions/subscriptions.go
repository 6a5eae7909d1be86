package subscriptions

import (
	"context"
	"net/http"
	"strconv"

	"foodgram/db"
	"foodgram/models"
	"foodgram/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type authorWithRecipes struct {
	ID           string              `json:"id"`
	Email        string              `json:"email"`
	Username     string              `json:"username"`
	FirstName    string              `json:"first_name"`
	LastName     string              `json:"last_name"`
	IsSubscribed bool                `json:"is_subscribed"`
	Recipes      []models.RecipeCard `json:"recipes"`
	RecipesCount int64               `json:"recipes_count"`
}

// Subscribe follows an author. Following yourself or an author you
// already follow is rejected.
func Subscribe(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromContext(r.Context())
	authorID := ps.ByName("id")

	if authorID == userID {
		utils.RespondWithError(w, http.StatusBadRequest, "You can't subscribe to yourself")
		return
	}

	ctx := context.TODO()
	var author models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"userid": authorID}).Decode(&author)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch user")
		return
	}

	count, err := db.SubscriptionsCollection.CountDocuments(ctx, bson.M{"userId": userID, "authorId": authorID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to check subscription")
		return
	}
	if count > 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "You already follow this author")
		return
	}

	sub := models.Subscription{UserID: userID, AuthorID: authorID}
	if _, err := db.SubscriptionsCollection.InsertOne(ctx, sub); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to subscribe")
		return
	}

	view, err := buildAuthorView(ctx, author)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to build author")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, view)
}

func Unsubscribe(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromContext(r.Context())
	authorID := ps.ByName("id")

	result, err := db.SubscriptionsCollection.DeleteOne(context.TODO(), bson.M{"userId": userID, "authorId": authorID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to unsubscribe")
		return
	}
	if result.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "You don't follow this author")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetSubscriptions lists the followed authors with their recipe cards.
func GetSubscriptions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromContext(r.Context())
	ctx := context.TODO()

	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 10
	}

	cursor, err := db.SubscriptionsCollection.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch subscriptions")
		return
	}
	var subs []models.Subscription
	if err := cursor.All(ctx, &subs); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode subscriptions")
		return
	}

	if offset > len(subs) {
		offset = len(subs)
	}
	end := offset + limit
	if end > len(subs) {
		end = len(subs)
	}

	authors := []authorWithRecipes{}
	for _, sub := range subs[offset:end] {
		var author models.User
		if err := db.UserCollection.FindOne(ctx, bson.M{"userid": sub.AuthorID}).Decode(&author); err != nil {
			continue
		}
		view, err := buildAuthorView(ctx, author)
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to build author")
			return
		}
		authors = append(authors, view)
	}

	utils.RespondWithJSON(w, http.StatusOK, authors)
}

func buildAuthorView(ctx context.Context, author models.User) (authorWithRecipes, error) {
	view := authorWithRecipes{
		ID:           author.UserID,
		Email:        author.Email,
		Username:     author.Username,
		FirstName:    author.FirstName,
		LastName:     author.LastName,
		IsSubscribed: true,
		Recipes:      []models.RecipeCard{},
	}

	cursor, err := db.RecipeCollection.Find(ctx, bson.M{"authorId": author.UserID})
	if err != nil {
		return view, err
	}
	if err := cursor.All(ctx, &view.Recipes); err != nil {
		return view, err
	}
	view.RecipesCount = int64(len(view.Recipes))

	return view, nil
}
