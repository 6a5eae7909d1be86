package routes

import (
	"net/http"

	"foodgram/auth"
	"foodgram/cart"
	"foodgram/favorites"
	"foodgram/ingredients"
	"foodgram/middleware"
	"foodgram/ratelim"
	"foodgram/recipes"
	"foodgram/subscriptions"
	"foodgram/tags"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/uploads/*filepath", http.Dir("static/uploads"))
}

func AddAuthRoutes(router *httprouter.Router) {
	router.POST("/api/v1/auth/register", ratelim.RateLimit(auth.Register))
	router.POST("/api/v1/auth/login", ratelim.RateLimit(auth.Login))
	router.POST("/api/v1/auth/logout", middleware.Authenticate(auth.LogoutUser))
	router.POST("/api/v1/auth/token/refresh", ratelim.RateLimit(middleware.Authenticate(auth.RefreshToken)))
}

func AddTagRoutes(router *httprouter.Router) {
	router.GET("/api/v1/tags", ratelim.RateLimit(tags.GetTags))
	router.GET("/api/v1/tags/:id", ratelim.RateLimit(tags.GetTag))
}

func AddIngredientRoutes(router *httprouter.Router) {
	router.GET("/api/v1/ingredients", ratelim.RateLimit(ingredients.GetIngredients))
	router.GET("/api/v1/ingredients/:id", ratelim.RateLimit(ingredients.GetIngredient))
}

func AddRecipeRoutes(router *httprouter.Router) {
	router.GET("/api/v1/recipes", middleware.OptionalAuth(recipes.GetRecipes))
	router.GET("/api/v1/recipes/recipe/:id", middleware.OptionalAuth(recipes.GetRecipe))
	router.POST("/api/v1/recipes", middleware.Authenticate(recipes.CreateRecipe))
	router.PUT("/api/v1/recipes/recipe/:id", middleware.Authenticate(recipes.UpdateRecipe))
	router.DELETE("/api/v1/recipes/recipe/:id", middleware.Authenticate(recipes.DeleteRecipe))

	// Membership sets hang off the recipe
	router.POST("/api/v1/recipes/recipe/:id/shopping_cart", middleware.Authenticate(cart.AddToCart))
	router.DELETE("/api/v1/recipes/recipe/:id/shopping_cart", middleware.Authenticate(cart.RemoveFromCart))
	router.POST("/api/v1/recipes/recipe/:id/favorite", middleware.Authenticate(favorites.AddFavorite))
	router.DELETE("/api/v1/recipes/recipe/:id/favorite", middleware.Authenticate(favorites.RemoveFavorite))
}

func AddCartRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.GET("/api/v1/cart", middleware.Authenticate(cart.GetCart))
	router.GET("/api/v1/recipes/download_shopping_cart", rateLimiter.Limit(middleware.Authenticate(cart.DownloadShoppingCart)))
}

func AddSubscriptionRoutes(router *httprouter.Router) {
	router.GET("/api/v1/users/subscriptions", middleware.Authenticate(subscriptions.GetSubscriptions))
	router.POST("/api/v1/users/user/:id/subscribe", middleware.Authenticate(subscriptions.Subscribe))
	router.DELETE("/api/v1/users/user/:id/subscribe", middleware.Authenticate(subscriptions.Unsubscribe))
}
