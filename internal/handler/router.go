package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrleocoder/coderbds/internal/middleware"
	"github.com/mrleocoder/coderbds/internal/model"
	"github.com/mrleocoder/coderbds/internal/repository"
	"github.com/mrleocoder/coderbds/internal/service"
)

// Services is everything the HTTP layer talks to.
type Services struct {
	Auth       *service.AuthService
	Posting    *service.PostingService
	Moderation *service.ModerationService
	Wallet     *service.WalletService
	Members    *service.MemberService
	Tickets    *service.TicketService
	Stats      *service.StatsService
	Properties *service.Catalog[model.Property, repository.PropertyFilter]
	Lands      *service.Catalog[model.Land, repository.LandFilter]
	Sims       *service.Catalog[model.Sim, repository.SimFilter]
	News       *service.Catalog[model.NewsArticle, repository.NewsFilter]
}

// Register mounts the whole API under /api.
func Register(r *gin.Engine, s Services) {
	api := r.Group("/api")
	member := api.Group("", middleware.JWTAuth(s.Auth))
	admin := member.Group("", middleware.RequireRole(model.RoleAdmin))

	api.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "BDS Vietnam API", "version": "1.0.0"})
	})

	(&AuthHandler{Auth: s.Auth}).RegisterRoutes(api, member)

	// Registered before /properties/:id so the static segment wins.
	api.GET("/properties/featured", Featured(s.Properties))
	(&ListingHandler[model.Property, repository.PropertyFilter]{
		Catalog: s.Properties, Filter: PropertyFilter, Noun: "Property",
	}).RegisterRoutes(api, admin, "/properties")
	(&ListingHandler[model.Land, repository.LandFilter]{
		Catalog: s.Lands, Filter: LandFilter, Noun: "Land",
	}).RegisterRoutes(api, admin, "/lands")
	(&ListingHandler[model.Sim, repository.SimFilter]{
		Catalog: s.Sims, Filter: SimFilter, Noun: "Sim",
	}).RegisterRoutes(api, admin, "/sims")
	(&ListingHandler[model.NewsArticle, repository.NewsFilter]{
		Catalog: s.News, Filter: NewsFilter, Noun: "News article",
	}).RegisterRoutes(api, admin, "/news")

	(&TicketHandler{Tickets: s.Tickets, Stats: s.Stats}).RegisterRoutes(api, admin)
	(&MemberPostHandler{Posting: s.Posting}).RegisterRoutes(member)
	(&WalletHandler{Wallet: s.Wallet}).RegisterRoutes(member)
	(&AdminHandler{
		Moderation: s.Moderation,
		Wallet:     s.Wallet,
		Members:    s.Members,
		Stats:      s.Stats,
	}).RegisterRoutes(admin)
}
