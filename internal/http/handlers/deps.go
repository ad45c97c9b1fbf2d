package handlers

import (
	"github.com/jmoiron/sqlx"

	"tirupurhomes/internal/config"
	"tirupurhomes/internal/repos"
	"tirupurhomes/internal/services"
	"tirupurhomes/internal/storage"
)

type Deps struct {
	Auth *services.AuthService

	ListingHandler *ListingHandler
	ImageHandler   *ImageHandler
	InquiryHandler *InquiryHandler
	AuthHandler    *AuthHandler
	AdminHandler   *AdminHandler
	ShareHandler   *ShareHandler
	MediaHandler   *MediaHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, store storage.ObjectStore) *Deps {
	listingRepo := repos.NewListingRepo(db)
	inquiryRepo := repos.NewInquiryRepo(db)
	userRepo := repos.NewUserRepo(db)

	listingSvc := services.NewListingService(listingRepo, store)
	inquirySvc := services.NewInquiryService(inquiryRepo)
	authSvc := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)

	return &Deps{
		Auth:           authSvc,
		ListingHandler: &ListingHandler{Listings: listingSvc},
		ImageHandler:   &ImageHandler{Listings: listingSvc, MaxBytes: int64(cfg.BodyLimit)},
		InquiryHandler: &InquiryHandler{Inquiries: inquirySvc},
		AuthHandler:    &AuthHandler{Auth: authSvc},
		AdminHandler:   &AdminHandler{Auth: authSvc},
		ShareHandler:   &ShareHandler{Listings: listingSvc, AppName: cfg.AppName, BaseURL: cfg.PublicBaseURL},
		MediaHandler:   &MediaHandler{Dir: cfg.MediaDir, Store: store},
	}
}
