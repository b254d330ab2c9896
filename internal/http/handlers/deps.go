package handlers

import (
	"lostpets/internal/config"
	"lostpets/internal/repos"
	"lostpets/internal/services"
)

type Deps struct {
	FormHandler *PetFormHandler
	PetHandler  *PetHandler
}

func NewDeps(cfg config.Config) *Deps {
	client := repos.NewClient(cfg.APIBaseURL, cfg.APITimeout)
	userRepo := repos.NewUserRepo(client)
	petRepo := repos.NewPetRepo(client)

	listingSvc := services.NewListingService(userRepo, petRepo, services.ListingOptions{
		ResetOnSuccess: cfg.ResetOnSuccess,
		SubmitGuard:    cfg.SubmitGuard,
		ResizePhotos:   cfg.ResizePhotos,
	})

	return &Deps{
		FormHandler: &PetFormHandler{Listings: listingSvc, Cookie: cfg.SessionCookie, Timeout: cfg.APITimeout},
		PetHandler:  &PetHandler{Pets: petRepo, MediaBase: cfg.MediaBaseURL, Timeout: cfg.APITimeout},
	}
}
