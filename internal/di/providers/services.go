package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/bookdenapp/bookden-server/internal/auth"
	"github.com/bookdenapp/bookden-server/internal/logger"
	"github.com/bookdenapp/bookden-server/internal/service"
)

// ProvideSessionService provides session management with a background
// janitor that expires stale sessions.
func ProvideSessionService(i do.Injector) (*service.SessionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	svc := service.NewSessionService(storeHandle.Store, tokenService, log.Logger)
	svc.StartJanitor(context.Background(), time.Hour)
	return svc, nil
}

// AuthServiceHandle wraps the auth service with shutdown capability for
// its login rate limiter.
type AuthServiceHandle struct {
	*service.AuthService
}

// Shutdown implements do.Shutdownable.
func (h *AuthServiceHandle) Shutdown() error {
	h.AuthService.Close()
	return nil
}

// ProvideAuthService provides registration, login, and token verification.
func ProvideAuthService(i do.Injector) (*AuthServiceHandle, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	sessions := do.MustInvoke[*service.SessionService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return &AuthServiceHandle{
		AuthService: service.NewAuthService(storeHandle.Store, tokenService, sessions, log.Logger),
	}, nil
}

// ProvideBookService provides catalog management.
func ProvideBookService(i do.Injector) (*service.BookService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	historyHandle := do.MustInvoke[*HistoryHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBookService(storeHandle.Store, historyHandle.Store, log.Logger), nil
}

// ProvideInteractionService provides reactions and ratings.
func ProvideInteractionService(i do.Injector) (*service.InteractionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewInteractionService(storeHandle.Store, log.Logger), nil
}

// ProvideCarouselService provides homepage carousel curation.
func ProvideCarouselService(i do.Injector) (*service.CarouselService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	books := do.MustInvoke[*service.BookService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCarouselService(storeHandle.Store, books, log.Logger), nil
}

// ProvideHistoryService provides reading history and trending queries.
func ProvideHistoryService(i do.Injector) (*service.HistoryService, error) {
	historyHandle := do.MustInvoke[*HistoryHandle](i)
	books := do.MustInvoke[*service.BookService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewHistoryService(historyHandle.Store, books, log.Logger), nil
}

// ProvideUserService provides account profile management.
func ProvideUserService(i do.Injector) (*service.UserService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sessions := do.MustInvoke[*service.SessionService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewUserService(storeHandle.Store, sessions, log.Logger), nil
}
