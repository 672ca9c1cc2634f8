// Package di provides dependency injection configuration for the Milluki server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/millukiapp/milluki-server/internal/auth"
	"github.com/millukiapp/milluki-server/internal/config"
	"github.com/millukiapp/milluki-server/internal/di/providers"
	"github.com/millukiapp/milluki-server/internal/logger"
	"github.com/millukiapp/milluki-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)
	do.Provide(injector, providers.ProvideStore)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)
	do.Provide(injector, providers.ProvideLoginLimiter)

	// Business services
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideCollectionService)
	do.Provide(injector, providers.ProvideBookService)
	do.Provide(injector, providers.ProvideGenreService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle
// management. Invoking the HTTP server pulls in everything it depends on.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*logger.Logger](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[providers.AuthKey](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*auth.TokenService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.LoginLimiterHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.AuthService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.CollectionService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.BookService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.GenreService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return err
	}
	return nil
}
