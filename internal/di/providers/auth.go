package providers

import (
	"encoding/hex"

	"github.com/samber/do/v2"

	"github.com/millukiapp/milluki-server/internal/auth"
	"github.com/millukiapp/milluki-server/internal/config"
	"github.com/millukiapp/milluki-server/internal/logger"
	"github.com/millukiapp/milluki-server/internal/ratelimit"
)

// AuthKey wraps the token signing key bytes.
type AuthKey []byte

// ProvideAuthKey loads or generates the token signing key.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	key, err := auth.LoadOrGenerateKey(cfg.Store.DataPath)
	if err != nil {
		return nil, err
	}

	log.Info("Token signing key loaded", "token_ttl", cfg.Auth.TokenTTL)

	return AuthKey(key), nil
}

// ProvideTokenService provides the PASETO token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	authKey := do.MustInvoke[AuthKey](i)

	return auth.NewTokenService(hex.EncodeToString(authKey), cfg.Auth.TokenTTL)
}

// LoginLimiterHandle wraps the login rate limiter with Shutdownable.
type LoginLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *LoginLimiterHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideLoginLimiter provides the per-IP login throttle.
func ProvideLoginLimiter(i do.Injector) (*LoginLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)

	limiter := ratelimit.New(cfg.RateLimit.LoginRPS, cfg.RateLimit.LoginBurst)
	return &LoginLimiterHandle{KeyedRateLimiter: limiter}, nil
}
