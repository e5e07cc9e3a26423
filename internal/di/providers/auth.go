package providers

import (
	"encoding/hex"

	"github.com/samber/do/v2"

	"github.com/bookdenapp/bookden-server/internal/auth"
	"github.com/bookdenapp/bookden-server/internal/config"
	"github.com/bookdenapp/bookden-server/internal/logger"
)

// AuthKey is the PASETO symmetric key, hex encoded.
type AuthKey string

// ProvideAuthKey loads the token signing key, preferring an explicitly
// configured key over the generated one on disk.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if len(cfg.Auth.AccessTokenKey) == 32 {
		return AuthKey(hex.EncodeToString(cfg.Auth.AccessTokenKey)), nil
	}

	key, err := auth.LoadOrGenerateKey(cfg.Storage.BasePath)
	if err != nil {
		return "", err
	}

	log.Info("Auth key loaded", "path", cfg.Storage.BasePath)
	return AuthKey(hex.EncodeToString(key)), nil
}

// ProvideTokenService provides the PASETO token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	key := do.MustInvoke[AuthKey](i)

	return auth.NewTokenService(string(key), cfg.Auth.AccessTokenDuration, cfg.Auth.RefreshTokenDuration)
}
