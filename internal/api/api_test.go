package api

import (
	"encoding/base64"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/ocireg/registry/internal/auth"
	"github.com/ocireg/registry/internal/cache"
	"github.com/ocireg/registry/internal/hooks"
	"github.com/ocireg/registry/internal/logx"
	"github.com/ocireg/registry/internal/storage"
)

const testUsername = "tester"
const testPassword = "secret"

func basicAuthHeader(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	dir, err := os.MkdirTemp("", "registry-api-test")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	log := logx.New(logx.Config{})
	store, err := storage.NewFilesystemStore(dir, cache.NoopTagCache{}, log)
	require.NoError(t, err)

	authn := auth.NewStaticUserList([]auth.StaticUser{{Username: testUsername, Password: testPassword}})
	sink := hooks.NewLoggingSink(log)

	handler := NewHandler(store, authn, sink, log)
	return handler.Router()
}
