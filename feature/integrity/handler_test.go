package integrity

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"media-manager/core/asset"
	"media-manager/core/commit"
	"media-manager/core/compensate"
	"media-manager/core/database"
	"media-manager/core/reconcile"
	"media-manager/core/record"
	"media-manager/core/storage/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEnv struct {
	app     *fiber.App
	client  *mocks.Client
	assets  *asset.MemoryStore
	records record.Store
}

func setupTestApp(t *testing.T) *testEnv {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, record.Migrate(db))

	client := new(mocks.Client)
	assets := asset.NewMemoryStore("memory://assets")
	records := record.NewGormStore(db)
	auditor := reconcile.NewAuditor(records, assets, compensate.NewManager(assets, compensate.Config{}, zap.NewNop()))

	app := fiber.New()
	svc := NewService(client, "test-bucket", commit.DefaultKinds(), auditor, db, zap.NewNop())
	NewHandler(svc).RegisterRoutes(app)

	return &testEnv{app: app, client: client, assets: assets, records: records}
}

func decode(t *testing.T, app *fiber.App, path string, out any) int {
	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode
}

func TestHandleStructureCheck(t *testing.T) {
	env := setupTestApp(t)
	env.client.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
	env.client.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(nil)

	var body map[string]any
	status := decode(t, env.app, "/integrity/structure", &body)

	assert.Equal(t, 200, status)
	assert.Equal(t, "checked", body["status"])
	assert.Len(t, body["missing"], 4)
}

func TestHandleStructureCheck_Fix(t *testing.T) {
	env := setupTestApp(t)
	env.client.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
	env.client.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(nil)
	env.client.On("PutObject", mock.Anything, "test-bucket", mock.Anything, mock.Anything, int64(0), mock.Anything).
		Return(minio.UploadInfo{}, nil)

	var body map[string]any
	status := decode(t, env.app, "/integrity/structure?fix=true", &body)

	assert.Equal(t, 200, status)
	assert.Equal(t, "fixed", body["status"])
	env.client.AssertNumberOfCalls(t, "PutObject", 4)
}

func TestHandleServerCheck(t *testing.T) {
	env := setupTestApp(t)

	var body map[string]any
	status := decode(t, env.app, "/integrity/server", &body)

	assert.Equal(t, 200, status)
	assert.Equal(t, true, body["matched"])
}

func TestHandleAssetsCheck(t *testing.T) {
	env := setupTestApp(t)
	ctx := context.Background()

	up, err := env.assets.Upload(ctx, []byte("x"), asset.Options{Folder: "covers", PublicID: "stray", ContentType: "image/png"})
	require.NoError(t, err)

	var recent []reconcile.Report
	status := decode(t, env.app, "/integrity/assets?kind=covers", &recent)

	assert.Equal(t, 200, status)
	require.Len(t, recent, 1)
	assert.Empty(t, recent[0].Orphans, "a fresh upload is inside the grace period")
	assert.Equal(t, 1, recent[0].Recent)

	var reports []reconcile.Report
	status = decode(t, env.app, "/integrity/assets?kind=covers&grace=0s", &reports)

	assert.Equal(t, 200, status)
	require.Len(t, reports, 1)
	assert.Equal(t, []asset.Reference{up.Ref}, reports[0].Orphans)
	assert.True(t, env.assets.Has(up.Ref), "the audit endpoint never deletes")

	var invalid map[string]any
	status = decode(t, env.app, "/integrity/assets?grace=soon", &invalid)
	assert.Equal(t, 400, status)

	var textOnly []reconcile.Report
	status = decode(t, env.app, "/integrity/assets?kind=about", &textOnly)
	assert.Equal(t, 200, status)
	assert.Empty(t, textOnly)

	var failure map[string]any
	status = decode(t, env.app, "/integrity/assets?kind=videos", &failure)
	assert.Equal(t, 500, status)
}

func TestHandleIntegrityCheck(t *testing.T) {
	env := setupTestApp(t)
	env.client.On("BucketExists", mock.Anything, "test-bucket").Return(false, nil)

	var body map[string]any
	status := decode(t, env.app, "/integrity", &body)

	assert.Equal(t, 200, status)
	assert.Equal(t, "error", body["structure"].(map[string]any)["status"])
	assert.Equal(t, true, body["server"].(map[string]any)["matched"])
	assert.Len(t, body["assets"], 4)
}
