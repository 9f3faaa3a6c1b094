package mydropbox_test

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/mydropbox"
	"github.com/sagarc03/mydropbox/gateway"
	"github.com/sagarc03/mydropbox/gateway/gatewaytest"
)

func TestScenario_UploadShareDownload(t *testing.T) {
	ctx := context.Background()
	gw := gatewaytest.New(t)

	aliceDir := t.TempDir()
	alice, err := mydropbox.NewService(gw.Client(t), mydropbox.WithLocalDir(aliceDir))
	require.NoError(t, err)

	bobDir := t.TempDir()
	bob, err := mydropbox.NewService(gw.Client(t), mydropbox.WithLocalDir(bobDir))
	require.NoError(t, err)

	session := mydropbox.NewSession()

	require.NoError(t, alice.Register(ctx, "alice", "pw", "pw"))
	require.NoError(t, alice.Register(ctx, "bob", "pw", "pw"))
	require.NoError(t, alice.Login(ctx, session, "alice", "pw"))

	require.NoError(t, os.WriteFile(filepath.Join(aliceDir, "notes.txt"), []byte("hello"), 0o600))

	uploaded, err := alice.Upload(ctx, "notes.txt", session.Username())
	require.NoError(t, err)
	assert.Equal(t, int64(5), uploaded.Size)

	call, ok := gw.LastCall(gateway.RoutePut)
	require.True(t, ok)
	var body map[string]string
	require.NoError(t, json.Unmarshal(call.Body, &body))
	assert.Equal(t, map[string]string{
		"owner":     "alice",
		"file_name": "notes.txt",
		"file":      mydropbox.EncodeContent([]byte("hello")),
	}, body)

	files, err := alice.View(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "alice/notes.txt", files[0].Key)

	require.NoError(t, alice.Share(ctx, "notes.txt", "bob"))

	shared, err := bob.View(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, shared, 1)
	assert.Equal(t, "alice", shared[0].Owner)

	downloaded, err := bob.Download(ctx, "notes.txt", "alice")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(bobDir, "notes.txt"), downloaded.LocalPath)

	data, err := os.ReadFile(downloaded.LocalPath)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, alice.Logout(ctx, session))
	assert.False(t, session.IsAuthenticated())
	assert.Equal(t, 1, gw.CallCount(gateway.RouteLogout))
}

func TestScenario_DownloadMissingFile(t *testing.T) {
	ctx := context.Background()
	gw := gatewaytest.New(t)
	dir := t.TempDir()

	svc, err := mydropbox.NewService(gw.Client(t), mydropbox.WithLocalDir(dir))
	require.NoError(t, err)

	_, err = svc.Download(ctx, "missing.txt", "alice")
	assert.ErrorIs(t, err, gateway.ErrNotFound)
	assert.NoFileExists(t, filepath.Join(dir, "missing.txt"))
}

func TestScenario_DownloadEmptyPayload(t *testing.T) {
	ctx := context.Background()
	gw := gatewaytest.New(t)
	gw.Override(http.MethodGet, gateway.RouteGet, func(w http.ResponseWriter, _ *http.Request) {
		gatewaytest.WriteJSON(w, http.StatusOK, map[string]string{})
	})
	dir := t.TempDir()

	svc, err := mydropbox.NewService(gw.Client(t), mydropbox.WithLocalDir(dir))
	require.NoError(t, err)

	_, err = svc.Download(ctx, "notes.txt", "alice")
	assert.ErrorIs(t, err, mydropbox.ErrFileNotFound)
	assert.NoFileExists(t, filepath.Join(dir, "notes.txt"))
}

func TestScenario_LoginRejected(t *testing.T) {
	ctx := context.Background()
	gw := gatewaytest.New(t)
	gw.AddUser("alice", "pw")

	svc, err := mydropbox.NewService(gw.Client(t))
	require.NoError(t, err)

	session := mydropbox.NewSession()
	err = svc.Login(ctx, session, "alice", "wrong")
	assert.ErrorIs(t, err, gateway.ErrUnauthorized)
	assert.False(t, session.IsAuthenticated())
}
