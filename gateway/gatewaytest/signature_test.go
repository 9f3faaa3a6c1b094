package gatewaytest_test

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/mydropbox/gateway/gatewaytest"
)

func TestServer_PresignedURL(t *testing.T) {
	srv := gatewaytest.New(t)
	srv.AddFile("alice", "a.txt", []byte("hello"))

	fileURL, err := srv.Client(t).FileURL(context.Background(), "alice", "a.txt")
	require.NoError(t, err)

	tamper := func(key, value string) string {
		u, err := url.Parse(fileURL)
		require.NoError(t, err)
		q := u.Query()
		if value == "" {
			q.Del(key)
		} else {
			q.Set(key, value)
		}
		u.RawQuery = q.Encode()
		return u.String()
	}

	tests := []struct {
		name     string
		url      string
		wantCode int
	}{
		{name: "valid", url: fileURL, wantCode: http.StatusOK},
		{name: "wrong signature", url: tamper("X-Amz-Signature", "deadbeef"), wantCode: http.StatusForbidden},
		{name: "missing signature", url: tamper("X-Amz-Signature", ""), wantCode: http.StatusForbidden},
		{name: "wrong algorithm", url: tamper("X-Amz-Algorithm", "AWS4-HMAC-SHA1"), wantCode: http.StatusForbidden},
		{name: "bad expires", url: tamper("X-Amz-Expires", "0"), wantCode: http.StatusForbidden},
		{name: "bad date", url: tamper("X-Amz-Date", "yesterday"), wantCode: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(tt.url) //nolint:noctx // test request
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, tt.wantCode, resp.StatusCode)
			if tt.wantCode == http.StatusOK {
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				assert.Equal(t, "hello", string(body))
			}
		})
	}
}

func TestServer_PresignedURL_OtherPath(t *testing.T) {
	srv := gatewaytest.New(t)
	srv.AddFile("alice", "a.txt", []byte("hello"))
	srv.AddFile("alice", "b.txt", []byte("other"))

	fileURL, err := srv.Client(t).FileURL(context.Background(), "alice", "a.txt")
	require.NoError(t, err)

	u, err := url.Parse(fileURL)
	require.NoError(t, err)
	u.Path = "/" + gatewaytest.Bucket + "/alice/b.txt"

	resp, err := http.Get(u.String()) //nolint:noctx // test request
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
