package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ocireg/registry/internal/registry"
)

func TestAnonProbeUnauthorized(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest("GET", "/v2/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, 401, resp.StatusCode)
	assert.Equal(t, `Basic realm="ContainerRegistry"`, resp.Header.Get("WWW-Authenticate"))
}

func TestAuthProbeOK(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest("GET", "/v2/", nil)
	req.Header.Set("Authorization", basicAuthHeader(testUsername, testPassword))
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, `Basic realm="ContainerRegistry"`, resp.Header.Get("WWW-Authenticate"))
	body, _ := io.ReadAll(resp.Body)
	assert.Empty(t, body)
}

func TestMonolithicPushAndHead(t *testing.T) {
	app := newTestApp(t)
	payload := []byte("monolithic blob payload exercised end to end")
	digest := registry.DigestFromBytes(payload)

	postReq := httptest.NewRequest("POST", "/v2/tests/sample/blobs/uploads/", nil)
	postReq.Header.Set("Authorization", basicAuthHeader(testUsername, testPassword))
	postResp, err := app.Test(postReq)
	require.NoError(t, err)
	require.Equal(t, 202, postResp.StatusCode)
	location := postResp.Header.Get("Location")
	require.NotEmpty(t, location)

	patchReq := httptest.NewRequest("PATCH", location, bytes.NewReader(payload))
	patchReq.Header.Set("Authorization", basicAuthHeader(testUsername, testPassword))
	patchResp, err := app.Test(patchReq)
	require.NoError(t, err)
	require.Equal(t, 202, patchResp.StatusCode)
	assert.Equal(t, fmt.Sprintf("0-%d", len(payload)), patchResp.Header.Get("Range"))

	finalizeURL := fmt.Sprintf("%s?digest=%s", location, digest.String())
	putReq := httptest.NewRequest("PUT", finalizeURL, nil)
	putReq.Header.Set("Authorization", basicAuthHeader(testUsername, testPassword))
	putResp, err := app.Test(putReq)
	require.NoError(t, err)
	require.Equal(t, 201, putResp.StatusCode)
	assert.Equal(t, digest.String(), putResp.Header.Get("Docker-Content-Digest"))

	headReq := httptest.NewRequest("HEAD", "/v2/tests/sample/blobs/"+digest.String(), nil)
	headReq.Header.Set("Authorization", basicAuthHeader(testUsername, testPassword))
	headResp, err := app.Test(headReq)
	require.NoError(t, err)
	assert.Equal(t, 200, headResp.StatusCode)
	assert.Equal(t, digest.String(), headResp.Header.Get("Docker-Content-Digest"))

	getReq := httptest.NewRequest("GET", "/v2/tests/sample/blobs/"+digest.String(), nil)
	getReq.Header.Set("Authorization", basicAuthHeader(testUsername, testPassword))
	getResp, err := app.Test(getReq)
	require.NoError(t, err)
	assert.Equal(t, 200, getResp.StatusCode)
	got, err := io.ReadAll(getResp.Body)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestManifestPushAndDualGet(t *testing.T) {
	app := newTestApp(t)
	manifest := []byte(`{"schemaVersion":2,"mediaType":"application/vnd.oci.image.manifest.v1+json"}`)
	digest := registry.DigestFromBytes(manifest)

	putReq := httptest.NewRequest("PUT", "/v2/tests/sample/manifests/latest", bytes.NewReader(manifest))
	putReq.Header.Set("Authorization", basicAuthHeader(testUsername, testPassword))
	putResp, err := app.Test(putReq)
	require.NoError(t, err)
	require.Equal(t, 201, putResp.StatusCode)
	assert.Equal(t, digest.String(), putResp.Header.Get("Docker-Content-Digest"))

	byTagReq := httptest.NewRequest("GET", "/v2/tests/sample/manifests/latest", nil)
	byTagReq.Header.Set("Authorization", basicAuthHeader(testUsername, testPassword))
	byTagResp, err := app.Test(byTagReq)
	require.NoError(t, err)
	require.Equal(t, 200, byTagResp.StatusCode)
	byTagBody, _ := io.ReadAll(byTagResp.Body)
	assert.Equal(t, manifest, byTagBody)

	byDigestReq := httptest.NewRequest("GET", "/v2/tests/sample/manifests/"+digest.String(), nil)
	byDigestReq.Header.Set("Authorization", basicAuthHeader(testUsername, testPassword))
	byDigestResp, err := app.Test(byDigestReq)
	require.NoError(t, err)
	require.Equal(t, 200, byDigestResp.StatusCode)
	byDigestBody, _ := io.ReadAll(byDigestResp.Body)
	assert.Equal(t, manifest, byDigestBody)
}

func TestMissingManifestNotFound(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest("GET", "/v2/doesnot/exist/manifests/latest", nil)
	req.Header.Set("Authorization", basicAuthHeader(testUsername, testPassword))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	var envelope struct {
		Errors []struct {
			Code string `json:"code"`
		} `json:"errors"`
	}
	body, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(body, &envelope))
	require.Len(t, envelope.Errors, 1)
	assert.Equal(t, "BLOB_UNKNOWN", envelope.Errors[0].Code)
}

func TestPatchWithRangeHeaderRejected(t *testing.T) {
	app := newTestApp(t)

	postReq := httptest.NewRequest("POST", "/v2/tests/sample/blobs/uploads/", nil)
	postReq.Header.Set("Authorization", basicAuthHeader(testUsername, testPassword))
	postResp, err := app.Test(postReq)
	require.NoError(t, err)
	location := postResp.Header.Get("Location")

	patchReq := httptest.NewRequest("PATCH", location, bytes.NewReader([]byte("chunk")))
	patchReq.Header.Set("Authorization", basicAuthHeader(testUsername, testPassword))
	patchReq.Header.Set("Range", "0-4")
	resp, err := app.Test(patchReq)
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
}

func TestFinalizeWithNonZeroContentLengthRejected(t *testing.T) {
	app := newTestApp(t)

	postReq := httptest.NewRequest("POST", "/v2/tests/sample/blobs/uploads/", nil)
	postReq.Header.Set("Authorization", basicAuthHeader(testUsername, testPassword))
	postResp, err := app.Test(postReq)
	require.NoError(t, err)
	location := postResp.Header.Get("Location")

	digest := registry.DigestFromBytes([]byte("irrelevant"))
	putReq := httptest.NewRequest("PUT", fmt.Sprintf("%s?digest=%s", location, digest.String()), bytes.NewReader([]byte("nonempty")))
	putReq.Header.Set("Authorization", basicAuthHeader(testUsername, testPassword))
	putReq.ContentLength = 8
	resp, err := app.Test(putReq)
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
}
