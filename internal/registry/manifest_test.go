package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManifestMediaTypeExtractsDeclaredType(t *testing.T) {
	raw := []byte(`{"schemaVersion":2,"mediaType":"application/vnd.oci.image.manifest.v1+json"}`)
	mt, err := ManifestMediaType(raw)
	assert.NoError(t, err)
	assert.Equal(t, "application/vnd.oci.image.manifest.v1+json", mt)
}

func TestManifestMediaTypeRejectsMissingField(t *testing.T) {
	raw := []byte(`{"schemaVersion":2}`)
	_, err := ManifestMediaType(raw)
	assert.Error(t, err)

	var rerr *Error
	assert.ErrorAs(t, err, &rerr)
	assert.Equal(t, KindParseManifest, rerr.Kind)
}

func TestManifestMediaTypeRejectsInvalidJSON(t *testing.T) {
	_, err := ManifestMediaType([]byte("not json"))
	assert.Error(t, err)

	var rerr *Error
	assert.ErrorAs(t, err, &rerr)
	assert.Equal(t, KindParseManifest, rerr.Kind)
}
