package registry

import (
	"encoding/json"
	"errors"
)

// manifestEnvelope is the minimal shape the registry parses out of a
// manifest body: just enough to serve back a Content-Type header. The rest
// of the document is treated as opaque bytes, per the storage model.
type manifestEnvelope struct {
	MediaType string `json:"mediaType"`
}

// ManifestMediaType extracts the declared mediaType from manifest bytes.
// Returns KindParseManifest if the bytes are not valid JSON, or if they
// parse but omit mediaType entirely — a manifest without a media type is
// not servable, not a case to guess through.
func ManifestMediaType(raw []byte) (string, error) {
	var env manifestEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", Wrap(KindParseManifest, err)
	}
	if env.MediaType == "" {
		return "", Wrap(KindParseManifest, errors.New("missing media type"))
	}
	return env.MediaType, nil
}
