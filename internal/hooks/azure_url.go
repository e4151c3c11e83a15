package hooks

import (
	"fmt"
	"net/url"
)

func parseAzureContainerURL(account, container string) (url.URL, error) {
	parsed, err := url.Parse(fmt.Sprintf("https://%s.blob.core.windows.net/%s", account, container))
	if err != nil {
		return url.URL{}, fmt.Errorf("failed to parse container URL: %w", err)
	}
	return *parsed, nil
}
