// Package fetch implements the HTTP client collaborator interface spec.md
// section 6 names (get(uri) -> text, failing with
// UnableToLoadPublicSuffixList) for the Public Suffix List text file. It is
// grounded on the teacher's psl.go downloadFile/update functions,
// generalized from one hardcoded source into a caller-supplied mirror list
// so a caller can reproduce the teacher's own publicSuffixListSources
// fallback behavior.
package fetch

import (
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/go-psl/psl"
)

// DefaultSources mirrors the teacher's publicSuffixListSources: the
// canonical PSL URL followed by its GitHub raw-content mirror.
var DefaultSources = []string{
	"https://publicsuffix.org/list/public_suffix_list.dat",
	"https://raw.githubusercontent.com/publicsuffix/list/master/public_suffix_list.dat",
}

// Client fetches Public Suffix List text over HTTP, trying each of Sources
// in order until one succeeds.
type Client struct {
	HTTP    *http.Client
	Sources []string
}

// New returns a Client using http.DefaultClient and DefaultSources.
func New() *Client {
	return &Client{HTTP: http.DefaultClient, Sources: DefaultSources}
}

// Get retrieves the raw PSL text from the first reachable source in
// c.Sources, logging the ones that fail along the way the way the
// teacher's update loop does, and failing with
// ErrUnableToLoadPublicSuffixList only once every mirror has been tried.
func (c *Client) Get() (string, error) {
	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	var lastErr error
	for _, uri := range c.Sources {
		text, err := c.get(httpClient, uri)
		if err != nil {
			log.Println(err)
			lastErr = err
			continue
		}
		return text, nil
	}
	if lastErr != nil {
		return "", fmt.Errorf("%w: %v", psl.ErrUnableToLoadPublicSuffixList, lastErr)
	}
	return "", fmt.Errorf("%w: no sources configured", psl.ErrUnableToLoadPublicSuffixList)
}

func (c *Client) get(httpClient *http.Client, uri string) (string, error) {
	resp, err := httpClient.Get(uri)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s: HTTP status %d", uri, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
