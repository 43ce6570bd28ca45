package pkgmanager

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/hashicorp/golang-lru/v2/expirable"

	cerrors "github.com/magic-gear/calcifer/internal/errors"
)

const (
	metadataCacheSize = 200
	metadataCacheTTL  = 30 * time.Minute

	// abbreviatedAccept requests the install-time subset of package
	// metadata.
	abbreviatedAccept = "application/vnd.npm.install-v1+json;q=1.0, application/json;q=0.9, */*;q=0.8"
)

// Metadata is the part of a registry package document calcifer reads.
type Metadata struct {
	Name     string                     `json:"name"`
	DistTags map[string]string          `json:"dist-tags"`
	Versions map[string]json.RawMessage `json:"-"`
}

type metadataDoc struct {
	Name     string            `json:"name"`
	DistTags map[string]string `json:"dist-tags"`
	Versions json.RawMessage   `json:"versions"`
	Error    string            `json:"error"`
}

// VersionList returns the published version strings in sorted order.
func (m *Metadata) VersionList() []string {
	versions := make([]string, 0, len(m.Versions))
	for v := range m.Versions {
		versions = append(versions, v)
	}
	sort.Strings(versions)
	return versions
}

// Client fetches package metadata from one registry and caches it.
type Client struct {
	registry string
	owner    string
	http     *http.Client
	cache    *expirable.LRU[string, *Metadata]
}

// NewClient creates a metadata client for registry. Cache entries are
// scoped by owner, normally the package manager binary name.
func NewClient(registry, owner string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		registry: strings.TrimRight(registry, "/"),
		owner:    owner,
		http:     httpClient,
		cache:    expirable.NewLRU[string, *Metadata](metadataCacheSize, nil, metadataCacheTTL),
	}
}

// Metadata returns the registry document for name. With full unset the
// abbreviated install document is requested.
func (c *Client) Metadata(ctx context.Context, name string, full bool) (*Metadata, error) {
	key := fmt.Sprintf("%s-%s-%s-%t", c.owner, c.registry, name, full)
	if m, ok := c.cache.Get(key); ok {
		return m, nil
	}

	url := c.registry + "/" + name
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, cerrors.NewNetworkError("cannot build request", url, err)
	}
	if !full {
		req.Header.Set("Accept", abbreviatedAccept)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, cerrors.NewNetworkError("failed to get response", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, cerrors.NewNetworkError("failed to read response", url, err)
	}

	var doc metadataDoc
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, cerrors.NewNetworkError(fmt.Sprintf("unexpected response (status %d)", resp.StatusCode), url, err)
	}
	if doc.Error != "" {
		return nil, cerrors.NewNetworkError(doc.Error, url, nil)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, cerrors.NewNetworkError(fmt.Sprintf("unexpected status %d", resp.StatusCode), url, nil)
	}

	m := &Metadata{Name: doc.Name, DistTags: doc.DistTags}
	if m.Versions, err = decodeVersions(doc.Versions); err != nil {
		return nil, cerrors.NewNetworkError("malformed versions", url, err)
	}

	c.cache.Add(key, m)
	return m, nil
}

// decodeVersions accepts the usual version-keyed object as well as a plain
// array of version strings.
func decodeVersions(raw json.RawMessage) (map[string]json.RawMessage, error) {
	versions := make(map[string]json.RawMessage)
	if len(raw) == 0 || string(raw) == "null" {
		return versions, nil
	}
	if raw[0] == '[' {
		var list []string
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, err
		}
		for _, v := range list {
			versions[v] = nil
		}
		return versions, nil
	}
	if err := json.Unmarshal(raw, &versions); err != nil {
		return nil, err
	}
	return versions, nil
}

// RemoteVersion resolves a dist-tag or version range to a published
// version. An empty spec means "latest". It returns "" when nothing
// satisfies the range.
func (c *Client) RemoteVersion(ctx context.Context, name, spec string) (string, error) {
	if spec == "" {
		spec = "latest"
	}
	m, err := c.Metadata(ctx, name, false)
	if err != nil {
		return "", err
	}
	if v, ok := m.DistTags[spec]; ok {
		return v, nil
	}
	return MaxSatisfying(m.VersionList(), spec)
}

// MaxSatisfying returns the highest version in versions that satisfies the
// range, or "" when none does. Unparsable versions are skipped.
func MaxSatisfying(versions []string, rangeSpec string) (string, error) {
	constraint, err := semver.NewConstraint(rangeSpec)
	if err != nil {
		return "", fmt.Errorf("invalid version range %q: %w", rangeSpec, err)
	}

	var best *semver.Version
	var bestRaw string
	for _, raw := range versions {
		v, err := semver.NewVersion(raw)
		if err != nil {
			continue
		}
		if !constraint.Check(v) {
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best, bestRaw = v, raw
		}
	}
	return bestRaw, nil
}
