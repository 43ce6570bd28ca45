package pkgmanager

import (
	"sort"
	"strings"
)

// Registries maps short registry names to their URLs.
var Registries = map[string]string{
	"npm":    "https://registry.npmjs.org",
	"yarn":   "https://registry.yarnpkg.com",
	"taobao": "https://registry.npmmirror.com",
}

// DefaultRegistry is used when no registry is configured.
const DefaultRegistry = "npm"

// mirrorRegistry is the registry whose users get binary download mirrors.
const mirrorRegistry = "taobao"

// ResolveRegistry turns a registry name or URL into a URL without a
// trailing slash. An empty value selects DefaultRegistry.
func ResolveRegistry(nameOrURL string) string {
	if nameOrURL == "" {
		nameOrURL = DefaultRegistry
	}
	if url, ok := Registries[nameOrURL]; ok {
		return url
	}
	return strings.TrimRight(nameOrURL, "/")
}

// RegistryNames returns the known registry names in sorted order.
func RegistryNames() []string {
	names := make([]string, 0, len(Registries))
	for name := range Registries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
