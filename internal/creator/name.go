package creator

import (
	"fmt"
	"net/url"
	"strings"
)

const maxNameLength = 214

var blacklistedNames = []string{"node_modules", "favicon.ico"}

var nodeBuiltins = map[string]bool{
	"assert": true, "async_hooks": true, "buffer": true, "child_process": true,
	"cluster": true, "console": true, "constants": true, "crypto": true,
	"dgram": true, "diagnostics_channel": true, "dns": true, "domain": true,
	"events": true, "fs": true, "http": true, "http2": true, "https": true,
	"inspector": true, "module": true, "net": true, "os": true, "path": true,
	"perf_hooks": true, "process": true, "punycode": true, "querystring": true,
	"readline": true, "repl": true, "stream": true, "string_decoder": true,
	"sys": true, "timers": true, "tls": true, "trace_events": true, "tty": true,
	"url": true, "util": true, "v8": true, "vm": true, "wasi": true,
	"worker_threads": true, "zlib": true,
}

// NameCheck is the outcome of validating a package name against npm's
// naming rules. Errors make a name invalid everywhere; warnings only rule
// out new packages.
type NameCheck struct {
	Errors   []string
	Warnings []string
}

// ValidForNewPackages reports whether a new package may use the name.
func (c NameCheck) ValidForNewPackages() bool {
	return len(c.Errors) == 0 && len(c.Warnings) == 0
}

// ValidForOldPackages reports whether an existing package could carry the
// name.
func (c NameCheck) ValidForOldPackages() bool {
	return len(c.Errors) == 0
}

// CheckName applies npm's package name rules.
func CheckName(name string) NameCheck {
	var c NameCheck

	if name == "" {
		c.Errors = append(c.Errors, "name length must be greater than zero")
	}
	if strings.HasPrefix(name, ".") {
		c.Errors = append(c.Errors, "name cannot start with a period")
	}
	if strings.HasPrefix(name, "_") {
		c.Errors = append(c.Errors, "name cannot start with an underscore")
	}
	if strings.TrimSpace(name) != name {
		c.Errors = append(c.Errors, "name cannot contain leading or trailing spaces")
	}

	lower := strings.ToLower(name)
	for _, b := range blacklistedNames {
		if lower == b {
			c.Errors = append(c.Errors, fmt.Sprintf("%s is a blacklisted name", b))
		}
	}

	if nodeBuiltins[lower] {
		c.Warnings = append(c.Warnings, fmt.Sprintf("%s is a core module name", name))
	}
	if len(name) > maxNameLength {
		c.Warnings = append(c.Warnings, fmt.Sprintf("name can no longer contain more than %d characters", maxNameLength))
	}
	if lower != name {
		c.Warnings = append(c.Warnings, "name can no longer contain capital letters")
	}

	last := name
	if i := strings.LastIndex(name, "/"); i >= 0 {
		last = name[i+1:]
	}
	if strings.ContainsAny(last, "~'!()*") {
		c.Warnings = append(c.Warnings, `name can no longer contain special characters ("~'!()*")`)
	}

	if !urlFriendly(name) {
		c.Errors = append(c.Errors, "name can only contain URL-friendly characters")
	}

	return c
}

// urlFriendly reports whether name survives URI component encoding
// unchanged. A scoped name is checked per part.
func urlFriendly(name string) bool {
	if encodeComponent(name) == name {
		return true
	}
	if scope, pkg, ok := strings.Cut(name, "/"); ok && strings.HasPrefix(scope, "@") {
		user := scope[1:]
		return user != "" && pkg != "" &&
			encodeComponent(user) == user && encodeComponent(pkg) == pkg
	}
	return false
}

// encodeComponent matches JavaScript's encodeURIComponent, which leaves
// !'()* unescaped where url.QueryEscape does not.
func encodeComponent(s string) string {
	e := url.QueryEscape(s)
	e = strings.ReplaceAll(e, "+", "%20")
	for _, r := range []string{"!", "'", "(", ")", "*"} {
		e = strings.ReplaceAll(e, url.QueryEscape(r), r)
	}
	return e
}
