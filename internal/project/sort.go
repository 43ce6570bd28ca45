package project

import "github.com/magic-gear/calcifer/internal/value"

var scriptOrder = []string{
	"start",
	"build",
	"test:unit",
	"test:e2e",
	"lint",
	"deploy",
}

var packageOrder = []string{
	"name",
	"version",
	"private",
	"description",
	"author",
	"scripts",
	"main",
	"module",
	"browser",
	"files",
	"dependencies",
	"devDependencies",
	"peerDependencies",
	"babel",
	"eslintConfig",
	"prettier",
	"postcss",
	"browserslist",
	"jest",
}

// sortPackage returns the manifest in its canonical key order. Dependency
// maps are sorted by name; scripts and top-level keys put the well-known
// entries first and keep the rest in insertion order.
func sortPackage(pkg *value.Object) *value.Object {
	out := pkg.Clone()
	for _, key := range []string{"dependencies", "devDependencies"} {
		if deps := out.Object(key); deps != nil {
			out.Set(key, deps.Sorted())
		}
	}
	if scripts := out.Object("scripts"); scripts != nil {
		out.Set("scripts", scripts.Reorder(scriptOrder))
	}
	return out.Reorder(packageOrder)
}
