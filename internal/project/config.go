package project

import (
	"fmt"

	"github.com/magic-gear/calcifer/internal/value"
)

// Config block keys. A block is written to its own file, or inlined into
// package.json under Key when the user keeps config in the manifest.
const (
	ConfigBrowserslist = "browserslist"
	ConfigBabel        = "babel"
	ConfigESLint       = "eslintConfig"
	ConfigJest         = "jest"
	ConfigPrettier     = "prettier"
	ConfigTypeScript   = "tsconfig"
)

// ConfigBlock is a tool configuration value and where it can live.
type ConfigBlock struct {
	Key       string
	File      string
	Transform string
	Value     *value.Object
	Enabled   bool
	// FileOnly blocks are never inlined into package.json.
	FileOnly bool
	// asFile converts Value into the shape the file transform expects.
	asFile func(*value.Object) any
}

func (b *ConfigBlock) fileValue() any {
	if b.asFile != nil {
		return b.asFile(b.Value)
	}
	return b.Value
}

func baseConfigs() []*ConfigBlock {
	return []*ConfigBlock{
		{
			Key:       ConfigBrowserslist,
			File:      ".browserslistrc",
			Transform: "lines",
			Value:     browserslistConfig(),
			Enabled:   true,
			asFile:    flattenBrowserslist,
		},
		{Key: ConfigBabel, File: "babel.config.js", Transform: "js", Value: babelConfig(), Enabled: true},
		{Key: ConfigESLint, File: ".eslintrc.js", Transform: "js", Value: eslintConfig(), Enabled: true},
		{Key: ConfigJest, File: "jest.config.js", Transform: "js", Value: jestConfig()},
		{Key: ConfigPrettier, File: ".prettierrc.yml", Transform: "yaml", Value: prettierConfig()},
		{Key: ConfigTypeScript, File: "tsconfig.json", Transform: "json", Value: tsConfig(), FileOnly: true},
	}
}

// flattenBrowserslist turns {env: [queries]} into .browserslistrc lines
// with an [env] header per section.
func flattenBrowserslist(v *value.Object) any {
	var lines []any
	for _, env := range v.Keys() {
		queries, _ := v.Get(env)
		lines = append(lines, fmt.Sprintf("[%s]", env))
		if list, ok := queries.([]any); ok {
			lines = append(lines, list...)
		}
	}
	return lines
}

func browserslistConfig() *value.Object {
	return value.Of(
		"production", []string{">0.2%", "not dead", "not op_mini all", "chrome 68"},
		"development", []string{"last 1 chrome version", "last 1 firefox version", "last 1 safari version"},
	)
}

func babelConfig() *value.Object {
	return value.Of(
		"presets", []string{"@babel/preset-env", "@babel/react"},
		"plugins", []any{
			[]any{"@babel/transform-runtime", value.Of("regenerator", true)},
			"@babel/proposal-optional-chaining",
			"@babel/proposal-nullish-coalescing-operator",
			"@babel/proposal-class-properties",
		},
	)
}

func eslintConfig() *value.Object {
	return value.Of(
		"env", value.Of("browser", true, "commonjs", true, "es2021", true, "node", true),
		"extends", []string{"eslint:recommended", "plugin:react/recommended"},
		"parserOptions", value.Of(
			"ecmaVersion", 12,
			"ecmaFeatures", value.Of("jsx", true),
			"sourceType", "module",
		),
		"plugins", []string{"react", "react-hooks"},
		"settings", value.Of("react", value.Of("version", "detect")),
		"rules", value.Of(
			"no-console", "off",
			"linebreak-style", "off",
			"no-mixed-spaces-and-tabs", "warn",
			"no-unused-vars", []any{"error", value.Of("varsIgnorePattern", "^_")},
			"no-empty", []any{"error", value.Of("allowEmptyCatch", true)},
			"no-useless-escape", "warn",
			"no-case-declarations", "warn",
			"react/prop-types", []any{"warn", value.Of("skipUndeclared", true)},
			"react/no-unescaped-entities", "warn",
			"react/display-name", []any{0},
			"prefer-const", "error",
			"react-hooks/rules-of-hooks", "error",
			"react-hooks/exhaustive-deps", "error",
		),
		"parser", "babel-eslint",
	)
}

func jestConfig() *value.Object {
	return value.Of(
		"moduleFileExtensions", []string{"js", "jsx", "ts", "tsx"},
		"testPathIgnorePatterns", []string{"/node_modules/"},
	)
}

func tsConfig() *value.Object {
	return value.Of(
		"compilerOptions", value.Of("module", "commonjs", "target", "es5", "sourceMap", true),
		"exclude", []string{"node_modules"},
	)
}

func prettierConfig() *value.Object {
	return value.Of(
		"printWidth", 100,
		"semi", false,
		"trailingComma", "none",
		"singleQuote", true,
	)
}

// applyBase extends the manifest with the tooling every project gets.
func applyBase(g *Generation) {
	g.ExtendPackage(value.Of(
		"devDependencies", value.Of(
			"babel-eslint", "^10.1.0",
			"babel-loader", "^8.2.2",
			"@babel/core", "^7.12.10",
			"@babel/runtime", "^7.12.5",
			"@babel/preset-env", "^7.12.11",
			"@babel/preset-react", "^7.12.10",
			"@babel/plugin-transform-runtime", "^7.12.10",
			"@babel/plugin-proposal-class-properties", "^7.12.1",
			"@babel/plugin-proposal-nullish-coalescing-operator", "^7.12.1",
			"@babel/plugin-proposal-optional-chaining", "^7.12.7",
		),
	))

	g.ExtendPackage(value.Of(
		"scripts", value.Of(
			"start", "cross-env NODE_ENV=development webpack serve",
			"build", "cross-env NODE_ENV=production webpack",
		),
		"dependencies", value.Of(
			"react", "^17.0.1",
			"react-dom", "^17.0.1",
		),
		"devDependencies", value.Of(
			"@pmmmwh/react-refresh-webpack-plugin", "0.4.2",
			"react-refresh", "^0.9.0",
			"style-loader", "^2.0.0",
			"postcss", "^8.2.4",
			"postcss-loader", "^4.2.0",
			"postcss-normalize", "^9.0.0",
			"postcss-preset-env", "^6.7.0",
			"postcss-flexbugs-fixes", "^5.0.2",
			"mini-css-extract-plugin", "^1.3.4",
			"cross-env", "^7.0.3",
			"css-loader", "^5.0.1",
			"url-loader", "^4.1.1",
			"copy-webpack-plugin", "^7.0.0",
			"html-webpack-plugin", "^5.0.0-beta.6",
			"clean-webpack-plugin", "^3.0.0",
			"webpack", "^5.16.0",
			"webpack-cli", "^4.4.0",
			"webpack-dev-server", "3.11.2",
		),
	))
}
