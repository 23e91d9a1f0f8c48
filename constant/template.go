package constant

// CatalogTemplate is a text/template for scaffolding a new TOML book catalog.
const CatalogTemplate = `# {{ .Title }}
# Generated by {{ .App }} v{{ .Version }}

title  = {{ quote .Title }}
author = {{ quote .Author }}
cover  = {{ quote .Cover }}
{{ range $i, $n := until .KeyPoints }}
[[key_points]]
text  = "Key point {{ plus $i 1 }}"
audio = ""
{{ end }}`
