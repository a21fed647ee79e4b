package scaffold

// Extensions holds the file extension tag resolved for each language.
type Extensions struct {
	Markup string `json:"markup" yaml:"markup"`
	Script string `json:"script" yaml:"script"`
	Style  string `json:"style" yaml:"style"`
}

// MarkupExt returns "jade" for Jade templates and "html" otherwise.
func MarkupExt(m MarkupPreprocessor) string {
	if m == MarkupTemplate {
		return "jade"
	}
	return "html"
}

// ScriptExt returns "coffee" for CoffeeScript and "js" otherwise.
func ScriptExt(s ScriptPreprocessor) string {
	if s == ScriptCompiled {
		return "coffee"
	}
	return "js"
}

// StyleExt returns "scss" for Sass and "css" otherwise.
func StyleExt(s StylePreprocessor) string {
	if s == StyleCompiled {
		return "scss"
	}
	return "css"
}

// ResolveExtensions resolves all three extension tags at once.
func ResolveExtensions(p Preprocessors) Extensions {
	return Extensions{
		Markup: MarkupExt(p.Markup),
		Script: ScriptExt(p.Scripting),
		Style:  StyleExt(p.Styling),
	}
}
