package pubutils

import (
	"bytes"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/pkg/errors"
)

// ExecuteTemplate parses the provided template, substitutes values and returns the output
func ExecuteTemplate(txt string, context interface{}) (string, error) {
	return ExecuteTemplateFunctions(txt, nil, context)
}

// ExecuteTemplateFunctions parses the provided template with given functions, substitutes values and returns the output
func ExecuteTemplateFunctions(txt string, functions template.FuncMap, context interface{}) (string, error) {
	tmpl := template.New("tmpl").Funcs(sprig.HermeticTxtFuncMap())
	if functions != nil {
		tmpl = tmpl.Funcs(functions)
	}
	tmpl, err := tmpl.Parse(txt)
	if err != nil {
		return "", errors.Wrap(err, "failed to parse template")
	}

	var result bytes.Buffer
	if err := tmpl.Execute(&result, context); err != nil {
		return "", errors.Wrap(err, "failed to execute template")
	}
	return result.String(), nil
}
