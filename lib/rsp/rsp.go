/*
Copyright 2019 Oraspace, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package rsp renders the response files that feed the unattended
// installer and configuration assistants
package rsp

import (
	"bytes"
	"text/template"

	"github.com/gravitational/trace"
)

// Context is the template variable mapping used at render time.
// It is not persisted beyond the upload of the rendered file.
type Context map[string]string

// With returns a copy of the context with the overrides applied on top
func (c Context) With(overrides map[string]string) Context {
	out := make(Context, len(c)+len(overrides))
	for k, v := range c {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// Render renders the named template with the provided context.
// A template variable missing from the context is an error, a silently
// defaulted installer answer is worse than a failed render.
func Render(name string, context Context) ([]byte, error) {
	text, ok := templates[name]
	if !ok {
		return nil, trace.NotFound("no template named %q", name)
	}
	tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, trace.Wrap(err, "failed to parse template %q", name)
	}
	var out bytes.Buffer
	if err := tmpl.Execute(&out, context); err != nil {
		return nil, trace.Wrap(err, "failed to render template %q", name)
	}
	return out.Bytes(), nil
}

// Templates returns the names of all known templates
func Templates() []string {
	out := make([]string, 0, len(templates))
	for name := range templates {
		out = append(out, name)
	}
	return out
}
