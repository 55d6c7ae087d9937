package service

import (
	"bytes"
	"html/template"
)

var welcomeTemplate = template.Must(template.New("welcome").Parse(
	`<h1>Welcome {{.Name}}</h1><p>Your password is: <strong>{{.Password}}</strong></p>`,
))

// renderWelcome builds the HTML body of the registration email.
func renderWelcome(name, password string) (string, error) {
	var buf bytes.Buffer
	if err := welcomeTemplate.Execute(&buf, struct{ Name, Password string }{name, password}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
