package deploy

import (
	"fmt"
	"strings"
)

// RenderDockerfile produces the build descriptor for a project. The build
// command is embedded verbatim in its RUN line; the start command is
// tokenized on whitespace into an exec-form CMD list.
func RenderDockerfile(buildCommand, startCommand string) string {
	return dedent(fmt.Sprintf(`
		FROM node:18-alpine
		WORKDIR /app
		COPY package.json .
		RUN npm install
		COPY . .
		RUN %s
		EXPOSE 3000
		CMD [%s]
	`, buildCommand, execForm(startCommand)))
}

// RenderDockerignore produces the companion ignore file. The dependency
// directory is always excluded.
func RenderDockerignore() string {
	return dedent(`
		node_modules
		npm-debug.log
		.git
	`)
}

// execForm renders a shell command as a list of quoted tokens.
func execForm(command string) string {
	tokens := strings.Fields(command)
	quoted := make([]string, len(tokens))
	for i, token := range tokens {
		quoted[i] = fmt.Sprintf("%q", token)
	}
	return strings.Join(quoted, ", ")
}

// dedent strips leading blank lines and each line's leading indentation so
// rendered text is stable regardless of how the source template is indented.
// Interior and trailing whitespace within a line is preserved.
func dedent(text string) string {
	lines := strings.Split(text, "\n")
	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	out := make([]string, 0, len(lines)-start)
	for _, line := range lines[start:] {
		out = append(out, strings.TrimLeft(line, " \t"))
	}
	return strings.Join(out, "\n")
}
