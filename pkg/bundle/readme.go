package bundle

import (
	"bytes"
	"fmt"
	"text/template"
)

var readmeTemplate = template.Must(template.New("readme").Parse(
	"# Frontier Counter Demo Bundle\n\n" +
		"Thanks for taking the Vello counter demo for a spin! The bundle contains:\n\n" +
		"- `{{.HostBinary}}`: native host binary\n" +
		"- `{{.Component}}`: release-built guest component\n\n" +
		"## Run the Demo\n\n" +
		"```sh\n" +
		"./{{.HostBinary}} --component {{.Component}}\n" +
		"```\n\n" +
		"The window opens showing the counter demo. Use the mouse wheel or +/- keys to change the value.\n" +
		"Press `R` to restart the component if something goes wrong.\n\n" +
		"Happy hacking!\n",
))

// RenderReadme returns the README text naming the layout's host and component.
func RenderReadme(l Layout) ([]byte, error) {
	var buf bytes.Buffer
	if err := readmeTemplate.Execute(&buf, l); err != nil {
		return nil, fmt.Errorf("error rendering readme: %w", err)
	}

	return buf.Bytes(), nil
}
