// Package schemas embeds the JSON Schemas for documents accepted by the API and CLI.
package schemas

import "embed"

//go:embed *.schema.json
var files embed.FS

// ResumeDataFile is the schema for an imported ResumeData document.
const ResumeDataFile = "resume_data.schema.json"

// Read returns the contents of an embedded schema file.
func Read(name string) ([]byte, error) {
	return files.ReadFile(name)
}

// Names lists the embedded schema files.
func Names() []string {
	entries, err := files.ReadDir(".")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
