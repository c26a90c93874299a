// Command scribe runs the writing pipelines from the terminal.
//
//	scribe run blog --subject "Go generics" --preference "backend developers"
//	scribe run youtube --subject https://youtu.be/dQw4w9WgXcQ
//	scribe variants
//	scribe config
//	scribe serve --port 8892
//
// Configuration comes from the environment and an optional .env file; see
// internal/bootstrap for the variable names.
package main
