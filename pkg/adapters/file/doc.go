// Package file provides filesystem adapters: a flow document loader (YAML or JSON)
// and a session store that keeps one JSON file per session.
package file
