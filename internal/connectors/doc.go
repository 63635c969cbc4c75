// Package connectors provides implementations of the Connector interface
// for document sources. The filesystem connector walks directory trees
// and watches them for changes; uploads arrive through the web adapter
// as raw documents instead.
package connectors
