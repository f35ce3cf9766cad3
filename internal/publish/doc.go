// Package publish pushes compiled configuration documents to a driver bridge
// over socket.io.
package publish
