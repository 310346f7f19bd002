// Package statsview serves live runtime statistics of the emulator in a
// browser. The server is only compiled in with the statsview build tag:
//
//	go build -tags statsview .
//
// Without the tag Launch only reports that the server is not available.
package statsview
