// Package chat implements the transport-independent core of the Salachat
// hub: ephemeral display-name allocation, the connection session registry,
// room membership with broadcast fan-out, and inline @mention resolution.
//
// Everything in this package is pure state plus text processing. It never
// touches a socket; the server package feeds it connection identifiers and
// a send primitive and consumes its results.
package chat
