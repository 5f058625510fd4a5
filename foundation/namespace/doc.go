// Package namespace registers modules under dotted paths such as
// "Plankton.obj". Each definition receives the shared root container, reads
// the collaborators already published there and sets its own exports on
// the node for its path.
package namespace
