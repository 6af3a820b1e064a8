// Package lib acts as a library for modules that do not fit
// strictly into other layers.
//
// It currently holds the output helpers shared by the command line tool.
package lib
