// Package command composes shell command execution out of decorated stages.
//
// A Function compiles command templates, executes them through execshell, and
// converts results through attached Transform layers. Attaching a transform
// with Map never mutates the original function, so a base function can branch
// into many specialized variants that each keep their own cleanup list.
package command
